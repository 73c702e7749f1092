package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for a pipeline run
type MetricsRegistry struct {
	registry *prometheus.Registry

	// File Metrics
	FilesTotal prometheus.CounterVec

	// Record Metrics
	RecordsTotal prometheus.CounterVec

	// Run Metrics
	RunDuration      prometheus.Histogram
	RunsTotal        prometheus.CounterVec
	LastRunTimestamp prometheus.Gauge
	LastRunLoaded    prometheus.Gauge
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics.
// Each registry is independent so a process can run the pipeline more than once.
func NewMetricsRegistry() *MetricsRegistry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &MetricsRegistry{
		registry: reg,

		// File Metrics
		FilesTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aerocleanse_files_total",
				Help: "Staged files handled by outcome (read, failed, skipped, archived, quarantined, archive_failed)",
			},
			[]string{"outcome"},
		),

		// Record Metrics
		RecordsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aerocleanse_records_total",
				Help: "Maintenance records by pipeline stage",
			},
			[]string{"stage"},
		),

		// Run Metrics
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "aerocleanse_run_duration_seconds",
				Help:    "Pipeline run execution time in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
			},
		),
		RunsTotal: *factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aerocleanse_runs_total",
				Help: "Pipeline runs by final status",
			},
			[]string{"status"},
		),
		LastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "aerocleanse_last_run_timestamp_seconds",
				Help: "Unix time the last pipeline run finished",
			},
		),
		LastRunLoaded: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "aerocleanse_last_run_records_loaded",
				Help: "Records appended by the last pipeline run",
			},
		),
	}
}

// RunStats is what a finished run reports to the registry
type RunStats struct {
	Status           string
	FilesRead        int
	FilesFailed      int
	FilesSkipped     int
	FilesArchived    int
	FilesQuarantined int
	ArchiveFailures  int
	RecordsExtracted int
	RecordsDropped   int
	RecordsLoaded    int
	Duration         time.Duration
	FinishedAt       time.Time
}

// ObserveRun records one finished run
func (m *MetricsRegistry) ObserveRun(s RunStats) {
	m.FilesTotal.WithLabelValues("read").Add(float64(s.FilesRead))
	m.FilesTotal.WithLabelValues("failed").Add(float64(s.FilesFailed))
	m.FilesTotal.WithLabelValues("skipped").Add(float64(s.FilesSkipped))
	m.FilesTotal.WithLabelValues("archived").Add(float64(s.FilesArchived))
	m.FilesTotal.WithLabelValues("quarantined").Add(float64(s.FilesQuarantined))
	m.FilesTotal.WithLabelValues("archive_failed").Add(float64(s.ArchiveFailures))

	m.RecordsTotal.WithLabelValues("extracted").Add(float64(s.RecordsExtracted))
	m.RecordsTotal.WithLabelValues("dropped").Add(float64(s.RecordsDropped))
	m.RecordsTotal.WithLabelValues("loaded").Add(float64(s.RecordsLoaded))

	m.RunDuration.Observe(s.Duration.Seconds())
	m.RunsTotal.WithLabelValues(s.Status).Inc()
	m.LastRunTimestamp.Set(float64(s.FinishedAt.Unix()))
	m.LastRunLoaded.Set(float64(s.RecordsLoaded))
}

// WriteTextfile writes the registry in the node_exporter textfile format
func (m *MetricsRegistry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
