package jobs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"aerocleanse/etl/internal/common"
	"aerocleanse/etl/internal/config"
	"aerocleanse/etl/internal/constants"
	"aerocleanse/etl/internal/logging"
	"aerocleanse/etl/internal/metrics"
	gormModels "aerocleanse/etl/internal/models/gorm"
	"aerocleanse/etl/internal/providers"
	"aerocleanse/etl/internal/services"

	"github.com/google/uuid"
)

// RunRecorder persists the outcome of each run
type RunRecorder interface {
	RecordRun(ctx context.Context, run *gormModels.PipelineRun) error
}

// RunSummary aggregates what one pipeline run did
type RunSummary struct {
	RunID      string
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time

	Files            []providers.FileResult
	RecordsExtracted int
	RecordsDropped   int
	Load             services.LoadResult
	Archive          services.ArchiveResult

	// Quarantined is set when the snapshot went to the failed dir
	Quarantined bool
	// Kept is set when the snapshot was left in staging after a load failure
	Kept bool
}

// FilesFailed counts snapshot files that could not be read or parsed
func (s *RunSummary) FilesFailed() int {
	n := 0
	for _, f := range s.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// FilesSkipped counts snapshot files with an unsupported extension
func (s *RunSummary) FilesSkipped() int {
	n := 0
	for _, f := range s.Files {
		if f.Skipped {
			n++
		}
	}
	return n
}

// Degraded reports whether any stage lost data or left files behind
func (s *RunSummary) Degraded() bool {
	return s.FilesFailed() > 0 || s.Load.Failed() || len(s.Archive.Failed) > 0
}

func (s *RunSummary) status() string {
	switch {
	case s.Degraded():
		return constants.RunStatusDegraded
	case len(s.Files) == 0:
		return constants.RunStatusEmpty
	default:
		return constants.RunStatusOK
	}
}

// MaintenanceETLJob runs one extract, transform, load and archive pass over the staging directory
type MaintenanceETLJob struct {
	stagingDir    string
	archiveDir    string
	failedDir     string
	onLoadFailure string
	textfilePath  string

	extractor *providers.StagingProvider
	dates     *common.DateNormalizer
	cleaner   *services.RecordCleanerService
	loader    *services.LoaderService
	archiver  *services.ArchiveService
	runs      RunRecorder
	lock      common.RunLock
	metrics   *metrics.MetricsRegistry
	now       func() time.Time
}

// NewMaintenanceETLJob creates a new maintenance ETL job instance.
// runs and m may be nil; a nil lock disables mutual exclusion.
func NewMaintenanceETLJob(
	cfg *config.Config,
	store services.LogAppender,
	runs RunRecorder,
	lock common.RunLock,
	dates *common.DateNormalizer,
	m *metrics.MetricsRegistry,
) *MaintenanceETLJob {
	if lock == nil {
		lock = common.NoopRunLock{}
	}
	return &MaintenanceETLJob{
		stagingDir:    cfg.Paths.StagingDir,
		archiveDir:    cfg.Paths.ArchiveDir,
		failedDir:     cfg.FailedDirPath(),
		onLoadFailure: cfg.Pipeline.OnLoadFailure,
		textfilePath:  cfg.Metrics.TextfilePath,
		extractor:     providers.NewStagingProvider(cfg.Paths.StagingDir),
		dates:         dates,
		cleaner:       services.NewRecordCleanerService(dates),
		loader:        services.NewLoaderService(store),
		archiver:      services.NewArchiveService(cfg.Paths.StagingDir),
		runs:          runs,
		lock:          lock,
		metrics:       m,
		now:           time.Now,
	}
}

// WithClock overrides the clock for run timestamps and processed_at
func (j *MaintenanceETLJob) WithClock(now func() time.Time) *MaintenanceETLJob {
	j.now = now
	j.cleaner.WithClock(now)
	return j
}

// Run executes the pipeline once. Per-file, load and archive failures are
// reported in the summary; only lock contention and an unreadable staging
// directory are returned as errors.
func (j *MaintenanceETLJob) Run(ctx context.Context) (*RunSummary, error) {
	if err := j.lock.Acquire(ctx); err != nil {
		if errors.Is(err, common.ErrRunLocked) {
			logging.Warn(constants.MsgRunLocked, "staging_dir", j.stagingDir)
		}
		return nil, err
	}
	defer func() {
		if err := j.lock.Release(context.WithoutCancel(ctx)); err != nil {
			logging.Warn("Failed to release run lock", "error", err.Error())
		}
	}()

	summary := &RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: j.now(),
	}
	log := logging.WithRun(summary.RunID, j.stagingDir)
	log.Infow("Starting maintenance ETL run", "archive_dir", j.archiveDir)

	j.ensureDirs()

	// Extract
	extracted, err := j.extractor.Extract()
	if err != nil {
		log.Errorw("Error listing staging directory", "error", err)
		return nil, fmt.Errorf("failed to extract staged files: %w", err)
	}
	summary.Files = extracted.Files
	summary.RecordsExtracted = len(extracted.Records)
	if len(extracted.Files) == 0 {
		log.Infow(constants.MsgNoFilesFound)
	}

	// Transform
	cleaned := j.cleaner.Clean(extracted.Records)
	summary.RecordsDropped = cleaned.Dropped

	// Load
	summary.Load = j.loader.Load(ctx, cleaned.Records)

	// Archive
	j.archiveSnapshot(summary, extracted.FileNames())

	summary.FinishedAt = j.now()
	summary.Status = summary.status()

	j.recordRun(ctx, summary)
	j.observe(summary)

	log.Infow("Completed maintenance ETL run",
		"status", summary.Status,
		"files", len(summary.Files),
		"files_failed", summary.FilesFailed(),
		"records_extracted", summary.RecordsExtracted,
		"records_dropped", summary.RecordsDropped,
		"records_loaded", summary.Load.Loaded,
		"archived", len(summary.Archive.Moved),
		"dates_memoized", j.dates.Memoized(),
		"duration", summary.FinishedAt.Sub(summary.StartedAt).Truncate(time.Millisecond).String(),
	)
	return summary, nil
}

func (j *MaintenanceETLJob) ensureDirs() {
	for _, dir := range []string{j.stagingDir, j.archiveDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logging.Warn("Failed to create pipeline directory", "dir", dir, "error", err.Error())
		}
	}
}

// archiveSnapshot moves the extraction snapshot according to the load-failure policy
func (j *MaintenanceETLJob) archiveSnapshot(summary *RunSummary, names []string) {
	dest := j.archiveDir
	if summary.Load.Failed() {
		switch j.onLoadFailure {
		case constants.LoadFailureKeep:
			logging.Warn("Load failed, leaving staged files for the next run", "files", len(names))
			summary.Kept = true
			summary.Archive = services.ArchiveResult{}
			return
		case constants.LoadFailureArchive:
		default:
			dest = j.failedDir
			summary.Quarantined = true
			logging.Warn("Load failed, quarantining staged files", "destination", dest, "files", len(names))
		}
	}
	summary.Archive = j.archiver.Archive(names, dest)
}

func (j *MaintenanceETLJob) recordRun(ctx context.Context, summary *RunSummary) {
	if j.runs == nil {
		return
	}

	run := &gormModels.PipelineRun{
		RunID:            summary.RunID,
		Status:           summary.Status,
		FilesSeen:        len(summary.Files),
		FilesFailed:      summary.FilesFailed(),
		RecordsExtracted: summary.RecordsExtracted,
		RecordsDropped:   summary.RecordsDropped,
		RecordsLoaded:    summary.Load.Loaded,
		StartedAt:        summary.StartedAt.UTC(),
		FinishedAt:       summary.FinishedAt.UTC(),
	}
	if summary.Quarantined {
		run.FilesQuarantined = len(summary.Archive.Moved)
	} else {
		run.FilesArchived = len(summary.Archive.Moved)
	}
	if summary.Load.Err != nil {
		msg := summary.Load.Err.Error()
		run.LoadError = &msg
	}

	// Run history is informational; a failure here never fails the run
	if err := j.runs.RecordRun(ctx, run); err != nil {
		logging.Warn("Failed to record pipeline run", "run_id", summary.RunID, "error", err.Error())
	}
}

func (j *MaintenanceETLJob) observe(summary *RunSummary) {
	if j.metrics == nil {
		return
	}

	stats := metrics.RunStats{
		Status:           summary.Status,
		FilesRead:        len(summary.Files) - summary.FilesFailed() - summary.FilesSkipped(),
		FilesFailed:      summary.FilesFailed(),
		FilesSkipped:     summary.FilesSkipped(),
		ArchiveFailures:  len(summary.Archive.Failed),
		RecordsExtracted: summary.RecordsExtracted,
		RecordsDropped:   summary.RecordsDropped,
		RecordsLoaded:    summary.Load.Loaded,
		Duration:         summary.FinishedAt.Sub(summary.StartedAt),
		FinishedAt:       summary.FinishedAt,
	}
	if summary.Quarantined {
		stats.FilesQuarantined = len(summary.Archive.Moved)
	} else {
		stats.FilesArchived = len(summary.Archive.Moved)
	}
	j.metrics.ObserveRun(stats)

	if j.textfilePath == "" {
		return
	}
	if err := j.metrics.WriteTextfile(j.textfilePath); err != nil {
		logging.Warn("Failed to write metrics textfile", "path", j.textfilePath, "error", err.Error())
	}
}
