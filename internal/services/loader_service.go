package services

import (
	"context"
	"time"

	"aerocleanse/etl/internal/constants"
	"aerocleanse/etl/internal/logging"
	"aerocleanse/etl/internal/models/entities"
	gormModels "aerocleanse/etl/internal/models/gorm"
)

// LogAppender is the storage the loader appends to
type LogAppender interface {
	AppendBatch(ctx context.Context, logs []gormModels.MaintenanceLog) error
}

// LoadResult reports the outcome of one load attempt
type LoadResult struct {
	Attempted bool
	Loaded    int
	Err       error
}

// Failed reports whether a load was attempted and did not land
func (r LoadResult) Failed() bool {
	return r.Attempted && r.Err != nil
}

// LoaderService appends cleaned batches to maintenance_logs
type LoaderService struct {
	store LogAppender
}

// NewLoaderService creates a loader over store
func NewLoaderService(store LogAppender) *LoaderService {
	return &LoaderService{store: store}
}

// Load appends records. Storage errors are logged with a stack trace and
// returned inside the result; they never abort the caller.
func (s *LoaderService) Load(ctx context.Context, records []entities.MaintenanceRecord) LoadResult {
	if len(records) == 0 {
		logging.Info(constants.MsgNoDataToLoad)
		return LoadResult{}
	}

	logs := make([]gormModels.MaintenanceLog, 0, len(records))
	for _, rec := range records {
		logs = append(logs, ToMaintenanceLog(rec))
	}

	if err := s.store.AppendBatch(ctx, logs); err != nil {
		logging.Error(constants.MsgLoadFailed,
			"error", err,
			"records", len(logs),
		)
		return LoadResult{Attempted: true, Err: err}
	}

	logging.Info(constants.MsgLoadSucceeded, "records", len(logs))
	return LoadResult{Attempted: true, Loaded: len(logs)}
}

// ToMaintenanceLog maps a cleaned record onto its table row
func ToMaintenanceLog(rec entities.MaintenanceRecord) gormModels.MaintenanceLog {
	row := gormModels.MaintenanceLog{
		EventDate:     gormModels.CalendarDateFrom(rec.EventDate),
		ErrorCode:     rec.ErrorCode,
		Description:   rec.Description,
		Technician:    rec.Technician,
		Location:      rec.Location,
		PartsReplaced: rec.PartsReplaced,
		ProcessedAt:   gormModels.NewCalendarDate(time.Time(rec.ProcessedAt)),
	}
	if rec.AircraftID != nil {
		row.AircraftID = *rec.AircraftID
	}
	if rec.SourceFile != "" {
		sourceFile := rec.SourceFile
		row.SourceFile = &sourceFile
	}
	return row
}
