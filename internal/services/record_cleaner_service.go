package services

import (
	"time"

	"aerocleanse/etl/internal/common"
	"aerocleanse/etl/internal/constants"
	"aerocleanse/etl/internal/logging"
	"aerocleanse/etl/internal/models/entities"

	"gorm.io/datatypes"
)

// CleanResult is the cleaned batch and how many raw rows were dropped
type CleanResult struct {
	Records []entities.MaintenanceRecord
	Dropped int
}

// RecordCleanerService filters invalid rows and derives event_date, error_code and processed_at
type RecordCleanerService struct {
	dates *common.DateNormalizer
	now   func() time.Time
}

// NewRecordCleanerService creates a cleaner. A nil normalizer parses without memoization.
func NewRecordCleanerService(dates *common.DateNormalizer) *RecordCleanerService {
	return &RecordCleanerService{
		dates: dates,
		now:   time.Now,
	}
}

// WithClock overrides the clock used to stamp processed_at
func (s *RecordCleanerService) WithClock(now func() time.Time) *RecordCleanerService {
	s.now = now
	return s
}

// Clean drops rows without an aircraft ID and normalizes the rest.
// Every surviving row shares one processed_at date captured at the start of the call.
func (s *RecordCleanerService) Clean(records []entities.MaintenanceRecord) CleanResult {
	if len(records) == 0 {
		return CleanResult{}
	}

	y, m, d := s.now().UTC().Date()
	processedAt := datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))

	cleaned := make([]entities.MaintenanceRecord, 0, len(records))
	for _, rec := range records {
		if !rec.HasAircraftID() {
			continue
		}

		rec.EventDate = s.normalizeEventDate(rec.RawEventDate)
		rec.ErrorCode = nil
		if rec.Description != nil {
			if code, ok := common.ExtractErrorCode(*rec.Description); ok {
				rec.ErrorCode = &code
			}
		}
		rec.ProcessedAt = processedAt

		cleaned = append(cleaned, rec)
	}

	dropped := len(records) - len(cleaned)
	logging.Info(constants.MsgRecordsDropped, "dropped", dropped, "kept", len(cleaned))

	return CleanResult{Records: cleaned, Dropped: dropped}
}

func (s *RecordCleanerService) normalizeEventDate(raw *string) *datatypes.Date {
	if raw == nil {
		return nil
	}
	parsed, ok := s.dates.Normalize(*raw)
	if !ok {
		return nil
	}
	date := datatypes.Date(parsed)
	return &date
}
