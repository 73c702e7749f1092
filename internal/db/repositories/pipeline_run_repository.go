package repositories

import (
	"context"

	"aerocleanse/etl/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// PipelineRunRepo handles pipeline run history operations
type PipelineRunRepo struct {
	db *gormlib.DB
}

// NewPipelineRunRepo creates a new run history repository
func NewPipelineRunRepo(db *gormlib.DB) *PipelineRunRepo {
	return &PipelineRunRepo{db: db}
}

// RecordRun stores the outcome of one pipeline invocation
func (r *PipelineRunRepo) RecordRun(ctx context.Context, run *gorm.PipelineRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// GetLastRun returns the most recent run, or nil when none was recorded
func (r *PipelineRunRepo) GetLastRun(ctx context.Context) (*gorm.PipelineRun, error) {
	var run gorm.PipelineRun

	err := r.db.WithContext(ctx).
		Order("started_at DESC, id DESC").
		First(&run).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil // No run history found
		}
		return nil, err
	}

	return &run, nil
}

// FindByRunID finds a run by its run identifier
func (r *PipelineRunRepo) FindByRunID(ctx context.Context, runID string) (*gorm.PipelineRun, error) {
	var run gorm.PipelineRun

	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		First(&run).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &run, nil
}
