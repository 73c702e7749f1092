package repositories

import (
	"context"

	"aerocleanse/etl/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// MaintenanceLogRepo handles maintenance_logs table operations. It only appends.
type MaintenanceLogRepo struct {
	db        *gormlib.DB
	batchSize int
}

// NewMaintenanceLogRepo creates a new maintenance log repository
func NewMaintenanceLogRepo(db *gormlib.DB, batchSize int) *MaintenanceLogRepo {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &MaintenanceLogRepo{db: db, batchSize: batchSize}
}

// AppendBatch inserts all rows in one transaction; on error nothing is written
func (r *MaintenanceLogRepo) AppendBatch(ctx context.Context, logs []gorm.MaintenanceLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		return tx.CreateInBatches(logs, r.batchSize).Error
	})
}

// Count returns total number of stored maintenance events
func (r *MaintenanceLogRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.MaintenanceLog{}).Count(&count).Error
	return count, err
}

// CountBySourceFile returns how many stored rows came from one staged file
func (r *MaintenanceLogRepo) CountBySourceFile(ctx context.Context, sourceFile string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gorm.MaintenanceLog{}).
		Where("source_file = ?", sourceFile).
		Count(&count).Error
	return count, err
}

// GetBySourceFile returns the rows loaded from one staged file in insertion order
func (r *MaintenanceLogRepo) GetBySourceFile(ctx context.Context, sourceFile string) ([]gorm.MaintenanceLog, error) {
	var logs []gorm.MaintenanceLog

	err := r.db.WithContext(ctx).
		Where("source_file = ?", sourceFile).
		Order("id ASC").
		Find(&logs).Error

	if err != nil {
		return nil, err
	}

	return logs, nil
}
