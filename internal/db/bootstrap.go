package db

import (
	"fmt"

	gormModels "aerocleanse/etl/internal/models/gorm"

	"gorm.io/gorm"
)

// EnsureSchema creates the maintenance_logs and pipeline_runs tables when missing.
// The ETL job itself never calls this; it is the init-db command and test setup.
func EnsureSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&gormModels.MaintenanceLog{}, &gormModels.PipelineRun{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
