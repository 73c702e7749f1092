package gorm

import "time"

// PipelineRun tracks one invocation of the maintenance ETL job
type PipelineRun struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	RunID            string    `gorm:"column:run_id;type:varchar(36);not null;uniqueIndex"`
	Status           string    `gorm:"column:status;type:varchar(20);not null"`
	FilesSeen        int       `gorm:"column:files_seen;not null;default:0"`
	FilesFailed      int       `gorm:"column:files_failed;not null;default:0"`
	RecordsExtracted int       `gorm:"column:records_extracted;not null;default:0"`
	RecordsDropped   int       `gorm:"column:records_dropped;not null;default:0"`
	RecordsLoaded    int       `gorm:"column:records_loaded;not null;default:0"`
	FilesArchived    int       `gorm:"column:files_archived;not null;default:0"`
	FilesQuarantined int       `gorm:"column:files_quarantined;not null;default:0"`
	LoadError        *string   `gorm:"column:load_error;type:text"`
	StartedAt        time.Time `gorm:"column:started_at;not null"`
	FinishedAt       time.Time `gorm:"column:finished_at;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (PipelineRun) TableName() string {
	return "pipeline_runs"
}
