package gorm

import (
	"time"

	gormlib "gorm.io/gorm"
)

// MaintenanceLog is one cleaned maintenance event appended by the loader.
// The reporting side reads this table, so column names and types are fixed.
type MaintenanceLog struct {
	ID            int64         `gorm:"column:id;primaryKey;autoIncrement"`
	AircraftID    string        `gorm:"column:aircraft_id;type:varchar(50);not null"`
	EventDate     *CalendarDate `gorm:"column:event_date"`
	ErrorCode     *string       `gorm:"column:error_code;type:varchar(20)"`
	Description   *string       `gorm:"column:description;type:text"`
	Technician    *string       `gorm:"column:technician;type:varchar(100)"`
	Location      *string       `gorm:"column:location;type:varchar(100)"`
	PartsReplaced *string       `gorm:"column:parts_replaced;type:varchar(100)"`
	SourceFile    *string       `gorm:"column:source_file;type:varchar(100)"`
	ProcessedAt   CalendarDate  `gorm:"column:processed_at;not null"`
}

// TableName specifies the table name for GORM
func (MaintenanceLog) TableName() string {
	return "maintenance_logs"
}

// BeforeCreate defaults processed_at to the creation date
func (m *MaintenanceLog) BeforeCreate(tx *gormlib.DB) error {
	if time.Time(m.ProcessedAt).IsZero() {
		m.ProcessedAt = NewCalendarDate(time.Now().UTC())
	}
	return nil
}
