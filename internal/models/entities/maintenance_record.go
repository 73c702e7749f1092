package entities

import (
	"strings"

	"gorm.io/datatypes"
)

// MaintenanceRecord is one maintenance event while a batch is in memory.
// Optional fields are nil when the source row had no value.
type MaintenanceRecord struct {
	AircraftID    *string
	RawEventDate  *string
	EventDate     *datatypes.Date
	Description   *string
	ErrorCode     *string
	Technician    *string
	Location      *string
	PartsReplaced *string

	// Set by the extractor from the staging file name
	SourceFile  string
	ProcessedAt datatypes.Date
}

// HasAircraftID reports whether the record carries a non-blank aircraft identifier
func (r *MaintenanceRecord) HasAircraftID() bool {
	return r.AircraftID != nil && strings.TrimSpace(*r.AircraftID) != ""
}
