package constants

type (
	FileFormat  string
	CachePrefix string
)

const (
	FileFormatCSV  FileFormat = "csv"
	FileFormatJSON FileFormat = "json"

	CachePrefixEventDate CachePrefix = "EVENT_DATE_"
)

// Record field names shared by both input formats and the maintenance_logs table
const (
	FieldAircraftID    = "aircraft_id"
	FieldEventDate     = "event_date"
	FieldDescription   = "description"
	FieldTechnician    = "technician"
	FieldLocation      = "location"
	FieldPartsReplaced = "parts_replaced"
)

const (
	DefaultStagingDir      = "data/raw"
	DefaultArchiveDir      = "data/processed"
	DefaultFailedSubdir    = "failed"
	DefaultSQLitePath      = "maintenance.db"
	DefaultInsertBatchSize = 100
	DefaultLockFileName    = ".aerocleanse.lock"
	DefaultRedisLockKey    = "aerocleanse:etl:lock"
)
