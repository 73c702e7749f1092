package constants

const (
	MsgNoFilesFound      = "No files found in staging directory"
	MsgNoDataToLoad      = "No data to load"
	MsgLoadFailed        = "Error loading to database"
	MsgLoadSucceeded     = "Successfully loaded records into the database"
	MsgReadFileFailed    = "Error reading staging file"
	MsgArchiveFileFailed = "Error archiving staging file"
	MsgRecordsDropped    = "Dropped rows with missing aircraft IDs"
	MsgRunLocked         = "Another pipeline run holds the lock"
)
