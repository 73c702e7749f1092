package constants

// Run statuses for pipeline_runs table
const (
	RunStatusOK       = "ok"
	RunStatusDegraded = "degraded"
	RunStatusEmpty    = "empty"
)

// Policies applied to staged files when the load stage fails
const (
	LoadFailureQuarantine = "quarantine"
	LoadFailureArchive    = "archive"
	LoadFailureKeep       = "keep"
)
