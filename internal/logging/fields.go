package logging

// Field names for structured logging.
const (
	FieldError  = "error"
	FieldPath   = "path"
	FieldFiles  = "files"
	FieldJobs   = "jobs"
	FieldLine   = "line"
	FieldReason = "reason"
	FieldRows   = "rows"
	FieldState  = "state"

	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
