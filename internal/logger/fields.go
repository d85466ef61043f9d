package logger

// Standard field names for structured logging.
const (
	FieldComponent  = "component"
	FieldPlugin     = "plugin"
	FieldGUID       = "guid"
	FieldEntityID   = "entity_id"
	FieldRunID      = "run_id"
	FieldJob        = "job"
	FieldCount      = "count"
	FieldCreated    = "created"
	FieldUpdated    = "updated"
	FieldSkipped    = "skipped"
	FieldDurationMS = "duration_ms"
	FieldURL        = "url"
	FieldStatus     = "status"
	FieldBody       = "body"
	FieldCutoff     = "cutoff"
	FieldError      = "error"
)
