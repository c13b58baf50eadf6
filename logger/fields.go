package logger

// Standard field names for consistent structured logging across avrflags.
const (
	FieldComponent = "component"
	FieldFile      = "file"
	FieldPath      = "path"
	FieldPattern   = "pattern"
	FieldCount     = "count"
	FieldError     = "error"
	FieldOp        = "op"
)
