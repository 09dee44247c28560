package logging

// Field names shared by every log entry of the converter.
const (
	FieldFile         = "file_path"
	FieldInputFile    = "input_file"
	FieldOutputFile   = "output_file"
	FieldSourceFormat = "source_format"
	FieldTargetFormat = "target_format"
	FieldFormat       = "format"
	FieldRules        = "rules"
	FieldPaths        = "paths"
	FieldTemplate     = "template"
	FieldMessageType  = "message_type"
	FieldOperation    = "operation"
	FieldStatus       = "status"
	FieldError        = "error"
	FieldDuration     = "duration_ms"
	FieldCount        = "count"
	FieldWorkers      = "workers"
	FieldDelimiter    = "delimiter"
)
