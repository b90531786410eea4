package admission

// RejectionError describes why the gate refused a part. Rejections are
// expected outcomes of policy evaluation, not faults; callers match them
// with errors.As and decide whether to continue with the remaining parts.
type RejectionError struct {
	Details map[string]any // Reason-specific data
	Field   string         // Form field name the part arrived under
	Reason  string         // Machine-readable reason code
	Message string         // Human-readable message
}

// Error implements the error interface.
func (e *RejectionError) Error() string {
	return e.Message
}

// Reason codes for RejectionError.
const (
	ReasonUnsupportedFileType = "unsupported_file_type"
	ReasonFileTooLarge        = "file_too_large"
	ReasonTooManyFiles        = "too_many_files"
	ReasonTooManyParts        = "too_many_parts"
	ReasonTooManyFields       = "too_many_fields"
	ReasonFieldTooLarge       = "field_too_large"
	ReasonFieldNameTooLong    = "field_name_too_long"
	ReasonTooManyHeaderPairs  = "too_many_header_pairs"
)
