package ingest

import "fmt"

// ErrorKind classifies a RowError so callers can branch on the failure
// category instead of matching message text.
type ErrorKind string

const (
	KindMissingRequiredField     ErrorKind = "missing_required_field"
	KindInvalidNumber            ErrorKind = "invalid_number"
	KindInvalidStatus            ErrorKind = "invalid_status"
	KindInvalidEmail             ErrorKind = "invalid_email"
	KindRowProcessing            ErrorKind = "row_processing"
	KindStructuralMissingColumns ErrorKind = "missing_columns"
	KindStructuralTooFewRows     ErrorKind = "too_few_rows"
)

// RowError is a diagnostic tied to one specific input row. Row is 1-based
// and always refers to the row's position in the original file, header
// included, so operators can locate it in their spreadsheet directly.
// Structural failures that invalidate the whole file are addressed to
// row 1.
type RowError struct {
	Row     int       `json:"row"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}
