package spreadsheet

import (
	"errors"
	"fmt"
)

// Import error codes
const (
	ErrCodeMissingOrderID = "ERR_IMPORT_MISSING_ORDER_ID"
	ErrCodeInvalidDate    = "ERR_IMPORT_INVALID_DATE"
	ErrCodeMalformedRow   = "ERR_IMPORT_MALFORMED_ROW"
)

// File-level errors. These are fatal for the whole file: a preview or
// confirm call reports them to the caller instead of retrying.
var (
	// ErrUnrecognizedFormat is returned when no platform signature
	// matches the header row
	ErrUnrecognizedFormat = errors.New("spreadsheet format not recognized as any supported platform export")

	// ErrEmptyFile is returned when the workbook has no data rows
	ErrEmptyFile = errors.New("spreadsheet contains no data rows")

	// ErrMissingHeader is returned when the workbook has no header row
	ErrMissingHeader = errors.New("spreadsheet missing header row")

	// ErrTooManyRows is returned when the workbook exceeds the row cap,
	// checked before any mapping work starts
	ErrTooManyRows = errors.New("spreadsheet exceeds the maximum allowed row count")
)

// RowError records why a single row was excluded from the mapped
// output. Row errors never abort a parse; they accumulate in a skip
// tally surfaced to the caller for audit.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a new RowError
func NewRowError(row int, column, code, message string) RowError {
	return RowError{Row: row, Column: column, Code: code, Message: message}
}
