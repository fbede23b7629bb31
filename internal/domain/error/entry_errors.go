package error

import "errors"

// Entry domain errors.
var (
	// ErrEntryNotFound is returned when an entry does not exist or belongs to another user.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrInvalidEntryDate is returned when the entry date is not a YYYY-MM-DD calendar date.
	ErrInvalidEntryDate = errors.New("invalid entry date")

	// ErrInvalidWeight is returned when a weight is not a positive number.
	ErrInvalidWeight = errors.New("invalid weight")

	// ErrExportFailed is returned when the spreadsheet export cannot be produced.
	ErrExportFailed = errors.New("failed to export entries")
)

// EntryErrorCode defines error codes for daily entry errors.
// Format: ENT-XXYYYY where XX is category and YYYY is specific error.
type EntryErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidEntryDate EntryErrorCode = "ENT-010001"
	ErrCodeInvalidWeight    EntryErrorCode = "ENT-010002"
	ErrCodeMissingEntryDate EntryErrorCode = "ENT-010003"

	// Lookup errors (02XXXX)
	ErrCodeEntryNotFound EntryErrorCode = "ENT-020001"

	// Export errors (03XXXX)
	ErrCodeExportFailed EntryErrorCode = "ENT-030001"

	// Infrastructure errors (09XXXX)
	ErrCodeEntryStoreUnavailable EntryErrorCode = "ENT-090001"
	ErrCodeEntryStoreFailure     EntryErrorCode = "ENT-090002"
)

// EntryError represents a daily entry error with code and message.
type EntryError struct {
	Code    EntryErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *EntryError) Unwrap() error {
	return e.Err
}

// NewEntryError creates a new EntryError with the given code and message.
func NewEntryError(code EntryErrorCode, message string, err error) *EntryError {
	return &EntryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
