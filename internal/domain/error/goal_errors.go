package error

import "errors"

// Goal domain errors.
var (
	// ErrInvalidGoalWeight is returned when a start or target weight is not positive.
	ErrInvalidGoalWeight = errors.New("invalid goal weight")

	// ErrInvalidGoalDate is returned when the start date is not a YYYY-MM-DD calendar date.
	ErrInvalidGoalDate = errors.New("invalid goal start date")
)

// GoalErrorCode defines error codes for goal errors.
// Format: GOL-XXYYYY where XX is category and YYYY is specific error.
type GoalErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidGoalWeight GoalErrorCode = "GOL-010001"
	ErrCodeInvalidGoalDate   GoalErrorCode = "GOL-010002"
	ErrCodeMissingGoalFields GoalErrorCode = "GOL-010003"

	// Infrastructure errors (09XXXX)
	ErrCodeGoalStoreUnavailable GoalErrorCode = "GOL-090001"
	ErrCodeGoalStoreFailure     GoalErrorCode = "GOL-090002"
)

// GoalError represents a goal error with code and message.
type GoalError struct {
	Code    GoalErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *GoalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *GoalError) Unwrap() error {
	return e.Err
}

// NewGoalError creates a new GoalError with the given code and message.
func NewGoalError(code GoalErrorCode, message string, err error) *GoalError {
	return &GoalError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
