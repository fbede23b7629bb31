package error

import "errors"

// AI coach domain errors.
var (
	// ErrAIDisabled is returned when no generative AI key is configured.
	ErrAIDisabled = errors.New("AI coach is not configured")

	// ErrAIEmptyPrompt is returned when the user sent no text.
	ErrAIEmptyPrompt = errors.New("text is required")

	// ErrAIBadResponse is returned when the model reply cannot be parsed.
	ErrAIBadResponse = errors.New("AI returned an unreadable response")
)

// AIErrorCode defines error codes for AI coach errors.
// Format: AI-XXYYYY where XX is category and YYYY is specific error.
type AIErrorCode string

const (
	ErrCodeAIEmptyPrompt AIErrorCode = "AI-010001"
	ErrCodeAIDisabled    AIErrorCode = "AI-020001"
	ErrCodeAIFailed      AIErrorCode = "AI-020002"
	ErrCodeAIBadResponse AIErrorCode = "AI-020003"
	ErrCodeAITimeout     AIErrorCode = "AI-020004"
	ErrCodeAIRateLimited AIErrorCode = "AI-020005"
)

// AIError represents an AI coach error with code and message.
type AIError struct {
	Code    AIErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AIError) Unwrap() error {
	return e.Err
}

// NewAIError creates a new AIError with the given code and message.
func NewAIError(code AIErrorCode, message string, err error) *AIError {
	return &AIError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
