// Package coach contains the AI diet coach use cases.
package coach

import (
	"context"
	"errors"
	"strings"

	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

// classifyError converts a model failure into an AIError with a user facing message.
func classifyError(err error) *domainerror.AIError {
	var aiErr *domainerror.AIError
	if errors.As(err, &aiErr) {
		return aiErr
	}

	if errors.Is(err, domainerror.ErrAIBadResponse) {
		return domainerror.NewAIError(domainerror.ErrCodeAIBadResponse, "could not read the AI response, please try again", err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domainerror.NewAIError(domainerror.ErrCodeAITimeout, "the AI coach took too long to answer", err)
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "rate limit") || strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "429") || strings.Contains(errStr, "resource exhausted") {
		return domainerror.NewAIError(domainerror.ErrCodeAIRateLimited, "AI request limit reached, wait a few minutes", err)
	}

	return domainerror.NewAIError(domainerror.ErrCodeAIFailed, "the AI coach is temporarily unavailable", err)
}

func disabledError() error {
	return domainerror.NewAIError(domainerror.ErrCodeAIDisabled, "AI coach is not configured", domainerror.ErrAIDisabled)
}

func emptyPromptError() error {
	return domainerror.NewAIError(domainerror.ErrCodeAIEmptyPrompt, "text is required", domainerror.ErrAIEmptyPrompt)
}
