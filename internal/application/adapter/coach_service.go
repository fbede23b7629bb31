package adapter

import (
	"context"

	"github.com/diet-tracker/backend/internal/domain/entity"
)

// ParsedMeals is the structured reading of a free-text meal description.
type ParsedMeals struct {
	Meals             map[string]string
	EstimatedCalories int
	Notes             string
}

// CoachRequest carries what the coach needs to answer a question.
type CoachRequest struct {
	UserName string
	Message  string
	Entries  []*entity.DailyEntry // most recent first
	Goal     *entity.Goal
}

// CoachService defines the generative AI operations of the diet coach.
type CoachService interface {
	// ParseMeals splits a free-text description into meal slots.
	ParseMeals(ctx context.Context, text string) (*ParsedMeals, error)

	// Chat answers a user question using their recent history.
	Chat(ctx context.Context, request *CoachRequest) (string, error)

	// IsAvailable reports whether the service has credentials configured.
	IsAvailable() bool
}
