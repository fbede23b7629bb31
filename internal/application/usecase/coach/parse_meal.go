package coach

import (
	"context"
	"strings"

	"github.com/diet-tracker/backend/internal/application/adapter"
)

// maxPromptLength bounds what a user can send to the model in one request.
const maxPromptLength = 4000

// ParseMealInput represents a free-text description of the day's food.
type ParseMealInput struct {
	Text string
}

// ParseMealOutput holds the description split into meal slots.
type ParseMealOutput struct {
	Meals             map[string]string
	EstimatedCalories int
	Notes             string
}

// ParseMealUseCase turns free text into meal slots.
type ParseMealUseCase struct {
	coach adapter.CoachService
}

// NewParseMealUseCase creates a new ParseMealUseCase instance.
func NewParseMealUseCase(coach adapter.CoachService) *ParseMealUseCase {
	return &ParseMealUseCase{coach: coach}
}

// Execute performs the parsing.
func (uc *ParseMealUseCase) Execute(ctx context.Context, input ParseMealInput) (*ParseMealOutput, error) {
	if !uc.coach.IsAvailable() {
		return nil, disabledError()
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, emptyPromptError()
	}
	if len(text) > maxPromptLength {
		text = text[:maxPromptLength]
	}

	parsed, err := uc.coach.ParseMeals(ctx, text)
	if err != nil {
		return nil, classifyError(err)
	}

	meals := parsed.Meals
	if meals == nil {
		meals = map[string]string{}
	}

	return &ParseMealOutput{
		Meals:             meals,
		EstimatedCalories: parsed.EstimatedCalories,
		Notes:             parsed.Notes,
	}, nil
}
