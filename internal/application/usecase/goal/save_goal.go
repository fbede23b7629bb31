package goal

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

// SaveGoalInput represents the input for setting the caller's goal.
type SaveGoalInput struct {
	UserID       uuid.UUID
	StartWeight  decimal.Decimal
	TargetWeight decimal.Decimal
	StartDate    string
}

// SaveGoalOutput represents the output of setting a goal.
type SaveGoalOutput struct {
	Success bool
}

// SaveGoalUseCase replaces the caller's goal.
type SaveGoalUseCase struct {
	store adapter.DataStore
}

// NewSaveGoalUseCase creates a new SaveGoalUseCase instance.
func NewSaveGoalUseCase(store adapter.DataStore) *SaveGoalUseCase {
	return &SaveGoalUseCase{store: store}
}

// Execute validates and stores the goal, overwriting any previous one.
func (uc *SaveGoalUseCase) Execute(ctx context.Context, input SaveGoalInput) (*SaveGoalOutput, error) {
	if !input.StartWeight.IsPositive() || !input.TargetWeight.IsPositive() {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeInvalidGoalWeight,
			"start and target weight must be positive",
			domainerror.ErrInvalidGoalWeight,
		)
	}

	startDate := strings.TrimSpace(input.StartDate)
	if startDate == "" {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeMissingGoalFields,
			"start_date is required",
			domainerror.ErrInvalidGoalDate,
		)
	}
	if _, err := entity.ParseDate(startDate); err != nil {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeInvalidGoalDate,
			"start_date must be formatted as YYYY-MM-DD",
			domainerror.ErrInvalidGoalDate,
		)
	}

	err := uc.store.SaveGoal(ctx, &entity.Goal{
		UserID:       input.UserID,
		StartWeight:  input.StartWeight,
		TargetWeight: input.TargetWeight,
		StartDate:    startDate,
	})
	if err != nil {
		return nil, storeError("failed to save goal", err)
	}

	return &SaveGoalOutput{Success: true}, nil
}
