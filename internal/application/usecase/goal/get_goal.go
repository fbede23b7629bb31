package goal

import (
	"context"

	"github.com/google/uuid"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
)

// GetGoalInput represents the input for getting the caller's goal.
type GetGoalInput struct {
	UserID uuid.UUID
}

// GetGoalOutput represents the output of getting a goal.
// Goal is nil when none was set; Progress is nil when no weight was logged yet.
type GetGoalOutput struct {
	Goal     *entity.Goal
	Progress *entity.GoalProgress
}

// GetGoalUseCase returns the goal and the progress made toward it.
type GetGoalUseCase struct {
	store adapter.DataStore
}

// NewGetGoalUseCase creates a new GetGoalUseCase instance.
func NewGetGoalUseCase(store adapter.DataStore) *GetGoalUseCase {
	return &GetGoalUseCase{store: store}
}

// Execute performs the goal retrieval.
func (uc *GetGoalUseCase) Execute(ctx context.Context, input GetGoalInput) (*GetGoalOutput, error) {
	goal, err := uc.store.GetGoal(ctx, input.UserID)
	if err != nil {
		return nil, storeError("failed to get goal", err)
	}
	if goal == nil {
		return &GetGoalOutput{}, nil
	}

	entries, err := uc.store.GetEntries(ctx, input.UserID)
	if err != nil {
		return nil, storeError("failed to load entries", err)
	}

	output := &GetGoalOutput{Goal: goal}
	if latest := entity.LatestWeight(entries); latest.Valid {
		progress := goal.Progress(latest.Decimal)
		output.Progress = &progress
	}
	return output, nil
}
