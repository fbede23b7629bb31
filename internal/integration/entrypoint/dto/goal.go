package dto

import (
	"github.com/diet-tracker/backend/internal/domain/entity"
)

// SaveGoalRequest is the body of PUT /goal.
type SaveGoalRequest struct {
	StartWeight  float64 `json:"start_weight" binding:"required"`
	TargetWeight float64 `json:"target_weight" binding:"required"`
	StartDate    string  `json:"start_date" binding:"required"`
}

// GoalBody represents a stored goal.
type GoalBody struct {
	StartWeight  float64 `json:"start_weight"`
	TargetWeight float64 `json:"target_weight"`
	StartDate    string  `json:"start_date"`
}

// ProgressBody reports how far the user is toward the target.
type ProgressBody struct {
	CurrentWeight float64 `json:"current_weight"`
	Change        float64 `json:"change"`
	Remaining     float64 `json:"remaining"`
	Percent       float64 `json:"percent"`
}

// GoalResponse is returned by GET /goal. Goal is null when none was set.
type GoalResponse struct {
	Goal     *GoalBody     `json:"goal"`
	Progress *ProgressBody `json:"progress,omitempty"`
}

// ToGoalResponse converts the goal and its optional progress.
func ToGoalResponse(goal *entity.Goal, progress *entity.GoalProgress) GoalResponse {
	var resp GoalResponse
	if goal == nil {
		return resp
	}
	resp.Goal = &GoalBody{
		StartWeight:  goal.StartWeight.InexactFloat64(),
		TargetWeight: goal.TargetWeight.InexactFloat64(),
		StartDate:    goal.StartDate,
	}
	if progress != nil {
		resp.Progress = &ProgressBody{
			CurrentWeight: progress.CurrentWeight.InexactFloat64(),
			Change:        progress.Change.InexactFloat64(),
			Remaining:     progress.Remaining.InexactFloat64(),
			Percent:       progress.Percent.InexactFloat64(),
		}
	}
	return resp
}
