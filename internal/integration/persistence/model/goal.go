package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/diet-tracker/backend/internal/domain/entity"
)

// GoalModel represents the goals table in the database. One row per user.
type GoalModel struct {
	UserID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StartWeight  decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	TargetWeight decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	StartDate    string          `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for the GoalModel.
func (GoalModel) TableName() string {
	return "goals"
}

// ToEntity converts a GoalModel to a domain Goal entity.
func (m *GoalModel) ToEntity() *entity.Goal {
	return &entity.Goal{
		UserID:       m.UserID,
		StartWeight:  m.StartWeight,
		TargetWeight: m.TargetWeight,
		StartDate:    m.StartDate,
	}
}

// GoalModelFromEntity creates a GoalModel from a domain Goal entity.
func GoalModelFromEntity(goal *entity.Goal) *GoalModel {
	return &GoalModel{
		UserID:       goal.UserID,
		StartWeight:  goal.StartWeight,
		TargetWeight: goal.TargetWeight,
		StartDate:    goal.StartDate,
	}
}

// AllModels returns every model managed by AutoMigrate, parents first.
func AllModels() []any {
	return []any{
		&UserModel{},
		&DailyEntryModel{},
		&MealModel{},
		&HabitModel{},
		&GoalModel{},
		&RefreshTokenModel{},
		&PasswordResetTokenModel{},
		&EmailQueueModel{},
	}
}
