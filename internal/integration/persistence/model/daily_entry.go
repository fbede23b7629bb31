package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/diet-tracker/backend/internal/domain/entity"
)

// DailyEntryModel represents the daily_entries table in the database.
// (user_id, date) is the natural key of an entry.
type DailyEntryModel struct {
	ID     uuid.UUID           `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_daily_entries_user_date"`
	Date   string              `gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_entries_user_date"`
	Weight decimal.NullDecimal `gorm:"type:decimal(6,2)"`
	Notes  *string             `gorm:"type:text"`
	Meals  []MealModel         `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
	Habits []HabitModel        `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the DailyEntryModel.
func (DailyEntryModel) TableName() string {
	return "daily_entries"
}

// ToEntity converts a DailyEntryModel with preloaded children to a domain DailyEntry.
func (m *DailyEntryModel) ToEntity() *entity.DailyEntry {
	meals := make([]entity.Meal, 0, len(m.Meals))
	for _, meal := range m.Meals {
		meals = append(meals, entity.Meal{ID: meal.ID, EntryID: meal.EntryID, Type: meal.Type, Content: meal.Content})
	}
	habits := make([]entity.Habit, 0, len(m.Habits))
	for _, habit := range m.Habits {
		habits = append(habits, entity.Habit{ID: habit.ID, EntryID: habit.EntryID, Name: habit.Name, Completed: habit.Completed})
	}

	return &entity.DailyEntry{
		ID:     m.ID,
		UserID: m.UserID,
		Date:   m.Date,
		Weight: m.Weight,
		Notes:  m.Notes,
		Meals:  entity.FoldMeals(meals),
		Habits: entity.FoldHabits(habits),
	}
}

// MealModel represents the meals table in the database.
type MealModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntryID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type    string    `gorm:"type:varchar(50);not null"`
	Content string    `gorm:"type:text;not null"`
}

// TableName returns the table name for the MealModel.
func (MealModel) TableName() string {
	return "meals"
}

// HabitModel represents the habits table in the database.
type HabitModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntryID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Completed bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for the HabitModel.
func (HabitModel) TableName() string {
	return "habits"
}

// MealModelsFromInput builds the rows that replace the meals of an entry.
func MealModelsFromInput(entryID uuid.UUID, input entity.EntryInput) []MealModel {
	rows := input.MealRows()
	models := make([]MealModel, 0, len(rows))
	for _, r := range rows {
		models = append(models, MealModel{ID: uuid.New(), EntryID: entryID, Type: r.Type, Content: r.Content})
	}
	return models
}

// HabitModelsFromInput builds the rows that replace the habits of an entry.
func HabitModelsFromInput(entryID uuid.UUID, input entity.EntryInput) []HabitModel {
	rows := input.HabitRows()
	models := make([]HabitModel, 0, len(rows))
	for _, r := range rows {
		models = append(models, HabitModel{ID: uuid.New(), EntryID: entryID, Name: r.Name, Completed: r.Completed})
	}
	return models
}
