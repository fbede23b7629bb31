package hosted

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/diet-tracker/backend/internal/domain/entity"
)

type userRow struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name"`
	Phone        *string   `json:"phone"`
	HeightCm     *float64  `json:"height_cm"`
	DOB          *string   `json:"dob"`
	Gender       *string   `json:"gender"`
	AvatarID     *string   `json:"avatar_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func userRowFromEntity(u *entity.User) userRow {
	row := userRow{
		ID:           u.ID,
		Email:        entity.NormalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Phone:        u.Phone,
		HeightCm:     u.HeightCm,
		DOB:          u.DateOfBirth,
		AvatarID:     u.AvatarID,
		CreatedAt:    u.CreatedAt.UTC(),
	}
	if u.Gender != nil {
		g := string(*u.Gender)
		row.Gender = &g
	}
	return row
}

func (r userRow) toEntity() *entity.User {
	u := &entity.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Name:         r.Name,
		Phone:        r.Phone,
		HeightCm:     r.HeightCm,
		DateOfBirth:  r.DOB,
		AvatarID:     r.AvatarID,
		CreatedAt:    r.CreatedAt,
	}
	if r.Gender != nil {
		g := entity.Gender(*r.Gender)
		u.Gender = &g
	}
	return u
}

// userPatch is the PATCH body of a partial profile update.
func userPatch(u entity.UserUpdate) map[string]any {
	patch := make(map[string]any)
	if u.Name != nil {
		patch["name"] = *u.Name
	}
	if u.PasswordHash != nil {
		patch["password_hash"] = *u.PasswordHash
	}
	if u.Phone != nil {
		patch["phone"] = *u.Phone
	}
	if u.HeightCm != nil {
		patch["height_cm"] = *u.HeightCm
	}
	if u.DateOfBirth != nil {
		patch["dob"] = *u.DateOfBirth
	}
	if u.Gender != nil {
		patch["gender"] = string(*u.Gender)
	}
	if u.AvatarID != nil {
		patch["avatar_id"] = *u.AvatarID
	}
	return patch
}

// entryRow is a daily_entries row with its embedded children.
type entryRow struct {
	ID     uuid.UUID           `json:"id"`
	UserID uuid.UUID           `json:"user_id"`
	Date   string              `json:"date"`
	Weight decimal.NullDecimal `json:"weight"`
	Notes  *string             `json:"notes"`
	Meals  []mealRow           `json:"meals,omitempty"`
	Habits []habitRow          `json:"habits,omitempty"`
}

func (r entryRow) toEntity() *entity.DailyEntry {
	meals := make([]entity.Meal, 0, len(r.Meals))
	for _, m := range r.Meals {
		meals = append(meals, entity.Meal{ID: m.ID, EntryID: m.EntryID, Type: m.Type, Content: m.Content})
	}
	habits := make([]entity.Habit, 0, len(r.Habits))
	for _, h := range r.Habits {
		habits = append(habits, entity.Habit{ID: h.ID, EntryID: h.EntryID, Name: h.Name, Completed: h.Completed})
	}
	return &entity.DailyEntry{
		ID:     r.ID,
		UserID: r.UserID,
		Date:   r.Date,
		Weight: r.Weight,
		Notes:  r.Notes,
		Meals:  entity.FoldMeals(meals),
		Habits: entity.FoldHabits(habits),
	}
}

type idRow struct {
	ID uuid.UUID `json:"id"`
}

type mealRow struct {
	ID      uuid.UUID `json:"id"`
	EntryID uuid.UUID `json:"entry_id"`
	Type    string    `json:"type"`
	Content string    `json:"content"`
}

type habitRow struct {
	ID        uuid.UUID `json:"id"`
	EntryID   uuid.UUID `json:"entry_id"`
	Name      string    `json:"name"`
	Completed bool      `json:"completed"`
}

type goalRow struct {
	UserID       uuid.UUID       `json:"user_id"`
	StartWeight  decimal.Decimal `json:"start_weight"`
	TargetWeight decimal.Decimal `json:"target_weight"`
	StartDate    string          `json:"start_date"`
}

func (r goalRow) toEntity() *entity.Goal {
	return &entity.Goal{
		UserID:       r.UserID,
		StartWeight:  r.StartWeight,
		TargetWeight: r.TargetWeight,
		StartDate:    r.StartDate,
	}
}
