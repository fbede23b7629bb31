package entry

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

var maxWeight = decimal.NewFromInt(1000)

// SaveEntryInput represents the upsert of one day.
type SaveEntryInput struct {
	UserID uuid.UUID
	Date   string
	Weight decimal.NullDecimal
	Notes  *string
	Meals  map[string]string
	Habits map[string]bool
}

// SaveEntryOutput holds the id of the created or updated entry.
type SaveEntryOutput struct {
	ID uuid.UUID
}

// SaveEntryUseCase creates or replaces the entry of a calendar day.
type SaveEntryUseCase struct {
	store adapter.DataStore
}

// NewSaveEntryUseCase creates a new SaveEntryUseCase instance.
func NewSaveEntryUseCase(store adapter.DataStore) *SaveEntryUseCase {
	return &SaveEntryUseCase{store: store}
}

// Execute validates the day and upserts it. Meals and habits are replaced wholesale.
func (uc *SaveEntryUseCase) Execute(ctx context.Context, input SaveEntryInput) (*SaveEntryOutput, error) {
	date := strings.TrimSpace(input.Date)
	if date == "" {
		return nil, domainerror.NewEntryError(
			domainerror.ErrCodeMissingEntryDate,
			"date is required",
			domainerror.ErrInvalidEntryDate,
		)
	}
	if _, err := entity.ParseDate(date); err != nil {
		return nil, domainerror.NewEntryError(
			domainerror.ErrCodeInvalidEntryDate,
			"date must be formatted as YYYY-MM-DD",
			domainerror.ErrInvalidEntryDate,
		)
	}

	if input.Weight.Valid && (!input.Weight.Decimal.IsPositive() || input.Weight.Decimal.GreaterThan(maxWeight)) {
		return nil, domainerror.NewEntryError(
			domainerror.ErrCodeInvalidWeight,
			"weight must be between 0 and 1000",
			domainerror.ErrInvalidWeight,
		)
	}

	id, err := uc.store.SaveEntry(ctx, entity.EntryInput{
		UserID: input.UserID,
		Date:   date,
		Weight: input.Weight,
		Notes:  input.Notes,
		Meals:  normalizeMeals(input.Meals),
		Habits: input.Habits,
	})
	if err != nil {
		return nil, storeError("failed to save entry", err)
	}

	return &SaveEntryOutput{ID: id}, nil
}

// normalizeMeals lowercases slot names. When several keys fold to the same slot,
// the first one in sorted key order with non-empty content wins.
func normalizeMeals(in map[string]string) map[string]string {
	meals := make(map[string]string, len(in))
	for _, key := range slices.Sorted(maps.Keys(in)) {
		slot := strings.ToLower(strings.TrimSpace(key))
		if slot == "" {
			continue
		}
		content := strings.TrimSpace(in[key])
		if current, seen := meals[slot]; seen && (current != "" || content == "") {
			continue
		}
		meals[slot] = content
	}
	return meals
}
