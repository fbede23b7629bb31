package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for entries and goals.
const DateLayout = "2006-01-02"

// MealSlot is the label of a time-of-day meal slot.
type MealSlot = string

const (
	MealSlotBreakfast MealSlot = "breakfast"
	MealSlotLunch     MealSlot = "lunch"
	MealSlotDinner    MealSlot = "dinner"
	MealSlotSnacks    MealSlot = "snacks"
)

// DailyEntry is the record of one user's calendar day.
// Meals are keyed by slot and habits by name.
type DailyEntry struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Date   string
	Weight decimal.NullDecimal
	Notes  *string
	Meals  map[string]string
	Habits map[string]bool
}

// EntryInput is the payload of an upsert keyed by (UserID, Date).
type EntryInput struct {
	UserID uuid.UUID
	Date   string
	Weight decimal.NullDecimal
	Notes  *string
	Meals  map[string]string
	Habits map[string]bool
}

// MealRows returns the meals that should be persisted, skipping empty content.
// The result is sorted by slot so writes are deterministic.
func (in EntryInput) MealRows() []Meal {
	rows := make([]Meal, 0, len(in.Meals))
	for slot, content := range in.Meals {
		if content == "" {
			continue
		}
		rows = append(rows, Meal{Type: slot, Content: content})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Type < rows[j].Type })
	return rows
}

// HabitRows returns one habit row per entry in the habits map, sorted by name.
func (in EntryInput) HabitRows() []Habit {
	rows := make([]Habit, 0, len(in.Habits))
	for name, completed := range in.Habits {
		rows = append(rows, Habit{Name: name, Completed: completed})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}

// Meal is a child row of a DailyEntry.
type Meal struct {
	ID      uuid.UUID
	EntryID uuid.UUID
	Type    string
	Content string
}

// Habit is a child row of a DailyEntry.
type Habit struct {
	ID        uuid.UUID
	EntryID   uuid.UUID
	Name      string
	Completed bool
}

// FoldMeals turns meal rows into a slot to content map. Never returns nil.
func FoldMeals(meals []Meal) map[string]string {
	out := make(map[string]string, len(meals))
	for _, m := range meals {
		out[m.Type] = m.Content
	}
	return out
}

// FoldHabits turns habit rows into a name to completion map. Never returns nil.
func FoldHabits(habits []Habit) map[string]bool {
	out := make(map[string]bool, len(habits))
	for _, h := range habits {
		out[h.Name] = h.Completed
	}
	return out
}

// ParseDate validates a YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// SortEntriesByDateDesc orders entries newest first. ISO dates sort lexically.
func SortEntriesByDateDesc(entries []*DailyEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
}

// LatestWeight returns the weight of the most recent entry that has one.
func LatestWeight(entries []*DailyEntry) decimal.NullDecimal {
	var latest *DailyEntry
	for _, e := range entries {
		if !e.Weight.Valid {
			continue
		}
		if latest == nil || e.Date > latest.Date {
			latest = e
		}
	}
	if latest == nil {
		return decimal.NullDecimal{}
	}
	return latest.Weight
}

// CompletedHabits returns how many habits of the entry are completed.
func (e *DailyEntry) CompletedHabits() int {
	n := 0
	for _, done := range e.Habits {
		if done {
			n++
		}
	}
	return n
}
