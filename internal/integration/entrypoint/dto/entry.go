package dto

import (
	"github.com/shopspring/decimal"

	"github.com/diet-tracker/backend/internal/domain/entity"
)

// SaveEntryRequest is the body of PUT /entries. Meals and habits replace what was stored.
type SaveEntryRequest struct {
	Date   string            `json:"date"`
	Weight *float64          `json:"weight"`
	Notes  *string           `json:"notes"`
	Meals  map[string]string `json:"meals"`
	Habits map[string]bool   `json:"habits"`
}

// IDResponse returns the identifier of a written record.
type IDResponse struct {
	ID string `json:"id"`
}

// EntryResponse represents one daily entry.
type EntryResponse struct {
	ID     string            `json:"id"`
	Date   string            `json:"date"`
	Weight *float64          `json:"weight"`
	Notes  *string           `json:"notes"`
	Meals  map[string]string `json:"meals"`
	Habits map[string]bool   `json:"habits"`
}

// EntryListResponse wraps the entries of a user, newest first.
type EntryListResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// ToEntryResponse converts a domain entry to its DTO.
func ToEntryResponse(e *entity.DailyEntry) EntryResponse {
	resp := EntryResponse{
		ID:     e.ID.String(),
		Date:   e.Date,
		Notes:  e.Notes,
		Meals:  e.Meals,
		Habits: e.Habits,
	}
	if e.Weight.Valid {
		w := e.Weight.Decimal.InexactFloat64()
		resp.Weight = &w
	}
	if resp.Meals == nil {
		resp.Meals = map[string]string{}
	}
	if resp.Habits == nil {
		resp.Habits = map[string]bool{}
	}
	return resp
}

// ToEntryListResponse converts a slice of domain entries.
func ToEntryListResponse(entries []*entity.DailyEntry) EntryListResponse {
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ToEntryResponse(e)
	}
	return EntryListResponse{Entries: out}
}

// ToNullDecimal converts an optional JSON number to a nullable decimal.
func ToNullDecimal(value *float64) decimal.NullDecimal {
	if value == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*value))
}
