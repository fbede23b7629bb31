package entry

import (
	"context"

	"github.com/google/uuid"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
)

// ListEntriesInput represents the input for listing entries.
type ListEntriesInput struct {
	UserID uuid.UUID
}

// ListEntriesOutput holds the user's entries, newest first.
type ListEntriesOutput struct {
	Entries []*entity.DailyEntry
}

// ListEntriesUseCase handles listing the caller's daily entries.
type ListEntriesUseCase struct {
	store adapter.DataStore
}

// NewListEntriesUseCase creates a new ListEntriesUseCase instance.
func NewListEntriesUseCase(store adapter.DataStore) *ListEntriesUseCase {
	return &ListEntriesUseCase{store: store}
}

// Execute performs the listing.
func (uc *ListEntriesUseCase) Execute(ctx context.Context, input ListEntriesInput) (*ListEntriesOutput, error) {
	entries, err := uc.store.GetEntries(ctx, input.UserID)
	if err != nil {
		return nil, storeError("failed to list entries", err)
	}
	entity.SortEntriesByDateDesc(entries)
	return &ListEntriesOutput{Entries: entries}, nil
}
