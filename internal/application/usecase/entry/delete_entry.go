package entry

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/diet-tracker/backend/internal/application/adapter"
)

// DeleteEntryInput represents the input for deleting an entry.
type DeleteEntryInput struct {
	UserID  uuid.UUID
	EntryID uuid.UUID
}

// DeleteEntryOutput represents the output of deleting an entry.
type DeleteEntryOutput struct {
	Success bool
}

// DeleteEntryUseCase deletes one of the caller's entries.
type DeleteEntryUseCase struct {
	store adapter.DataStore
}

// NewDeleteEntryUseCase creates a new DeleteEntryUseCase instance.
func NewDeleteEntryUseCase(store adapter.DataStore) *DeleteEntryUseCase {
	return &DeleteEntryUseCase{store: store}
}

// Execute deletes the entry if the caller owns it. Unknown ids, and ids owned
// by someone else, are a successful no-op so existence is not disclosed.
func (uc *DeleteEntryUseCase) Execute(ctx context.Context, input DeleteEntryInput) (*DeleteEntryOutput, error) {
	entries, err := uc.store.GetEntries(ctx, input.UserID)
	if err != nil {
		return nil, storeError("failed to load entries", err)
	}

	owned := false
	for _, e := range entries {
		if e.ID == input.EntryID {
			owned = true
			break
		}
	}
	if !owned {
		slog.Debug("Delete requested for entry not owned by user", "userID", input.UserID, "entryID", input.EntryID)
		return &DeleteEntryOutput{Success: true}, nil
	}

	if err := uc.store.DeleteEntry(ctx, input.EntryID); err != nil {
		return nil, storeError("failed to delete entry", err)
	}

	return &DeleteEntryOutput{Success: true}, nil
}
