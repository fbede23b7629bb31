// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/diet-tracker/backend/internal/domain/entity"
)

// DataStore is the single data access boundary of the application.
// One implementation is constructed at startup according to the configured storage mode.
//
// Lookups report a miss as a nil record and a nil error. Every other failure is
// a *domainerror.StoreError classified as Conflict, BackendUnavailable or Unknown.
// Implementations never retry and never cache.
type DataStore interface {
	// CreateUser inserts a new user. A duplicate email fails with ErrConflict.
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)

	// GetUserByEmail returns the user with the given email, or nil if there is none.
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)

	// GetUserByID returns the user with the given ID, or nil if there is none.
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// UpdateUser applies the non-nil fields of update and returns the stored record.
	// Returns nil if the user does not exist.
	UpdateUser(ctx context.Context, id uuid.UUID, update entity.UserUpdate) (*entity.User, error)

	// ListUsers returns every user. Used by the migration tool.
	ListUsers(ctx context.Context) ([]*entity.User, error)

	// DeleteUser removes a user with all entries, meals, habits and the goal.
	// Deleting a missing user is not an error.
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// GetEntries returns every entry of the user with meals and habits folded into maps.
	// Order is unspecified.
	GetEntries(ctx context.Context, userID uuid.UUID) ([]*entity.DailyEntry, error)

	// SaveEntry upserts the entry for (UserID, Date) and fully replaces its meals and habits.
	SaveEntry(ctx context.Context, input entity.EntryInput) (uuid.UUID, error)

	// DeleteEntry removes the entry and its children. A missing id is not an error.
	DeleteEntry(ctx context.Context, id uuid.UUID) error

	// GetGoal returns the goal of the user, or nil if none was saved.
	GetGoal(ctx context.Context, userID uuid.UUID) (*entity.Goal, error)

	// SaveGoal overwrites the goal of goal.UserID.
	SaveGoal(ctx context.Context, goal *entity.Goal) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend handle.
	Close() error
}
