// Package profile contains user profile use cases.
package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

// GetProfileInput represents the input for fetching the caller's profile.
type GetProfileInput struct {
	UserID uuid.UUID
}

// GetProfileOutput represents the output of fetching a profile.
type GetProfileOutput struct {
	User *entity.User
}

// GetProfileUseCase returns the profile of the authenticated user.
type GetProfileUseCase struct {
	store adapter.DataStore
}

// NewGetProfileUseCase creates a new GetProfileUseCase instance.
func NewGetProfileUseCase(store adapter.DataStore) *GetProfileUseCase {
	return &GetProfileUseCase{store: store}
}

// Execute performs the profile lookup.
func (uc *GetProfileUseCase) Execute(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	user, err := uc.store.GetUserByID(ctx, input.UserID)
	if err != nil {
		return nil, storeError("find user", err)
	}
	if user == nil {
		return nil, notFound()
	}
	return &GetProfileOutput{User: user}, nil
}

func notFound() error {
	return domainerror.NewAuthError(
		domainerror.ErrCodeProfileNotFound,
		"user not found",
		domainerror.ErrUserNotFound,
	)
}

func storeError(op string, err error) error {
	if domainerror.IsBackendUnavailable(err) {
		return domainerror.NewAuthError(domainerror.ErrCodeStoreUnavailable, "data store unavailable", err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
