package profile

import (
	"context"

	"github.com/google/uuid"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

// UpdateProfileInput carries the fields to change. Nil fields are untouched.
type UpdateProfileInput struct {
	UserID      uuid.UUID
	Name        *string
	Phone       *string
	HeightCm    *float64
	DateOfBirth *string
	Gender      *entity.Gender
	AvatarID    *string
}

// UpdateProfileOutput represents the output of a profile update.
type UpdateProfileOutput struct {
	User *entity.User
}

// UpdateProfileUseCase applies a partial update to the caller's profile.
type UpdateProfileUseCase struct {
	store adapter.DataStore
}

// NewUpdateProfileUseCase creates a new UpdateProfileUseCase instance.
func NewUpdateProfileUseCase(store adapter.DataStore) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{store: store}
}

// Execute performs the update. An empty update returns the current profile.
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	update := entity.UserUpdate{
		Name:        input.Name,
		Phone:       input.Phone,
		HeightCm:    input.HeightCm,
		DateOfBirth: input.DateOfBirth,
		Gender:      input.Gender,
		AvatarID:    input.AvatarID,
	}
	if err := update.Validate(); err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidProfile,
			err.Error(),
			domainerror.ErrInvalidProfile,
		)
	}

	var (
		user *entity.User
		err  error
	)
	if update.IsEmpty() {
		user, err = uc.store.GetUserByID(ctx, input.UserID)
	} else {
		user, err = uc.store.UpdateUser(ctx, input.UserID, update)
	}
	if err != nil {
		return nil, storeError("update user", err)
	}
	if user == nil {
		return nil, notFound()
	}

	return &UpdateProfileOutput{User: user}, nil
}
