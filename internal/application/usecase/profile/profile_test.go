package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
	"github.com/diet-tracker/backend/internal/integration/persistence"
	"github.com/diet-tracker/backend/internal/integration/persistence/persistencetest"
)

func newStoreWithUser(t *testing.T) (adapter.DataStore, *entity.User) {
	t.Helper()
	store := persistence.NewDataStore(persistencetest.NewDB(t), nil)
	user, err := store.CreateUser(context.Background(), entity.NewUser("a@x.com", "Ana", "hash"))
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return store, user
}

func code(err error) domainerror.AuthErrorCode {
	var authErr *domainerror.AuthError
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return ""
}

func TestGetProfile(t *testing.T) {
	store, user := newStoreWithUser(t)
	uc := NewGetProfileUseCase(store)

	out, err := uc.Execute(context.Background(), GetProfileInput{UserID: user.ID})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.User.Email != "a@x.com" {
		t.Errorf("unexpected user %+v", out.User)
	}

	_, err = uc.Execute(context.Background(), GetProfileInput{UserID: uuid.New()})
	if got := code(err); got != domainerror.ErrCodeProfileNotFound {
		t.Errorf("code = %q, want %q", got, domainerror.ErrCodeProfileNotFound)
	}
}

func TestUpdateProfile(t *testing.T) {
	store, user := newStoreWithUser(t)
	uc := NewUpdateProfileUseCase(store)
	ctx := context.Background()

	phone := "+44 7700 900000"
	height := 182.5
	gender := entity.GenderFemale
	out, err := uc.Execute(ctx, UpdateProfileInput{
		UserID:   user.ID,
		Phone:    &phone,
		HeightCm: &height,
		Gender:   &gender,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.User.Name != "Ana" {
		t.Errorf("name changed unexpectedly to %q", out.User.Name)
	}
	if out.User.Phone == nil || *out.User.Phone != phone {
		t.Errorf("phone not updated: %v", out.User.Phone)
	}
	if out.User.HeightCm == nil || *out.User.HeightCm != height {
		t.Errorf("height not updated: %v", out.User.HeightCm)
	}

	// Empty update is a read.
	out, err = uc.Execute(ctx, UpdateProfileInput{UserID: user.ID})
	if err != nil || out.User.Gender == nil || *out.User.Gender != gender {
		t.Errorf("empty update: %+v, %v", out, err)
	}
}

func TestUpdateProfile_Invalid(t *testing.T) {
	store, user := newStoreWithUser(t)
	uc := NewUpdateProfileUseCase(store)

	bad := entity.Gender("robot")
	_, err := uc.Execute(context.Background(), UpdateProfileInput{UserID: user.ID, Gender: &bad})
	if got := code(err); got != domainerror.ErrCodeInvalidProfile {
		t.Errorf("code = %q, want %q", got, domainerror.ErrCodeInvalidProfile)
	}

	name := "X"
	_, err = uc.Execute(context.Background(), UpdateProfileInput{UserID: uuid.New(), Name: &name})
	if got := code(err); got != domainerror.ErrCodeProfileNotFound {
		t.Errorf("missing user: code = %q", got)
	}
}
