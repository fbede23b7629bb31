// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

// RegisterUserInput represents the input for user registration.
type RegisterUserInput struct {
	Email       string
	Name        string
	Password    string
	Phone       *string
	HeightCm    *float64
	DateOfBirth *string
	Gender      *entity.Gender
}

// RegisterUserOutput represents the output of user registration.
type RegisterUserOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RegisterUserUseCase handles user registration logic.
type RegisterUserUseCase struct {
	store           adapter.DataStore
	passwordService adapter.PasswordService
	tokenService    adapter.TokenService
	emailService    adapter.EmailService
	appBaseURL      string
}

// NewRegisterUserUseCase creates a new RegisterUserUseCase instance.
// emailService may be nil, in which case no welcome email is sent.
func NewRegisterUserUseCase(
	store adapter.DataStore,
	passwordService adapter.PasswordService,
	tokenService adapter.TokenService,
	emailService adapter.EmailService,
	appBaseURL string,
) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		store:           store,
		passwordService: passwordService,
		tokenService:    tokenService,
		emailService:    emailService,
		appBaseURL:      appBaseURL,
	}
}

// Execute performs the user registration.
func (uc *RegisterUserUseCase) Execute(ctx context.Context, input RegisterUserInput) (*RegisterUserOutput, error) {
	email := normalizedEmail(input.Email)
	if !isValidEmail(email) {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidEmail,
			"invalid email format",
			domainerror.ErrInvalidEmail,
		)
	}

	if input.Name == "" {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeMissingFields,
			"name is required",
			nil,
		)
	}

	if err := uc.passwordService.ValidatePasswordStrength(input.Password); err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeWeakPassword,
			err.Error(),
			domainerror.ErrWeakPassword,
		)
	}

	profile := entity.UserUpdate{
		Phone:       input.Phone,
		HeightCm:    input.HeightCm,
		DateOfBirth: input.DateOfBirth,
		Gender:      input.Gender,
	}
	if err := profile.Validate(); err != nil {
		return nil, invalidProfile(err)
	}

	passwordHash, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entity.NewUser(email, input.Name, passwordHash)
	profile.Apply(user)

	// The unique email constraint is the source of truth; no pre-check.
	created, err := uc.store.CreateUser(ctx, user)
	if err != nil {
		if domainerror.IsConflict(err) {
			return nil, domainerror.NewAuthError(
				domainerror.ErrCodeEmailExists,
				"email already exists",
				domainerror.ErrEmailAlreadyExists,
			)
		}
		return nil, storeError("create user", err)
	}

	tokenPair, err := uc.tokenService.GenerateTokenPair(ctx, created.ID, created.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	uc.sendWelcome(ctx, created)

	return &RegisterUserOutput{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		User:         created,
	}, nil
}

// sendWelcome never fails the registration; the account already exists.
func (uc *RegisterUserUseCase) sendWelcome(ctx context.Context, user *entity.User) {
	if uc.emailService == nil {
		return
	}
	err := uc.emailService.SendWelcomeEmail(ctx, adapter.WelcomeEmailInput{
		UserEmail: user.Email,
		UserName:  user.Name,
		AppURL:    uc.appBaseURL,
	})
	if err != nil {
		slog.Warn("Failed to send welcome email", "user_id", user.ID, "error", err)
	}
}
