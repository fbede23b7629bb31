package auth

import (
	"fmt"
	"net/mail"

	"github.com/diet-tracker/backend/internal/domain/entity"
	domainerror "github.com/diet-tracker/backend/internal/domain/error"
)

// storeError maps a data store failure to the error returned by auth use cases.
func storeError(op string, err error) error {
	if domainerror.IsBackendUnavailable(err) {
		return domainerror.NewAuthError(
			domainerror.ErrCodeStoreUnavailable,
			"data store unavailable",
			err,
		)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// isValidEmail accepts a bare address only, without display name.
func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}

func invalidCredentials() error {
	return domainerror.NewAuthError(
		domainerror.ErrCodeInvalidCredentials,
		"invalid email or password",
		domainerror.ErrInvalidCredentials,
	)
}

func invalidProfile(err error) error {
	return domainerror.NewAuthError(
		domainerror.ErrCodeInvalidProfile,
		err.Error(),
		domainerror.ErrInvalidProfile,
	)
}

func normalizedEmail(email string) string {
	return entity.NormalizeEmail(email)
}
