// Package entity defines the core business entities for the domain layer.
package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gender represents the self-reported gender of a user.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// User represents a user in the Diet Tracker system.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	Phone        *string
	HeightCm     *float64
	DateOfBirth  *string // YYYY-MM-DD
	Gender       *Gender
	AvatarID     *string
	CreatedAt    time.Time
}

// NewUser creates a new User with a fresh identifier.
func NewUser(email, name, passwordHash string) *User {
	return &User{
		ID:           uuid.New(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}
}

// NormalizeEmail lowercases and trims an email address so lookups match registration.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserUpdate is a partial update of a user profile. Nil fields are left unchanged.
type UserUpdate struct {
	Name         *string
	PasswordHash *string
	Phone        *string
	HeightCm     *float64
	DateOfBirth  *string
	Gender       *Gender
	AvatarID     *string
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.PasswordHash == nil && u.Phone == nil && u.HeightCm == nil &&
		u.DateOfBirth == nil && u.Gender == nil && u.AvatarID == nil
}

// Apply copies the non-nil fields of the update onto the user.
func (u UserUpdate) Apply(user *User) {
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.PasswordHash != nil {
		user.PasswordHash = *u.PasswordHash
	}
	if u.Phone != nil {
		user.Phone = u.Phone
	}
	if u.HeightCm != nil {
		user.HeightCm = u.HeightCm
	}
	if u.DateOfBirth != nil {
		user.DateOfBirth = u.DateOfBirth
	}
	if u.Gender != nil {
		user.Gender = u.Gender
	}
	if u.AvatarID != nil {
		user.AvatarID = u.AvatarID
	}
}

// Validate checks the profile fields carried by the update.
func (u UserUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return errors.New("name must not be empty")
	}
	if u.HeightCm != nil && (*u.HeightCm <= 0 || *u.HeightCm > 300) {
		return fmt.Errorf("height_cm out of range: %v", *u.HeightCm)
	}
	if u.DateOfBirth != nil && *u.DateOfBirth != "" {
		dob, err := ParseDate(*u.DateOfBirth)
		if err != nil {
			return fmt.Errorf("dob must be YYYY-MM-DD: %w", err)
		}
		if dob.After(time.Now()) {
			return errors.New("dob is in the future")
		}
	}
	if u.Gender != nil {
		switch *u.Gender {
		case GenderMale, GenderFemale, GenderOther:
		default:
			return fmt.Errorf("unknown gender %q", *u.Gender)
		}
	}
	return nil
}
