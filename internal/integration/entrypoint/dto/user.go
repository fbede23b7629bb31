package dto

import (
	"time"

	"github.com/diet-tracker/backend/internal/domain/entity"
)

// UserResponse represents the user data in API responses.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Phone       *string   `json:"phone"`
	HeightCm    *float64  `json:"height_cm"`
	DateOfBirth *string   `json:"dob"`
	Gender      *string   `json:"gender"`
	AvatarID    *string   `json:"avatar_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// UpdateProfileRequest is a partial profile update. Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	Name        *string  `json:"name"`
	Phone       *string  `json:"phone"`
	HeightCm    *float64 `json:"height_cm"`
	DateOfBirth *string  `json:"dob"`
	Gender      *string  `json:"gender"`
	AvatarID    *string  `json:"avatar_id"`
}

// DeleteAccountRequest represents the request body for account deletion.
type DeleteAccountRequest struct {
	Password     string `json:"password" binding:"required"`
	Confirmation string `json:"confirmation"`
}

// ToUserResponse converts a domain User entity to a UserResponse DTO.
func ToUserResponse(user *entity.User) UserResponse {
	resp := UserResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		Name:        user.Name,
		Phone:       user.Phone,
		HeightCm:    user.HeightCm,
		DateOfBirth: user.DateOfBirth,
		AvatarID:    user.AvatarID,
		CreatedAt:   user.CreatedAt,
	}
	if user.Gender != nil {
		g := string(*user.Gender)
		resp.Gender = &g
	}
	return resp
}

// ToGender converts an optional request string into a domain gender.
func ToGender(value *string) *entity.Gender {
	if value == nil {
		return nil
	}
	g := entity.Gender(*value)
	return &g
}
