// Package model defines database models for the persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/diet-tracker/backend/internal/domain/entity"
)

// UserModel represents the users table in the database.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Phone        *string   `gorm:"type:varchar(40)"`
	HeightCm     *float64
	DOB          *string   `gorm:"column:dob;type:varchar(10)"`
	Gender       *string   `gorm:"type:varchar(20)"`
	AvatarID     *string   `gorm:"type:varchar(100)"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts a UserModel to a domain User entity.
func (m *UserModel) ToEntity() *entity.User {
	user := &entity.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Phone:        m.Phone,
		HeightCm:     m.HeightCm,
		DateOfBirth:  m.DOB,
		AvatarID:     m.AvatarID,
		CreatedAt:    m.CreatedAt,
	}
	if m.Gender != nil {
		g := entity.Gender(*m.Gender)
		user.Gender = &g
	}
	return user
}

// UserModelFromEntity creates a UserModel from a domain User entity.
func UserModelFromEntity(user *entity.User) *UserModel {
	m := &UserModel{
		ID:           user.ID,
		Email:        entity.NormalizeEmail(user.Email),
		PasswordHash: user.PasswordHash,
		Name:         user.Name,
		Phone:        user.Phone,
		HeightCm:     user.HeightCm,
		DOB:          user.DateOfBirth,
		AvatarID:     user.AvatarID,
		CreatedAt:    user.CreatedAt,
	}
	if user.Gender != nil {
		g := string(*user.Gender)
		m.Gender = &g
	}
	return m
}

// UserUpdateColumns maps a partial update to column values. Nil fields are omitted.
func UserUpdateColumns(u entity.UserUpdate) map[string]any {
	cols := make(map[string]any)
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.PasswordHash != nil {
		cols["password_hash"] = *u.PasswordHash
	}
	if u.Phone != nil {
		cols["phone"] = *u.Phone
	}
	if u.HeightCm != nil {
		cols["height_cm"] = *u.HeightCm
	}
	if u.DateOfBirth != nil {
		cols["dob"] = *u.DateOfBirth
	}
	if u.Gender != nil {
		cols["gender"] = string(*u.Gender)
	}
	if u.AvatarID != nil {
		cols["avatar_id"] = *u.AvatarID
	}
	return cols
}

// RefreshTokenModel represents the refresh_tokens table for token invalidation tracking.
type RefreshTokenModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Token       string    `gorm:"type:varchar(500);uniqueIndex;not null"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Invalidated bool      `gorm:"default:false"`
	ExpiresAt   time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the RefreshTokenModel.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}

// PasswordResetTokenModel represents the password_reset_tokens table.
type PasswordResetTokenModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Token     string     `gorm:"type:varchar(500);uniqueIndex;not null"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	Email     string     `gorm:"type:varchar(255);not null"`
	Used      bool       `gorm:"default:false"`
	UsedAt    *time.Time `gorm:"type:timestamptz"`
	ExpiresAt time.Time  `gorm:"not null"`
	CreatedAt time.Time  `gorm:"not null"`
}

// TableName returns the table name for the PasswordResetTokenModel.
func (PasswordResetTokenModel) TableName() string {
	return "password_reset_tokens"
}
