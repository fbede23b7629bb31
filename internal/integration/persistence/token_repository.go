package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/integration/persistence/model"
)

// tokenRepository keeps session state in the refresh_tokens and
// password_reset_tokens tables. Used in local mode when no redis is configured.
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository instance.
func NewTokenRepository(db *gorm.DB) adapter.TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	row := model.RefreshTokenModel{
		ID:        uuid.New(),
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return classify("save refresh token", r.db.WithContext(ctx).Create(&row).Error)
}

func (r *tokenRepository) IsRefreshTokenValid(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.live(ctx, &model.RefreshTokenModel{}, "invalidated", token).Count(&count).Error
	if err != nil {
		return false, classify("check refresh token", err)
	}
	return count > 0, nil
}

func (r *tokenRepository) InvalidateRefreshToken(ctx context.Context, token string) error {
	return r.revokeRefresh(ctx, "token = ?", token)
}

func (r *tokenRepository) InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	return r.revokeRefresh(ctx, "user_id = ?", userID)
}

func (r *tokenRepository) revokeRefresh(ctx context.Context, where string, arg any) error {
	err := r.db.WithContext(ctx).Model(&model.RefreshTokenModel{}).Where(where, arg).Update("invalidated", true).Error
	return classify("revoke refresh tokens", err)
}

func (r *tokenRepository) SavePasswordResetToken(ctx context.Context, token *adapter.PasswordResetToken) error {
	row := model.PasswordResetTokenModel{
		ID:        uuid.New(),
		Token:     token.Token,
		UserID:    token.UserID,
		Email:     token.Email,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return classify("save reset token", r.db.WithContext(ctx).Create(&row).Error)
}

// GetPasswordResetToken returns nil, nil for unknown, used or expired tokens.
func (r *tokenRepository) GetPasswordResetToken(ctx context.Context, token string) (*adapter.PasswordResetToken, error) {
	var row model.PasswordResetTokenModel
	err := r.live(ctx, &model.PasswordResetTokenModel{}, "used", token).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	case err != nil:
		return nil, classify("get reset token", err)
	}
	return &adapter.PasswordResetToken{
		Token:     row.Token,
		UserID:    row.UserID,
		Email:     row.Email,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func (r *tokenRepository) InvalidatePasswordResetToken(ctx context.Context, token string) error {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).
		Model(&model.PasswordResetTokenModel{}).
		Where("token = ?", token).
		Updates(map[string]any{"used": true, "used_at": &now}).Error
	return classify("use reset token", err)
}

// live scopes a query to a token that is neither revoked (revokedColumn) nor expired.
func (r *tokenRepository) live(ctx context.Context, table any, revokedColumn, token string) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(table).
		Where("token = ?", token).
		Where(revokedColumn+" = ?", false).
		Where("expires_at > ?", time.Now().UTC())
}
