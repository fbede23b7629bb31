package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diet-tracker/backend/internal/application/adapter"
	"github.com/diet-tracker/backend/internal/integration/persistence/persistencetest"
)

func TestTokenRepository_RefreshTokens(t *testing.T) {
	repo := NewTokenRepository(persistencetest.NewDB(t))
	ctx := context.Background()
	userID := uuid.New()
	expires := time.Now().UTC().Add(time.Hour)

	require.NoError(t, repo.SaveRefreshToken(ctx, "tok-1", userID, expires))
	require.NoError(t, repo.SaveRefreshToken(ctx, "tok-2", userID, expires))
	require.NoError(t, repo.SaveRefreshToken(ctx, "old", userID, time.Now().UTC().Add(-time.Minute)))

	valid, err := repo.IsRefreshTokenValid(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, valid)

	valid, _ = repo.IsRefreshTokenValid(ctx, "old")
	assert.False(t, valid, "expired token")

	valid, _ = repo.IsRefreshTokenValid(ctx, "unknown")
	assert.False(t, valid)

	require.NoError(t, repo.InvalidateRefreshToken(ctx, "tok-1"))
	valid, _ = repo.IsRefreshTokenValid(ctx, "tok-1")
	assert.False(t, valid)
	valid, _ = repo.IsRefreshTokenValid(ctx, "tok-2")
	assert.True(t, valid)

	require.NoError(t, repo.InvalidateAllUserRefreshTokens(ctx, userID))
	valid, _ = repo.IsRefreshTokenValid(ctx, "tok-2")
	assert.False(t, valid)
}

func TestTokenRepository_PasswordResetTokens(t *testing.T) {
	repo := NewTokenRepository(persistencetest.NewDB(t))
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.SavePasswordResetToken(ctx, &adapter.PasswordResetToken{
		Token:     "reset-1",
		UserID:    userID,
		Email:     "reset@example.com",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}))
	require.NoError(t, repo.SavePasswordResetToken(ctx, &adapter.PasswordResetToken{
		Token:     "reset-expired",
		UserID:    userID,
		Email:     "reset@example.com",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}))

	token, err := repo.GetPasswordResetToken(ctx, "reset-1")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, userID, token.UserID)
	assert.Equal(t, "reset@example.com", token.Email)

	token, err = repo.GetPasswordResetToken(ctx, "reset-expired")
	require.NoError(t, err)
	assert.Nil(t, token)

	require.NoError(t, repo.InvalidatePasswordResetToken(ctx, "reset-1"))
	token, err = repo.GetPasswordResetToken(ctx, "reset-1")
	require.NoError(t, err)
	assert.Nil(t, token, "used tokens are not returned")
}
