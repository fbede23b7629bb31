package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/diet-tracker/backend/internal/application/adapter"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisTokenRepository_RefreshTokens(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewRedisTokenRepository(client)
	ctx := context.Background()
	userID := uuid.New()

	if err := repo.SaveRefreshToken(ctx, "tok-1", userID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveRefreshToken(ctx, "tok-2", userID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("save: %v", err)
	}

	t.Run("stored token is valid", func(t *testing.T) {
		valid, err := repo.IsRefreshTokenValid(ctx, "tok-1")
		if err != nil || !valid {
			t.Errorf("expected valid token, got valid=%v err=%v", valid, err)
		}
	})

	t.Run("invalidate one", func(t *testing.T) {
		if err := repo.InvalidateRefreshToken(ctx, "tok-1"); err != nil {
			t.Fatalf("invalidate: %v", err)
		}
		valid, _ := repo.IsRefreshTokenValid(ctx, "tok-1")
		if valid {
			t.Error("expected tok-1 to be invalid")
		}
		valid, _ = repo.IsRefreshTokenValid(ctx, "tok-2")
		if !valid {
			t.Error("expected tok-2 to stay valid")
		}
	})

	t.Run("invalidate all", func(t *testing.T) {
		if err := repo.InvalidateAllUserRefreshTokens(ctx, userID); err != nil {
			t.Fatalf("invalidate all: %v", err)
		}
		valid, _ := repo.IsRefreshTokenValid(ctx, "tok-2")
		if valid {
			t.Error("expected tok-2 to be invalid")
		}
	})

	t.Run("expires with ttl", func(t *testing.T) {
		_ = repo.SaveRefreshToken(ctx, "tok-3", userID, time.Now().Add(time.Minute))
		mr.FastForward(2 * time.Minute)
		valid, _ := repo.IsRefreshTokenValid(ctx, "tok-3")
		if valid {
			t.Error("expected tok-3 to expire")
		}
	})

	t.Run("invalidating unknown token is a no-op", func(t *testing.T) {
		if err := repo.InvalidateRefreshToken(ctx, "nope"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestRedisTokenRepository_ResetTokens(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewRedisTokenRepository(client)
	ctx := context.Background()

	token := &adapter.PasswordResetToken{
		Token:     "reset-abc",
		UserID:    uuid.New(),
		Email:     "a@x.com",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	if err := repo.SavePasswordResetToken(ctx, token); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetPasswordResetToken(ctx, "reset-abc")
	if err != nil || got == nil {
		t.Fatalf("expected token, got %v err=%v", got, err)
	}
	if got.UserID != token.UserID || got.Email != "a@x.com" {
		t.Errorf("unexpected token: %+v", got)
	}

	if err := repo.InvalidatePasswordResetToken(ctx, "reset-abc"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	got, err = repo.GetPasswordResetToken(ctx, "reset-abc")
	if err != nil || got != nil {
		t.Errorf("expected nil after invalidation, got %v err=%v", got, err)
	}
}
