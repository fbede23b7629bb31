package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenService_GenerateAndValidate(t *testing.T) {
	_, client := newTestRedis(t)
	svc := NewTokenService("secret", 15*time.Minute, time.Hour, NewRedisTokenRepository(client))
	ctx := context.Background()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(ctx, userID, "a@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	t.Run("access token validates as access", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(ctx, pair.AccessToken)
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if claims.UserID != userID || claims.Email != "a@x.com" {
			t.Errorf("unexpected claims: %+v", claims)
		}
	})

	t.Run("refresh token is rejected as access", func(t *testing.T) {
		if _, err := svc.ValidateAccessToken(ctx, pair.RefreshToken); err == nil {
			t.Error("expected error for refresh token used as access token")
		}
	})

	t.Run("refresh token is stored", func(t *testing.T) {
		valid, err := svc.IsRefreshTokenValid(ctx, pair.RefreshToken)
		if err != nil || !valid {
			t.Errorf("expected stored refresh token, valid=%v err=%v", valid, err)
		}
	})

	t.Run("other secret is rejected", func(t *testing.T) {
		other := NewTokenService("other", time.Minute, time.Minute, NewRedisTokenRepository(client))
		if _, err := other.ValidateAccessToken(ctx, pair.AccessToken); err == nil {
			t.Error("expected signature error")
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := NewTokenService("secret", -time.Minute, time.Hour, NewRedisTokenRepository(client))
		stale, err := expired.GenerateTokenPair(ctx, userID, "a@x.com")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if _, err := svc.ValidateAccessToken(ctx, stale.AccessToken); err == nil {
			t.Error("expected expiry error")
		}
	})
}

func TestPasswordResetTokenService(t *testing.T) {
	_, client := newTestRedis(t)
	svc := NewPasswordResetTokenService(NewRedisTokenRepository(client))
	ctx := context.Background()

	token, err := svc.GenerateResetToken(ctx, uuid.New(), "a@x.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(token.Token) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(token.Token))
	}

	if _, err := svc.ValidateResetToken(ctx, token.Token); err != nil {
		t.Errorf("expected valid token, got %v", err)
	}
	if err := svc.InvalidateResetToken(ctx, token.Token); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := svc.ValidateResetToken(ctx, token.Token); err == nil {
		t.Error("expected used token to be rejected")
	}
}

func TestPasswordService(t *testing.T) {
	svc := NewPasswordServiceWithCost(4)

	hash, err := svc.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := svc.VerifyPassword(hash, "secret123"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := svc.VerifyPassword(hash, "wrong"); err == nil {
		t.Error("expected mismatch")
	}

	tests := []struct {
		password string
		wantErr  bool
	}{
		{"short", true},
		{"secret123", false},
		{string(make([]byte, 73)), true},
	}
	for _, tt := range tests {
		if err := svc.ValidatePasswordStrength(tt.password); (err != nil) != tt.wantErr {
			t.Errorf("ValidatePasswordStrength(len=%d) error = %v, wantErr %v", len(tt.password), err, tt.wantErr)
		}
	}
}
