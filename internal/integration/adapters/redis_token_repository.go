package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/diet-tracker/backend/internal/application/adapter"
)

const (
	refreshKeyPrefix     = "auth:refresh:"
	userRefreshKeyPrefix = "auth:user-refresh:"
	resetKeyPrefix       = "auth:reset:"
)

// redisTokenRepository keeps token state in Redis. Keys expire together with
// the token, so invalidation is a delete and no cleanup job is needed.
type redisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository creates a Redis backed token repository.
func NewRedisTokenRepository(client *redis.Client) adapter.TokenRepository {
	return &redisTokenRepository{client: client}
}

// SaveRefreshToken stores the token and indexes it under its user.
func (r *redisTokenRepository) SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	userKey := userRefreshKeyPrefix + userID.String()
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, refreshKeyPrefix+token, userID.String(), ttl)
		pipe.SAdd(ctx, userKey, token)
		pipe.Expire(ctx, userKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// IsRefreshTokenValid checks if a refresh token is still stored.
func (r *redisTokenRepository) IsRefreshTokenValid(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, refreshKeyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check refresh token: %w", err)
	}
	return n == 1, nil
}

// InvalidateRefreshToken removes a refresh token.
func (r *redisTokenRepository) InvalidateRefreshToken(ctx context.Context, token string) error {
	userID, err := r.client.Get(ctx, refreshKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read refresh token: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, refreshKeyPrefix+token)
		pipe.SRem(ctx, userRefreshKeyPrefix+userID, token)
		return nil
	})
	return err
}

// InvalidateAllUserRefreshTokens removes every refresh token of a user.
func (r *redisTokenRepository) InvalidateAllUserRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	userKey := userRefreshKeyPrefix + userID.String()
	tokens, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list user refresh tokens: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, refreshKeyPrefix+t)
	}
	keys = append(keys, userKey)
	return r.client.Del(ctx, keys...).Err()
}

type resetTokenValue struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SavePasswordResetToken stores a reset token until it expires.
func (r *redisTokenRepository) SavePasswordResetToken(ctx context.Context, token *adapter.PasswordResetToken) error {
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	value, err := json.Marshal(resetTokenValue{UserID: token.UserID, Email: token.Email, ExpiresAt: token.ExpiresAt})
	if err != nil {
		return fmt.Errorf("failed to encode reset token: %w", err)
	}
	return r.client.Set(ctx, resetKeyPrefix+token.Token, value, ttl).Err()
}

// GetPasswordResetToken returns the reset token or nil when it is unknown, used or expired.
func (r *redisTokenRepository) GetPasswordResetToken(ctx context.Context, token string) (*adapter.PasswordResetToken, error) {
	raw, err := r.client.Get(ctx, resetKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reset token: %w", err)
	}

	var value resetTokenValue
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("failed to decode reset token: %w", err)
	}
	return &adapter.PasswordResetToken{
		Token:     token,
		UserID:    value.UserID,
		Email:     value.Email,
		ExpiresAt: value.ExpiresAt,
	}, nil
}

// InvalidatePasswordResetToken deletes a reset token so it cannot be reused.
func (r *redisTokenRepository) InvalidatePasswordResetToken(ctx context.Context, token string) error {
	return r.client.Del(ctx, resetKeyPrefix+token).Err()
}
