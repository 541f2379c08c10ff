package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrTokenNotFound is returned when no refresh token is stored for a user,
// which happens after logout, expiry, or a never-logged-in user.
var ErrTokenNotFound = errors.New("refresh token not found")

// RefreshTokenStore keeps exactly one live refresh token per user under
// refresh_token:<id>. Issuing a new token overwrites the previous one, so
// older refresh tokens stop working immediately.
type RefreshTokenStore struct {
	client *redis.Client
}

func NewRefreshTokenStore(redisURL string) (*RefreshTokenStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RefreshTokenStore{client: redis.NewClient(opts)}, nil
}

func NewRefreshTokenStoreFromClient(client *redis.Client) *RefreshTokenStore {
	return &RefreshTokenStore{client: client}
}

func (s *RefreshTokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RefreshTokenStore) Save(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	return s.client.Set(ctx, tokenKey(userID), token, ttl).Err()
}

func (s *RefreshTokenStore) Get(ctx context.Context, userID int64) (string, error) {
	val, err := s.client.Get(ctx, tokenKey(userID)).Result()
	if err == redis.Nil {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RefreshTokenStore) Delete(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, tokenKey(userID)).Err()
}

func (s *RefreshTokenStore) Close() error {
	return s.client.Close()
}

func tokenKey(userID int64) string {
	return fmt.Sprintf("refresh_token:%d", userID)
}
