package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevokedTokenStore remembers signed-out access tokens until they would have
// expired anyway.
// Key format: revoked:<token_id>
type RevokedTokenStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRevokedTokenStore wraps the given Redis client.
func NewRevokedTokenStore(client *redis.Client) *RevokedTokenStore {
	return &RevokedTokenStore{client: client, now: time.Now}
}

// Revoke marks tokenID as revoked until the given time. Tokens that already
// expired are not stored.
func (s *RevokedTokenStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID was signed out.
func (s *RevokedTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revoked token check: %w", err)
	}
	return n > 0, nil
}

func key(tokenID string) string {
	return "revoked:" + tokenID
}
