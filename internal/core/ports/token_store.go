package ports

import (
	"context"
	"time"
)

// RevokedTokenStore remembers access tokens that were signed out before
// they expired.
type RevokedTokenStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
