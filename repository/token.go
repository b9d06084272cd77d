package repository

import (
	"context"
	"time"
)

// TokenStore tracks revoked credentials until their natural expiry, so a
// logged-out token stops authenticating before its validity window ends.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
