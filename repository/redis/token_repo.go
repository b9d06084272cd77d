package redis

import (
	"context"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskdeck/backend/repository"
)

const revokedKeyPrefix = "revoked:"

type tokenStore struct {
	client *redislib.Client
}

// NewTokenStore returns a Redis-backed revocation list. Entries expire
// together with the token they shadow, so the set stays bounded.
func NewTokenStore(client *redislib.Client) repository.TokenStore {
	return &tokenStore{client: client}
}

func (s *tokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	if ttl <= 0 {
		// Token already expired; nothing to shadow.
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

func (s *tokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	if err := s.client.Get(ctx, revokedKeyPrefix+jti).Err(); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
