package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "blacklist:"

// RevokeSession marks a session token id as logged out until ttl elapses.
func RevokeSession(ctx context.Context, client *redis.Client, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return client.Set(ctx, revokedPrefix+jti, "1", ttl).Err()
}

// IsSessionRevoked reports whether jti was logged out.
func IsSessionRevoked(ctx context.Context, client *redis.Client, jti string) (bool, error) {
	n, err := client.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
