// Package kvstore provides the key-value-with-TTL boundary used by the JWT
// blacklist, the pending two-factor sessions and the rate-limit counters.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	// SetEX stores value under key with the given TTL. A TTL <= 0 is a no-op
	// so callers can clamp "expire in the past" to "never stored".
	SetEX(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	// Incr atomically increments the integer value at key, creating it at 1.
	Incr(ctx context.Context, key string) (int64, error)
	// ExpireNX sets a TTL on key only if it has none yet.
	ExpireNX(ctx context.Context, key string, ttl time.Duration) error
	Close() error
}
