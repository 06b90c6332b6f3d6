// Package sessions maps opaque session tokens to user ids in a key-value
// cache with per-entry expiry.
package sessions

import (
	"context"
	"time"
)

// Store is a string key-value cache with TTL. Get returns
// common.ErrorNotFound for keys that are absent or expired.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	IsAlive(ctx context.Context) bool
	Close() error
}
