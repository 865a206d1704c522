package ports

import (
	"context"
	"time"
)

// RemoteStore is the key-value contract the cache orchestrator rides on.
// Implementations should degrade gracefully (returning an error without
// crashing callers) so that application logic can fall back to the origin.
type RemoteStore interface {
	// Get returns the raw bytes for key. ok=false if not found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for key with TTL (0 or negative means no expiration if supported).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key; absence is not an error.
	Delete(ctx context.Context, key string) error
	// DeletePattern removes every key matching a glob-style pattern.
	DeletePattern(ctx context.Context, pattern string) error
	// Increment atomically increments the counter at key and returns the new value.
	Increment(ctx context.Context, key string) (int64, error)
	// Expire sets a TTL on an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// MGet returns the raw bytes for each key, nil for absent entries.
	MGet(ctx context.Context, keys []string) ([][]byte, error)
}
