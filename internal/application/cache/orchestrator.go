package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lightingpro/storefront/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// Cache is the get-or-compute orchestrator over the remote store. Every
// store failure is non-fatal: reads degrade to the compute path, writes are
// dropped, and the caller never sees an infrastructure error. Concurrent
// misses for the same key may each run compute; compute must be idempotent.
type Cache struct {
	store   ports.RemoteStore
	metrics *Metrics
	logger  *logrus.Logger
}

func New(store ports.RemoteStore, metrics *Metrics, logger *logrus.Logger) *Cache {
	return &Cache{store: store, metrics: metrics, logger: logger}
}

// GetOrCompute returns the cached value for key, or runs compute, stores the
// result with the given TTL, and returns it. Only compute errors propagate.
func GetOrCompute[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	b, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logError(err, key, "cache read failed")
	} else if ok {
		var v T
		uerr := json.Unmarshal(b, &v)
		if uerr == nil {
			c.metrics.RecordHit(ctx)
			return v, nil
		}
		c.logError(uerr, key, "cache entry corrupt")
	}

	v, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.metrics.RecordMiss(ctx)
	c.Set(ctx, key, v, ttl)
	return v, nil
}

// Set serializes and stores a value. Failures are logged and dropped.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	b, err := json.Marshal(value)
	if err != nil {
		c.logError(err, key, "cache serialization failed")
		return
	}
	if err := c.store.Set(ctx, key, b, ttl); err != nil {
		c.logError(err, key, "cache write failed")
	}
}

func (c *Cache) Delete(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.logError(err, key, "cache delete failed")
	}
}

func (c *Cache) DeletePattern(ctx context.Context, pattern string) {
	if err := c.store.DeletePattern(ctx, pattern); err != nil {
		c.logError(err, pattern, "cache pattern delete failed")
	}
}

// Increment bumps a counter, applying the TTL when the key is created by
// this call. Returns 0 on store failure.
func (c *Cache) Increment(ctx context.Context, key string, ttl time.Duration) int64 {
	n, err := c.store.Increment(ctx, key)
	if err != nil {
		c.logError(err, key, "cache increment failed")
		return 0
	}
	if ttl > 0 && n == 1 {
		if err := c.store.Expire(ctx, key, ttl); err != nil {
			c.logError(err, key, "cache expire failed")
		}
	}
	return n
}

// MGet returns one value per key, nil for entries that are absent,
// unreadable, or lost to a store failure.
func MGet[T any](ctx context.Context, c *Cache, keys []string) []*T {
	out := make([]*T, len(keys))
	raw, err := c.store.MGet(ctx, keys)
	if err != nil {
		c.logError(err, "", "cache multi-get failed")
		return out
	}
	for i, b := range raw {
		if b == nil {
			continue
		}
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			out[i] = &v
		}
	}
	return out
}

func (c *Cache) logError(err error, key, msg string) {
	if c.logger == nil {
		return
	}
	c.logger.WithFields(logrus.Fields{"key": key}).WithError(err).Warn(msg)
}
