// Package clientcache implements the per-session tiers that sit in front of
// the HTTP API: an in-memory query cache with independent staleness and
// retention timers, and a small disk-persisted TTL store.
package clientcache

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type FetchFunc func(ctx context.Context) (any, error)

type Options struct {
	// StaleTime is how long fetched data counts as fresh. Accessing a fresh
	// entry never refetches, even across remounts.
	StaleTime time.Duration
	// RetainTime is how long an inactive entry stays resident before the
	// sweeper evicts it.
	RetainTime time.Duration
}

type entry struct {
	data        any
	staleAt     time.Time
	retainUntil time.Time
}

// QueryCache caches query results per key. Requests for the same key are
// coalesced: while a fetch is in flight, further callers await its result
// instead of issuing duplicates. This is the one tier with a true
// single-flight guarantee.
type QueryCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	sf      singleflight.Group
	opts    Options
	logger  *logrus.Logger
	now     func() time.Time
}

func NewQueryCache(opts Options, logger *logrus.Logger) *QueryCache {
	if opts.StaleTime <= 0 {
		opts.StaleTime = 5 * time.Minute
	}
	if opts.RetainTime <= 0 {
		opts.RetainTime = 10 * time.Minute
	}
	return &QueryCache{
		entries: make(map[string]*entry),
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// Fetch returns the cached value when fresh, otherwise runs fn (coalesced
// across concurrent callers) and caches its result.
func (q *QueryCache) Fetch(ctx context.Context, key string, fn FetchFunc) (any, error) {
	if v, ok := q.fresh(key); ok {
		return v, nil
	}
	v, err, _ := q.sf.Do(key, func() (any, error) {
		// A coalesced caller may arrive after the leader already stored.
		if v, ok := q.fresh(key); ok {
			return v, nil
		}
		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		q.store(key, v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Seed writes a value directly into the cache, marking it fresh. Used to
// populate a derived read query from a mutation's response so the client
// skips the redundant round trip.
func (q *QueryCache) Seed(key string, data any) {
	q.store(key, data)
}

// Prefetch warms the key in the background. Failures are discarded and a
// fresh entry is never overwritten. The fetch is detached from the caller's
// lifetime: it runs to completion even if no one is waiting.
func (q *QueryCache) Prefetch(key string, fn FetchFunc) {
	if _, ok := q.fresh(key); ok {
		return
	}
	go func() {
		if _, err := q.Fetch(context.Background(), key, fn); err != nil && q.logger != nil {
			q.logger.WithError(err).Debug("prefetch discarded")
		}
	}()
}

// Invalidate drops the entry; the next Fetch refetches.
func (q *QueryCache) Invalidate(key string) {
	q.mu.Lock()
	delete(q.entries, key)
	q.mu.Unlock()
}

// InvalidatePrefix drops every entry whose key starts with prefix.
func (q *QueryCache) InvalidatePrefix(prefix string) {
	q.mu.Lock()
	for k := range q.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(q.entries, k)
		}
	}
	q.mu.Unlock()
}

// MarkAllStale forces every resident entry to refetch on next access. Hook
// this to connectivity restoration; window refocus deliberately does not
// call it.
func (q *QueryCache) MarkAllStale() {
	now := q.now()
	q.mu.Lock()
	for _, e := range q.entries {
		e.staleAt = now
	}
	q.mu.Unlock()
}

// Sweep evicts entries whose retention window has passed and reports how
// many were dropped.
func (q *QueryCache) Sweep() int {
	now := q.now()
	evicted := 0
	q.mu.Lock()
	for k, e := range q.entries {
		if now.After(e.retainUntil) {
			delete(q.entries, k)
			evicted++
		}
	}
	q.mu.Unlock()
	return evicted
}

// StartSweeper runs Sweep on an interval until ctx is done.
func (q *QueryCache) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				q.Sweep()
			}
		}
	}()
}

func (q *QueryCache) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *QueryCache) fresh(key string) (any, bool) {
	now := q.now()
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.entries[key]
	if !ok {
		return nil, false
	}
	if now.After(e.retainUntil) {
		delete(q.entries, key)
		return nil, false
	}
	if now.Before(e.staleAt) {
		// Access extends retention, not freshness.
		e.retainUntil = now.Add(q.opts.RetainTime)
		return e.data, true
	}
	return nil, false
}

func (q *QueryCache) store(key string, data any) {
	now := q.now()
	q.mu.Lock()
	q.entries[key] = &entry{
		data:        data,
		staleAt:     now.Add(q.opts.StaleTime),
		retainUntil: now.Add(q.opts.RetainTime),
	}
	q.mu.Unlock()
}
