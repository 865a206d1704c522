package clientcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClock(start time.Time) (func() time.Time, func(time.Duration)) {
	var mu sync.Mutex
	now := start
	return func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}, func(d time.Duration) {
			mu.Lock()
			now = now.Add(d)
			mu.Unlock()
		}
}

func newTestQueryCache() (*QueryCache, func(time.Duration)) {
	q := NewQueryCache(Options{StaleTime: 5 * time.Minute, RetainTime: 10 * time.Minute}, nil)
	clock, advance := newClock(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))
	q.now = clock
	return q, advance
}

func TestFetch_CachesWhileFresh(t *testing.T) {
	q, _ := newTestQueryCache()
	calls := 0
	fn := func(ctx context.Context) (any, error) {
		calls++
		return "result", nil
	}

	for i := 0; i < 3; i++ {
		v, err := q.Fetch(context.Background(), "products:search", fn)
		require.NoError(t, err)
		assert.Equal(t, "result", v)
	}
	assert.Equal(t, 1, calls)
}

func TestFetch_RefetchesWhenStale(t *testing.T) {
	q, advance := newTestQueryCache()
	calls := 0
	fn := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	_, err := q.Fetch(context.Background(), "k", fn)
	require.NoError(t, err)

	advance(6 * time.Minute)

	v, err := q.Fetch(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, calls)
}

func TestFetch_CoalescesConcurrentCallers(t *testing.T) {
	q := NewQueryCache(Options{}, nil)
	var calls int64
	release := make(chan struct{})
	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt64(&calls, 1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := q.Fetch(context.Background(), "k", fn)
			if err == nil {
				results[i] = v
			}
		}(i)
	}
	// Give every goroutine time to join the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestFetch_ErrorNotCached(t *testing.T) {
	q, _ := newTestQueryCache()
	calls := 0
	fn := func(ctx context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("transient")
		}
		return "ok", nil
	}

	_, err := q.Fetch(context.Background(), "k", fn)
	require.Error(t, err)

	v, err := q.Fetch(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
}

func TestSeed_SkipsFetch(t *testing.T) {
	q, _ := newTestQueryCache()
	q.Seed("recommendations:q1", []string{"lamp"})

	v, err := q.Fetch(context.Background(), "recommendations:q1", func(ctx context.Context) (any, error) {
		t.Fatal("seeded entry must not refetch")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"lamp"}, v)
}

func TestPrefetch_WarmsInBackground(t *testing.T) {
	q := NewQueryCache(Options{}, nil)
	done := make(chan struct{})
	q.Prefetch("k", func(ctx context.Context) (any, error) {
		defer close(done)
		return "warm", nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("prefetch did not run")
	}

	v, err := q.Fetch(context.Background(), "k", func(ctx context.Context) (any, error) {
		t.Fatal("prefetched entry must not refetch")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "warm", v)
}

func TestPrefetch_DoesNotClobberFreshEntry(t *testing.T) {
	q, _ := newTestQueryCache()
	q.Seed("k", "fresh")

	q.Prefetch("k", func(ctx context.Context) (any, error) {
		t.Error("prefetch must skip fresh entries")
		return "clobbered", nil
	})

	v, err := q.Fetch(context.Background(), "k", func(ctx context.Context) (any, error) { return nil, nil })
	require.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestInvalidate_ForcesRefetch(t *testing.T) {
	q, _ := newTestQueryCache()
	calls := 0
	fn := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	_, _ = q.Fetch(context.Background(), "k", fn)
	q.Invalidate("k")
	v, err := q.Fetch(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestInvalidatePrefix(t *testing.T) {
	q, _ := newTestQueryCache()
	q.Seed("search:a", 1)
	q.Seed("search:b", 2)
	q.Seed("product:1", 3)

	q.InvalidatePrefix("search:")

	assert.Equal(t, 1, q.Len())
}

func TestMarkAllStale_ForcesRefetchWithoutEviction(t *testing.T) {
	q, _ := newTestQueryCache()
	calls := 0
	fn := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	_, _ = q.Fetch(context.Background(), "k", fn)
	q.MarkAllStale()
	assert.Equal(t, 1, q.Len())

	v, err := q.Fetch(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestSweep_EvictsPastRetention(t *testing.T) {
	q, advance := newTestQueryCache()
	q.Seed("old", 1)
	advance(11 * time.Minute)
	q.Seed("new", 2)

	evicted := q.Sweep()
	assert.Equal(t, 1, evicted)
	assert.Equal(t, 1, q.Len())
}

func TestFetch_AccessExtendsRetentionNotFreshness(t *testing.T) {
	q, advance := newTestQueryCache()
	calls := 0
	fn := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	_, _ = q.Fetch(context.Background(), "k", fn)

	// Touch the entry at minute 4; retention slides, staleness does not.
	advance(4 * time.Minute)
	_, _ = q.Fetch(context.Background(), "k", fn)
	assert.Equal(t, 1, calls)

	// At minute 6 the entry is past StaleTime but still retained.
	advance(2 * time.Minute)
	assert.Equal(t, 1, q.Len())
	v, err := q.Fetch(context.Background(), "k", fn)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}
