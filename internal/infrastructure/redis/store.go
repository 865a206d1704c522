package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store implements ports.RemoteStore on a Redis client. An optional prefix
// namespaces every key so that several deployments can share one instance.
type Store struct {
	r      redis.UniversalClient
	prefix string
}

func NewStore(r redis.UniversalClient, prefix string) *Store {
	return &Store{r: r, prefix: prefix}
}

func (s *Store) namespaced(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.r.Get(ctx, s.namespaced(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.r.Set(ctx, s.namespaced(key), value, ttl).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.r.Del(ctx, s.namespaced(key)).Err()
}

// DeletePattern removes every key matching the glob pattern. It walks the
// keyspace with SCAN instead of KEYS so a broad invalidation cannot stall
// the server. Matches are collected across the full scan and deleted once
// the cursor closes; deleting mid-scan can shift the cursor past live keys.
func (s *Store) DeletePattern(ctx context.Context, pattern string) error {
	var keys []string
	var cursor uint64
	for {
		page, next, err := s.r.Scan(ctx, cursor, s.namespaced(pattern), 200).Result()
		if err != nil {
			return err
		}
		keys = append(keys, page...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return s.r.Del(ctx, keys...).Err()
}

func (s *Store) Increment(ctx context.Context, key string) (int64, error) {
	return s.r.Incr(ctx, s.namespaced(key)).Result()
}

func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.r.Expire(ctx, s.namespaced(key), ttl).Err()
}

func (s *Store) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	ns := make([]string, len(keys))
	for i, k := range keys {
		ns[i] = s.namespaced(k)
	}
	vals, err := s.r.MGet(ctx, ns...).Result()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(keys))
	for i, v := range vals {
		if str, ok := v.(string); ok {
			out[i] = []byte(str)
		}
	}
	return out, nil
}
