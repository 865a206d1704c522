package clientcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type localItem struct {
	Data       json.RawMessage `json:"data"`
	InsertedAt int64           `json:"inserted_at"`
	TTLMillis  int64           `json:"ttl_ms"`
}

// LocalCache is a TTL-wrapped key/value store persisted to a directory, one
// JSON file per key. It holds small client-side artifacts across restarts.
// Every operation swallows storage errors and degrades to a cache miss; a
// full disk or bad file must never break the caller.
type LocalCache struct {
	dir    string
	logger *logrus.Logger
	now    func() time.Time
}

func NewLocalCache(dir string, logger *logrus.Logger) *LocalCache {
	if err := os.MkdirAll(dir, 0o755); err != nil && logger != nil {
		logger.WithError(err).Warn("local cache directory unavailable")
	}
	return &LocalCache{dir: dir, logger: logger, now: time.Now}
}

func (l *LocalCache) Set(key string, value any, ttlMinutes int) {
	data, err := json.Marshal(value)
	if err != nil {
		l.warn(err, "local cache set failed")
		return
	}
	item := localItem{
		Data:       data,
		InsertedAt: l.now().UnixMilli(),
		TTLMillis:  int64(ttlMinutes) * 60 * 1000,
	}
	b, err := json.Marshal(item)
	if err != nil {
		l.warn(err, "local cache set failed")
		return
	}
	if err := os.WriteFile(l.path(key), b, 0o644); err != nil {
		l.warn(err, "local cache set failed")
	}
}

// Get unmarshals the entry into out and reports whether it was present and
// unexpired. Expired entries are evicted on the spot.
func (l *LocalCache) Get(key string, out any) bool {
	b, err := os.ReadFile(l.path(key))
	if err != nil {
		return false
	}
	var item localItem
	if err := json.Unmarshal(b, &item); err != nil {
		l.warn(err, "local cache get failed")
		return false
	}
	if l.now().UnixMilli()-item.InsertedAt > item.TTLMillis {
		_ = os.Remove(l.path(key))
		return false
	}
	if err := json.Unmarshal(item.Data, out); err != nil {
		l.warn(err, "local cache get failed")
		return false
	}
	return true
}

func (l *LocalCache) Remove(key string) {
	if err := os.Remove(l.path(key)); err != nil && !os.IsNotExist(err) {
		l.warn(err, "local cache remove failed")
	}
}

func (l *LocalCache) Clear() {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		l.warn(err, "local cache clear failed")
		return
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "cache_") {
			_ = os.Remove(filepath.Join(l.dir, e.Name()))
		}
	}
}

func (l *LocalCache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(l.dir, "cache_"+hex.EncodeToString(sum[:8])+".json")
}

func (l *LocalCache) warn(err error, msg string) {
	if l.logger != nil {
		l.logger.WithError(err).Warn(msg)
	}
}
