package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/lightingpro/storefront/internal/core/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var cacheRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_requests_total",
		Help: "The total number of remote cache reads by result",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(cacheRequestsTotal)
}

type Period string

const (
	PeriodHour Period = "hour"
	PeriodDay  Period = "day"
)

// Metrics tracks cache hits and misses in hour- and day-scoped counters.
// Counters live in the remote store itself and carry a TTL equal to their
// bucket length, so stale buckets expire on their own. Atomicity is
// delegated to the store's INCR; there is no application-level locking.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	store  ports.RemoteStore
	logger *logrus.Logger
	now    func() time.Time
}

func NewMetrics(store ports.RemoteStore, logger *logrus.Logger) *Metrics {
	return &Metrics{store: store, logger: logger, now: time.Now}
}

func (m *Metrics) RecordHit(ctx context.Context) {
	if m == nil {
		return
	}
	cacheRequestsTotal.WithLabelValues("hit").Inc()
	m.bump(ctx, "cache_hits")
}

func (m *Metrics) RecordMiss(ctx context.Context) {
	if m == nil {
		return
	}
	cacheRequestsTotal.WithLabelValues("miss").Inc()
	m.bump(ctx, "cache_misses")
}

func (m *Metrics) bump(ctx context.Context, name string) {
	now := m.now()
	m.incr(ctx, fmt.Sprintf("%s:%d", name, now.Hour()), time.Hour)
	m.incr(ctx, fmt.Sprintf("%s:%s", name, now.Format("2006-01-02")), 24*time.Hour)
}

func (m *Metrics) incr(ctx context.Context, key string, ttl time.Duration) {
	n, err := m.store.Increment(ctx, key)
	if err != nil {
		if m.logger != nil {
			m.logger.WithError(err).Debug("cache metric increment failed")
		}
		return
	}
	if n == 1 {
		_ = m.store.Expire(ctx, key, ttl)
	}
}

// HitRate returns hits/(hits+misses) for the current bucket of the given
// period, and 0 when the bucket saw no traffic.
func (m *Metrics) HitRate(ctx context.Context, period Period) float64 {
	if m == nil {
		return 0
	}
	suffix := fmt.Sprintf("%d", m.now().Hour())
	if period == PeriodDay {
		suffix = m.now().Format("2006-01-02")
	}
	vals, err := m.store.MGet(ctx, []string{"cache_hits:" + suffix, "cache_misses:" + suffix})
	if err != nil || len(vals) != 2 {
		return 0
	}
	hits := parseCount(vals[0])
	misses := parseCount(vals[1])
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

func parseCount(b []byte) int64 {
	if b == nil {
		return 0
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
