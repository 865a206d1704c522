package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lightingpro/storefront/internal/application/cache"
	"github.com/lightingpro/storefront/internal/core/domain/affiliate"
	"github.com/lightingpro/storefront/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// Interaction types tracked against products.
const (
	InteractionView     = "view"
	InteractionClick    = "click"
	InteractionFavorite = "favorite"
)

// DailySnapshot is the cached analytics rollup for one day.
type DailySnapshot struct {
	Date    string                    `json:"date"`
	Revenue affiliate.RevenueSummary  `json:"revenue"`
	Top     []*affiliate.ProductClick `json:"top_products"`
}

// HitRates reports the cache hit rate for the current hour and day buckets.
type HitRates struct {
	Hour float64 `json:"hour"`
	Day  float64 `json:"day"`
}

type AnalyticsService struct {
	cache       *cache.Cache
	metrics     *cache.Metrics
	invalidator *cache.Invalidator
	clicks      ports.ClickRepository
	logger      *logrus.Logger
	now         func() time.Time
}

func NewAnalyticsService(c *cache.Cache, metrics *cache.Metrics, inv *cache.Invalidator, clicks ports.ClickRepository, logger *logrus.Logger) *AnalyticsService {
	return &AnalyticsService{
		cache:       c,
		metrics:     metrics,
		invalidator: inv,
		clicks:      clicks,
		logger:      logger,
		now:         time.Now,
	}
}

// TrackInteraction records a view/click/favorite against a product. The
// counters and stale-key cleanup run through the invalidation fan-out.
func (s *AnalyticsService) TrackInteraction(ctx context.Context, productID uuid.UUID, interactionType string) {
	s.invalidator.OnUserInteraction(ctx, productID.String(), interactionType)
}

// ProductStats reads today's interaction counters for a product. The result
// is cached under the product-stats key, which interaction tracking deletes
// so the numbers recompute on next read.
func (s *AnalyticsService) ProductStats(ctx context.Context, productID uuid.UUID) (*affiliate.ProductStats, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.ProductStatsKey(productID.String()), cache.TTL(cache.TierAnalytics),
		func(ctx context.Context) (*affiliate.ProductStats, error) {
			today := s.now().Format("2006-01-02")
			counts := cache.MGet[int](ctx, s.cache, []string{
				cache.InteractionCounterKey(productID.String(), InteractionView, today),
				cache.InteractionCounterKey(productID.String(), InteractionClick, today),
				cache.InteractionCounterKey(productID.String(), InteractionFavorite, today),
			})
			stats := &affiliate.ProductStats{ProductID: productID}
			if counts[0] != nil {
				stats.Views = *counts[0]
			}
			if counts[1] != nil {
				stats.Clicks = *counts[1]
			}
			if counts[2] != nil {
				stats.Favorites = *counts[2]
			}
			return stats, nil
		})
}

// DailySnapshot aggregates a day's clicks and top products, cached under the
// daily analytics key until the next interaction invalidates it.
func (s *AnalyticsService) DailySnapshot(ctx context.Context, day time.Time) (*DailySnapshot, error) {
	date := day.Format("2006-01-02")
	return cache.GetOrCompute(ctx, s.cache, cache.DailyAnalyticsKey(date), cache.TTL(cache.TierAnalytics),
		func(ctx context.Context) (*DailySnapshot, error) {
			from := day.Truncate(24 * time.Hour)
			to := from.Add(24 * time.Hour)
			clicks, err := s.clicks.ListByPeriod(ctx, from, to)
			if err != nil {
				return nil, err
			}
			top, err := s.clicks.TopProducts(ctx, from, to, 10)
			if err != nil {
				return nil, err
			}
			return &DailySnapshot{
				Date:    date,
				Revenue: affiliate.SummarizeClicks(clicks),
				Top:     top,
			}, nil
		})
}

// TopProducts returns the most-clicked products for a named period.
func (s *AnalyticsService) TopProducts(ctx context.Context, period string) ([]*affiliate.ProductClick, error) {
	var from time.Time
	to := s.now()
	switch period {
	case "day":
		from = to.Add(-24 * time.Hour)
	case "month":
		from = to.Add(-30 * 24 * time.Hour)
	default:
		period = "week"
		from = to.Add(-7 * 24 * time.Hour)
	}
	return cache.GetOrCompute(ctx, s.cache, cache.TopProductsKey(period), cache.TTL(cache.TierAnalytics),
		func(ctx context.Context) ([]*affiliate.ProductClick, error) {
			return s.clicks.TopProducts(ctx, from, to, 10)
		})
}

// ConversionFunnel summarizes the trailing 30 days of click events into the
// click-to-conversion funnel shown on the admin dashboard. The summary is
// cached; interaction tracking invalidates it along with the other analytics
// keys.
func (s *AnalyticsService) ConversionFunnel(ctx context.Context) (affiliate.RevenueSummary, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.ConversionFunnelKey(), cache.TTL(cache.TierAnalytics),
		func(ctx context.Context) (affiliate.RevenueSummary, error) {
			to := s.now()
			from := to.AddDate(0, 0, -30)
			clicks, err := s.clicks.ListByPeriod(ctx, from, to)
			if err != nil {
				return affiliate.RevenueSummary{}, err
			}
			return affiliate.SummarizeClicks(clicks), nil
		})
}

// Forecast projects revenue for an expected click volume from the period's
// historical clicks.
func (s *AnalyticsService) Forecast(ctx context.Context, from, to time.Time, projectedClicks int) (affiliate.RevenueForecast, error) {
	clicks, err := s.clicks.ListByPeriod(ctx, from, to)
	if err != nil {
		return affiliate.RevenueForecast{}, err
	}
	return affiliate.PredictRevenue(clicks, projectedClicks), nil
}

// CacheHitRates exposes the hit-rate instrumentation for the admin dashboard.
func (s *AnalyticsService) CacheHitRates(ctx context.Context) HitRates {
	return HitRates{
		Hour: s.metrics.HitRate(ctx, cache.PeriodHour),
		Day:  s.metrics.HitRate(ctx, cache.PeriodDay),
	}
}
