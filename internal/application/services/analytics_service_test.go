package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lightingpro/storefront/internal/application/cache"
	impl "github.com/lightingpro/storefront/internal/application/services"
	"github.com/lightingpro/storefront/internal/core/domain/affiliate"
)

func newAnalyticsService(t *testing.T, clicks *clickRepoMock) *impl.AnalyticsService {
	t.Helper()
	c := newTestCache(t)
	return impl.NewAnalyticsService(c, nil, cache.NewInvalidator(c, nil), clicks, nil)
}

func TestProductStats_ReflectsTrackedInteractions(t *testing.T) {
	svc := newAnalyticsService(t, &clickRepoMock{})
	ctx := context.Background()
	productID := uuid.New()

	svc.TrackInteraction(ctx, productID, impl.InteractionView)
	svc.TrackInteraction(ctx, productID, impl.InteractionView)
	svc.TrackInteraction(ctx, productID, impl.InteractionClick)

	stats, err := svc.ProductStats(ctx, productID)
	if err != nil {
		t.Fatalf("product stats: %v", err)
	}
	if stats.Views != 2 || stats.Clicks != 1 || stats.Favorites != 0 {
		t.Errorf("stats = %+v, want 2 views, 1 click", stats)
	}
}

func TestProductStats_RecomputesAfterNewInteraction(t *testing.T) {
	svc := newAnalyticsService(t, &clickRepoMock{})
	ctx := context.Background()
	productID := uuid.New()

	svc.TrackInteraction(ctx, productID, impl.InteractionView)
	stats, err := svc.ProductStats(ctx, productID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Views != 1 {
		t.Fatalf("views = %d, want 1", stats.Views)
	}

	// Tracking drops the cached stats entry, so the next read sees the new
	// counter value instead of a stale snapshot.
	svc.TrackInteraction(ctx, productID, impl.InteractionView)
	stats, err = svc.ProductStats(ctx, productID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Views != 2 {
		t.Errorf("views = %d, want 2 after invalidation", stats.Views)
	}
}

func TestDailySnapshot_AggregatesClicksAndTopProducts(t *testing.T) {
	earned := 8.0
	productID := uuid.New()
	listCalls := 0
	clicks := &clickRepoMock{
		listByPeriodFn: func(ctx context.Context, from, to time.Time) ([]*affiliate.ClickEvent, error) {
			listCalls++
			return []*affiliate.ClickEvent{
				{Converted: true, CommissionEarned: &earned},
				{Converted: false},
			}, nil
		},
		topProductsFn: func(ctx context.Context, from, to time.Time, limit int) ([]*affiliate.ProductClick, error) {
			return []*affiliate.ProductClick{{ProductID: productID, Clicks: 2}}, nil
		},
	}
	svc := newAnalyticsService(t, clicks)
	ctx := context.Background()
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	snap, err := svc.DailySnapshot(ctx, day)
	if err != nil {
		t.Fatalf("daily snapshot: %v", err)
	}
	if snap.Date != "2026-08-30" {
		t.Errorf("date = %q", snap.Date)
	}
	if snap.Revenue.TotalClicks != 2 || snap.Revenue.TotalCommission != 8 {
		t.Errorf("revenue = %+v", snap.Revenue)
	}
	if len(snap.Top) != 1 || snap.Top[0].Clicks != 2 {
		t.Errorf("top = %+v", snap.Top)
	}

	// Second read comes from the cache.
	if _, err := svc.DailySnapshot(ctx, day); err != nil {
		t.Fatal(err)
	}
	if listCalls != 1 {
		t.Errorf("origin scans = %d, want 1", listCalls)
	}
}

func TestTopProducts_UnknownPeriodFallsBackToWeek(t *testing.T) {
	var gotFrom, gotTo time.Time
	clicks := &clickRepoMock{topProductsFn: func(ctx context.Context, from, to time.Time, limit int) ([]*affiliate.ProductClick, error) {
		gotFrom, gotTo = from, to
		return nil, nil
	}}
	svc := newAnalyticsService(t, clicks)

	if _, err := svc.TopProducts(context.Background(), "fortnight"); err != nil {
		t.Fatal(err)
	}
	window := gotTo.Sub(gotFrom)
	if window != 7*24*time.Hour {
		t.Errorf("window = %v, want one week", window)
	}
}

func TestConversionFunnel_CachesTrailingWindowSummary(t *testing.T) {
	earned := 5.0
	listCalls := 0
	clicks := &clickRepoMock{listByPeriodFn: func(ctx context.Context, from, to time.Time) ([]*affiliate.ClickEvent, error) {
		listCalls++
		if window := to.Sub(from); window < 29*24*time.Hour || window > 31*24*time.Hour {
			t.Errorf("window = %v, want about 30 days", window)
		}
		return []*affiliate.ClickEvent{
			{Converted: true, CommissionEarned: &earned},
			{Converted: false},
			{Converted: false},
			{Converted: false},
		}, nil
	}}
	svc := newAnalyticsService(t, clicks)
	ctx := context.Background()

	funnel, err := svc.ConversionFunnel(ctx)
	if err != nil {
		t.Fatalf("conversion funnel: %v", err)
	}
	if funnel.TotalClicks != 4 || funnel.Conversions != 1 {
		t.Errorf("funnel = %+v, want 4 clicks and 1 conversion", funnel)
	}
	if funnel.ConversionRate != 0.25 {
		t.Errorf("conversion rate = %v, want 0.25", funnel.ConversionRate)
	}

	// Second read comes from the cache.
	if _, err := svc.ConversionFunnel(ctx); err != nil {
		t.Fatal(err)
	}
	if listCalls != 1 {
		t.Errorf("origin scans = %d, want 1", listCalls)
	}
}

func TestForecast_ProjectsFromHistoricalClicks(t *testing.T) {
	earned := 2.0
	history := make([]*affiliate.ClickEvent, 0, 200)
	for i := 0; i < 200; i++ {
		history = append(history, &affiliate.ClickEvent{CommissionEarned: &earned})
	}
	clicks := &clickRepoMock{listByPeriodFn: func(ctx context.Context, from, to time.Time) ([]*affiliate.ClickEvent, error) {
		return history, nil
	}}
	svc := newAnalyticsService(t, clicks)

	forecast, err := svc.Forecast(context.Background(), time.Now().Add(-30*24*time.Hour), time.Now(), 50)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if forecast.EstimatedRevenue != 100 {
		t.Errorf("estimated = %v, want 100", forecast.EstimatedRevenue)
	}
	if forecast.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", forecast.Confidence)
	}
	if forecast.RangeMin != 80 || forecast.RangeMax != 120 {
		t.Errorf("range = [%v, %v], want [80, 120]", forecast.RangeMin, forecast.RangeMax)
	}
}
