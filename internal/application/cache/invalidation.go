package cache

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Invalidator fans deletes out to the keys a domain mutation may have
// invalidated. Every step is best-effort: the cache operations are
// fail-open, so one failed delete never prevents the others from running.
type Invalidator struct {
	cache  *Cache
	logger *logrus.Logger
	now    func() time.Time
}

func NewInvalidator(cache *Cache, logger *logrus.Logger) *Invalidator {
	return &Invalidator{cache: cache, logger: logger, now: time.Now}
}

// OnProductUpdate drops the product's own entries and wipes the search,
// category, and recommendation namespaces wholesale. Those tiers depend on
// broad, unpredictable subsets of the catalog; coarse invalidation is
// acceptable because they already carry short TTLs.
func (i *Invalidator) OnProductUpdate(ctx context.Context, productID string) {
	i.cache.Delete(ctx, ProductKey(productID))
	i.cache.Delete(ctx, ProductStatsKey(productID))
	i.cache.DeletePattern(ctx, "search:*")
	i.cache.DeletePattern(ctx, "category:*")
	i.cache.DeletePattern(ctx, "recommendations:*")
	if i.logger != nil {
		i.logger.WithFields(logrus.Fields{"product_id": productID}).Debug("product caches invalidated")
	}
}

// OnUserInteraction bumps the day-bucketed interaction counters and forces
// the product stats and today's analytics snapshot to recompute on next read.
func (i *Invalidator) OnUserInteraction(ctx context.Context, productID, interactionType string) {
	today := i.now().Format("2006-01-02")
	ttl := TTL(TierAnalytics)
	i.cache.Increment(ctx, InteractionCounterKey(productID, interactionType, today), ttl)
	i.cache.Increment(ctx, GlobalCounterKey(interactionType, today), ttl)
	i.cache.Delete(ctx, ProductStatsKey(productID))
	i.cache.Delete(ctx, DailyAnalyticsKey(today))
	i.cache.Delete(ctx, ConversionFunnelKey())
}

// OnUserProfileUpdate drops every user-scoped entry for the user.
func (i *Invalidator) OnUserProfileUpdate(ctx context.Context, userID string) {
	i.cache.Delete(ctx, UserProfileKey(userID))
	i.cache.Delete(ctx, UserQuestionnaireKey(userID))
	i.cache.Delete(ctx, UserFavoritesKey(userID))
}
