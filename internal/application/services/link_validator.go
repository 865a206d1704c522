package services

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lightingpro/storefront/configs"
	"github.com/lightingpro/storefront/internal/application/cache"
	"github.com/lightingpro/storefront/internal/core/domain/affiliate"
	"github.com/lightingpro/storefront/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// LinkValidator probes affiliate URLs with lightweight HEAD requests and
// caches each verdict for 24 hours, so repeated validation of the same URL
// within the window issues no probe at all. Negative results are cached too.
type LinkValidator struct {
	cache       *cache.Cache
	links       ports.LinkRepository
	client      *http.Client
	timeout     time.Duration
	concurrency int
	logger      *logrus.Logger
	now         func() time.Time
}

func NewLinkValidator(c *cache.Cache, links ports.LinkRepository, cfg *configs.AffiliateConfig, logger *logrus.Logger) ports.LinkValidator {
	concurrency := cfg.ValidationConcurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	return &LinkValidator{
		cache:       c,
		links:       links,
		client:      &http.Client{Timeout: cfg.ValidationTimeout},
		timeout:     cfg.ValidationTimeout,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

func (v *LinkValidator) Validate(ctx context.Context, url string) bool {
	valid, _ := cache.GetOrCompute(ctx, v.cache, cache.LinkValidationKey(url), cache.TTL(cache.TierLinkValidation),
		func(ctx context.Context) (bool, error) {
			return v.probe(ctx, url), nil
		})
	return valid
}

// ValidateBatch validates each URL, reusing cached verdicts and probing only
// uncached ones, at most `concurrency` probes in flight. A slow or failed
// probe does not block its siblings.
func (v *LinkValidator) ValidateBatch(ctx context.Context, urls []string) map[string]bool {
	results := make(map[string]bool, len(urls))
	seen := make(map[string]struct{}, len(urls))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, v.concurrency)

	for _, u := range urls {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}

		wg.Add(1)
		sem <- struct{}{}
		go func(u string) {
			defer wg.Done()
			defer func() { <-sem }()
			ok := v.Validate(ctx, u)
			mu.Lock()
			results[u] = ok
			mu.Unlock()
		}(u)
	}
	wg.Wait()
	return results
}

// RevalidateProduct probes every curated link of the product directly,
// bypassing the verdict cache, and persists status flips: a failing active
// link becomes broken, a recovering broken link becomes active again.
// Inactive links are left alone. The fresh verdicts replace any cached ones,
// and on any flip the product's cached link set is dropped so resolution
// sees the new statuses immediately.
func (v *LinkValidator) RevalidateProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	links, err := v.links.ListByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, l := range links {
		ok := v.probe(ctx, l.AffiliateURL)
		v.cache.Set(ctx, cache.LinkValidationKey(l.AffiliateURL), ok, cache.TTL(cache.TierLinkValidation))

		var transition error
		switch {
		case !ok && l.Status == affiliate.LinkActive:
			transition = l.MarkBroken(v.now())
		case ok && l.Status == affiliate.LinkBroken:
			transition = l.Reactivate(v.now())
		default:
			continue
		}
		if transition != nil {
			continue
		}
		if err := v.links.UpdateStatus(ctx, l); err != nil {
			if v.logger != nil {
				v.logger.WithError(err).WithField("affiliate_link_id", l.ID).Warn("failed to persist link status")
			}
			continue
		}
		changed++
	}

	if changed > 0 {
		v.cache.Delete(ctx, cache.AffiliateLinksKey(productID.String()))
	}
	return changed, nil
}

func (v *LinkValidator) probe(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := v.client.Do(req)
	if err != nil {
		if v.logger != nil {
			v.logger.WithError(err).WithField("url", url).Debug("link probe failed")
		}
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusBadRequest
}
