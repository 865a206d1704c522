package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/lightingpro/storefront/internal/application/cache"
	"github.com/lightingpro/storefront/internal/core/domain/affiliate"
	"github.com/lightingpro/storefront/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// Fixed attribution parameters appended to every generated link.
const (
	utmSource   = "lightingpro"
	utmMedium   = "affiliate"
	utmCampaign = "lighting_recommendations"
)

// Commission rate assumed for embedded fallback links that carry none.
const defaultEmbeddedRate = 0.05

type AffiliateService struct {
	providers   *affiliate.Catalog
	links       ports.LinkRepository
	clicks      ports.ClickRepository
	products    ports.ProductRepository
	cache       *cache.Cache
	affiliateID string
	logger      *logrus.Logger
}

func NewAffiliateService(providers *affiliate.Catalog, links ports.LinkRepository, clicks ports.ClickRepository, products ports.ProductRepository, c *cache.Cache, affiliateID string, logger *logrus.Logger) ports.AffiliateService {
	return &AffiliateService{
		providers:   providers,
		links:       links,
		clicks:      clicks,
		products:    products,
		cache:       c,
		affiliateID: affiliateID,
		logger:      logger,
	}
}

// GenerateLink tags the original URL with the provider's tracking parameter,
// any extra params, and the fixed attribution parameters. A URL that cannot
// be parsed, or an unknown provider, yields the original URL unchanged; a
// broken link must never block checkout.
func (s *AffiliateService) GenerateLink(originalURL, providerID, affiliateID string, extraParams map[string]string) string {
	provider, ok := s.providers.Lookup(providerID)
	if !ok {
		s.warn(nil, logrus.Fields{"provider_id": providerID}, "unknown affiliate provider")
		return originalURL
	}
	u, err := url.Parse(originalURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		s.warn(err, logrus.Fields{"url": originalURL}, "failed to parse affiliate URL")
		return originalURL
	}

	q := u.Query()
	q.Set(provider.TrackingParam, affiliateID)
	for k, v := range extraParams {
		q.Set(k, v)
	}
	q.Set("utm_source", utmSource)
	q.Set("utm_medium", utmMedium)
	q.Set("utm_campaign", utmCampaign)
	u.RawQuery = q.Encode()
	return u.String()
}

// ResolveProductLink picks the best curated link for the product, or derives
// one from the product's embedded provider map when no curated rows exist.
func (s *AffiliateService) ResolveProductLink(ctx context.Context, productID uuid.UUID, providerID string, userID *uuid.UUID) (*ports.ResolvedLink, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}

	sessionID := uuid.NewString()
	extra := map[string]string{
		"session_id": sessionID,
		"product_id": productID.String(),
	}
	if userID != nil {
		extra["user_id"] = userID.String()
	}

	links, err := cache.GetOrCompute(ctx, s.cache, cache.AffiliateLinksKey(productID.String()), cache.TTL(cache.TierProduct),
		func(ctx context.Context) ([]*affiliate.Link, error) {
			return s.links.ListActiveByProduct(ctx, productID)
		})
	if err != nil {
		s.warn(err, logrus.Fields{"product_id": productID}, "failed to load curated links")
	}

	if best := affiliate.SelectBestLink(links); best != nil {
		return &ports.ResolvedLink{
			AffiliateURL:       s.GenerateLink(best.AffiliateURL, best.ProviderID, s.affiliateID, extra),
			ProviderID:         best.ProviderID,
			CommissionRate:     best.CommissionRate,
			ExpectedCommission: s.CalculateCommission(product.Price, best.ProviderID),
			SessionID:          sessionID,
			TrackingPixelURL:   trackingPixelURL(best.ID.String(), sessionID, userID),
			LinkID:             &best.ID,
		}, nil
	}

	// Fallback: the product's embedded raw provider map.
	target := providerID
	if target == "" {
		target = product.BestEmbeddedProvider()
	}
	embedded, ok := product.AffiliateLinks[target]
	if !ok {
		return nil, fmt.Errorf("no affiliate links available for product %s", productID)
	}
	rate := embedded.CommissionRate
	if rate == 0 {
		rate = defaultEmbeddedRate
	}
	return &ports.ResolvedLink{
		AffiliateURL:       s.GenerateLink(embedded.URL, target, s.affiliateID, extra),
		ProviderID:         target,
		CommissionRate:     rate,
		ExpectedCommission: s.CalculateCommission(product.Price, target),
		SessionID:          sessionID,
		TrackingPixelURL:   trackingPixelURL("", sessionID, userID),
	}, nil
}

func (s *AffiliateService) CalculateCommission(price float64, providerID string) float64 {
	return s.providers.CalculateCommission(price, providerID)
}

func (s *AffiliateService) TrackClick(ctx context.Context, linkID uuid.UUID, sessionID string, userID *uuid.UUID, ip, userAgent, referrer string) error {
	click := &affiliate.ClickEvent{
		ID:              uuid.New(),
		AffiliateLinkID: linkID,
		SessionID:       sessionID,
		UserID:          userID,
		IPAddress:       ip,
		UserAgent:       userAgent,
		Referrer:        referrer,
		CreatedAt:       time.Now(),
	}
	if err := s.clicks.Create(ctx, click); err != nil {
		return fmt.Errorf("failed to record click: %w", err)
	}
	return nil
}

// TrackConversion marks the click converted and returns the commission
// earned at the link's rate.
func (s *AffiliateService) TrackConversion(ctx context.Context, linkID uuid.UUID, sessionID string, value float64) (float64, error) {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return 0, fmt.Errorf("affiliate link not found: %w", err)
	}
	commission := value * link.CommissionRate
	if err := s.clicks.MarkConverted(ctx, linkID, sessionID, value, commission); err != nil {
		return 0, fmt.Errorf("failed to record conversion: %w", err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"affiliate_link_id": linkID,
			"commission":        commission,
		}).Info("conversion recorded")
	}
	return commission, nil
}

// Revenue scans the period's click events in full. There is no incremental
// aggregate and no retention cutoff; callers bound the work with [from, to).
func (s *AffiliateService) Revenue(ctx context.Context, from, to time.Time) (affiliate.RevenueSummary, error) {
	clicks, err := s.clicks.ListByPeriod(ctx, from, to)
	if err != nil {
		return affiliate.RevenueSummary{}, fmt.Errorf("failed to load click events: %w", err)
	}
	return affiliate.SummarizeClicks(clicks), nil
}

func trackingPixelURL(linkID, sessionID string, userID *uuid.UUID) string {
	v := url.Values{}
	v.Set("event", "click")
	v.Set("affiliate_link_id", linkID)
	v.Set("session_id", sessionID)
	if userID != nil {
		v.Set("user_id", userID.String())
	}
	return "/api/v1/affiliate/track?" + v.Encode()
}

func (s *AffiliateService) warn(err error, fields logrus.Fields, msg string) {
	if s.logger == nil {
		return
	}
	entry := s.logger.WithFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn(msg)
}
