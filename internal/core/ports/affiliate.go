package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lightingpro/storefront/internal/core/domain/affiliate"
)

type LinkRepository interface {
	Create(ctx context.Context, l *affiliate.Link) error
	GetByID(ctx context.Context, id uuid.UUID) (*affiliate.Link, error)
	ListActiveByProduct(ctx context.Context, productID uuid.UUID) ([]*affiliate.Link, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*affiliate.Link, error)
	UpdateStatus(ctx context.Context, l *affiliate.Link) error
}

type ClickRepository interface {
	Create(ctx context.Context, c *affiliate.ClickEvent) error
	// MarkConverted flips the click identified by link and session to
	// converted, recording value and commission. Returns the updated row.
	MarkConverted(ctx context.Context, linkID uuid.UUID, sessionID string, value, commission float64) error
	ListByPeriod(ctx context.Context, from, to time.Time) ([]*affiliate.ClickEvent, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]*affiliate.ProductClick, error)
}

// ResolvedLink is the outcome of affiliate link resolution for a product.
type ResolvedLink struct {
	AffiliateURL       string  `json:"affiliate_url"`
	ProviderID         string  `json:"provider"`
	CommissionRate     float64 `json:"commission_rate"`
	ExpectedCommission float64 `json:"expected_commission"`
	SessionID          string  `json:"session_id"`
	TrackingPixelURL   string  `json:"tracking_pixel_url"`
	// LinkID is nil when the link was derived from the product's embedded
	// provider map rather than a curated row.
	LinkID *uuid.UUID `json:"affiliate_link_id,omitempty"`
}

type AffiliateService interface {
	GenerateLink(originalURL, providerID, affiliateID string, extraParams map[string]string) string
	ResolveProductLink(ctx context.Context, productID uuid.UUID, providerID string, userID *uuid.UUID) (*ResolvedLink, error)
	CalculateCommission(price float64, providerID string) float64
	TrackClick(ctx context.Context, linkID uuid.UUID, sessionID string, userID *uuid.UUID, ip, userAgent, referrer string) error
	TrackConversion(ctx context.Context, linkID uuid.UUID, sessionID string, value float64) (float64, error)
	Revenue(ctx context.Context, from, to time.Time) (affiliate.RevenueSummary, error)
}

// LinkValidator probes affiliate URLs for liveness, caching each verdict for
// a fixed window so repeated checks of the same URL cost nothing.
type LinkValidator interface {
	Validate(ctx context.Context, url string) bool
	ValidateBatch(ctx context.Context, urls []string) map[string]bool
	// RevalidateProduct probes every curated link of the product, flips
	// active links that fail to broken and broken links that recover back
	// to active, and returns how many links changed status.
	RevalidateProduct(ctx context.Context, productID uuid.UUID) (int, error)
}
