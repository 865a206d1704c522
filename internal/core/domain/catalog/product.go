package catalog

import (
	"time"

	"github.com/google/uuid"
)

// EmbeddedLink is a raw provider entry carried on the product row itself.
// It is the fallback source when no curated affiliate link exists.
type EmbeddedLink struct {
	URL            string  `json:"url"`
	CommissionRate float64 `json:"commission_rate"`
}

type Product struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Brand     string    `json:"brand" db:"brand"`
	Category  string    `json:"category" db:"category"`
	Price     float64   `json:"price" db:"price"`
	Rating    float64   `json:"rating" db:"rating"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	// Raw provider map keyed by provider ID, stored as jsonb.
	AffiliateLinks map[string]EmbeddedLink `json:"affiliate_links" db:"-"`
	CreatedAt      time.Time               `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at" db:"updated_at"`
}

// BestEmbeddedProvider returns the embedded provider with the highest
// commission rate, or "" when the map is empty.
func (p *Product) BestEmbeddedProvider() string {
	best := ""
	bestRate := -1.0
	for id, link := range p.AffiliateLinks {
		if link.CommissionRate > bestRate || (link.CommissionRate == bestRate && id < best) {
			best = id
			bestRate = link.CommissionRate
		}
	}
	return best
}

type UpdateProductRequest struct {
	Name     *string  `json:"name,omitempty"`
	Brand    *string  `json:"brand,omitempty"`
	Category *string  `json:"category,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	ImageURL *string  `json:"image_url,omitempty"`
}

// SearchFilters narrows a product search. Serialized (with stable key order)
// into the search cache key, so two equal filter sets always collide.
type SearchFilters struct {
	Category string  `json:"category,omitempty"`
	Brand    string  `json:"brand,omitempty"`
	MinPrice float64 `json:"min_price,omitempty"`
	MaxPrice float64 `json:"max_price,omitempty"`
	Page     int     `json:"page,omitempty"`
	Limit    int     `json:"limit,omitempty"`
}

type SearchResult struct {
	Products []*Product `json:"products"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}

// Questionnaire captures a visitor's lighting preferences and drives
// recommendations.
type Questionnaire struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	UserID    *uuid.UUID     `json:"user_id,omitempty" db:"user_id"`
	Answers   map[string]any `json:"answers" db:"-"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
