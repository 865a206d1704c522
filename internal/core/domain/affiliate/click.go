package affiliate

import (
	"time"

	"github.com/google/uuid"
)

// ClickEvent records a follow of an affiliate link. Created on click and
// mutated once on conversion; never deleted.
type ClickEvent struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	AffiliateLinkID  uuid.UUID  `json:"affiliate_link_id" db:"affiliate_link_id"`
	SessionID        string     `json:"session_id" db:"session_id"`
	UserID           *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	IPAddress        string     `json:"ip_address" db:"ip_address"`
	UserAgent        string     `json:"user_agent" db:"user_agent"`
	Referrer         string     `json:"referrer" db:"referrer"`
	Converted        bool       `json:"converted" db:"converted"`
	ConversionValue  *float64   `json:"conversion_value,omitempty" db:"conversion_value"`
	CommissionEarned *float64   `json:"commission_earned,omitempty" db:"commission_earned"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	ConvertedAt      *time.Time `json:"converted_at,omitempty" db:"converted_at"`
}

// ProductClick is an aggregated click count per product.
type ProductClick struct {
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Clicks    int       `json:"clicks" db:"clicks"`
}

// ProductStats is the per-product interaction rollup for the current day.
type ProductStats struct {
	ProductID uuid.UUID `json:"product_id"`
	Views     int       `json:"views"`
	Clicks    int       `json:"clicks"`
	Favorites int       `json:"favorites"`
}
