package cache

import "time"

// Tier classifies a cache namespace. Every write declares its tier up front;
// callers pick durations from this table only, never ad hoc values.
type Tier string

const (
	TierStatic          Tier = "static"
	TierProduct         Tier = "product"
	TierSearch          Tier = "search"
	TierRecommendations Tier = "recommendations"
	TierUser            Tier = "user"
	TierAnalytics       Tier = "analytics"
	TierLinkValidation  Tier = "link_validation"
)

// TTL returns the fixed duration bound to a tier.
func TTL(t Tier) time.Duration {
	switch t {
	case TierStatic:
		return 4 * time.Hour
	case TierProduct:
		return time.Hour
	case TierSearch:
		return 15 * time.Minute
	case TierRecommendations:
		return 30 * time.Minute
	case TierUser:
		return 10 * time.Minute
	case TierAnalytics:
		return 5 * time.Minute
	case TierLinkValidation:
		return 24 * time.Hour
	default:
		return time.Hour
	}
}
