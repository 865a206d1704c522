package affiliate

type ProviderStatus string

const (
	ProviderActive   ProviderStatus = "active"
	ProviderInactive ProviderStatus = "inactive"
	ProviderTesting  ProviderStatus = "testing"
)

// Provider describes an affiliate network the storefront can route purchases
// through. The catalog is loaded once at startup and is immutable at runtime.
type Provider struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Domain         string         `json:"domain"`
	CommissionRate float64        `json:"commission_rate"`
	TrackingParam  string         `json:"tracking_param"`
	Status         ProviderStatus `json:"status"`
}

// Catalog is a read-only lookup of providers by ID.
type Catalog struct {
	providers map[string]Provider
}

func NewCatalog(providers []Provider) *Catalog {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[p.ID] = p
	}
	return &Catalog{providers: m}
}

func (c *Catalog) Lookup(id string) (Provider, bool) {
	p, ok := c.providers[id]
	return p, ok
}

// CalculateCommission returns the expected commission for a sale at the given
// price through the given provider. An unknown provider earns nothing.
func (c *Catalog) CalculateCommission(price float64, providerID string) float64 {
	p, ok := c.providers[providerID]
	if !ok {
		return 0
	}
	return price * p.CommissionRate
}

// DefaultProviders is the built-in provider catalog.
func DefaultProviders() []Provider {
	return []Provider{
		{
			ID:             "amazon",
			Name:           "Amazon Associates",
			Domain:         "amazon.com",
			CommissionRate: 0.08,
			TrackingParam:  "tag",
			Status:         ProviderActive,
		},
		{
			ID:             "wayfair",
			Name:           "Wayfair Partners",
			Domain:         "wayfair.com",
			CommissionRate: 0.05,
			TrackingParam:  "refid",
			Status:         ProviderActive,
		},
		{
			ID:             "homedepot",
			Name:           "Home Depot Affiliates",
			Domain:         "homedepot.com",
			CommissionRate: 0.04,
			TrackingParam:  "cm_mmc",
			Status:         ProviderActive,
		},
		{
			ID:             "lumens",
			Name:           "Lumens Trade Program",
			Domain:         "lumens.com",
			CommissionRate: 0.06,
			TrackingParam:  "pid",
			Status:         ProviderActive,
		},
		{
			ID:             "lighting_direct",
			Name:           "Lighting Direct",
			Domain:         "lightingdirect.com",
			CommissionRate: 0.12,
			TrackingParam:  "aff",
			Status:         ProviderActive,
		},
	}
}
