package affiliate

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

type LinkStatus string

const (
	LinkActive   LinkStatus = "active"
	LinkInactive LinkStatus = "inactive"
	LinkBroken   LinkStatus = "broken"
)

// Link is a curated affiliate link for a product. Many links may exist per
// product; resolution picks at most one per request. Status is the only
// mutable field, and only through the transition methods below.
type Link struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ProviderID     string     `json:"provider_id" db:"provider_id"`
	ProductID      uuid.UUID  `json:"product_id" db:"product_id"`
	OriginalURL    string     `json:"original_url" db:"original_url"`
	AffiliateURL   string     `json:"affiliate_url" db:"affiliate_url"`
	CommissionRate float64    `json:"commission_rate" db:"commission_rate"`
	Priority       int        `json:"priority" db:"priority"`
	Status         LinkStatus `json:"status" db:"status"`
	LastValidated  *time.Time `json:"last_validated" db:"last_validated"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// MarkBroken records a failed validation. Only active links can break.
func (l *Link) MarkBroken(at time.Time) error {
	if l.Status != LinkActive {
		return fmt.Errorf("cannot mark %s link as broken", l.Status)
	}
	l.Status = LinkBroken
	l.LastValidated = &at
	return nil
}

// Reactivate records a successful re-validation of a broken link.
func (l *Link) Reactivate(at time.Time) error {
	if l.Status != LinkBroken {
		return fmt.Errorf("cannot reactivate %s link", l.Status)
	}
	l.Status = LinkActive
	l.LastValidated = &at
	return nil
}

// Deactivate is the administrative kill switch. Inactive is terminal except
// for administrative reactivation outside this service.
func (l *Link) Deactivate() error {
	if l.Status != LinkActive {
		return fmt.Errorf("cannot deactivate %s link", l.Status)
	}
	l.Status = LinkInactive
	return nil
}

// SelectBestLink picks the active link with the highest priority, ties broken
// by the highest commission rate. The sort is stable so exact ties resolve
// deterministically by input order. Returns nil when no active link exists.
func SelectBestLink(links []*Link) *Link {
	active := make([]*Link, 0, len(links))
	for _, l := range links {
		if l.Status == LinkActive {
			active = append(active, l)
		}
	}
	if len(active) == 0 {
		return nil
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Priority != active[j].Priority {
			return active[i].Priority > active[j].Priority
		}
		return active[i].CommissionRate > active[j].CommissionRate
	})
	return active[0]
}
