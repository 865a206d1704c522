package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lightingpro/storefront/internal/core/domain/affiliate"
	"github.com/lightingpro/storefront/internal/core/ports"
	"github.com/lightingpro/storefront/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

type ClickRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewClickRepository(database *db.Database, logger *logrus.Logger) ports.ClickRepository {
	return &ClickRepository{db: database, logger: logger}
}

func (r *ClickRepository) Create(ctx context.Context, c *affiliate.ClickEvent) error {
	query := `
		INSERT INTO affiliate_clicks
			(id, affiliate_link_id, session_id, user_id, ip_address, user_agent, referrer, converted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.DB.ExecContext(ctx, query,
		c.ID, c.AffiliateLinkID, c.SessionID, c.UserID, c.IPAddress, c.UserAgent, c.Referrer, c.Converted, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert click event: %w", err)
	}
	return nil
}

func (r *ClickRepository) MarkConverted(ctx context.Context, linkID uuid.UUID, sessionID string, value, commission float64) error {
	query := `
		UPDATE affiliate_clicks
		SET converted = TRUE, conversion_value = $3, commission_earned = $4, converted_at = NOW()
		WHERE affiliate_link_id = $1 AND session_id = $2`
	res, err := r.db.DB.ExecContext(ctx, query, linkID, sessionID, value, commission)
	if err != nil {
		return fmt.Errorf("failed to mark click converted: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("no click found for link %s and session %s", linkID, sessionID)
	}
	return nil
}

func (r *ClickRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]*affiliate.ClickEvent, error) {
	var clicks []*affiliate.ClickEvent
	query := `
		SELECT id, affiliate_link_id, session_id, user_id, ip_address, user_agent, referrer,
		       converted, conversion_value, commission_earned, created_at, converted_at
		FROM affiliate_clicks
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at ASC`
	if err := r.db.DB.SelectContext(ctx, &clicks, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list click events: %w", err)
	}
	return clicks, nil
}

func (r *ClickRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]*affiliate.ProductClick, error) {
	var top []*affiliate.ProductClick
	query := `
		SELECT l.product_id AS product_id, COUNT(*) AS clicks
		FROM affiliate_clicks c
		JOIN affiliate_links l ON l.id = c.affiliate_link_id
		WHERE c.created_at >= $1 AND c.created_at < $2
		GROUP BY l.product_id
		ORDER BY clicks DESC
		LIMIT $3`
	if err := r.db.DB.SelectContext(ctx, &top, query, from, to, limit); err != nil {
		return nil, fmt.Errorf("failed to aggregate top products: %w", err)
	}
	return top, nil
}
