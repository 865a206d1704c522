package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lightingpro/storefront/internal/core/domain/affiliate"
	"github.com/lightingpro/storefront/internal/core/ports"
	"github.com/lightingpro/storefront/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

type LinkRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewLinkRepository(database *db.Database, logger *logrus.Logger) ports.LinkRepository {
	return &LinkRepository{db: database, logger: logger}
}

const linkColumns = `id, provider_id, product_id, original_url, affiliate_url, commission_rate, priority, status, last_validated, created_at`

func (r *LinkRepository) Create(ctx context.Context, l *affiliate.Link) error {
	query := `
		INSERT INTO affiliate_links (` + linkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.DB.ExecContext(ctx, query,
		l.ID, l.ProviderID, l.ProductID, l.OriginalURL, l.AffiliateURL,
		l.CommissionRate, l.Priority, l.Status, l.LastValidated, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create affiliate link: %w", err)
	}
	return nil
}

func (r *LinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*affiliate.Link, error) {
	var link affiliate.Link
	query := `SELECT ` + linkColumns + ` FROM affiliate_links WHERE id = $1`
	if err := r.db.DB.GetContext(ctx, &link, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("affiliate link %s not found", id)
		}
		return nil, fmt.Errorf("failed to get affiliate link: %w", err)
	}
	return &link, nil
}

func (r *LinkRepository) ListActiveByProduct(ctx context.Context, productID uuid.UUID) ([]*affiliate.Link, error) {
	var links []*affiliate.Link
	query := `SELECT ` + linkColumns + ` FROM affiliate_links
		WHERE product_id = $1 AND status = $2
		ORDER BY priority DESC, commission_rate DESC, created_at ASC`
	if err := r.db.DB.SelectContext(ctx, &links, query, productID, affiliate.LinkActive); err != nil {
		return nil, fmt.Errorf("failed to list affiliate links: %w", err)
	}
	return links, nil
}

func (r *LinkRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*affiliate.Link, error) {
	var links []*affiliate.Link
	query := `SELECT ` + linkColumns + ` FROM affiliate_links
		WHERE product_id = $1
		ORDER BY priority DESC, commission_rate DESC, created_at ASC`
	if err := r.db.DB.SelectContext(ctx, &links, query, productID); err != nil {
		return nil, fmt.Errorf("failed to list affiliate links: %w", err)
	}
	return links, nil
}

func (r *LinkRepository) UpdateStatus(ctx context.Context, l *affiliate.Link) error {
	query := `UPDATE affiliate_links SET status = $2, last_validated = $3 WHERE id = $1`
	res, err := r.db.DB.ExecContext(ctx, query, l.ID, l.Status, l.LastValidated)
	if err != nil {
		return fmt.Errorf("failed to update affiliate link status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("affiliate link %s not found", l.ID)
	}
	return nil
}
