package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lightingpro/storefront/internal/core/domain/catalog"
	"github.com/lightingpro/storefront/internal/core/ports"
	"github.com/lightingpro/storefront/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

// productRow mirrors the products table; the embedded provider map travels
// as jsonb.
type productRow struct {
	catalog.Product
	AffiliateLinksRaw []byte `db:"affiliate_links"`
}

func (r *productRow) toDomain() (*catalog.Product, error) {
	p := r.Product
	if len(r.AffiliateLinksRaw) > 0 {
		if err := json.Unmarshal(r.AffiliateLinksRaw, &p.AffiliateLinks); err != nil {
			return nil, fmt.Errorf("failed to decode embedded affiliate links: %w", err)
		}
	}
	return &p, nil
}

type ProductRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewProductRepository(database *db.Database, logger *logrus.Logger) ports.ProductRepository {
	return &ProductRepository{db: database, logger: logger}
}

const productColumns = `id, name, brand, category, price, rating, image_url, affiliate_links, created_at, updated_at`

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var row productRow
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if err := r.db.DB.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product %s not found", id)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return row.toDomain()
}

func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	linksRaw, err := json.Marshal(p.AffiliateLinks)
	if err != nil {
		return fmt.Errorf("failed to encode embedded affiliate links: %w", err)
	}
	query := `
		UPDATE products
		SET name = $2, brand = $3, category = $4, price = $5, rating = $6,
		    image_url = $7, affiliate_links = $8, updated_at = $9
		WHERE id = $1`
	res, err := r.db.DB.ExecContext(ctx, query,
		p.ID, p.Name, p.Brand, p.Category, p.Price, p.Rating, p.ImageURL, linksRaw, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %s not found", p.ID)
	}
	return nil
}

func (r *ProductRepository) Search(ctx context.Context, query string, filters catalog.SearchFilters) (*catalog.SearchResult, error) {
	where := []string{"1=1"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if query != "" {
		where = append(where, "(name ILIKE "+arg("%"+query+"%")+" OR brand ILIKE $"+strconv.Itoa(len(args))+")")
	}
	if filters.Category != "" {
		where = append(where, "category = "+arg(filters.Category))
	}
	if filters.Brand != "" {
		where = append(where, "brand = "+arg(filters.Brand))
	}
	if filters.MinPrice > 0 {
		where = append(where, "price >= "+arg(filters.MinPrice))
	}
	if filters.MaxPrice > 0 {
		where = append(where, "price <= "+arg(filters.MaxPrice))
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.DB.GetContext(ctx, &total, "SELECT COUNT(*) FROM products WHERE "+cond, args...); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	listQuery := "SELECT " + productColumns + " FROM products WHERE " + cond +
		" ORDER BY rating DESC, name ASC LIMIT " + arg(limit) + " OFFSET " + arg((page-1)*limit)

	var rows []productRow
	if err := r.db.DB.SelectContext(ctx, &rows, listQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	products, err := rowsToDomain(rows)
	if err != nil {
		return nil, err
	}
	return &catalog.SearchResult{Products: products, Total: total, Page: page, Limit: limit}, nil
}

func (r *ProductRepository) ListByCategory(ctx context.Context, category string, page, limit int) ([]*catalog.Product, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []productRow
	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1
		ORDER BY rating DESC, name ASC LIMIT $2 OFFSET $3`
	if err := r.db.DB.SelectContext(ctx, &rows, query, category, limit, (page-1)*limit); err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}
	return rowsToDomain(rows)
}

func (r *ProductRepository) ListBrands(ctx context.Context) ([]string, error) {
	var brands []string
	if err := r.db.DB.SelectContext(ctx, &brands, `SELECT DISTINCT brand FROM products ORDER BY brand`); err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

func (r *ProductRepository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.DB.SelectContext(ctx, &categories, `SELECT DISTINCT category FROM products ORDER BY category`); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Recommend narrows the catalog by the questionnaire's category and budget
// answers, best-rated first.
func (r *ProductRepository) Recommend(ctx context.Context, q *catalog.Questionnaire, limit int) ([]*catalog.Product, error) {
	where := []string{"1=1"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if category, ok := q.Answers["category"].(string); ok && category != "" {
		where = append(where, "category = "+arg(category))
	}
	if budget, ok := q.Answers["budget_max"].(float64); ok && budget > 0 {
		where = append(where, "price <= "+arg(budget))
	}

	query := "SELECT " + productColumns + " FROM products WHERE " + strings.Join(where, " AND ") +
		" ORDER BY rating DESC, price ASC LIMIT " + arg(limit)

	var rows []productRow
	if err := r.db.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to compute recommendations: %w", err)
	}
	return rowsToDomain(rows)
}

func rowsToDomain(rows []productRow) ([]*catalog.Product, error) {
	products := make([]*catalog.Product, 0, len(rows))
	for i := range rows {
		p, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
