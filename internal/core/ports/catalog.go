package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/lightingpro/storefront/internal/core/domain/catalog"
)

// ProductRepository is the origin store for catalog data. The cache layer
// treats every method here as an opaque compute path.
type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
	Update(ctx context.Context, p *catalog.Product) error
	Search(ctx context.Context, query string, filters catalog.SearchFilters) (*catalog.SearchResult, error)
	ListByCategory(ctx context.Context, category string, page, limit int) ([]*catalog.Product, error)
	ListBrands(ctx context.Context) ([]string, error)
	ListCategories(ctx context.Context) ([]string, error)
	Recommend(ctx context.Context, q *catalog.Questionnaire, limit int) ([]*catalog.Product, error)
}

type QuestionnaireRepository interface {
	Create(ctx context.Context, q *catalog.Questionnaire) error
	GetByID(ctx context.Context, id uuid.UUID) (*catalog.Questionnaire, error)
}

// CatalogService is the cached read surface consumed by the HTTP handlers.
type CatalogService interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *catalog.UpdateProductRequest) (*catalog.Product, error)
	Search(ctx context.Context, query string, filters catalog.SearchFilters) (*catalog.SearchResult, error)
	Brands(ctx context.Context) ([]string, error)
	Categories(ctx context.Context) ([]string, error)
	CreateQuestionnaire(ctx context.Context, userID *uuid.UUID, answers map[string]any) (*catalog.Questionnaire, []*catalog.Product, error)
	Recommendations(ctx context.Context, questionnaireID uuid.UUID) ([]*catalog.Product, error)
}
