package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lightingpro/storefront/internal/application/cache"
	"github.com/lightingpro/storefront/internal/core/domain/catalog"
	"github.com/lightingpro/storefront/internal/core/ports"
	"github.com/sirupsen/logrus"
)

const recommendationLimit = 20

// CatalogService serves catalog reads through the cache orchestrator and
// routes mutations through the invalidation fan-out.
type CatalogService struct {
	products       ports.ProductRepository
	questionnaires ports.QuestionnaireRepository
	cache          *cache.Cache
	invalidator    *cache.Invalidator
	logger         *logrus.Logger
}

func NewCatalogService(products ports.ProductRepository, questionnaires ports.QuestionnaireRepository, c *cache.Cache, inv *cache.Invalidator, logger *logrus.Logger) ports.CatalogService {
	return &CatalogService{
		products:       products,
		questionnaires: questionnaires,
		cache:          c,
		invalidator:    inv,
		logger:         logger,
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.ProductKey(id.String()), cache.TTL(cache.TierProduct),
		func(ctx context.Context) (*catalog.Product, error) {
			return s.products.GetByID(ctx, id)
		})
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *catalog.UpdateProductRequest) (*catalog.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	p.UpdatedAt = time.Now()

	if err := s.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	s.invalidator.OnProductUpdate(ctx, id.String())
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"product_id": id}).Info("product updated")
	}
	return p, nil
}

func (s *CatalogService) Search(ctx context.Context, query string, filters catalog.SearchFilters) (*catalog.SearchResult, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.SearchKey(query, filters), cache.TTL(cache.TierSearch),
		func(ctx context.Context) (*catalog.SearchResult, error) {
			return s.products.Search(ctx, query, filters)
		})
}

func (s *CatalogService) Brands(ctx context.Context) ([]string, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.BrandsKey(), cache.TTL(cache.TierStatic),
		func(ctx context.Context) ([]string, error) {
			return s.products.ListBrands(ctx)
		})
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.CategoriesKey(), cache.TTL(cache.TierStatic),
		func(ctx context.Context) ([]string, error) {
			return s.products.ListCategories(ctx)
		})
}

// CreateQuestionnaire stores the questionnaire, computes its recommendations
// once, and seeds the recommendation cache directly from the response so the
// follow-up read skips the origin entirely.
func (s *CatalogService) CreateQuestionnaire(ctx context.Context, userID *uuid.UUID, answers map[string]any) (*catalog.Questionnaire, []*catalog.Product, error) {
	q := &catalog.Questionnaire{
		ID:        uuid.New(),
		UserID:    userID,
		Answers:   answers,
		CreatedAt: time.Now(),
	}
	if err := s.questionnaires.Create(ctx, q); err != nil {
		return nil, nil, fmt.Errorf("failed to create questionnaire: %w", err)
	}

	recs, err := s.products.Recommend(ctx, q, recommendationLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute recommendations: %w", err)
	}
	s.cache.Set(ctx, cache.RecommendationsKey(q.ID.String()), recs, cache.TTL(cache.TierRecommendations))
	return q, recs, nil
}

func (s *CatalogService) Recommendations(ctx context.Context, questionnaireID uuid.UUID) ([]*catalog.Product, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.RecommendationsKey(questionnaireID.String()), cache.TTL(cache.TierRecommendations),
		func(ctx context.Context) ([]*catalog.Product, error) {
			q, err := s.questionnaires.GetByID(ctx, questionnaireID)
			if err != nil {
				return nil, err
			}
			return s.products.Recommend(ctx, q, recommendationLimit)
		})
}
