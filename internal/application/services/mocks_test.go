package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/lightingpro/storefront/internal/application/cache"
	"github.com/lightingpro/storefront/internal/core/domain/affiliate"
	"github.com/lightingpro/storefront/internal/core/domain/catalog"
	redisinfra "github.com/lightingpro/storefront/internal/infrastructure/redis"
)

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.New(redisinfra.NewStore(client, ""), nil, nil)
}

type productRepoMock struct {
	getByIDFn   func(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
	updateFn    func(ctx context.Context, p *catalog.Product) error
	searchFn    func(ctx context.Context, query string, filters catalog.SearchFilters) (*catalog.SearchResult, error)
	recommendFn func(ctx context.Context, q *catalog.Questionnaire, limit int) ([]*catalog.Product, error)
	brandsFn    func(ctx context.Context) ([]string, error)
}

func (m *productRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, errors.New("not found")
}
func (m *productRepoMock) Update(ctx context.Context, p *catalog.Product) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return nil
}
func (m *productRepoMock) Search(ctx context.Context, query string, filters catalog.SearchFilters) (*catalog.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, filters)
	}
	return &catalog.SearchResult{}, nil
}
func (m *productRepoMock) ListByCategory(ctx context.Context, category string, page, limit int) ([]*catalog.Product, error) {
	return nil, nil
}
func (m *productRepoMock) ListBrands(ctx context.Context) ([]string, error) {
	if m.brandsFn != nil {
		return m.brandsFn(ctx)
	}
	return nil, nil
}
func (m *productRepoMock) ListCategories(ctx context.Context) ([]string, error) { return nil, nil }
func (m *productRepoMock) Recommend(ctx context.Context, q *catalog.Questionnaire, limit int) ([]*catalog.Product, error) {
	if m.recommendFn != nil {
		return m.recommendFn(ctx, q, limit)
	}
	return nil, nil
}

type questionnaireRepoMock struct {
	createFn  func(ctx context.Context, q *catalog.Questionnaire) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*catalog.Questionnaire, error)
}

func (m *questionnaireRepoMock) Create(ctx context.Context, q *catalog.Questionnaire) error {
	if m.createFn != nil {
		return m.createFn(ctx, q)
	}
	return nil
}
func (m *questionnaireRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Questionnaire, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, errors.New("not found")
}

type linkRepoMock struct {
	getByIDFn      func(ctx context.Context, id uuid.UUID) (*affiliate.Link, error)
	listActiveFn   func(ctx context.Context, productID uuid.UUID) ([]*affiliate.Link, error)
	listAllFn      func(ctx context.Context, productID uuid.UUID) ([]*affiliate.Link, error)
	updateStatusFn func(ctx context.Context, l *affiliate.Link) error
}

func (m *linkRepoMock) Create(ctx context.Context, l *affiliate.Link) error { return nil }
func (m *linkRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*affiliate.Link, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, errors.New("not found")
}
func (m *linkRepoMock) ListActiveByProduct(ctx context.Context, productID uuid.UUID) ([]*affiliate.Link, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, productID)
	}
	return nil, nil
}
func (m *linkRepoMock) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*affiliate.Link, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx, productID)
	}
	return nil, nil
}
func (m *linkRepoMock) UpdateStatus(ctx context.Context, l *affiliate.Link) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, l)
	}
	return nil
}

type clickRepoMock struct {
	createFn        func(ctx context.Context, c *affiliate.ClickEvent) error
	markConvertedFn func(ctx context.Context, linkID uuid.UUID, sessionID string, value, commission float64) error
	listByPeriodFn  func(ctx context.Context, from, to time.Time) ([]*affiliate.ClickEvent, error)
	topProductsFn   func(ctx context.Context, from, to time.Time, limit int) ([]*affiliate.ProductClick, error)
}

func (m *clickRepoMock) Create(ctx context.Context, c *affiliate.ClickEvent) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}
func (m *clickRepoMock) MarkConverted(ctx context.Context, linkID uuid.UUID, sessionID string, value, commission float64) error {
	if m.markConvertedFn != nil {
		return m.markConvertedFn(ctx, linkID, sessionID, value, commission)
	}
	return nil
}
func (m *clickRepoMock) ListByPeriod(ctx context.Context, from, to time.Time) ([]*affiliate.ClickEvent, error) {
	if m.listByPeriodFn != nil {
		return m.listByPeriodFn(ctx, from, to)
	}
	return nil, nil
}
func (m *clickRepoMock) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]*affiliate.ProductClick, error) {
	if m.topProductsFn != nil {
		return m.topProductsFn(ctx, from, to, limit)
	}
	return nil, nil
}
