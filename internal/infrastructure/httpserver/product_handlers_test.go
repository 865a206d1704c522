package httpserver

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightingpro/storefront/internal/core/domain/catalog"
	"github.com/lightingpro/storefront/internal/core/ports"
)

type catalogSvcMock struct {
	getProductFn func(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
	searchFn     func(ctx context.Context, query string, filters catalog.SearchFilters) (*catalog.SearchResult, error)
	brandsFn     func(ctx context.Context) ([]string, error)
}

func (m *catalogSvcMock) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if m.getProductFn != nil {
		return m.getProductFn(ctx, id)
	}
	return nil, errors.New("not found")
}
func (m *catalogSvcMock) UpdateProduct(ctx context.Context, id uuid.UUID, req *catalog.UpdateProductRequest) (*catalog.Product, error) {
	return nil, errors.New("not implemented")
}
func (m *catalogSvcMock) Search(ctx context.Context, query string, filters catalog.SearchFilters) (*catalog.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, filters)
	}
	return &catalog.SearchResult{}, nil
}
func (m *catalogSvcMock) Brands(ctx context.Context) ([]string, error) {
	if m.brandsFn != nil {
		return m.brandsFn(ctx)
	}
	return []string{"Philips"}, nil
}
func (m *catalogSvcMock) Categories(ctx context.Context) ([]string, error) {
	return []string{"pendant"}, nil
}
func (m *catalogSvcMock) CreateQuestionnaire(ctx context.Context, userID *uuid.UUID, answers map[string]any) (*catalog.Questionnaire, []*catalog.Product, error) {
	return nil, nil, errors.New("not implemented")
}
func (m *catalogSvcMock) Recommendations(ctx context.Context, questionnaireID uuid.UUID) ([]*catalog.Product, error) {
	return nil, nil
}

func newCatalogTestServer(svc ports.CatalogService) *Server {
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	return NewServer(&ServerConfig{Host: "127.0.0.1", Port: "0"}, logger, ServerDeps{
		CatalogService: svc,
	})
}

func TestListBrands_StaticCacheHeaders(t *testing.T) {
	server := newCatalogTestServer(&catalogSvcMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/brands", nil)
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600, s-maxage=7200", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "Accept-Encoding", rec.Header().Get("Vary"))
	assert.Contains(t, rec.Body.String(), "Philips")
}

func TestGetProduct_DynamicCacheHeaders(t *testing.T) {
	id := uuid.New()
	svc := &catalogSvcMock{getProductFn: func(ctx context.Context, got uuid.UUID) (*catalog.Product, error) {
		assert.Equal(t, id, got)
		return &catalog.Product{ID: got, Name: "Nordlux Pendant"}, nil
	}}
	server := newCatalogTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id.String(), nil)
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=300, s-maxage=900", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "Accept-Encoding, User-Agent", rec.Header().Get("Vary"))
}

func TestGetProduct_NotFound(t *testing.T) {
	server := newCatalogTestServer(&catalogSvcMock{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestSearchProducts_ClampsPagination(t *testing.T) {
	var got catalog.SearchFilters
	svc := &catalogSvcMock{searchFn: func(ctx context.Context, query string, filters catalog.SearchFilters) (*catalog.SearchResult, error) {
		got = filters
		return &catalog.SearchResult{}, nil
	}}
	server := newCatalogTestServer(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/search?q=pendant&page=0&limit=500", nil)
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 20, got.Limit)
	assert.Equal(t, "public, max-age=60, s-maxage=300", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "Accept, Authorization", rec.Header().Get("Vary"))
}
