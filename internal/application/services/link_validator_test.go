package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lightingpro/storefront/configs"
	impl "github.com/lightingpro/storefront/internal/application/services"
	"github.com/lightingpro/storefront/internal/core/domain/affiliate"
	"github.com/lightingpro/storefront/internal/core/ports"
)

func newValidator(t *testing.T) ports.LinkValidator {
	return newValidatorWithRepo(t, &linkRepoMock{})
}

func newValidatorWithRepo(t *testing.T, links *linkRepoMock) ports.LinkValidator {
	t.Helper()
	cfg := &configs.AffiliateConfig{ValidationTimeout: 2 * time.Second, ValidationConcurrency: 4}
	return impl.NewLinkValidator(newTestCache(t), links, cfg, nil)
}

func TestValidate_ProbesOncePerWindow(t *testing.T) {
	var probes int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&probes, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	v := newValidator(t)
	ctx := context.Background()

	if !v.Validate(ctx, srv.URL) {
		t.Fatal("expected reachable URL to validate")
	}
	if !v.Validate(ctx, srv.URL) {
		t.Fatal("expected cached verdict")
	}
	if n := atomic.LoadInt64(&probes); n != 1 {
		t.Errorf("probes = %d, want 1", n)
	}
}

func TestValidate_CachesNegativeVerdicts(t *testing.T) {
	var probes int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&probes, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	v := newValidator(t)
	ctx := context.Background()

	if v.Validate(ctx, srv.URL) {
		t.Fatal("expected 404 URL to fail validation")
	}
	if v.Validate(ctx, srv.URL) {
		t.Fatal("expected cached negative verdict")
	}
	if n := atomic.LoadInt64(&probes); n != 1 {
		t.Errorf("probes = %d, want 1 (negative result cached)", n)
	}
}

func TestValidate_UnreachableHostIsFalse(t *testing.T) {
	v := newValidator(t)
	if v.Validate(context.Background(), "http://127.0.0.1:1/unreachable") {
		t.Fatal("expected unreachable host to fail validation")
	}
}

func TestValidateBatch_DeduplicatesAndProbesEachOnce(t *testing.T) {
	var probes int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&probes, 1)
		if r.URL.Path == "/dead" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	v := newValidator(t)
	alive := srv.URL + "/alive"
	dead := srv.URL + "/dead"

	results := v.ValidateBatch(context.Background(), []string{alive, dead, alive, alive})
	if len(results) != 2 {
		t.Fatalf("results = %v, want 2 unique entries", results)
	}
	if !results[alive] {
		t.Error("alive URL should validate")
	}
	if results[dead] {
		t.Error("dead URL should not validate")
	}
	if n := atomic.LoadInt64(&probes); n != 2 {
		t.Errorf("probes = %d, want 2", n)
	}
}

func TestRevalidateProduct_FlipsStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/dead" {
			w.WriteHeader(http.StatusGone)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	productID := uuid.New()
	links := []*affiliate.Link{
		{ID: uuid.New(), ProductID: productID, AffiliateURL: srv.URL + "/dead", Status: affiliate.LinkActive},
		{ID: uuid.New(), ProductID: productID, AffiliateURL: srv.URL + "/alive", Status: affiliate.LinkBroken},
		{ID: uuid.New(), ProductID: productID, AffiliateURL: srv.URL + "/dead", Status: affiliate.LinkInactive},
	}

	var persisted []*affiliate.Link
	repo := &linkRepoMock{
		listAllFn: func(ctx context.Context, id uuid.UUID) ([]*affiliate.Link, error) {
			if id != productID {
				t.Fatalf("listed links for %s, want %s", id, productID)
			}
			return links, nil
		},
		updateStatusFn: func(ctx context.Context, l *affiliate.Link) error {
			persisted = append(persisted, l)
			return nil
		},
	}

	v := newValidatorWithRepo(t, repo)
	changed, err := v.RevalidateProduct(context.Background(), productID)
	if err != nil {
		t.Fatalf("RevalidateProduct: %v", err)
	}
	if changed != 2 {
		t.Fatalf("changed = %d, want 2", changed)
	}
	if len(persisted) != 2 {
		t.Fatalf("persisted %d status updates, want 2", len(persisted))
	}
	if links[0].Status != affiliate.LinkBroken {
		t.Errorf("dead active link status = %s, want broken", links[0].Status)
	}
	if links[0].LastValidated == nil {
		t.Error("flipped link should record validation time")
	}
	if links[1].Status != affiliate.LinkActive {
		t.Errorf("recovered broken link status = %s, want active", links[1].Status)
	}
	if links[2].Status != affiliate.LinkInactive {
		t.Errorf("inactive link status = %s, want untouched", links[2].Status)
	}
}
