package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/slateworks/slate/internal/api/v1"
	"github.com/slateworks/slate/internal/domain"
)

// ---------------------------------------------------------------------------
// GET /public/sites/{slug}
// ---------------------------------------------------------------------------

func TestGetPublicSite(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				getBySlugFunc: func(_ context.Context, slug string) (*domain.Site, error) {
					require.Equal(t, "acme", slug)
					return testSite(uuid.New(), uuid.New()), nil
				},
			},
		}
		v1.RegisterPublicRoutes(api, store, nil)

		resp := api.Get("/public/sites/acme")

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Name    string         `json:"name"`
			Slug    string         `json:"slug"`
			Content domain.Content `json:"content"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "Acme Landing", body.Name)
		assert.Equal(t, "acme", body.Slug)
		assert.Equal(t, "Hello", body.Content["hero"]["title"])
	})

	t.Run("unknown_slug", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				getBySlugFunc: func(context.Context, string) (*domain.Site, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterPublicRoutes(api, store, nil)

		resp := api.Get("/public/sites/nope")

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("cache_hit_skips_store", func(t *testing.T) {
		t.Parallel()

		cached := testSite(uuid.New(), uuid.New())

		_, api := humatest.New(t)
		cache := newMockCache()
		cache.SetSite(context.Background(), cached)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				getBySlugFunc: func(context.Context, string) (*domain.Site, error) {
					t.Fatal("store must not be hit on a cache hit")
					return nil, nil
				},
			},
		}
		v1.RegisterPublicRoutes(api, store, cache)

		resp := api.Get("/public/sites/acme")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), "Acme Landing")
	})

	t.Run("cache_miss_populates_cache", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		cache := newMockCache()
		store := &mockDataStore{
			sites: &mockSiteRepo{
				getBySlugFunc: func(context.Context, string) (*domain.Site, error) {
					return testSite(uuid.New(), uuid.New()), nil
				},
			},
		}
		v1.RegisterPublicRoutes(api, store, cache)

		resp := api.Get("/public/sites/acme")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.NotNil(t, cache.GetSite(context.Background(), "acme"))
	})

	t.Run("store_failure", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				getBySlugFunc: func(context.Context, string) (*domain.Site, error) {
					return nil, errors.New("db down")
				},
			},
		}
		v1.RegisterPublicRoutes(api, store, nil)

		resp := api.Get("/public/sites/acme")

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /audit
// ---------------------------------------------------------------------------

func TestListAuditLog(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			audit: &mockAuditRepo{
				listFunc: func(_ context.Context, limit, offset int) ([]*domain.AuditEntry, error) {
					require.Equal(t, 50, limit)
					require.Equal(t, 0, offset)
					return []*domain.AuditEntry{
						{ID: uuid.New(), Action: "site.create"},
						{ID: uuid.New(), Action: "site.update_content"},
					}, nil
				},
			},
		}
		v1.RegisterAuditRoutes(api, store)

		resp := api.GetCtx(userCtx(uuid.New()), "/audit")

		require.Equal(t, http.StatusOK, resp.Code)

		var body []*domain.AuditEntry
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Len(t, body, 2)
	})

	t.Run("pagination_params_forwarded", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			audit: &mockAuditRepo{
				listFunc: func(_ context.Context, limit, offset int) ([]*domain.AuditEntry, error) {
					require.Equal(t, 10, limit)
					require.Equal(t, 30, offset)
					return nil, nil
				},
			},
		}
		v1.RegisterAuditRoutes(api, store)

		resp := api.GetCtx(userCtx(uuid.New()), "/audit?limit=10&offset=30")

		assert.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("store_failure", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			audit: &mockAuditRepo{
				listFunc: func(context.Context, int, int) ([]*domain.AuditEntry, error) {
					return nil, errors.New("db down")
				},
			},
		}
		v1.RegisterAuditRoutes(api, store)

		resp := api.GetCtx(userCtx(uuid.New()), "/audit")

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}
