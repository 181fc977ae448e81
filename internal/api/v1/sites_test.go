package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/slateworks/slate/internal/api/v1"
	"github.com/slateworks/slate/internal/domain"
)

func testSite(id, creator uuid.UUID) *domain.Site {
	return &domain.Site{
		ID:   id,
		Name: "Acme Landing",
		Slug: "acme",
		Schema: domain.Schema{Sections: []domain.Section{{
			ID:    "hero",
			Type:  "hero",
			Label: "Hero",
			Fields: []domain.Field{
				{Name: "title", Kind: domain.FieldText, Label: "Title"},
				{Name: "subtitle", Kind: domain.FieldText, Label: "Subtitle"},
			},
		}}},
		Content:   domain.Content{"hero": {"title": "Hello"}},
		CreatedAt: time.Now().UTC(),
		CreatedBy: creator,
	}
}

// ---------------------------------------------------------------------------
// GET /sites
// ---------------------------------------------------------------------------

func TestListSites(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				listFunc: func(context.Context) ([]*domain.Site, error) {
					return []*domain.Site{testSite(uuid.New(), uid), testSite(uuid.New(), uid)}, nil
				},
			},
		}
		v1.RegisterSiteRoutes(api, store, allowAll(), nil)

		resp := api.GetCtx(userCtx(uid), "/sites")

		require.Equal(t, http.StatusOK, resp.Code)

		var body []*domain.Site
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Len(t, body, 2)
	})

	t.Run("store_failure", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				listFunc: func(context.Context) ([]*domain.Site, error) {
					return nil, errors.New("db down")
				},
			},
		}
		v1.RegisterSiteRoutes(api, store, allowAll(), nil)

		resp := api.GetCtx(userCtx(uuid.New()), "/sites")

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// POST /sites
// ---------------------------------------------------------------------------

func TestCreateSite(t *testing.T) {
	t.Parallel()

	t.Run("happy_path_with_default_schema", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		var created *domain.Site
		_, api := humatest.New(t)
		audit := &mockAuditRepo{}
		store := &mockDataStore{
			sites: &mockSiteRepo{
				createFunc: func(_ context.Context, s *domain.Site) error {
					created = s
					return nil
				},
			},
			audit: audit,
		}
		v1.RegisterSiteRoutes(api, store, allowAll(), nil)

		resp := api.PostCtx(userCtx(uid), "/sites", map[string]any{
			"name": "Acme Landing",
			"slug": "acme",
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, created)
		assert.Equal(t, "acme", created.Slug)
		assert.Equal(t, uid, created.CreatedBy)
		assert.NotEqual(t, uuid.Nil, created.ID)

		// Default schema applies when none is provided.
		require.Len(t, created.Schema.Sections, 1)
		assert.Equal(t, "hero", created.Schema.Sections[0].ID)

		// Creation is audited.
		require.Len(t, audit.recorded, 1)
		assert.Equal(t, "site.create", audit.recorded[0].Action)
		assert.Equal(t, uid, audit.recorded[0].ActorID)
	})

	t.Run("custom_schema", func(t *testing.T) {
		t.Parallel()

		var created *domain.Site
		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				createFunc: func(_ context.Context, s *domain.Site) error {
					created = s
					return nil
				},
			},
		}
		v1.RegisterSiteRoutes(api, store, allowAll(), nil)

		schema := map[string]any{
			"sections": []map[string]any{{
				"id":   "about",
				"type": "about",
				"fields": []map[string]any{
					{"name": "body", "type": "long-text", "label": "Body"},
				},
			}},
		}
		resp := api.PostCtx(userCtx(uuid.New()), "/sites", map[string]any{
			"name":   "Custom",
			"slug":   "custom",
			"schema": schema,
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, created)
		require.Len(t, created.Schema.Sections, 1)
		assert.Equal(t, "about", created.Schema.Sections[0].ID)
		assert.Equal(t, domain.FieldLongText, created.Schema.Sections[0].Fields[0].Kind)
	})

	t.Run("invalid_slugs_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				createFunc: func(context.Context, *domain.Site) error {
					t.Fatal("create must not be called for an invalid slug")
					return nil
				},
			},
		}
		v1.RegisterSiteRoutes(api, store, allowAll(), nil)

		for _, slug := range []string{"Has-Upper", "spa ce", "под", "trailing!"} {
			resp := api.PostCtx(userCtx(uuid.New()), "/sites", map[string]any{
				"name": "x",
				"slug": slug,
			})
			assert.Equal(t, http.StatusBadRequest, resp.Code, "slug %q", slug)
		}
	})

	t.Run("malformed_schema_rejected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{},
		}
		v1.RegisterSiteRoutes(api, store, allowAll(), nil)

		resp := api.PostCtx(userCtx(uuid.New()), "/sites", map[string]any{
			"name":   "x",
			"slug":   "x",
			"schema": map[string]any{"not_sections": true},
		})

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("duplicate_slug_conflict", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				createFunc: func(context.Context, *domain.Site) error {
					return fmt.Errorf("siteRepo.Create: %w", domain.ErrConflict)
				},
			},
		}
		v1.RegisterSiteRoutes(api, store, allowAll(), nil)

		resp := api.PostCtx(userCtx(uuid.New()), "/sites", map[string]any{
			"name": "dup",
			"slug": "dup",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})

	t.Run("audit_failure_does_not_fail_create", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				createFunc: func(context.Context, *domain.Site) error { return nil },
			},
			audit: &mockAuditRepo{recordErr: errors.New("audit table gone")},
		}
		v1.RegisterSiteRoutes(api, store, allowAll(), nil)

		resp := api.PostCtx(userCtx(uuid.New()), "/sites", map[string]any{
			"name": "ok",
			"slug": "ok",
		})

		assert.Equal(t, http.StatusOK, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /sites/{id}
// ---------------------------------------------------------------------------

func TestGetSite(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		siteID := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Site, error) {
					require.Equal(t, siteID, id)
					return testSite(siteID, uuid.New()), nil
				},
			},
		}
		v1.RegisterSiteRoutes(api, store, allowAll(), nil)

		resp := api.GetCtx(userCtx(uuid.New()), "/sites/"+siteID.String())

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Site
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, siteID, body.ID)
		assert.Equal(t, "acme", body.Slug)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				getByIDFunc: func(context.Context, uuid.UUID) (*domain.Site, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterSiteRoutes(api, store, allowAll(), nil)

		resp := api.GetCtx(userCtx(uuid.New()), "/sites/"+uuid.NewString())

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /sites/{id}/editor
// ---------------------------------------------------------------------------

func TestGetSiteEditor(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		siteID := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				getByIDFunc: func(context.Context, uuid.UUID) (*domain.Site, error) {
					return testSite(siteID, uuid.New()), nil
				},
			},
		}
		v1.RegisterSiteRoutes(api, store, allowAll(), nil)

		resp := api.GetCtx(userCtx(uuid.New()), "/sites/"+siteID.String()+"/editor")

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			SiteID   uuid.UUID `json:"site_id"`
			SiteName string    `json:"site_name"`
			Sections []struct {
				ID     string `json:"id"`
				Label  string `json:"label"`
				Fields []struct {
					Key   string `json:"key"`
					Value string `json:"value"`
				} `json:"fields"`
			} `json:"sections"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, siteID, body.SiteID)
		require.Len(t, body.Sections, 1)
		require.Len(t, body.Sections[0].Fields, 2)
		assert.Equal(t, "hero.title", body.Sections[0].Fields[0].Key)
		assert.Equal(t, "Hello", body.Sections[0].Fields[0].Value)
	})

	t.Run("non_admin_redirected_without_repo_read", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				getByIDFunc: func(context.Context, uuid.UUID) (*domain.Site, error) {
					t.Fatal("repository must not be read when the capability is missing")
					return nil, nil
				},
			},
		}
		denyAll := &mockAuthorizer{admins: map[uuid.UUID]bool{}}
		v1.RegisterSiteRoutes(api, store, denyAll, nil)

		resp := api.GetCtx(userCtx(uid), "/sites/"+uuid.NewString()+"/editor")

		assert.Equal(t, http.StatusSeeOther, resp.Code)
		assert.Equal(t, "/", resp.Header().Get("Location"))
	})

	t.Run("missing_site", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				getByIDFunc: func(context.Context, uuid.UUID) (*domain.Site, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterSiteRoutes(api, store, allowAll(), nil)

		resp := api.GetCtx(userCtx(uuid.New()), "/sites/"+uuid.NewString()+"/editor")

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// PUT /sites/{id}/content
// ---------------------------------------------------------------------------

func TestUpdateSiteContent(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		siteID := uuid.New()
		uid := uuid.New()

		var savedContent domain.Content
		_, api := humatest.New(t)
		audit := &mockAuditRepo{}
		cache := newMockCache()
		store := &mockDataStore{
			sites: &mockSiteRepo{
				getByIDFunc: func(context.Context, uuid.UUID) (*domain.Site, error) {
					return testSite(siteID, uid), nil
				},
				updateContentFunc: func(_ context.Context, id uuid.UUID, content domain.Content) (*domain.Site, error) {
					require.Equal(t, siteID, id)
					savedContent = content
					updated := testSite(siteID, uid)
					updated.Content = content
					return updated, nil
				},
			},
			audit: audit,
		}
		v1.RegisterSiteRoutes(api, store, allowAll(), cache)

		resp := api.PutCtx(userCtx(uid), "/sites/"+siteID.String()+"/content", map[string]any{
			"values": map[string]string{
				"hero.title":    "Updated",
				"hero.subtitle": "Now with subtitle",
			},
		})

		require.Equal(t, http.StatusOK, resp.Code)
		require.NotNil(t, savedContent)
		assert.Equal(t, "Updated", savedContent["hero"]["title"])
		assert.Equal(t, "Now with subtitle", savedContent["hero"]["subtitle"])

		// The public cache entry for the slug is dropped.
		assert.Equal(t, []string{"acme"}, cache.invalidated)

		// The mutation is audited.
		require.Len(t, audit.recorded, 1)
		assert.Equal(t, "site.update_content", audit.recorded[0].Action)
		assert.Equal(t, siteID, audit.recorded[0].SiteID)
	})

	t.Run("non_admin_redirected", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				getByIDFunc: func(context.Context, uuid.UUID) (*domain.Site, error) {
					t.Fatal("repository must not be read when the capability is missing")
					return nil, nil
				},
			},
		}
		denyAll := &mockAuthorizer{admins: map[uuid.UUID]bool{}}
		v1.RegisterSiteRoutes(api, store, denyAll, nil)

		resp := api.PutCtx(userCtx(uuid.New()), "/sites/"+uuid.NewString()+"/content", map[string]any{
			"values": map[string]string{"hero.title": "x"},
		})

		assert.Equal(t, http.StatusSeeOther, resp.Code)
		assert.Equal(t, "/", resp.Header().Get("Location"))
	})

	t.Run("site_deleted_between_load_and_save", func(t *testing.T) {
		t.Parallel()

		siteID := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				getByIDFunc: func(context.Context, uuid.UUID) (*domain.Site, error) {
					return testSite(siteID, uuid.New()), nil
				},
				updateContentFunc: func(context.Context, uuid.UUID, domain.Content) (*domain.Site, error) {
					return nil, domain.ErrNotFound
				},
			},
		}
		v1.RegisterSiteRoutes(api, store, allowAll(), nil)

		resp := api.PutCtx(userCtx(uuid.New()), "/sites/"+siteID.String()+"/content", map[string]any{
			"values": map[string]string{"hero.title": "x"},
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("save_failure", func(t *testing.T) {
		t.Parallel()

		siteID := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			sites: &mockSiteRepo{
				getByIDFunc: func(context.Context, uuid.UUID) (*domain.Site, error) {
					return testSite(siteID, uuid.New()), nil
				},
				updateContentFunc: func(context.Context, uuid.UUID, domain.Content) (*domain.Site, error) {
					return nil, errors.New("write timeout")
				},
			},
		}
		v1.RegisterSiteRoutes(api, store, allowAll(), nil)

		resp := api.PutCtx(userCtx(uuid.New()), "/sites/"+siteID.String()+"/content", map[string]any{
			"values": map[string]string{"hero.title": "x"},
		})

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}
