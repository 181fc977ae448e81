package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/slateworks/slate/internal/domain"
)

type GetPublicSiteInput struct {
	Slug string `path:"slug" maxLength:"50" pattern:"^[a-z0-9-]+$" doc:"Site slug"`
}

type GetPublicSiteOutput struct {
	Body struct {
		Name    string         `json:"name"`
		Slug    string         `json:"slug"`
		Content domain.Content `json:"content"`
	}
}

// RegisterPublicRoutes registers the unauthenticated read-only surface.
// Lookups go through the cache when one is configured; the database is
// the source of truth.
func RegisterPublicRoutes(api huma.API, store DataStore, cache SiteCache) {
	huma.Register(api, huma.Operation{
		OperationID: "get-public-site",
		Method:      http.MethodGet,
		Path:        "/public/sites/{slug}",
		Summary:     "Fetch a site's published content by slug",
		Tags:        []string{"Public"},
	}, func(ctx context.Context, input *GetPublicSiteInput) (*GetPublicSiteOutput, error) {
		site, err := LookupSite(ctx, store, cache, input.Slug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("site not found")
			}
			return nil, huma.Error500InternalServerError("failed to load site", err)
		}

		out := &GetPublicSiteOutput{}
		out.Body.Name = site.Name
		out.Body.Slug = site.Slug
		out.Body.Content = site.Content
		return out, nil
	})
}

// LookupSite resolves a slug through the cache with database fallthrough.
// It is shared by the JSON endpoint above and the HTML landing page.
func LookupSite(ctx context.Context, store DataStore, cache SiteCache, slug string) (*domain.Site, error) {
	if cache != nil {
		if site := cache.GetSite(ctx, slug); site != nil {
			return site, nil
		}
	}

	site, err := store.Sites().GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		cache.SetSite(ctx, site)
	}

	return site, nil
}
