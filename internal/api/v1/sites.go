package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/slateworks/slate/internal/domain"
	"github.com/slateworks/slate/internal/editor"
	"github.com/slateworks/slate/internal/server/middleware"
)

type CreateSiteInput struct {
	Body struct {
		Name   string          `json:"name" minLength:"1" maxLength:"255" doc:"Site display name"`
		Slug   string          `json:"slug" minLength:"1" maxLength:"50" doc:"URL slug, immutable after creation"`
		Schema json.RawMessage `json:"schema,omitempty" doc:"Content schema; omitted means the default hero schema"`
	}
}

type CreateSiteOutput struct {
	Body *domain.Site
}

type ListSitesInput struct{}

type ListSitesOutput struct {
	Body []*domain.Site
}

type GetSiteInput struct {
	ID uuid.UUID `path:"id" doc:"Site ID"`
}

type GetSiteOutput struct {
	Body *domain.Site
}

type GetEditorInput struct {
	ID uuid.UUID `path:"id" doc:"Site ID"`
}

type GetEditorOutput struct {
	Status   int
	Location string `header:"Location"`
	Body     struct {
		SiteID   uuid.UUID            `json:"site_id,omitempty"`
		SiteName string               `json:"site_name,omitempty"`
		Sections []editor.FormSection `json:"sections,omitempty"`
	}
}

type UpdateContentInput struct {
	ID   uuid.UUID `path:"id" doc:"Site ID"`
	Body struct {
		Values domain.FormValues `json:"values" doc:"Flattened form values keyed by section.field"`
	}
}

type UpdateContentOutput struct {
	Status   int
	Location string `header:"Location"`
	Body     *domain.Site
}

// RegisterSiteRoutes registers the super-admin site management surface.
// Capability enforcement happens both in the RequireSuperAdmin middleware
// and per-operation through the editor session, which checks the gate
// before touching the repository.
func RegisterSiteRoutes(api huma.API, store DataStore, authorizer Authorizer, cache SiteCache) {
	huma.Register(api, huma.Operation{
		OperationID: "list-sites",
		Method:      http.MethodGet,
		Path:        "/sites",
		Summary:     "List all sites, newest first",
		Tags:        []string{"Sites"},
	}, func(ctx context.Context, _ *ListSitesInput) (*ListSitesOutput, error) {
		sites, err := store.Sites().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list sites", err)
		}

		return &ListSitesOutput{Body: sites}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-site",
		Method:      http.MethodPost,
		Path:        "/sites",
		Summary:     "Create a new site",
		Tags:        []string{"Sites"},
	}, func(ctx context.Context, input *CreateSiteInput) (*CreateSiteOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if !domain.ValidSlug(input.Body.Slug) {
			return nil, huma.Error400BadRequest("slug must be 1-50 lowercase letters, digits, or hyphens")
		}

		schema := domain.DefaultSchema()
		if len(input.Body.Schema) > 0 {
			parsed, err := domain.ParseSchema(input.Body.Schema)
			if err != nil {
				return nil, huma.Error400BadRequest("malformed schema")
			}
			schema = parsed
		}

		site := &domain.Site{
			ID:        uuid.New(),
			Name:      input.Body.Name,
			Slug:      input.Body.Slug,
			Schema:    schema,
			Content:   domain.Content{},
			CreatedAt: time.Now().UTC(),
			CreatedBy: userID,
		}

		if err := store.Sites().Create(ctx, site); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("slug already in use")
			}
			return nil, huma.Error500InternalServerError("failed to create site", err)
		}

		recordAudit(ctx, store, userID, "site.create", site.ID, map[string]any{"slug": site.Slug})

		return &CreateSiteOutput{Body: site}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-site",
		Method:      http.MethodGet,
		Path:        "/sites/{id}",
		Summary:     "Get a site by ID",
		Tags:        []string{"Sites"},
	}, func(ctx context.Context, input *GetSiteInput) (*GetSiteOutput, error) {
		site, err := store.Sites().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("site not found")
			}
			return nil, huma.Error500InternalServerError("failed to get site", err)
		}

		return &GetSiteOutput{Body: site}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-site-editor",
		Method:      http.MethodGet,
		Path:        "/sites/{id}/editor",
		Summary:     "Build the schema-driven editor form for a site",
		Tags:        []string{"Sites"},
	}, func(ctx context.Context, input *GetEditorInput) (*GetEditorOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		session := editor.NewSession(store.Sites(), authorizer, userID)

		outcome, err := session.Load(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load editor", err)
		}
		switch outcome {
		case editor.OutcomeRedirect:
			return &GetEditorOutput{Status: http.StatusSeeOther, Location: "/"}, nil
		case editor.OutcomeNotFound:
			return nil, huma.Error404NotFound("site not found")
		}

		out := &GetEditorOutput{Status: http.StatusOK}
		out.Body.SiteID = session.Site().ID
		out.Body.SiteName = session.Site().Name
		out.Body.Sections = session.Form()
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-site-content",
		Method:      http.MethodPut,
		Path:        "/sites/{id}/content",
		Summary:     "Replace a site's content from flattened form values",
		Tags:        []string{"Sites"},
	}, func(ctx context.Context, input *UpdateContentInput) (*UpdateContentOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		session := editor.NewSession(store.Sites(), authorizer, userID)

		outcome, err := session.Load(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load site", err)
		}
		switch outcome {
		case editor.OutcomeRedirect:
			return &UpdateContentOutput{Status: http.StatusSeeOther, Location: "/"}, nil
		case editor.OutcomeNotFound:
			return nil, huma.Error404NotFound("site not found")
		}

		for key, value := range input.Body.Values {
			if setErr := session.Set(key, value); setErr != nil {
				return nil, huma.Error500InternalServerError("failed to stage edit", setErr)
			}
		}

		outcome, err = session.Submit(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to save content", err)
		}
		switch outcome {
		case editor.OutcomeRedirect:
			return &UpdateContentOutput{Status: http.StatusSeeOther, Location: "/"}, nil
		case editor.OutcomeNotFound:
			return nil, huma.Error404NotFound("site not found")
		}

		site := session.Site()
		if cache != nil {
			cache.Invalidate(ctx, site.Slug)
		}
		recordAudit(ctx, store, userID, "site.update_content", site.ID, map[string]any{"fields": len(input.Body.Values)})

		return &UpdateContentOutput{Status: http.StatusOK, Body: site}, nil
	})
}

// recordAudit writes an audit entry, logging and swallowing any failure so
// auditing never blocks the mutation it describes.
func recordAudit(ctx context.Context, store DataStore, actorID uuid.UUID, action string, siteID uuid.UUID, details map[string]any) {
	entry := &domain.AuditEntry{
		ID:        uuid.New(),
		ActorID:   actorID,
		Action:    action,
		SiteID:    siteID,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}

	if err := store.Audit().Record(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Str("site_id", siteID.String()).Msg("audit record failed")
	}
}
