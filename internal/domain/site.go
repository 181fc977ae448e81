package domain

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Site is a tenant's content record: a slug-addressable landing page whose
// editable surface is described by Schema and populated by Content.
type Site struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Schema    Schema    `json:"schema"`
	Content   Content   `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy uuid.UUID `json:"created_by"`
}

// slugPattern is the only accepted slug shape: lowercase alphanumerics and
// hyphens, 1-50 characters. Slugs are immutable after creation.
var slugPattern = regexp.MustCompile(`^[a-z0-9-]{1,50}$`)

// ValidSlug reports whether s is an acceptable site slug.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// SiteRepository persists sites. The slug uniqueness invariant is enforced by
// the backing store and surfaced as ErrConflict from Create.
type SiteRepository interface {
	// List returns all sites ordered by creation time descending.
	List(ctx context.Context) ([]*Site, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Site, error)
	// GetBySlug is the public lookup path and requires no authentication
	// upstream.
	GetBySlug(ctx context.Context, slug string) (*Site, error)
	Create(ctx context.Context, s *Site) error
	// UpdateContent replaces the full content document in one atomic write.
	// There is no partial or per-field update.
	UpdateContent(ctx context.Context, id uuid.UUID, content Content) (*Site, error)
}
