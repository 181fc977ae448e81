package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditEntry records one admin mutation against a site. Recording is
// best-effort: a failed write is logged by the caller, never surfaced to the
// user or allowed to fail the mutation it describes.
type AuditEntry struct {
	ID        uuid.UUID      `json:"id"`
	ActorID   uuid.UUID      `json:"actor_id"`
	Action    string         `json:"action"` // "site.create", "site.update_content"
	SiteID    uuid.UUID      `json:"site_id"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type AuditRepository interface {
	Record(ctx context.Context, entry *AuditEntry) error
	List(ctx context.Context, limit, offset int) ([]*AuditEntry, error)
}
