// Package editor orchestrates a single site's edit session: load the record,
// expose a schema-driven form over its content, and persist edits as one
// full-document replacement.
package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/slateworks/slate/internal/domain"
)

// State is the edit session's position in its lifecycle.
type State string

const (
	StateLoading  State = "loading"
	StateNotFound State = "not_found" // terminal
	StateReady    State = "ready"
	StateSaving   State = "saving"
)

// Outcome distinguishes the non-error results of a gated operation. A caller
// lacking the super-admin capability is redirected, not failed; the
// repository is never touched on that path.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeRedirect
	OutcomeNotFound
)

// Gate reports the super-admin capability for an identity.
type Gate interface {
	IsSuperAdmin(ctx context.Context, userID uuid.UUID) bool
}

// ErrNotReady is returned when an operation is attempted outside the Ready
// state.
var ErrNotReady = errors.New("editor: session not ready")

// Session is the state machine over one site's edit session. It is not safe
// for concurrent use; each editing actor gets its own session. Two sessions
// on the same site race as last-write-wins with no conflict detection.
type Session struct {
	repo   domain.SiteRepository
	gate   Gate
	userID uuid.UUID

	state    State
	site     *domain.Site
	baseline domain.FormValues
	values   domain.FormValues
}

// NewSession creates a session for the given actor. The session starts in
// Loading and becomes usable only after a successful Load.
func NewSession(repo domain.SiteRepository, gate Gate, userID uuid.UUID) *Session {
	return &Session{
		repo:   repo,
		gate:   gate,
		userID: userID,
		state:  StateLoading,
	}
}

// State returns the session's current state.
func (s *Session) State() State { return s.state }

// Site returns the loaded record, nil before a successful Load.
func (s *Session) Site() *domain.Site { return s.site }

// Load checks the authorization gate, fetches the site, and seeds the form
// state from the flattened content document. The gate is consulted before
// any repository read.
func (s *Session) Load(ctx context.Context, siteID uuid.UUID) (Outcome, error) {
	if !s.gate.IsSuperAdmin(ctx, s.userID) {
		return OutcomeRedirect, nil
	}

	site, err := s.repo.GetByID(ctx, siteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.state = StateNotFound
			return OutcomeNotFound, nil
		}
		return OutcomeOK, fmt.Errorf("editor.Load: %w", err)
	}

	s.site = site
	s.baseline = domain.Flatten(site.Content)
	s.values = cloneValues(s.baseline)
	s.state = StateReady

	return OutcomeOK, nil
}

// Set records a local-only edit. Nothing is persisted until Submit.
func (s *Session) Set(key, value string) error {
	if s.state != StateReady {
		return ErrNotReady
	}
	s.values[key] = value
	return nil
}

// Values returns a copy of the current form state.
func (s *Session) Values() domain.FormValues {
	return cloneValues(s.values)
}

// Dirty reports whether the form state differs from the loaded baseline.
// Reverting an edit back to its baseline value clears its dirtiness.
func (s *Session) Dirty() bool {
	if len(s.values) != len(s.baseline) {
		return true
	}
	for k, v := range s.values {
		if base, ok := s.baseline[k]; !ok || base != v {
			return true
		}
	}
	return false
}

// Submit unflattens the current form state and sends it as a full-document
// replacement. Success resets the baseline and clears dirty; failure leaves
// the form state and dirty flag intact and returns the error. The gate is
// re-checked: a capability revoked mid-session redirects instead of writing.
func (s *Session) Submit(ctx context.Context) (Outcome, error) {
	if s.state != StateReady {
		return OutcomeOK, ErrNotReady
	}
	if !s.gate.IsSuperAdmin(ctx, s.userID) {
		return OutcomeRedirect, nil
	}

	s.state = StateSaving
	content := domain.Unflatten(s.values)

	saved, err := s.repo.UpdateContent(ctx, s.site.ID, content)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Deleted under us between Load and Submit.
			s.state = StateNotFound
			return OutcomeNotFound, nil
		}
		// Back to Ready with edits preserved.
		s.state = StateReady
		return OutcomeOK, fmt.Errorf("editor.Submit: %w", err)
	}

	s.site = saved
	s.baseline = domain.Flatten(saved.Content)
	s.values = cloneValues(s.baseline)
	s.state = StateReady

	return OutcomeOK, nil
}

func cloneValues(v domain.FormValues) domain.FormValues {
	out := make(domain.FormValues, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
