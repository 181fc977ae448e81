package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	v1 "github.com/slateworks/slate/internal/api/v1"
	"github.com/slateworks/slate/internal/domain"
	"github.com/slateworks/slate/internal/render"
)

// handlePublicSite serves the read-only landing page for a slug. Unknown or
// malformed slugs get the branded 404 view; only an infrastructure failure
// produces a bare 500.
func (s *Server) handlePublicSite(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if !domain.ValidSlug(slug) {
		s.renderNotFound(w, slug)
		return
	}

	var cache v1.SiteCache
	if s.cache != nil {
		cache = s.cache
	}

	site, err := v1.LookupSite(r.Context(), s.store, cache, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.renderNotFound(w, slug)
			return
		}
		log.Error().Err(err).Str("slug", slug).Msg("public site lookup failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	page := render.BuildPage(site.Name, site.Content)
	if err := s.renderer.Landing(w, page); err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("landing render failed")
	}
}

func (s *Server) renderNotFound(w http.ResponseWriter, slug string) {
	w.WriteHeader(http.StatusNotFound)
	if err := s.renderer.NotFound(w, slug); err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("not-found render failed")
	}
}
