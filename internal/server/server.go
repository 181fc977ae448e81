package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	v1 "github.com/slateworks/slate/internal/api/v1"
	"github.com/slateworks/slate/internal/auth"
	"github.com/slateworks/slate/internal/config"
	"github.com/slateworks/slate/internal/render"
	"github.com/slateworks/slate/internal/server/middleware"
	"github.com/slateworks/slate/internal/store/postgres"
	redisstore "github.com/slateworks/slate/internal/store/redis"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	auth       *auth.Service
	gate       *auth.Gate
	renderer   *render.Renderer
	cache      *redisstore.Cache // nil when Redis is not configured
	cfg        *config.Config
	cancelBG   context.CancelFunc
}

// New creates a Server with all routes wired.
// cache may be nil, which disables public page caching. webAssets may be
// nil; when provided, the dashboard SPA is served on all unmatched routes
// (embedded via go:embed for single-binary distribution).
func New(cfg *config.Config, store *postgres.Store, cache *redisstore.Cache, authSvc *auth.Service, webAssets fs.FS) (*Server, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, fmt.Errorf("server.New: %w", err)
	}

	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	// Rate limiter janitors run until Shutdown.
	bgCtx, cancelBG := context.WithCancel(context.Background())

	s := &Server{
		router:   router,
		store:    store,
		auth:     authSvc,
		gate:     auth.NewGate(store.Roles()),
		renderer: renderer,
		cache:    cache,
		cfg:      cfg,
		cancelBG: cancelBG,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// A nil *redis.Cache must stay a nil interface for the handlers.
	var siteCache v1.SiteCache
	if cache != nil {
		siteCache = cache
	}

	// Mount API routes on /api/v1 with four sub-groups:
	// 1. Unauthenticated public reads.
	// 2. Unauthenticated auth endpoints, rate limited per IP.
	// 3. Session endpoints open to recovery sessions (password update).
	// 4. The super-admin surface.
	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			publicAPI := humachi.New(r, apiConfig("Slate Public API"))
			v1.RegisterPublicRoutes(publicAPI, store, siteCache)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(bgCtx, cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst))

			authAPI := humachi.New(r, apiConfig("Slate Auth API"))
			v1.RegisterAuthRoutes(authAPI, authSvc)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret))
			r.Use(middleware.RateLimitByUser(bgCtx, cfg.RateLimit.AdminRPS, cfg.RateLimit.AdminBurst))

			sessionAPI := humachi.New(r, apiConfig("Slate Session API"))
			v1.RegisterPasswordRoutes(sessionAPI, authSvc)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret))
			r.Use(middleware.RequireAuthenticated())
			r.Use(middleware.RequireSuperAdmin(s.gate, "/"))
			r.Use(middleware.RateLimitByUser(bgCtx, cfg.RateLimit.AdminRPS, cfg.RateLimit.AdminBurst))

			adminAPI := humachi.New(r, apiConfig("Slate Admin API"))
			v1.RegisterSiteRoutes(adminAPI, store, s.gate, siteCache)
			v1.RegisterAuditRoutes(adminAPI, store)
		})
	})

	// Public HTML landing pages by slug.
	router.Get("/sites/{slug}", s.handlePublicSite)

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Serve the embedded dashboard SPA on all unmatched routes.
	// This must be the last route registered so API routes take priority.
	if webAssets != nil {
		router.NotFound(spaFileServer(webAssets).ServeHTTP)
		log.Info().Msg("embedded dashboard enabled")
	}

	return s, nil
}

func apiConfig(title string) huma.Config {
	cfg := huma.DefaultConfig(title, "1.0.0")
	cfg.Servers = []*huma.Server{
		{URL: "/api/v1"},
	}
	return cfg
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancelBG()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
