package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/slateworks/slate/internal/auth"
	"github.com/slateworks/slate/internal/config"
	"github.com/slateworks/slate/internal/domain"
	"github.com/slateworks/slate/internal/server"
	"github.com/slateworks/slate/internal/store/postgres"
	redisstore "github.com/slateworks/slate/internal/store/redis"
	"github.com/slateworks/slate/web"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("SLATE_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("SLATE_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis. The cache is an optimization; a missing Redis only
	// costs cache hits, so startup proceeds without it.
	cache, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Cache.PublicTTL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable; public page caching disabled")
		cache = nil
	} else {
		defer cache.Close()
	}

	// Create auth service.
	authSvc := auth.NewService(store.Users(), cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	// Promote the bootstrap admin, if configured. The account must already
	// exist (register first, then restart with the variable set).
	if cfg.BootstrapAdminEmail != "" {
		if err := bootstrapAdmin(ctx, store, cfg.BootstrapAdminEmail); err != nil {
			log.Warn().Err(err).Str("email", cfg.BootstrapAdminEmail).Msg("bootstrap admin not promoted")
		}
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv, err := server.New(cfg, store, cache, authSvc, web.Assets)
	if err != nil {
		return err
	}

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}

func bootstrapAdmin(ctx context.Context, store *postgres.Store, email string) error {
	u, err := store.Users().GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := store.Roles().Grant(ctx, u.ID, domain.RoleSuperAdmin); err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("super-admin role granted")
	return nil
}
