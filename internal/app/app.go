package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/emakua-backend/internal/adapter/assets"
	"github.com/heartmarshall/emakua-backend/internal/adapter/postgres"
	"github.com/heartmarshall/emakua-backend/internal/adapter/postgres/missingword"
	"github.com/heartmarshall/emakua-backend/internal/adapter/postgres/resource"
	"github.com/heartmarshall/emakua-backend/internal/adapter/provider/supabase"
	"github.com/heartmarshall/emakua-backend/internal/config"
	"github.com/heartmarshall/emakua-backend/internal/domain"
	"github.com/heartmarshall/emakua-backend/internal/service/analytics"
	"github.com/heartmarshall/emakua-backend/internal/service/translate"
	"github.com/heartmarshall/emakua-backend/internal/transport/middleware"
	"github.com/heartmarshall/emakua-backend/internal/transport/rest"
)

// resourceBackend is the slice of a provider the application wires: the
// translate service loads bundles through it and health checks ping it.
// Both the Supabase REST provider and the postgres repository satisfy it.
type resourceBackend interface {
	Load(ctx context.Context) (domain.ResourceBundle, error)
	Ping(ctx context.Context) error
}

// Run is the application entry point. It loads configuration, builds the
// resource provider for the configured mode, wires services and handlers,
// and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("env", cfg.Env),
		slog.String("provider_mode", cfg.Provider.Mode),
	)

	var (
		backend resourceBackend
		pool    *pgxpool.Pool
	)
	switch cfg.Provider.Mode {
	case config.ProviderModeRest:
		logSupabaseKey(logger, cfg.Supabase.APIKey())
		backend = supabase.NewProvider(cfg.Supabase.URL, cfg.Supabase.APIKey(), cfg.Supabase.CacheTTL, logger)
	case config.ProviderModePostgres:
		pool, err = postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		backend = resource.New(pool)
	default:
		return fmt.Errorf("unknown provider mode %q", cfg.Provider.Mode)
	}

	translateSvc := translate.NewService(logger, backend)

	var analyticsSvc *analytics.Service
	if cfg.Analytics.Enabled {
		if cfg.Database.DSN == "" {
			logger.Warn("missing-word analytics disabled: no database DSN configured")
		} else {
			if pool == nil {
				pool, err = postgres.NewPool(ctx, cfg.Database)
				if err != nil {
					return fmt.Errorf("connect to database: %w", err)
				}
				defer pool.Close()
			}
			analyticsSvc = analytics.NewService(logger, missingword.New(pool), cfg.Analytics.QueueSize)
			defer analyticsSvc.Close()
			translateSvc.SetMissingRecorder(analyticsSvc)
		}
	}

	var assetsHandler *rest.AssetsHandler
	if cfg.Assets.Enabled {
		proxy := assets.NewProxy(cfg.Supabase.URL, cfg.Supabase.Bucket, cfg.Assets.CacheEntries, logger)
		assetsHandler = rest.NewAssetsHandler(proxy, logger)
	}

	var adminHandler *rest.AdminHandler
	if analyticsSvc != nil {
		adminHandler = rest.NewAdminHandler(analyticsSvc, logger)
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		defer limiter.Stop()
	}

	router := rest.NewRouter(rest.RouterConfig{
		Logger:         logger,
		Translate:      rest.NewTranslateHandler(translateSvc, logger),
		Health:         rest.NewHealthHandler(backend, BuildVersion()),
		Assets:         assetsHandler,
		Admin:          adminHandler,
		AdminTokenHash: cfg.Auth.AdminTokenHash,
		CORS:           cfg.CORS,
		RateLimiter:    limiter,
		RatePerMinute:  cfg.RateLimit.PerMinute,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Info("http server listening", slog.String("addr", addr))

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// logSupabaseKey records which Postgres role the configured key acts as.
// Serving only reads public rows, so the anon key is sufficient; a
// service-role key works but grants more than the server needs.
func logSupabaseKey(logger *slog.Logger, key string) {
	info, err := supabase.InspectKey(key)
	if err != nil {
		logger.Warn("supabase api key is not a decodable JWT", slog.String("error", err.Error()))
		return
	}
	if info.IsServiceRole() {
		logger.Warn("running with the service-role key; the anon key is sufficient for serving")
		return
	}
	logger.Info("supabase api key inspected", slog.String("role", info.Role))
}
