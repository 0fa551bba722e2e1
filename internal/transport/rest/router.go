package rest

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/emakua-backend/internal/config"
	"github.com/heartmarshall/emakua-backend/internal/transport/middleware"
)

// RouterConfig bundles the handlers and cross-cutting settings the router
// needs. Optional surfaces (assets, admin) stay unmounted when their handler
// is nil.
type RouterConfig struct {
	Logger    *slog.Logger
	Translate *TranslateHandler
	Health    *HealthHandler
	Assets    *AssetsHandler
	Admin     *AdminHandler

	AdminTokenHash string
	CORS           config.CORSConfig

	// RateLimiter and RatePerMinute enable per-IP limiting when both are set.
	RateLimiter   *middleware.RateLimiter
	RatePerMinute int
}

// NewRouter wires the handlers into a mux wrapped by the middleware chain:
// request ID, access log, panic recovery, CORS and optional rate limiting.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/translate", cfg.Translate.Translate)
	mux.HandleFunc("/health", cfg.Health.Health)
	mux.HandleFunc("/health/live", cfg.Health.Live)
	mux.HandleFunc("/health/ready", cfg.Health.Ready)
	mux.Handle("/metrics", promhttp.Handler())

	if cfg.Assets != nil {
		mux.HandleFunc("/assets/", cfg.Assets.Serve)
	}
	if cfg.Admin != nil {
		adminAuth := middleware.AdminAuth(cfg.AdminTokenHash, cfg.Logger)
		mux.Handle("/admin/missing-words", adminAuth(http.HandlerFunc(cfg.Admin.MissingWords)))
	}

	mws := []middleware.Middleware{
		middleware.RequestID(),
		middleware.Logger(cfg.Logger),
		middleware.Recovery(cfg.Logger),
		middleware.CORS(cfg.CORS),
	}
	if cfg.RateLimiter != nil && cfg.RatePerMinute > 0 {
		mws = append(mws, cfg.RateLimiter.Limit(cfg.RatePerMinute))
	}

	return middleware.Chain(mws...)(mux)
}
