package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/emakua-backend/internal/adapter/assets"
	"github.com/heartmarshall/emakua-backend/internal/domain"
)

// assetFetcher defines the minimal interface needed by AssetsHandler.
type assetFetcher interface {
	Fetch(ctx context.Context, key string) (assets.Object, error)
}

// AssetsHandler serves stored objects under /assets/.
type AssetsHandler struct {
	fetcher assetFetcher
	log     *slog.Logger
}

// NewAssetsHandler creates an AssetsHandler.
func NewAssetsHandler(fetcher assetFetcher, logger *slog.Logger) *AssetsHandler {
	return &AssetsHandler{fetcher: fetcher, log: logger.With("handler", "assets")}
}

// Serve handles GET /assets/{key}. The remainder of the path after /assets/
// is the object key, slashes included.
func (h *AssetsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/assets/")
	if key == "" || strings.Contains(key, "..") {
		writeError(w, http.StatusBadRequest, "invalid asset path")
		return
	}

	obj, err := h.fetcher.Fetch(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "asset not found")
		case errors.Is(err, domain.ErrResourceUnavailable):
			h.log.ErrorContext(r.Context(), "asset storage unavailable",
				slog.String("key", key),
				slog.String("error", err.Error()))
			writeError(w, http.StatusServiceUnavailable, "asset storage unavailable")
		default:
			h.log.ErrorContext(r.Context(), "asset fetch failed",
				slog.String("key", key),
				slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", obj.ContentType)
	w.Write(obj.Body) //nolint:errcheck
}
