package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/emakua-backend/internal/domain"
	"github.com/heartmarshall/emakua-backend/pkg/ctxutil"
)

// analyticsService defines the minimal interface needed by AdminHandler.
type analyticsService interface {
	TopMissing(ctx context.Context, limit int) ([]domain.MissingWord, error)
}

// AdminHandler serves admin REST endpoints.
type AdminHandler struct {
	analytics analyticsService
	log       *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(analytics analyticsService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		analytics: analytics,
		log:       logger.With("handler", "admin"),
	}
}

type missingWordResponse struct {
	Word      string    `json:"word"`
	Direction string    `json:"direction"`
	Count     int       `json:"count"`
	LastSeen  time.Time `json:"lastSeen"`
}

// MissingWords returns the most frequent words that resolved to no
// translation.
// GET /admin/missing-words?limit=50
func (h *AdminHandler) MissingWords(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		json.Unmarshal([]byte(v), &limit) //nolint:errcheck
	}

	items, err := h.analytics.TopMissing(r.Context(), limit)
	if err != nil {
		h.log.ErrorContext(r.Context(), "list missing words", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]missingWordResponse, 0, len(items))
	for _, mw := range items {
		resp = append(resp, missingWordResponse{
			Word:      mw.Word,
			Direction: mw.Direction.String(),
			Count:     mw.Count,
			LastSeen:  mw.LastSeen,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !ctxutil.IsAdminCtx(r.Context()) {
		writeError(w, http.StatusForbidden, "admin access required")
		return false
	}
	return true
}
