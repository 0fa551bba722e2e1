// Package rest serves the HTTP API: the translation endpoint, health probes,
// the static-asset proxy and the admin surface.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/emakua-backend/internal/domain"
	"github.com/heartmarshall/emakua-backend/internal/service/translate"
)

// translateService defines the minimal interface needed by TranslateHandler.
type translateService interface {
	Translate(ctx context.Context, text string, dir domain.Direction) (translate.Result, error)
}

// TranslateHandler serves the translation endpoint.
type TranslateHandler struct {
	svc translateService
	log *slog.Logger
}

// NewTranslateHandler creates a TranslateHandler.
func NewTranslateHandler(svc translateService, logger *slog.Logger) *TranslateHandler {
	return &TranslateHandler{svc: svc, log: logger.With("handler", "translate")}
}

type translateRequest struct {
	Text      string `json:"text"`
	Direction string `json:"direction"`
}

// translateResponse echoes the request's text and direction next to the
// produced translation. Direction is the one the caller asked for, including
// "auto"; the detected direction stays internal.
type translateResponse struct {
	Text        string `json:"text"`
	Direction   string `json:"direction"`
	Translation string `json:"translation"`
}

// Translate handles POST /translate.
func (h *TranslateHandler) Translate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	dir, err := domain.ParseDirection(req.Direction)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid direction")
		return
	}

	result, err := h.svc.Translate(r.Context(), req.Text, dir)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{
		Text:        req.Text,
		Direction:   dir.String(),
		Translation: result.Translation,
	})
}

func (h *TranslateHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrResourceUnavailable):
		h.log.ErrorContext(r.Context(), "resources unavailable", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "translation resources unavailable")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
