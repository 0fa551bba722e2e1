// Package translate implements the translation use case: it loads the
// language resources, builds the in-memory indexes and runs the word-level
// pipeline from the engine subpackage over the request text.
package translate

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/emakua-backend/internal/domain"
)

// resourceProvider supplies the decoded resource bundle for a translation
// call. Implementations own caching, retries and failure shielding; the
// service itself performs none of that.
type resourceProvider interface {
	Load(ctx context.Context) (domain.ResourceBundle, error)
}

// missingRecorder accepts words that resolved to no candidate. Best effort:
// implementations must not block the request path.
type missingRecorder interface {
	RecordMissing(ctx context.Context, direction domain.Direction, words []string)
}

// Service orchestrates the translation pipeline.
type Service struct {
	log       *slog.Logger
	resources resourceProvider
	missing   missingRecorder
}

// NewService creates the translation service.
func NewService(logger *slog.Logger, resources resourceProvider) *Service {
	return &Service{
		log:       logger.With("service", "translate"),
		resources: resources,
	}
}

// SetMissingRecorder wires the optional missing-word collector. Without it
// unresolved words are still reported in the result, just not recorded.
func (s *Service) SetMissingRecorder(rec missingRecorder) {
	s.missing = rec
}
