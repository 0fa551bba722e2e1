package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/heartmarshall/emakua-backend/internal/domain"
	"github.com/heartmarshall/emakua-backend/internal/metrics"
	"github.com/heartmarshall/emakua-backend/internal/service/translate/engine"
)

// ---------------------------------------------------------------------------
// 1. Translate
// ---------------------------------------------------------------------------

// Translate runs the full pipeline over text. Blank input yields an empty
// result without touching the resource provider. An auto direction is
// resolved against the loaded indexes before sentence assembly.
func (s *Service) Translate(ctx context.Context, text string, dir domain.Direction) (Result, error) {
	if !dir.IsValid() {
		return Result{}, domain.NewValidationError("direction", fmt.Sprintf("unknown direction %q", string(dir)))
	}
	if strings.TrimSpace(text) == "" {
		return Result{Direction: dir}, nil
	}

	started := time.Now()

	bundle, err := s.resources.Load(ctx)
	if err != nil {
		metrics.RecordTranslation(dir.String(), err, 0, 0)
		return Result{}, fmt.Errorf("load resources: %w", err)
	}

	ix := engine.BuildIndexes(bundle)
	tokens := engine.Tokenize(text)

	resolved := dir
	if resolved == domain.DirectionAuto {
		resolved = ix.DetectDirection(tokens)
		s.log.DebugContext(ctx, "direction detected",
			slog.String("direction", resolved.String()))
	}

	sentence, lookups := ix.BuildSentence(tokens, resolved)

	var missing []string
	for _, l := range lookups {
		if !l.Found {
			missing = append(missing, l.Source)
		}
	}
	if len(missing) > 0 && s.missing != nil {
		s.missing.RecordMissing(ctx, resolved, missing)
	}

	metrics.RecordTranslation(resolved.String(), nil, time.Since(started), len(missing))
	s.log.DebugContext(ctx, "translated",
		slog.String("direction", resolved.String()),
		slog.Int("tokens", len(tokens)),
		slog.Int("missing", len(missing)),
	)

	return Result{
		Translation: sentence,
		Direction:   resolved,
		Missing:     missing,
	}, nil
}
