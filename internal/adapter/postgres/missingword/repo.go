// Package missingword implements the missing-word analytics repository using
// PostgreSQL. Each row aggregates one (word, direction) pair: batch writes add
// to its counter, the Top query serves the admin ranking.
package missingword

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/emakua-backend/internal/adapter/postgres"
	"github.com/heartmarshall/emakua-backend/internal/domain"
)

const missingWordsTable = "missing_words"

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides missing-word persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new missing-word repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// RecordBatch increments the counter of every word in the batch for the given
// direction, creating rows as needed. Duplicates within one batch are summed
// in memory first: a single INSERT ... ON CONFLICT DO UPDATE must not touch
// the same row twice.
func (r *Repo) RecordBatch(ctx context.Context, direction domain.Direction, words []string) error {
	if len(words) == 0 {
		return nil
	}

	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w]++
	}
	ordered := make([]string, 0, len(counts))
	for w := range counts {
		ordered = append(ordered, w)
	}
	sort.Strings(ordered)

	insert := qb.Insert(missingWordsTable).Columns("word", "direction", "count")
	for _, w := range ordered {
		insert = insert.Values(w, string(direction), counts[w])
	}

	sql, args, err := insert.
		Suffix("ON CONFLICT (word, direction) DO UPDATE SET count = missing_words.count + EXCLUDED.count, last_seen = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build record batch query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return mapError(err, "missing_word", string(direction))
	}

	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Top returns the most frequent missing words across both directions, ordered
// by count descending with the word as tie-break. Returns an empty slice (not
// nil) when the table is empty.
func (r *Repo) Top(ctx context.Context, limit int) ([]domain.MissingWord, error) {
	sql, args, err := qb.Select("word", "direction", "count", "last_seen").
		From(missingWordsTable).
		OrderBy("count DESC", "word").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("top missing words: %w", err)
	}
	defer rows.Close()

	result := []domain.MissingWord{}
	for rows.Next() {
		var (
			mw        domain.MissingWord
			direction string
		)
		if err := rows.Scan(&mw.Word, &direction, &mw.Count, &mw.LastSeen); err != nil {
			return nil, fmt.Errorf("top missing words: %w", err)
		}
		mw.Direction = domain.Direction(direction)
		result = append(result, mw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top missing words: %w", err)
	}

	return result, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, key, err)
	}

	// pgx.ErrNoRows -> domain.ErrNotFound
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
	}

	// PgError codes
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrValidation)
		}
	}

	// Everything else: wrap with context
	return fmt.Errorf("%s %s: %w", entity, key, err)
}
