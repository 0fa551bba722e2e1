// Package resource implements the language-resource repository using
// PostgreSQL. It reads the same emakua_ml_resources table the Supabase REST
// provider queries, so deployments with direct database access can skip
// PostgREST entirely.
package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/emakua-backend/internal/adapter/postgres"
	"github.com/heartmarshall/emakua-backend/internal/domain"
	"github.com/heartmarshall/emakua-backend/internal/metrics"
	"github.com/heartmarshall/emakua-backend/internal/provider"
)

const resourceTable = "emakua_ml_resources"

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides resource-document persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	txm  *postgres.TxManager
}

// New creates a new resource repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool, txm: postgres.NewTxManager(pool)}
}

// Ping verifies database connectivity. Health checks call it.
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns the metadata document stored under the given resource name.
// A missing row is not an error: it returns a nil document, so seeding can
// distinguish "absent" from "present but empty".
func (r *Repo) Get(ctx context.Context, name string) (json.RawMessage, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select("metadata").
		From(resourceTable).
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get resource query: %w", err)
	}

	var metadata []byte
	if err := querier.QueryRow(ctx, sql, args...).Scan(&metadata); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err, "resource", name)
	}

	return metadata, nil
}

// Load fetches the three resource documents and decodes them into a bundle.
// Satisfies the translate service's resource provider interface. The reads
// run in one snapshot transaction so a concurrent reseed cannot produce a
// torn bundle. A missing row, fetch error, or decode error is reported as
// domain.ErrResourceUnavailable.
func (r *Repo) Load(ctx context.Context) (domain.ResourceBundle, error) {
	var raw provider.RawBundle
	targets := []struct {
		name string
		dst  *json.RawMessage
	}{
		{provider.ResourceGrammar, &raw.Grammar},
		{provider.ResourcePronouns, &raw.Pronouns},
		{provider.ResourceLexicon, &raw.Lexicon},
	}

	err := r.txm.RunInSnapshot(ctx, func(txCtx context.Context) error {
		for _, tgt := range targets {
			doc, err := r.Get(txCtx, tgt.name)
			if err == nil && doc == nil {
				err = fmt.Errorf("not found in table %s", resourceTable)
			}
			metrics.RecordResourceFetch(tgt.name, err)
			if err != nil {
				return fmt.Errorf("fetch %s: %v", tgt.name, err)
			}
			*tgt.dst = doc
		}
		return nil
	})
	if err != nil {
		return domain.ResourceBundle{}, fmt.Errorf("%w: %v", domain.ErrResourceUnavailable, err)
	}

	bundle, err := raw.Decode()
	if err != nil {
		return domain.ResourceBundle{}, fmt.Errorf("%w: %v", domain.ErrResourceUnavailable, err)
	}

	return bundle, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Upsert stores a metadata document under the given resource name, replacing
// any existing document. An empty metadata slice is stored as {}.
func (r *Repo) Upsert(ctx context.Context, name string, metadata json.RawMessage) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if len(metadata) == 0 {
		metadata = json.RawMessage("{}")
	}

	sql, args, err := qb.Insert(resourceTable).
		Columns("name", "metadata").
		Values(name, metadata).
		Suffix("ON CONFLICT (name) DO UPDATE SET metadata = EXCLUDED.metadata, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert resource query: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return mapError(err, "resource", name)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity, name string) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, name, err)
	}

	// pgx.ErrNoRows -> domain.ErrNotFound
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, name, domain.ErrNotFound)
	}

	// PgError codes
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, name, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, name, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, name, domain.ErrValidation)
		}
	}

	// Everything else: wrap with context
	return fmt.Errorf("%s %s: %w", entity, name, err)
}
