package testhelper

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UniqueSuffix returns a short unique string for generating non-conflicting
// test data (parallel tests share one container).
func UniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedResource upserts one language resource row with the given metadata
// document.
func SeedResource(t *testing.T, pool *pgxpool.Pool, name string, metadata any) {
	t.Helper()
	ctx := context.Background()

	doc, err := json.Marshal(metadata)
	if err != nil {
		t.Fatalf("testhelper: SeedResource marshal metadata: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO emakua_ml_resources (name, metadata)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET metadata = EXCLUDED.metadata, updated_at = now()`,
		name, doc,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedResource upsert %s: %v", name, err)
	}
}

// SeedMissingWord writes an aggregated missing-word row directly.
func SeedMissingWord(t *testing.T, pool *pgxpool.Pool, word, direction string, count int) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`INSERT INTO missing_words (word, direction, count)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (word, direction) DO UPDATE
		 SET count = EXCLUDED.count, last_seen = now()`,
		word, direction, count,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMissingWord upsert %s: %v", word, err)
	}
}
