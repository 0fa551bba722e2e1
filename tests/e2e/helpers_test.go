//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/emakua-backend/internal/adapter/assets"
	"github.com/heartmarshall/emakua-backend/internal/config"
	"github.com/heartmarshall/emakua-backend/internal/domain"
	"github.com/heartmarshall/emakua-backend/internal/service/analytics"
	translatesvc "github.com/heartmarshall/emakua-backend/internal/service/translate"
	"github.com/heartmarshall/emakua-backend/internal/transport/rest"
)

// adminToken is the bearer token the test server accepts on admin routes.
const adminToken = "e2e-admin-token"

// ---------------------------------------------------------------------------
// testServer wraps the full HTTP stack for E2E tests. The resource provider
// and the missing-word store are in-memory stubs; everything between them,
// from the middleware chain to the translation engine, is the real thing.
// ---------------------------------------------------------------------------

type testServer struct {
	URL      string
	Client   *http.Client
	Provider *stubProvider
	Missing  *memoryMissingRepo
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ---------------------------------------------------------------------------
// Stub resource provider
// ---------------------------------------------------------------------------

// stubProvider serves a fixed bundle. fail switches it into outage mode.
type stubProvider struct {
	mu     sync.Mutex
	bundle domain.ResourceBundle
	err    error
}

func (p *stubProvider) Load(_ context.Context) (domain.ResourceBundle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return domain.ResourceBundle{}, p.err
	}
	return p.bundle, nil
}

func (p *stubProvider) Ping(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *stubProvider) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// ---------------------------------------------------------------------------
// In-memory missing-word store
// ---------------------------------------------------------------------------

type memoryMissingRepo struct {
	mu      sync.Mutex
	records map[string]*domain.MissingWord
}

func newMemoryMissingRepo() *memoryMissingRepo {
	return &memoryMissingRepo{records: make(map[string]*domain.MissingWord)}
}

func (r *memoryMissingRepo) RecordBatch(_ context.Context, direction domain.Direction, words []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range words {
		key := w + "|" + direction.String()
		if rec, ok := r.records[key]; ok {
			rec.Count++
			rec.LastSeen = time.Now()
			continue
		}
		r.records[key] = &domain.MissingWord{Word: w, Direction: direction, Count: 1, LastSeen: time.Now()}
	}
	return nil
}

func (r *memoryMissingRepo) Top(_ context.Context, limit int) ([]domain.MissingWord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.MissingWord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func fixtureBundle() domain.ResourceBundle {
	return domain.ResourceBundle{
		Lexicon: map[string][]string{
			// The article has no Emakua counterpart; an empty mapping keeps it
			// in the spelling vocabulary so "a" is not corrected to a pronoun.
			"a":      {""},
			"casa":   {"nyumba"},
			"grande": {"yuulupale"},
			"falar":  {"olavula", "ohimya"},
		},
		Pronouns: domain.PronounTable{
			Personal:   map[string][]string{"eu": {"miyo"}},
			Possessive: map[string][]string{"meu": {"aka"}},
		},
		Grammar: json.RawMessage(`{"notes":"opaque"}`),
	}
}

// ---------------------------------------------------------------------------
// setupTestServer bootstraps the application stack: stub provider, real
// translation service, analytics over an in-memory store, assets proxy backed
// by a fake storage upstream, and the full router with its middleware chain.
// ---------------------------------------------------------------------------

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	provider := &stubProvider{bundle: fixtureBundle()}
	translateSvc := translatesvc.NewService(logger, provider)

	missingRepo := newMemoryMissingRepo()
	analyticsSvc := analytics.NewService(logger, missingRepo, 64)
	t.Cleanup(analyticsSvc.Close)
	translateSvc.SetMissingRecorder(analyticsSvc)

	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/storage/v1/object/public/web/index.html" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<html>emakua</html>"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(storage.Close)
	proxy := assets.NewProxy(storage.URL, "web", 16, logger)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminToken), bcrypt.MinCost)
	require.NoError(t, err)

	router := rest.NewRouter(rest.RouterConfig{
		Logger:         logger,
		Translate:      rest.NewTranslateHandler(translateSvc, logger),
		Health:         rest.NewHealthHandler(provider, "e2e-test"),
		Assets:         rest.NewAssetsHandler(proxy, logger),
		Admin:          rest.NewAdminHandler(analyticsSvc, logger),
		AdminTokenHash: string(hash),
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,OPTIONS",
			AllowedHeaders: "Authorization,Content-Type",
		},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:      srv.URL,
		Client:   srv.Client(),
		Provider: provider,
		Missing:  missingRepo,
	}
}

// translate POSTs a payload to /translate and decodes the JSON response.
func (ts *testServer) translate(t *testing.T, payload map[string]any) (int, map[string]any) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := ts.Client.Post(ts.URL+"/translate", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

// adminGet performs a GET with the given bearer token.
func (ts *testServer) adminGet(t *testing.T, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	return resp
}
