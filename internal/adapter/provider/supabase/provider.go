// Package supabase loads the translation resources from a Supabase project
// over its PostgREST endpoint. Fetches go through a circuit breaker with a
// single retry, and decoded bundles are cached for a configurable TTL.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/heartmarshall/emakua-backend/internal/domain"
	"github.com/heartmarshall/emakua-backend/internal/metrics"
	"github.com/heartmarshall/emakua-backend/internal/provider"
)

// resourceTable is the table holding one row per resource document.
const resourceTable = "emakua_ml_resources"

// Provider fetches and decodes the resource bundle from Supabase.
type Provider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	cache      *resourceCache
	log        *slog.Logger
}

// NewProvider creates a Provider for the given Supabase project URL and API
// key. cacheTTL bounds how long a decoded bundle is reused; zero disables
// the cache.
func NewProvider(baseURL, apiKey string, cacheTTL time.Duration, logger *slog.Logger) *Provider {
	log := logger.With("adapter", "supabase")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "supabase",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerState(name, int(to))
			log.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return &Provider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    breaker,
		cache:      newResourceCache(cacheTTL),
		log:        log,
	}
}

// Load returns the decoded resource bundle, serving from cache when fresh.
// Any fetch or decode failure wraps domain.ErrResourceUnavailable.
func (p *Provider) Load(ctx context.Context) (domain.ResourceBundle, error) {
	if bundle, ok := p.cache.get(); ok {
		metrics.RecordResourceCache(true)
		return bundle, nil
	}
	metrics.RecordResourceCache(false)

	var raw provider.RawBundle
	targets := []struct {
		name string
		dst  *json.RawMessage
	}{
		{provider.ResourceGrammar, &raw.Grammar},
		{provider.ResourcePronouns, &raw.Pronouns},
		{provider.ResourceLexicon, &raw.Lexicon},
	}
	for _, tgt := range targets {
		meta, err := p.fetchResource(ctx, tgt.name)
		metrics.RecordResourceFetch(tgt.name, err)
		if err != nil {
			p.log.ErrorContext(ctx, "resource fetch failed",
				slog.String("resource", tgt.name),
				slog.String("error", err.Error()))
			return domain.ResourceBundle{}, fmt.Errorf("%w: fetch %s: %v", domain.ErrResourceUnavailable, tgt.name, err)
		}
		*tgt.dst = meta
	}

	bundle, err := raw.Decode()
	if err != nil {
		return domain.ResourceBundle{}, fmt.Errorf("%w: %v", domain.ErrResourceUnavailable, err)
	}

	p.cache.set(bundle)
	p.log.DebugContext(ctx, "resources loaded",
		slog.Int("lexicon", len(bundle.Lexicon)),
		slog.Int("personal", len(bundle.Pronouns.Personal)),
		slog.Int("possessive", len(bundle.Pronouns.Possessive)),
	)
	return bundle, nil
}

// Ping verifies the PostgREST endpoint is reachable. Health checks call it;
// it bypasses cache and breaker so the probe reflects the live backend.
func (p *Provider) Ping(ctx context.Context) error {
	reqURL := fmt.Sprintf("%s/rest/v1/%s?select=name&limit=1", p.baseURL, resourceTable)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// fetchResource returns the metadata document of one resource row. A row
// that does not exist is an error.
func (p *Provider) fetchResource(ctx context.Context, name string) (json.RawMessage, error) {
	reqURL := fmt.Sprintf("%s/rest/v1/%s?select=metadata&name=eq.%s",
		p.baseURL, resourceTable, url.QueryEscape(name))

	result, err := p.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("apikey", p.apiKey)
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := p.doWithRetry(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			var pgErr postgrestError
			if err := json.Unmarshal(body, &pgErr); err == nil && pgErr.Message != "" {
				return nil, fmt.Errorf("status %d: %s", resp.StatusCode, pgErr.Message)
			}
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		var rows []resourceRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("not found in table %s", resourceTable)
		}
		return rows[0].Metadata, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(json.RawMessage), nil
}

// doWithRetry executes the request with a single retry on 5xx or network
// errors, waiting 500ms between attempts.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil || (resp != nil && resp.StatusCode >= 500) {
		if resp != nil {
			resp.Body.Close()
		}

		reason := "network error"
		if err == nil && resp != nil {
			reason = fmt.Sprintf("status %d", resp.StatusCode)
		}
		p.log.WarnContext(ctx, "supabase retry",
			slog.String("url", req.URL.Path),
			slog.String("reason", reason))

		select {
		case <-time.After(500 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		resp, err = p.httpClient.Do(req)
	}

	return resp, err
}
