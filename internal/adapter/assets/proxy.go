// Package assets serves objects from the Supabase Storage web bucket through
// the API host. Fetched objects are kept in an in-memory LRU so repeated
// requests for the same file skip the upstream round trip.
package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/heartmarshall/emakua-backend/internal/domain"
	"github.com/heartmarshall/emakua-backend/internal/metrics"
)

// defaultCacheSize is used when the configured size is missing or invalid.
const defaultCacheSize = 256

// Object is one stored file as served to clients.
type Object struct {
	Body        []byte
	ContentType string
}

// Proxy fetches public objects from a Supabase Storage bucket.
type Proxy struct {
	baseURL    string
	bucket     string
	httpClient *http.Client
	cache      *lru.Cache[string, Object]
	log        *slog.Logger
}

// NewProxy creates a Proxy for the given Supabase project URL and bucket.
// cacheSize bounds how many objects are kept in memory; values below one
// fall back to a small default.
func NewProxy(baseURL, bucket string, cacheSize int, logger *slog.Logger) *Proxy {
	if cacheSize < 1 {
		cacheSize = defaultCacheSize
	}
	cache, _ := lru.New[string, Object](cacheSize)

	return &Proxy{
		baseURL:    baseURL,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      cache,
		log:        logger.With("adapter", "assets"),
	}
}

// Fetch returns the object stored under key, serving from cache when
// possible. Missing objects return domain.ErrNotFound; upstream outages
// wrap domain.ErrResourceUnavailable.
func (p *Proxy) Fetch(ctx context.Context, key string) (Object, error) {
	if obj, ok := p.cache.Get(key); ok {
		metrics.RecordAssetCache(true)
		return obj, nil
	}
	metrics.RecordAssetCache(false)

	reqURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		p.baseURL, p.bucket, escapeKey(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Object{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, req)
	if err != nil {
		return Object{}, fmt.Errorf("%w: fetch asset %s: %v", domain.ErrResourceUnavailable, key, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return Object{}, fmt.Errorf("asset %s: %w", key, domain.ErrNotFound)
	case resp.StatusCode >= 500:
		return Object{}, fmt.Errorf("%w: fetch asset %s: status %d", domain.ErrResourceUnavailable, key, resp.StatusCode)
	default:
		return Object{}, fmt.Errorf("fetch asset %s: unexpected status %d", key, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Object{}, fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	obj := Object{Body: body, ContentType: contentType}
	p.cache.Add(key, obj)
	p.log.DebugContext(ctx, "asset fetched",
		slog.String("key", key),
		slog.Int("bytes", len(body)))
	return obj, nil
}

// escapeKey escapes each path segment of an object key, keeping the slashes
// that separate folders.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// doWithRetry executes the request with a single retry on 5xx or network
// errors, waiting 500ms between attempts.
func (p *Proxy) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
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
		p.log.WarnContext(ctx, "storage retry",
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
