package rest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/heartmarshall/emakua-backend/internal/adapter/assets"
	"github.com/heartmarshall/emakua-backend/internal/domain"
)

type assetFetcherMock struct {
	fetchFunc func(ctx context.Context, key string) (assets.Object, error)
}

func (m *assetFetcherMock) Fetch(ctx context.Context, key string) (assets.Object, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, key)
	}
	return assets.Object{}, domain.ErrNotFound
}

func newAssetsHandler(mock *assetFetcherMock) *AssetsHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAssetsHandler(mock, logger)
}

func TestAssetsServe_HappyPath(t *testing.T) {
	t.Parallel()

	mock := &assetFetcherMock{
		fetchFunc: func(_ context.Context, key string) (assets.Object, error) {
			if key != "css/style.css" {
				t.Errorf("fetcher received key %q", key)
			}
			return assets.Object{
				Body:        []byte("body { color: red }"),
				ContentType: "text/css; charset=utf-8",
			}, nil
		},
	}
	h := newAssetsHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/assets/css/style.css", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/css; charset=utf-8" {
		t.Errorf("content type = %q", got)
	}
	if rec.Body.String() != "body { color: red }" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestAssetsServe_NotFound(t *testing.T) {
	t.Parallel()

	h := newAssetsHandler(&assetFetcherMock{})

	req := httptest.NewRequest(http.MethodGet, "/assets/missing.html", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestAssetsServe_StorageUnavailable(t *testing.T) {
	t.Parallel()

	mock := &assetFetcherMock{
		fetchFunc: func(context.Context, string) (assets.Object, error) {
			return assets.Object{}, fmt.Errorf("%w: storage down", domain.ErrResourceUnavailable)
		},
	}
	h := newAssetsHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/assets/index.html", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestAssetsServe_EmptyKey(t *testing.T) {
	t.Parallel()

	h := newAssetsHandler(&assetFetcherMock{
		fetchFunc: func(context.Context, string) (assets.Object, error) {
			t.Error("fetcher should not be called for an empty key")
			return assets.Object{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/assets/", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAssetsServe_RejectsDotDot(t *testing.T) {
	t.Parallel()

	h := newAssetsHandler(&assetFetcherMock{
		fetchFunc: func(context.Context, string) (assets.Object, error) {
			t.Error("fetcher should not be called for a traversal path")
			return assets.Object{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/assets/a/../secret", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAssetsServe_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	h := newAssetsHandler(&assetFetcherMock{})

	req := httptest.NewRequest(http.MethodPost, "/assets/index.html", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}
