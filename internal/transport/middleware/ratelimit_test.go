package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func limitedHandler(rl *RateLimiter, perMinute int) http.Handler {
	return rl.Limit(perMinute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doFrom(handler http.Handler, addr string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/translate", nil)
	req.RemoteAddr = addr
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()
	handler := limitedHandler(rl, 10)

	for i := 0; i < 10; i++ {
		rec := doFrom(handler, "1.2.3.4:1234")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()
	handler := limitedHandler(rl, 5)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doFrom(handler, "1.2.3.4:1234").Code)
	}

	rec := doFrom(handler, "1.2.3.4:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimiter_PortsShareBucket(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()
	handler := limitedHandler(rl, 3)

	// Each request arrives on a fresh ephemeral port; the limit still
	// applies per host.
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doFrom(handler, fmt.Sprintf("9.9.9.9:%d", 40000+i)).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, doFrom(handler, "9.9.9.9:49999").Code)
}

func TestRateLimiter_HostsIndependent(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()
	handler := limitedHandler(rl, 2)

	for i := 0; i < 2; i++ {
		doFrom(handler, "1.1.1.1:1234")
	}
	assert.Equal(t, http.StatusTooManyRequests, doFrom(handler, "1.1.1.1:1234").Code)
	assert.Equal(t, http.StatusOK, doFrom(handler, "2.2.2.2:5678").Code)
}

func TestRateLimiter_TokensRefill(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	defer rl.Stop()

	// 60 per minute refills one token per second.
	handler := limitedHandler(rl, 60)
	for i := 0; i < 60; i++ {
		doFrom(handler, "3.3.3.3:1234")
	}
	assert.Equal(t, http.StatusTooManyRequests, doFrom(handler, "3.3.3.3:1234").Code)

	time.Sleep(1100 * time.Millisecond)
	assert.Equal(t, http.StatusOK, doFrom(handler, "3.3.3.3:1234").Code)
}
