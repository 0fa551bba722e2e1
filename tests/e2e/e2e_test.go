//go:build e2e

package e2e_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestE2E_LiveEndpoint verifies the liveness probe returns 200 OK.
func TestE2E_LiveEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Get(ts.URL + "/health/live")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

// TestE2E_ReadyEndpoint verifies the readiness probe flips with the resource
// backend.
func TestE2E_ReadyEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Get(ts.URL + "/health/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ts.Provider.fail(errors.New("backend down"))

	resp, err = ts.Client.Get(ts.URL + "/health/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// TestE2E_HealthEndpoint verifies the full health report carries the version
// and the resources component.
func TestE2E_HealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "e2e-test", body["version"])

	components, ok := body["components"].(map[string]any)
	require.True(t, ok, "expected components object")

	resources, ok := components["resources"].(map[string]any)
	require.True(t, ok, "expected resources component")
	assert.Equal(t, "ok", resources["status"])
}

// TestE2E_MetricsEndpoint verifies Prometheus metrics are exposed and carry
// the translation counters after a request.
func TestE2E_MetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	status, _ := ts.translate(t, map[string]any{"text": "casa", "direction": "pt_to_em"})
	require.Equal(t, http.StatusOK, status)

	resp, err := ts.Client.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "emakua_translations_total")
	assert.Contains(t, string(body), "emakua_missing_words_total")
}

// TestE2E_AssetsServed verifies the asset proxy serves objects from the
// storage upstream through the router.
func TestE2E_AssetsServed(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Get(ts.URL + "/assets/index.html")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "<html>emakua</html>", string(body))
}

// TestE2E_AssetsNotFound verifies unknown objects map to 404.
func TestE2E_AssetsNotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Get(ts.URL + "/assets/missing.css")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// TestE2E_RequestIDPropagated verifies the request ID header is echoed back
// and a caller-supplied one is reused.
func TestE2E_RequestIDPropagated(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.Client.Get(ts.URL + "/health/live")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/health/live", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "e2e-fixed-id")

	resp, err = ts.Client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "e2e-fixed-id", resp.Header.Get("X-Request-Id"))
}
