package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cryptodb-gateway/internal/config"

	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.StorageDir = t.TempDir()
	cfg.Database = "crypto.db"
	cfg.Secret = "s3cret"
	return cfg
}

func TestNewServerValidatesConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Secret = ""
	_, err := NewServer(cfg, ServerDeps{})
	require.Error(t, err)

	cfg = testConfig(t)
	cfg.APIListen = ":4444"
	_, err = NewServer(cfg, ServerDeps{})
	require.Error(t, err)

	cfg = testConfig(t)
	srv, err := NewServer(cfg, ServerDeps{})
	require.NoError(t, err)
	require.Equal(t, config.DefaultAPIListen, srv.Addr)
}

func TestRoutes(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics = true

	h, err := NewHandler(cfg, ServerDeps{})
	require.NoError(t, err)

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	resp, err := http.Post(ts.URL+CryptoPath, "application/json",
		strings.NewReader(`{"auth": "s3cret", "query": "SELECT 2 AS two"}`))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `[[2]]`, string(body))

	resp, err = http.Get(ts.URL + HealthPath)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/elsewhere")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + MetricsPath)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `cryptodb_http_requests_total{path="/crypto",status="200"} 1`)
	require.Contains(t, string(body), `cryptodb_queries_total{kind="rows"} 1`)
}

func TestMetricsRouteDisabledByDefault(t *testing.T) {
	h, err := NewHandler(testConfig(t), ServerDeps{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, MetricsPath, nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
