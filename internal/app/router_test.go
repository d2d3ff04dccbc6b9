package app

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooladmin/schooladmin/internal/observability"
	"github.com/schooladmin/schooladmin/internal/platform/httpx"
)

func newTestRouter(health func(*http.Request) error) http.Handler {
	cfg := validConfig()
	return NewRouter(RouterParams{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:  &cfg,
		Metrics: observability.NewMetrics(),
		Health:  health,
	})
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
	assert.Equal(t, "nosniff", res.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", res.Header().Get("X-Frame-Options"))
}

func TestHealthzReportsStoreFailure(t *testing.T) {
	router := newTestRouter(func(*http.Request) error { return errors.New("pool closed") })
	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
	assert.NotContains(t, res.Body.String(), "pool closed")
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	router := newTestRouter(nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, APIPrefix+"/nowhere", nil))

	require.Equal(t, http.StatusNotFound, res.Code)
	var env httpx.Envelope
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &env))
	assert.Equal(t, httpx.StatusFailure, env.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(nil)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "schooladmin_http_requests_total")
}

func TestCORSPreflightAllowsRoleHeader(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodOptions, APIPrefix+"/school", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "authorization,user_role")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, "*", res.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, res.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}
