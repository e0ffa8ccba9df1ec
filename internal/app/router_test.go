package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeflow/tradeflow/internal/auth"
	"github.com/tradeflow/tradeflow/internal/docgen"
	"github.com/tradeflow/tradeflow/internal/observability"
	_ "github.com/tradeflow/tradeflow/testing"
)

type denyAll struct{}

func (denyAll) Verify(context.Context, string) (auth.User, error) {
	return auth.User{}, auth.ErrUnauthorized
}

func testConfig() *Config {
	return &Config{AppEnv: "test", RateLimitPerMinute: 1000, CORSAllowedOrigins: []string{"*"}}
}

func newTestRouter(checks ...HealthCheck) http.Handler {
	svc := docgen.NewService(nil, nil, nil, nil, nil)
	return NewRouter(RouterParams{
		Config:     testConfig(),
		Verifier:   denyAll{},
		DocHandler: docgen.NewHandler(nil, svc, nil),
		Checks:     checks,
		Metrics:    observability.NewMetrics(),
	})
}

func TestHealthz(t *testing.T) {
	h := newTestRouter(HealthCheck{Name: "postgres", Check: func(context.Context) error { return nil }})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body healthBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, map[string]string{"postgres": "ok"}, body.Checks)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestHealthzDegraded(t *testing.T) {
	h := newTestRouter(
		HealthCheck{Name: "postgres", Check: func(context.Context) error { return nil }},
		HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("refused") }},
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body healthBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "down", body.Checks["redis"])
}

func TestGeneratePDFPreflight(t *testing.T) {
	h := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/generate-pdf?type=invoice&id="+uuid.NewString(), nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "authorization, apikey")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodGet)
}

func TestGeneratePDFRequiresToken(t *testing.T) {
	h := newTestRouter()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate-pdf?type=invoice&id="+uuid.NewString(), nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tradeflow_http_requests_total")
}
