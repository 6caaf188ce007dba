package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/test")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, metrics)
	assert.Contains(t, body, `devmarket_http_requests_total{code="418",route="/test"} 1`)
	assert.Contains(t, body, `devmarket_http_request_duration_seconds_bucket{route="/test"`)
}

func TestObserveDecisionCountsOutcomes(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveDecision("route", true)
	metrics.ObserveDecision("route", false)
	metrics.ObserveDecision("route", false)
	metrics.ObserveDecision("action", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.decisionsTotal.WithLabelValues("route", "allow")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.decisionsTotal.WithLabelValues("route", "deny")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.decisionsTotal.WithLabelValues("action", "deny")))
}

func TestObserveAudit(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveAudit(nil)
	metrics.ObserveAudit(errors.New("redis down"))

	body := scrape(t, metrics)
	assert.Contains(t, body, `devmarket_access_denial_audit_total{result="enqueued"} 1`)
	assert.Contains(t, body, `devmarket_access_denial_audit_total{result="failed"} 1`)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveDecision("route", true)
	metrics.ObserveAudit(nil)

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
