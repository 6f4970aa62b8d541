package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordsAggregateSignals(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveAggregateOperation("drawing.blueprint.save", "success", 5*time.Millisecond)
	m.ObserveAggregateOperation("drawing.blueprint.save", "conflict", time.Millisecond)
	m.IncAggregateConflict("drawing.blueprint.save")
	m.IncAggregateRetry("drawing.blueprint.append_point")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.aggregateOps.WithLabelValues("drawing.blueprint.save", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.aggregateConflicts.WithLabelValues("drawing.blueprint.save")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.aggregateRetries.WithLabelValues("drawing.blueprint.append_point")))
}

func TestMetricsHandlerExposesAPICounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveAPI("GET", "/api/v1/blueprints", 200, 10*time.Millisecond)
	m.IncEventPublished("blueprint.created", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `blueprints_api_requests_total{method="GET",route="/api/v1/blueprints",status="200"} 1`), body)
	assert.Contains(t, body, `blueprints_events_published_total{status="ok",type="blueprint.created"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", 200, time.Millisecond)
	m.ObserveAggregateOperation("op", "success", time.Millisecond)
	m.IncAggregateConflict("op")
	m.IncAggregateRetry("op")
	m.ApiInflightInc()
	m.ApiInflightDec()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
