package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveUpstream("GET", 200, time.Millisecond)
	m.RefreshAttempt(ResultSuccess)
	m.SessionExpired()
	m.LoginThrottled()

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	rec := httptest.NewRecorder()
	m.Instrument(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestObserveUpstream_StatusClass(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveUpstream("GET", 200, time.Millisecond)
	m.ObserveUpstream("GET", 204, time.Millisecond)
	m.ObserveUpstream("POST", 0, time.Millisecond)
	m.ObserveUpstream("POST", 401, time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.upstreamRequests.WithLabelValues("GET", "2xx")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.upstreamRequests.WithLabelValues("POST", "network_error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.upstreamRequests.WithLabelValues("POST", "4xx")), 0)
}

func TestRefreshAndExpiryCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RefreshAttempt(ResultSuccess)
	m.RefreshAttempt(ResultError)
	m.RefreshAttempt(ResultError)
	m.SessionExpired()

	assert.InDelta(t, 1, testutil.ToFloat64(m.tokenRefreshes.WithLabelValues(ResultSuccess)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.tokenRefreshes.WithLabelValues(ResultError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.sessionsExpired), 0)
}

func TestInstrument_LabelsByPattern(t *testing.T) {
	m := New(prometheus.NewRegistry())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	m.Instrument(mux).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/42", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.InDelta(t, 1,
		testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "GET /products/{id}", "404")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.httpInFlight), 0)
}

func TestHandler_ServesRegistry(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.SessionExpired()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin_sessions_expired_total 1")
}
