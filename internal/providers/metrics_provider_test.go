package providers

import (
	"kickoff/internal/structures"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTestRegistry(t *testing.T) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	})
	return reg
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	// Ensure no-op methods don't panic
	m.IncRequestsTotal("GET /users/me", 200)
	m.ObserveRequestDuration("GET /users/me", time.Millisecond)
	m.IncRefreshTotal(RefreshSucceeded)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObserveStorageDuration("get", time.Millisecond)
	m.IncStorageFailures("set")
}

func TestMetricsProvider_IncrementCounters(t *testing.T) {
	reg := withTestRegistry(t)

	m := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}})
	_, ok := m.(*MetricsProvider)
	require.True(t, ok, "should return MetricsProvider when enabled")

	m.IncRequestsTotal("GET /users/me", 200)
	m.IncRequestsTotal("GET /users/me", 401)
	m.IncRefreshTotal(RefreshFailed)
	m.IncStorageFailures("get")

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["kickoff_api_requests_total"])
	assert.True(t, names["kickoff_token_refresh_total"])
	assert.True(t, names["kickoff_storage_failures_total"])
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{0, "network"},
		{100, "1xx"},
		{200, "2xx"},
		{204, "2xx"},
		{301, "3xx"},
		{401, "4xx"},
		{404, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}

type transportTestMetrics struct {
	noopMetrics
	endpoints []string
	statuses  []int
}

func (m *transportTestMetrics) IncRequestsTotal(endpoint string, status int) {
	m.endpoints = append(m.endpoints, endpoint)
	m.statuses = append(m.statuses, status)
}

func TestMetricsTransport_RecordsStatusLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	metrics := &transportTestMetrics{}
	client := &http.Client{Transport: MetricsTransport(metrics, nil)}

	resp, err := client.Get(srv.URL + "/users/me")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{"GET /users/me"}, metrics.endpoints)
	assert.Equal(t, []int{http.StatusUnauthorized}, metrics.statuses)
}

func TestMetricsTransport_RecordsNetworkFailure(t *testing.T) {
	metrics := &transportTestMetrics{}
	client := &http.Client{Transport: MetricsTransport(metrics, failingTransport{})}

	_, err := client.Get("http://unreachable.test/users/me")
	assert.Error(t, err)
	assert.Equal(t, []int{0}, metrics.statuses)
}
