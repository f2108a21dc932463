package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"kickoff/internal/structures"
	"time"
)

const (
	RefreshSucceeded = "success"
	RefreshFailed    = "failure"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncRefreshTotal(outcome string)
	IncCacheHits()
	IncCacheMisses()
	ObserveStorageDuration(op string, duration time.Duration)
	IncStorageFailures(op string)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	refreshTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	storageDuration *prometheus.HistogramVec
	storageFailures *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncRefreshTotal(outcome string) {
	m.refreshTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveStorageDuration(op string, duration time.Duration) {
	m.storageDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncStorageFailures(op string) {
	m.storageFailures.WithLabelValues(op).Inc()
}

// httpStatusBucket maps transport failures (status 0) to their own bucket.
func httpStatusBucket(code int) string {
	switch {
	case code == 0:
		return "network"
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kickoff_api_requests_total",
			Help: "Total number of API requests issued",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kickoff_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		refreshTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kickoff_token_refresh_total",
			Help: "Total number of token refresh operations by outcome",
		}, []string{"outcome"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kickoff_cache_hits_total",
			Help: "Total number of storage cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kickoff_cache_misses_total",
			Help: "Total number of storage cache misses",
		}),

		storageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kickoff_storage_duration_seconds",
			Help:    "Duration of storage operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),

		storageFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kickoff_storage_failures_total",
			Help: "Total number of swallowed storage failures",
		}, []string{"op"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncRefreshTotal(_ string)                         {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObserveStorageDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncStorageFailures(_ string)                      {}
