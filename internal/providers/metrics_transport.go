package providers

import (
	"net/http"
	"strings"
	"time"
)

// pathTemplates collapses caller-supplied path segments into one label.
var pathTemplates = []struct {
	prefix   string
	template string
}{
	{"/users/me/unlink-oauth/", "/users/me/unlink-oauth/:provider"},
}

func endpointLabel(method, path string) string {
	for _, t := range pathTemplates {
		if _, rest, ok := strings.Cut(path, t.prefix); ok && rest != "" {
			return method + " " + t.template
		}
	}
	return method + " " + path
}

type metricsTransport struct {
	metrics MetricsProviderInterface
	next    http.RoundTripper
}

func (t *metricsTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(r)

	status := 0
	if err == nil {
		status = resp.StatusCode
	}
	endpoint := endpointLabel(r.Method, r.URL.Path)
	t.metrics.IncRequestsTotal(endpoint, status)
	t.metrics.ObserveRequestDuration(endpoint, time.Since(start))
	return resp, err
}

// MetricsTransport records every outgoing request, including transport failures.
func MetricsTransport(metrics MetricsProviderInterface, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &metricsTransport{metrics: metrics, next: next}
}
