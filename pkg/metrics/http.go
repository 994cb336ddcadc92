package metrics

import "time"

// HTTPMetrics provides observability for the `someipctl serve` HTTP
// endpoints. Pass nil to disable collection with zero overhead.
type HTTPMetrics interface {
	// RecordRequest records a completed HTTP request.
	RecordRequest(method, route string, status int, duration time.Duration)

	// RecordRequestBody records the size of a decoded request body.
	RecordRequestBody(route string, bytes int)
}

// NewHTTPMetrics creates a new Prometheus-backed HTTPMetrics instance,
// or nil if metrics collection is disabled.
func NewHTTPMetrics() HTTPMetrics {
	if !IsEnabled() {
		return nil
	}
	return newPrometheusHTTPMetrics()
}

// newPrometheusHTTPMetrics is implemented in pkg/metrics/prometheus/http.go.
var newPrometheusHTTPMetrics func() HTTPMetrics

// RegisterHTTPMetricsConstructor registers the Prometheus HTTP metrics
// constructor. Called by pkg/metrics/prometheus/http.go during
// package initialization.
func RegisterHTTPMetricsConstructor(constructor func() HTTPMetrics) {
	newPrometheusHTTPMetrics = constructor
}

// RecordRequest reports a completed HTTP request if m is non-nil.
func RecordRequest(m HTTPMetrics, method, route string, status int, duration time.Duration) {
	if m != nil {
		m.RecordRequest(method, route, status, duration)
	}
}

// RecordRequestBody reports a decoded request body size if m is non-nil.
func RecordRequestBody(m HTTPMetrics, route string, bytes int) {
	if m != nil {
		m.RecordRequestBody(route, bytes)
	}
}
