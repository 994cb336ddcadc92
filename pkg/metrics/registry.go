// Package metrics defines the observability interfaces someipctl's
// codec and HTTP layers report through. A nil implementation of any
// interface is valid and means "collect nothing" at zero overhead, the
// same contract the teacher's cache/content metrics used.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	mu       sync.Mutex
	registry *prometheus.Registry
	enabled  bool
)

// Init creates the global Prometheus registry. Calling it with
// enabled false leaves metrics collection off; IsEnabled and
// GetRegistry will report accordingly and NewCodecMetrics /
// NewHTTPMetrics will return nil.
func Init(collectEnabled bool) {
	mu.Lock()
	defer mu.Unlock()

	enabled = collectEnabled
	if !enabled {
		registry = nil
		return
	}
	registry = prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
}

// IsEnabled reports whether metrics collection is active.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// GetRegistry returns the global Prometheus registry. Callers should
// check IsEnabled first; GetRegistry returns nil when disabled.
func GetRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()
	return registry
}

// Handler returns the HTTP handler serving the /metrics endpoint.
// Returns nil when metrics are disabled.
func Handler() http.Handler {
	reg := GetRegistry()
	if reg == nil {
		return nil
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
