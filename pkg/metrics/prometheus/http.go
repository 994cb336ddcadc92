package prometheus

import (
	"strconv"
	"time"

	"github.com/marmos91/someip/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func init() {
	metrics.RegisterHTTPMetricsConstructor(func() metrics.HTTPMetrics {
		return newHTTPMetrics()
	})
}

// httpMetrics is the Prometheus implementation of metrics.HTTPMetrics.
type httpMetrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	requestBytes *prometheus.HistogramVec
}

func newHTTPMetrics() *httpMetrics {
	reg := metrics.GetRegistry()

	return &httpMetrics{
		requests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "someipctl_http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status",
			},
			[]string{"method", "route", "status"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "someipctl_http_request_duration_milliseconds",
				Help:    "Duration of HTTP requests in milliseconds",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
			},
			[]string{"method", "route"},
		),
		requestBytes: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "someipctl_http_request_bytes",
				Help:    "Distribution of decoded HTTP request body sizes in bytes",
				Buckets: []float64{16, 64, 256, 1024, 4096, 16384, 65536, 262144, 1048576},
			},
			[]string{"route"},
		),
	}
}

func (m *httpMetrics) RecordRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(duration.Seconds() * 1000)
}

func (m *httpMetrics) RecordRequestBody(route string, bytes int) {
	if m == nil {
		return
	}
	m.requestBytes.WithLabelValues(route).Observe(float64(bytes))
}
