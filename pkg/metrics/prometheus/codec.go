package prometheus

import (
	"time"

	"github.com/marmos91/someip/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func init() {
	metrics.RegisterCodecMetricsConstructor(func() metrics.CodecMetrics {
		return newCodecMetrics()
	})
}

// codecMetrics is the Prometheus implementation of metrics.CodecMetrics.
type codecMetrics struct {
	encodeOperations     *prometheus.CounterVec
	encodeDuration       *prometheus.HistogramVec
	encodeBytes          *prometheus.HistogramVec
	decodeOperations     *prometheus.CounterVec
	decodeDuration       *prometheus.HistogramVec
	decodeBytes          *prometheus.HistogramVec
	unknownTagsSkipped   *prometheus.CounterVec
	errorsByKind         *prometheus.CounterVec
}

func newCodecMetrics() *codecMetrics {
	reg := metrics.GetRegistry()

	byteBuckets := []float64{
		16, 64, 256, 1024, 4096, 16384, 65536, 262144, 1048576,
	}
	durationBuckets := []float64{
		0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000,
	}

	return &codecMetrics{
		encodeOperations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "someipctl_encode_operations_total",
				Help: "Total number of Serialize calls by schema and outcome",
			},
			[]string{"schema", "status"}, // status: "ok", "error"
		),
		encodeDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "someipctl_encode_duration_milliseconds",
				Help:    "Duration of Serialize calls in milliseconds",
				Buckets: durationBuckets,
			},
			[]string{"schema"},
		),
		encodeBytes: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "someipctl_encode_bytes",
				Help:    "Distribution of encoded payload sizes in bytes",
				Buckets: byteBuckets,
			},
			[]string{"schema"},
		),
		decodeOperations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "someipctl_decode_operations_total",
				Help: "Total number of Deserialize calls by schema and outcome",
			},
			[]string{"schema", "status"},
		),
		decodeDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "someipctl_decode_duration_milliseconds",
				Help:    "Duration of Deserialize calls in milliseconds",
				Buckets: durationBuckets,
			},
			[]string{"schema"},
		),
		decodeBytes: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "someipctl_decode_bytes",
				Help:    "Distribution of decoded payload sizes in bytes",
				Buckets: byteBuckets,
			},
			[]string{"schema"},
		),
		unknownTagsSkipped: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "someipctl_unknown_tags_skipped_total",
				Help: "Total number of TLV tags skipped because no schema field claimed them",
			},
			[]string{"schema"},
		),
		errorsByKind: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "someipctl_codec_errors_total",
				Help: "Total number of codec errors by operation and error kind",
			},
			[]string{"operation", "kind"}, // operation: "encode", "decode"
		),
	}
}

func (m *codecMetrics) RecordEncode(schema string, bytes int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.encodeOperations.WithLabelValues(schema, status).Inc()
	m.encodeDuration.WithLabelValues(schema).Observe(duration.Seconds() * 1000)
	if err == nil {
		m.encodeBytes.WithLabelValues(schema).Observe(float64(bytes))
	}
}

func (m *codecMetrics) RecordDecode(schema string, bytes int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.decodeOperations.WithLabelValues(schema, status).Inc()
	m.decodeDuration.WithLabelValues(schema).Observe(duration.Seconds() * 1000)
	if err == nil {
		m.decodeBytes.WithLabelValues(schema).Observe(float64(bytes))
	}
}

func (m *codecMetrics) RecordUnknownTagSkipped(schema string) {
	if m == nil {
		return
	}
	m.unknownTagsSkipped.WithLabelValues(schema).Inc()
}

func (m *codecMetrics) RecordErrorKind(operation, kind string) {
	if m == nil {
		return
	}
	m.errorsByKind.WithLabelValues(operation, kind).Inc()
}
