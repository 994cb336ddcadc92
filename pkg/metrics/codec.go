package metrics

import "time"

// CodecMetrics provides observability for serializer/deserializer
// operations. Implementations collect counts, durations, and byte
// volumes per schema. Pass nil to disable collection with zero
// overhead.
//
// Example usage:
//
//	m := metrics.NewCodecMetrics()
//	start := time.Now()
//	buf, err := codec.Encode(opts, root, value)
//	metrics.RecordEncode(m, root.Describe(), len(buf), time.Since(start), err)
type CodecMetrics interface {
	// RecordEncode records a completed Serialize call.
	RecordEncode(schema string, bytes int, duration time.Duration, err error)

	// RecordDecode records a completed Deserialize call.
	RecordDecode(schema string, bytes int, duration time.Duration, err error)

	// RecordUnknownTagSkipped records a TLV tag that matched no schema
	// field and was skipped per §6's forward-compatibility rule.
	RecordUnknownTagSkipped(schema string)

	// RecordErrorKind records a de/serialization error classified by
	// kind (e.g. "TooShort", "InvalidEnumValue", "TooMuchData").
	RecordErrorKind(operation string, kind string)
}

// NewCodecMetrics creates a new Prometheus-backed CodecMetrics
// instance, or nil if metrics collection is disabled.
func NewCodecMetrics() CodecMetrics {
	if !IsEnabled() {
		return nil
	}
	return newPrometheusCodecMetrics()
}

// newPrometheusCodecMetrics is implemented in pkg/metrics/prometheus/codec.go.
var newPrometheusCodecMetrics func() CodecMetrics

// RegisterCodecMetricsConstructor registers the Prometheus codec
// metrics constructor. Called by pkg/metrics/prometheus/codec.go
// during package initialization.
func RegisterCodecMetricsConstructor(constructor func() CodecMetrics) {
	newPrometheusCodecMetrics = constructor
}

// RecordEncode reports a Serialize call if m is non-nil.
func RecordEncode(m CodecMetrics, schema string, bytes int, duration time.Duration, err error) {
	if m != nil {
		m.RecordEncode(schema, bytes, duration, err)
	}
}

// RecordDecode reports a Deserialize call if m is non-nil.
func RecordDecode(m CodecMetrics, schema string, bytes int, duration time.Duration, err error) {
	if m != nil {
		m.RecordDecode(schema, bytes, duration, err)
	}
}

// RecordUnknownTagSkipped reports a skipped unknown TLV tag if m is non-nil.
func RecordUnknownTagSkipped(m CodecMetrics, schema string) {
	if m != nil {
		m.RecordUnknownTagSkipped(schema)
	}
}

// RecordErrorKind reports a classified codec error if m is non-nil.
func RecordErrorKind(m CodecMetrics, operation, kind string) {
	if m != nil {
		m.RecordErrorKind(operation, kind)
	}
}
