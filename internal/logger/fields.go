package logger

import "log/slog"

// Standard field keys for structured logging. Use these keys
// consistently across log statements so log aggregation and querying
// stays uniform across the codec, the CLI and the HTTP server.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Codec Operation
	// ========================================================================
	KeyOperation = "operation" // encode, decode, schema_load
	KeySchema    = "schema"    // schema/struct name being en/decoded
	KeyFieldName = "field"     // field name, when an error is field-scoped
	KeyFieldID   = "field_id"  // TLV field id, when an error is field-scoped
	KeyWireType  = "wire_type" // TLV wire-type code involved in an error
	KeyErrorKind = "error_kind" // codec.Kind of a data error

	// ========================================================================
	// Byte Accounting
	// ========================================================================
	KeyBytesIn  = "bytes_in"  // bytes consumed from the input
	KeyBytesOut = "bytes_out" // bytes written to the output

	// ========================================================================
	// HTTP / CLI Request Context
	// ========================================================================
	KeyRemoteAddr = "remote_addr" // client address for the serve command
	KeyMethod     = "method"      // HTTP method
	KeyRoute      = "route"       // HTTP route pattern
	KeyStatus     = "status"      // HTTP status code

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // operation duration in milliseconds
	KeyError      = "error"       // error message
)

// TraceID returns a slog.Attr for the OpenTelemetry trace ID.
func TraceID(id string) slog.Attr { return slog.String(KeyTraceID, id) }

// SpanID returns a slog.Attr for the OpenTelemetry span ID.
func SpanID(id string) slog.Attr { return slog.String(KeySpanID, id) }

// Operation returns a slog.Attr for the codec operation name.
func Operation(op string) slog.Attr { return slog.String(KeyOperation, op) }

// Schema returns a slog.Attr for the schema/struct name.
func Schema(name string) slog.Attr { return slog.String(KeySchema, name) }

// FieldName returns a slog.Attr for a schema field name.
func FieldName(name string) slog.Attr { return slog.String(KeyFieldName, name) }

// FieldID returns a slog.Attr for a TLV field id.
func FieldID(id uint16) slog.Attr { return slog.Int(KeyFieldID, int(id)) }

// BytesIn returns a slog.Attr for the number of bytes consumed.
func BytesIn(n int) slog.Attr { return slog.Int(KeyBytesIn, n) }

// BytesOut returns a slog.Attr for the number of bytes written.
func BytesOut(n int) slog.Attr { return slog.Int(KeyBytesOut, n) }

// RemoteAddr returns a slog.Attr for the client address of a serve request.
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }

// DurationMs returns a slog.Attr for an operation's duration in milliseconds.
func DurationMs(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Err returns a slog.Attr for an error's message, or an empty attr
// (which handlers skip) when err is nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
