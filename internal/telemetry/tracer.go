package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for codec and transport operations, following
// OpenTelemetry semantic conventions where applicable.
const (
	// ========================================================================
	// Codec attributes
	// ========================================================================
	AttrOperation  = "someip.operation"   // encode, decode
	AttrSchema     = "someip.schema"      // schema/struct name
	AttrFieldName  = "someip.field"       // field name, when field-scoped
	AttrFieldID    = "someip.field_id"    // TLV field id
	AttrWireType   = "someip.wire_type"   // TLV wire-type code
	AttrErrorKind  = "someip.error_kind"  // codec.Kind of a data error
	AttrBytesIn    = "someip.bytes_in"    // bytes consumed from the input
	AttrBytesOut   = "someip.bytes_out"   // bytes written to the output
	AttrMessageID  = "someip.message_id"  // SOME/IP message ID, when framing full PDUs
	AttrServiceID  = "someip.service_id"  // SOME/IP service ID
	AttrMethodID   = "someip.method_id"   // SOME/IP method/event ID

	// ========================================================================
	// Client / transport attributes (protocol-agnostic)
	// ========================================================================
	AttrClientIP   = "client.ip"
	AttrClientAddr = "client.address"

	// ========================================================================
	// HTTP attributes (serve command)
	// ========================================================================
	AttrHTTPMethod = "http.method"
	AttrHTTPRoute  = "http.route"
	AttrHTTPStatus = "http.status_code"
)

// Span names for operations.
// Format: <component>.<operation>
const (
	SpanCodecEncode      = "codec.encode"
	SpanCodecDecode      = "codec.decode"
	SpanSchemaLoad       = "schema.load"
	SpanSchemaDescribe   = "schema.describe"
	SpanHTTPEncode       = "http.encode"
	SpanHTTPDecode       = "http.decode"
)

// ClientIP returns an attribute for client IP address.
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// ClientAddr returns an attribute for full client address.
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// Operation returns an attribute for the codec operation name.
func Operation(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

// Schema returns an attribute for the schema/struct name in play.
func Schema(name string) attribute.KeyValue {
	return attribute.String(AttrSchema, name)
}

// FieldName returns an attribute for a field-scoped codec error.
func FieldName(name string) attribute.KeyValue {
	return attribute.String(AttrFieldName, name)
}

// FieldID returns an attribute for a TLV field id.
func FieldID(id int) attribute.KeyValue {
	return attribute.Int(AttrFieldID, id)
}

// WireType returns an attribute for the TLV wire-type code involved in an error.
func WireType(wt int) attribute.KeyValue {
	return attribute.Int(AttrWireType, wt)
}

// ErrorKind returns an attribute for a codec error kind.
func ErrorKind(kind string) attribute.KeyValue {
	return attribute.String(AttrErrorKind, kind)
}

// BytesIn returns an attribute for the number of bytes consumed.
func BytesIn(n int) attribute.KeyValue {
	return attribute.Int64(AttrBytesIn, int64(n))
}

// BytesOut returns an attribute for the number of bytes written.
func BytesOut(n int) attribute.KeyValue {
	return attribute.Int64(AttrBytesOut, int64(n))
}

// MessageID returns an attribute for a SOME/IP message ID.
func MessageID(id uint32) attribute.KeyValue {
	return attribute.Int64(AttrMessageID, int64(id))
}

// ServiceID returns an attribute for a SOME/IP service ID.
func ServiceID(id uint16) attribute.KeyValue {
	return attribute.Int64(AttrServiceID, int64(id))
}

// MethodID returns an attribute for a SOME/IP method or event ID.
func MethodID(id uint16) attribute.KeyValue {
	return attribute.Int64(AttrMethodID, int64(id))
}

// HTTPMethod returns an attribute for the HTTP method of a serve request.
func HTTPMethod(method string) attribute.KeyValue {
	return attribute.String(AttrHTTPMethod, method)
}

// HTTPRoute returns an attribute for the HTTP route pattern.
func HTTPRoute(route string) attribute.KeyValue {
	return attribute.String(AttrHTTPRoute, route)
}

// HTTPStatus returns an attribute for the HTTP response status code.
func HTTPStatus(status int) attribute.KeyValue {
	return attribute.Int(AttrHTTPStatus, status)
}

// StartCodecSpan starts a span for an encode or decode call against a schema.
func StartCodecSpan(ctx context.Context, spanName, operation, schemaName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		Operation(operation),
		Schema(schemaName),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, spanName, trace.WithAttributes(allAttrs...))
}

// StartHTTPSpan starts a span for a serve-command HTTP request.
func StartHTTPSpan(ctx context.Context, spanName, method, route string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		HTTPMethod(method),
		HTTPRoute(route),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, spanName, trace.WithAttributes(allAttrs...))
}

// FieldIDHex formats a TLV field id as a hex string attribute, useful when
// logging alongside a raw tag dump.
func FieldIDHex(id int) string {
	return fmt.Sprintf("0x%04x", id)
}
