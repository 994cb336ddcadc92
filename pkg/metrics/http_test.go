package metrics

import (
	"testing"
	"time"
)

type fakeHTTPMetrics struct {
	requests int
	bodies   []int
}

func (f *fakeHTTPMetrics) RecordRequest(method, route string, status int, duration time.Duration) {
	f.requests++
}
func (f *fakeHTTPMetrics) RecordRequestBody(route string, bytes int) {
	f.bodies = append(f.bodies, bytes)
}

func TestRecordRequest_NilSafe(t *testing.T) {
	RecordRequest(nil, "POST", "/v1/encode", 200, time.Millisecond)
}

func TestRecordRequest_Forwards(t *testing.T) {
	f := &fakeHTTPMetrics{}
	RecordRequest(f, "POST", "/v1/encode", 200, time.Millisecond)
	if f.requests != 1 {
		t.Fatalf("expected 1 request recorded, got %d", f.requests)
	}
}

func TestRecordRequestBody_Forwards(t *testing.T) {
	f := &fakeHTTPMetrics{}
	RecordRequestBody(f, "/v1/decode", 128)
	RecordRequestBody(nil, "/v1/decode", 128)
	if len(f.bodies) != 1 || f.bodies[0] != 128 {
		t.Fatalf("unexpected bodies: %v", f.bodies)
	}
}
