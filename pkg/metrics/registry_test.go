package metrics

import "testing"

func TestInit_Disabled(t *testing.T) {
	Init(false)
	defer Init(false)

	if IsEnabled() {
		t.Fatal("expected metrics to be disabled")
	}
	if GetRegistry() != nil {
		t.Fatal("expected nil registry when disabled")
	}
	if Handler() != nil {
		t.Fatal("expected nil handler when disabled")
	}
}

func TestInit_Enabled(t *testing.T) {
	Init(true)
	defer Init(false)

	if !IsEnabled() {
		t.Fatal("expected metrics to be enabled")
	}
	if GetRegistry() == nil {
		t.Fatal("expected non-nil registry when enabled")
	}
	if Handler() == nil {
		t.Fatal("expected non-nil handler when enabled")
	}
}

func TestNewCodecMetrics_DisabledReturnsNil(t *testing.T) {
	Init(false)
	if m := NewCodecMetrics(); m != nil {
		t.Fatal("expected nil CodecMetrics when disabled")
	}
}

func TestNewHTTPMetrics_DisabledReturnsNil(t *testing.T) {
	Init(false)
	if m := NewHTTPMetrics(); m != nil {
		t.Fatal("expected nil HTTPMetrics when disabled")
	}
}
