package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_Serve(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Serve.Address != ":8090" {
		t.Errorf("Expected default serve address ':8090', got %q", cfg.Serve.Address)
	}
	if cfg.Serve.ReadTimeout != 10*time.Second {
		t.Errorf("Expected default read timeout 10s, got %v", cfg.Serve.ReadTimeout)
	}
	if cfg.Serve.WriteTimeout != 10*time.Second {
		t.Errorf("Expected default write timeout 10s, got %v", cfg.Serve.WriteTimeout)
	}
	if cfg.Serve.IdleTimeout != 60*time.Second {
		t.Errorf("Expected default idle timeout 60s, got %v", cfg.Serve.IdleTimeout)
	}
	if cfg.Serve.ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected default shutdown timeout 5s, got %v", cfg.Serve.ShutdownTimeout)
	}
	if cfg.Serve.MaxRequestBody != 1<<20 {
		t.Errorf("Expected default max request body 1MiB, got %v", cfg.Serve.MaxRequestBody)
	}
}

func TestApplyDefaults_Codec(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Codec.ByteOrder != "big" {
		t.Errorf("Expected default byte_order 'big', got %q", cfg.Codec.ByteOrder)
	}
	if cfg.Codec.StringEncoding != "utf8" {
		t.Errorf("Expected default string_encoding 'utf8', got %q", cfg.Codec.StringEncoding)
	}
	if cfg.Codec.DefaultLengthFieldSize != 4 {
		t.Errorf("Expected default default_length_field_size 4, got %d", cfg.Codec.DefaultLengthFieldSize)
	}
	if cfg.Codec.LengthFieldSizeSelection != "smallest" {
		t.Errorf("Expected default length_field_size_selection 'smallest', got %q", cfg.Codec.LengthFieldSizeSelection)
	}
	if cfg.Codec.ActionOnTooMuchData != "discard" {
		t.Errorf("Expected default action_on_too_much_data 'discard', got %q", cfg.Codec.ActionOnTooMuchData)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "DEBUG",
			Format: "json",
			Output: "/var/log/someipctl.log",
		},
		Codec: CodecConfig{
			ByteOrder: "little",
		},
		Serve: ServeConfig{
			Address: ":9999",
		},
	}

	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected explicit level 'DEBUG' to be preserved, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected explicit format 'json' to be preserved, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "/var/log/someipctl.log" {
		t.Errorf("Expected explicit output to be preserved, got %q", cfg.Logging.Output)
	}
	if cfg.Codec.ByteOrder != "little" {
		t.Errorf("Expected explicit byte_order 'little' to be preserved, got %q", cfg.Codec.ByteOrder)
	}
	if cfg.Serve.Address != ":9999" {
		t.Errorf("Expected explicit serve address to be preserved, got %q", cfg.Serve.Address)
	}
	// Unset fields still get their defaults filled in alongside the explicit ones.
	if cfg.Codec.StringEncoding != "utf8" {
		t.Errorf("Expected default string_encoding 'utf8' to be filled in, got %q", cfg.Codec.StringEncoding)
	}
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}

func TestGetDefaultConfig_HasRequiredFields(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Logging.Level == "" {
		t.Error("Default config missing logging level")
	}
	if cfg.Serve.Address == "" {
		t.Error("Default config missing serve address")
	}
	if cfg.Codec.ByteOrder == "" {
		t.Error("Default config missing codec byte_order")
	}
}
