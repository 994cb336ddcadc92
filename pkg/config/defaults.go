package config

import "time"

// ApplyDefaults fills in zero-valued fields of cfg with default values.
// Explicit values already set (from a config file or environment
// variable) are left untouched.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyMetricsDefaults(&cfg.Metrics)
	applyCodecDefaults(&cfg.Codec)
	applyServeDefaults(&cfg.Serve)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	} else {
		cfg.Level = normalizeLevel(cfg.Level)
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func normalizeLevel(level string) string {
	switch level {
	case "debug":
		return "DEBUG"
	case "info":
		return "INFO"
	case "warn":
		return "WARN"
	case "error":
		return "ERROR"
	default:
		return level
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}
	if cfg.Enabled && cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if len(cfg.Profiling.ProfileTypes) == 0 {
		cfg.Profiling.ProfileTypes = []string{"cpu", "alloc_objects", "alloc_space"}
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

func applyCodecDefaults(cfg *CodecConfig) {
	if cfg.ByteOrder == "" {
		cfg.ByteOrder = "big"
	}
	if cfg.StringEncoding == "" {
		cfg.StringEncoding = "utf8"
	}
	if cfg.DefaultLengthFieldSize == 0 {
		cfg.DefaultLengthFieldSize = 4
	}
	if cfg.LengthFieldSizeSelection == "" {
		cfg.LengthFieldSizeSelection = "smallest"
	}
	if cfg.ActionOnTooMuchData == "" {
		cfg.ActionOnTooMuchData = "discard"
	}
}

func applyServeDefaults(cfg *ServeConfig) {
	if cfg.Address == "" {
		cfg.Address = ":8090"
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.MaxRequestBody == 0 {
		cfg.MaxRequestBody = 1 << 20 // 1MiB
	}
}

// GetDefaultConfig returns a complete Config populated entirely with defaults.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
