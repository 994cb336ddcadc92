// Package config loads someipctl's process configuration: logging,
// telemetry, metrics, the default codec Options profile, and the
// serve command's HTTP server settings. Schema definitions themselves
// are not part of this configuration — they are loaded per-invocation
// from the path given to the encode/decode/serve commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/marmos91/someip/internal/bytesize"
	"github.com/marmos91/someip/internal/wire"
	"github.com/marmos91/someip/pkg/options"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is someipctl's process configuration.
//
// Configuration sources, in order of precedence:
//  1. CLI flags (highest priority)
//  2. Environment variables (SOMEIPCTL_*)
//  3. Configuration file (YAML or TOML)
//  4. Default values (lowest priority)
type Config struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Telemetry controls OpenTelemetry distributed tracing.
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// Metrics configures the Prometheus metrics HTTP endpoint.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	// Codec is the default Options profile applied to encode/decode
	// calls that don't override it on the command line.
	Codec CodecConfig `mapstructure:"codec" yaml:"codec"`

	// Serve configures the `someipctl serve` HTTP server.
	Serve ServeConfig `mapstructure:"serve" yaml:"serve"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format specifies the log output format: text or json.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written: stdout, stderr, or a file path.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig controls OpenTelemetry distributed tracing. When
// enabled, span data is exported to an OTLP-compatible collector.
type TelemetryConfig struct {
	// Enabled controls whether distributed tracing is active.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the OTLP collector endpoint (host:port).
	Endpoint string `mapstructure:"endpoint" validate:"required_if=Enabled true" yaml:"endpoint"`

	// Insecure controls whether to use a non-TLS connection.
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`

	// SampleRate controls the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1" yaml:"sample_rate"`

	// Profiling contains Pyroscope continuous profiling configuration.
	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

// ProfilingConfig controls Pyroscope continuous profiling.
type ProfilingConfig struct {
	// Enabled controls whether continuous profiling is active.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Endpoint is the Pyroscope server URL.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// ProfileTypes specifies which profile types to collect.
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types"`
}

// MetricsConfig configures the Prometheus metrics HTTP endpoint.
type MetricsConfig struct {
	// Enabled controls whether metrics collection and the HTTP endpoint are active.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port is the HTTP port serving /metrics.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// CodecConfig is the on-disk form of the default options.Options
// profile. It mirrors options.Options field-for-field, using strings
// for the enum-like fields so the YAML is self-documenting.
type CodecConfig struct {
	// ByteOrder selects endianness: "big" or "little".
	ByteOrder string `mapstructure:"byte_order" validate:"oneof=big little" yaml:"byte_order"`

	// StringEncoding selects the text codec: utf8, utf16, utf16le, utf16be, ascii.
	StringEncoding string `mapstructure:"string_encoding" validate:"oneof=utf8 utf16 utf16le utf16be ascii" yaml:"string_encoding"`

	// StringWithBOM controls whether UTF-8 and UTF-16 strings carry a
	// byte-order mark; it is rejected together with ascii.
	StringWithBOM bool `mapstructure:"string_with_bom" yaml:"string_with_bom"`

	// StringTerminator controls whether strings carry a trailing NUL/zero code unit.
	StringTerminator bool `mapstructure:"string_terminator" yaml:"string_terminator"`

	// DefaultLengthFieldSize is the width, in bytes (1, 2 or 4), used
	// when a schema node omits its own length field size. Options maps
	// zero to "no default" (a schema relying on it is a fatal contract
	// error), but ApplyDefaults, which Load always runs, replaces zero
	// with 4.
	DefaultLengthFieldSize int `mapstructure:"default_length_field_size" validate:"oneof=0 1 2 4" yaml:"default_length_field_size"`

	// LegacyWireType disables the TLV tag width upgrade on write.
	LegacyWireType bool `mapstructure:"legacy_wire_type" yaml:"legacy_wire_type"`

	// LengthFieldSizeSelection selects how the serializer picks a TLV
	// length field width: "smallest" or "as_configured".
	LengthFieldSizeSelection string `mapstructure:"length_field_size_selection" validate:"oneof=smallest as_configured" yaml:"length_field_size_selection"`

	// StrictBool rejects any byte other than 0/1 when decoding a bool.
	StrictBool bool `mapstructure:"strict_bool" yaml:"strict_bool"`

	// ActionOnTooMuchData selects deserializer behavior when a string
	// or sequence exceeds its configured maximum: "fail", "discard", "keep".
	ActionOnTooMuchData string `mapstructure:"action_on_too_much_data" validate:"oneof=fail discard keep" yaml:"action_on_too_much_data"`
}

// Options converts the on-disk CodecConfig to an options.Options value.
func (c CodecConfig) Options() (options.Options, error) {
	o := options.Default()

	switch c.ByteOrder {
	case "little":
		o.ByteOrder = options.LittleEndian
	default:
		o.ByteOrder = options.BigEndian
	}

	switch c.StringEncoding {
	case "utf16":
		o.StringEncoding = options.Utf16
	case "utf16le":
		o.StringEncoding = options.Utf16Le
	case "utf16be":
		o.StringEncoding = options.Utf16Be
	case "ascii":
		o.StringEncoding = options.Ascii
	default:
		o.StringEncoding = options.Utf8
	}

	o.StringWithBOM = c.StringWithBOM
	o.StringTerminator = c.StringTerminator

	if c.DefaultLengthFieldSize == 0 {
		o.DefaultLengthFieldSize = nil
	} else {
		w := wire.Width(c.DefaultLengthFieldSize)
		if !w.Valid() {
			return options.Options{}, fmt.Errorf("codec.default_length_field_size: invalid width %d", c.DefaultLengthFieldSize)
		}
		o.DefaultLengthFieldSize = &w
	}

	o.SerializerUseLegacyWireType = c.LegacyWireType

	if c.LengthFieldSizeSelection == "as_configured" {
		o.SerializerLengthFieldSizeSelection = options.AsConfigured
	} else {
		o.SerializerLengthFieldSizeSelection = options.Smallest
	}

	o.DeserializerStrictBool = c.StrictBool

	switch c.ActionOnTooMuchData {
	case "fail":
		o.DeserializerActionOnTooMuchData = options.Fail
	case "keep":
		o.DeserializerActionOnTooMuchData = options.Keep
	default:
		o.DeserializerActionOnTooMuchData = options.Discard
	}

	if err := o.Validate(); err != nil {
		return options.Options{}, err
	}
	return o, nil
}

// ServeConfig configures the `someipctl serve` HTTP server.
type ServeConfig struct {
	// Address is the listen address, e.g. ":8090" or "127.0.0.1:8090".
	Address string `mapstructure:"address" validate:"required" yaml:"address"`

	// ReadTimeout bounds how long reading a request may take.
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout bounds how long writing a response may take.
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// IdleTimeout bounds how long a keep-alive connection may idle.
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	// MaxRequestBody caps the size of a decoded request body, e.g. "1MB".
	MaxRequestBody bytesize.ByteSize `mapstructure:"max_request_body" yaml:"max_request_body"`
}

// Load loads configuration from a file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (SOMEIPCTL_*)
//  2. Configuration file
//  3. Default values
//
// configPath empty uses the default location; if no file is found
// there, Load returns the default configuration rather than an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		return GetDefaultConfig(), nil
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration, returning a user-friendly error that
// points at `someipctl init` when no config file can be found.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"Please initialize a configuration file first:\n"+
				"  someipctl init\n\n"+
				"Or specify a custom config file:\n"+
				"  someipctl <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s\n\n"+
			"Please create the configuration file:\n"+
			"  someipctl init --config %s",
			configPath, configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as YAML, creating parent directories
// as needed. The file is written with owner-only permissions.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setupViper configures environment variable and config file search behavior.
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("SOMEIPCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}

	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// readConfigFile reads the configuration file if present.
// Returns (fileFound, error); a missing file is not an error.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

// configDecodeHooks returns the combined mapstructure decode hook for
// ByteSize and time.Duration fields.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook(),
		durationDecodeHook(),
	)
}

// byteSizeDecodeHook converts strings and numbers to bytesize.ByteSize,
// so config files can write human-readable sizes like "1MB" or "512Ki".
func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return bytesize.ParseByteSize(v)
		case int:
			return bytesize.ByteSize(v), nil
		case int64:
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
}

// durationDecodeHook converts strings and numbers to time.Duration, so
// config files can write human-readable durations like "30s" or "5m".
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

// getConfigDir returns the configuration directory, honoring
// XDG_CONFIG_HOME and falling back to ~/.config/someipctl.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "someipctl")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "someipctl")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory (exposed for the init command).
func GetConfigDir() string {
	return getConfigDir()
}
