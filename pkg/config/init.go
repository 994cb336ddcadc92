package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// configTemplate is the commented YAML written by InitConfig. It is
// kept as a literal template, rather than produced by marshaling a
// Config, so the generated file can carry section comments explaining
// each knob to someone editing it by hand.
const configTemplate = `# someipctl Configuration File
#
# Generated by 'someipctl init'. Values here can be overridden with
# SOMEIPCTL_* environment variables, e.g. SOMEIPCTL_LOGGING_LEVEL=DEBUG.

logging:
  level: %s
  format: %s
  output: %s

telemetry:
  enabled: %t
  endpoint: %q
  insecure: %t
  sample_rate: %g
  profiling:
    enabled: false
    endpoint: ""

metrics:
  enabled: %t
  port: %d

# codec is the default de/serialization profile applied when a schema
# or command-line flag does not override a given setting.
codec:
  byte_order: %s
  string_encoding: %s
  string_with_bom: %t
  string_terminator: %t
  default_length_field_size: %d
  legacy_wire_type: %t
  length_field_size_selection: %s
  strict_bool: %t
  action_on_too_much_data: %s

serve:
  address: %q
  read_timeout: %s
  write_timeout: %s
  idle_timeout: %s
  shutdown_timeout: %s
  max_request_body: %dB
`

// InitConfig writes a default configuration file to the default
// location, returning the path written. If a file already exists
// there and force is false, it returns an error rather than
// overwriting it.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a default configuration file to path. If a
// file already exists there and force is false, it returns an error
// rather than overwriting it.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", path)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := GetDefaultConfig()
	content := fmt.Sprintf(configTemplate,
		cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output,
		cfg.Telemetry.Enabled, cfg.Telemetry.Endpoint, cfg.Telemetry.Insecure, cfg.Telemetry.SampleRate,
		cfg.Metrics.Enabled, cfg.Metrics.Port,
		cfg.Codec.ByteOrder, cfg.Codec.StringEncoding, cfg.Codec.StringWithBOM, cfg.Codec.StringTerminator,
		cfg.Codec.DefaultLengthFieldSize, cfg.Codec.LegacyWireType, cfg.Codec.LengthFieldSizeSelection,
		cfg.Codec.StrictBool, cfg.Codec.ActionOnTooMuchData,
		cfg.Serve.Address, cfg.Serve.ReadTimeout, cfg.Serve.WriteTimeout, cfg.Serve.IdleTimeout, cfg.Serve.ShutdownTimeout,
		uint64(cfg.Serve.MaxRequestBody),
	)

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
