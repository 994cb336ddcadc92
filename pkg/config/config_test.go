package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "INFO"

serve:
  address: ":9000"

codec:
  byte_order: little
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.Serve.ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected default serve shutdown_timeout 5s, got %v", cfg.Serve.ShutdownTimeout)
	}
	if cfg.Serve.Address != ":9000" {
		t.Errorf("Expected serve address ':9000', got %q", cfg.Serve.Address)
	}
	if cfg.Codec.ByteOrder != "little" {
		t.Errorf("Expected codec byte_order 'little', got %q", cfg.Codec.ByteOrder)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	// Loading with no config file returns a valid default config, so
	// one-off encode/decode calls work without requiring `init` first.
	tmpDir := t.TempDir()
	nonExistentPath := filepath.Join(tmpDir, "nonexistent.yaml")

	cfg, err := Load(nonExistentPath)
	if err != nil {
		t.Fatalf("Expected no error when loading default config, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("Expected default config to be returned")
	}
	if cfg.Serve.Address != ":8090" {
		t.Errorf("Expected default serve address ':8090', got %q", cfg.Serve.Address)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	configContent := `
logging:
  level: INFO
  invalid yaml here [[[
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected error with invalid YAML, got nil")
	}
}

func TestLoad_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[logging]
level = "WARN"
format = "json"

[serve]
address = ":9100"

[codec]
byte_order = "big"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load TOML config: %v", err)
	}

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected level 'WARN', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected format 'json', got %q", cfg.Logging.Format)
	}
	if cfg.Serve.Address != ":9100" {
		t.Errorf("Expected serve address ':9100', got %q", cfg.Serve.Address)
	}
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stdout" {
		t.Errorf("Expected default log output 'stdout', got %q", cfg.Logging.Output)
	}
	if cfg.Serve.Address != ":8090" {
		t.Errorf("Expected default serve address ':8090', got %q", cfg.Serve.Address)
	}
	if cfg.Codec.ByteOrder != "big" {
		t.Errorf("Expected default codec byte_order 'big', got %q", cfg.Codec.ByteOrder)
	}
	if cfg.Codec.DefaultLengthFieldSize != 4 {
		t.Errorf("Expected default codec default_length_field_size 4, got %d", cfg.Codec.DefaultLengthFieldSize)
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()

	if !filepath.IsAbs(path) {
		t.Errorf("Expected absolute path, got %q", path)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("Expected filename 'config.yaml', got %q", filepath.Base(path))
	}
}

func TestGetConfigDir(t *testing.T) {
	dir := GetConfigDir()

	if filepath.Base(dir) != "someipctl" {
		t.Errorf("Expected directory name 'someipctl', got %q", filepath.Base(dir))
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	_ = os.Setenv("SOMEIPCTL_LOGGING_LEVEL", "ERROR")
	_ = os.Setenv("SOMEIPCTL_SERVE_ADDRESS", ":9200")
	defer func() {
		_ = os.Unsetenv("SOMEIPCTL_LOGGING_LEVEL")
		_ = os.Unsetenv("SOMEIPCTL_SERVE_ADDRESS")
	}()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
logging:
  level: "INFO"

serve:
  address: ":9000"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected level 'ERROR' from env var, got %q", cfg.Logging.Level)
	}
	if cfg.Serve.Address != ":9200" {
		t.Errorf("Expected address ':9200' from env var, got %q", cfg.Serve.Address)
	}
}
