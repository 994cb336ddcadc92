package commands

import (
	"fmt"
	"os"

	"github.com/marmos91/someip/pkg/config"
	"github.com/marmos91/someip/pkg/options"
	"github.com/marmos91/someip/pkg/schema"
)

// loadSchemaType reads the YAML schema document at path and returns the
// named type, the way every encode/decode/schema-describe invocation
// resolves its --schema/--type pair before touching the codec.
func loadSchemaType(path, typeName string) (*schema.Type, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file %s: %w", path, err)
	}
	types, err := schema.LoadYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing schema file %s: %w", path, err)
	}
	t, ok := types[typeName]
	if !ok {
		return nil, fmt.Errorf("schema file %s defines no type named %q", path, typeName)
	}
	return t, nil
}

// loadCodecOptions resolves the codec Options a command should use:
// the config file's [codec] section when --config or a default config
// exists, otherwise options.Default().
func loadCodecOptions() (options.Options, error) {
	configFile := GetConfigFile()
	if configFile == "" && !config.DefaultConfigExists() {
		return options.Default(), nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return options.Options{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg.Codec.Options()
}
