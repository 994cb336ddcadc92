package commands

import (
	"fmt"

	"github.com/marmos91/someip/pkg/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample someipctl configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/someipctl/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  someipctl init

  # Initialize with custom path
  someipctl init --config /etc/someipctl/config.yaml

  # Force overwrite existing config
  someipctl init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	var configPath string
	var err error

	if configFile != "" {
		err = config.InitConfigToPath(configFile, initForce)
		configPath = configFile
	} else {
		configPath, err = config.InitConfig(initForce)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Define your message schemas in a YAML file (see `someipctl schema describe --help`)")
	fmt.Println("  2. Encode a value with: someipctl encode --schema <file> --type <name> --data <file>")
	fmt.Printf("  3. Or start the codec service with: someipctl serve --config %s\n", configPath)

	return nil
}
