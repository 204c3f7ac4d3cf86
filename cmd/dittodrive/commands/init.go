package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/dittodrive/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample DittoDrive configuration file.

By default, the configuration file is created at
$XDG_CONFIG_HOME/dittodrive/config.yaml. Use --config to specify a custom
path.

Examples:
  # Initialize with default location
  dittodrive init

  # Initialize with custom path
  dittodrive init --config /etc/dittodrive/config.yaml

  # Force overwrite existing config
  dittodrive init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := GetConfigFile()
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(configPath); err == nil && !initForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	if err := config.SaveConfig(config.GetDefaultConfig(), configPath); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Set the identity secret shared with your identity provider:")
	fmt.Println("       export DITTODRIVE_IDENTITY_SECRET=$(openssl rand -hex 32)")
	fmt.Println("  2. Point storage at your S3 bucket:")
	fmt.Println("       export DITTODRIVE_STORAGE_BUCKET=my-drive-bucket")
	fmt.Println("       export DITTODRIVE_STORAGE_ACCESS_KEY_ID=...")
	fmt.Println("       export DITTODRIVE_STORAGE_SECRET_ACCESS_KEY=...")
	fmt.Println("  3. Start the server with: dittodrive start")

	return nil
}
