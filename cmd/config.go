package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage sdp configuration",
	Long: `Provides commands for managing the user configuration file.

The configuration sets the default recipient, the chunk size used for
new containers, and default output directories.

Examples:
  # Write a configuration with a default recipient
  sdp config init --recipient evidence

  # Use 4 MiB chunks for new containers
  sdp config init --chunk-size 4MiB --force

  # Show the effective configuration
  sdp config show`,
}

func init() {
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigCommandState resets every config subcommand's global state for testing.
func resetConfigCommandState() {
	resetConfigInitState()
	resetConfigShowState()
}
