package cmd

import (
	"github.com/spf13/cobra"
)

// KeysCmd is the top-level keys command.
var KeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage recipient key pairs",
	Long: `Provides commands for managing the X25519 key pairs sdp encrypts to.

Keys are stored in the user's data directory, one directory per key
holding private.key, public.key and key.toml.

Examples:
  # Create a key and make it the default recipient
  sdp keys generate evidence --default

  # List stored keys
  sdp keys list

  # Print a public key to hand to a sender
  sdp keys show evidence --public

  # Import a private key received on stdin
  sdp keys import field-team < private.key`,
}

func init() {
	KeysCmd.AddCommand(keysGenerateCmd)
	KeysCmd.AddCommand(keysListCmd)
	KeysCmd.AddCommand(keysShowCmd)
	KeysCmd.AddCommand(keysImportCmd)
}

// resetKeysCommandState resets every keys subcommand's global state for testing.
func resetKeysCommandState() {
	resetKeysGenerateState()
	resetKeysListState()
	resetKeysShowState()
	resetKeysImportState()
}
