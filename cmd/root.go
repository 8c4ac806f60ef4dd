package cmd

import (
	"errors"
	"fmt"

	logger "github.com/PolarWolf314/sdp/internal/logging"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ErrReported marks errors whose message was already shown to the user.
var ErrReported = errors.New("error already reported")

var (
	verbose bool
	debug   bool
	logJSON bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "sdp",
		Short: "sdp - authenticated file encryption for sensitive data",
		Long: `sdp seals files into .sdp containers that only the holder of a recipient's
private key can open. Containers are encrypted in chunks with AES-256-GCM
under a key agreed with X25519, and carry a SHA-256 digest of the plaintext.

Usage:
  sdp <command> [flags]

Available Commands:
  encrypt    Encrypt files for a recipient
  decrypt    Decrypt .sdp containers
  check      Report whether files are .sdp containers
  keys       Manage recipient key pairs
  config     Manage sdp configuration
  log        View the audit log
  doctor     Check the local setup for problems

Run 'sdp help <command>' for more details on a specific command.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
				JSON:    logJSON,
			}
			Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(figure.NewFigure("sdp", "", true).String())
			fmt.Println("Run 'sdp --help' to see available commands.")
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit log lines as JSON on stderr")

	RootCmd.AddCommand(encryptCmd)
	RootCmd.AddCommand(decryptCmd)
	RootCmd.AddCommand(checkCmd)
	RootCmd.AddCommand(KeysCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(doctorCmd)
}

// reported wraps err so main exits non-zero without printing it again.
func reported(err error) error {
	return fmt.Errorf("%w: %w", ErrReported, err)
}

// Helper functions for testing

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	logJSON = false
	Logger = logger.Logger{}
	resetEncryptCommandState()
	resetDecryptCommandState()
	resetCheckCommandState()
	resetKeysCommandState()
	resetConfigCommandState()
	resetLogCommandState()
	resetDoctorCommandState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears the Changed marker on every flag to prevent
// test pollution between executions of the shared command tree.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetCobraFlagState(child)
	}
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
