package cmd

import (
	"context"

	"github.com/PolarWolf314/sdp/internal/ui"
	"github.com/PolarWolf314/sdp/internal/workflows"
	"github.com/spf13/cobra"
)

var keysGenerateDefault bool

func init() {
	keysGenerateCmd.Flags().BoolVar(&keysGenerateDefault, "default", false, "make this key the default recipient")
}

func resetKeysGenerateState() {
	keysGenerateDefault = false
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate NAME",
	Short: "Generates a new key pair",
	Long: `Generates a new X25519 key pair under NAME. The first key generated becomes
the default recipient; use --default to replace an existing default.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys generate command")
		spinner, cleanup := startSpinner("Generating key pair...")
		defer cleanup()

		result, err := workflows.GenerateKey(context.Background(), workflows.GenerateKeyOptions{
			Name:       args[0],
			SetDefault: keysGenerateDefault,
		})
		if err != nil {
			return finish(spinner, err)
		}
		Logger.Debugf("Key %s stored in %s", result.Key.Name, result.Key.Dir)

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Key pair " + ui.Highlight.Sprint(result.Key.Name) + " generated\n" +
			"    Fingerprint: " + result.Key.Fingerprint + "\n" +
			"    Public key:  " + ui.Path.Sprint(result.PublicKeyPath) + "\n" +
			"    Private key: " + ui.Path.Sprint(result.PrivateKeyPath) + "\n"
		if result.IsDefault {
			spinner.FinalMSG += ui.Info.Sprint("→") + " This key is the default recipient"
		} else {
			spinner.FinalMSG += ui.Info.Sprint("→") + " Encrypt for it with " + ui.Code.Sprint("sdp encrypt -r "+result.Key.Name+" FILE")
		}
		return nil
	},
}
