package cmd

import (
	"context"
	"os"

	"github.com/PolarWolf314/sdp/internal/ui"
	"github.com/PolarWolf314/sdp/internal/utils"
	"github.com/PolarWolf314/sdp/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	keysImportFile    string
	keysImportDefault bool
)

func init() {
	keysImportCmd.Flags().StringVarP(&keysImportFile, "file", "f", "", "read the private key from a file instead of stdin")
	keysImportCmd.Flags().BoolVar(&keysImportDefault, "default", false, "make this key the default recipient")
}

func resetKeysImportState() {
	keysImportFile = ""
	keysImportDefault = false
}

var keysImportCmd = &cobra.Command{
	Use:   "import NAME",
	Short: "Imports an existing private key",
	Long: `Imports a 32-byte X25519 private key, raw or base64, under NAME. The key is
read from stdin unless --file is given. The public key is derived from it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys import command")
		spinner, cleanup := startSpinner("Importing key...")
		defer cleanup()

		var data []byte
		var err error
		if keysImportFile != "" {
			Logger.Debugf("Reading private key from %s", keysImportFile)
			data, err = os.ReadFile(keysImportFile)
		} else {
			Logger.Debugf("Reading private key from stdin")
			data, err = utils.ReadStdin()
		}
		if err != nil {
			return finish(spinner, err)
		}

		result, err := workflows.ImportKey(context.Background(), workflows.ImportKeyOptions{
			Name:           args[0],
			PrivateKeyData: data,
			SetDefault:     keysImportDefault,
		})
		clear(data)
		if err != nil {
			return finish(spinner, err)
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Key " + ui.Highlight.Sprint(result.Key.Name) + " imported\n" +
			"    Fingerprint: " + result.Key.Fingerprint
		if result.IsDefault {
			spinner.FinalMSG += "\n" + ui.Info.Sprint("→") + " This key is the default recipient"
		}
		return nil
	},
}
