package cmd

import (
	"context"

	"github.com/PolarWolf314/sdp/internal/ui"
	"github.com/PolarWolf314/sdp/internal/utils"
	"github.com/PolarWolf314/sdp/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	configInitRecipient        string
	configInitChunkSize        utils.ByteSize
	configInitEncryptOutputDir string
	configInitDecryptOutputDir string
	configInitForce            bool
)

func init() {
	configInitCmd.Flags().StringVarP(&configInitRecipient, "recipient", "r", "", "default recipient key name")
	configInitCmd.Flags().Var(&configInitChunkSize, "chunk-size", "plaintext chunk size for new containers (e.g. 1MiB)")
	configInitCmd.Flags().StringVar(&configInitEncryptOutputDir, "encrypt-output-dir", "", "default directory for encrypted output")
	configInitCmd.Flags().StringVar(&configInitDecryptOutputDir, "decrypt-output-dir", "", "default directory for decrypted output")
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing configuration")
}

func resetConfigInitState() {
	configInitRecipient = ""
	configInitChunkSize = 0
	configInitEncryptOutputDir = ""
	configInitDecryptOutputDir = ""
	configInitForce = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes a new configuration file",
	Long: `Writes the user configuration file. Values not given keep their defaults.
An existing file is only replaced with --force.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")
		spinner, cleanup := startSpinner("Writing configuration...")
		defer cleanup()

		result, err := workflows.InitConfig(context.Background(), workflows.InitConfigOptions{
			DefaultRecipient: configInitRecipient,
			ChunkSize:        int64(configInitChunkSize),
			EncryptOutputDir: configInitEncryptOutputDir,
			DecryptOutputDir: configInitDecryptOutputDir,
			Force:            configInitForce,
		})
		if err != nil {
			return finish(spinner, err)
		}

		Logger.Infof("Configuration written to %s", result.Path)
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Configuration written to " + ui.Path.Sprint(result.Path)
		if result.Config.Keys.DefaultRecipient == "" {
			spinner.FinalMSG += "\n" + ui.Info.Sprint("→") + " No default recipient set; the first generated key becomes the default"
		}
		return nil
	},
}
