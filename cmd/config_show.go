package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/sdp/internal/ui"
	"github.com/PolarWolf314/sdp/internal/utils"
	"github.com/PolarWolf314/sdp/internal/workflows"
	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

func resetConfigShowState() {
	configShowJSON = false
}

// configView is the JSON form of the effective configuration.
type configView struct {
	Path             string `json:"path"`
	Exists           bool   `json:"exists"`
	DefaultRecipient string `json:"default_recipient"`
	ChunkSize        int64  `json:"chunk_size"`
	EncryptOutputDir string `json:"encrypt_output_dir"`
	DecryptOutputDir string `json:"decrypt_output_dir"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Displays the effective configuration",
	Long: `Displays the effective user configuration. Defaults are shown for values
the file does not set.

Examples:
  sdp config show
  sdp config show --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		result, err := workflows.ShowConfig(context.Background())
		if err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}
		Logger.Debugf("Config loaded from %s (exists=%t)", result.Path, result.Exists)

		if configShowJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(newConfigView(result))
		}

		printConfig(result)
		return nil
	},
}

func newConfigView(result *workflows.ConfigResult) configView {
	return configView{
		Path:             result.Path,
		Exists:           result.Exists,
		DefaultRecipient: result.Config.Keys.DefaultRecipient,
		ChunkSize:        int64(result.Config.Encrypt.ChunkSize),
		EncryptOutputDir: result.Config.Encrypt.OutputDir,
		DecryptOutputDir: result.Config.Decrypt.OutputDir,
	}
}

func printConfig(result *workflows.ConfigResult) {
	cfg := result.Config
	fmt.Println(ui.Info.Sprint("User Configuration") + " (" + ui.Path.Sprint(result.Path) + "):")
	if !result.Exists {
		fmt.Println(ui.Warning.Sprint("⚠") + " No configuration file found, showing defaults")
	}
	fmt.Println()

	fmt.Println("[keys]")
	fmt.Printf("  %-18s %s\n", "default_recipient", orUnset(cfg.Keys.DefaultRecipient))
	fmt.Println()
	fmt.Println("[encrypt]")
	fmt.Printf("  %-18s %s (%s)\n", "chunk_size", utils.FormatSize(int64(cfg.Encrypt.ChunkSize)), utils.FormatBytes(int64(cfg.Encrypt.ChunkSize)))
	fmt.Printf("  %-18s %s\n", "output_dir", orUnset(cfg.Encrypt.OutputDir))
	fmt.Println()
	fmt.Println("[decrypt]")
	fmt.Printf("  %-18s %s\n", "output_dir", orUnset(cfg.Decrypt.OutputDir))

	if !result.Exists {
		fmt.Println()
		fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("sdp config init") + " to write a configuration file")
	}
}

func orUnset(value string) string {
	if value == "" {
		return ui.Muted.Sprint("(not set)")
	}
	return ui.Highlight.Sprint(value)
}
