package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/sdp/internal/ui"
	"github.com/PolarWolf314/sdp/internal/utils"
	"github.com/PolarWolf314/sdp/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	decryptKeyName         string
	decryptPrivateKey      string
	decryptPrivateKeyStdin bool
	decryptOutputDir       string
	decryptRecursive       bool
	decryptDryRun          bool
)

func init() {
	decryptCmd.Flags().StringVarP(&decryptKeyName, "key", "k", "", "name of the stored key (defaults to keys.default_recipient)")
	decryptCmd.Flags().StringVar(&decryptPrivateKey, "private-key", "", "path to a private key file")
	decryptCmd.Flags().BoolVar(&decryptPrivateKeyStdin, "private-key-stdin", false, "read the private key from stdin")
	decryptCmd.Flags().StringVarP(&decryptOutputDir, "output-dir", "o", "", "directory for the recovered files")
	decryptCmd.Flags().BoolVarP(&decryptRecursive, "recursive", "R", false, "descend into subdirectories")
	decryptCmd.Flags().BoolVar(&decryptDryRun, "dry-run", false, "preview which files would be decrypted")
	decryptCmd.MarkFlagsMutuallyExclusive("key", "private-key", "private-key-stdin")
}

// resetDecryptCommandState resets the decrypt command's global state for testing.
func resetDecryptCommandState() {
	decryptKeyName = ""
	decryptPrivateKey = ""
	decryptPrivateKeyStdin = false
	decryptOutputDir = ""
	decryptRecursive = false
	decryptDryRun = false
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt CONTAINER...",
	Short: "Decrypts .sdp containers with your private key",
	Long: `Decrypts each .sdp container. The recovered file is named after the original
file name stored in the container and written next to it, or into
--output-dir. Existing files are never overwritten; a numeric suffix is added.

Output only appears once every chunk authenticated and the plaintext digest
matched, so a wrong key or a modified container leaves nothing behind.

Examples:
  sdp decrypt report.pdf.sdp                     # Use the default key
  sdp decrypt -k evidence -o recovered/ *.sdp    # Use a named key
  sdp decrypt --private-key ./private.key a.sdp  # Use a key file
  cat key | sdp decrypt --private-key-stdin a.sdp`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecrypt,
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting decrypt command")
	spinner, cleanup := startSpinner("Decrypting files...")
	defer cleanup()

	opts := workflows.DecryptOptions{
		FilePatterns:   args,
		Recursive:      decryptRecursive,
		KeyName:        decryptKeyName,
		PrivateKeyPath: decryptPrivateKey,
		OutputDir:      decryptOutputDir,
		DryRun:         decryptDryRun,
		Progress:       progressReporter(spinner, "Decrypting"),
	}

	if decryptPrivateKeyStdin {
		Logger.Debugf("Reading private key from stdin")
		data, err := utils.ReadStdin()
		if err != nil {
			return finish(spinner, err)
		}
		opts.PrivateKeyData = data
	}

	result, err := workflows.Decrypt(context.Background(), opts)
	if result != nil && result.InsecureKeyMode != 0 {
		warnInsecureKey(spinner, result.KeyPath, result.InsecureKeyMode)
	}
	if err != nil {
		if result != nil && len(result.Files) > 0 {
			Logger.Warnf("%d file(s) were decrypted before the failure", len(result.Files))
		}
		return finish(spinner, err)
	}

	for _, missing := range result.Missing {
		Logger.WarnfAlways("File not found: %s", missing)
	}
	for _, skipped := range result.Skipped {
		Logger.Warnf("Skipping %s: not an .sdp container", skipped)
	}

	var outputs []string
	for _, f := range result.Files {
		Logger.Debugf("Decrypted %s -> %s (%d chunks, %s)", f.Source, f.Output, f.Chunks, utils.FormatBytes(f.BytesWritten))
		if f.SizeMismatch {
			spinner.Stop()
			Logger.WarnfAlways("%s: recovered %s but the header recorded a different size", f.Source, utils.FormatBytes(f.BytesWritten))
		}
		outputs = append(outputs, f.Output)
	}

	if len(outputs) == 0 {
		spinner.FinalMSG = ui.Error.Sprint("✗") + " None of the given files are " + ui.Path.Sprint(".sdp") + " containers\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("sdp check FILE") + " to inspect them"
		return nil
	}

	if result.DryRun {
		spinner.FinalMSG = ui.Warning.Sprint("[dry-run]") + fmt.Sprintf(" Would decrypt %d container(s) into:", len(outputs)) +
			utils.FormatPaths(outputs) +
			ui.Info.Sprint("→") + " No changes made"
		return nil
	}

	Logger.Infof("Decrypt command completed successfully. Recovered %d files", len(outputs))
	spinner.FinalMSG = ui.Success.Sprint("✓") + " Containers decrypted and verified successfully!\n" +
		"The following files were created: " + utils.FormatPaths(outputs) +
		ui.Info.Sprint("→") + " Every chunk authenticated and the plaintext digest matched"
	return nil
}
