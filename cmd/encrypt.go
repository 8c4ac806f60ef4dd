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
	encryptRecipient string
	encryptPublicKey string
	encryptOutputDir string
	encryptChunkSize utils.ByteSize
	encryptRecursive bool
	encryptDryRun    bool
)

func init() {
	encryptCmd.Flags().StringVarP(&encryptRecipient, "recipient", "r", "", "name of the stored recipient key (defaults to keys.default_recipient)")
	encryptCmd.Flags().StringVar(&encryptPublicKey, "public-key", "", "path to a recipient public key file")
	encryptCmd.Flags().StringVarP(&encryptOutputDir, "output-dir", "o", "", "directory for the .sdp containers")
	encryptCmd.Flags().Var(&encryptChunkSize, "chunk-size", "plaintext bytes per chunk, e.g. 10MiB")
	encryptCmd.Flags().BoolVarP(&encryptRecursive, "recursive", "R", false, "descend into subdirectories")
	encryptCmd.Flags().BoolVar(&encryptDryRun, "dry-run", false, "preview which files would be encrypted")
}

// resetEncryptCommandState resets the encrypt command's global state for testing.
func resetEncryptCommandState() {
	encryptRecipient = ""
	encryptPublicKey = ""
	encryptOutputDir = ""
	encryptChunkSize = 0
	encryptRecursive = false
	encryptDryRun = false
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt FILE...",
	Short: "Encrypts files into .sdp containers for a recipient",
	Long: `Encrypts each file into an .sdp container that only the recipient's private
key can open. Arguments may be files, directories or glob patterns; ** matches
across directories. Files that already are containers are skipped.

Examples:
  sdp encrypt report.pdf                       # Use the default recipient
  sdp encrypt -r evidence case/**/*.pdf        # Encrypt for a named key
  sdp encrypt --public-key bob.pub notes.txt   # Encrypt for a key file
  sdp encrypt --chunk-size 4MiB -o sealed/ dump.bin`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEncrypt,
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting encrypt command")
	spinner, cleanup := startSpinner("Encrypting files...")
	defer cleanup()

	opts := workflows.EncryptOptions{
		FilePatterns:  args,
		Recursive:     encryptRecursive,
		Recipient:     encryptRecipient,
		PublicKeyPath: encryptPublicKey,
		OutputDir:     encryptOutputDir,
		ChunkSize:     int64(encryptChunkSize),
		DryRun:        encryptDryRun,
		Progress:      progressReporter(spinner, "Encrypting"),
	}

	result, err := workflows.Encrypt(context.Background(), opts)
	if err != nil {
		if result != nil && len(result.Files) > 0 {
			Logger.Warnf("%d file(s) were encrypted before the failure", len(result.Files))
		}
		return finish(spinner, err)
	}

	for _, missing := range result.Missing {
		Logger.WarnfAlways("File not found: %s", missing)
	}
	for _, skipped := range result.Skipped {
		Logger.Infof("Skipping %s: already an .sdp container", skipped)
	}

	var outputs []string
	for _, f := range result.Files {
		Logger.Debugf("Encrypted %s -> %s (%d chunks, %s)", f.Source, f.Output, f.Chunks, utils.FormatBytes(f.EncryptedSize))
		outputs = append(outputs, f.Output)
	}

	if len(outputs) == 0 {
		spinner.FinalMSG = ui.Warning.Sprint("⚠") + " Nothing to encrypt: every file is already an " + ui.Path.Sprint(".sdp") + " container"
		return nil
	}

	if result.DryRun {
		spinner.FinalMSG = ui.Warning.Sprint("[dry-run]") + fmt.Sprintf(" Would encrypt %d file(s) for ", len(outputs)) +
			ui.Highlight.Sprint(result.Recipient) + " into:" + utils.FormatPaths(outputs) +
			ui.Info.Sprint("→") + " No changes made"
		return nil
	}

	Logger.Infof("Encrypt command completed successfully. Created %d containers", len(outputs))
	spinner.FinalMSG = ui.Success.Sprint("✓") + " Files encrypted successfully for " +
		ui.Highlight.Sprint(result.Recipient) + " " + ui.Muted.Sprint(result.Fingerprint) + "\n" +
		"The following files were created: " + utils.FormatPaths(outputs) +
		ui.Info.Sprint("→") + " Only the holder of the recipient's private key can decrypt them"
	if len(result.Skipped) > 0 {
		spinner.FinalMSG += fmt.Sprintf("\n%s Skipped %d existing container(s)", ui.Info.Sprint("ℹ"), len(result.Skipped))
	}
	return nil
}
