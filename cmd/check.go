package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/sdp/internal/sdp"
	"github.com/PolarWolf314/sdp/internal/ui"
	"github.com/PolarWolf314/sdp/internal/utils"
	"github.com/PolarWolf314/sdp/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	checkInfo      bool
	checkDir       string
	checkRecursive bool
	checkJSON      bool
)

func init() {
	checkCmd.Flags().BoolVar(&checkInfo, "info", false, "show container details")
	checkCmd.Flags().StringVar(&checkDir, "dir", ".", "directory to check when no files are given")
	checkCmd.Flags().BoolVarP(&checkRecursive, "recursive", "R", false, "descend into subdirectories")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output as JSON")
}

// resetCheckCommandState resets the check command's global state for testing.
func resetCheckCommandState() {
	checkInfo = false
	checkDir = "."
	checkRecursive = false
	checkJSON = false
}

var checkCmd = &cobra.Command{
	Use:   "check [FILE...]",
	Short: "Reports whether files are .sdp containers",
	Long: `Reports whether files are .sdp containers by reading their headers. Nothing is
decrypted and no key is needed. Without arguments every file of --dir is
listed, encrypted files first.

The exit code is always 0, so check is safe to use in scripts that only
parse its output.

Examples:
  sdp check report.pdf.sdp --info      # Show container details
  sdp check --dir evidence/            # List a directory
  sdp check 'evidence/**/*'            # Check a whole tree
  sdp check --json *.sdp`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting check command")

	report, err := workflows.Check(context.Background(), workflows.CheckOptions{
		Paths:     args,
		Dir:       checkDir,
		Recursive: checkRecursive,
		Info:      checkInfo || checkJSON,
	})
	if err != nil {
		Logger.WithError(err).Errorf("Check failed")
		fmt.Println(formatError(err))
		return nil
	}

	if checkJSON {
		return outputCheckJSON(report)
	}

	if report.Listing {
		printCheckListing(report)
		return nil
	}

	for _, missing := range report.Missing {
		fmt.Printf("File not found: %s\n", missing)
	}
	for _, f := range report.Files {
		printCheckedFile(f)
	}
	if len(report.Files) > 1 {
		fmt.Printf("\nSummary: %d/%d files encrypted\n", report.Encrypted, report.Total)
	}
	return nil
}

func printCheckedFile(f workflows.CheckedFile) {
	if !f.Encrypted {
		fmt.Printf("%s - %s\n", f.Path, ui.Status(false))
		return
	}

	fmt.Printf("%s - %s (.sdp format)\n", f.Path, ui.Status(true))
	if f.Metadata != nil {
		printContainerDetails(f.Metadata)
	}
}

func printContainerDetails(m *sdp.Metadata) {
	fmt.Println()
	fmt.Println("File Details:")
	fmt.Printf("  Original filename: %s\n", m.Filename)
	fmt.Printf("  Original size: %s\n", utils.FormatBytes(m.OriginalSize))
	fmt.Printf("  Encrypted size: %s\n", utils.FormatBytes(m.EncryptedSize))
	fmt.Printf("  Algorithm: %s\n", m.Algorithm)
	fmt.Printf("  Timestamp: %s\n", m.Timestamp)
	fmt.Printf("  Chunk size: %s\n", utils.FormatBytes(m.ChunkSize))
	fmt.Printf("  Total chunks: %d\n", m.TotalChunks)
	fmt.Printf("  Size ratio: %s\n", m.Ratio())
}

func printCheckListing(report *workflows.CheckReport) {
	dir := checkDir
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	if len(report.Missing) > 0 {
		fmt.Printf("Directory not found: %s\n", dir)
		return
	}

	rule := strings.Repeat("=", 60)
	fmt.Printf("Checking encryption status in: %s\n", dir)
	fmt.Println(rule)
	for _, f := range report.Files {
		name, err := filepath.Rel(checkDir, f.Path)
		if err != nil {
			name = f.Path
		}
		fmt.Printf("%s %s\n", statusColumn(f.Encrypted), name)
	}
	fmt.Println(rule)
	fmt.Printf("Summary: %d/%d files encrypted\n", report.Encrypted, report.Total)
}

// statusColumn pads the status word before colouring it so columns line up.
func statusColumn(encrypted bool) string {
	if encrypted {
		return ui.Encrypted.Sprintf("%-20s", "ENCRYPTED")
	}
	return ui.Plain.Sprintf("%-20s", "NOT ENCRYPTED")
}

func outputCheckJSON(report *workflows.CheckReport) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
