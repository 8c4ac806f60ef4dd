package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/sdp/internal/configs"
	"github.com/PolarWolf314/sdp/internal/ui"
	"github.com/PolarWolf314/sdp/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	doctorJSONOutput bool
	// doctorExitFunc is the function called to exit with a specific code.
	// Can be overridden for testing.
	doctorExitFunc = os.Exit
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSONOutput, "json", false, "output in JSON format")
}

func resetDoctorCommandState() {
	doctorJSONOutput = false
	doctorExitFunc = os.Exit
}

// SetDoctorExitFunc sets the exit function for testing purposes.
func SetDoctorExitFunc(f func(int)) {
	doctorExitFunc = f
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on the local sdp setup",
	Long: `Runs a series of health checks on the local sdp setup and reports issues.

The doctor command checks:
  - User configuration validity
  - Key store presence
  - Default recipient existence
  - Private key permissions
  - Public and private key consistency
  - Audit log readability

Exit codes:
  0 - All checks passed
  1 - Warnings found (non-critical issues)
  2 - Errors found (critical issues)

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting doctor command")

	result, err := runDoctorChecks()
	if err != nil {
		return err
	}

	// Exit after the spinner has printed its final message.
	switch {
	case result.Summary.Errors > 0:
		doctorExitFunc(2)
	case result.Summary.Warnings > 0:
		doctorExitFunc(1)
	}
	return nil
}

func runDoctorChecks() (*workflows.DoctorResult, error) {
	spinner, cleanup := startSpinner("Running health checks...")
	defer cleanup()

	result, err := workflows.Doctor(context.Background())
	if err != nil {
		spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to run health checks: " + err.Error()
		return nil, reported(err)
	}

	for _, check := range result.Checks {
		Logger.Debugf("Check %s: status=%s, message=%s", check.Name, check.Status.String(), check.Message)
	}

	cleanup()

	if doctorJSONOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return result, encoder.Encode(result)
	}

	printDoctorResults(result)
	switch {
	case result.Summary.Errors > 0:
		fmt.Println(ui.Error.Sprint("✗") + " Health checks completed with errors")
	case result.Summary.Warnings > 0:
		fmt.Println(ui.Warning.Sprint("⚠") + " Health checks completed with warnings")
	default:
		fmt.Println(ui.Success.Sprint("✓") + " Health checks completed")
	}
	return result, nil
}

// printDoctorResults prints one line per check, then the counts and any
// suggestions.
func printDoctorResults(result *workflows.DoctorResult) {
	fmt.Println("Checking sdp setup for " + ui.Highlight.Sprint(configs.UserSDPSettings.Username) + "...")
	fmt.Println()

	width := 0
	for _, check := range result.Checks {
		width = max(width, len(check.Name))
	}
	for _, check := range result.Checks {
		fmt.Printf("%s %-*s  %s\n", statusIcon(check.Status), width, check.Name, check.Message)
	}

	counts := []string{fmt.Sprintf("%d passed", result.Summary.Passed)}
	if n := result.Summary.Warnings; n > 0 {
		counts = append(counts, ui.Warning.Sprintf("%d warning(s)", n))
	}
	if n := result.Summary.Errors; n > 0 {
		counts = append(counts, ui.Error.Sprintf("%d error(s)", n))
	}
	fmt.Println()
	fmt.Println("Summary: " + strings.Join(counts, ", "))

	if len(result.Suggestions) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Suggestions:")
	for _, suggestion := range result.Suggestions {
		fmt.Printf("  %s %s\n", ui.Info.Sprint("→"), suggestion)
	}
}

func statusIcon(status workflows.CheckStatus) string {
	switch status {
	case workflows.CheckWarning:
		return ui.Warning.Sprint("⚠")
	case workflows.CheckError:
		return ui.Error.Sprint("✗")
	default:
		return ui.Success.Sprint("✓")
	}
}
