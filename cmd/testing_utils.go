// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up test environments,
// capturing output, and running the command tree.
package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/sdp/internal/configs"
)

// setupTestEnvironment points the user settings at a temporary root and
// changes into a fresh working directory, which it returns.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	originalUserSettings := configs.UserSDPSettings

	root := t.TempDir()
	workDir := filepath.Join(root, "work")
	if err := os.MkdirAll(workDir, 0755); err != nil {
		t.Fatalf("Failed to create work directory: %v", err)
	}
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("Failed to change to work directory: %v", err)
	}

	configs.UserSDPSettings = configs.SettingsForRoot(filepath.Join(root, "user"), "testuser")
	ResetGlobalState()

	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Errorf("Failed to change to original directory: %v", err)
		}
		configs.UserSDPSettings = originalUserSettings
		ResetGlobalState()
	})

	return workDir
}

// runCLI resets command state and executes the root command with args.
func runCLI(args ...string) (string, error) {
	ResetGlobalState()
	return executeCLI(args...)
}

// executeCLI executes the root command with args without resetting state.
func executeCLI(args ...string) (string, error) {
	// A nil slice makes cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}
	RootCmd.SetArgs(args)
	return captureOutput(RootCmd.Execute)
}

// withStdin replaces os.Stdin with a file holding data for the duration of the test.
func withStdin(t *testing.T, data []byte) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("Failed to write stdin file: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open stdin file: %v", err)
	}

	originalStdin := os.Stdin
	os.Stdin = f
	t.Cleanup(func() {
		os.Stdin = originalStdin
		f.Close()
	})
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Channel to collect output
	outputChan := make(chan string, 2)

	// Start goroutines to read from pipes
	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	// Collect output
	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}
