package cmd

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckCommandFiles(t *testing.T) {
	workDir := setupTestEnvironment(t)
	generateTestKey(t, "evidence")
	writeTestFile(t, filepath.Join(workDir, "a.txt"), []byte("alpha"))
	writeTestFile(t, filepath.Join(workDir, "b.txt"), []byte("bravo"))
	if output, err := runCLI("encrypt", "a.txt"); err != nil {
		t.Fatalf("encrypt failed: %v\n%s", err, output)
	}

	output, err := runCLI("check", "a.txt.sdp", "b.txt", "gone.txt")
	if err != nil {
		t.Fatalf("check should always exit cleanly, got: %v", err)
	}

	for _, want := range []string{
		"a.txt.sdp - ENCRYPTED (.sdp format)",
		"b.txt - NOT ENCRYPTED",
		"File not found: gone.txt",
		"Summary: 1/2 files encrypted",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output:\n%s", want, output)
		}
	}
	if strings.Contains(output, "File Details:") {
		t.Errorf("Details should only be shown with --info:\n%s", output)
	}
}

func TestCheckCommandInfo(t *testing.T) {
	workDir := setupTestEnvironment(t)
	generateTestKey(t, "evidence")
	writeTestFile(t, filepath.Join(workDir, "a.txt"), []byte("alpha"))
	if output, err := runCLI("encrypt", "a.txt"); err != nil {
		t.Fatalf("encrypt failed: %v\n%s", err, output)
	}

	output, err := runCLI("check", "--info", "a.txt.sdp")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	for _, want := range []string{
		"File Details:",
		"Original filename: a.txt",
		"Original size: 5 bytes",
		"Algorithm: X25519+AES-GCM",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output:\n%s", want, output)
		}
	}
}

func TestCheckCommandListing(t *testing.T) {
	workDir := setupTestEnvironment(t)
	generateTestKey(t, "evidence")
	writeTestFile(t, filepath.Join(workDir, "plain.txt"), []byte("plain"))
	writeTestFile(t, filepath.Join(workDir, "sealed.txt"), []byte("sealed"))
	if output, err := runCLI("encrypt", "sealed.txt"); err != nil {
		t.Fatalf("encrypt failed: %v\n%s", err, output)
	}

	output, err := runCLI("check")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(output, "Checking encryption status in: "+workDir) {
		t.Errorf("Expected directory header, got:\n%s", output)
	}
	sealed := strings.Index(output, "sealed.txt.sdp")
	plain := strings.Index(output, "plain.txt")
	if sealed < 0 || plain < 0 || sealed > plain {
		t.Errorf("Expected encrypted files listed first, got:\n%s", output)
	}
	if !strings.Contains(output, "Summary: 1/3 files encrypted") {
		t.Errorf("Expected summary, got:\n%s", output)
	}
}

func TestCheckCommandMissingDirectory(t *testing.T) {
	setupTestEnvironment(t)

	output, err := runCLI("check", "--dir", "nowhere")
	if err != nil {
		t.Fatalf("check should always exit cleanly, got: %v", err)
	}
	if !strings.Contains(output, "Directory not found") {
		t.Errorf("Expected missing directory message, got:\n%s", output)
	}
}

func TestCheckCommandJSON(t *testing.T) {
	workDir := setupTestEnvironment(t)
	generateTestKey(t, "evidence")
	writeTestFile(t, filepath.Join(workDir, "a.txt"), []byte("alpha"))
	if output, err := runCLI("encrypt", "a.txt"); err != nil {
		t.Fatalf("encrypt failed: %v\n%s", err, output)
	}

	output, err := runCLI("check", "--json", "a.txt.sdp")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}

	var report struct {
		Files []struct {
			Path      string `json:"path"`
			Encrypted bool   `json:"encrypted"`
			Metadata  *struct {
				Filename string `json:"filename"`
			} `json:"metadata"`
		} `json:"files"`
		Encrypted int `json:"encrypted"`
		Total     int `json:"total"`
	}
	if err := json.Unmarshal([]byte(output), &report); err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, output)
	}
	if report.Total != 1 || report.Encrypted != 1 {
		t.Errorf("Expected 1/1 encrypted, got %d/%d", report.Encrypted, report.Total)
	}
	if len(report.Files) != 1 || report.Files[0].Metadata == nil || report.Files[0].Metadata.Filename != "a.txt" {
		t.Errorf("Expected metadata for a.txt, got %+v", report.Files)
	}
}
