package cmd

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/sdp/internal/configs"
)

func TestKeysGenerateCommand(t *testing.T) {
	setupTestEnvironment(t)

	output, err := runCLI("keys", "generate", "evidence")
	if err != nil {
		t.Fatalf("keys generate failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "This key is the default recipient") {
		t.Errorf("Expected the first key to become the default, got: %s", output)
	}

	info, err := os.Stat(filepath.Join(configs.UserSDPSettings.UserKeysPath, "evidence", "private.key"))
	if err != nil {
		t.Fatalf("Private key not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected private key mode 0600, got %o", info.Mode().Perm())
	}

	output, err = runCLI("keys", "generate", "second")
	if err != nil {
		t.Fatalf("keys generate failed: %v\n%s", err, output)
	}
	if strings.Contains(output, "This key is the default recipient") {
		t.Errorf("A second key should not replace the default, got: %s", output)
	}
}

func TestKeysGenerateCommandErrors(t *testing.T) {
	setupTestEnvironment(t)
	generateTestKey(t, "evidence")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"duplicate", []string{"keys", "generate", "evidence"}, "already exists"},
		{"invalid name", []string{"keys", "generate", "../escape"}, "Key names use letters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCLI(tt.args...)
			if err != nil {
				t.Errorf("Expected a clean exit, got: %v", err)
			}
			if !strings.Contains(output, tt.want) {
				t.Errorf("Expected %q in output, got: %s", tt.want, output)
			}
		})
	}
}

func TestKeysListCommand(t *testing.T) {
	setupTestEnvironment(t)

	output, err := runCLI("keys", "list")
	if err != nil {
		t.Fatalf("keys list failed: %v", err)
	}
	if !strings.Contains(output, "No keys stored.") {
		t.Errorf("Expected empty store message, got: %s", output)
	}

	generateTestKey(t, "bravo")
	generateTestKey(t, "alpha")

	output, err = runCLI("keys", "list", "--json")
	if err != nil {
		t.Fatalf("keys list --json failed: %v", err)
	}
	var views []keyView
	if err := json.Unmarshal([]byte(output), &views); err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, output)
	}
	if len(views) != 2 || views[0].Name != "alpha" || views[1].Name != "bravo" {
		t.Fatalf("Expected alpha and bravo in order, got %+v", views)
	}
	if views[0].Default || !views[1].Default {
		t.Errorf("Expected bravo to be the default, got %+v", views)
	}
	if len(views[0].Fingerprint) != 16 {
		t.Errorf("Expected a 16 character fingerprint, got %q", views[0].Fingerprint)
	}
}

func TestKeysShowCommand(t *testing.T) {
	setupTestEnvironment(t)

	output, err := runCLI("keys", "show")
	if err != nil {
		t.Errorf("Expected a clean exit without a default key, got: %v", err)
	}
	if !strings.Contains(output, "No recipient key specified") {
		t.Errorf("Expected recipient hint, got: %s", output)
	}

	generateTestKey(t, "evidence")

	output, err = runCLI("keys", "show", "--public")
	if err != nil {
		t.Fatalf("keys show --public failed: %v", err)
	}
	publicKey, err := base64.StdEncoding.DecodeString(strings.TrimSpace(output))
	if err != nil || len(publicKey) != 32 {
		t.Errorf("Expected a base64 32-byte public key, got %q", output)
	}

	output, err = runCLI("keys", "show", "evidence")
	if err != nil {
		t.Fatalf("keys show failed: %v", err)
	}
	for _, want := range []string{"Name:", "Fingerprint:", "Public key:", "Default:     true"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output, got: %s", want, output)
		}
	}

	output, _ = runCLI("keys", "show", "missing")
	if !strings.Contains(output, "sdp keys list") {
		t.Errorf("Expected list hint for an unknown key, got: %s", output)
	}
}

func TestKeysImportCommand(t *testing.T) {
	setupTestEnvironment(t)
	generateTestKey(t, "original")

	privateKey, err := os.ReadFile(filepath.Join(configs.UserSDPSettings.UserKeysPath, "original", "private.key"))
	if err != nil {
		t.Fatalf("Failed to read private key: %v", err)
	}
	encoded := base64.StdEncoding.EncodeToString(privateKey) + "\n"

	withStdin(t, []byte(encoded))
	output, err := runCLI("keys", "import", "copy")
	if err != nil {
		t.Fatalf("keys import failed: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Key 'copy' imported") {
		t.Errorf("Expected import message, got: %s", output)
	}

	original, err := os.ReadFile(filepath.Join(configs.UserSDPSettings.UserKeysPath, "original", "public.key"))
	if err != nil {
		t.Fatalf("Failed to read public key: %v", err)
	}
	imported, err := os.ReadFile(filepath.Join(configs.UserSDPSettings.UserKeysPath, "copy", "public.key"))
	if err != nil {
		t.Fatalf("Failed to read imported public key: %v", err)
	}
	if string(original) != string(imported) {
		t.Error("Imported key should derive the same public key")
	}
}

func TestKeysImportCommandFromFile(t *testing.T) {
	workDir := setupTestEnvironment(t)
	writeTestFile(t, filepath.Join(workDir, "bad.key"), []byte("not a key"))

	output, err := runCLI("keys", "import", "broken", "--file", "bad.key")
	if err == nil {
		t.Error("Expected an invalid key to exit non-zero")
	}
	if !strings.Contains(output, "✗") {
		t.Errorf("Expected an error marker, got: %s", output)
	}
	if _, err := os.Stat(filepath.Join(configs.UserSDPSettings.UserKeysPath, "broken")); !os.IsNotExist(err) {
		t.Error("No key directory should be created for an invalid key")
	}
}
