package workflows

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/sdp/internal/audit"
	"github.com/PolarWolf314/sdp/internal/configs"
)

// setupWorkflowEnv points every settings path at a fresh temporary root.
func setupWorkflowEnv(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	original := configs.UserSDPSettings
	configs.UserSDPSettings = configs.SettingsForRoot(root, "analyst")
	t.Cleanup(func() { configs.UserSDPSettings = original })
	return root
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return data
}

func mustGenerateKey(t *testing.T, name string) *KeyResult {
	t.Helper()
	result, err := GenerateKey(context.Background(), GenerateKeyOptions{Name: name})
	if err != nil {
		t.Fatalf("GenerateKey(%s) failed: %v", name, err)
	}
	return result
}

func auditOps(t *testing.T) []string {
	t.Helper()
	entries, err := audit.ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	var ops []string
	for _, e := range entries {
		ops = append(ops, e.Operation)
	}
	return ops
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", dir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
