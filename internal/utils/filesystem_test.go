package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// makeTree creates files (paths relative to root) with placeholder content.
func makeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", f, err)
		}
		if err := os.WriteFile(p, []byte(f), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", f, err)
		}
	}
}

func TestResolvePatterns(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "a.txt", "b.sdp", "case/c.sdp", "case/deep/d.sdp", "case/deep/e.txt")

	t.Run("LiteralFiles", func(t *testing.T) {
		got, err := ResolvePatterns([]string{filepath.Join(root, "a.txt"), filepath.Join(root, "a.txt")}, false)
		if err != nil {
			t.Fatalf("ResolvePatterns failed: %v", err)
		}
		want := []string{filepath.Join(root, "a.txt")}
		if !reflect.DeepEqual(got.Files, want) {
			t.Errorf("Expected %v, got %v", want, got.Files)
		}
	})

	t.Run("DoublestarGlob", func(t *testing.T) {
		got, err := ResolvePatterns([]string{filepath.Join(root, "**", "*.sdp")}, false)
		if err != nil {
			t.Fatalf("ResolvePatterns failed: %v", err)
		}
		want := []string{
			filepath.Join(root, "b.sdp"),
			filepath.Join(root, "case", "c.sdp"),
			filepath.Join(root, "case", "deep", "d.sdp"),
		}
		if !reflect.DeepEqual(got.Files, want) {
			t.Errorf("Expected %v, got %v", want, got.Files)
		}
	})

	t.Run("DirectoryShallow", func(t *testing.T) {
		got, err := ResolvePatterns([]string{filepath.Join(root, "case")}, false)
		if err != nil {
			t.Fatalf("ResolvePatterns failed: %v", err)
		}
		want := []string{filepath.Join(root, "case", "c.sdp")}
		if !reflect.DeepEqual(got.Files, want) {
			t.Errorf("Expected %v, got %v", want, got.Files)
		}
	})

	t.Run("DirectoryRecursive", func(t *testing.T) {
		got, err := ResolvePatterns([]string{filepath.Join(root, "case")}, true)
		if err != nil {
			t.Fatalf("ResolvePatterns failed: %v", err)
		}
		if len(got.Files) != 3 {
			t.Errorf("Expected 3 files, got %v", got.Files)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		missing := filepath.Join(root, "nope.sdp")
		got, err := ResolvePatterns([]string{missing}, false)
		if err != nil {
			t.Fatalf("ResolvePatterns failed: %v", err)
		}
		if len(got.Files) != 0 || !reflect.DeepEqual(got.Missing, []string{missing}) {
			t.Errorf("Expected only a missing entry, got %+v", got)
		}
	})

	t.Run("GlobWithoutMatches", func(t *testing.T) {
		got, err := ResolvePatterns([]string{filepath.Join(root, "*.pdf")}, false)
		if err != nil {
			t.Fatalf("ResolvePatterns failed: %v", err)
		}
		if len(got.Files) != 0 || len(got.Missing) != 0 {
			t.Errorf("Expected nothing, got %+v", got)
		}
	})
}
