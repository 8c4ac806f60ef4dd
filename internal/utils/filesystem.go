package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolvedPaths is the outcome of ResolvePatterns.
type ResolvedPaths struct {
	// Files are regular files, deduplicated, in argument order.
	Files []string

	// Missing are literal arguments that do not exist.
	Missing []string
}

// ResolvePatterns expands each argument into regular files. Arguments with
// glob characters are matched with doublestar so ** crosses directories, a
// directory yields its regular files (recursively if recursive is set) and
// anything else is taken literally.
func ResolvePatterns(patterns []string, recursive bool) (*ResolvedPaths, error) {
	result := &ResolvedPaths{}
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			result.Files = append(result.Files, p)
		}
	}

	for _, pattern := range patterns {
		if strings.ContainsAny(pattern, "*?[{") {
			matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
			}
			sort.Strings(matches)
			for _, m := range matches {
				if isRegular(m) {
					add(m)
				}
			}
			continue
		}

		info, err := os.Stat(pattern)
		if os.IsNotExist(err) {
			result.Missing = append(result.Missing, pattern)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", pattern, err)
		}

		if info.IsDir() {
			files, err := ListRegularFiles(pattern, recursive)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
			continue
		}
		if info.Mode().IsRegular() {
			add(pattern)
		}
	}

	return result, nil
}

// ListRegularFiles returns the regular files of dir in lexical order,
// descending into subdirectories when recursive is set.
func ListRegularFiles(dir string, recursive bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed while walking directory: %w", err)
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		// Skip irregular files such as sockets, pipes, devices, etc
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
