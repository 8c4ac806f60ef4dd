package utils

import (
	"regexp"
	"strings"

	"github.com/PolarWolf314/sdp/internal/ui"
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, path := range paths {
		b.WriteString("    - ")
		b.WriteString(ui.Path.Sprint(path))
		b.WriteString("\n")
	}
	return b.String()
}

// IsValidName checks if a key name is valid (alphanumeric, hyphens, underscores).
func IsValidName(name string) bool {
	return namePattern.MatchString(name)
}
