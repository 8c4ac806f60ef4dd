package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter renders text in a colour, or between plain-text markers when
// colour output is off.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

func newFormatter(prefix, suffix string, attrs ...color.Attribute) Formatter {
	return Formatter{color: color.New(attrs...), prefix: prefix, suffix: suffix}
}

// Sprint formats the arguments like fmt.Sprint.
func (f Formatter) Sprint(a ...any) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats the arguments like fmt.Sprintf.
func (f Formatter) Sprintf(format string, a ...any) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline appends a newline unless s already ends with one.
func EnsureNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s
	}
	return s + "\n"
}

// noColor honours NO_COLOR (https://no-color.org/) before fatih/color's
// own terminal detection.
func noColor() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return true
	}
	return color.NoColor
}

// Without colour, Code is wrapped in backticks, Highlight in single quotes
// and Muted in parentheses. The rest print unchanged.
var (
	Code      = newFormatter("`", "`", color.FgYellow)  // runnable commands
	Path      = newFormatter("", "", color.FgYellow)    // files and directories
	Flag      = newFormatter("", "", color.FgYellow)    // --flags
	Success   = newFormatter("", "", color.FgGreen)     // ✓ and success text
	Error     = newFormatter("", "", color.FgRed)       // ✗ and failures
	Warning   = newFormatter("", "", color.FgYellow)    // ⚠ and [dry-run]
	Info      = newFormatter("", "", color.FgCyan)      // → hints
	Highlight = newFormatter("'", "'", color.FgCyan)    // key names, recipients
	Muted     = newFormatter("(", ")", color.FgHiBlack) // fingerprints, counts

	// Encrypted and Plain colour the status column of sdp check.
	Encrypted = newFormatter("", "", color.FgGreen, color.Bold)
	Plain     = newFormatter("", "", color.FgYellow)
)

// Status returns the check status word for a file.
func Status(encrypted bool) string {
	if encrypted {
		return Encrypted.Sprint("ENCRYPTED")
	}
	return Plain.Sprint("NOT ENCRYPTED")
}
