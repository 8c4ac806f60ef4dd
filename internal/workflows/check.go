package workflows

import (
	"context"
	"sort"

	"github.com/PolarWolf314/sdp/internal/sdp"
	"github.com/PolarWolf314/sdp/internal/utils"
)

// CheckOptions configures the check workflow.
type CheckOptions struct {
	// Paths are files or doublestar globs. If empty, Dir is listed.
	Paths []string

	// Dir is listed when no paths are given. Defaults to ".".
	Dir string

	// Recursive descends into subdirectories.
	Recursive bool

	// Info attaches header metadata to every container.
	Info bool
}

// CheckedFile is the classification of one file.
type CheckedFile struct {
	Path      string        `json:"path"`
	Encrypted bool          `json:"encrypted"`
	Metadata  *sdp.Metadata `json:"metadata,omitempty"`
}

// CheckReport contains the outcome of a check operation.
type CheckReport struct {
	Files   []CheckedFile `json:"files"`
	Missing []string      `json:"missing,omitempty"`

	Encrypted int `json:"encrypted"`
	Total     int `json:"total"`

	// Listing is set when a directory was scanned instead of explicit paths.
	// Listed files are ordered encrypted first.
	Listing bool `json:"-"`
}

// Check classifies files as containers or not without decrypting anything.
// Unreadable and malformed files are reported as not encrypted.
func Check(ctx context.Context, opts CheckOptions) (*CheckReport, error) {
	patterns := opts.Paths
	listing := len(patterns) == 0
	if listing {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		patterns = []string{dir}
	}

	resolved, err := utils.ResolvePatterns(patterns, opts.Recursive)
	if err != nil {
		return nil, err
	}

	report := &CheckReport{Missing: resolved.Missing, Listing: listing}
	for _, file := range resolved.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		probe := sdp.ProbeFile(file)
		checked := CheckedFile{Path: file, Encrypted: probe.IsEncrypted}
		if opts.Info {
			checked.Metadata = probe.Metadata
		}
		report.Files = append(report.Files, checked)
		if probe.IsEncrypted {
			report.Encrypted++
		}
	}
	report.Total = len(report.Files)

	if listing {
		sort.SliceStable(report.Files, func(i, j int) bool {
			return report.Files[i].Encrypted && !report.Files[j].Encrypted
		})
	}

	return report, nil
}
