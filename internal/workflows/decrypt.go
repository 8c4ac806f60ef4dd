package workflows

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/sdp/internal/audit"
	"github.com/PolarWolf314/sdp/internal/configs"
	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	"github.com/PolarWolf314/sdp/internal/keys"
	"github.com/PolarWolf314/sdp/internal/sdp"
	"github.com/PolarWolf314/sdp/internal/utils"
)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	// FilePatterns are paths, directories or doublestar globs.
	FilePatterns []string

	// Recursive descends into subdirectories of directory arguments.
	Recursive bool

	// KeyName names a stored key. If empty, keys.default_recipient is used.
	KeyName string

	// PrivateKeyPath reads the private key from a file instead of the store.
	PrivateKeyPath string

	// PrivateKeyData contains the private key bytes when reading from stdin.
	// It takes precedence over every other key source.
	PrivateKeyData []byte

	// OutputDir overrides decrypt.output_dir. Empty writes each plaintext
	// next to its container.
	OutputDir string

	// DryRun previews which files would be decrypted without making changes.
	DryRun bool

	Progress FileProgress
}

// DecryptedFile describes one plaintext recovered by Decrypt.
type DecryptedFile struct {
	Source       string `json:"source"`
	Output       string `json:"output"`
	Chunks       int    `json:"chunks"`
	BytesWritten int64  `json:"bytes_written"`

	// SizeMismatch is set when the header recorded a different file size.
	SizeMismatch bool `json:"size_mismatch,omitempty"`
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	// Files lists the plaintexts recovered, in argument order.
	Files []DecryptedFile

	// Skipped lists inputs that are not containers.
	Skipped []string

	// Missing lists literal arguments that do not exist.
	Missing []string

	Key string

	// InsecureKeyMode is non-zero when the private key file is readable by
	// group or others.
	InsecureKeyMode os.FileMode
	KeyPath         string

	DryRun bool
}

// Decrypt opens every matched container with one private key.
//
// A container is only written out once every chunk authenticated and the
// footer digest matched. On failure the returned result lists the files
// completed before it.
//
// Returns ErrNoFilesFound if no argument matched a file.
// Returns ErrNoRecipient if no key is given or configured.
// Returns ErrKeyNotFound if the named key is not in the key store.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	cfg, err := configs.LoadUserConfig()
	if err != nil {
		return nil, err
	}

	resolved, err := utils.ResolvePatterns(opts.FilePatterns, opts.Recursive)
	if err != nil {
		return nil, err
	}
	if len(resolved.Files) == 0 {
		return nil, fmt.Errorf("%w: %s", sderrors.ErrNoFilesFound, strings.Join(opts.FilePatterns, ", "))
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = cfg.Decrypt.OutputDir
	}

	result := &DecryptResult{
		Missing: resolved.Missing,
		DryRun:  opts.DryRun,
	}

	var containers []string
	for _, file := range resolved.Files {
		if !sdp.IsContainer(file) {
			result.Skipped = append(result.Skipped, file)
			continue
		}
		containers = append(containers, file)
	}

	if opts.DryRun {
		for _, file := range containers {
			name := ""
			if meta := sdp.Describe(file); meta != nil {
				name = meta.Filename
			}
			result.Files = append(result.Files, DecryptedFile{
				Source: file,
				Output: sdp.PlannedOutputPath(file, name, outputDir),
			})
		}
		return result, nil
	}

	id, err := resolveIdentity(keys.DefaultStore(), cfg, opts.KeyName, opts.PrivateKeyPath, opts.PrivateKeyData)
	if err != nil {
		return nil, err
	}
	defer id.Key.Zero()

	result.Key = id.Label
	result.KeyPath = id.Key.Path
	if id.Key.InsecurePermissions {
		result.InsecureKeyMode = id.Key.Mode
	}

	totalChunks := 0
	for _, file := range containers {
		fileOpts := sdp.DecryptOptions{OutputDir: outputDir}
		if opts.Progress != nil {
			fileOpts.Progress = func(done, total int64) { opts.Progress(file, done, total) }
		}

		res, err := sdp.DecryptFile(ctx, file, id.Key.Key, fileOpts)
		if err != nil {
			return result, fmt.Errorf("decrypting %s: %w", file, err)
		}

		result.Files = append(result.Files, DecryptedFile{
			Source:       file,
			Output:       res.OutputPath,
			Chunks:       res.Chunks,
			BytesWritten: res.BytesWritten,
			SizeMismatch: res.SizeMismatch,
		})
		totalChunks += res.Chunks
	}

	if len(result.Files) > 0 {
		auditEntry := audit.LogWithUser("decrypt")
		auditEntry.Files = make([]string, len(result.Files))
		for i, f := range result.Files {
			auditEntry.Files[i] = f.Source
		}
		auditEntry.Key = id.Label
		auditEntry.Chunks = totalChunks
		audit.Log(auditEntry)
	}

	return result, nil
}
