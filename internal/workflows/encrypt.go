package workflows

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PolarWolf314/sdp/internal/audit"
	"github.com/PolarWolf314/sdp/internal/configs"
	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	"github.com/PolarWolf314/sdp/internal/keys"
	"github.com/PolarWolf314/sdp/internal/sdp"
	"github.com/PolarWolf314/sdp/internal/utils"
)

// FileProgress reports progress for one file of a batch.
type FileProgress func(path string, done, total int64)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	// FilePatterns are paths, directories or doublestar globs.
	FilePatterns []string

	// Recursive descends into subdirectories of directory arguments.
	Recursive bool

	// Recipient names a stored key. If empty, keys.default_recipient is used.
	Recipient string

	// PublicKeyPath reads the recipient key from a file instead of the store.
	PublicKeyPath string

	// OutputDir overrides encrypt.output_dir. Empty keeps each container
	// next to its source.
	OutputDir string

	// ChunkSize overrides encrypt.chunk_size when non-zero.
	ChunkSize int64

	// DryRun previews which files would be encrypted without making changes.
	DryRun bool

	Progress FileProgress
}

// EncryptedFile describes one container written by Encrypt.
type EncryptedFile struct {
	Source        string `json:"source"`
	Output        string `json:"output"`
	Chunks        int    `json:"chunks"`
	OriginalSize  int64  `json:"original_size"`
	EncryptedSize int64  `json:"encrypted_size"`
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	// Files lists the containers created, in argument order.
	Files []EncryptedFile

	// Skipped lists inputs that already are containers.
	Skipped []string

	// Missing lists literal arguments that do not exist.
	Missing []string

	Recipient   string
	Fingerprint string
	ChunkSize   int64
	DryRun      bool
}

// Encrypt seals every matched file for one recipient.
//
// Inputs that already are containers are skipped rather than wrapped twice.
// On failure the returned result lists the files completed before it.
//
// Returns ErrNoFilesFound if no argument matched a file.
// Returns ErrNoRecipient if no recipient is given or configured.
// Returns ErrKeyNotFound if the named recipient is not in the key store.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
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

	rcpt, err := resolveRecipient(keys.DefaultStore(), cfg, opts.Recipient, opts.PublicKeyPath)
	if err != nil {
		return nil, err
	}

	chunkSize := opts.ChunkSize
	if chunkSize == 0 {
		chunkSize = int64(cfg.Encrypt.ChunkSize)
	}
	if chunkSize <= 0 || chunkSize > sdp.MaxChunkSize {
		return nil, fmt.Errorf("%w: %d is outside (0, %d]", sderrors.ErrInvalidChunkSize, chunkSize, sdp.MaxChunkSize)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = cfg.Encrypt.OutputDir
	}

	result := &EncryptResult{
		Missing:     resolved.Missing,
		Recipient:   rcpt.Label,
		Fingerprint: rcpt.Fingerprint,
		ChunkSize:   chunkSize,
		DryRun:      opts.DryRun,
	}

	var sources []string
	for _, file := range resolved.Files {
		if sdp.IsContainer(file) {
			result.Skipped = append(result.Skipped, file)
			continue
		}
		sources = append(sources, file)
	}

	if opts.DryRun {
		for _, file := range sources {
			result.Files = append(result.Files, EncryptedFile{Source: file, Output: containerPath(file, outputDir)})
		}
		return result, nil
	}

	totalChunks := 0
	for _, file := range sources {
		fileOpts := sdp.EncryptOptions{
			OutputDir: outputDir,
			ChunkSize: int(chunkSize),
		}
		if opts.Progress != nil {
			fileOpts.Progress = func(done, total int64) { opts.Progress(file, done, total) }
		}

		res, err := sdp.EncryptFile(ctx, file, rcpt.PublicKey, fileOpts)
		if err != nil {
			return result, fmt.Errorf("encrypting %s: %w", file, err)
		}

		result.Files = append(result.Files, EncryptedFile{
			Source:        file,
			Output:        res.OutputPath,
			Chunks:        res.Chunks,
			OriginalSize:  res.OriginalSize,
			EncryptedSize: res.EncryptedSize,
		})
		totalChunks += res.Chunks
	}

	if len(result.Files) > 0 {
		auditEntry := audit.LogWithUser("encrypt")
		auditEntry.Files = outputs(result.Files)
		auditEntry.Key = rcpt.Label
		auditEntry.Chunks = totalChunks
		audit.Log(auditEntry)
	}

	return result, nil
}

func containerPath(source, outputDir string) string {
	if outputDir == "" {
		return source + sdp.Extension
	}
	return filepath.Join(outputDir, filepath.Base(source)+sdp.Extension)
}

func outputs(files []EncryptedFile) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Output
	}
	return paths
}
