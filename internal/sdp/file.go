package sdp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	sderrors "github.com/PolarWolf314/sdp/internal/errors"
)

// Extension is appended to encrypted file names.
const Extension = ".sdp"

// EncryptOptions configures EncryptFile.
type EncryptOptions struct {
	// OutputPath overrides the output location entirely.
	OutputPath string

	// OutputDir places <input name>.sdp in this directory. Defaults to the
	// input's directory.
	OutputDir string

	ChunkSize int
	Random    io.Reader
	Progress  ProgressFunc
}

// EncryptResult describes a container written by EncryptFile.
type EncryptResult struct {
	OutputPath    string
	Header        *Header
	Chunks        int
	OriginalSize  int64
	EncryptedSize int64
	Digest        []byte
}

// EncryptFile encrypts inputPath for recipientPublicKey. The container is
// written to a temporary file next to the output and renamed into place, so
// a failed encryption leaves nothing behind.
func EncryptFile(ctx context.Context, inputPath string, recipientPublicKey []byte, opts EncryptOptions) (*EncryptResult, error) {
	in, info, err := openRegular(inputPath)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	outputPath := opts.OutputPath
	if outputPath == "" {
		dir := opts.OutputDir
		if dir == "" {
			dir = filepath.Dir(inputPath)
		}
		outputPath = filepath.Join(dir, filepath.Base(inputPath)+Extension)
	}
	if sameFile(inputPath, outputPath) {
		return nil, fmt.Errorf("output %s would overwrite the input", outputPath)
	}

	var summary *EncryptSummary
	err = writeAtomically(outputPath, ".sdp-encrypt-*", func(out io.Writer) error {
		var err error
		summary, err = Encrypt(ctx, out, in, recipientPublicKey, EncryptParams{
			Filename:  filepath.Base(inputPath),
			FileSize:  info.Size(),
			ChunkSize: opts.ChunkSize,
			Random:    opts.Random,
			Progress:  opts.Progress,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return &EncryptResult{
		OutputPath:    outputPath,
		Header:        summary.Header,
		Chunks:        summary.Chunks,
		OriginalSize:  info.Size(),
		EncryptedSize: summary.BytesWritten,
		Digest:        summary.Digest,
	}, nil
}

// DecryptOptions configures DecryptFile.
type DecryptOptions struct {
	// OutputDir defaults to the container's directory.
	OutputDir string

	Progress ProgressFunc
}

// DecryptResult describes a file recovered by DecryptFile.
type DecryptResult struct {
	OutputPath   string
	Verified     bool
	Header       *Header
	Chunks       int
	BytesWritten int64
	SizeMismatch bool
}

// DecryptFile decrypts inputPath with recipientPrivateKey. The plaintext is
// named after the header's filename (reduced to its base name) and gets a
// numeric suffix when that name is taken. Nothing is left in OutputDir
// unless every chunk authenticated and the footer digest matched.
func DecryptFile(ctx context.Context, inputPath string, recipientPrivateKey []byte, opts DecryptOptions) (*DecryptResult, error) {
	in, info, err := openRegular(inputPath)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(inputPath)
	}
	if err := os.MkdirAll(outputDir, 0700); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	tmp, err := os.CreateTemp(outputDir, ".sdp-decrypt-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary output: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	summary, err := Decrypt(ctx, tmp, in, info.Size(), recipientPrivateKey, DecryptParams{Progress: opts.Progress})
	if err != nil {
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing decrypted output: %w", err)
	}

	outputPath := PlannedOutputPath(inputPath, summary.Header.Filename, outputDir)
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		return nil, fmt.Errorf("moving decrypted output to %s: %w", outputPath, err)
	}
	committed = true

	return &DecryptResult{
		OutputPath:   outputPath,
		Verified:     true,
		Header:       summary.Header,
		Chunks:       summary.Chunks,
		BytesWritten: summary.BytesWritten,
		SizeMismatch: summary.SizeMismatch,
	}, nil
}

// ProbeResult is the outcome of ProbeFile.
type ProbeResult struct {
	IsEncrypted bool      `json:"is_encrypted"`
	Metadata    *Metadata `json:"metadata,omitempty"`
}

// ProbeFile classifies path without decrypting it.
func ProbeFile(path string) ProbeResult {
	m := Describe(path)
	return ProbeResult{IsEncrypted: m != nil, Metadata: m}
}

func openRegular(p string) (*os.File, fs.FileInfo, error) {
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: %s", sderrors.ErrFileNotFound, p)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", p, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("reading file info of %s: %w", p, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, fmt.Errorf("%s is not a regular file", p)
	}
	return f, info, nil
}

// writeAtomically runs write against a temporary file in the directory of
// target and renames it over target on success.
func writeAtomically(target, pattern string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("creating temporary output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("moving output to %s: %w", target, err)
	}
	return nil
}

// PlannedOutputPath returns where DecryptFile would place the plaintext of
// inputPath given the filename its header records.
func PlannedOutputPath(inputPath, headerName, outputDir string) string {
	if outputDir == "" {
		outputDir = filepath.Dir(inputPath)
	}
	return availablePath(filepath.Join(outputDir, outputName(headerName, inputPath)))
}

// outputName reduces an untrusted header filename to a single path element.
func outputName(headerName, inputPath string) string {
	name := path.Base(strings.ReplaceAll(headerName, `\`, "/"))
	if name == "." || name == "/" || name == ".." || name == "" {
		name = strings.TrimSuffix(filepath.Base(inputPath), Extension)
	}
	return name
}

// availablePath returns p, or p with _1, _2, ... inserted before the
// extension when p already exists.
func availablePath(p string) string {
	if _, err := os.Lstat(p); errors.Is(err, fs.ErrNotExist) {
		return p
	}
	ext := filepath.Ext(p)
	stem := strings.TrimSuffix(p, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, err := os.Lstat(candidate); errors.Is(err, fs.ErrNotExist) {
			return candidate
		}
	}
}

func sameFile(a, b string) bool {
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}
