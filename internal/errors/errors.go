package errors

import (
	"errors"
	"fmt"
)

// Container errors indicate the input does not follow the container layout.
var (
	// ErrMalformedContainer indicates a missing or short length prefix, a
	// truncated or undecodable header, or a missing footer.
	ErrMalformedContainer = errors.New("malformed container")

	// ErrTruncatedChunk indicates a chunk declares more bytes than the file holds.
	ErrTruncatedChunk = errors.New("truncated chunk")

	// ErrTooManyChunks indicates the input needs more chunks than the 4-byte
	// nonce index can address.
	ErrTooManyChunks = errors.New("too many chunks for the nonce space")

	// ErrInvalidChunkSize indicates a chunk size outside the supported range.
	ErrInvalidChunkSize = errors.New("invalid chunk size")
)

// Integrity errors indicate tampering, corruption or a key mismatch.
var (
	// ErrAuthenticationFailure indicates an AES-GCM tag did not verify.
	ErrAuthenticationFailure = errors.New("chunk authentication failed")

	// ErrDigestMismatch indicates the plaintext digest does not match the footer.
	ErrDigestMismatch = errors.New("plaintext digest does not match footer")
)

// Cryptographic errors indicate failures handling key material.
var (
	// ErrEntropyFailure indicates the random source could not produce bytes.
	ErrEntropyFailure = errors.New("entropy source failure")

	// ErrInvalidKey indicates a key is not 32 bytes or is a low-order point.
	ErrInvalidKey = errors.New("invalid X25519 key")
)

// Key store errors.
var (
	// ErrKeyNotFound indicates no key with the requested name exists.
	ErrKeyNotFound = errors.New("key not found")

	// ErrKeyExists indicates a key with the requested name already exists.
	ErrKeyExists = errors.New("key already exists")

	// ErrInvalidKeyName indicates a key name contains unsupported characters.
	ErrInvalidKeyName = errors.New("invalid key name")

	// ErrNoRecipient indicates no key was named and no default is configured.
	ErrNoRecipient = errors.New("no recipient key specified")

	// ErrStdinIsTerminal indicates a key was requested on stdin but nothing was piped.
	ErrStdinIsTerminal = errors.New("stdin is a terminal")
)

// File errors.
var (
	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrNotContainer indicates a file is not in the container format.
	ErrNotContainer = errors.New("file is not an sdp container")

	// ErrNoFilesFound indicates no files matched the given paths or patterns.
	ErrNoFilesFound = errors.New("no files found")
)

// Configuration errors.
var (
	// ErrInvalidConfig indicates the config file holds unusable values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConfigExists indicates config init would overwrite an existing file.
	ErrConfigExists = errors.New("configuration already exists")

	// ErrInvalidDateFormat indicates a date filter is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")
)

// ChunkError records which chunk of a container failed.
type ChunkError struct {
	Index int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Index, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}

// Chunk wraps err with the index of the chunk it happened in.
func Chunk(index int, err error) error {
	return &ChunkError{Index: index, Err: err}
}
