package sdp

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"hash"
	"io"

	sderrors "github.com/PolarWolf314/sdp/internal/errors"
)

// State is the position of a chunk stream in its lifecycle.
type State int

const (
	// Streaming means more chunks may follow.
	Streaming State = iota
	// Done means every chunk has been produced and the digest is final.
	Done
	// Failed means a chunk could not be processed; the stream is unusable.
	Failed
)

func (s State) String() string {
	switch s {
	case Streaming:
		return "streaming"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var errDigestNotReady = errors.New("digest is only available once the stream is done")

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != SymmetricKeySize {
		return nil, fmt.Errorf("symmetric key must be %d bytes, got %d", SymmetricKeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

func validChunkSize(chunkSize int) error {
	if chunkSize <= 0 || chunkSize > MaxChunkSize {
		return fmt.Errorf("%w: %d is outside (0, %d]", sderrors.ErrInvalidChunkSize, chunkSize, MaxChunkSize)
	}
	return nil
}

// ChunkEncrypter reads plaintext in chunkSize pieces and seals each one.
// It is a finite, non-restartable sequence: every Next call consumes input.
type ChunkEncrypter struct {
	aead      cipher.AEAD
	src       io.Reader
	baseNonce [BaseNonceSize]byte
	plain     []byte
	sealed    []byte
	digest    hash.Hash
	index     uint64
	processed int64
	state     State
}

// NewChunkEncrypter returns an encrypter over src with its own empty digest.
func NewChunkEncrypter(key []byte, baseNonce [BaseNonceSize]byte, src io.Reader, chunkSize int) (*ChunkEncrypter, error) {
	if err := validChunkSize(chunkSize); err != nil {
		return nil, err
	}
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return &ChunkEncrypter{
		aead:      aead,
		src:       src,
		baseNonce: baseNonce,
		plain:     make([]byte, chunkSize),
		digest:    sha256.New(),
	}, nil
}

// Next returns the next chunk as ciphertext || tag, or io.EOF once the
// input is exhausted. The slice is reused by the following call.
func (e *ChunkEncrypter) Next() ([]byte, error) {
	if e.state != Streaming {
		return nil, io.EOF
	}

	n, err := io.ReadFull(e.src, e.plain)
	switch {
	case err == io.EOF:
		e.state = Done
		return nil, io.EOF
	case err == io.ErrUnexpectedEOF:
		// Short final chunk; the next read reports io.EOF.
	case err != nil:
		return nil, fmt.Errorf("reading chunk %d: %w", e.index, err)
	}

	if e.index >= MaxChunks {
		return nil, sderrors.ErrTooManyChunks
	}

	plain := e.plain[:n]
	e.digest.Write(plain)

	nonce := ChunkNonce(e.baseNonce, uint32(e.index))
	e.sealed = e.aead.Seal(e.sealed[:0], nonce[:], plain, nil)

	e.index++
	e.processed += int64(n)
	return e.sealed, nil
}

// State returns Streaming until the input is exhausted, then Done.
func (e *ChunkEncrypter) State() State { return e.state }

// Chunks returns how many chunks have been produced.
func (e *ChunkEncrypter) Chunks() int { return int(e.index) }

// Processed returns the plaintext bytes consumed so far.
func (e *ChunkEncrypter) Processed() int64 { return e.processed }

// Digest returns the SHA-256 of all plaintext. It fails before Done.
func (e *ChunkEncrypter) Digest() ([]byte, error) {
	if e.state != Done {
		return nil, errDigestNotReady
	}
	return e.digest.Sum(nil), nil
}

// ChunkDecrypter opens a known number of length-prefixed chunks from src.
// The first failure is terminal: the stream moves to Failed and keeps
// returning the same error.
type ChunkDecrypter struct {
	aead      cipher.AEAD
	src       io.Reader
	baseNonce [BaseNonceSize]byte
	total     int
	maxLen    int
	sealed    []byte
	plain     []byte
	digest    hash.Hash
	index     int
	processed int64
	state     State
	err       error
}

// NewChunkDecrypter returns a decrypter for total chunks of at most maxLen
// ciphertext bytes each. total must come from the container layout, not
// from header metadata.
func NewChunkDecrypter(key []byte, baseNonce [BaseNonceSize]byte, src io.Reader, total, maxLen int) (*ChunkDecrypter, error) {
	if total < 0 || uint64(total) > MaxChunks {
		return nil, fmt.Errorf("%w: %d", sderrors.ErrTooManyChunks, total)
	}
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	d := &ChunkDecrypter{
		aead:      aead,
		src:       src,
		baseNonce: baseNonce,
		total:     total,
		maxLen:    maxLen,
		digest:    sha256.New(),
	}
	if total == 0 {
		d.state = Done
	}
	return d, nil
}

// Next returns the plaintext of the next chunk, or io.EOF after the last one.
// The slice is reused by the following call.
func (d *ChunkDecrypter) Next() ([]byte, error) {
	switch d.state {
	case Failed:
		return nil, d.err
	case Done:
		return nil, io.EOF
	}

	sealed, err := ReadChunk(d.src, d.sealed, d.maxLen)
	if err != nil {
		return nil, d.fail(sderrors.Chunk(d.index, err))
	}
	d.sealed = sealed

	nonce := ChunkNonce(d.baseNonce, uint32(d.index))
	plain, err := d.aead.Open(d.plain[:0], nonce[:], sealed, nil)
	if err != nil {
		return nil, d.fail(sderrors.Chunk(d.index, fmt.Errorf("%w: %v", sderrors.ErrAuthenticationFailure, err)))
	}
	d.plain = plain

	d.digest.Write(plain)
	d.index++
	d.processed += int64(len(plain))
	if d.index == d.total {
		d.state = Done
	}
	return plain, nil
}

func (d *ChunkDecrypter) fail(err error) error {
	d.state = Failed
	d.err = err
	return err
}

// State returns the current lifecycle state.
func (d *ChunkDecrypter) State() State { return d.state }

// Chunks returns how many chunks have been opened.
func (d *ChunkDecrypter) Chunks() int { return d.index }

// Processed returns the plaintext bytes recovered so far.
func (d *ChunkDecrypter) Processed() int64 { return d.processed }

// Digest returns the SHA-256 of all recovered plaintext. It fails before Done.
func (d *ChunkDecrypter) Digest() ([]byte, error) {
	if d.state != Done {
		return nil, errDigestNotReady
	}
	return d.digest.Sum(nil), nil
}

// Verify compares the recovered plaintext digest with a footer.
func (d *ChunkDecrypter) Verify(footer []byte) error {
	sum, err := d.Digest()
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(sum, footer) != 1 {
		return sderrors.ErrDigestMismatch
	}
	return nil
}
