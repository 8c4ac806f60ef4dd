package sdp

import (
	"bufio"
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"time"

	sderrors "github.com/PolarWolf314/sdp/internal/errors"
)

const ioBufferSize = 64 * 1024

// ProgressFunc receives the plaintext bytes processed so far and the
// expected total. It is called once per chunk.
type ProgressFunc func(done, total int64)

// EncryptParams configures a stream encryption.
type EncryptParams struct {
	// Filename is recorded in the header as the original file name.
	Filename string

	// FileSize is the exact number of plaintext bytes src will yield.
	FileSize int64

	// ChunkSize defaults to DefaultChunkSize.
	ChunkSize int

	// Random defaults to crypto/rand. It supplies the ephemeral key, salt
	// and base nonce.
	Random io.Reader

	// Now defaults to time.Now and stamps the header.
	Now func() time.Time

	Progress ProgressFunc
}

// EncryptSummary describes a finished encryption.
type EncryptSummary struct {
	Header       *Header
	Chunks       int
	Digest       []byte
	BytesWritten int64
}

// Encrypt writes a complete container for recipientPublicKey to dst.
// The context is checked between chunks.
func Encrypt(ctx context.Context, dst io.Writer, src io.Reader, recipientPublicKey []byte, p EncryptParams) (*EncryptSummary, error) {
	if len(recipientPublicKey) != KeySize {
		return nil, fmt.Errorf("%w: recipient public key must be %d bytes, got %d", sderrors.ErrInvalidKey, KeySize, len(recipientPublicKey))
	}
	if p.ChunkSize == 0 {
		p.ChunkSize = DefaultChunkSize
	}
	if err := validChunkSize(p.ChunkSize); err != nil {
		return nil, err
	}
	if p.FileSize < 0 {
		return nil, fmt.Errorf("file size must not be negative, got %d", p.FileSize)
	}
	if chunks := (p.FileSize + int64(p.ChunkSize) - 1) / int64(p.ChunkSize); uint64(chunks) > MaxChunks {
		return nil, fmt.Errorf("%w: %d chunks needed", sderrors.ErrTooManyChunks, chunks)
	}
	random := p.Random
	if random == nil {
		random = rand.Reader
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}

	ephemeral, err := GenerateKeyPair(random)
	if err != nil {
		return nil, err
	}
	defer ephemeral.Zero()

	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(random, salt); err != nil {
		return nil, fmt.Errorf("%w: salt: %v", sderrors.ErrEntropyFailure, err)
	}
	var baseNonce [BaseNonceSize]byte
	if _, err := io.ReadFull(random, baseNonce[:]); err != nil {
		return nil, fmt.Errorf("%w: base nonce: %v", sderrors.ErrEntropyFailure, err)
	}

	shared, err := Agree(ephemeral.PrivateKey[:], recipientPublicKey)
	if err != nil {
		return nil, err
	}
	defer clear(shared)

	key, err := DeriveKey(shared, salt, KDFInfo)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	header := NewHeader(p.Filename, p.FileSize, ephemeral.PublicKey[:], salt, baseNonce, p.ChunkSize, now())

	counter := &countingWriter{w: dst}
	out := bufio.NewWriterSize(counter, ioBufferSize)
	if err := WriteHeader(out, header); err != nil {
		return nil, err
	}

	enc, err := NewChunkEncrypter(key, baseNonce, src, p.ChunkSize)
	if err != nil {
		return nil, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sealed, err := enc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := WriteChunk(out, sealed); err != nil {
			return nil, fmt.Errorf("writing chunk %d: %w", enc.Chunks()-1, err)
		}
		if p.Progress != nil {
			p.Progress(enc.Processed(), p.FileSize)
		}
	}

	if enc.Processed() != p.FileSize {
		return nil, fmt.Errorf("source changed during encryption: header records %d bytes, read %d", p.FileSize, enc.Processed())
	}

	digest, err := enc.Digest()
	if err != nil {
		return nil, err
	}
	if err := WriteFooter(out, digest); err != nil {
		return nil, err
	}
	if err := out.Flush(); err != nil {
		return nil, fmt.Errorf("flushing container: %w", err)
	}

	return &EncryptSummary{
		Header:       header,
		Chunks:       enc.Chunks(),
		Digest:       digest,
		BytesWritten: counter.n,
	}, nil
}

// DecryptParams configures a stream decryption.
type DecryptParams struct {
	Progress ProgressFunc
}

// DecryptSummary describes a verified decryption.
type DecryptSummary struct {
	Header       *Header
	Chunks       int
	Digest       []byte
	BytesWritten int64

	// SizeMismatch is set when the header's file_size disagrees with the
	// recovered byte count. The digest still verified.
	SizeMismatch bool
}

// Decrypt recovers the plaintext of the size-byte container in src and
// writes it to dst. Plaintext reaches dst chunk by chunk before the footer
// is checked, so on any error the bytes already written must be discarded.
func Decrypt(ctx context.Context, dst io.Writer, src io.ReaderAt, size int64, recipientPrivateKey []byte, p DecryptParams) (*DecryptSummary, error) {
	if len(recipientPrivateKey) != KeySize {
		return nil, fmt.Errorf("%w: recipient private key must be %d bytes, got %d", sderrors.ErrInvalidKey, KeySize, len(recipientPrivateKey))
	}

	raw, err := ReadHeader(io.NewSectionReader(src, 0, size))
	if err != nil {
		return nil, err
	}
	header, err := ParseHeader(raw)
	if err != nil {
		return nil, err
	}
	hk, err := header.keys()
	if err != nil {
		return nil, err
	}

	bodyStart := int64(LengthPrefixSize + len(raw))
	bodyEnd := size - FooterSize
	if bodyEnd < bodyStart {
		return nil, fmt.Errorf("%w: missing footer", sderrors.ErrMalformedContainer)
	}

	maxLen := header.ChunkSize + TagSize
	total, err := CountChunks(src, bodyStart, bodyEnd-bodyStart, maxLen)
	if err != nil {
		return nil, err
	}

	shared, err := Agree(recipientPrivateKey, hk.ephemeralPublicKey)
	if err != nil {
		return nil, err
	}
	defer clear(shared)

	key, err := DeriveKey(shared, hk.salt, KDFInfo)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	body := bufio.NewReaderSize(io.NewSectionReader(src, bodyStart, bodyEnd-bodyStart), ioBufferSize)
	dec, err := NewChunkDecrypter(key, hk.baseNonce, body, total, maxLen)
	if err != nil {
		return nil, err
	}

	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		plain, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		n, err := dst.Write(plain)
		written += int64(n)
		if err != nil {
			return nil, fmt.Errorf("writing plaintext of chunk %d: %w", dec.Chunks()-1, err)
		}
		if p.Progress != nil {
			p.Progress(dec.Processed(), header.FileSize)
		}
	}

	footer := make([]byte, FooterSize)
	if n, err := src.ReadAt(footer, bodyEnd); n < FooterSize {
		return nil, fmt.Errorf("%w: reading footer: %v", sderrors.ErrMalformedContainer, err)
	}
	if err := dec.Verify(footer); err != nil {
		return nil, err
	}

	digest, _ := dec.Digest()
	return &DecryptSummary{
		Header:       header,
		Chunks:       dec.Chunks(),
		Digest:       digest,
		BytesWritten: written,
		SizeMismatch: header.HasFileSize() && header.FileSize != written,
	}, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
