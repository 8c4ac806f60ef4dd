package sdp

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	sderrors "github.com/PolarWolf314/sdp/internal/errors"
)

const (
	// Version is written into every new header.
	Version = "1.0"

	// Algorithm identifies the key agreement and cipher suite.
	Algorithm = "X25519+AES-GCM"

	// DefaultChunkSize is the plaintext size of every chunk but the last.
	DefaultChunkSize = 10 * 1024 * 1024

	// MaxChunkSize bounds the chunk buffer on both ends of the pipeline.
	MaxChunkSize = 256 * 1024 * 1024

	// LengthPrefixSize is the size of the header and chunk length prefixes.
	LengthPrefixSize = 4

	// TagSize is the AES-GCM authentication tag appended to each chunk.
	TagSize = 16

	// FooterSize is the SHA-256 digest written after the last chunk.
	FooterSize = sha256.Size

	// MaxHeaderSize bounds the header region.
	MaxHeaderSize = 1 << 20

	// TimestampLayout is ISO-8601 UTC with microseconds and a trailing Z.
	TimestampLayout = "2006-01-02T15:04:05.000000Z"
)

// Header fields required before decryption can start.
var decryptFields = []string{"filename", "ephemeral_public_key", "salt", "base_nonce", "chunk_size"}

// Header is the JSON metadata at the start of a container.
// Field order and names are part of the wire format.
type Header struct {
	Version            string `json:"version"`
	Filename           string `json:"filename"`
	FileSize           int64  `json:"file_size"`
	Timestamp          string `json:"timestamp"`
	EphemeralPublicKey string `json:"ephemeral_public_key"`
	Salt               string `json:"salt"`
	BaseNonce          string `json:"base_nonce"`
	ChunkSize          int    `json:"chunk_size"`
	Algorithm          string `json:"algorithm"`

	// TotalChunks is only present in headers from the 2.0 encoder and is
	// informational. The decrypter never trusts it.
	TotalChunks int64 `json:"total_chunks,omitempty"`

	hasFileSize bool
}

// NewHeader builds a version 1.0 header.
func NewHeader(filename string, fileSize int64, ephemeralPublicKey, salt []byte, baseNonce [BaseNonceSize]byte, chunkSize int, now time.Time) *Header {
	return &Header{
		Version:            Version,
		Filename:           filename,
		FileSize:           fileSize,
		Timestamp:          now.UTC().Format(TimestampLayout),
		EphemeralPublicKey: base64.StdEncoding.EncodeToString(ephemeralPublicKey),
		Salt:               base64.StdEncoding.EncodeToString(salt),
		BaseNonce:          base64.StdEncoding.EncodeToString(baseNonce[:]),
		ChunkSize:          chunkSize,
		Algorithm:          Algorithm,
		hasFileSize:        true,
	}
}

// HasFileSize reports whether the header carried a file_size field.
func (h *Header) HasFileSize() bool {
	return h.hasFileSize
}

// Marshal encodes the header as compact JSON without HTML escaping.
// The result is pure ASCII: every non-ASCII rune is written as a lowercase
// \uXXXX escape, using a UTF-16 surrogate pair above U+FFFF, so headers
// written here are byte-identical to those of other implementations.
func (h *Header) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(h); err != nil {
		return nil, fmt.Errorf("encoding header: %w", err)
	}
	return escapeNonASCII(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// escapeNonASCII rewrites non-ASCII runes of encoded JSON as \u escapes.
// Non-ASCII bytes only ever appear inside string literals.
func escapeNonASCII(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		if data[0] < utf8.RuneSelf {
			out = append(out, data[0])
			data = data[1:]
			continue
		}
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			out = fmt.Appendf(out, `\u%04x\u%04x`, hi, lo)
			continue
		}
		out = fmt.Appendf(out, `\u%04x`, r)
	}
	return out
}

// headerKeys holds the decoded binary fields of a header.
type headerKeys struct {
	ephemeralPublicKey []byte
	salt               []byte
	baseNonce          [BaseNonceSize]byte
}

func (h *Header) keys() (*headerKeys, error) {
	pub, err := decodeField("ephemeral_public_key", h.EphemeralPublicKey, KeySize)
	if err != nil {
		return nil, err
	}
	salt, err := decodeField("salt", h.Salt, SaltSize)
	if err != nil {
		return nil, err
	}
	nonce, err := decodeField("base_nonce", h.BaseNonce, BaseNonceSize)
	if err != nil {
		return nil, err
	}

	k := &headerKeys{ephemeralPublicKey: pub, salt: salt}
	copy(k.baseNonce[:], nonce)
	return k, nil
}

func decodeField(name, value string, size int) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid base64: %v", sderrors.ErrMalformedContainer, name, err)
	}
	if len(raw) != size {
		return nil, fmt.Errorf("%w: %s must decode to %d bytes, got %d", sderrors.ErrMalformedContainer, name, size, len(raw))
	}
	return raw, nil
}

// decodeHeaderObject decodes raw header bytes into a field map.
func decodeHeaderObject(data []byte) (map[string]json.RawMessage, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: header is not valid UTF-8", sderrors.ErrMalformedContainer)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: header is not a JSON object: %v", sderrors.ErrMalformedContainer, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: header is null", sderrors.ErrMalformedContainer)
	}
	return fields, nil
}

func missingField(fields map[string]json.RawMessage, required []string) (string, bool) {
	for _, name := range required {
		if _, ok := fields[name]; !ok {
			return name, true
		}
	}
	return "", false
}

// ParseHeader decodes header bytes and checks the fields decryption needs.
func ParseHeader(data []byte) (*Header, error) {
	fields, err := decodeHeaderObject(data)
	if err != nil {
		return nil, err
	}
	if name, missing := missingField(fields, decryptFields); missing {
		return nil, fmt.Errorf("%w: missing required header field %q", sderrors.ErrMalformedContainer, name)
	}

	h := &Header{}
	if err := json.Unmarshal(data, h); err != nil {
		return nil, fmt.Errorf("%w: %v", sderrors.ErrMalformedContainer, err)
	}
	_, h.hasFileSize = fields["file_size"]

	if h.ChunkSize <= 0 || h.ChunkSize > MaxChunkSize {
		return nil, fmt.Errorf("%w: chunk_size %d out of range", sderrors.ErrMalformedContainer, h.ChunkSize)
	}
	return h, nil
}

// WriteHeader writes the length-prefixed compact JSON header.
func WriteHeader(w io.Writer, h *Header) error {
	data, err := h.Marshal()
	if err != nil {
		return err
	}
	if len(data) > MaxHeaderSize {
		return fmt.Errorf("header is %d bytes, limit is %d", len(data), MaxHeaderSize)
	}
	if err := writePrefixed(w, data); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}

// ReadHeader reads the length-prefixed header and returns its raw JSON bytes.
func ReadHeader(r io.Reader) ([]byte, error) {
	var prefix [LengthPrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, fmt.Errorf("%w: missing header length", sderrors.ErrMalformedContainer)
	}

	n := binary.BigEndian.Uint32(prefix[:])
	if n > MaxHeaderSize {
		return nil, fmt.Errorf("%w: header length %d exceeds %d", sderrors.ErrMalformedContainer, n, MaxHeaderSize)
	}

	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: incomplete header", sderrors.ErrMalformedContainer)
	}
	return data, nil
}

// WriteChunk writes one length-prefixed ciphertext chunk.
func WriteChunk(w io.Writer, ciphertext []byte) error {
	return writePrefixed(w, ciphertext)
}

// ReadChunk reads one length-prefixed chunk into buf, growing it when needed.
// Chunks longer than maxLen are rejected before any body bytes are read.
func ReadChunk(r io.Reader, buf []byte, maxLen int) ([]byte, error) {
	var prefix [LengthPrefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, fmt.Errorf("%w: missing chunk length", sderrors.ErrMalformedContainer)
	}

	n := int64(binary.BigEndian.Uint32(prefix[:]))
	if n > int64(maxLen) {
		return nil, fmt.Errorf("%w: chunk length %d exceeds %d", sderrors.ErrMalformedContainer, n, maxLen)
	}

	if int64(cap(buf)) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	if got, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", sderrors.ErrTruncatedChunk, n, got)
	}
	return buf, nil
}

// WriteFooter writes the raw plaintext digest.
func WriteFooter(w io.Writer, digest []byte) error {
	if len(digest) != FooterSize {
		return fmt.Errorf("footer must be %d bytes, got %d", FooterSize, len(digest))
	}
	if _, err := w.Write(digest); err != nil {
		return fmt.Errorf("writing footer: %w", err)
	}
	return nil
}

// CountChunks walks the chunk length prefixes of the body region
// [offset, offset+length) without reading chunk bodies.
func CountChunks(r io.ReaderAt, offset, length int64, maxLen int) (int, error) {
	var (
		prefix [LengthPrefixSize]byte
		pos    int64
		count  int
	)
	for pos < length {
		if length-pos < LengthPrefixSize {
			return count, sderrors.Chunk(count, fmt.Errorf("%w: %d stray bytes before footer", sderrors.ErrMalformedContainer, length-pos))
		}
		if n, err := r.ReadAt(prefix[:], offset+pos); n < LengthPrefixSize {
			return count, sderrors.Chunk(count, fmt.Errorf("reading chunk length: %w", err))
		}
		pos += LengthPrefixSize

		n := int64(binary.BigEndian.Uint32(prefix[:]))
		if n > int64(maxLen) {
			return count, sderrors.Chunk(count, fmt.Errorf("%w: chunk length %d exceeds %d", sderrors.ErrMalformedContainer, n, maxLen))
		}
		if n > length-pos {
			return count, sderrors.Chunk(count, fmt.Errorf("%w: declares %d bytes, %d remain", sderrors.ErrTruncatedChunk, n, length-pos))
		}
		pos += n

		count++
		if uint64(count) > MaxChunks {
			return count, sderrors.ErrTooManyChunks
		}
	}
	return count, nil
}

func writePrefixed(w io.Writer, data []byte) error {
	if uint64(len(data)) > 1<<32-1 {
		return fmt.Errorf("%d bytes do not fit a length prefix", len(data))
	}
	var prefix [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(data)))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}
