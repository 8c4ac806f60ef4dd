package sdp

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MinContainerSize is the smallest file that can plausibly hold a header and footer.
const MinContainerSize = 40

// Fields whose presence marks a file as a container.
var detectFields = []string{"version", "filename", "ephemeral_public_key", "salt", "algorithm"}

// Metadata describes a container without decrypting it.
type Metadata struct {
	Path          string  `json:"path"`
	Version       string  `json:"version"`
	Filename      string  `json:"filename"`
	OriginalSize  int64   `json:"original_size"`
	EncryptedSize int64   `json:"encrypted_size"`
	HeaderSize    int64   `json:"header_size"`
	DataSize      int64   `json:"data_size"`
	Algorithm     string  `json:"algorithm"`
	Timestamp     string  `json:"timestamp"`
	ChunkSize     int64   `json:"chunk_size"`
	TotalChunks   int64   `json:"total_chunks"`
	SizeRatio     float64 `json:"size_ratio,omitempty"`
}

// Ratio formats SizeRatio as "1.23x", or "N/A" when the original size is unknown.
func (m *Metadata) Ratio() string {
	if m.OriginalSize == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2fx", m.SizeRatio)
}

// IsContainer reports whether path holds a container header. It never
// fails: unreadable, missing, short or undecodable files are all false.
func IsContainer(path string) bool {
	_, _, ok := sniff(path)
	return ok
}

// Describe returns header metadata for path, or nil when path is not a container.
func Describe(path string) *Metadata {
	fields, size, ok := sniff(path)
	if !ok {
		return nil
	}

	m := &Metadata{
		Path:          path,
		Version:       stringField(fields, "version", "Unknown"),
		Filename:      stringField(fields, "filename", "Unknown"),
		OriginalSize:  intField(fields, "file_size"),
		EncryptedSize: size.total,
		HeaderSize:    LengthPrefixSize + size.header,
		Algorithm:     stringField(fields, "algorithm", "Unknown"),
		Timestamp:     stringField(fields, "timestamp", "Unknown"),
		ChunkSize:     intField(fields, "chunk_size"),
		TotalChunks:   intField(fields, "total_chunks"),
	}
	m.DataSize = max(m.EncryptedSize-m.HeaderSize-FooterSize, 0)
	if m.OriginalSize > 0 {
		m.SizeRatio = float64(m.EncryptedSize) / float64(m.OriginalSize)
	}
	return m
}

type sniffSize struct {
	total  int64
	header int64
}

func sniff(path string) (map[string]json.RawMessage, sniffSize, bool) {
	var size sniffSize

	f, err := os.Open(path)
	if err != nil {
		return nil, size, false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() || info.Size() < MinContainerSize {
		return nil, size, false
	}
	size.total = info.Size()

	var prefix [LengthPrefixSize]byte
	if _, err := io.ReadFull(f, prefix[:]); err != nil {
		return nil, size, false
	}
	n := int64(binary.BigEndian.Uint32(prefix[:]))
	if n > MaxHeaderSize || n > size.total-LengthPrefixSize {
		return nil, size, false
	}
	size.header = n

	data := make([]byte, n)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, size, false
	}

	fields, err := decodeHeaderObject(data)
	if err != nil {
		return nil, size, false
	}
	if _, missing := missingField(fields, detectFields); missing {
		return nil, size, false
	}
	return fields, size, true
}

func stringField(fields map[string]json.RawMessage, name, fallback string) string {
	var s string
	if raw, ok := fields[name]; ok && json.Unmarshal(raw, &s) == nil {
		return s
	}
	return fallback
}

func intField(fields map[string]json.RawMessage, name string) int64 {
	raw, ok := fields[name]
	if !ok {
		return 0
	}
	var n int64
	if json.Unmarshal(raw, &n) == nil {
		return n
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return int64(f)
	}
	return 0
}
