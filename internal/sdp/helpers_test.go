package sdp

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math/rand"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)

// tb is satisfied by both *testing.T and *rapid.T.
type tb interface {
	require.TestingT
	Helper()
}

// testKeyPair generates a recipient key pair for a test.
func testKeyPair(t tb) *KeyPair {
	t.Helper()
	kp, err := GenerateKeyPair(nil)
	require.NoError(t, err)
	return kp
}

// pseudoRandom returns n deterministic bytes for seed.
func pseudoRandom(seed int64, n int) []byte {
	data := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(data)
	return data
}

// sealBytes encrypts plaintext in memory and returns the container.
func sealBytes(t tb, plaintext []byte, recipient []byte, chunkSize int) []byte {
	t.Helper()
	var out bytes.Buffer
	_, err := Encrypt(context.Background(), &out, bytes.NewReader(plaintext), recipient, EncryptParams{
		Filename:  "evidence.bin",
		FileSize:  int64(len(plaintext)),
		ChunkSize: chunkSize,
		Now:       func() time.Time { return fixedTime },
	})
	require.NoError(t, err)
	return out.Bytes()
}

// openBytes decrypts a container held in memory.
func openBytes(container []byte, privateKey []byte) ([]byte, *DecryptSummary, error) {
	var out bytes.Buffer
	summary, err := Decrypt(context.Background(), &out, bytes.NewReader(container), int64(len(container)), privateKey, DecryptParams{})
	return out.Bytes(), summary, err
}

// chunkSpan locates one chunk inside a container.
type chunkSpan struct {
	prefix int // offset of the length prefix
	body   int // offset of the ciphertext
	length int // ciphertext length including tag
}

// chunkSpans walks a well-formed container and returns its chunk layout.
func chunkSpans(t tb, container []byte) []chunkSpan {
	t.Helper()
	require.GreaterOrEqual(t, len(container), LengthPrefixSize+FooterSize)

	pos := LengthPrefixSize + int(binary.BigEndian.Uint32(container))
	end := len(container) - FooterSize

	var spans []chunkSpan
	for pos < end {
		n := int(binary.BigEndian.Uint32(container[pos:]))
		spans = append(spans, chunkSpan{prefix: pos, body: pos + LengthPrefixSize, length: n})
		pos += LengthPrefixSize + n
	}
	require.Equal(t, end, pos, "chunks must end exactly at the footer")
	return spans
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errEntropyTest
}

var errEntropyTest = errors.New("entropy pool exhausted")
