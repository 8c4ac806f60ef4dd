package keys

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"

	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	"github.com/PolarWolf314/sdp/internal/sdp"
)

// FingerprintSize is the number of SHA-256 bytes shown in a fingerprint.
const FingerprintSize = 8

// ParseKey decodes a 32-byte X25519 key stored either raw or as base64 text.
func ParseKey(data []byte) ([]byte, error) {
	if len(data) == sdp.KeySize {
		return bytes.Clone(data), nil
	}

	text := bytes.TrimSpace(data)
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		decoded, err := enc.DecodeString(string(text))
		if err == nil && len(decoded) == sdp.KeySize {
			return decoded, nil
		}
	}

	return nil, fmt.Errorf("%w: expected %d raw bytes or base64 text, got %d bytes", sderrors.ErrInvalidKey, sdp.KeySize, len(data))
}

// Fingerprint returns the hex form of the first bytes of SHA-256(publicKey).
func Fingerprint(publicKey []byte) string {
	sum := sha256.Sum256(publicKey)
	return hex.EncodeToString(sum[:FingerprintSize])
}

// LoadPublicKey loads a public key from disk.
func LoadPublicKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := ParseKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load public key %s: %w", path, err)
	}
	return key, nil
}

// PrivateKey is a private key read from disk along with its file state.
type PrivateKey struct {
	Key  []byte
	Path string

	// InsecurePermissions is set when group or other permission bits are set.
	InsecurePermissions bool
	Mode                os.FileMode
}

// LoadPrivateKey loads a private key from disk. Permissive file modes are
// reported, not rejected.
func LoadPrivateKey(path string) (*PrivateKey, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load private key %s: %w", path, err)
	}

	mode := info.Mode().Perm()
	return &PrivateKey{
		Key:                 key,
		Path:                path,
		InsecurePermissions: mode&0077 != 0,
		Mode:                mode,
	}, nil
}

// ParsePrivateKey decodes a private key and checks it yields a usable
// public key.
func ParsePrivateKey(data []byte) ([]byte, error) {
	key, err := ParseKey(data)
	if err != nil {
		return nil, err
	}
	if _, err := sdp.PublicKeyOf(key); err != nil {
		return nil, err
	}
	return key, nil
}

// Zero overwrites the key material.
func (k *PrivateKey) Zero() {
	clear(k.Key)
}
