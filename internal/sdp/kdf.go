package sdp

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// SaltSize is the length of the per-container HKDF salt.
	SaltSize = 16

	// SymmetricKeySize is the AES-256 key length.
	SymmetricKeySize = 32

	// KDFInfo separates this protocol from other uses of the same shared secret.
	KDFInfo = "sdp_encryption_v1"
)

// DeriveKey derives the AES-256 key from an X25519 shared secret with
// HKDF-SHA256.
//
// The info string must match between encryption and decryption. A mismatch
// does not fail here: it yields a different key, and the failure only shows
// up later as ErrAuthenticationFailure on the first chunk.
func DeriveKey(sharedSecret, salt []byte, info string) ([]byte, error) {
	r := hkdf.New(sha256.New, sharedSecret, salt, []byte(info))

	key := make([]byte, SymmetricKeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("deriving symmetric key: %w", err)
	}
	return key, nil
}
