package sdp

import (
	"crypto/rand"
	"fmt"
	"io"

	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	"golang.org/x/crypto/curve25519"
)

// KeySize is the length of raw X25519 private keys, public keys and shared secrets.
const KeySize = curve25519.ScalarSize

// KeyPair is an X25519 key pair in raw 32-byte encoding.
type KeyPair struct {
	PrivateKey [KeySize]byte
	PublicKey  [KeySize]byte
}

// GenerateKeyPair creates a key pair from random. A nil random uses crypto/rand.
// A failing random source is fatal and returns ErrEntropyFailure.
func GenerateKeyPair(random io.Reader) (*KeyPair, error) {
	if random == nil {
		random = rand.Reader
	}

	kp := &KeyPair{}
	if _, err := io.ReadFull(random, kp.PrivateKey[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", sderrors.ErrEntropyFailure, err)
	}

	pub, err := curve25519.X25519(kp.PrivateKey[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("deriving public key: %w", err)
	}
	copy(kp.PublicKey[:], pub)

	return kp, nil
}

// Zero overwrites the private key.
func (kp *KeyPair) Zero() {
	clear(kp.PrivateKey[:])
}

// PublicKeyOf returns the public key belonging to a raw private key.
func PublicKeyOf(privateKey []byte) ([]byte, error) {
	if len(privateKey) != KeySize {
		return nil, fmt.Errorf("%w: private key must be %d bytes, got %d", sderrors.ErrInvalidKey, KeySize, len(privateKey))
	}
	return curve25519.X25519(privateKey, curve25519.Basepoint)
}

// Agree performs X25519 between privateKey and peerPublicKey.
// Low-order peer points, which would yield an all-zero secret, are rejected.
func Agree(privateKey, peerPublicKey []byte) ([]byte, error) {
	if len(privateKey) != KeySize {
		return nil, fmt.Errorf("%w: private key must be %d bytes, got %d", sderrors.ErrInvalidKey, KeySize, len(privateKey))
	}
	if len(peerPublicKey) != KeySize {
		return nil, fmt.Errorf("%w: public key must be %d bytes, got %d", sderrors.ErrInvalidKey, KeySize, len(peerPublicKey))
	}

	shared, err := curve25519.X25519(privateKey, peerPublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sderrors.ErrInvalidKey, err)
	}
	return shared, nil
}
