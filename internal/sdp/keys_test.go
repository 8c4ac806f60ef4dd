package sdp

import (
	"encoding/hex"
	"testing"

	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestAgree_RFC7748Vector(t *testing.T) {
	alicePriv := mustHex(t, "77076d0a7318a57d3c16c17251b26645df4c2f87ebc0992ab177fba51db92c2a")
	alicePub := mustHex(t, "8520f0098930a754748b7ddcb43ef75a0dbf3a0d26381af4eba4a98eaa9b4e6a")
	bobPriv := mustHex(t, "5dab087e624a8a4b79e17f8b83800ee66f3bb1292618b6fd1c2f8b27ff88e0eb")
	bobPub := mustHex(t, "de9edb7d7b7dc1b4d35b61c2ece435373f8343c85b78674dadfc7e146f882b4f")
	want := mustHex(t, "4a5d9d5ba4ce2de1728e3bf480350f25e07e21c947d19e3376f09b3c1e161742")

	pub, err := PublicKeyOf(alicePriv)
	require.NoError(t, err)
	assert.Equal(t, alicePub, pub)

	ab, err := Agree(alicePriv, bobPub)
	require.NoError(t, err)
	ba, err := Agree(bobPriv, alicePub)
	require.NoError(t, err)

	assert.Equal(t, want, ab)
	assert.Equal(t, want, ba)
}

func TestGenerateKeyPair_Fresh(t *testing.T) {
	a := testKeyPair(t)
	b := testKeyPair(t)

	assert.NotEqual(t, a.PrivateKey, b.PrivateKey)
	assert.NotEqual(t, a.PublicKey, b.PublicKey)

	pub, err := PublicKeyOf(a.PrivateKey[:])
	require.NoError(t, err)
	assert.Equal(t, a.PublicKey[:], pub)
}

func TestGenerateKeyPair_SharedSecretMatches(t *testing.T) {
	a := testKeyPair(t)
	b := testKeyPair(t)

	ab, err := Agree(a.PrivateKey[:], b.PublicKey[:])
	require.NoError(t, err)
	ba, err := Agree(b.PrivateKey[:], a.PublicKey[:])
	require.NoError(t, err)

	assert.Len(t, ab, KeySize)
	assert.Equal(t, ab, ba)
}

func TestGenerateKeyPair_EntropyFailure(t *testing.T) {
	_, err := GenerateKeyPair(failingReader{})
	require.ErrorIs(t, err, sderrors.ErrEntropyFailure)
}

func TestAgree_RejectsBadKeys(t *testing.T) {
	kp := testKeyPair(t)

	_, err := Agree(kp.PrivateKey[:31], kp.PublicKey[:])
	assert.ErrorIs(t, err, sderrors.ErrInvalidKey)

	_, err = Agree(kp.PrivateKey[:], kp.PublicKey[:16])
	assert.ErrorIs(t, err, sderrors.ErrInvalidKey)

	// The identity point yields an all-zero secret.
	_, err = Agree(kp.PrivateKey[:], make([]byte, KeySize))
	assert.ErrorIs(t, err, sderrors.ErrInvalidKey)
}

func TestKeyPair_Zero(t *testing.T) {
	kp := testKeyPair(t)
	kp.Zero()
	assert.Equal(t, [KeySize]byte{}, kp.PrivateKey)
}
