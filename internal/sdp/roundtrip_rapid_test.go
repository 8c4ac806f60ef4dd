package sdp

import (
	"bytes"
	"testing"

	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRoundTripProperty(t *testing.T) {
	kp := testKeyPair(t)

	rapid.Check(t, func(t *rapid.T) {
		plaintext := rapid.SliceOfN(rapid.Byte(), 0, 2048).Draw(t, "plaintext")
		chunkSize := rapid.IntRange(1, 300).Draw(t, "chunkSize")

		container := sealBytes(t, plaintext, kp.PublicKey[:], chunkSize)
		require.Len(t, chunkSpans(t, container), (len(plaintext)+chunkSize-1)/chunkSize)

		got, summary, err := openBytes(container, kp.PrivateKey[:])
		require.NoError(t, err)
		assert.True(t, bytes.Equal(plaintext, got))
		assert.False(t, summary.SizeMismatch)
	})
}

func TestBodyBitFlipProperty(t *testing.T) {
	kp := testKeyPair(t)

	rapid.Check(t, func(t *rapid.T) {
		plaintext := rapid.SliceOfN(rapid.Byte(), 1, 1024).Draw(t, "plaintext")
		chunkSize := rapid.IntRange(1, 128).Draw(t, "chunkSize")
		container := sealBytes(t, plaintext, kp.PublicKey[:], chunkSize)

		spans := chunkSpans(t, container)
		span := spans[rapid.IntRange(0, len(spans)-1).Draw(t, "chunk")]
		offset := span.body + rapid.IntRange(0, span.length-1).Draw(t, "offset")
		bit := byte(1) << rapid.IntRange(0, 7).Draw(t, "bit")

		tampered := append([]byte(nil), container...)
		tampered[offset] ^= bit

		_, _, err := openBytes(tampered, kp.PrivateKey[:])
		assert.ErrorIs(t, err, sderrors.ErrAuthenticationFailure)
	})
}

func TestTruncationProperty(t *testing.T) {
	kp := testKeyPair(t)

	rapid.Check(t, func(t *rapid.T) {
		plaintext := rapid.SliceOfN(rapid.Byte(), 0, 512).Draw(t, "plaintext")
		container := sealBytes(t, plaintext, kp.PublicKey[:], 64)
		cut := rapid.IntRange(0, len(container)-1).Draw(t, "cut")

		_, _, err := openBytes(container[:cut], kp.PrivateKey[:])
		assert.Error(t, err)
	})
}
