package sdp

import "encoding/binary"

const (
	// BaseNonceSize is the random per-container nonce prefix.
	BaseNonceSize = 8

	// NonceSize is the AES-GCM nonce length: base nonce plus a 4-byte index.
	NonceSize = BaseNonceSize + 4

	// MaxChunks is the number of chunk indices the nonce suffix can address.
	MaxChunks = 1 << 32
)

// ChunkNonce returns base || big-endian uint32(index).
func ChunkNonce(base [BaseNonceSize]byte, index uint32) [NonceSize]byte {
	var nonce [NonceSize]byte
	copy(nonce[:BaseNonceSize], base[:])
	binary.BigEndian.PutUint32(nonce[BaseNonceSize:], index)
	return nonce
}
