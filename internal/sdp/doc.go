// Package sdp implements the sdp encrypted container format.
//
// A container is a self-describing, streamable file produced for one
// recipient X25519 public key. Encryption generates an ephemeral key pair,
// agrees a shared secret with the recipient, derives an AES-256 key with
// HKDF-SHA256 and encrypts the input in fixed-size chunks with AES-256-GCM.
//
// # Layout
//
// All integers are big-endian and unsigned:
//
//	[4 bytes: header length]
//	[header length bytes: compact UTF-8 JSON header]
//	repeated once per chunk:
//	  [4 bytes: ciphertext length]
//	  [ciphertext || 16-byte GCM tag]
//	[32 bytes: SHA-256 of the full plaintext]
//
// The header stores the ephemeral public key, the HKDF salt and the 8-byte
// base nonce. Chunk i uses the nonce base_nonce || uint32(i), so every chunk
// authenticates independently while the footer digest catches reordering and
// truncation at chunk boundaries.
//
// # Streams
//
// ChunkEncrypter and ChunkDecrypter expose the chunk pipeline as finite,
// non-restartable iterators: each Next call advances the underlying reader.
// Each iterator owns its running digest, so concurrent operations on
// different files share no state.
//
// # Untrusted Output
//
// ChunkDecrypter hands out plaintext before the footer has been checked. A
// caller that consumes chunks directly must treat everything emitted so far
// as untrusted when a later chunk or the digest fails. DecryptFile does this
// for you by writing to a temporary file that is only renamed into place
// after verification.
//
// The footer is located as the last FooterSize bytes of the container. A
// container cut exactly at a chunk boundary whose preceding framed chunk is
// also FooterSize bytes long reads that chunk as the footer, so the damage
// is reported as ErrDigestMismatch rather than as truncation. Either way
// the container is rejected.
package sdp
