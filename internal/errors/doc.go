// Package errors provides typed error values for sdp.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. Every
// failure of the container pipeline surfaces as one of these values, wrapped
// with the context of where it happened.
//
// # Error Categories
//
//   - Container errors: the file is not a well-formed container
//     (ErrMalformedContainer, ErrTruncatedChunk)
//   - Integrity errors: the container was tampered with or the wrong key was
//     used (ErrAuthenticationFailure, ErrDigestMismatch)
//   - Crypto errors: key material problems (ErrEntropyFailure, ErrInvalidKey)
//   - Key store errors: named keys (ErrKeyNotFound, ErrKeyExists, ErrNoRecipient)
//   - File errors: file system issues (ErrFileNotFound, ErrNotContainer)
//   - Configuration errors: config file problems (ErrInvalidConfig)
//
// # Chunk Errors
//
// Failures tied to a single chunk are returned as *ChunkError, which records
// the chunk index and unwraps to the sentinel:
//
//	var ce *errors.ChunkError
//	if stderrors.As(err, &ce) {
//	    fmt.Printf("chunk %d failed\n", ce.Index)
//	}
//	if stderrors.Is(err, errors.ErrAuthenticationFailure) {
//	    // Discard everything decrypted so far.
//	}
//
// None of these errors are retried internally. Retrying belongs to the
// caller, for example re-fetching a corrupted transfer.
package errors
