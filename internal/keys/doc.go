// Package keys stores named X25519 key pairs for sdp recipients.
//
// # Layout
//
// Each key lives in its own directory below the keys path:
//
//	<keys>/<name>/private.key   32 raw bytes, 0600
//	<keys>/<name>/public.key    32 raw bytes, 0644
//	<keys>/<name>/key.toml      id, name, created_at, fingerprint
//
// Key files may also hold the base64 text form of the 32 bytes, which is
// how keys are usually exchanged by hand.
//
// # Fingerprints
//
// A fingerprint is the first 8 bytes of SHA-256 over the public key, in hex.
//
// # Security Considerations
//
// Private keys should have 0600 permissions. LoadPrivateKey reports group or
// other access through PrivateKey.InsecurePermissions so the CLI can warn,
// but does not refuse the key.
package keys
