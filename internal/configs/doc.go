// Package configs manages user configuration and resolved settings for sdp.
//
// # User Configuration
//
// The user config lives at <UserConfigDir>/sdp/config.toml:
//
//	[keys]
//	default_recipient = "evidence"
//
//	[encrypt]
//	chunk_size = 10485760
//	output_dir = ""
//
//	[decrypt]
//	output_dir = ""
//
// A missing file, or a missing key, means the default. chunk_size accepts an
// integer or a size string such as "8MiB". Unknown keys are rejected so a
// typo does not silently fall back to a default.
//
// # Key Metadata
//
// Each key pair in the key store has a key.toml tracking:
//   - A UUID identifying the key pair
//   - The key name and creation time
//   - The public key fingerprint
//
// # Settings
//
// UserSDPSettings is initialized at startup with the keys directory
// (<XDG_DATA_HOME or ~/.local/share>/sdp/keys), the config directory and
// the audit log path. Tests replace it with SettingsForRoot.
package configs
