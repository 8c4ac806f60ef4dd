// Package utils provides shared utility functions for sdp.
//
// This package contains general-purpose helpers used across multiple packages.
// Functions are organized into logical groups:
//
// # Filesystem Utilities
//
// Functions for turning command arguments into files:
//   - ResolvePatterns: expands paths, directories and doublestar globs
//   - ListRegularFiles: lists the regular files of a directory
//
// # Size Utilities
//
// Byte counts for flags, config and output:
//   - ByteSize: a pflag.Value and TOML value accepting "10MiB"
//   - FormatBytes: thousands separators ("26,214,400 bytes")
//   - FormatSize: binary units ("25 MiB")
//
// # String Utilities
//
//   - FormatPaths: formats file paths for human-readable output
//   - IsValidName: validates key names
//
// # System, I/O and Terminal Utilities
//
//   - GetUsername: returns the current system username
//   - ReadStdin: reads piped key material, refusing an interactive terminal
//   - IsTerminal: checks whether stdin is a terminal
package utils
