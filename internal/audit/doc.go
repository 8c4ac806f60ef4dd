// Package audit provides audit trail logging for sdp operations.
//
// Every successful encrypt, decrypt and key generation is recorded in a
// per-user audit log, so the handling of sensitive files can be
// reconstructed later.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	<XDG_DATA_HOME or ~/.local/share>/sdp/audit.jsonl
//
// Each entry contains:
//   - Timestamp (UTC with microseconds, same layout as container headers)
//   - System user name
//   - Operation name
//   - Operation-specific details (files, key, chunk count)
//
// # Usage
//
// Create an entry with user info pre-populated:
//
//	entry := audit.LogWithUser("encrypt")
//	entry.Files = containers
//	entry.Key = recipient
//	audit.Log(entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display or analysis.
// Malformed entries are silently skipped to handle partial writes.
package audit
