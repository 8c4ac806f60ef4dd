// Package workflows provides high-level orchestration for sdp commands.
//
// Workflows coordinate configs, keys, sdp and audit to implement complete
// user-facing features. Each workflow handles a single command's business
// logic, independent of CLI concerns like flag parsing, spinners and output
// formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Loading the user configuration
//   - Resolving recipients and private keys
//   - Performing the core operation
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - Encrypt: Seals files into .sdp containers for a recipient
//   - Decrypt: Opens containers with a private key
//   - Check: Classifies files as containers without decrypting
//   - GenerateKey, ImportKey, ListKeys, ShowKey: Manage the key store
//   - InitConfig, ShowConfig: Manage the user configuration
//   - Log: Reads and filters the audit log
//   - Doctor: Runs health checks on the local setup
//
// # Key Resolution
//
// Encrypt takes the recipient from PublicKeyPath, then Recipient, then
// keys.default_recipient. Decrypt takes the private key from PrivateKeyData,
// then PrivateKeyPath, then KeyName, then keys.default_recipient.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching. Use errors.Is() to check for specific error conditions:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, sderrors.ErrAuthenticationFailure) {
//	    // Wrong key or tampered container
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// Cancellation is checked between chunks and between files.
package workflows
