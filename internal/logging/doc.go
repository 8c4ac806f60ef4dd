// Package logger provides leveled logging for sdp commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is formatted with colored level prefixes, or as one JSON
// object per line when --log-json is set.
//
// # Verbosity Levels
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: Shows info and warning messages
//   - --debug: Shows all messages including debug details and errors
//
// Without flags, only critical warnings are shown. User-facing results are
// printed by the commands themselves, not through the logger.
//
// # Log Methods
//
//	Logger.Infof()           // Shown with --verbose or --debug
//	Logger.Debugf()          // Shown only with --debug
//	Logger.Warnf()           // Shown with --verbose or --debug
//	Logger.WarnfAlways()     // Always shown (insecure key permissions)
//	Logger.Errorf()          // Shown with --debug
//	Logger.ErrorfAndReturn() // Errorf, then returns the message as an error
//
// # Structured Fields
//
// WithFields and WithError return a derived logger. WithError adds the
// failing chunk index when the error came from a single chunk:
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.WithFields(logger.Fields{"op": "decrypt", "file": path}).WithError(err).Errorf("decryption failed")
//
// Commands create a logger in the root PersistentPreRun and pass it to
// internal functions.
package logger
