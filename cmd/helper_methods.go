package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	logger "github.com/PolarWolf314/sdp/internal/logging"
	"github.com/PolarWolf314/sdp/internal/ui"
	"github.com/PolarWolf314/sdp/internal/utils"
	"github.com/briandowns/spinner"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stdout)
		}

		// Clear FinalMSG so s.Stop() doesn't print it.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// progressReporter returns a callback that shows per-file progress in the
// spinner suffix, or logs it in verbose mode.
func progressReporter(s *spinner.Spinner, verb string) func(path string, done, total int64) {
	return func(path string, done, total int64) {
		msg := fmt.Sprintf("%s %s... %s / %s", verb, filepath.Base(path), utils.FormatSize(done), utils.FormatSize(total))
		if verbose || debug {
			Logger.WithFields(logger.Fields{"file": path}).Debugf("%s", msg)
			return
		}
		s.Lock()
		s.Suffix = " " + msg
		s.Unlock()
	}
}

// warnInsecureKey prints the permission warning outside the spinner line.
func warnInsecureKey(s *spinner.Spinner, path string, mode os.FileMode) {
	s.Stop()
	Logger.WarnfAlways("Private key file has overly permissive permissions (%o), consider running 'chmod 600 %s'", mode, path)
	if !verbose && !debug {
		s.Start()
	}
}

// formatError formats a workflow error for display to the user.
func formatError(err error) string {
	cross := ui.Error.Sprint("✗")
	arrow := ui.Info.Sprint("→")

	var chunkErr *sderrors.ChunkError
	chunkSuffix := ""
	if errors.As(err, &chunkErr) {
		chunkSuffix = fmt.Sprintf(" (chunk %d)", chunkErr.Index)
	}

	switch {
	case errors.Is(err, sderrors.ErrNoRecipient):
		return cross + " No recipient key specified\n" +
			arrow + " Pass " + ui.Flag.Sprint("--recipient") + " or create a default with " +
			ui.Code.Sprint("sdp keys generate NAME --default")

	case errors.Is(err, sderrors.ErrKeyNotFound):
		return cross + " " + capitalize(err.Error()) + "\n" +
			arrow + " Run " + ui.Code.Sprint("sdp keys list") + " to see stored keys"

	case errors.Is(err, sderrors.ErrKeyExists):
		return cross + " " + capitalize(err.Error()) + "\n" +
			arrow + " Choose another name or remove the existing key directory"

	case errors.Is(err, sderrors.ErrInvalidKeyName):
		return cross + " " + capitalize(err.Error()) + "\n" +
			arrow + " Key names use letters, digits, " + ui.Code.Sprint("-") + " and " + ui.Code.Sprint("_")

	case errors.Is(err, sderrors.ErrInvalidKey):
		return cross + " " + capitalize(err.Error())

	case errors.Is(err, sderrors.ErrStdinIsTerminal):
		return cross + " No private key was piped to stdin\n" +
			arrow + " Use " + ui.Code.Sprint("sdp decrypt --private-key-stdin FILE < key")

	case errors.Is(err, sderrors.ErrNoFilesFound):
		return cross + " No files found: " + err.Error()

	case errors.Is(err, sderrors.ErrFileNotFound):
		return cross + " " + capitalize(err.Error())

	case errors.Is(err, sderrors.ErrAuthenticationFailure):
		return cross + " Decryption failed" + chunkSuffix + ": wrong key or the container was modified\n" +
			arrow + " No output was written"

	case errors.Is(err, sderrors.ErrDigestMismatch):
		return cross + " Integrity check failed: the plaintext digest does not match the footer\n" +
			arrow + " No output was written"

	case errors.Is(err, sderrors.ErrMalformedContainer), errors.Is(err, sderrors.ErrTruncatedChunk):
		return cross + " Container is damaged or incomplete" + chunkSuffix + "\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, sderrors.ErrInvalidChunkSize), errors.Is(err, sderrors.ErrTooManyChunks):
		return cross + " " + capitalize(err.Error())

	case errors.Is(err, sderrors.ErrInvalidConfig):
		return cross + " " + capitalize(err.Error()) + "\n" +
			arrow + " Fix the file or run " + ui.Code.Sprint("sdp config init --force")

	case errors.Is(err, sderrors.ErrConfigExists):
		return cross + " " + capitalize(err.Error()) + "\n" +
			arrow + " Use " + ui.Flag.Sprint("--force") + " to overwrite it"

	case errors.Is(err, sderrors.ErrEntropyFailure):
		return cross + " The system random source failed; nothing was written"

	default:
		return cross + " " + capitalize(err.Error())
	}
}

// isUnexpectedError returns true if the error should cause a non-zero exit.
// Usage mistakes are explained and exit cleanly.
func isUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, sderrors.ErrNoRecipient),
		errors.Is(err, sderrors.ErrKeyNotFound),
		errors.Is(err, sderrors.ErrKeyExists),
		errors.Is(err, sderrors.ErrInvalidKeyName),
		errors.Is(err, sderrors.ErrNoFilesFound),
		errors.Is(err, sderrors.ErrConfigExists),
		errors.Is(err, sderrors.ErrStdinIsTerminal),
		errors.Is(err, sderrors.ErrInvalidDateFormat):
		return false
	default:
		return true
	}
}

// finish sets the final spinner message for err and returns what RunE
// should return.
func finish(s *spinner.Spinner, err error) error {
	Logger.WithError(err).Errorf("Command failed")
	s.FinalMSG = formatError(err)
	if isUnexpectedError(err) {
		return reported(err)
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
