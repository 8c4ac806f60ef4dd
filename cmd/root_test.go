package cmd

import (
	"errors"
	"strings"
	"testing"

	sderrors "github.com/PolarWolf314/sdp/internal/errors"
)

func TestRootCommandBanner(t *testing.T) {
	setupTestEnvironment(t)

	output, err := runCLI()
	if err != nil {
		t.Fatalf("root command failed: %v", err)
	}
	if !strings.Contains(output, "Run 'sdp --help' to see available commands.") {
		t.Errorf("Expected help hint, got:\n%s", output)
	}
}

func TestReportedKeepsCause(t *testing.T) {
	err := reported(sderrors.ErrDigestMismatch)
	if !errors.Is(err, ErrReported) {
		t.Error("Expected ErrReported in the chain")
	}
	if !errors.Is(err, sderrors.ErrDigestMismatch) {
		t.Error("Expected the cause in the chain")
	}
}

func TestIsUnexpectedError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{sderrors.ErrNoRecipient, false},
		{sderrors.ErrKeyExists, false},
		{sderrors.ErrConfigExists, false},
		{sderrors.ErrAuthenticationFailure, true},
		{sderrors.ErrMalformedContainer, true},
		{sderrors.ErrInvalidConfig, true},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := isUnexpectedError(tt.err); got != tt.want {
				t.Errorf("isUnexpectedError(%v) = %t, want %t", tt.err, got, tt.want)
			}
		})
	}
}

func TestFormatErrorChunkIndex(t *testing.T) {
	err := &sderrors.ChunkError{Index: 7, Err: sderrors.ErrAuthenticationFailure}
	got := formatError(err)
	if !strings.Contains(got, "Decryption failed (chunk 7)") {
		t.Errorf("Expected chunk index in message, got %q", got)
	}
}
