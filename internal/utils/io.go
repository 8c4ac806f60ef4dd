package utils

import (
	"fmt"
	"io"
	"os"

	sderrors "github.com/PolarWolf314/sdp/internal/errors"
)

// ReadStdin reads all content from stdin.
// Returns ErrStdinIsTerminal if nothing is piped, and an error if stdin is
// empty or cannot be read.
func ReadStdin() ([]byte, error) {
	if IsTerminal() {
		return nil, fmt.Errorf("%w: pipe the private key to this command", sderrors.ErrStdinIsTerminal)
	}
	return readAllLimited(os.Stdin, 64*1024)
}

// readAllLimited reads r to EOF, failing on empty input or more than limit bytes.
func readAllLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("stdin is empty")
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("stdin holds more than %d bytes", limit)
	}
	return data, nil
}
