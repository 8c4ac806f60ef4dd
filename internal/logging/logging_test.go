package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	"github.com/fatih/color"
)

// captureStreams returns what fn wrote to stdout and stderr.
func captureStreams(t *testing.T, fn func()) (string, string) {
	t.Helper()

	origOut, origErr := os.Stdout, os.Stderr
	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout, os.Stderr = outW, errW

	outC := make(chan string)
	errC := make(chan string)
	drain := func(r io.Reader, c chan<- string) {
		var b bytes.Buffer
		_, _ = io.Copy(&b, r)
		c <- b.String()
	}
	go drain(outR, outC)
	go drain(errR, errC)

	fn()

	outW.Close()
	errW.Close()
	os.Stdout, os.Stderr = origOut, origErr
	return <-outC, <-errC
}

func TestLoggerLevels(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name       string
		logger     Logger
		wantStdout []string
		wantStderr []string
		absent     []string
	}{
		{
			name:       "quiet",
			logger:     Logger{},
			wantStderr: []string{"[warn] always"},
			absent:     []string{"[info]", "[debug]", "[error]", "[warn] sometimes"},
		},
		{
			name:       "verbose",
			logger:     Logger{Verbose: true},
			wantStdout: []string{"[info] hello"},
			wantStderr: []string{"[warn] sometimes", "[warn] always"},
			absent:     []string{"[debug]", "[error]"},
		},
		{
			name:       "debug",
			logger:     Logger{Debug: true},
			wantStdout: []string{"[info] hello", "[debug] details 42"},
			wantStderr: []string{"[warn] sometimes", "[warn] always", "[error] broken"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr := captureStreams(t, func() {
				tt.logger.Infof("hello")
				tt.logger.Debugf("details %d", 42)
				tt.logger.Warnf("sometimes")
				tt.logger.WarnfAlways("always")
				tt.logger.Errorf("broken")
			})
			for _, want := range tt.wantStdout {
				if !strings.Contains(stdout, want) {
					t.Errorf("Expected stdout to contain %q, got: %s", want, stdout)
				}
			}
			for _, want := range tt.wantStderr {
				if !strings.Contains(stderr, want) {
					t.Errorf("Expected stderr to contain %q, got: %s", want, stderr)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(stdout+stderr, unwanted) {
					t.Errorf("Did not expect %q in output: %s%s", unwanted, stdout, stderr)
				}
			}
		})
	}
}

func TestErrorfAndReturn(t *testing.T) {
	var err error
	_, stderr := captureStreams(t, func() {
		err = Logger{}.ErrorfAndReturn("failed to open %s", "a.sdp")
	})
	if err == nil || err.Error() != "failed to open a.sdp" {
		t.Errorf("Expected formatted error, got %v", err)
	}
	if stderr != "" {
		t.Errorf("Expected no output without --debug, got: %s", stderr)
	}
}

func TestFieldsInTextMode(t *testing.T) {
	color.NoColor = true
	log := Logger{Verbose: true}.WithFields(Fields{"op": "encrypt", "file": "a.txt"})

	stdout, _ := captureStreams(t, func() {
		log.Infof("done")
	})
	if !strings.Contains(stdout, "[info] done file=a.txt op=encrypt") {
		t.Errorf("Expected sorted fields after message, got: %s", stdout)
	}
}

func TestJSONMode(t *testing.T) {
	err := fmt.Errorf("opening: %w", sderrors.Chunk(3, sderrors.ErrAuthenticationFailure))
	log := Logger{Debug: true, JSON: true}.
		WithFields(Fields{"op": "decrypt", "file": "b.sdp"}).
		WithError(err)

	stdout, stderr := captureStreams(t, func() {
		log.Errorf("decryption failed")
	})
	if stdout != "" {
		t.Errorf("Expected JSON logs on stderr only, stdout got: %s", stdout)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(stderr)), &entry); err != nil {
		t.Fatalf("Expected one JSON object, got %q: %v", stderr, err)
	}
	if entry["level"] != "error" {
		t.Errorf("Expected level error, got %v", entry["level"])
	}
	if entry["msg"] != "decryption failed" {
		t.Errorf("Expected msg, got %v", entry["msg"])
	}
	if entry["op"] != "decrypt" || entry["file"] != "b.sdp" {
		t.Errorf("Expected op and file fields, got %v", entry)
	}
	if entry["chunk"] != float64(3) {
		t.Errorf("Expected chunk 3, got %v", entry["chunk"])
	}
}

func TestJSONModeSharesLoggerAcrossStreams(t *testing.T) {
	shared := jsonLogger
	log := Logger{Verbose: true, JSON: true}

	for _, msg := range []string{"first", "second"} {
		_, stderr := captureStreams(t, func() {
			log.Infof("%s", msg)
			log.Warnf("%s", msg)
		})
		if jsonLogger != shared {
			t.Fatal("Expected JSON mode to reuse one logger")
		}

		lines := strings.Split(strings.TrimSpace(stderr), "\n")
		if len(lines) != 2 {
			t.Fatalf("Expected 2 JSON lines on the current stderr, got %q", stderr)
		}
		for _, line := range lines {
			var entry map[string]any
			if err := json.Unmarshal([]byte(line), &entry); err != nil {
				t.Fatalf("Expected JSON object, got %q: %v", line, err)
			}
			if entry["msg"] != msg {
				t.Errorf("Expected msg %q, got %v", msg, entry["msg"])
			}
		}
	}
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	parent := Logger{}.WithFields(Fields{"op": "check"})
	_ = parent.WithFields(Fields{"file": "x"})
	if _, ok := parent.fields["file"]; ok {
		t.Error("Expected parent logger fields to be unchanged")
	}
}
