package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	sderrors "github.com/PolarWolf314/sdp/internal/errors"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Fields are structured values attached to every message of a Logger.
type Fields = logrus.Fields

type Logger struct {
	Verbose bool
	Debug   bool

	// JSON switches every message to one logrus JSON object on stderr.
	JSON bool

	fields Fields
}

// jsonLogger is shared by every Logger in JSON mode.
var jsonLogger = newJSONLogger()

func newJSONLogger() *logrus.Logger {
	jl := logrus.New()
	jl.SetOutput(stderrWriter{})
	jl.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000000Z07:00"})
	jl.SetLevel(logrus.DebugLevel)
	return jl
}

// stderrWriter writes to whatever os.Stderr is at the time of the write.
type stderrWriter struct{}

func (stderrWriter) Write(p []byte) (int, error) {
	return os.Stderr.Write(p)
}

// WithFields returns a copy of l that attaches fields to each message.
func (l Logger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	l.fields = merged
	return l
}

// WithError attaches err, and the failing chunk index when err carries one.
func (l Logger) WithError(err error) Logger {
	fields := Fields{"error": err.Error()}
	var ce *sderrors.ChunkError
	if errors.As(err, &ce) {
		fields["chunk"] = ce.Index
	}
	return l.WithFields(fields)
}

func (l Logger) Infof(msg string, args ...any) {
	if l.Verbose || l.Debug {
		l.emit(os.Stdout, logrus.InfoLevel, color.GreenString("[info] "), msg, args)
	}
}

func (l Logger) Debugf(msg string, args ...any) {
	if l.Debug {
		l.emit(os.Stdout, logrus.DebugLevel, color.CyanString("[debug] "), msg, args)
	}
}

func (l Logger) Warnf(msg string, args ...any) {
	if l.Verbose || l.Debug {
		l.emit(os.Stderr, logrus.WarnLevel, color.YellowString("[warn] "), msg, args)
	}
}

// WarnfAlways prints regardless of verbosity. Use it for security warnings.
func (l Logger) WarnfAlways(msg string, args ...any) {
	l.emit(os.Stderr, logrus.WarnLevel, color.YellowString("[warn] "), msg, args)
}

func (l Logger) Errorf(msg string, args ...any) {
	if l.Debug {
		l.emit(os.Stderr, logrus.ErrorLevel, color.RedString("[error] "), msg, args)
	}
}

// ErrorfAndReturn logs like Errorf and returns the formatted message as an error.
func (l Logger) ErrorfAndReturn(msg string, args ...any) error {
	l.Errorf(msg, args...)
	return fmt.Errorf(msg, args...)
}

func (l Logger) emit(w io.Writer, level logrus.Level, prefix, msg string, args []any) {
	text := fmt.Sprintf(msg, args...)
	if l.JSON {
		jsonLogger.WithFields(l.fields).Log(level, text)
		return
	}
	fmt.Fprintln(w, prefix+text+l.suffix())
}

func (l Logger) suffix() string {
	if len(l.fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, l.fields[k])
	}
	return b.String()
}
