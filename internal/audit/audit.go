package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/sdp/internal/configs"
)

// TimestampLayout matches the container header timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`   // UTC with microseconds.
	User      string `json:"user"` // System user performing the action.
	Operation string `json:"op"`   // encrypt, decrypt, keygen, keyimport.

	// Optional fields depending on operation.
	Files  []string `json:"files,omitempty"`  // Containers written or read.
	Key    string   `json:"key,omitempty"`    // Key name or fingerprint used.
	Chunks int      `json:"chunks,omitempty"` // Total chunks processed.
}

// Log appends an entry to the audit log.
// Failures are ignored: operations should not fail just because audit
// logging failed.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampLayout)
	}

	logPath := LogPath()
	if logPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// LogWithUser returns an entry for op with the current user filled in.
func LogWithUser(op string) Entry {
	entry := Entry{Operation: op}
	if configs.UserSDPSettings != nil {
		entry.User = configs.UserSDPSettings.Username
	}
	return entry
}

// LogPath returns the path to the audit log file, or "" when settings are
// not initialized.
func LogPath() string {
	if configs.UserSDPSettings == nil {
		return ""
	}
	return configs.UserSDPSettings.AuditLogPath
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped to tolerate partial writes.
func ParseEntries(data []byte) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}
