package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/PolarWolf314/sdp/internal/audit"
	sderrors "github.com/PolarWolf314/sdp/internal/errors"
)

func seedAuditLog(t *testing.T) {
	t.Helper()
	entries := []audit.Entry{
		{Timestamp: "2025-01-10T09:00:00.000000Z", User: "alice", Operation: "keygen", Key: "evidence"},
		{Timestamp: "2025-01-11T10:00:00.000000Z", User: "alice", Operation: "encrypt", Key: "evidence", Files: []string{"a.sdp"}, Chunks: 1},
		{Timestamp: "2025-01-12T11:00:00.000000Z", User: "bob", Operation: "decrypt", Key: "evidence", Files: []string{"a.sdp"}, Chunks: 1},
		{Timestamp: "2025-01-15T12:00:00.000000Z", User: "Bob", Operation: "encrypt", Key: "other", Files: []string{"b.sdp", "c.sdp"}, Chunks: 4},
	}
	for _, e := range entries {
		audit.Log(e)
	}
}

func TestLog_NoAuditLog(t *testing.T) {
	setupWorkflowEnv(t)

	if _, err := Log(context.Background(), LogOptions{}); !errors.Is(err, sderrors.ErrNoFilesFound) {
		t.Errorf("Expected ErrNoFilesFound, got %v", err)
	}
}

func TestLog_Filters(t *testing.T) {
	setupWorkflowEnv(t)
	seedAuditLog(t)

	tests := []struct {
		name string
		opts LogOptions
		want []string
	}{
		{"all", LogOptions{}, []string{"keygen", "encrypt", "decrypt", "encrypt"}},
		{"user case-insensitive", LogOptions{User: "BOB"}, []string{"decrypt", "encrypt"}},
		{"operations", LogOptions{Operations: "keygen, decrypt"}, []string{"keygen", "decrypt"}},
		{"key", LogOptions{Key: "other"}, []string{"encrypt"}},
		{"since", LogOptions{Since: "2025-01-12"}, []string{"decrypt", "encrypt"}},
		{"until includes day", LogOptions{Until: "2025-01-11"}, []string{"keygen", "encrypt"}},
		{"limit keeps most recent", LogOptions{Limit: 2}, []string{"decrypt", "encrypt"}},
		{"reverse with limit", LogOptions{Reverse: true, Limit: 3}, []string{"encrypt", "decrypt", "encrypt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Log(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("Log failed: %v", err)
			}
			if result.TotalEntriesBeforeFilter != 4 {
				t.Errorf("Expected 4 entries before filter, got %d", result.TotalEntriesBeforeFilter)
			}
			var ops []string
			for _, e := range result.Entries {
				ops = append(ops, e.Operation)
			}
			if len(ops) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, ops)
			}
			for i := range ops {
				if ops[i] != tt.want[i] {
					t.Fatalf("Expected %v, got %v", tt.want, ops)
				}
			}
		})
	}
}

func TestLog_InvalidDates(t *testing.T) {
	setupWorkflowEnv(t)
	seedAuditLog(t)

	for _, opts := range []LogOptions{{Since: "01/02/2025"}, {Until: "yesterday"}} {
		if _, err := Log(context.Background(), opts); !errors.Is(err, sderrors.ErrInvalidDateFormat) {
			t.Errorf("Expected ErrInvalidDateFormat for %+v, got %v", opts, err)
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	ts := "2025-01-11T10:20:30.123456Z"
	if got := FormatDate(ts); got != "2025-01-11" {
		t.Errorf("FormatDate = %s", got)
	}
	if got := FormatDateTime(ts); got != "2025-01-11 10:20:30" {
		t.Errorf("FormatDateTime = %s", got)
	}
	if got := FormatDate("bad"); got != "bad" {
		t.Errorf("Expected unparsable short timestamp unchanged, got %s", got)
	}

	enc := audit.Entry{Operation: "encrypt", Files: []string{"a.sdp"}, Key: "evidence", Chunks: 2}
	if got := FormatDetails(enc); got != "a.sdp (key evidence, 2 chunks)" {
		t.Errorf("FormatDetails = %s", got)
	}
	many := audit.Entry{Operation: "decrypt", Files: []string{"a", "b", "c", "d"}}
	if got := FormatDetails(many); got != "4 files" {
		t.Errorf("FormatDetails = %s", got)
	}
	if got := FormatDetailsOneline(enc); got != "1 files" {
		t.Errorf("FormatDetailsOneline = %s", got)
	}
	if got := FormatDetails(audit.Entry{Operation: "keygen", Key: "evidence"}); got != "evidence" {
		t.Errorf("FormatDetails = %s", got)
	}
}
