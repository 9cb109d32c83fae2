package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/marketsnap/dbopen"
)

func setupLedger(t *testing.T) *RunLedger {
	t.Helper()
	return NewRunLedger(dbopen.OpenMemory(t, dbopen.WithSchema(Schema)))
}

func TestRunLedger_RecordAndRecent(t *testing.T) {
	l := setupLedger(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	runs := []RunRecord{
		{RunID: "run_a", StartedAt: base, Duration: 16 * time.Second, Status: StatusSuccess, Markets: 20, TargetURL: "https://polymarket.com/", LogPath: "/tmp/h.jsonl"},
		{RunID: "run_b", StartedAt: base.Add(time.Hour), Duration: 60 * time.Second, Status: StatusError, ErrorKind: "navigation", ErrorMessage: "timeout", TargetURL: "https://polymarket.com/"},
		{RunID: "run_c", StartedAt: base.Add(2 * time.Hour), Duration: 15 * time.Second, Status: StatusSuccess, Markets: 0, TargetURL: "https://polymarket.com/"},
	}
	for _, r := range runs {
		if err := l.Record(ctx, r); err != nil {
			t.Fatalf("Record %s: %v", r.RunID, err)
		}
	}

	got, err := l.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []RunRecord{runs[2], runs[1]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Recent mismatch (-want +got):\n%s", diff)
	}
}

func TestRunLedger_RejectsBadStatus(t *testing.T) {
	l := setupLedger(t)
	err := l.Record(context.Background(), RunRecord{RunID: "run_x", StartedAt: time.Now(), Status: "maybe", TargetURL: "u"})
	if err == nil {
		t.Fatal("expected CHECK constraint failure")
	}
}

func TestRunLedger_DuplicateID(t *testing.T) {
	l := setupLedger(t)
	r := RunRecord{RunID: "run_dup", StartedAt: time.Now(), Status: StatusSuccess, TargetURL: "u"}
	if err := l.Record(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if err := l.Record(context.Background(), r); err == nil {
		t.Fatal("expected primary key violation")
	}
}

func TestRunLedger_Cleanup(t *testing.T) {
	l := setupLedger(t)
	ctx := context.Background()
	old := RunRecord{RunID: "run_old", StartedAt: time.Now().AddDate(0, 0, -40), Status: StatusSuccess, TargetURL: "u"}
	fresh := RunRecord{RunID: "run_new", StartedAt: time.Now(), Status: StatusSuccess, TargetURL: "u"}
	for _, r := range []RunRecord{old, fresh} {
		if err := l.Record(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	n, err := l.Cleanup(ctx, 30)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Cleanup: deleted %d, want 1", n)
	}
	left, err := l.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 || left[0].RunID != "run_new" {
		t.Errorf("remaining: %+v", left)
	}
}

func TestOpenRunLedger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "runs.db")
	l, err := OpenRunLedger(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	if err := l.Record(context.Background(), RunRecord{RunID: "run_f", StartedAt: time.Now(), Status: StatusSuccess, TargetURL: "u"}); err != nil {
		t.Fatal(err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn")
	log.Info("scanner: hidden")
	log.Warn("scanner: shown", "markets", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("want exactly one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "scanner: shown" || rec["markets"] != float64(3) {
		t.Errorf("record: %v", rec)
	}
}
