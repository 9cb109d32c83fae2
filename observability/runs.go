package observability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hazyhaar/marketsnap/dbopen"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RunRecord is one pipeline run outcome. It never carries scraped market
// data, only what happened.
type RunRecord struct {
	RunID        string        `json:"run_id"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration_ns"`
	Status       string        `json:"status"`
	ErrorKind    string        `json:"error_kind,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Markets      int           `json:"markets"`
	TargetURL    string        `json:"target_url"`
	LogPath      string        `json:"log_path,omitempty"`
}

// RunLedger persists RunRecords synchronously. A run writes one row, so
// there is no buffering.
type RunLedger struct {
	db *sql.DB
}

// NewRunLedger wraps a database that already carries Schema.
func NewRunLedger(db *sql.DB) *RunLedger {
	return &RunLedger{db: db}
}

// OpenRunLedger opens (creating if needed) the ledger database at path.
// The caller blank-imports the SQLite driver.
func OpenRunLedger(path string) (*RunLedger, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(Schema))
	if err != nil {
		return nil, fmt.Errorf("observability: open ledger: %w", err)
	}
	return &RunLedger{db: db}, nil
}

// Record inserts one run row.
func (l *RunLedger) Record(ctx context.Context, r RunRecord) error {
	var kind, msg sql.NullString
	if r.ErrorKind != "" {
		kind = sql.NullString{String: r.ErrorKind, Valid: true}
	}
	if r.ErrorMessage != "" {
		msg = sql.NullString{String: r.ErrorMessage, Valid: true}
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO scan_runs (
			run_id, started_at, duration_ms, status, error_kind,
			error_message, markets, target_url, log_path
		) VALUES (?,?,?,?,?,?,?,?,?)`,
		r.RunID, r.StartedAt.UnixMilli(), r.Duration.Milliseconds(), r.Status, kind,
		msg, r.Markets, r.TargetURL, r.LogPath)
	if err != nil {
		return fmt.Errorf("observability: record run %s: %w", r.RunID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. limit <= 0 means 10.
func (l *RunLedger) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT run_id, started_at, duration_ms, status, error_kind,
			error_message, markets, target_url, log_path
		FROM scan_runs
		ORDER BY started_at DESC, run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("observability: query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var startedMs, durationMs int64
		var kind, msg sql.NullString
		if err := rows.Scan(&r.RunID, &startedMs, &durationMs, &r.Status, &kind,
			&msg, &r.Markets, &r.TargetURL, &r.LogPath); err != nil {
			return nil, fmt.Errorf("observability: scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedMs).UTC()
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.ErrorKind = kind.String
		r.ErrorMessage = msg.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// Cleanup deletes runs older than retentionDays and returns how many went.
func (l *RunLedger) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	threshold := time.Now().AddDate(0, 0, -retentionDays).UnixMilli()
	res, err := l.db.ExecContext(ctx, "DELETE FROM scan_runs WHERE started_at < ?", threshold)
	if err != nil {
		return 0, fmt.Errorf("observability: cleanup runs: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (l *RunLedger) Close() error {
	return l.db.Close()
}
