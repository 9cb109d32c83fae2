package observability

// Schema is the DDL of the run ledger, applied through dbopen.WithSchema.
const Schema = `
CREATE TABLE IF NOT EXISTS scan_runs (
    run_id        TEXT PRIMARY KEY,
    started_at    INTEGER NOT NULL,  -- epoch milliseconds
    duration_ms   INTEGER NOT NULL,
    status        TEXT NOT NULL CHECK (status IN ('success', 'error')),
    error_kind    TEXT,
    error_message TEXT,
    markets       INTEGER NOT NULL DEFAULT 0,
    target_url    TEXT NOT NULL,
    log_path      TEXT NOT NULL DEFAULT '',
    created_at    INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
);
CREATE INDEX IF NOT EXISTS idx_scan_runs_started
    ON scan_runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_scan_runs_status
    ON scan_runs(status, started_at DESC);
`
