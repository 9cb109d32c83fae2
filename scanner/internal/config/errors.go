package config

import "errors"

// Validation errors, checkable with errors.Is.
var (
	ErrConfigNotFound      = errors.New("config: file not found")
	ErrInvalidTargetURL    = errors.New("config: target_url must be an absolute http(s) URL")
	ErrNoLogPath           = errors.New("config: log_path is empty")
	ErrInvalidTimeout      = errors.New("config: navigation_timeout must be positive")
	ErrInvalidIdleWindow   = errors.New("config: idle_window must be positive")
	ErrInvalidSettleDelay  = errors.New("config: settle_delay must be non-negative")
	ErrInvalidReadyTimeout = errors.New("config: ready_timeout must be positive when ready_selector is set")
	ErrInvalidMaxEntries   = errors.New("config: max_entries must be positive")
	ErrInvalidMinTitle     = errors.New("config: min_title_length must be non-negative")
	ErrInvalidSelector     = errors.New("config: invalid CSS selector")
	ErrInvalidViewport     = errors.New("config: viewport must be positive")
	ErrInvalidRetention    = errors.New("config: ledger_retention_days must be non-negative")
)
