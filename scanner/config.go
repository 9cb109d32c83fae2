package scanner

import (
	"github.com/hazyhaar/marketsnap/scanner/internal/config"
)

// Config is the top-level scanner configuration. Re-exported from internal.
type Config = config.Config

// BrowserConfig controls Chrome lifecycle.
type BrowserConfig = config.BrowserConfig

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig resolves the configuration file (explicit path, then
// ./marketsnap.yaml, then the XDG config directory) and loads it. The
// returned path is "" when the defaults were used.
func LoadConfig(explicit string) (*Config, string, error) {
	return config.Load(explicit)
}

// Configuration validation errors, for errors.Is.
var (
	ErrConfigNotFound      = config.ErrConfigNotFound
	ErrInvalidTargetURL    = config.ErrInvalidTargetURL
	ErrNoLogPath           = config.ErrNoLogPath
	ErrInvalidTimeout      = config.ErrInvalidTimeout
	ErrInvalidIdleWindow   = config.ErrInvalidIdleWindow
	ErrInvalidSettleDelay  = config.ErrInvalidSettleDelay
	ErrInvalidReadyTimeout = config.ErrInvalidReadyTimeout
	ErrInvalidMaxEntries   = config.ErrInvalidMaxEntries
	ErrInvalidMinTitle     = config.ErrInvalidMinTitle
	ErrInvalidSelector     = config.ErrInvalidSelector
	ErrInvalidViewport     = config.ErrInvalidViewport
	ErrInvalidRetention    = config.ErrInvalidRetention
)
