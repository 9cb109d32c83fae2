// Package config holds the scanner configuration: a YAML file overlaid on
// built-in defaults, then validated.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultTargetURL         = "https://polymarket.com/"
	DefaultNavigationTimeout = 60 * time.Second
	DefaultIdleWindow        = 500 * time.Millisecond
	DefaultSettleDelay       = 15 * time.Second
	DefaultReadyTimeout      = 20 * time.Second
	DefaultMaxEntries        = 20
	DefaultMinTitleLength    = 10
	DefaultLinkSelector      = `a[href*="/event/"]`
	DefaultContainerSelector = "div"
	DefaultViewportWidth     = 1280
	DefaultViewportHeight    = 1200
)

// Config is the top-level scanner configuration.
type Config struct {
	TargetURL string `yaml:"target_url"`
	LogPath   string `yaml:"log_path"`

	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	IdleWindow        time.Duration `yaml:"idle_window"`
	SettleDelay       time.Duration `yaml:"settle_delay"`
	ReadySelector     string        `yaml:"ready_selector"` // empty = blind settle only
	ReadyTimeout      time.Duration `yaml:"ready_timeout"`

	MaxEntries        int    `yaml:"max_entries"`
	MinTitleLength    int    `yaml:"min_title_length"`
	LinkSelector      string `yaml:"link_selector"`
	ContainerSelector string `yaml:"container_selector"`

	LedgerPath string `yaml:"ledger_path"` // empty = no run ledger
	// LedgerRetentionDays prunes ledger rows older than this after each
	// run. 0 keeps every row.
	LedgerRetentionDays int `yaml:"ledger_retention_days"`

	Browser BrowserConfig `yaml:"browser"`
}

// BrowserConfig controls the Chrome instance.
type BrowserConfig struct {
	Bin            string `yaml:"bin"`    // empty = rod's managed browser
	Remote         string `yaml:"remote"` // DevTools WebSocket URL; skips launching
	Headless       bool   `yaml:"headless"`
	NoSandbox      bool   `yaml:"no_sandbox"`
	ViewportWidth  int    `yaml:"viewport_width"`
	ViewportHeight int    `yaml:"viewport_height"`

	// ResourceBlocking lists resource types the tab never loads, singular
	// or plural, e.g. [images, fonts, media].
	ResourceBlocking []string `yaml:"resource_blocking"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		TargetURL:         DefaultTargetURL,
		LogPath:           DefaultLogPath(),
		NavigationTimeout: DefaultNavigationTimeout,
		IdleWindow:        DefaultIdleWindow,
		SettleDelay:       DefaultSettleDelay,
		ReadyTimeout:      DefaultReadyTimeout,
		MaxEntries:        DefaultMaxEntries,
		MinTitleLength:    DefaultMinTitleLength,
		LinkSelector:      DefaultLinkSelector,
		ContainerSelector: DefaultContainerSelector,
		Browser: BrowserConfig{
			Headless:       true,
			NoSandbox:      true,
			ViewportWidth:  DefaultViewportWidth,
			ViewportHeight: DefaultViewportHeight,
		},
	}
}

// DefaultLogPath is $XDG_DATA_HOME/marketsnap/history.jsonl.
func DefaultLogPath() string {
	return filepath.Join(xdg.DataHome, "marketsnap", "history.jsonl")
}

// LoadFile reads a YAML file over Default. Keys absent from the file keep
// their default, so "settle_delay: 0s" disables the pause while an absent
// key keeps 15s.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.expandPaths()
	return cfg, nil
}

// Validate checks every field the pipeline relies on.
func (c *Config) Validate() error {
	u, err := url.Parse(c.TargetURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidTargetURL, c.TargetURL)
	}
	if strings.TrimSpace(c.LogPath) == "" {
		return ErrNoLogPath
	}
	if c.NavigationTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.IdleWindow <= 0 {
		return ErrInvalidIdleWindow
	}
	if c.SettleDelay < 0 {
		return ErrInvalidSettleDelay
	}
	if c.ReadySelector != "" && c.ReadyTimeout <= 0 {
		return ErrInvalidReadyTimeout
	}
	if c.MaxEntries <= 0 {
		return ErrInvalidMaxEntries
	}
	if c.MinTitleLength < 0 {
		return ErrInvalidMinTitle
	}
	if c.LinkSelector == "" || c.ContainerSelector == "" {
		return fmt.Errorf("%w: link_selector and container_selector are required", ErrInvalidSelector)
	}
	for _, sel := range []string{c.LinkSelector, c.ContainerSelector, c.ReadySelector} {
		if sel == "" {
			continue
		}
		if _, err := cascadia.Compile(sel); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidSelector, sel, err)
		}
	}
	if c.LedgerRetentionDays < 0 {
		return ErrInvalidRetention
	}
	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		return ErrInvalidViewport
	}
	return nil
}

func (c *Config) expandPaths() {
	c.LogPath = expandHome(c.LogPath)
	c.LedgerPath = expandHome(c.LedgerPath)
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
