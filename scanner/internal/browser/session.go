// Package browser owns the Chrome session of one scanner run: launch (or
// connect to a remote DevTools endpoint), open a single stealth tab, load
// the target page, evaluate the extraction script, and tear everything
// down. A Session is used by exactly one pipeline and is not shared.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// ErrNavigationTimeout is returned by Load when the page does not reach
// network quiescence within NavigationTimeout.
var ErrNavigationTimeout = errors.New("browser: navigation timeout")

// Config configures a Session.
type Config struct {
	// Bin is the Chrome binary. Empty = rod's managed download.
	Bin string

	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome.
	RemoteURL string

	Headless  bool
	NoSandbox bool

	ViewportWidth  int
	ViewportHeight int

	// ResourceBlocking lists resource types to fail at the network layer
	// (images, fonts, media, stylesheets).
	ResourceBlocking []string

	// NavigationTimeout bounds navigation plus quiescence. Default: 60s.
	NavigationTimeout time.Duration

	// IdleWindow is how long the network must stay quiet. Default: 500ms.
	IdleWindow time.Duration

	// SettleDelay is the unconditional pause after load.
	SettleDelay time.Duration

	// ReadySelector, when set, is awaited for up to ReadyTimeout before the
	// settle pause. Not finding it is logged, not fatal.
	ReadySelector string
	ReadyTimeout  time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = 1280
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = 1200
	}
	if c.NavigationTimeout <= 0 {
		c.NavigationTimeout = 60 * time.Second
	}
	if c.IdleWindow <= 0 {
		c.IdleWindow = 500 * time.Millisecond
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = 20 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Session is one browser process (or remote connection) with one tab.
type Session struct {
	cfg     Config
	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page
	router  *rod.HijackRouter
	closed  bool
}

// Launch starts Chrome and opens the stealth tab. On error nothing is left
// running: a browser that started but could not be driven is killed.
func Launch(ctx context.Context, cfg Config) (*Session, error) {
	cfg.defaults()
	log := cfg.Logger
	s := &Session{cfg: cfg}

	wsURL := cfg.RemoteURL
	if wsURL != "" {
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().
			Context(ctx).
			Leakless(true).
			Headless(cfg.Headless).
			NoSandbox(cfg.NoSandbox).
			Set("disable-dev-shm-usage").
			Set("disable-blink-features", "AutomationControlled")
		if cfg.NoSandbox {
			l = l.Set("disable-setuid-sandbox")
		}
		if cfg.Bin != "" {
			l = l.Bin(cfg.Bin)
		}

		u, err := l.Launch()
		if err != nil {
			// Launch reaps the process itself when it never published a
			// DevTools URL; Kill covers a process that started regardless.
			l.Kill()
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		s.lnch = l
		log.Info("browser: launched local chrome", "pid", l.PID(), "headless", cfg.Headless)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		s.Close()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	s.browser = b

	page, err := stealth.Page(b)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	s.page = page

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.ViewportWidth,
		Height:            cfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		s.Close()
		return nil, fmt.Errorf("browser: viewport: %w", err)
	}

	if len(cfg.ResourceBlocking) > 0 {
		router, err := applyResourceBlocking(page, cfg.ResourceBlocking)
		if err != nil {
			log.Warn("browser: resource blocking failed", "error", err)
		} else {
			s.router = router
		}
	}

	return s, nil
}

// PID returns the local Chrome process id, or 0 for a remote session.
func (s *Session) PID() int {
	if s.lnch == nil {
		return 0
	}
	return s.lnch.PID()
}

// Close releases the tab and, for a local launch, kills Chrome and removes
// its temporary profile. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.router != nil {
		errs = append(errs, s.router.Stop())
	}
	if s.lnch == nil {
		// Remote: leave the shared browser running, close our tab only.
		if s.page != nil {
			errs = append(errs, s.page.Close())
		}
		return errors.Join(errs...)
	}

	if s.browser != nil {
		errs = append(errs, s.browser.Close())
	}
	pid := s.lnch.PID()
	s.lnch.Kill()
	s.lnch.Cleanup()
	s.cfg.Logger.Info("browser: closed", "pid", pid)
	return errors.Join(errs...)
}
