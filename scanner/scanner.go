// Package scanner runs the market snapshot pipeline: launch a browser,
// load the target page, let it settle, pull market entries out of the DOM,
// append one snapshot line to the history log, and release the browser.
//
// One Run is one linear pass with a single attempt per stage. Scheduling
// repeated runs is left to the caller (cron, systemd timers).
package scanner

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/hazyhaar/marketsnap/idgen"
	"github.com/hazyhaar/marketsnap/observability"
	"github.com/hazyhaar/marketsnap/scanner/internal/browser"
	"github.com/hazyhaar/marketsnap/scanner/internal/extract"
	"github.com/hazyhaar/marketsnap/scanner/internal/journal"
	"github.com/hazyhaar/marketsnap/snapshot"
)

// session is the part of browser.Session the pipeline drives.
type session interface {
	Load(ctx context.Context, pageURL string) error
	Settle(ctx context.Context) error
	Collect(ctx context.Context, sel extract.Selectors) ([]extract.Candidate, error)
	Close() error
}

type launchFunc func(ctx context.Context, cfg browser.Config) (session, error)

func launchBrowser(ctx context.Context, cfg browser.Config) (session, error) {
	s, err := browser.Launch(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Scanner runs the pipeline for one Config. It holds no browser between
// runs.
type Scanner struct {
	cfg    *Config
	logger *slog.Logger
	ledger *observability.RunLedger
	now    func() time.Time
	newID  idgen.Generator
	launch launchFunc
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLedger records every run outcome in l. Ledger failures are logged,
// never returned.
func WithLedger(l *observability.RunLedger) Option {
	return func(s *Scanner) { s.ledger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// WithIDGenerator overrides the run id generator.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(s *Scanner) { s.newID = gen }
}

func withLauncher(fn launchFunc) Option {
	return func(s *Scanner) { s.launch = fn }
}

// New creates a Scanner. cfg is used as given; call cfg.Validate first.
func New(cfg *Config, logger *slog.Logger, opts ...Option) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scanner{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		newID:  idgen.RunID,
		launch: launchBrowser,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run executes the pipeline once. The returned Result is never nil; on
// failure err is an *Error whose Kind is also set on the Result. The
// browser is released on every path once it has been acquired, and the
// log is only touched after extraction succeeded.
func (s *Scanner) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:     s.newID(),
		TargetURL: s.cfg.TargetURL,
		LogPath:   s.cfg.LogPath,
		StartedAt: s.now().UTC(),
	}
	log := s.logger.With("run_id", res.RunID)

	err := s.run(ctx, log, res)
	res.Duration = s.now().Sub(res.StartedAt)
	if err != nil {
		res.Err = err
		res.Kind = KindOf(err)
		log.Info("scanner: run failed", "kind", res.Kind.String(), "error", err, "duration", res.Duration)
	} else {
		log.Info("scanner: run complete", "markets", res.Count(), "duration", res.Duration)
	}

	s.record(ctx, log, res)
	return res, err
}

func (s *Scanner) run(ctx context.Context, log *slog.Logger, res *Result) error {
	sess, err := s.launch(ctx, s.browserConfig(log))
	if err != nil {
		return &Error{Kind: KindEnvironment, Op: "launch", Err: err}
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Warn("scanner: browser release", "error", err)
		}
	}()

	if err := sess.Load(ctx, s.cfg.TargetURL); err != nil {
		return &Error{Kind: KindNavigation, Op: "load", Err: err}
	}
	log.Debug("scanner: loaded", "url", s.cfg.TargetURL)

	if err := sess.Settle(ctx); err != nil {
		return &Error{Kind: KindNavigation, Op: "settle", Err: err}
	}

	cands, err := sess.Collect(ctx, s.selectors())
	if err != nil {
		return &Error{Kind: KindExtraction, Op: "collect", Err: err}
	}
	markets := extract.Apply(cands, s.rules())
	log.Debug("scanner: extracted", "candidates", len(cands), "markets", len(markets))

	snap := snapshot.New(s.now(), markets)
	if err := journal.Append(s.cfg.LogPath, snap); err != nil {
		return &Error{Kind: KindPersistence, Op: "append", Err: err}
	}
	res.Snapshot = &snap
	return nil
}

// FromHTML applies the extraction rules to a saved, rendered page and
// returns the snapshot a live run would have produced. Nothing is written
// and no browser is started. An empty baseURL falls back to TargetURL.
func (s *Scanner) FromHTML(r io.Reader, baseURL string) (snapshot.Snapshot, error) {
	if baseURL == "" {
		baseURL = s.cfg.TargetURL
	}
	cands, err := extract.FromHTML(r, baseURL, s.selectors())
	if err != nil {
		return snapshot.Snapshot{}, &Error{Kind: KindExtraction, Op: "parse", Err: err}
	}
	return snapshot.New(s.now(), extract.Apply(cands, s.rules())), nil
}

func (s *Scanner) browserConfig(log *slog.Logger) browser.Config {
	b := s.cfg.Browser
	return browser.Config{
		Bin:               b.Bin,
		RemoteURL:         b.Remote,
		Headless:          b.Headless,
		NoSandbox:         b.NoSandbox,
		ViewportWidth:     b.ViewportWidth,
		ViewportHeight:    b.ViewportHeight,
		ResourceBlocking:  b.ResourceBlocking,
		NavigationTimeout: s.cfg.NavigationTimeout,
		IdleWindow:        s.cfg.IdleWindow,
		SettleDelay:       s.cfg.SettleDelay,
		ReadySelector:     s.cfg.ReadySelector,
		ReadyTimeout:      s.cfg.ReadyTimeout,
		Logger:            log,
	}
}

func (s *Scanner) selectors() extract.Selectors {
	return extract.Selectors{Link: s.cfg.LinkSelector, Container: s.cfg.ContainerSelector}
}

func (s *Scanner) rules() extract.Rules {
	return extract.Rules{MinTitle: s.cfg.MinTitleLength, MaxEntries: s.cfg.MaxEntries}
}

func (s *Scanner) record(ctx context.Context, log *slog.Logger, res *Result) {
	if s.ledger == nil {
		return
	}
	rec := observability.RunRecord{
		RunID:     res.RunID,
		StartedAt: res.StartedAt,
		Duration:  res.Duration,
		Status:    observability.StatusSuccess,
		Markets:   res.Count(),
		TargetURL: res.TargetURL,
		LogPath:   res.LogPath,
	}
	if res.Err != nil {
		rec.Status = observability.StatusError
		rec.ErrorKind = res.Kind.String()
		rec.ErrorMessage = res.Err.Error()
	}

	// An interrupted run is still worth a row.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.ledger.Record(rctx, rec); err != nil {
		log.Warn("scanner: ledger record", "error", err)
		return
	}
	if days := s.cfg.LedgerRetentionDays; days > 0 {
		n, err := s.ledger.Cleanup(rctx, days)
		if err != nil {
			log.Warn("scanner: ledger cleanup", "error", err)
			return
		}
		log.Debug("scanner: ledger pruned", "rows", n, "retention_days", days)
	}
}
