package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/marketsnap/scanner/internal/extract"
)

// Load navigates the tab to pageURL and waits until the network has been
// idle for IdleWindow. Navigation and the idle wait share one
// NavigationTimeout deadline; there is no retry.
func (s *Session) Load(ctx context.Context, pageURL string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()

	p := s.page.Context(navCtx)
	// rod's defaults exclude websocket, event-source, media, image and font
	// requests, so only documents, scripts, stylesheets and XHR/fetch hold
	// the page busy.
	waitIdle := p.WaitRequestIdle(s.cfg.IdleWindow, nil, nil, nil)

	start := time.Now()
	if err := p.Navigate(pageURL); err != nil {
		return s.navError(ctx, navCtx, pageURL, err)
	}
	if err := p.WaitLoad(); err != nil {
		return s.navError(ctx, navCtx, pageURL, err)
	}
	waitIdle()
	if err := navCtx.Err(); err != nil {
		return s.navError(ctx, navCtx, pageURL, err)
	}

	s.cfg.Logger.Info("browser: page loaded", "url", pageURL, "elapsed", time.Since(start))
	return nil
}

func (s *Session) navError(parent, navCtx context.Context, pageURL string, err error) error {
	if parent.Err() == nil && errors.Is(navCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %s", ErrNavigationTimeout, s.cfg.NavigationTimeout, pageURL)
	}
	return fmt.Errorf("browser: navigate %s: %w", pageURL, err)
}

// Settle gives client-side rendering time to populate the DOM: an optional
// wait for ReadySelector, then the fixed SettleDelay. Only context
// cancellation is an error.
func (s *Session) Settle(ctx context.Context) error {
	log := s.cfg.Logger

	if s.cfg.ReadySelector != "" {
		readyCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadyTimeout)
		_, err := s.page.Context(readyCtx).Element(s.cfg.ReadySelector)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("browser: settle: %w", ctx.Err())
			}
			log.Warn("browser: ready selector not found",
				"selector", s.cfg.ReadySelector, "timeout", s.cfg.ReadyTimeout, "error", err)
		}
	}

	if s.cfg.SettleDelay <= 0 {
		return nil
	}
	t := time.NewTimer(s.cfg.SettleDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("browser: settle: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}

// Collect evaluates the extraction script in the page and returns the raw
// anchor candidates in document order.
func (s *Session) Collect(ctx context.Context, sel extract.Selectors) ([]extract.Candidate, error) {
	res, err := s.page.Context(ctx).Evaluate(rod.Eval(extract.Script, sel.Link, sel.Container).ByPromise())
	if err != nil {
		return nil, fmt.Errorf("browser: evaluate: %w", err)
	}

	var cands []extract.Candidate
	if err := res.Value.Unmarshal(&cands); err != nil {
		return nil, fmt.Errorf("browser: decode candidates: %w", err)
	}
	s.cfg.Logger.Debug("browser: collected", "candidates", len(cands))
	return cands, nil
}
