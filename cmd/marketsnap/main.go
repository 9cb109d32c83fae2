// Command marketsnap loads a prediction-market front page in headless
// Chrome, extracts the visible market titles and prices, and appends one
// timestamped JSON line to a history log. It runs once and exits; schedule
// it with cron or a systemd timer.
//
// Usage:
//
//	marketsnap                              # one run with ./marketsnap.yaml or defaults
//	marketsnap -config marketsnap.yaml      # explicit config file
//	marketsnap -url https://example.com/ -log /tmp/h.jsonl -settle 5s
//	marketsnap -from-html saved.html        # offline extraction, prints the line
//	marketsnap -runs 10                     # last 10 runs from the ledger
//
// Exit status: 0 success, 1 failed run, 2 usage or configuration error.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/marketsnap/observability"
	"github.com/hazyhaar/marketsnap/scanner"
	"github.com/hazyhaar/marketsnap/snapshot"
)

const (
	exitOK    = 0
	exitRun   = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath string
	logLevel   string
	fromHTML   string
	baseURL    string
	runs       int

	url     string
	logPath string
	ledger  string
	remote  string
	timeout time.Duration
	settle  time.Duration
	max     int
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("marketsnap", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.configPath, "config", "", "path to marketsnap.yaml (default: ./marketsnap.yaml, then XDG config dir)")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	fs.StringVar(&o.fromHTML, "from-html", "", "extract from a saved HTML page and print the snapshot line; no browser, no log write")
	fs.StringVar(&o.baseURL, "base-url", "", "base URL for relative links with -from-html (default: target URL)")
	fs.IntVar(&o.runs, "runs", 0, "print the last N runs from the ledger and exit")
	fs.StringVar(&o.url, "url", "", "target page URL")
	fs.StringVar(&o.logPath, "log", "", "history log path")
	fs.StringVar(&o.ledger, "ledger", "", "run ledger SQLite path")
	fs.StringVar(&o.remote, "remote", "", "DevTools WebSocket URL of an existing Chrome")
	fs.DurationVar(&o.timeout, "timeout", 0, "navigation timeout")
	fs.DurationVar(&o.settle, "settle", 0, "settle delay after load")
	fs.IntVar(&o.max, "max", 0, "maximum markets per snapshot")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "error: unexpected arguments: %v\n", fs.Args())
		return exitUsage
	}

	logger := observability.NewLogger(stderr, o.logLevel)

	cfg, path, err := scanner.LoadConfig(o.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	applyFlags(fs, &o, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	logger.Info("marketsnap: config", "path", path, "url", cfg.TargetURL, "log", cfg.LogPath)

	switch {
	case o.runs > 0:
		return listRuns(ctx, cfg, o.runs, stdout, stderr)
	case o.fromHTML != "":
		return runOffline(cfg, logger, o.fromHTML, o.baseURL, stdout, stderr)
	}

	var opts []scanner.Option
	if cfg.LedgerPath != "" {
		ledger, err := observability.OpenRunLedger(cfg.LedgerPath)
		if err != nil {
			logger.Warn("marketsnap: ledger unavailable", "path", cfg.LedgerPath, "error", err)
		} else {
			defer ledger.Close()
			opts = append(opts, scanner.WithLedger(ledger))
		}
	}

	res, err := scanner.New(cfg, logger, opts...).Run(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitRun
	}
	fmt.Fprintf(stdout, "scanned %d markets.\n", res.Count())
	return exitOK
}

// applyFlags copies explicitly set flags over the file configuration, so
// "-settle 0s" disables the pause while an absent -settle keeps the file's.
func applyFlags(fs *flag.FlagSet, o *options, cfg *scanner.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			cfg.TargetURL = o.url
		case "log":
			cfg.LogPath = o.logPath
		case "ledger":
			cfg.LedgerPath = o.ledger
		case "remote":
			cfg.Browser.Remote = o.remote
		case "timeout":
			cfg.NavigationTimeout = o.timeout
		case "settle":
			cfg.SettleDelay = o.settle
		case "max":
			cfg.MaxEntries = o.max
		}
	})
}

func runOffline(cfg *scanner.Config, logger *slog.Logger, path, baseURL string, stdout, stderr io.Writer) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	defer f.Close()

	snap, err := scanner.New(cfg, logger).FromHTML(f, baseURL)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitRun
	}
	line, err := snapshot.MarshalLine(snap)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitRun
	}
	if _, err := stdout.Write(line); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitRun
	}
	return exitOK
}

func listRuns(ctx context.Context, cfg *scanner.Config, n int, stdout, stderr io.Writer) int {
	if cfg.LedgerPath == "" {
		fmt.Fprintln(stderr, "error: no ledger configured (set ledger_path or -ledger)")
		return exitUsage
	}
	ledger, err := observability.OpenRunLedger(cfg.LedgerPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitRun
	}
	defer ledger.Close()

	runs, err := ledger.Recent(ctx, n)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitRun
	}
	enc := json.NewEncoder(stdout)
	for _, r := range runs {
		if err := enc.Encode(r); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitRun
		}
	}
	return exitOK
}
