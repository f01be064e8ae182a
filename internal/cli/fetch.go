package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/dlt-draws/internal/archive"
	"github.com/pfrederiksen/dlt-draws/internal/config"
	"github.com/pfrederiksen/dlt-draws/internal/draw"
	"github.com/pfrederiksen/dlt-draws/internal/logger"
	"github.com/pfrederiksen/dlt-draws/internal/notifier"
	"github.com/pfrederiksen/dlt-draws/internal/scraper"
	"github.com/pfrederiksen/dlt-draws/internal/session"
	"github.com/pfrederiksen/dlt-draws/internal/storage"
	"github.com/spf13/cobra"
)

// DefaultCSVPath is where fetch writes the draw table.
const DefaultCSVPath = "dlt_100_periods.csv"

// postFetchTimeout bounds archiving and notification after the scrape.
const postFetchTimeout = 2 * time.Minute

var (
	flagDriver         string
	flagURL            string
	flagDeepLink       string
	flagChromePath     string
	flagHeadless       bool
	flagDataDir        string
	flagDiagnosticsDir string
	flagFormat         string
	flagOutput         string
	flagArchive        string
	flagNotifyWebhook  string
	flagNotifyTwitter  bool
	flagNotifyTelegram bool
	flagDryRunNotify   bool
	flagRefresh        bool
	flagTimeout        time.Duration
)

// launcherFor is replaced in tests.
var launcherFor = scraper.LauncherFor

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Collect the recent draws and report new ones",
		Long: `Collect the 100 most recent draws, write them to a CSV file and save a
snapshot. Draws missing from the previous snapshot are reported as new.

Exit codes: 0 when no new draws were found, 2 when new draws were found,
1 on error or when no draws could be collected.`,
		Args: cobra.NoArgs,
		RunE: runFetch,
	}

	f := cmd.Flags()
	f.StringVar(&flagDriver, "driver", "", "Session driver: chrome or http (default from config)")
	f.StringVar(&flagURL, "url", "", "Listing page URL (default from config)")
	f.StringVar(&flagDeepLink, "deep-link", "", "Direct URL of the recent-draws view used as fallback")
	f.StringVar(&flagChromePath, "chrome-path", "", "Path to the Chrome binary")
	f.BoolVar(&flagHeadless, "headless", true, "Run Chrome headless")
	f.StringVar(&flagDataDir, "data-dir", "", "Data directory for snapshots (default from config)")
	f.StringVar(&flagDiagnosticsDir, "diagnostics-dir", "", "Directory for failure snapshots (default from config)")
	f.StringVar(&flagFormat, "format", "text", "Output format: text, json or csv")
	f.StringVar(&flagOutput, "output", DefaultCSVPath, "CSV file to write; empty to skip")
	f.StringVar(&flagArchive, "archive", "", "SQLite archive to upsert draws into")
	f.StringVar(&flagNotifyWebhook, "notify-webhook", "", "POST new draws as JSON to this URL")
	f.BoolVar(&flagNotifyTwitter, "notify-twitter", false, "Tweet new draws (credentials from TWITTER_* variables)")
	f.BoolVar(&flagNotifyTelegram, "notify-telegram", false, "Send new draws to Telegram (TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID)")
	f.BoolVar(&flagDryRunNotify, "dry-run-notify", false, "Print notifications instead of sending them")
	f.BoolVar(&flagRefresh, "refresh", false, "Refresh snapshot without reporting new draws")
	f.DurationVar(&flagTimeout, "timeout", 10*time.Minute, "Upper bound for the whole run")

	return cmd
}

// applyFetchFlags overlays explicitly set flags on cfg.
func applyFetchFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("driver") {
		cfg.Driver = flagDriver
	}
	if f.Changed("url") {
		cfg.BaseURL = flagURL
	}
	if f.Changed("deep-link") {
		cfg.DeepLinkURL = flagDeepLink
	}
	if f.Changed("chrome-path") {
		cfg.Browser.ExecPath = flagChromePath
	}
	if f.Changed("headless") {
		cfg.Browser.Headless = flagHeadless
	}
	if f.Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if f.Changed("diagnostics-dir") {
		cfg.DiagnosticsDir = flagDiagnosticsDir
	}
	return cfg.Validate()
}

func runFetch(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagFormat, FormatText, FormatJSON, FormatCSV)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyFetchFlags(cmd, cfg); err != nil {
		return err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	launcher, err := launcherFor(cfg)
	if err != nil {
		return err
	}
	metrics := logger.NewMetrics()
	sc, err := scraper.New(cfg, launcher, scraper.WithMetrics(metrics))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
	defer cancel()

	logger.Info("Fetching draws", logger.Fields{"url": cfg.BaseURL, "driver": cfg.Driver})
	res, err := sc.FetchDraws(ctx)
	partial := false
	if err != nil && !res.Empty() && ctx.Err() != nil {
		logger.Warn("Run interrupted, keeping partial results", logger.Fields{"draws": len(res.Draws)}, err)
		partial = true
		err = nil
	}
	if err != nil {
		var launchErr *session.LaunchError
		var navErr *scraper.NavigationError
		switch {
		case errors.As(err, &launchErr):
			return &ExitCodeError{Code: ExitError, Err: fmt.Errorf("starting browser: %w", err)}
		case errors.As(err, &navErr):
			return &ExitCodeError{Code: ExitError, Err: fmt.Errorf("no data: %w", err)}
		default:
			return &ExitCodeError{Code: ExitError, Err: err}
		}
	}
	if res.Empty() {
		return &ExitCodeError{Code: ExitError, Err: errors.New("no draws collected")}
	}

	if flagOutput != "" {
		if err := storage.WriteCSVFile(flagOutput, res.Draws); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
		logger.Info("Wrote CSV", logger.Fields{"path": flagOutput, "draws": len(res.Draws)})
	}

	var previous *draw.Snapshot
	if !flagRefresh {
		previous, err = store.LoadSnapshot()
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
	}
	diff := draw.Diff(previous, res.Draws)
	if flagRefresh {
		diff.NewDraws = nil
	}

	// The run context may already be expired when partial results are kept.
	postCtx, postCancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), postFetchTimeout)
	defer postCancel()

	if flagArchive != "" {
		if err := archiveDraws(postCtx, flagArchive, res.Draws); err != nil {
			return err
		}
	}

	var notifyErr error
	if len(diff.NewDraws) > 0 {
		if notifyErr = notify(postCtx, diff.NewDraws); notifyErr != nil {
			logger.Error("Failed to send notifications, snapshot left unchanged", logger.Fields{"draws": len(diff.NewDraws)}, notifyErr)
		}
	}

	// Saved last so draws are reported again if archiving or notifying failed.
	if notifyErr == nil {
		known := res.Draws
		if partial && previous != nil {
			// Keep draws from pages this run never reached.
			known = draw.Unique(append(append([]*draw.Draw{}, res.Draws...), previous.Sorted()...))
		}
		if err := store.CreateSnapshotFromDraws(known); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
	}

	out := &FetchOutput{
		CheckedAt:  time.Now().UTC(),
		Route:      string(res.Route),
		TotalPages: res.TotalPages,
		Pages:      summarizePages(res.Pages),
		DrawCount:  len(res.Draws),
		NewDraws:   diff.NewDraws,
		NewCount:   len(diff.NewDraws),
		Draws:      res.Draws,
	}
	if flagVerbose {
		snap := metrics.Snapshot()
		out.Metrics = &snap
	}
	if err := WriteFetchOutput(cmd.OutOrStdout(), out, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if notifyErr != nil {
		return &ExitCodeError{Code: ExitError, Err: fmt.Errorf("sending notifications: %w", notifyErr)}
	}
	if len(diff.NewDraws) > 0 {
		return &ExitCodeError{Code: ExitNewDraws}
	}
	return nil
}

func archiveDraws(ctx context.Context, path string, draws []*draw.Draw) error {
	path, err := storage.ExpandHome(path)
	if err != nil {
		return err
	}
	db, err := archive.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer db.Close()

	inserted, err := db.Upsert(ctx, draws)
	if err != nil {
		return fmt.Errorf("archiving draws: %w", err)
	}
	logger.Info("Archived draws", logger.Fields{"path": path, "inserted": inserted, "total": len(draws)})
	return nil
}

func notify(ctx context.Context, draws []*draw.Draw) error {
	var targets notifier.Multi
	if flagDryRunNotify {
		targets = append(targets, notifier.NewDryRunNotifier(os.Stderr))
	} else {
		if flagNotifyWebhook != "" {
			targets = append(targets, notifier.NewWebhookNotifier(flagNotifyWebhook, 30*time.Second))
		}
		if flagNotifyTwitter {
			tw, err := notifier.NewTwitterNotifier()
			if err != nil {
				return err
			}
			targets = append(targets, tw)
		}
		if flagNotifyTelegram {
			tg, err := notifier.NewTelegramNotifierFromEnv()
			if err != nil {
				return err
			}
			targets = append(targets, tg)
		}
	}
	if len(targets) == 0 {
		return nil
	}
	return targets.Notify(ctx, draws)
}

func summarizePages(pages []scraper.PageResult) []PageSummary {
	out := make([]PageSummary, 0, len(pages))
	for _, p := range pages {
		out = append(out, PageSummary{
			Page:       p.Page,
			Status:     string(p.Status),
			Records:    p.Records,
			Dropped:    p.Dropped,
			Reason:     p.Reason,
			Diagnostic: p.Diagnostic,
		})
	}
	return out
}
