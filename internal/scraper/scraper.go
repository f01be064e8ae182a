package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/dlt-draws/internal/config"
	"github.com/pfrederiksen/dlt-draws/internal/draw"
	"github.com/pfrederiksen/dlt-draws/internal/logger"
	"github.com/pfrederiksen/dlt-draws/internal/session"
)

// Scraper runs the draw collection against one session per call.
type Scraper struct {
	cfg       *config.Config
	launcher  session.Launcher
	nav       *navigator
	extractor *Extractor
	policy    LastPagePolicy
	recorder  *Recorder
	metrics   *logger.Metrics
	observer  StateObserver
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithPolicy overrides the last-page policy named in the configuration.
func WithPolicy(p LastPagePolicy) Option {
	return func(s *Scraper) { s.policy = p }
}

// WithStateObserver registers a callback for state transitions.
func WithStateObserver(fn StateObserver) Option {
	return func(s *Scraper) { s.observer = fn }
}

// WithRecorder replaces the diagnostics recorder.
func WithRecorder(r *Recorder) Option {
	return func(s *Scraper) { s.recorder = r }
}

// WithMetrics sends run metrics to m instead of the package default.
func WithMetrics(m *logger.Metrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

// New creates a Scraper from a validated configuration.
func New(cfg *config.Config, launcher session.Launcher, opts ...Option) (*Scraper, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := PolicyByName(cfg.LastPagePolicy)
	if err != nil {
		return nil, err
	}

	s := &Scraper{
		cfg:       cfg,
		launcher:  launcher,
		nav:       &navigator{cfg: cfg},
		extractor: &Extractor{Selectors: cfg.Selectors, MinCells: cfg.MinCells},
		policy:    policy,
		recorder:  &Recorder{Dir: cfg.DiagnosticsDir},
		metrics:   logger.DefaultMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// LauncherFor builds the session launcher selected by cfg.Driver.
func LauncherFor(cfg *config.Config) (session.Launcher, error) {
	switch cfg.Driver {
	case config.DriverChrome:
		return &session.ChromeLauncher{
			ExecPath:     cfg.Browser.ExecPath,
			Headless:     cfg.Browser.Headless,
			UserAgent:    cfg.Browser.UserAgent,
			WindowWidth:  cfg.Browser.WindowWidth,
			WindowHeight: cfg.Browser.WindowHeight,
			Logf:         session.DebugLogf,
		}, nil
	case config.DriverHTTP:
		return &session.HTTPLauncher{
			UserAgent: cfg.Browser.UserAgent,
			Timeout:   cfg.Timeouts.HTTPRequest,
		}, nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

func (s *Scraper) transition(res *Result, state State, page int) {
	res.State = state
	logger.Debug("State changed", logger.Fields{"state": state.String(), "page": page})
	if s.observer != nil {
		s.observer(state, page)
	}
}

// FetchDraws collects the recent draws.
//
// A launch failure returns a *LaunchError and a navigation failure a
// *NavigationError, both with an empty Result. Page failures are reported in
// Result.Pages and never returned as errors. If ctx ends mid-traversal the
// draws collected so far are returned with ctx's error. A panic during the run
// is recovered into an error with an empty Result. The session is released
// exactly once in every case.
func (s *Scraper) FetchDraws(ctx context.Context) (res *Result, err error) {
	res = &Result{State: StateNotStarted}
	started := time.Now()

	sess, err := session.Acquire(ctx, s.launcher)
	if err != nil {
		logger.Error("Failed to launch session", logger.Fields{"driver": s.launcher.Name()}, err)
		s.transition(res, StateClosed, 0)
		return res, err
	}
	s.transition(res, StateLaunched, 0)

	// Registered first so it runs last, after the recover below.
	defer func() {
		if relErr := sess.Release(); relErr != nil {
			logger.Warn("Failed to release session", logger.Fields{"driver": sess.Name()}, relErr)
		}
		s.transition(res, StateClosed, 0)
		s.metrics.RecordTiming("run.duration", time.Since(started))
	}()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scraper: unexpected failure: %v", r)
			res.Draws = nil
			logger.Error("Run aborted", logger.Fields{"state": res.State.String()}, err)
			s.recorder.Record(ctx, sess, SessionTag)
		}
	}()

	route, err := s.nav.reachRecent(ctx, sess)
	if err != nil {
		logger.Error("Failed to reach recent draws view", nil, err)
		s.recorder.Record(ctx, sess, SessionTag)
		return res, err
	}
	res.Route = route
	s.transition(res, StateNavigated, 0)

	markup, err := sess.HTML(ctx)
	if err != nil {
		logger.Warn("Failed to read pagination, assuming one page", nil, err)
		markup = ""
	}
	res.TotalPages = DiscoverPages(markup, s.cfg.Selectors.PaginationLinksCSS, s.policy)
	s.metrics.SetGauge("pages.total", float64(res.TotalPages))
	logger.Info("Discovered pages", logger.Fields{
		"total_pages": res.TotalPages,
		"route":       string(route),
		"policy":      s.policy.Name(),
	})

	seen := make(map[string]bool)
	for page := 1; page <= res.TotalPages; page++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Warn("Run canceled, returning collected draws", logger.Fields{
				"page":  page,
				"draws": len(res.Draws),
			}, ctxErr)
			return res, ctxErr
		}

		pr := s.visit(ctx, sess, res, page, seen)
		res.Pages = append(res.Pages, pr)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}

	s.transition(res, StateCompleted, 0)
	logger.Info("Collected draws", logger.Fields{
		"draws":   len(res.Draws),
		"pages":   res.TotalPages,
		"skipped": len(res.SkippedPages()),
	})
	return res, nil
}

// visit moves to page, extracts it and appends its new draws to res.
func (s *Scraper) visit(ctx context.Context, sess *session.Session, res *Result, page int, seen map[string]bool) PageResult {
	pr := PageResult{Page: page}
	s.metrics.IncrCounter("pages.visited")

	if page > 1 {
		if err := s.nav.goToPage(ctx, sess, page); err != nil {
			pr.Status = StatusNavigationFailed
			pr.Reason = "navigation: " + err.Error()
			pr.Err = err
			pr.Diagnostic = s.recorder.Record(ctx, sess, PageTag(page))
			s.metrics.IncrCounter("pages.skipped")
			logger.Warn("Skipping page", logger.Fields{"page": page}, err)
			return pr
		}
	}
	s.transition(res, StatePageLoaded, page)

	start := time.Now()
	draws, dropped, err := s.extract(ctx, sess)
	s.metrics.RecordTiming("page.extract", time.Since(start))
	if err != nil {
		pr.Status = StatusExtractionFailed
		pr.Reason = "extraction: " + err.Error()
		pr.Err = err
		pr.Diagnostic = s.recorder.Record(ctx, sess, PageTag(page))
		s.metrics.IncrCounter("pages.skipped")
		logger.Warn("Skipping page", logger.Fields{"page": page}, err)
		return pr
	}

	pr.Status = StatusExtracted
	pr.Dropped = dropped
	s.metrics.AddCounter("rows.dropped", int64(dropped))
	for _, d := range draws {
		if seen[d.Period] {
			s.metrics.IncrCounter("rows.duplicate")
			logger.Debug("Skipping duplicate period", logger.Fields{"page": page, "period": d.Period})
			continue
		}
		seen[d.Period] = true
		res.Draws = append(res.Draws, d)
		pr.Records++
	}
	s.transition(res, StateExtracted, page)

	logger.Info("Page extracted", logger.Fields{
		"page":    page,
		"records": pr.Records,
		"dropped": dropped,
	})
	return pr
}

func (s *Scraper) extract(ctx context.Context, sess *session.Session) ([]*draw.Draw, int, error) {
	markup, err := sess.HTML(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("reading page: %w", err)
	}
	return s.extractor.ExtractRows(markup)
}
