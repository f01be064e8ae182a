package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pfrederiksen/dlt-draws/internal/config"
	"github.com/pfrederiksen/dlt-draws/internal/session"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "fixtures", name))
	if err != nil {
		t.Fatalf("failed to load test fixture %s: %v", name, err)
	}
	return data
}

// newFixtureServer serves fixture files by request path; other paths are 404.
func newFixtureServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	pages := make(map[string][]byte, len(routes))
	for path, name := range routes {
		pages[path] = loadFixture(t, name)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

var threePages = map[string]string{
	"/":         "listing.html",
	"/recent/1": "recent_page1.html",
	"/recent/2": "recent_page2.html",
	"/recent/3": "recent_page3.html",
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.BaseURL = baseURL + "/"
	cfg.DeepLinkURL = baseURL + "/recent/1"
	cfg.Driver = config.DriverHTTP
	cfg.Timeouts = config.Timeouts{
		PageLoad:     300 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
		HTTPRequest:  5 * time.Second,
	}
	cfg.DiagnosticsDir = t.TempDir()
	return cfg
}

// countingLauncher launches HTTP drivers, optionally wrapped, and counts Close calls.
type countingLauncher struct {
	inner  session.Launcher
	wrap   func(session.Driver) session.Driver
	closes atomic.Int32
}

func newCountingLauncher(wrap func(session.Driver) session.Driver) *countingLauncher {
	return &countingLauncher{
		inner: &session.HTTPLauncher{UserAgent: config.DefaultUserAgent, Timeout: 5 * time.Second},
		wrap:  wrap,
	}
}

func (l *countingLauncher) Name() string { return "counting" }

func (l *countingLauncher) Launch(ctx context.Context) (session.Driver, error) {
	d, err := l.inner.Launch(ctx)
	if err != nil {
		return nil, err
	}
	if l.wrap != nil {
		d = l.wrap(d)
	}
	return &countingDriver{Driver: d, closes: &l.closes}, nil
}

type countingDriver struct {
	session.Driver
	closes *atomic.Int32
}

func (d *countingDriver) Close() error {
	d.closes.Add(1)
	return d.Driver.Close()
}

// clickFailingDriver refuses clicks on one locator.
type clickFailingDriver struct {
	session.Driver
	xpath string
}

func (d *clickFailingDriver) Click(ctx context.Context, xpath string) error {
	if xpath == d.xpath {
		return errors.New("element click intercepted")
	}
	return d.Driver.Click(ctx, xpath)
}

// panickingDriver panics on the n-th HTML call.
type panickingDriver struct {
	session.Driver
	n     int
	calls int
}

func (d *panickingDriver) HTML(ctx context.Context) (string, error) {
	d.calls++
	if d.calls == d.n {
		panic("renderer crashed")
	}
	return d.Driver.HTML(ctx)
}

// crashedDriver panics on every HTML and Screenshot call.
type crashedDriver struct {
	session.Driver
}

func (d *crashedDriver) HTML(ctx context.Context) (string, error) {
	panic("renderer crashed")
}

func (d *crashedDriver) Screenshot(ctx context.Context) ([]byte, string, error) {
	panic("renderer crashed")
}

func periods(res *Result) []string {
	out := make([]string, 0, len(res.Draws))
	for _, d := range res.Draws {
		out = append(out, d.Period)
	}
	return out
}
