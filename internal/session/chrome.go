package session

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/pfrederiksen/dlt-draws/internal/logger"
)

// DebugLogf forwards chromedp protocol messages to the debug log.
func DebugLogf(format string, args ...interface{}) {
	logger.Debug(fmt.Sprintf(format, args...), logger.Fields{"source": "chromedp"})
}

// hideWebdriver runs before any page script so navigator.webdriver reads undefined.
const hideWebdriver = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`

// clickableJS evaluates to true when the first node matching an XPath is rendered,
// visible and not disabled.
const clickableJS = `(function(xp) {
	const el = document.evaluate(xp, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	if (!el) return false;
	const style = window.getComputedStyle(el);
	if (style.display === 'none' || style.visibility === 'hidden') return false;
	const rect = el.getBoundingClientRect();
	return rect.width > 0 && rect.height > 0 && !el.disabled;
})(%s)`

// ChromeLauncher starts a headless Chrome configured for unattended use.
type ChromeLauncher struct {
	// ExecPath is the browser binary. Empty means chromedp's lookup.
	ExecPath     string
	Headless     bool
	UserAgent    string
	WindowWidth  int
	WindowHeight int
	Logf         func(string, ...interface{})
}

func (l *ChromeLauncher) Name() string { return "chrome" }

// Launch starts the browser and opens one tab.
func (l *ChromeLauncher) Launch(ctx context.Context) (Driver, error) {
	if l.ExecPath != "" {
		if _, err := os.Stat(l.ExecPath); err != nil {
			return nil, fmt.Errorf("chrome binary not found at %s: %w", l.ExecPath, err)
		}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	)
	if l.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(l.UserAgent))
	}
	if l.WindowWidth > 0 && l.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(l.WindowWidth, l.WindowHeight))
	}
	if l.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.ExecPath))
	}

	logf := l.Logf
	if logf == nil {
		logf = DebugLogf
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(logf))

	err := chromedp.Run(browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(hideWebdriver).Do(ctx)
		return err
	}))
	if err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &chromeDriver{
		ctx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
	}, nil
}

type chromeDriver struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// run executes actions on the tab context, bounded by the caller's ctx.
func (d *chromeDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(d.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	return chromedp.Run(runCtx, actions...)
}

func (d *chromeDriver) Navigate(ctx context.Context, url string) error {
	return d.run(ctx, chromedp.Navigate(url))
}

func (d *chromeDriver) Count(ctx context.Context, xpath string) (int, error) {
	var nodes []*cdp.Node
	if err := d.run(ctx, chromedp.Nodes(xpath, &nodes, chromedp.BySearch, chromedp.AtLeast(0))); err != nil {
		return 0, err
	}
	return len(nodes), nil
}

func (d *chromeDriver) Clickable(ctx context.Context, xpath string) (bool, error) {
	var ok bool
	expr := fmt.Sprintf(clickableJS, strconv.Quote(xpath))
	if err := d.run(ctx, chromedp.Evaluate(expr, &ok)); err != nil {
		return false, err
	}
	return ok, nil
}

func (d *chromeDriver) ScrollIntoView(ctx context.Context, xpath string) error {
	return d.run(ctx, chromedp.ScrollIntoView(xpath, chromedp.BySearch))
}

func (d *chromeDriver) Click(ctx context.Context, xpath string) error {
	return d.run(ctx, chromedp.Click(xpath, chromedp.BySearch))
}

func (d *chromeDriver) HTML(ctx context.Context) (string, error) {
	var html string
	if err := d.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

func (d *chromeDriver) Screenshot(ctx context.Context) ([]byte, string, error) {
	var buf []byte
	if err := d.run(ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, "", err
	}
	return buf, "png", nil
}

func (d *chromeDriver) Close() error {
	err := chromedp.Cancel(d.ctx)
	d.cancel()
	return err
}
