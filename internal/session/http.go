package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

var errNoDocument = errors.New("no document loaded")

// HTTPLauncher fetches pages over plain HTTP and evaluates the same XPath
// locators against the parsed markup. Clicking follows the element's href or
// data-href. It has no script engine, so it only fits pages whose views are
// reachable by URL.
type HTTPLauncher struct {
	UserAgent string
	Timeout   time.Duration
}

func (l *HTTPLauncher) Name() string { return "http" }

// Launch builds the HTTP client; nothing is fetched yet.
func (l *HTTPLauncher) Launch(ctx context.Context) (Driver, error) {
	client := resty.New()
	if l.UserAgent != "" {
		client.SetHeader("User-Agent", l.UserAgent)
	}
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)
	return &httpDriver{client: client}, nil
}

type httpDriver struct {
	client *resty.Client
	url    *url.URL
	doc    *html.Node
}

func (d *httpDriver) Navigate(ctx context.Context, target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("parsing url %q: %w", target, err)
	}

	resp, err := d.client.R().SetContext(ctx).Get(u.String())
	if err != nil {
		return fmt.Errorf("fetching page: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	doc, err := htmlquery.Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return fmt.Errorf("parsing HTML: %w", err)
	}
	d.url = u
	d.doc = doc
	return nil
}

func (d *httpDriver) query(xpath string) ([]*html.Node, error) {
	if d.doc == nil {
		return nil, errNoDocument
	}
	nodes, err := htmlquery.QueryAll(d.doc, xpath)
	if err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", xpath, err)
	}
	return nodes, nil
}

func (d *httpDriver) first(xpath string) (*html.Node, error) {
	nodes, err := d.query(xpath)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no element matches %s", xpath)
	}
	return nodes[0], nil
}

func (d *httpDriver) Count(ctx context.Context, xpath string) (int, error) {
	nodes, err := d.query(xpath)
	return len(nodes), err
}

// target returns where clicking n would lead, empty when nowhere.
func target(n *html.Node) string {
	for _, attr := range []string{"href", "data-href"} {
		v := strings.TrimSpace(htmlquery.SelectAttr(n, attr))
		if v == "" || v == "#" || strings.HasPrefix(strings.ToLower(v), "javascript:") {
			continue
		}
		return v
	}
	return ""
}

func (d *httpDriver) Clickable(ctx context.Context, xpath string) (bool, error) {
	nodes, err := d.query(xpath)
	if err != nil || len(nodes) == 0 {
		return false, err
	}
	return target(nodes[0]) != "", nil
}

func (d *httpDriver) ScrollIntoView(ctx context.Context, xpath string) error {
	_, err := d.first(xpath)
	return err
}

func (d *httpDriver) Click(ctx context.Context, xpath string) error {
	n, err := d.first(xpath)
	if err != nil {
		return err
	}
	ref := target(n)
	if ref == "" {
		return fmt.Errorf("element %s has no link target", xpath)
	}
	next, err := d.url.Parse(ref)
	if err != nil {
		return fmt.Errorf("resolving link %q: %w", ref, err)
	}
	return d.Navigate(ctx, next.String())
}

func (d *httpDriver) HTML(ctx context.Context) (string, error) {
	if d.doc == nil {
		return "", errNoDocument
	}
	return htmlquery.OutputHTML(d.doc, true), nil
}

// Screenshot has no visual form in this binding; it returns the current markup.
func (d *httpDriver) Screenshot(ctx context.Context) ([]byte, string, error) {
	markup, err := d.HTML(ctx)
	if err != nil {
		return nil, "", err
	}
	return []byte(markup), "html", nil
}

func (d *httpDriver) Close() error {
	d.doc = nil
	d.url = nil
	return nil
}
