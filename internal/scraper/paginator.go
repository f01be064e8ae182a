package scraper

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/dlt-draws/internal/config"
	"github.com/pfrederiksen/dlt-draws/internal/session"
	"github.com/pfrederiksen/dlt-draws/internal/wait"
)

// LastPagePolicy reads the last page number from the pagination link labels,
// in document order. ok is false when no page number can be read.
//
// Which link carries the last page is a guess about the listing's markup.
// Re-check the policy when the pagination control changes.
type LastPagePolicy interface {
	Name() string
	LastPage(labels []string) (page int, ok bool)
}

// SecondToLast treats the second-to-last link as the last page, for controls
// that end with a "next" link.
type SecondToLast struct{}

func (SecondToLast) Name() string { return config.PolicySecondToLast }

func (SecondToLast) LastPage(labels []string) (int, bool) {
	if len(labels) < 2 {
		return 0, false
	}
	return parsePage(labels[len(labels)-2])
}

// LastNumeric takes the last link whose label is a page number.
type LastNumeric struct{}

func (LastNumeric) Name() string { return config.PolicyLastNumeric }

func (LastNumeric) LastPage(labels []string) (int, bool) {
	for i := len(labels) - 1; i >= 0; i-- {
		if n, ok := parsePage(labels[i]); ok {
			return n, true
		}
	}
	return 0, false
}

func parsePage(label string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(label))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// PolicyByName returns the policy registered under name.
func PolicyByName(name string) (LastPagePolicy, error) {
	switch name {
	case config.PolicySecondToLast, "":
		return SecondToLast{}, nil
	case config.PolicyLastNumeric:
		return LastNumeric{}, nil
	default:
		return nil, fmt.Errorf("unknown last page policy %q", name)
	}
}

// DiscoverPages returns the total page count read from the pagination links
// matched by linksCSS. It is 1 when the control is missing or unreadable.
func DiscoverPages(markup, linksCSS string, policy LastPagePolicy) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return 1
	}

	var labels []string
	doc.Find(linksCSS).Each(func(i int, sel *goquery.Selection) {
		labels = append(labels, strings.TrimSpace(sel.Text()))
	})

	if n, ok := policy.LastPage(labels); ok {
		return n
	}
	return 1
}

// goToPage clicks the link for page and waits for it to become active.
func (n *navigator) goToPage(ctx context.Context, d session.Driver, page int) error {
	sel := n.cfg.Selectors
	tm := n.cfg.Timeouts
	link := fmt.Sprintf(sel.PageLinkXPath, page)

	count, err := d.Count(ctx, link)
	if err != nil {
		return fmt.Errorf("locating page link %d: %w", page, err)
	}
	if count == 0 {
		return fmt.Errorf("page link %d not found", page)
	}
	if err := d.ScrollIntoView(ctx, link); err != nil {
		return fmt.Errorf("scrolling to page link %d: %w", page, err)
	}
	if err := wait.Settle(ctx, tm.ScrollSettle); err != nil {
		return err
	}
	if err := d.Click(ctx, link); err != nil {
		return fmt.Errorf("clicking page link %d: %w", page, err)
	}
	if err := n.waitPresent(ctx, d, fmt.Sprintf(sel.ActivePageXPath, page)); err != nil {
		return err
	}
	return wait.Settle(ctx, tm.PageSettle)
}
