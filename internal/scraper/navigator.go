package scraper

import (
	"context"
	"fmt"

	"github.com/pfrederiksen/dlt-draws/internal/config"
	"github.com/pfrederiksen/dlt-draws/internal/logger"
	"github.com/pfrederiksen/dlt-draws/internal/session"
	"github.com/pfrederiksen/dlt-draws/internal/wait"
)

// Route is the path taken to the recent-draws view.
type Route string

const (
	RoutePrimary  Route = "primary"
	RouteFallback Route = "fallback"
)

// navigator moves a session from the listing page to page 1 of the recent view.
type navigator struct {
	cfg *config.Config
}

func (n *navigator) waitPresent(ctx context.Context, d session.Driver, xpath string) error {
	return wait.Until(ctx, session.ElementPresent(d, xpath), n.cfg.Timeouts.PageLoad,
		wait.WithInterval(n.cfg.Timeouts.PollInterval))
}

func (n *navigator) waitClickable(ctx context.Context, d session.Driver, xpath string) error {
	return wait.Until(ctx, session.ElementClickable(d, xpath), n.cfg.Timeouts.PageLoad,
		wait.WithInterval(n.cfg.Timeouts.PollInterval))
}

// reachRecent loads the listing and then tries the primary route, falling back
// to the deep link. Any returned error is a *NavigationError.
func (n *navigator) reachRecent(ctx context.Context, d session.Driver) (Route, error) {
	base := n.cfg.BaseURL
	if err := d.Navigate(ctx, base); err != nil {
		return "", &NavigationError{Stage: StageLoad, URL: base, Err: err}
	}
	if err := n.waitPresent(ctx, d, n.cfg.Selectors.ContentXPath); err != nil {
		return "", &NavigationError{Stage: StageLoad, URL: base, Err: err}
	}

	primaryErr := n.primary(ctx, d)
	if primaryErr == nil {
		return RoutePrimary, nil
	}
	if ctx.Err() != nil {
		return "", &NavigationError{Stage: StageFallback, URL: base, Primary: primaryErr, Err: ctx.Err()}
	}

	logger.Warn("Recent view control failed, using deep link", logger.Fields{
		"url": n.cfg.DeepLinkURL,
	}, primaryErr)

	if err := n.fallback(ctx, d); err != nil {
		return "", &NavigationError{Stage: StageFallback, URL: n.cfg.DeepLinkURL, Primary: primaryErr, Err: err}
	}
	return RouteFallback, nil
}

func (n *navigator) primary(ctx context.Context, d session.Driver) error {
	sel := n.cfg.Selectors
	tm := n.cfg.Timeouts

	if err := n.waitClickable(ctx, d, sel.RecentXPath); err != nil {
		return err
	}
	if err := d.ScrollIntoView(ctx, sel.RecentXPath); err != nil {
		return fmt.Errorf("scrolling to recent control: %w", err)
	}
	if err := wait.Settle(ctx, tm.ScrollSettle); err != nil {
		return err
	}
	if err := d.Click(ctx, sel.RecentXPath); err != nil {
		return fmt.Errorf("clicking recent control: %w", err)
	}
	if err := wait.Settle(ctx, tm.ClickSettle); err != nil {
		return err
	}
	return n.waitPresent(ctx, d, sel.PaginationXPath)
}

func (n *navigator) fallback(ctx context.Context, d session.Driver) error {
	if err := d.Navigate(ctx, n.cfg.DeepLinkURL); err != nil {
		return err
	}
	return n.waitPresent(ctx, d, n.cfg.Selectors.ContentXPath)
}
