package scraper

import (
	"fmt"

	"github.com/pfrederiksen/dlt-draws/internal/session"
)

// LaunchError is returned when the session cannot be started.
type LaunchError = session.LaunchError

// Navigation stages.
const (
	StageLoad     = "load"
	StageFallback = "fallback"
)

// NavigationError means the recent-draws view could not be reached. Stage is
// StageLoad when the listing itself never loaded, StageFallback when both the
// primary route and the deep link failed.
type NavigationError struct {
	Stage string
	URL   string
	// Primary is the error from the primary route, if it was attempted.
	Primary error
	Err     error
}

func (e *NavigationError) Error() string {
	if e.Primary != nil {
		return fmt.Sprintf("navigation failed at %s (%s): %v (primary route: %v)", e.Stage, e.URL, e.Err, e.Primary)
	}
	return fmt.Sprintf("navigation failed at %s (%s): %v", e.Stage, e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }
