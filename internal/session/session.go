// Package session owns the automated browsing session.
//
// A Driver is the capability the scraper drives: navigate, query by XPath,
// scroll, click, read HTML and capture a diagnostic snapshot. Two bindings
// exist, a headless Chrome driven through chromedp and a lighter HTTP fetch
// plus markup parsing binding. Acquire wraps a launched Driver in a Session whose
// Release runs exactly once.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Driver is one live browsing session.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	// Count returns how many nodes match xpath.
	Count(ctx context.Context, xpath string) (int, error)
	// Clickable reports whether the first node matching xpath can be clicked.
	Clickable(ctx context.Context, xpath string) (bool, error)
	ScrollIntoView(ctx context.Context, xpath string) error
	Click(ctx context.Context, xpath string) error
	// HTML returns the markup of the current document.
	HTML(ctx context.Context) (string, error)
	// Screenshot captures the current page; ext names the file type of data.
	Screenshot(ctx context.Context) (data []byte, ext string, err error)
	Close() error
}

// Launcher starts a Driver.
type Launcher interface {
	Name() string
	Launch(ctx context.Context) (Driver, error)
}

// LaunchError means the session could not be started. It is fatal to a run.
type LaunchError struct {
	Driver string
	Err    error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching %s session: %v", e.Driver, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Session is an acquired Driver. Release must be called once per Acquire;
// later calls are no-ops.
type Session struct {
	Driver
	name     string
	once     sync.Once
	released atomic.Bool
}

// Acquire launches a driver through l.
func Acquire(ctx context.Context, l Launcher) (*Session, error) {
	d, err := l.Launch(ctx)
	if err != nil {
		return nil, &LaunchError{Driver: l.Name(), Err: err}
	}
	return &Session{Driver: d, name: l.Name()}, nil
}

// Name returns the launcher name the session was acquired from.
func (s *Session) Name() string { return s.name }

// Release closes the driver the first time it is called and returns the close
// error. Subsequent calls return nil without touching the driver.
func (s *Session) Release() error {
	var err error
	s.once.Do(func() {
		err = s.Driver.Close()
		s.released.Store(true)
	})
	return err
}

// Released reports whether Release has run.
func (s *Session) Released() bool {
	return s.released.Load()
}
