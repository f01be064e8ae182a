// Package wait implements bounded condition polling.
//
// Until is the only place the scraper blocks on page state: it polls a
// Condition at a fixed interval until the condition holds or the timeout
// elapses. Settle is the fixed pause used where the page gives no completion
// signal.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultInterval is the polling interval used when none is given.
const DefaultInterval = 250 * time.Millisecond

// ErrTimeout is matched by every error Until returns after its timeout elapses.
var ErrTimeout = errors.New("wait: timed out")

var errNotYet = errors.New("condition not satisfied")

// Condition is a predicate checked against live session state.
type Condition interface {
	Check(ctx context.Context) (bool, error)
	String() string
}

// Func adapts a function to a Condition.
type Func struct {
	Desc string
	Fn   func(ctx context.Context) (bool, error)
}

func (f Func) Check(ctx context.Context) (bool, error) { return f.Fn(ctx) }
func (f Func) String() string                           { return f.Desc }

// TimeoutError reports a condition that never held.
type TimeoutError struct {
	Condition string
	Timeout   time.Duration
	// Last is the most recent error returned by the condition, if any.
	Last error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("wait: %s not satisfied within %s", e.Condition, e.Timeout)
	if e.Last != nil {
		msg += ": " + e.Last.Error()
	}
	return msg
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }
func (e *TimeoutError) Unwrap() error        { return e.Last }

type options struct {
	interval time.Duration
}

// Option configures Until.
type Option func(*options)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// Until checks cond immediately and then every interval until it returns true.
// An error from Check counts as "not yet"; the last one is kept on the
// TimeoutError. If ctx ends first its error is returned instead.
func Until(ctx context.Context, cond Condition, timeout time.Duration, opts ...Option) error {
	o := options{interval: DefaultInterval}
	for _, opt := range opts {
		opt(&o)
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var last error
	op := func() error {
		ok, err := cond.Check(waitCtx)
		if err != nil {
			last = err
			return err
		}
		if !ok {
			return errNotYet
		}
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.NewConstantBackOff(o.interval), waitCtx))
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &TimeoutError{Condition: cond.String(), Timeout: timeout, Last: last}
}

// Settle pauses for d. A zero or negative d returns immediately.
func Settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
