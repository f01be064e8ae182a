package session

import (
	"context"

	"github.com/pfrederiksen/dlt-draws/internal/wait"
)

// ElementPresent holds once at least one node matches xpath.
func ElementPresent(d Driver, xpath string) wait.Condition {
	return wait.Func{
		Desc: "presence of " + xpath,
		Fn: func(ctx context.Context) (bool, error) {
			n, err := d.Count(ctx, xpath)
			return n > 0, err
		},
	}
}

// ElementClickable holds once the first node matching xpath is clickable.
func ElementClickable(d Driver, xpath string) wait.Condition {
	return wait.Func{
		Desc: "clickability of " + xpath,
		Fn: func(ctx context.Context) (bool, error) {
			return d.Clickable(ctx, xpath)
		},
	}
}
