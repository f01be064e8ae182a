package notifier

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pfrederiksen/dlt-draws/internal/draw"
)

// DryRunNotifier prints what would be announced without sending anything
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a dry-run notifier writing to out, or stdout when nil
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunNotifier{out: out}
}

// Notify prints the messages that would be posted
func (n *DryRunNotifier) Notify(ctx context.Context, draws []*draw.Draw) error {
	for i, d := range draws {
		msg := formatMessage(d)
		fmt.Fprintf(n.out, "--- Message %d/%d ---\n", i+1, len(draws))
		fmt.Fprintln(n.out, msg)
		fmt.Fprintf(n.out, "\n(Length: %d characters)\n\n", len([]rune(msg)))
	}
	return nil
}
