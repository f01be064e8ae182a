package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/pfrederiksen/dlt-draws/internal/draw"
)

// Notifier defines the interface for announcing draws
type Notifier interface {
	// Notify announces the given draws, oldest first
	Notify(ctx context.Context, draws []*draw.Draw) error
}

// Multi fans out to several notifiers and stops at the first failure.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, draws []*draw.Draw) error {
	for _, n := range m {
		if err := n.Notify(ctx, draws); err != nil {
			return err
		}
	}
	return nil
}

// formatMessage renders a draw as a short announcement.
func formatMessage(d *draw.Draw) string {
	var b strings.Builder
	fmt.Fprintf(&b, "大乐透 第%s期", d.Period)
	if d.DrawDate != "" {
		fmt.Fprintf(&b, " (%s)", d.DrawDate)
	}
	fmt.Fprintf(&b, "\n前区: %s\n后区: %s", padded(d.FrontNumbers), padded(d.BackNumbers))
	if d.TotalSales != nil {
		fmt.Fprintf(&b, "\n销售额: %s元", draw.FormatAmount(d.TotalSales))
	}
	if d.PrizePool != nil {
		fmt.Fprintf(&b, "\n奖池: %s元", draw.FormatAmount(d.PrizePool))
	}
	return b.String()
}

func padded(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, " ")
}
