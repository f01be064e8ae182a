package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pfrederiksen/dlt-draws/internal/analysis"
	"github.com/pfrederiksen/dlt-draws/internal/draw"
	"github.com/pfrederiksen/dlt-draws/internal/logger"
	"github.com/pfrederiksen/dlt-draws/internal/storage"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

// ParseFormat validates s against the formats a command supports.
func ParseFormat(s string, allowed ...OutputFormat) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	names := make([]string, 0, len(allowed))
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
		names = append(names, string(a))
	}
	return "", fmt.Errorf("invalid format: %s (must be one of %s)", s, strings.Join(names, ", "))
}

// PageSummary is the per-page part of FetchOutput.
type PageSummary struct {
	Page       int    `json:"page"`
	Status     string `json:"status"`
	Records    int    `json:"records"`
	Dropped    int    `json:"dropped,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// FetchOutput contains data to be output after a fetch
type FetchOutput struct {
	CheckedAt  time.Time               `json:"checked_at"`
	Route      string                  `json:"route"`
	TotalPages int                     `json:"total_pages"`
	Pages      []PageSummary           `json:"pages"`
	DrawCount  int                     `json:"draw_count"`
	NewDraws   []*draw.Draw            `json:"new_draws"`
	NewCount   int                     `json:"new_count"`
	Draws      []*draw.Draw            `json:"draws,omitempty"`
	Metrics    *logger.MetricsSnapshot `json:"metrics,omitempty"`
}

// WriteFetchOutput writes the result in the specified format
func WriteFetchOutput(w io.Writer, out *FetchOutput, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, out)
	case FormatCSV:
		return storage.WriteCSV(w, out.Draws)
	case FormatText:
		return writeFetchText(w, out, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteDraws writes a plain list of draws.
func WriteDraws(w io.Writer, draws []*draw.Draw, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, draws)
	case FormatCSV:
		return storage.WriteCSV(w, draws)
	case FormatText:
		if len(draws) == 0 {
			fmt.Fprintln(w, "No draws saved yet.")
			return nil
		}
		writeDrawTable(w, "", draws)
		fmt.Fprintf(w, "\nTotal: %d draws\n", len(draws))
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func writeDrawTable(w io.Writer, title string, draws []*draw.Draw) {
	t := newTable(w)
	if title != "" {
		t.SetTitle(title)
	}
	t.AppendHeader(table.Row{"Period", "Date", "Front", "Back", "Sales", "Prize pool"})
	for _, d := range draws {
		t.AppendRow(table.Row{
			d.Period,
			d.DrawDate,
			padded(d.FrontNumbers),
			padded(d.BackNumbers),
			draw.FormatAmount(d.TotalSales),
			draw.FormatAmount(d.PrizePool),
		})
	}
	t.Render()
}

// writeFetchText outputs a fetch as human-readable text
func writeFetchText(w io.Writer, out *FetchOutput, verbose bool) error {
	fmt.Fprintf(w, "Collected %d draws from %d pages (%s route)\n", out.DrawCount, out.TotalPages, out.Route)

	var skipped []PageSummary
	for _, p := range out.Pages {
		if p.Status != "extracted" {
			skipped = append(skipped, p)
		}
	}
	if len(skipped) > 0 || verbose {
		t := newTable(w)
		t.AppendHeader(table.Row{"Page", "Status", "Records", "Dropped", "Reason"})
		pages := skipped
		if verbose {
			pages = out.Pages
		}
		for _, p := range pages {
			t.AppendRow(table.Row{p.Page, p.Status, p.Records, p.Dropped, p.Reason})
		}
		t.Render()
	}

	if out.NewCount == 0 {
		fmt.Fprintln(w, "No new draws found.")
	} else {
		writeDrawTable(w, fmt.Sprintf("%d new draws", out.NewCount), out.NewDraws)
	}

	if verbose && out.Metrics != nil {
		writeMetrics(w, out.Metrics)
	}
	return nil
}

func writeMetrics(w io.Writer, m *logger.MetricsSnapshot) {
	t := newTable(w)
	t.SetTitle("Metrics")
	t.AppendHeader(table.Row{"Name", "Value"})
	for _, name := range sortedKeys(m.Counters) {
		t.AppendRow(table.Row{name, m.Counters[name]})
	}
	for _, name := range sortedKeys(m.Gauges) {
		t.AppendRow(table.Row{name, m.Gauges[name]})
	}
	for _, name := range sortedKeys(m.Timings) {
		s := m.Timings[name]
		t.AppendRow(table.Row{name, fmt.Sprintf("%d runs, avg %s", s.Count, s.Average.Round(time.Millisecond))})
	}
	t.Render()
}

// StatsOutput is everything the stats command reports.
type StatsOutput struct {
	Draws         int                                 `json:"draws"`
	Overview      analysis.Overview                   `json:"overview"`
	Frequency     analysis.Frequency                  `json:"frequency"`
	Weekdays      []analysis.WeekdaySales             `json:"weekdays"`
	ByWeekday     map[time.Weekday]analysis.Frequency `json:"by_weekday"`
	Forecast      *analysis.Forecast                  `json:"forecast,omitempty"`
	ForecastError string                              `json:"forecast_error,omitempty"`
	Pick          struct {
		Front []int `json:"front"`
		Back  []int `json:"back"`
	} `json:"pick"`
}

// WriteStatsOutput writes stats in the specified format
func WriteStatsOutput(w io.Writer, out *StatsOutput, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, out)
	case FormatText:
		writeStatsText(w, out)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeStatsText(w io.Writer, out *StatsOutput) {
	fmt.Fprintf(w, "Analyzed %d draws\n", out.Draws)

	o := out.Overview
	t := newTable(w)
	t.SetTitle("Overview")
	t.AppendRow(table.Row{"Draws", o.Draws})
	if !o.FirstDate.IsZero() {
		t.AppendRow(table.Row{"Date range", o.FirstDate.Format(draw.DateLayout) + " to " + o.LastDate.Format(draw.DateLayout)})
	}
	t.AppendRow(table.Row{"Total sales", fmt.Sprintf("%.2f", o.TotalSales)})
	t.AppendRow(table.Row{"Mean sales", fmt.Sprintf("%.2f (%d draws with sales)", o.MeanSales, o.SalesDraws)})
	t.Render()

	t = newTable(w)
	t.SetTitle("Most frequent numbers")
	t.AppendHeader(table.Row{"Rank", "Front", "Count", "Back", "Count"})
	front := analysis.Top(out.Frequency.Front, analysis.FrontPool)
	back := analysis.Top(out.Frequency.Back, analysis.BackPool)
	for i := range front {
		row := table.Row{i + 1, fmt.Sprintf("%02d", front[i].Number), front[i].Count, "", ""}
		if i < len(back) {
			row[3] = fmt.Sprintf("%02d", back[i].Number)
			row[4] = back[i].Count
		}
		t.AppendRow(row)
	}
	t.Render()

	t = newTable(w)
	t.SetTitle("Sales by draw day")
	t.AppendHeader(table.Row{"Day", "Draws", "Mean sales"})
	for _, ws := range out.Weekdays {
		t.AppendRow(table.Row{ws.Weekday.String(), ws.Draws, fmt.Sprintf("%.0f", ws.Mean)})
	}
	t.Render()

	if len(out.ByWeekday) > 0 {
		t = newTable(w)
		t.SetTitle("Most frequent numbers by draw day")
		t.AppendHeader(table.Row{"Day", "Front", "Back"})
		for _, day := range analysis.DrawDays {
			freq, ok := out.ByWeekday[day]
			if !ok {
				continue
			}
			t.AppendRow(table.Row{
				day.String(),
				rankedNumbers(analysis.Top(freq.Front, dayTopFront)),
				rankedNumbers(analysis.Top(freq.Back, dayTopBack)),
			})
		}
		t.Render()
	}

	if out.Forecast != nil {
		fmt.Fprintf(w, "Forecast for %s: %.0f (from %d draws)\n",
			out.Forecast.Date.Format(draw.DateLayout), out.Forecast.Sales, out.Forecast.Samples)
	} else if out.ForecastError != "" {
		fmt.Fprintf(w, "Forecast unavailable: %s\n", out.ForecastError)
	}

	fmt.Fprintf(w, "Suggested pick: %s + %s\n", padded(out.Pick.Front), padded(out.Pick.Back))
}

const (
	dayTopFront = 5
	dayTopBack  = 2
)

// rankedNumbers renders counts as "07(4) 12(3)", skipping numbers never drawn.
func rankedNumbers(counts []analysis.NumberCount) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		if c.Count == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%02d(%d)", c.Number, c.Count))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func padded(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, " ")
}
