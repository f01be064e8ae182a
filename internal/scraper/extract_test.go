package scraper

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pfrederiksen/dlt-draws/internal/config"
)

func testExtractor() *Extractor {
	cfg := config.Default()
	return &Extractor{Selectors: cfg.Selectors, MinCells: cfg.MinCells}
}

func TestExtractRows_Page(t *testing.T) {
	draws, dropped, err := testExtractor().ExtractRows(string(loadFixture(t, "recent_page2.html")))
	if err != nil {
		t.Fatalf("ExtractRows() error = %v", err)
	}
	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if len(draws) != 3 {
		t.Fatalf("got %d draws, want 3", len(draws))
	}

	first := draws[0]
	if first.Period != "25072" {
		t.Errorf("Period = %q, want 25072", first.Period)
	}
	if first.DrawDate != "2025-06-25" {
		t.Errorf("DrawDate = %q, want 2025-06-25", first.DrawDate)
	}
	if got := first.FrontString(); got != "2,13,19,24,30" {
		t.Errorf("FrontString() = %q", got)
	}
	if got := first.BackString(); got != "1,5" {
		t.Errorf("BackString() = %q", got)
	}
	if first.TotalSales == nil || *first.TotalSales != 297512004 {
		t.Errorf("TotalSales = %v, want 297512004", first.TotalSales)
	}
	if first.PrizePool == nil || *first.PrizePool != 788963010.55 {
		t.Errorf("PrizePool = %v, want 788963010.55", first.PrizePool)
	}

	if draws[1].TotalSales != nil {
		t.Errorf("non-numeric sales should be absent, got %v", *draws[1].TotalSales)
	}
}

func TestExtractRows_MalformedRows(t *testing.T) {
	draws, dropped, err := testExtractor().ExtractRows(string(loadFixture(t, "malformed_rows.html")))
	if err != nil {
		t.Fatalf("ExtractRows() error = %v", err)
	}

	got := make([]string, 0, len(draws))
	for _, d := range draws {
		got = append(got, d.Period)
	}
	if diff := cmp.Diff([]string{"25075", "25074"}, got); diff != "" {
		t.Errorf("periods mismatch (-want +got):\n%s", diff)
	}
	// Unreadable ball and out-of-range ball; the short row is not counted.
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
}

func TestExtractRows_PlainTextBalls(t *testing.T) {
	markup := `<div class="flcp"><table><tbody><tr>
<td> 24001 </td><td>2024-01-01（一）</td><td>01 02 03 04 05</td><td>06 07</td><td>1,000</td>
<td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td>2,000.5</td>
</tr></tbody></table></div>`

	draws, _, err := testExtractor().ExtractRows(markup)
	if err != nil {
		t.Fatalf("ExtractRows() error = %v", err)
	}
	if len(draws) != 1 {
		t.Fatalf("got %d draws, want 1", len(draws))
	}
	d := draws[0]
	if d.Period != "24001" || d.DrawDate != "2024-01-01" {
		t.Errorf("got period %q date %q", d.Period, d.DrawDate)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4, 5}, d.FrontNumbers); diff != "" {
		t.Errorf("FrontNumbers mismatch (-want +got):\n%s", diff)
	}
	if d.PrizePool == nil || *d.PrizePool != 2000.5 {
		t.Errorf("PrizePool = %v, want 2000.5", d.PrizePool)
	}
}

func TestExtractRows_MissingTable(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{"broken page", string(loadFixture(t, "recent_page2_broken.html"))},
		{"container without table", `<div class="flcp"><p>维护中</p></div>`},
		{"empty document", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := testExtractor().ExtractRows(tt.markup)
			if !errors.Is(err, ErrNoTable) {
				t.Errorf("ExtractRows() error = %v, want ErrNoTable", err)
			}
		})
	}
}

func TestExtractRows_EmptyTable(t *testing.T) {
	draws, dropped, err := testExtractor().ExtractRows(`<div class="flcp"><table><tbody></tbody></table></div>`)
	if err != nil {
		t.Fatalf("ExtractRows() error = %v", err)
	}
	if len(draws) != 0 || dropped != 0 {
		t.Errorf("got %d draws, %d dropped, want none", len(draws), dropped)
	}
	if draws == nil {
		t.Error("draws should be an empty slice, not nil")
	}
}
