package scraper

import "github.com/pfrederiksen/dlt-draws/internal/draw"

// PageStatus is the outcome of visiting one page.
type PageStatus string

const (
	StatusExtracted        PageStatus = "extracted"
	StatusNavigationFailed PageStatus = "navigation_failed"
	StatusExtractionFailed PageStatus = "extraction_failed"
)

// PageResult describes one page of the traversal.
type PageResult struct {
	Page   int
	Status PageStatus
	// Records is the number of draws the page contributed after de-duplication.
	Records int
	// Dropped counts rows that passed the cell-count guard but held invalid numbers.
	Dropped int
	Reason  string
	Err     error
	// Diagnostic is the snapshot path written for a failed page, if any.
	Diagnostic string
}

// Skipped reports whether the page contributed nothing because it failed.
func (p PageResult) Skipped() bool {
	return p.Status != StatusExtracted
}

// Result is the outcome of a run.
type Result struct {
	Draws      []*draw.Draw
	Pages      []PageResult
	TotalPages int
	Route      Route
	State      State
}

// Empty reports whether the run produced no draws.
func (r *Result) Empty() bool {
	return r == nil || len(r.Draws) == 0
}

// SkippedPages returns the pages that failed.
func (r *Result) SkippedPages() []PageResult {
	var skipped []PageResult
	for _, p := range r.Pages {
		if p.Skipped() {
			skipped = append(skipped, p)
		}
	}
	return skipped
}
