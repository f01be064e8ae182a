// Package scraper walks the "recent 100 draws" listing and extracts draw records.
//
// A run acquires one session, reaches the recent-draws view (clicking the
// listing's control, or falling back to a deep link), discovers how many
// result pages exist and visits them in order. Every page yields a PageResult:
// extracted with its records, or skipped with a reason. A failing page never
// aborts the run or discards records from earlier pages. Only a launch failure
// or a navigation failure on both routes is fatal.
//
// Failures are captured by a Recorder as diagnostic snapshots named after the
// page (page_<n>_error.<ext>) or, for session-level failures,
// error_screenshot.<ext>. The session is released exactly once on every path.
package scraper
