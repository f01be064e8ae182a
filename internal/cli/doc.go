// Package cli implements the command-line interface for dlt-draws.
//
// The cli package provides the Cobra-based CLI. fetch runs the scraper, writes
// the draw table as CSV, updates the snapshot and archive and reports draws not
// seen before. stats summarizes a CSV export or the archive. show prints the
// saved snapshot. Output is a text table, JSON or CSV.
package cli
