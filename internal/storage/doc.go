// Package storage persists draw data between runs.
//
// The last run's draws are kept as a JSON snapshot (snapshot.json) so the next
// run can report which periods are new. Draws are also exported as a flat CSV
// table with the columns period, draw_date, front_numbers, back_numbers,
// total_sales and prize_pool. The default storage location is
// ~/.local/share/dlt-draws/.
package storage
