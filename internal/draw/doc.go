// Package draw provides the lottery draw record and the helpers that build it.
//
// A Draw is identified by its period. The package normalizes the date text shown
// on the listing page, coerces amount cells into optional values and detects
// draws that are new relative to a previously saved snapshot.
package draw
