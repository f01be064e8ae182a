// Package analysis summarizes a draw collection.
//
// It counts how often every number was drawn, compares average sales across
// the three weekly draw days, fits a straight line through sales to project
// the next draw and picks numbers from the most frequent ones. The results
// are descriptive only; none of them predict draw outcomes.
package analysis
