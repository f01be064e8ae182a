package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/dlt-draws/internal/draw"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByPeriod SortOrder = "period"
	SortByDate   SortOrder = "date"
	SortBySales  SortOrder = "sales"
)

// ParseSortOrder validates a --sort value.
func ParseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortByPeriod, SortByDate, SortBySales:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'period', 'date' or 'sales')", s)
	}
}

// sortDraws sorts draws in place, newest or largest first
func sortDraws(draws []*draw.Draw, order SortOrder) {
	switch order {
	case SortByPeriod:
		sort.SliceStable(draws, func(i, j int) bool {
			return draw.ComparePeriods(draws[i].Period, draws[j].Period) > 0
		})
	case SortByDate:
		sort.SliceStable(draws, func(i, j int) bool {
			return compareByDate(draws[i], draws[j])
		})
	case SortBySales:
		sort.SliceStable(draws, func(i, j int) bool {
			si, sj := draws[i].TotalSales, draws[j].TotalSales
			// Draws without sales go last
			if si == nil || sj == nil {
				return si != nil && sj == nil
			}
			if *si != *sj {
				return *si > *sj
			}
			return draw.ComparePeriods(draws[i].Period, draws[j].Period) > 0
		})
	}
}

// compareByDate compares two draws by their date
// Returns true if draw i should come before draw j
func compareByDate(i, j *draw.Draw) bool {
	dateI := i.Date()
	dateJ := j.Date()

	// If both dates are valid, compare them
	if !dateI.IsZero() && !dateJ.IsZero() && !dateI.Equal(dateJ) {
		return dateI.After(dateJ)
	}

	// If only one date is valid, put the valid one first
	if !dateI.IsZero() && dateJ.IsZero() {
		return true
	}
	if dateI.IsZero() && !dateJ.IsZero() {
		return false
	}

	return draw.ComparePeriods(i.Period, j.Period) > 0
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
