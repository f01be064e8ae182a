package analysis

import (
	"sort"

	"github.com/pfrederiksen/dlt-draws/internal/draw"
)

// NumberCount is how many times a number was drawn.
type NumberCount struct {
	Number int `json:"number"`
	Count  int `json:"count"`
}

// Frequency holds counts for every number of both zones, ascending by number.
// Numbers never drawn are included with a zero count.
type Frequency struct {
	Front []NumberCount `json:"front"`
	Back  []NumberCount `json:"back"`
}

// NumberFrequency counts front and back numbers across draws. Numbers outside
// the zone ranges are ignored.
func NumberFrequency(draws []*draw.Draw) Frequency {
	front := make([]int, draw.FrontMax+1)
	back := make([]int, draw.BackMax+1)

	for _, d := range draws {
		for _, n := range d.FrontNumbers {
			if n >= 1 && n <= draw.FrontMax {
				front[n]++
			}
		}
		for _, n := range d.BackNumbers {
			if n >= 1 && n <= draw.BackMax {
				back[n]++
			}
		}
	}

	return Frequency{Front: toCounts(front), Back: toCounts(back)}
}

func toCounts(tally []int) []NumberCount {
	out := make([]NumberCount, 0, len(tally)-1)
	for n := 1; n < len(tally); n++ {
		out = append(out, NumberCount{Number: n, Count: tally[n]})
	}
	return out
}

// Top returns the n most frequent entries, ties broken by the lower number.
func Top(counts []NumberCount, n int) []NumberCount {
	sorted := make([]NumberCount, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Number < sorted[j].Number
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
