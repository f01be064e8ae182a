package draw

import "sort"

// Snapshot is the set of draws saved by the previous run.
type Snapshot struct {
	Draws     map[string]*Draw `json:"draws"` // keyed by Draw.Period
	UpdatedAt string           `json:"updated_at"`
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Draws: make(map[string]*Draw),
	}
}

// CreateSnapshot creates a snapshot from a list of draws
func CreateSnapshot(draws []*Draw, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt
	for _, d := range draws {
		snap.Draws[d.Period] = d
	}
	return snap
}

// Sorted returns the snapshot's draws ordered by period, newest first.
func (s *Snapshot) Sorted() []*Draw {
	out := make([]*Draw, 0, len(s.Draws))
	for _, d := range s.Draws {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return ComparePeriods(out[i].Period, out[j].Period) > 0
	})
	return out
}

// DiffResult contains the results of comparing a run against a snapshot
type DiffResult struct {
	NewDraws []*Draw
}

// Diff returns the current draws whose period is absent from previous,
// sorted by period ascending.
func Diff(previous *Snapshot, current []*Draw) *DiffResult {
	if previous == nil {
		previous = NewSnapshot()
	}

	result := &DiffResult{NewDraws: make([]*Draw, 0)}
	for _, d := range current {
		if _, exists := previous.Draws[d.Period]; !exists {
			result.NewDraws = append(result.NewDraws, d)
		}
	}

	sort.Slice(result.NewDraws, func(i, j int) bool {
		return ComparePeriods(result.NewDraws[i].Period, result.NewDraws[j].Period) < 0
	})
	return result
}

// ComparePeriods orders period identifiers. Periods are numeric strings on the
// listing page, so shorter ones sort first; equal lengths compare lexically.
func ComparePeriods(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
