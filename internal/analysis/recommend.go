package analysis

import (
	"math/rand/v2"
	"sort"

	"github.com/pfrederiksen/dlt-draws/internal/draw"
)

// Pool sizes the picks are drawn from.
const (
	FrontPool = 10
	BackPool  = 5
)

// Recommend picks draw.FrontCount numbers from the FrontPool most frequent
// front numbers and draw.BackCount from the BackPool most frequent back
// numbers. Both picks are returned ascending.
func Recommend(freq Frequency, rng *rand.Rand) (front, back []int) {
	return pick(Top(freq.Front, FrontPool), draw.FrontCount, rng),
		pick(Top(freq.Back, BackPool), draw.BackCount, rng)
}

func pick(pool []NumberCount, k int, rng *rand.Rand) []int {
	if k > len(pool) {
		k = len(pool)
	}
	out := make([]int, 0, k)
	for _, i := range rng.Perm(len(pool))[:k] {
		out = append(out, pool[i].Number)
	}
	sort.Ints(out)
	return out
}
