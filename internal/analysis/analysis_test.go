package analysis

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/dlt-draws/internal/draw"
)

func ptr(v float64) *float64 { return &v }

func mk(period, date string, front, back []int, sales *float64) *draw.Draw {
	return draw.New(period, date, front, back, sales, nil)
}

func TestNumberFrequency(t *testing.T) {
	draws := []*draw.Draw{
		mk("1", "2025-06-30", []int{1, 2, 3, 4, 35}, []int{1, 12}, nil),
		mk("2", "2025-07-02", []int{1, 2, 10, 20, 30}, []int{1, 2}, nil),
	}

	freq := NumberFrequency(draws)

	require.Len(t, freq.Front, draw.FrontMax)
	require.Len(t, freq.Back, draw.BackMax)
	assert.Equal(t, NumberCount{Number: 1, Count: 2}, freq.Front[0])
	assert.Equal(t, NumberCount{Number: 35, Count: 1}, freq.Front[34])
	assert.Equal(t, 0, freq.Front[4].Count, "number 5 was never drawn")
	assert.Equal(t, 2, freq.Back[0].Count)
	assert.Equal(t, 1, freq.Back[11].Count)
}

func TestNumberFrequency_Empty(t *testing.T) {
	freq := NumberFrequency(nil)

	assert.Len(t, freq.Front, draw.FrontMax)
	for _, c := range freq.Front {
		assert.Zero(t, c.Count)
	}
}

func TestTop(t *testing.T) {
	counts := []NumberCount{{1, 3}, {2, 5}, {3, 3}, {4, 0}}

	got := Top(counts, 3)

	assert.Equal(t, []NumberCount{{2, 5}, {1, 3}, {3, 3}}, got)
	assert.Equal(t, NumberCount{1, 3}, counts[0], "input must not be reordered")
	assert.Len(t, Top(counts, 10), 4)
}

func TestSalesByWeekday(t *testing.T) {
	draws := []*draw.Draw{
		mk("1", "2025-06-30", nil, nil, ptr(100)), // Monday
		mk("2", "2025-07-07", nil, nil, ptr(300)), // Monday
		mk("3", "2025-07-02", nil, nil, ptr(250)), // Wednesday
		mk("4", "2025-07-05", nil, nil, nil),      // Saturday, no sales
		mk("5", "2025-07-03", nil, nil, ptr(999)), // Thursday
		mk("6", "not a date", nil, nil, ptr(999)),
	}

	got := SalesByWeekday(draws)

	want := []WeekdaySales{
		{Weekday: time.Monday, Draws: 2, Mean: 200},
		{Weekday: time.Wednesday, Draws: 1, Mean: 250},
		{Weekday: time.Saturday, Draws: 0, Mean: 0},
	}
	assert.Equal(t, want, got)
}

func TestFrequencyByWeekday(t *testing.T) {
	draws := []*draw.Draw{
		mk("1", "2025-06-30", []int{1, 2, 3, 4, 5}, []int{1, 2}, nil), // Monday
		mk("2", "2025-07-02", []int{1, 6, 7, 8, 9}, []int{3, 4}, nil), // Wednesday
	}

	byDay := FrequencyByWeekday(draws)

	require.Contains(t, byDay, time.Saturday)
	assert.Equal(t, 1, byDay[time.Monday].Front[1].Count)
	assert.Equal(t, 0, byDay[time.Wednesday].Front[1].Count)
	assert.Equal(t, 1, byDay[time.Wednesday].Front[0].Count)
}

func TestSummarize(t *testing.T) {
	draws := []*draw.Draw{
		mk("3", "2025-07-02", nil, nil, ptr(300)),
		mk("1", "2025-06-28", nil, nil, ptr(100)),
		mk("2", "2025-06-30", nil, nil, nil),
		mk("4", "not a date", nil, nil, ptr(200)),
	}

	o := Summarize(draws)

	assert.Equal(t, 4, o.Draws)
	assert.True(t, o.FirstDate.Equal(time.Date(2025, 6, 28, 0, 0, 0, 0, time.UTC)), "FirstDate = %v", o.FirstDate)
	assert.True(t, o.LastDate.Equal(time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)), "LastDate = %v", o.LastDate)
	assert.Equal(t, 3, o.SalesDraws)
	assert.InDelta(t, 600, o.TotalSales, 1e-9)
	assert.InDelta(t, 200, o.MeanSales, 1e-9)
}

func TestSummarize_Empty(t *testing.T) {
	o := Summarize(nil)

	assert.Zero(t, o.Draws)
	assert.True(t, o.FirstDate.IsZero())
	assert.Zero(t, o.MeanSales)
}

func series(start time.Time, sales ...float64) []*draw.Draw {
	draws := make([]*draw.Draw, 0, len(sales))
	for i, s := range sales {
		date := start.AddDate(0, 0, 2*i).Format(draw.DateLayout)
		draws = append(draws, mk(date, date, nil, nil, ptr(s)))
	}
	return draws
}

func TestForecastSales_Linear(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	draws := series(start, 100, 110, 120, 130)
	// Input order must not matter.
	draws[0], draws[3] = draws[3], draws[0]

	f, err := ForecastSales(draws, time.Time{})
	require.NoError(t, err)

	assert.InDelta(t, 10, f.Slope, 1e-9)
	assert.InDelta(t, 100, f.Intercept, 1e-9)
	assert.InDelta(t, 140, f.Sales, 1e-9)
	assert.Equal(t, 4, f.Samples)
	assert.True(t, f.Date.Equal(start.AddDate(0, 0, 8)), "next draw date = %v", f.Date)
	assert.False(t, f.CutoffApplied)
}

func TestForecastSales_Cutoff(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	sales := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100, 500, 900}
	draws := series(start, sales...)
	cutoff := start.AddDate(0, 0, 20) // excludes the last two draws

	f, err := ForecastSales(draws, cutoff)
	require.NoError(t, err)

	assert.True(t, f.CutoffApplied)
	assert.Equal(t, 10, f.Samples)
	assert.InDelta(t, 110, f.Sales, 1e-9)
}

func TestForecastSales_CutoffTooEarly(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	draws := series(start, 10, 20, 30)

	f, err := ForecastSales(draws, start.AddDate(0, 0, 3))
	require.NoError(t, err)

	assert.False(t, f.CutoffApplied)
	assert.Equal(t, 3, f.Samples)
}

func TestForecastSales_TooFew(t *testing.T) {
	draws := []*draw.Draw{
		mk("1", "2025-06-30", nil, nil, ptr(100)),
		mk("2", "2025-07-02", nil, nil, nil),
	}

	_, err := ForecastSales(draws, time.Time{})
	assert.ErrorIs(t, err, ErrTooFewSales)
}

func TestForecastSales_Flat(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	f, err := ForecastSales(series(start, 50, 50), time.Time{})
	require.NoError(t, err)
	assert.InDelta(t, 50, f.Sales, 1e-9)
}

func TestRecommend(t *testing.T) {
	draws := []*draw.Draw{
		mk("1", "2025-06-30", []int{1, 2, 3, 4, 5}, []int{1, 2}, nil),
		mk("2", "2025-07-02", []int{1, 2, 3, 4, 6}, []int{1, 3}, nil),
		mk("3", "2025-07-05", []int{1, 2, 3, 7, 8}, []int{1, 4}, nil),
	}
	freq := NumberFrequency(draws)
	frontPool := map[int]bool{}
	for _, c := range Top(freq.Front, FrontPool) {
		frontPool[c.Number] = true
	}
	backPool := map[int]bool{}
	for _, c := range Top(freq.Back, BackPool) {
		backPool[c.Number] = true
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		front, back := Recommend(freq, rng)

		require.Len(t, front, draw.FrontCount)
		require.Len(t, back, draw.BackCount)
		assert.IsIncreasing(t, front)
		assert.IsIncreasing(t, back)
		for _, n := range front {
			assert.True(t, frontPool[n], "front pick %d outside the top %d", n, FrontPool)
		}
		for _, n := range back {
			assert.True(t, backPool[n], "back pick %d outside the top %d", n, BackPool)
		}
	}
}

func TestRecommend_Deterministic(t *testing.T) {
	freq := NumberFrequency(nil)

	f1, b1 := Recommend(freq, rand.New(rand.NewPCG(7, 7)))
	f2, b2 := Recommend(freq, rand.New(rand.NewPCG(7, 7)))

	assert.Equal(t, f1, f2)
	assert.Equal(t, b1, b2)
}
