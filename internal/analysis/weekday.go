package analysis

import (
	"time"

	"github.com/pfrederiksen/dlt-draws/internal/draw"
)

// DrawDays are the weekdays draws are held on, in display order.
var DrawDays = []time.Weekday{time.Monday, time.Wednesday, time.Saturday}

// WeekdaySales is the mean total sales of one draw day.
type WeekdaySales struct {
	Weekday time.Weekday `json:"weekday"`
	Draws   int          `json:"draws"`
	Mean    float64      `json:"mean"`
}

// SalesByWeekday averages total sales per draw day. Draws without sales, with
// an unparsable date or held on another weekday are left out. Days without
// any draws report a zero mean.
func SalesByWeekday(draws []*draw.Draw) []WeekdaySales {
	sums := make(map[time.Weekday]float64)
	counts := make(map[time.Weekday]int)

	for _, d := range draws {
		if d.TotalSales == nil {
			continue
		}
		date := d.Date()
		if date.IsZero() {
			continue
		}
		sums[date.Weekday()] += *d.TotalSales
		counts[date.Weekday()]++
	}

	out := make([]WeekdaySales, 0, len(DrawDays))
	for _, day := range DrawDays {
		ws := WeekdaySales{Weekday: day, Draws: counts[day]}
		if ws.Draws > 0 {
			ws.Mean = sums[day] / float64(ws.Draws)
		}
		out = append(out, ws)
	}
	return out
}

// FrequencyByWeekday counts numbers separately for each draw day.
func FrequencyByWeekday(draws []*draw.Draw) map[time.Weekday]Frequency {
	byDay := make(map[time.Weekday][]*draw.Draw, len(DrawDays))
	for _, d := range draws {
		date := d.Date()
		if date.IsZero() {
			continue
		}
		byDay[date.Weekday()] = append(byDay[date.Weekday()], d)
	}

	out := make(map[time.Weekday]Frequency, len(DrawDays))
	for _, day := range DrawDays {
		out[day] = NumberFrequency(byDay[day])
	}
	return out
}
