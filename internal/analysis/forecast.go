package analysis

import (
	"errors"
	"sort"
	"time"

	"github.com/pfrederiksen/dlt-draws/internal/draw"
)

// MinCutoffSamples is the fewest draws before a cutoff that are needed to
// honor it; with fewer, the forecast uses every draw.
const MinCutoffSamples = 10

// NextDrawGap is the assumed distance from the last draw to the next one.
const NextDrawGap = 2 * 24 * time.Hour

// ErrTooFewSales is returned when fewer than two draws carry sales figures.
var ErrTooFewSales = errors.New("at least two draws with sales are required")

// Forecast is a linear projection of total sales to the next draw.
type Forecast struct {
	Date      time.Time `json:"date"`
	Sales     float64   `json:"sales"`
	Slope     float64   `json:"slope"`
	Intercept float64   `json:"intercept"`
	Samples   int       `json:"samples"`
	// CutoffApplied is false when the cutoff was given but left too few draws.
	CutoffApplied bool `json:"cutoff_applied"`
}

type salesPoint struct {
	date  time.Time
	sales float64
}

// ForecastSales fits sales = Slope*i + Intercept over draws in date order,
// where i is the draw's position, and evaluates it one position past the end.
// Only draws dated before cutoff are used unless cutoff is zero or that leaves
// fewer than MinCutoffSamples draws.
func ForecastSales(draws []*draw.Draw, cutoff time.Time) (*Forecast, error) {
	var points []salesPoint
	for _, d := range draws {
		date := d.Date()
		if d.TotalSales == nil || date.IsZero() {
			continue
		}
		points = append(points, salesPoint{date: date, sales: *d.TotalSales})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].date.Before(points[j].date)
	})

	applied := false
	if !cutoff.IsZero() {
		var before []salesPoint
		for _, p := range points {
			if p.date.Before(cutoff) {
				before = append(before, p)
			}
		}
		if len(before) >= MinCutoffSamples {
			points = before
			applied = true
		}
	}

	if len(points) < 2 {
		return nil, ErrTooFewSales
	}

	slope, intercept := leastSquares(points)
	n := float64(len(points))
	return &Forecast{
		Date:          points[len(points)-1].date.Add(NextDrawGap),
		Sales:         slope*n + intercept,
		Slope:         slope,
		Intercept:     intercept,
		Samples:       len(points),
		CutoffApplied: applied,
	}, nil
}

func leastSquares(points []salesPoint) (slope, intercept float64) {
	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range points {
		x := float64(i)
		sumX += x
		sumY += p.sales
		sumXY += x * p.sales
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
