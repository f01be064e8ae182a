package analysis

import (
	"time"

	"github.com/pfrederiksen/dlt-draws/internal/draw"
)

// Overview summarizes the data set a report is built from.
type Overview struct {
	Draws      int       `json:"draws"`
	FirstDate  time.Time `json:"first_date"`
	LastDate   time.Time `json:"last_date"`
	SalesDraws int       `json:"sales_draws"`
	TotalSales float64   `json:"total_sales"`
	MeanSales  float64   `json:"mean_sales"`
}

// Summarize counts the draws, finds their date range and totals sales.
// MeanSales averages over draws that carry sales only. Unparsable dates are
// ignored for the range.
func Summarize(draws []*draw.Draw) Overview {
	o := Overview{Draws: len(draws)}
	for _, d := range draws {
		if date := d.Date(); !date.IsZero() {
			if o.FirstDate.IsZero() || date.Before(o.FirstDate) {
				o.FirstDate = date
			}
			if date.After(o.LastDate) {
				o.LastDate = date
			}
		}
		if d.TotalSales != nil {
			o.SalesDraws++
			o.TotalSales += *d.TotalSales
		}
	}
	if o.SalesDraws > 0 {
		o.MeanSales = o.TotalSales / float64(o.SalesDraws)
	}
	return o
}
