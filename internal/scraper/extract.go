package scraper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/dlt-draws/internal/config"
	"github.com/pfrederiksen/dlt-draws/internal/draw"
	"github.com/pfrederiksen/dlt-draws/internal/logger"
)

// Column positions in a draw row.
const (
	colPeriod    = 0
	colDate      = 1
	colFront     = 2
	colBack      = 3
	colSales     = 4
	colPrizePool = 13
)

// ErrNoTable is returned when the page has no draw table to read.
var ErrNoTable = errors.New("draw table not found")

// Extractor converts a listing page into draws.
type Extractor struct {
	Selectors config.Selectors
	// MinCells is the fewest cells a row needs to be read at all.
	MinCells int
}

// ExtractRows reads every table row of the page. Rows with fewer than MinCells
// cells are skipped silently; rows with unreadable or out-of-range ball numbers
// are counted in dropped. err is set only when the table itself is missing.
func (e *Extractor) ExtractRows(markup string) (draws []*draw.Draw, dropped int, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, 0, fmt.Errorf("parsing HTML: %w", err)
	}

	content := doc.Find(e.Selectors.ContentCSS).First()
	if content.Length() == 0 {
		return nil, 0, fmt.Errorf("%w: no %s container", ErrNoTable, e.Selectors.ContentCSS)
	}
	if content.Find("table").Length() == 0 {
		return nil, 0, fmt.Errorf("%w: %s has no table", ErrNoTable, e.Selectors.ContentCSS)
	}

	minCells := e.MinCells
	if minCells <= colPrizePool {
		minCells = colPrizePool + 1
	}

	draws = make([]*draw.Draw, 0)
	content.Find(e.Selectors.RowsCSS).Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < minCells {
			return
		}

		d, rowErr := e.parseRow(cells)
		if rowErr != nil {
			dropped++
			logger.Debug("Dropping row", logger.Fields{
				"row":    i,
				"period": strings.TrimSpace(cells.Eq(colPeriod).Text()),
				"reason": rowErr.Error(),
			})
			return
		}
		draws = append(draws, d)
	})

	return draws, dropped, nil
}

func (e *Extractor) parseRow(cells *goquery.Selection) (*draw.Draw, error) {
	front, err := draw.ParseNumbers(balls(cells.Eq(colFront), e.Selectors.FrontBallCSS))
	if err != nil {
		return nil, fmt.Errorf("front zone: %w", err)
	}
	back, err := draw.ParseNumbers(balls(cells.Eq(colBack), e.Selectors.BackBallCSS))
	if err != nil {
		return nil, fmt.Errorf("back zone: %w", err)
	}

	d := draw.New(
		cells.Eq(colPeriod).Text(),
		cells.Eq(colDate).Text(),
		front,
		back,
		draw.ParseAmount(cells.Eq(colSales).Text()),
		draw.ParseAmount(cells.Eq(colPrizePool).Text()),
	)
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// balls returns the ball texts of a zone cell in source order. Cells without
// ball elements are read as whitespace-separated numbers.
func balls(cell *goquery.Selection, css string) []string {
	found := cell.Find(css)
	if found.Length() == 0 {
		return strings.Fields(cell.Text())
	}
	texts := make([]string, 0, found.Length())
	found.Each(func(i int, s *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(s.Text()))
	})
	return texts
}
