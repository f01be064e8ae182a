package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pfrederiksen/dlt-draws/internal/draw"
)

// CSVHeader is the column order of exported draw tables.
var CSVHeader = []string{"period", "draw_date", "front_numbers", "back_numbers", "total_sales", "prize_pool"}

// WriteCSV writes draws in order with a header row. Absent amounts are empty cells.
func WriteCSV(w io.Writer, draws []*draw.Draw) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, d := range draws {
		record := []string{
			d.Period,
			d.DrawDate,
			d.FrontString(),
			d.BackString(),
			draw.FormatAmount(d.TotalSales),
			draw.FormatAmount(d.PrizePool),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing draw %s: %w", d.Period, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV. Columns are matched by header name.
func ReadCSV(r io.Reader) ([]*draw.Draw, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty CSV input")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	// Spreadsheet exports prepend a byte order mark.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range CSVHeader {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	draws := make([]*draw.Draw, 0)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}

		front, err := draw.ParseNumberList(record[col["front_numbers"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: front_numbers: %w", line, err)
		}
		back, err := draw.ParseNumberList(record[col["back_numbers"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: back_numbers: %w", line, err)
		}

		draws = append(draws, draw.New(
			record[col["period"]],
			record[col["draw_date"]],
			front,
			back,
			draw.ParseAmount(record[col["total_sales"]]),
			draw.ParseAmount(record[col["prize_pool"]]),
		))
	}
	return draws, nil
}

// WriteCSVFile writes draws to path, replacing any existing file.
func WriteCSVFile(path string, draws []*draw.Draw) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, draws); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadCSVFile reads draws from the CSV file at path.
func ReadCSVFile(path string) ([]*draw.Draw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}
