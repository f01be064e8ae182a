// Package archive keeps every draw ever fetched in a SQLite database.
//
// Unlike the snapshot in package storage, which only holds the last run, the
// archive accumulates history across runs so statistics can cover more than
// the 100 most recent draws.
package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/pfrederiksen/dlt-draws/internal/draw"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Store is a draw archive backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive at path and applies the schema.
// ":memory:" gives a private in-memory archive.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every ":memory:" connection is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert inserts new draws and refreshes existing ones. It returns how many
// periods were not in the archive before.
func (s *Store) Upsert(ctx context.Context, draws []*draw.Draw) (int, error) {
	before, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO draws (period, draw_date, front_numbers, back_numbers, total_sales, prize_pool, first_seen, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(period) DO UPDATE SET
			draw_date = excluded.draw_date,
			front_numbers = excluded.front_numbers,
			back_numbers = excluded.back_numbers,
			total_sales = excluded.total_sales,
			prize_pool = excluded.prize_pool,
			updated_at = excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, d := range draws {
		if _, err := stmt.ExecContext(ctx,
			d.Period,
			d.DrawDate,
			d.FrontString(),
			d.BackString(),
			nullable(d.TotalSales),
			nullable(d.PrizePool),
			now,
			now,
		); err != nil {
			return 0, fmt.Errorf("upserting draw %s: %w", d.Period, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing draws: %w", err)
	}

	after, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	return after - before, nil
}

// Count returns the number of archived draws.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM draws`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting draws: %w", err)
	}
	return n, nil
}

// List returns archived draws, newest period first. A limit of 0 or less
// returns all of them.
func (s *Store) List(ctx context.Context, limit int) ([]*draw.Draw, error) {
	query := `
		SELECT period, draw_date, front_numbers, back_numbers, total_sales, prize_pool
		FROM draws
		ORDER BY length(period) DESC, period DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing draws: %w", err)
	}
	defer rows.Close()

	draws := make([]*draw.Draw, 0)
	for rows.Next() {
		var (
			period, date, front, back string
			sales, pool               sql.NullFloat64
		)
		if err := rows.Scan(&period, &date, &front, &back, &sales, &pool); err != nil {
			return nil, fmt.Errorf("scanning draw: %w", err)
		}

		frontNums, err := draw.ParseNumberList(front)
		if err != nil {
			return nil, fmt.Errorf("draw %s front numbers: %w", period, err)
		}
		backNums, err := draw.ParseNumberList(back)
		if err != nil {
			return nil, fmt.Errorf("draw %s back numbers: %w", period, err)
		}

		draws = append(draws, &draw.Draw{
			Period:       period,
			DrawDate:     date,
			FrontNumbers: frontNums,
			BackNumbers:  backNums,
			TotalSales:   fromNullable(sales),
			PrizePool:    fromNullable(pool),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing draws: %w", err)
	}
	return draws, nil
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
