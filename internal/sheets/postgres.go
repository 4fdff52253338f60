// ABOUTME: Postgres Transport over a pgx pool storing rows as text arrays.
// ABOUTME: A rewrite is a DELETE plus COPY inside one transaction.
package sheets

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS sheet_rows (
	location TEXT NOT NULL,
	sheet TEXT NOT NULL,
	position INTEGER NOT NULL,
	cells TEXT[] NOT NULL,
	PRIMARY KEY (location, sheet, position)
)`

// Postgres stores grids in a sheet_rows table.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to url and ensures the schema exists.
func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	p := NewPostgres(pool)
	if err := p.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the sheet_rows table if needed.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// ReadGrid returns the table's rows in position order.
func (p *Postgres) ReadGrid(ctx context.Context, table TableID) ([][]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT cells FROM sheet_rows WHERE location = $1 AND sheet = $2 ORDER BY position`,
		table.Location, table.Name)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	grid, err := pgx.CollectRows(rows, pgx.RowTo[[]string])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return grid, nil
}

// WriteGrid clears the table and copies grid in within one transaction.
func (p *Postgres) WriteGrid(ctx context.Context, table TableID, grid [][]string) (err error) {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx,
		`DELETE FROM sheet_rows WHERE location = $1 AND sheet = $2`,
		table.Location, table.Name); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	if len(grid) > 0 {
		src := make([][]any, len(grid))
		for i, row := range grid {
			cells := row
			if cells == nil {
				cells = []string{}
			}
			src[i] = []any{table.Location, table.Name, i, cells}
		}
		if _, err = tx.CopyFrom(ctx,
			pgx.Identifier{"sheet_rows"},
			[]string{"location", "sheet", "position", "cells"},
			pgx.CopyFromRows(src)); err != nil {
			return fmt.Errorf("copy %s: %w", table, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s: %w", table, err)
	}
	return nil
}

// Close closes the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
