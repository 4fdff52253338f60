// ABOUTME: Data migration between storage backends.
// ABOUTME: Copies raw table grids from a source transport to a destination transport.
package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/harperreed/apnealog/internal/sheets"
)

// MigrateSummary holds the number of data rows copied per table.
type MigrateSummary struct {
	Tables map[string]int
}

// Total returns the number of rows copied across all tables.
func (s *MigrateSummary) Total() int {
	n := 0
	for _, rows := range s.Tables {
		n += rows
	}
	return n
}

// MigrateData copies each table from src to dst unchanged, header included.
// Existing destination tables are overwritten. Grids are validated before
// anything is written so a malformed source table aborts the migration.
func MigrateData(ctx context.Context, src, dst sheets.Transport, tables []sheets.TableID) (*MigrateSummary, error) {
	grids := make([][][]string, len(tables))
	for i, table := range tables {
		grid, err := src.ReadGrid(ctx, table)
		if err != nil {
			return nil, &TransportError{Op: "load", Table: table, Err: err}
		}
		if _, err := gridToRows(grid); err != nil {
			return nil, fmt.Errorf("migrate %s: %w", table, err)
		}
		grids[i] = grid
	}

	summary := &MigrateSummary{Tables: make(map[string]int, len(tables))}
	for i, table := range tables {
		if err := dst.WriteGrid(ctx, table, grids[i]); err != nil {
			return nil, &TransportError{Op: "write", Table: table, Err: err}
		}
		rows := 0
		if len(grids[i]) > 0 {
			rows = len(grids[i]) - 1
		}
		summary.Tables[table.Name] = rows
	}
	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
