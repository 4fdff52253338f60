// ABOUTME: Transport interface for sheet-structured tables and the TableID that addresses them.
// ABOUTME: Grids are the wire form: first row is the header, every cell is a string.
package sheets

import (
	"context"
	"errors"
	"fmt"
)

// TableID addresses one table inside a sheet document.
type TableID struct {
	Location string // document identity, e.g. the club's spreadsheet
	Name     string // sheet/table name
}

func (t TableID) String() string {
	return t.Location + "/" + t.Name
}

// Validate checks both parts are present.
func (t TableID) Validate() error {
	if t.Location == "" || t.Name == "" {
		return fmt.Errorf("invalid table %q: location and name are required", t.String())
	}
	return nil
}

// Transport is the remote sheet service as seen by the data layer.
//
// ReadGrid returns every row of a table, or an empty grid if the table has no
// content. WriteGrid clears the table and writes grid in one call; an empty
// grid leaves the table cleared. Implementations must not leave a table
// holding a mixture of old and new rows.
type Transport interface {
	ReadGrid(ctx context.Context, table TableID) ([][]string, error)
	WriteGrid(ctx context.Context, table TableID, grid [][]string) error
	Close() error
}

// ErrReadOnly is returned by transports that cannot currently accept writes.
var ErrReadOnly = errors.New("transport is read-only")

// CloneGrid deep-copies a grid.
func CloneGrid(grid [][]string) [][]string {
	if grid == nil {
		return nil
	}
	out := make([][]string, len(grid))
	for i, row := range grid {
		out[i] = append([]string(nil), row...)
	}
	return out
}
