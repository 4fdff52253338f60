// ABOUTME: In-memory Transport for tests and the "memory" backend.
// ABOUTME: Can be told to fail reads or writes to exercise error paths.
package sheets

import (
	"context"
	"fmt"
	"sync"
)

// Memory keeps grids in a map. It is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	grids  map[TableID][][]string
	reads  map[TableID]int
	writes map[TableID]int
	failOn map[string]error
}

// NewMemory creates an empty in-memory transport.
func NewMemory() *Memory {
	return &Memory{
		grids:  make(map[TableID][][]string),
		reads:  make(map[TableID]int),
		writes: make(map[TableID]int),
		failOn: make(map[string]error),
	}
}

// ReadGrid returns a copy of the stored grid.
func (m *Memory) ReadGrid(ctx context.Context, table TableID) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn[failKey("read", table)]; err != nil {
		return nil, err
	}
	m.reads[table]++
	return CloneGrid(m.grids[table]), nil
}

// WriteGrid replaces the stored grid with a copy of grid.
func (m *Memory) WriteGrid(ctx context.Context, table TableID, grid [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn[failKey("write", table)]; err != nil {
		return err
	}
	m.writes[table]++
	if len(grid) == 0 {
		delete(m.grids, table)
		return nil
	}
	m.grids[table] = CloneGrid(grid)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// Seed stores a grid directly, bypassing counters.
func (m *Memory) Seed(table TableID, grid [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grids[table] = CloneGrid(grid)
}

// Grid returns a copy of the stored grid without counting a read.
func (m *Memory) Grid(table TableID) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return CloneGrid(m.grids[table])
}

// Reads returns how many times a table was read.
func (m *Memory) Reads(table TableID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[table]
}

// Writes returns how many times a table was written.
func (m *Memory) Writes(table TableID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[table]
}

// FailReads makes reads of table return err until cleared with nil.
func (m *Memory) FailReads(table TableID, err error) {
	m.setFail("read", table, err)
}

// FailWrites makes writes of table return err until cleared with nil.
func (m *Memory) FailWrites(table TableID, err error) {
	m.setFail("write", table, err)
}

func (m *Memory) setFail(op string, table TableID, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failOn, failKey(op, table))
		return
	}
	m.failOn[failKey(op, table)] = err
}

func failKey(op string, table TableID) string {
	return fmt.Sprintf("%s:%s", op, table)
}
