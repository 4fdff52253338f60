// ABOUTME: TableStore gives cached whole-table access to sheet tables over a Transport.
// ABOUTME: Loads are cached per table with a TTL; every write invalidates before returning.
package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/harperreed/apnealog/internal/logger"
	"github.com/harperreed/apnealog/internal/metrics"
	"github.com/harperreed/apnealog/internal/sheets"
)

// DefaultCacheTTL bounds how long a loaded table is served from memory.
const DefaultCacheTTL = 5 * time.Minute

// TableStore reads and rewrites whole tables. The cache is process-local.
type TableStore struct {
	transport sheets.Transport
	ttl       time.Duration
	now       func() time.Time
	log       logger.Logger
	metrics   *metrics.Manager

	mu    sync.Mutex
	cache map[sheets.TableID]cacheEntry
	gen   map[sheets.TableID]uint64 // bumped on invalidate; stale loads are not cached
}

type cacheEntry struct {
	rows      []sheets.Row
	expiresAt time.Time
}

// Option configures a TableStore.
type Option func(*TableStore)

// WithCacheTTL sets the cache lifetime. Zero or negative disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *TableStore) {
		s.ttl = ttl
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TableStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *TableStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *TableStore) {
		s.metrics = m
	}
}

// NewTableStore creates a store over transport.
func NewTableStore(transport sheets.Transport, opts ...Option) *TableStore {
	s := &TableStore{
		transport: transport,
		ttl:       DefaultCacheTTL,
		now:       time.Now,
		log:       logger.Nop(),
		cache:     make(map[sheets.TableID]cacheEntry),
		gen:       make(map[sheets.TableID]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("tablestore")
	return s
}

// Transport returns the underlying transport.
func (s *TableStore) Transport() sheets.Transport {
	return s.transport
}

// Logger returns the store's logger.
func (s *TableStore) Logger() logger.Logger {
	return s.log
}

// Metrics returns the store's metrics manager, which may be nil.
func (s *TableStore) Metrics() *metrics.Manager {
	return s.metrics
}

// LoadAll returns every data row of table. Callers own the returned rows.
func (s *TableStore) LoadAll(ctx context.Context, table sheets.TableID) ([]sheets.Row, error) {
	rows, gen, ok := s.cached(table)
	if ok {
		s.metrics.TableLoaded(table.Name, metrics.SourceCache)
		return rows, nil
	}

	grid, err := s.transport.ReadGrid(ctx, table)
	if err != nil {
		s.metrics.TableFailed(table.Name, "load")
		s.log.Error(ctx, "table load failed", logger.String("table", table.String()), logger.Error(err))
		return nil, &TransportError{Op: "load", Table: table, Err: err}
	}
	rows, err = gridToRows(grid)
	if err != nil {
		s.metrics.TableFailed(table.Name, "parse")
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	s.metrics.TableLoaded(table.Name, metrics.SourceRemote)
	s.log.Debug(ctx, "table loaded", logger.String("table", table.String()), logger.Int("rows", len(rows)))

	if s.ttl > 0 {
		s.mu.Lock()
		if s.gen[table] == gen {
			s.cache[table] = cacheEntry{rows: cloneRows(rows), expiresAt: s.now().Add(s.ttl)}
		}
		s.mu.Unlock()
	}
	return rows, nil
}

// WriteAll clears table and writes rows as a gapless grid in one call.
// The header is the keys of rows[0], followed by keys first seen in later rows.
// Missing cells are written as "". Empty rows leaves the table cleared.
func (s *TableStore) WriteAll(ctx context.Context, table sheets.TableID, rows []sheets.Row) error {
	defer s.Invalidate(table)

	grid := rowsToGrid(rows)
	if err := s.transport.WriteGrid(ctx, table, grid); err != nil {
		s.metrics.TableFailed(table.Name, "write")
		s.log.Error(ctx, "table write failed", logger.String("table", table.String()), logger.Error(err))
		return &TransportError{Op: "write", Table: table, Err: err}
	}
	s.metrics.TableWritten(table.Name)
	s.log.Debug(ctx, "table written", logger.String("table", table.String()), logger.Int("rows", len(rows)))
	return nil
}

// Invalidate drops the cached copy of table.
func (s *TableStore) Invalidate(table sheets.TableID) {
	s.mu.Lock()
	delete(s.cache, table)
	s.gen[table]++
	s.mu.Unlock()
}

// InvalidateAll drops every cached table.
func (s *TableStore) InvalidateAll() {
	s.mu.Lock()
	for table := range s.cache {
		s.gen[table]++
	}
	for table := range s.gen {
		if _, done := s.cache[table]; !done {
			s.gen[table]++
		}
	}
	s.cache = make(map[sheets.TableID]cacheEntry)
	s.mu.Unlock()
}

func (s *TableStore) cached(table sheets.TableID) ([]sheets.Row, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gen := s.gen[table]
	entry, ok := s.cache[table]
	if !ok {
		return nil, gen, false
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.cache, table)
		return nil, gen, false
	}
	return cloneRows(entry.rows), gen, true
}

func cloneRows(rows []sheets.Row) []sheets.Row {
	out := make([]sheets.Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

// gridToRows maps a grid to rows using the first grid row as the header.
func gridToRows(grid [][]string) ([]sheets.Row, error) {
	if len(grid) == 0 {
		return []sheets.Row{}, nil
	}

	header := grid[0]
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate column %q at position %d", ErrMalformedTable, name, i+1)
		}
		seen[name] = true
	}

	rows := make([]sheets.Row, 0, len(grid)-1)
	for n, cells := range grid[1:] {
		if isBlank(cells) {
			continue
		}
		var row sheets.Row
		for i, cell := range cells {
			outside := i >= len(header) || header[i] == ""
			if outside && strings.TrimSpace(cell) != "" {
				return nil, fmt.Errorf("%w: row %d has a value outside the header", ErrMalformedTable, n+2)
			}
		}
		for i, name := range header {
			if name == "" {
				continue
			}
			value := ""
			if i < len(cells) {
				value = cells[i]
			}
			row.Set(name, value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func rowsToGrid(rows []sheets.Row) [][]string {
	if len(rows) == 0 {
		return nil
	}

	var header []string
	index := make(map[string]int)
	for _, r := range rows {
		for _, k := range r.Keys() {
			if _, ok := index[k]; !ok {
				index[k] = len(header)
				header = append(header, k)
			}
		}
	}
	if len(header) == 0 {
		return nil
	}

	grid := make([][]string, 0, len(rows)+1)
	grid = append(grid, header)
	for _, r := range rows {
		cells := make([]string, len(header))
		for i, k := range header {
			cells[i] = r.Value(k)
		}
		grid = append(grid, cells)
	}
	return grid
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
