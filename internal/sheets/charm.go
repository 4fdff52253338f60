// ABOUTME: Charm KV Transport with automatic cloud sync after writes.
// ABOUTME: Each table's grid is stored as one JSON value so a rewrite is a single Set.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/kv"
)

const (
	// DefaultCharmHost is the charm server used when none is configured.
	DefaultCharmHost = "charm.2389.dev"

	charmTablePrefix = "sheet:"
)

// Charm stores grids in a charm KV database.
type Charm struct {
	kv       *kv.KV
	autoSync bool
	mu       sync.RWMutex
}

// OpenCharm opens the named charm KV database against host and pulls remote data.
func OpenCharm(name, host string) (*Charm, error) {
	if host == "" {
		host = DefaultCharmHost
	}
	if err := os.Setenv("CHARM_HOST", host); err != nil {
		return nil, fmt.Errorf("set charm host: %w", err)
	}

	db, err := kv.OpenWithDefaultsFallback(name)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	c := &Charm{kv: db, autoSync: true}
	if !db.IsReadOnly() {
		_ = db.Sync()
	}
	return c, nil
}

func charmKey(table TableID) []byte {
	return []byte(charmTablePrefix + table.Location + "/" + table.Name)
}

// ReadGrid returns the stored grid, or an empty grid when the table key is absent.
func (c *Charm) ReadGrid(ctx context.Context, table TableID) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := charmKey(table)
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	found := false
	for _, k := range keys {
		if bytes.Equal(k, key) {
			found = true
			break
		}
	}
	if !found {
		return nil, nil
	}

	data, err := c.kv.Get(key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	var grid [][]string
	if err := json.Unmarshal(data, &grid); err != nil {
		return nil, fmt.Errorf("decode %s: %w", table, err)
	}
	return grid, nil
}

// WriteGrid replaces the table value. An empty grid deletes the key.
func (c *Charm) WriteGrid(ctx context.Context, table TableID, grid [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return fmt.Errorf("cannot write %s: database is locked by another process (MCP server?): %w", table, ErrReadOnly)
	}

	if len(grid) == 0 {
		if err := c.kv.Delete(charmKey(table)); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		c.syncIfEnabled()
		return nil
	}

	data, err := json.Marshal(grid)
	if err != nil {
		return fmt.Errorf("encode %s: %w", table, err)
	}
	if err := c.kv.Set(charmKey(table), data); err != nil {
		return fmt.Errorf("set %s: %w", table, err)
	}
	c.syncIfEnabled()
	return nil
}

// Sync synchronizes local state with Charm Cloud.
func (c *Charm) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// SetAutoSync enables or disables automatic sync after writes.
func (c *Charm) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// IsReadOnly returns true when another process holds the database lock.
func (c *Charm) IsReadOnly() bool {
	return c.kv.IsReadOnly()
}

func (c *Charm) syncIfEnabled() {
	if c.autoSync && !c.kv.IsReadOnly() {
		_ = c.kv.Sync()
	}
}

// Close closes the KV database connection.
func (c *Charm) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		return c.kv.Close()
	}
	return nil
}
