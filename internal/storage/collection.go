// ABOUTME: Generic typed collection over one table with migration-on-read.
// ABOUTME: Loads backfill ids and heal schema drift, then persist the healed table before returning.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/apnealog/internal/logger"
	"github.com/harperreed/apnealog/internal/models"
	"github.com/harperreed/apnealog/internal/sheets"
)

// Schema maps one entity kind to and from table rows.
type Schema[T any] struct {
	// Name labels the collection in logs and metrics.
	Name string
	// IDColumn is backfilled with a fresh uuid when blank. Empty means the
	// entity has no generated identifier.
	IDColumn string
	// Migrate runs after id backfill and reports whether it changed the row.
	// It must be idempotent on rows produced by Encode.
	Migrate func(row *sheets.Row) bool
	// Decode converts a migrated row. An error makes the whole table unreadable.
	Decode func(row sheets.Row) (T, error)
	// Encode produces a row with every column Migrate would backfill.
	Encode func(item T) sheets.Row
	// ID returns the entity's identifier.
	ID func(item T) string
	// Linked marks entities that other tables refer to by id. Delete refuses
	// them with ErrLinkedDelete; removal goes through a cascade instead.
	Linked bool
}

// Collection is a typed view of one table.
type Collection[T any] struct {
	store  *TableStore
	table  sheets.TableID
	schema Schema[T]
	log    logger.Logger
}

// NewCollection binds schema to table.
func NewCollection[T any](store *TableStore, table sheets.TableID, schema Schema[T]) *Collection[T] {
	return &Collection[T]{
		store:  store,
		table:  table,
		schema: schema,
		log:    store.Logger().Named(schema.Name),
	}
}

// Table returns the table this collection reads and writes.
func (c *Collection[T]) Table() sheets.TableID {
	return c.table
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.schema.Name
}

// Load returns every entity, healing and persisting the table first if needed.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	rows, err := c.store.LoadAll(ctx, c.table)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(rows))
	healed := 0
	seenIDs := make(map[string]bool, len(rows))
	for i := range rows {
		row := rows[i]
		changed := false

		if col := c.schema.IDColumn; col != "" {
			id := strings.TrimSpace(row.Value(col))
			switch {
			case id == "":
				row.Set(col, uuid.NewString())
				changed = true
			case seenIDs[id]:
				fresh := uuid.NewString()
				c.log.Warn(ctx, "duplicate id reassigned",
					logger.String("id", id), logger.String("new_id", fresh), logger.Int("row", i+1))
				row.Set(col, fresh)
				changed = true
			case id != row.Value(col):
				row.Set(col, id)
				changed = true
			}
			seenIDs[row.Value(col)] = true
		}

		if c.schema.Migrate != nil && c.schema.Migrate(&row) {
			changed = true
		}

		item, err := c.schema.Decode(row)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w: row %d: %v", c.table, ErrMalformedTable, i+1, err)
		}
		items = append(items, item)
		if changed {
			healed++
		}
	}

	if healed > 0 {
		c.log.Info(ctx, "healing table on read",
			logger.String("table", c.table.String()), logger.Int("rows", healed))
		c.store.Metrics().RowsHealed(c.schema.Name, healed)
		if err := c.Save(ctx, items); err != nil {
			return nil, fmt.Errorf("persist healed %s: %w", c.schema.Name, err)
		}
	}
	return items, nil
}

// Save rewrites the whole table from items.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	rows := make([]sheets.Row, len(items))
	for i, item := range items {
		rows[i] = c.schema.Encode(item)
	}
	return c.store.WriteAll(ctx, c.table, rows)
}

// Get finds an entity by full id or unique id prefix.
func (c *Collection[T]) Get(ctx context.Context, idOrPrefix string) (T, error) {
	items, err := c.Load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	i, err := c.find(items, idOrPrefix)
	if err != nil {
		var zero T
		return zero, err
	}
	return items[i], nil
}

// Add appends item and saves.
func (c *Collection[T]) Add(ctx context.Context, item T) error {
	items, err := c.Load(ctx)
	if err != nil {
		return err
	}
	if id := c.schema.ID(item); id != "" {
		for _, existing := range items {
			if c.schema.ID(existing) == id {
				return fmt.Errorf("add %s %s: id already exists", c.schema.Name, id)
			}
		}
	}
	return c.Save(ctx, append(items, item))
}

// Update applies fn to the matching entity and saves. Nothing is written if fn fails.
func (c *Collection[T]) Update(ctx context.Context, idOrPrefix string, fn func(*T) error) (T, error) {
	var zero T
	items, err := c.Load(ctx)
	if err != nil {
		return zero, err
	}
	i, err := c.find(items, idOrPrefix)
	if err != nil {
		return zero, err
	}
	id := c.schema.ID(items[i])
	if err := fn(&items[i]); err != nil {
		return zero, err
	}
	if c.schema.ID(items[i]) != id {
		return zero, fmt.Errorf("update %s %s: id is immutable", c.schema.Name, id)
	}
	if err := c.Save(ctx, items); err != nil {
		return zero, err
	}
	return items[i], nil
}

// Delete removes the matching entity and saves. It returns the removed entity.
func (c *Collection[T]) Delete(ctx context.Context, idOrPrefix string) (T, error) {
	var zero T
	if c.schema.Linked {
		return zero, fmt.Errorf("%s: %w", c.schema.Name, ErrLinkedDelete)
	}
	items, err := c.Load(ctx)
	if err != nil {
		return zero, err
	}
	i, err := c.find(items, idOrPrefix)
	if err != nil {
		return zero, err
	}
	removed := items[i]
	items = append(items[:i], items[i+1:]...)
	if err := c.Save(ctx, items); err != nil {
		return zero, err
	}
	return removed, nil
}

// find resolves an exact id first, then a unique prefix.
func (c *Collection[T]) find(items []T, idOrPrefix string) (int, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return -1, fmt.Errorf("%s: empty id: %w", c.schema.Name, ErrNotFound)
	}
	for i, item := range items {
		if c.schema.ID(item) == idOrPrefix {
			return i, nil
		}
	}
	match := -1
	for i, item := range items {
		if strings.HasPrefix(c.schema.ID(item), idOrPrefix) {
			if match >= 0 {
				return -1, fmt.Errorf("%s %s: %w", c.schema.Name, idOrPrefix, ErrAmbiguousID)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%s %s: %w", c.schema.Name, idOrPrefix, ErrNotFound)
	}
	return match, nil
}

// IndexByID returns a lookup of items by id.
func IndexByID[T any](items []T, id func(T) string) map[string]T {
	out := make(map[string]T, len(items))
	for _, item := range items {
		out[id(item)] = item
	}
	return out
}

// extraColumns returns the row's columns not in known, in row order.
func extraColumns(row sheets.Row, known map[string]bool) []models.Column {
	var extra []models.Column
	for _, k := range row.Keys() {
		if !known[k] {
			extra = append(extra, models.Column{Name: k, Value: row.Value(k)})
		}
	}
	return extra
}

// appendExtra adds extra columns that do not clash with known ones.
func appendExtra(row *sheets.Row, extra []models.Column, known map[string]bool) {
	for _, col := range extra {
		if known[col.Name] || row.Has(col.Name) {
			continue
		}
		row.Set(col.Name, col.Value)
	}
}
