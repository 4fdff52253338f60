// ABOUTME: Badger-backed Transport storing one key per table row.
// ABOUTME: A rewrite deletes and inserts every row of the table in a single badger transaction.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"
)

const badgerRowPrefix = "sheet/"

// Badger stores grids in an embedded badger database.
type Badger struct {
	db *badger.DB
}

// OpenBadger opens a badger database in dir. An empty dir opens an in-memory database.
func OpenBadger(dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Badger{db: db}, nil
}

func tablePrefix(table TableID) []byte {
	return []byte(badgerRowPrefix + table.Location + "/" + table.Name + "/")
}

func rowKey(table TableID, position int) []byte {
	return []byte(fmt.Sprintf("%s%s/%s/%08d", badgerRowPrefix, table.Location, table.Name, position))
}

// ReadGrid iterates the table's keys in order.
func (b *Badger) ReadGrid(ctx context.Context, table TableID) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var grid [][]string
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := tablePrefix(table)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			raw, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			var cells []string
			if err := json.Unmarshal(raw, &cells); err != nil {
				return fmt.Errorf("decode row %s: %w", it.Item().Key(), err)
			}
			grid = append(grid, cells)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return grid, nil
}

// WriteGrid replaces every row of the table in one transaction.
func (b *Badger) WriteGrid(ctx context.Context, table TableID, grid [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		var stale [][]byte
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false})
		prefix := tablePrefix(table)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		for i, row := range grid {
			cells, err := json.Marshal(row)
			if err != nil {
				return err
			}
			if err := txn.Set(rowKey(table, i), cells); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", table, err)
	}
	return nil
}

// Close closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}
