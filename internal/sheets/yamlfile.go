// ABOUTME: Transport storing each table as a YAML file of string rows under a directory.
// ABOUTME: Files are replaced by atomic rename so a crash never leaves a torn table.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLFiles keeps tables as <dir>/<location>/<name>.yaml.
type YAMLFiles struct {
	dir string
}

// yamlTable is the on-disk document.
type yamlTable struct {
	Table string     `yaml:"table"`
	Rows  [][]string `yaml:"rows"`
}

// OpenYAMLFiles creates the root directory if needed.
func OpenYAMLFiles(dir string) (*YAMLFiles, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &YAMLFiles{dir: dir}, nil
}

// Dir returns the root directory.
func (y *YAMLFiles) Dir() string {
	return y.dir
}

func (y *YAMLFiles) path(table TableID) string {
	return filepath.Join(y.dir, sanitize(table.Location), sanitize(table.Name)+".yaml")
}

// ReadGrid loads the table file. A missing file is an empty table.
func (y *YAMLFiles) ReadGrid(ctx context.Context, table TableID) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(y.path(table))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}

	var doc yamlTable
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", table, err)
	}
	return doc.Rows, nil
}

// WriteGrid writes to a temp file and renames it over the table file.
// An empty grid removes the file.
func (y *YAMLFiles) WriteGrid(ctx context.Context, table TableID, grid [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target := y.path(table)
	if len(grid) == 0 {
		if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0750); err != nil {
		return fmt.Errorf("create table directory: %w", err)
	}
	data, err := yaml.Marshal(yamlTable{Table: table.Name, Rows: grid})
	if err != nil {
		return fmt.Errorf("encode %s: %w", table, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", table, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("replace %s: %w", table, err)
	}
	return nil
}

// Close is a no-op.
func (y *YAMLFiles) Close() error {
	return nil
}

// sanitize keeps a name usable as a single path element.
func sanitize(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "..", "_")
	return r.Replace(name)
}
