// ABOUTME: Tests for copying tables between storage backends.
// ABOUTME: Uses the in-memory transport as source and SQLite as destination.
package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/apnealog/internal/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateDataCopiesGrids(t *testing.T) {
	ctx := context.Background()
	src := sheets.NewMemory()
	ids := DefaultTables().IDs(testLocation)
	src.Seed(table("records"), [][]string{
		{"id", "user", "discipline", "original_value"},
		{"r1", "Alice", "sta", "04:00"},
		{"r2", "Bob", "dyn", "75m"},
	})
	src.Seed(table("sessions"), [][]string{
		{"id", "date", "place"},
		{"s1", "2024-05-01", "Pool"},
	})

	dst, err := sheets.OpenSQLite(filepath.Join(t.TempDir(), "club.db"))
	require.NoError(t, err)
	defer dst.Close()

	summary, err := MigrateData(ctx, src, dst, ids)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total())
	assert.Equal(t, 2, summary.Tables["records"])
	assert.Equal(t, 0, summary.Tables["profiles"])

	got, err := dst.ReadGrid(ctx, table("records"))
	require.NoError(t, err)
	assert.Equal(t, src.Grid(table("records")), got)
}

func TestMigrateDataAbortsOnMalformedSource(t *testing.T) {
	ctx := context.Background()
	src := sheets.NewMemory()
	src.Seed(table("records"), [][]string{{"id", "user"}, {"r1", "Alice"}})
	src.Seed(table("sessions"), [][]string{{"id", "id"}, {"s1", "s2"}})
	dst := sheets.NewMemory()

	_, err := MigrateData(ctx, src, dst, DefaultTables().IDs(testLocation))
	assert.ErrorIs(t, err, ErrMalformedTable)
	assert.Zero(t, dst.Writes(table("records")))
}

func TestMigrateDataReportsTransportErrors(t *testing.T) {
	src := sheets.NewMemory()
	boom := errors.New("quota exceeded")
	src.FailReads(table("feedback"), boom)

	_, err := MigrateData(context.Background(), src, sheets.NewMemory(), DefaultTables().IDs(testLocation))
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, boom)
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()

	empty, err := IsDirNonEmpty(dir)
	require.NoError(t, err)
	assert.False(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "x"), []byte("x"), 0o600))
	full, err := IsDirNonEmpty(dir)
	require.NoError(t, err)
	assert.True(t, full)

	missing, err := IsDirNonEmpty(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.False(t, missing)
}
