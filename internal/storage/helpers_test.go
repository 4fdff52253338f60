// ABOUTME: Shared fixtures for storage tests.
// ABOUTME: Builds repositories over an in-memory transport with a controllable clock.
package storage

import (
	"testing"
	"time"

	"github.com/harperreed/apnealog/internal/models"
	"github.com/harperreed/apnealog/internal/sheets"
)

const testLocation = "club"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testEnv struct {
	repos     *Repositories
	transport *sheets.Memory
	clock     *fakeClock
}

func setupTestRepos(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	transport := sheets.NewMemory()
	clock := &fakeClock{now: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	store := NewTableStore(transport, opts...)
	repos := NewRepositories(store, testLocation, DefaultTables())
	t.Cleanup(func() { _ = repos.Close() })
	return &testEnv{repos: repos, transport: transport, clock: clock}
}

func table(name string) sheets.TableID {
	return sheets.TableID{Location: testLocation, Name: name}
}

func mustRecord(t *testing.T, id, user string, d models.Discipline, text, date string) models.PerformanceRecord {
	t.Helper()
	r := models.PerformanceRecord{ID: id, User: user, Discipline: d}
	if err := r.SetValue(text); err != nil {
		t.Fatalf("SetValue(%q) failed: %v", text, err)
	}
	if date != "" {
		day, err := models.ParseDate(date)
		if err != nil {
			t.Fatalf("ParseDate(%q) failed: %v", date, err)
		}
		r.EntryDate = day
	}
	return r
}

func column(grid [][]string, name string) []string {
	if len(grid) == 0 {
		return nil
	}
	idx := -1
	for i, h := range grid[0] {
		if h == name {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	var out []string
	for _, row := range grid[1:] {
		out = append(out, row[idx])
	}
	return out
}
