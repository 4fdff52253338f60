// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands against a temporary SQLite backend and checks the stored tables.
package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/apnealog/internal/codec"
	"github.com/harperreed/apnealog/internal/config"
	"github.com/harperreed/apnealog/internal/models"
	"github.com/harperreed/apnealog/internal/sheets"
	"github.com/harperreed/apnealog/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"date", "2025-01-31", false},
		{"padded", " 2025-01-31 ", false},
		{"blank is today", "", false},
		{"wrong order", "31-01-2025", true},
		{"garbage", "not a date", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDay(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseDay(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDay(%q) unexpected error: %v", tt.input, err)
			}
			if got.IsZero() || got.Hour() != 0 {
				t.Errorf("parseDay(%q) = %v, want a calendar day", tt.input, got)
			}
		})
	}

	got, _ := parseDay("")
	if got.Format(models.DateLayout) != time.Now().Format(models.DateLayout) {
		t.Errorf("parseDay(\"\") = %v, want today", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
		{"éléphant de mer", 8, "éléph..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input  string
		length int
		want   string
	}{
		{"abc", 6, "abc   "},
		{"abcdef", 3, "abcdef"},
		{"", 2, "  "},
		{"é", 3, "é  "},
	}

	for _, tt := range tests {
		if got := padRight(tt.input, tt.length); got != tt.want {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %s, want 01234567", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID(abc) = %s, want abc", got)
	}
}

func TestRootCmdFlags(t *testing.T) {
	for _, name := range []string{"backend", "data-dir", "location", "log-level"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag --%s", name)
		}
	}
}

func TestCommandTree(t *testing.T) {
	paths := [][]string{
		{"record", "add"}, {"record", "list"}, {"record", "edit"}, {"record", "delete"},
		{"profile", "add"}, {"profile", "edit"}, {"profile", "list"}, {"profile", "show"},
		{"profile", "rename"}, {"profile", "delete"},
		{"session", "add"}, {"session", "list"}, {"session", "delete"},
		{"feedback", "add"}, {"feedback", "list"}, {"feedback", "delete"},
		{"rank"}, {"best"}, {"repair"}, {"export"}, {"import"}, {"migrate"}, {"mcp"},
		{"sync", "status"}, {"sync", "now"}, {"install-skill"},
	}

	for _, path := range paths {
		cmd, _, err := rootCmd.Find(path)
		if err != nil || cmd == rootCmd {
			t.Errorf("command %v not found: %v", path, err)
		}
	}
}

func TestCmdAliases(t *testing.T) {
	aliases := map[string]string{
		"rec":   "record",
		"p":     "profile",
		"diver": "profile",
		"s":     "session",
		"fb":    "feedback",
	}
	for alias, want := range aliases {
		cmd, _, err := rootCmd.Find([]string{alias})
		if err != nil {
			t.Errorf("alias %s: %v", alias, err)
			continue
		}
		if cmd.Name() != want {
			t.Errorf("alias %s resolved to %s, want %s", alias, cmd.Name(), want)
		}
	}
}

func TestNoBackendAnnotations(t *testing.T) {
	for _, path := range [][]string{{"migrate"}, {"install-skill"}, {"sync", "link"}, {"sync", "wipe"}} {
		cmd, _, err := rootCmd.Find(path)
		if err != nil {
			t.Fatalf("find %v: %v", path, err)
		}
		if needsBackend(cmd) {
			t.Errorf("%v should run without a backend", path)
		}
	}
	cmd, _, _ := rootCmd.Find([]string{"repair"})
	if !needsBackend(cmd) {
		t.Error("repair needs the backend")
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	want := map[string]bool{"json": true, "yaml": true, "markdown": true}
	for _, arg := range exportCmd.ValidArgs {
		if !want[arg] {
			t.Errorf("unexpected ValidArg %s", arg)
		}
		delete(want, arg)
	}
	if len(want) != 0 {
		t.Errorf("missing ValidArgs: %v", want)
	}
}

// setupTestCLI points the CLI at empty temporary config and data directories.
func setupTestCLI(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("APNEALOG_CONFIG", "")
	t.Cleanup(func() {
		if err := closeRepos(); err != nil {
			t.Errorf("close repos: %v", err)
		}
	})
	return tmpDir
}

// resetFlags restores every flag to its default, including Changed.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func mustRun(t *testing.T, args ...string) {
	t.Helper()
	if err := runCLI(t, args...); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
}

// withRepos opens the configured backend, optionally in dataDir, for assertions.
func withRepos(t *testing.T, dataDir string, fn func(ctx context.Context, r *storage.Repositories)) {
	t.Helper()
	c, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if dataDir != "" {
		c.DataDir = dataDir
	}
	ctx := context.Background()
	r, err := c.OpenRepositories(ctx)
	if err != nil {
		t.Fatalf("open repositories: %v", err)
	}
	defer r.Close()
	fn(ctx, r)
}

func loadRecords(t *testing.T) []models.PerformanceRecord {
	t.Helper()
	var records []models.PerformanceRecord
	withRepos(t, "", func(ctx context.Context, r *storage.Repositories) {
		var err error
		records, err = r.Records.Load(ctx)
		if err != nil {
			t.Fatalf("load records: %v", err)
		}
	})
	return records
}

func firstSessionID(t *testing.T) string {
	t.Helper()
	var id string
	withRepos(t, "", func(ctx context.Context, r *storage.Repositories) {
		sessions, err := r.Sessions.Load(ctx)
		if err != nil || len(sessions) == 0 {
			t.Fatalf("load sessions: %v (%d)", err, len(sessions))
		}
		id = sessions[0].ID
	})
	return id
}

func TestRecordAddCmd(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "record", "add", "Alice", "sta", "04:30.5", "--date", "2024-06-01")

	records := loadRecords(t)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.User != "Alice" || r.Discipline != models.DisciplineStatic {
		t.Errorf("record = %+v", r)
	}
	if r.OriginalValue != "04:30.5" {
		t.Errorf("OriginalValue = %q, want text as entered", r.OriginalValue)
	}
	if r.Value == nil || *r.Value != 270.5 {
		t.Errorf("Value = %v, want 270.5", r.Value)
	}
	if models.FormatDate(r.EntryDate) != "2024-06-01" {
		t.Errorf("EntryDate = %s, want 2024-06-01", models.FormatDate(r.EntryDate))
	}
}

func TestRecordAddRejectsBadInput(t *testing.T) {
	setupTestCLI(t)

	if err := runCLI(t, "record", "add", "Alice", "sta", "four minutes"); err == nil {
		t.Error("expected error for unparseable value")
	}
	if err := runCLI(t, "record", "add", "Alice", "cwt", "30"); err == nil {
		t.Error("expected error for unknown discipline")
	}
	if err := runCLI(t, "record", "add", "Alice", "dyn", "50", "--session", "missing"); err == nil {
		t.Error("expected error for unknown session")
	}
	if records := loadRecords(t); len(records) != 0 {
		t.Errorf("rejected input stored %d records", len(records))
	}
}

func TestRecordWithSessionPrefix(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "session", "add", "Pool Longchamp", "--date", "2024-03-09")
	sessionID := firstSessionID(t)

	mustRun(t, "record", "add", "Bob", "dyn", "75m", "-s", sessionID[:6])

	records := loadRecords(t)
	if len(records) != 1 || records[0].LinkedSessionID != sessionID {
		t.Errorf("records = %+v, want one linked to %s", records, sessionID)
	}
}

func TestRecordEditAndDelete(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "record", "add", "Alice", "dyn", "75")
	id := loadRecords(t)[0].ID

	mustRun(t, "record", "edit", id[:8], "--value", "100m", "--date", "2024-01-02")
	r := loadRecords(t)[0]
	if r.OriginalValue != "100m" || r.Value == nil || *r.Value != 100 {
		t.Errorf("after edit: %q / %v, want 100m / 100", r.OriginalValue, r.Value)
	}
	if models.FormatDate(r.EntryDate) != "2024-01-02" {
		t.Errorf("EntryDate = %s, want 2024-01-02", models.FormatDate(r.EntryDate))
	}

	if err := runCLI(t, "record", "edit", id[:8], "--value=-5"); err == nil {
		t.Error("expected error for negative value")
	}
	if got := loadRecords(t)[0].OriginalValue; got != "100m" {
		t.Errorf("failed edit changed value to %q", got)
	}

	mustRun(t, "record", "delete", id[:8])
	if records := loadRecords(t); len(records) != 0 {
		t.Errorf("expected no records after delete, got %d", len(records))
	}
}

func TestProfileRenameCascades(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "profile", "add", "Alice", "--cert", "I1")
	mustRun(t, "profile", "add", "Bob")
	mustRun(t, "record", "add", "Alice", "sta", "04:30")
	mustRun(t, "feedback", "add", "Bob", "longer recovery breaths", "--instructor", "Alice")

	mustRun(t, "profile", "rename", "Alice", "Alicia")

	withRepos(t, "", func(ctx context.Context, r *storage.Repositories) {
		book, err := r.Profiles.Load(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if book.Has("Alice") || !book.Has("Alicia") {
			t.Errorf("profiles = %v, want Alicia only", book.Names())
		}
		p, _ := book.Get("Alicia")
		if p.Certification != models.CertI1 {
			t.Errorf("Certification = %s, want I1 carried over", p.Certification)
		}

		records, _ := r.Records.Load(ctx)
		if records[0].User != "Alicia" {
			t.Errorf("record user = %s, want Alicia", records[0].User)
		}
		feedback, _ := r.Feedback.Load(ctx)
		if feedback[0].InstructorName != "Alicia" || feedback[0].DiverName != "Bob" {
			t.Errorf("feedback = %+v, want instructor Alicia", feedback[0])
		}
	})

	if err := runCLI(t, "profile", "rename", "Alicia", "Bob"); err == nil {
		t.Error("expected error renaming onto an existing profile")
	}
	if err := runCLI(t, "profile", "rename", "Nobody", "X"); err == nil {
		t.Error("expected error renaming an unknown profile")
	}
}

func TestProfileDeleteKeepsHistory(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "profile", "add", "Bob", "--anonymize")
	mustRun(t, "record", "add", "Bob", "depth", "20")
	mustRun(t, "profile", "delete", "Bob")

	withRepos(t, "", func(ctx context.Context, r *storage.Repositories) {
		book, _ := r.Profiles.Load(ctx)
		if book.Has("Bob") {
			t.Error("profile still present")
		}
	})
	if records := loadRecords(t); len(records) != 1 || records[0].User != "Bob" {
		t.Errorf("records = %+v, want Bob's record kept", records)
	}
}

func TestProfileEditFlags(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "profile", "add", "Carol", "--cert", "A1", "--cert-date", "2022-09-01", "--lifras", "L-7")
	mustRun(t, "profile", "edit", "Carol", "--anonymize")

	withRepos(t, "", func(ctx context.Context, r *storage.Repositories) {
		p, err := r.Profiles.Get(ctx, "Carol")
		if err != nil {
			t.Fatal(err)
		}
		if !p.Anonymize {
			t.Error("Anonymize not set")
		}
		if p.Certification != models.CertA1 || p.LifrasID != "L-7" {
			t.Errorf("edit clobbered unset fields: %+v", p)
		}
		if p.CertificationDate == nil || models.FormatDate(*p.CertificationDate) != "2022-09-01" {
			t.Errorf("CertificationDate = %v, want 2022-09-01", p.CertificationDate)
		}
	})
}

func TestSessionDeleteUnlinks(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "session", "add", "Lake", "--date", "2024-07-14")
	sessionID := firstSessionID(t)
	mustRun(t, "record", "add", "Alice", "depth", "25m", "--session", sessionID)
	mustRun(t, "feedback", "add", "Alice", "good duck dive", "--session", sessionID)

	mustRun(t, "session", "delete", sessionID[:8])

	withRepos(t, "", func(ctx context.Context, r *storage.Repositories) {
		sessions, _ := r.Sessions.Load(ctx)
		if len(sessions) != 0 {
			t.Errorf("expected no sessions, got %d", len(sessions))
		}
		records, _ := r.Records.Load(ctx)
		if len(records) != 1 || records[0].LinkedSessionID != "" {
			t.Errorf("records = %+v, want one unlinked record", records)
		}
		feedback, _ := r.Feedback.Load(ctx)
		if len(feedback) != 1 || feedback[0].LinkedSessionID != "" {
			t.Errorf("feedback = %+v, want one unlinked entry", feedback)
		}
	})

	if err := runCLI(t, "session", "delete", "nope"); err == nil {
		t.Error("expected error deleting an unknown session")
	}
}

func TestRepairCmd(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "record", "add", "Alice", "sta", "03:00")
	withRepos(t, "", func(ctx context.Context, r *storage.Repositories) {
		records, _ := r.Records.Load(ctx)
		records[0].LinkedSessionID = "gone"
		if err := r.Records.Save(ctx, records); err != nil {
			t.Fatal(err)
		}
	})

	mustRun(t, "repair")
	if got := loadRecords(t)[0].LinkedSessionID; got != "" {
		t.Errorf("LinkedSessionID = %q, want cleared", got)
	}
	mustRun(t, "repair")
}

func TestRankAndBestCmds(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "record", "add", "Alice", "sprint_16x25", "07:10")
	mustRun(t, "record", "add", "Bob", "sprint_16x25", "06:55")

	mustRun(t, "rank", "sprint_16x25")
	mustRun(t, "rank", "sta", "--redact")
	mustRun(t, "best", "Alice")
	mustRun(t, "best")

	if err := runCLI(t, "rank", "bogus"); err == nil {
		t.Error("expected error for unknown discipline")
	}
}

func TestListCmds(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "record", "list")
	mustRun(t, "profile", "list")
	mustRun(t, "session", "list")
	mustRun(t, "feedback", "list")

	mustRun(t, "record", "add", "Alice", "dyn_bf", "50")
	mustRun(t, "record", "list", "--user", "Alice", "-t", "dyn_bf", "-n", "5")
	if err := runCLI(t, "record", "list", "-t", "bogus"); err == nil {
		t.Error("expected error for unknown discipline filter")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	tmpDir := setupTestCLI(t)

	mustRun(t, "profile", "add", "Alice")
	mustRun(t, "record", "add", "Alice", "sta", "05:01")
	mustRun(t, "session", "add", "Pool")

	backup := filepath.Join(tmpDir, "backup.json")
	mustRun(t, "export", "json", "-o", backup)
	mustRun(t, "export", "markdown", "-o", filepath.Join(tmpDir, "board.md"))
	mustRun(t, "export", "yaml", "-o", filepath.Join(tmpDir, "club.yaml"))

	other := filepath.Join(tmpDir, "other")
	mustRun(t, "--data-dir", other, "import", backup)

	withRepos(t, other, func(ctx context.Context, r *storage.Repositories) {
		records, err := r.Records.Load(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 1 || records[0].OriginalValue != "05:01" {
			t.Errorf("imported records = %+v", records)
		}
		book, _ := r.Profiles.Load(ctx)
		if !book.Has("Alice") {
			t.Error("imported profiles missing Alice")
		}
	})

	yamlTarget := filepath.Join(tmpDir, "from-yaml")
	mustRun(t, "--data-dir", yamlTarget, "import", filepath.Join(tmpDir, "club.yaml"))
	withRepos(t, yamlTarget, func(ctx context.Context, r *storage.Repositories) {
		sessions, _ := r.Sessions.Load(ctx)
		if len(sessions) != 1 || sessions[0].Place != "Pool" {
			t.Errorf("imported sessions = %+v", sessions)
		}
	})

	if err := runCLI(t, "export", "csv"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestMigrateCmd(t *testing.T) {
	tmpDir := setupTestCLI(t)

	mustRun(t, "record", "add", "Alice", "dnf", "60")
	mustRun(t, "profile", "add", "Alice")

	dryDir := filepath.Join(tmpDir, "dry")
	mustRun(t, "migrate", "--to", "yaml", "--to-dir", dryDir, "--dry-run")
	if _, err := os.Stat(dryDir); !os.IsNotExist(err) {
		t.Errorf("dry run created %s", dryDir)
	}

	dst := filepath.Join(tmpDir, "yaml")
	mustRun(t, "migrate", "--to", "yaml", "--to-dir", dst)

	y, err := sheets.OpenYAMLFiles(filepath.Join(dst, "tables"))
	if err != nil {
		t.Fatal(err)
	}
	grid, err := y.ReadGrid(context.Background(), sheets.TableID{Location: "club", Name: "records"})
	if err != nil {
		t.Fatal(err)
	}
	if len(grid) != 2 {
		t.Fatalf("records grid has %d rows, want header plus one", len(grid))
	}

	if err := runCLI(t, "migrate", "--to", "yaml", "--to-dir", dst); err == nil {
		t.Error("expected error migrating into a non-empty destination")
	}
	mustRun(t, "migrate", "--to", "yaml", "--to-dir", dst, "--force")

	if err := runCLI(t, "migrate"); err == nil {
		t.Error("expected error without --to")
	}
}

func TestBackendFlags(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "--backend", "memory", "record", "list")
	if err := runCLI(t, "--backend", "floppy", "record", "list"); err == nil {
		t.Error("expected error for unknown backend")
	}
	if err := runCLI(t, "--log-level", "chatty", "record", "list"); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestSyncStatusWithoutCharm(t *testing.T) {
	setupTestCLI(t)

	mustRun(t, "sync", "status")
	if err := runCLI(t, "sync", "now"); err == nil {
		t.Error("expected error syncing without the charm backend")
	}
}

func TestCommandsFeedServedMetrics(t *testing.T) {
	setupTestCLI(t)

	if mcpCmd.Flags().Lookup("metrics-addr") == nil {
		t.Fatal("expected mcp --metrics-addr flag")
	}

	mustRun(t, "record", "add", "Alice", "sta", "04:30", "--date", "2024-06-01")
	if meter == nil {
		t.Fatal("metrics manager not created")
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	stop := serveMetrics(context.Background(), addr)
	defer stop()

	var body []byte
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err == nil {
			body, err = io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				t.Fatal(err)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("metrics server did not start: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	want := `apnealog_store_table_writes_total{table="records"} 1`
	if !strings.Contains(string(body), want) {
		t.Errorf("metrics output missing %q:\n%s", want, body)
	}
}

func TestRecordHelpValuesParse(t *testing.T) {
	tests := []struct {
		discipline models.Discipline
		value      string
	}{
		{models.DisciplineStatic, "04:30"},
		{models.DisciplineStatic, "4:30.5"},
		{models.DisciplineStatic, "02:05.500"},
		{models.DisciplineDynamic, "75"},
		{models.DisciplineDynamic, "75m"},
	}

	for _, tt := range tests {
		if !strings.Contains(recordCmd.Long, tt.value) {
			t.Errorf("record help no longer shows %q", tt.value)
		}
		if _, err := codec.Parse(tt.discipline.Kind(), tt.value); err != nil {
			t.Errorf("record help value %q does not parse for %s: %v", tt.value, tt.discipline, err)
		}
	}

	if _, err := codec.Parse(models.DisciplineDynamic.Kind(), "62.5"); err == nil {
		t.Error("fractional meters parsed, record help says they are rejected")
	}
}

func TestProfileListWarnsAboutSkippedRows(t *testing.T) {
	setupTestCLI(t)
	mustRun(t, "profile", "add", "Alice")

	withRepos(t, "", func(ctx context.Context, r *storage.Repositories) {
		grid := [][]string{
			{"user_name", "certification", "certification_date", "lifras_id", "anonymize", "ai_consent", "notes"},
			{"Alice", "none", "", "", "false", "false", ""},
			{"Alice", "A1", "", "", "false", "false", "copy"},
			{"Bob", "none", "", "", "false", "false", ""},
		}
		if err := r.Store.Transport().WriteGrid(ctx, r.Profiles.Table(), grid); err != nil {
			t.Fatalf("seed profiles: %v", err)
		}
	})

	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() { rootCmd.SetErr(nil) })

	mustRun(t, "profile", "list")
	if !strings.Contains(stderr.String(), `profile row 2 skipped: duplicate name "Alice"`) {
		t.Errorf("stderr = %q, want skipped row warning", stderr.String())
	}

	err := runCLI(t, "profile", "edit", "Bob", "--notes", "x")
	if !errors.Is(err, storage.ErrSkippedProfiles) {
		t.Errorf("profile edit error = %v, want ErrSkippedProfiles", err)
	}
}
