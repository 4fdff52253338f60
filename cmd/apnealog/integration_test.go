//go:build integration

// ABOUTME: Integration tests for the apnealog binary.
// ABOUTME: Builds the CLI and drives a full club workflow through its output.
package main_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	tmpDir := t.TempDir()
	binary := filepath.Join(tmpDir, "apnealog")

	buildCmd := exec.Command("go", "build", "-o", binary, ".")
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}

	env := append(os.Environ(),
		"XDG_DATA_HOME="+filepath.Join(tmpDir, "data"),
		"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
		"APNEALOG_CONFIG=",
		"NO_COLOR=1",
	)
	run := func(args ...string) (string, error) {
		cmd := exec.Command(binary, args...)
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}
	mustRun := func(want string, args ...string) string {
		t.Helper()
		output, err := run(args...)
		if err != nil {
			t.Fatalf("%v failed: %v\n%s", args, err, output)
		}
		if !strings.Contains(output, want) {
			t.Errorf("%v: expected %q in output, got: %s", args, want, output)
		}
		return output
	}

	mustRun("Added profile Alice", "profile", "add", "Alice", "--cert", "A2")
	mustRun("Added profile Bob", "profile", "add", "Bob", "--anonymize")

	output := mustRun("Added session 2024-03-09 - Pool", "session", "add", "Pool", "--date", "2024-03-09")
	sessionID := regexp.MustCompile(`ID: ([0-9a-f-]+)`).FindStringSubmatch(output)
	if len(sessionID) != 2 {
		t.Fatalf("no session ID in output: %s", output)
	}

	mustRun("Added Static Apnea (STA) 04:30", "record", "add", "Alice", "sta", "04:30", "-s", sessionID[1])
	mustRun("Added Static Apnea (STA) 05:10", "record", "add", "Bob", "sta", "5:10")

	output = mustRun("Static Apnea (STA)", "rank", "sta")
	if strings.Index(output, "Bob") > strings.Index(output, "Alice") {
		t.Errorf("Bob should rank above Alice:\n%s", output)
	}
	output = mustRun("Anonymous", "rank", "sta", "--redact")
	if strings.Contains(output, "Bob") {
		t.Errorf("redacted ranking shows Bob:\n%s", output)
	}

	mustRun("Updated 1 records", "profile", "rename", "Alice", "Alicia")
	mustRun("Alicia", "record", "list", "--user", "Alicia")
	mustRun("Unlinked 1 records", "session", "delete", sessionID[1])
	mustRun("All session links are valid", "repair")

	if output, err := run("record", "add", "Alicia", "dyn", "far"); err == nil {
		t.Errorf("expected failure for bad value, got: %s", output)
	}
}
