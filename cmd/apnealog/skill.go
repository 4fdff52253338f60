// ABOUTME: install-skill command that writes the embedded assistant skill file.
// ABOUTME: Unchanged installs are left alone; a differing file is kept as SKILL.md.bak.

package main

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var (
	skillSkipConfirm bool
	skillDir         string
)

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install the apnealog assistant skill",
	Long: `Install the apnealog skill file for Claude Code.

The skill teaches the assistant the disciplines, value formats and
commands of this CLI. By default it goes to ~/.claude/skills/apnealog/.

A file that already matches is left untouched. A file that differs is
kept next to the new one as SKILL.md.bak.

EXAMPLES:

  apnealog install-skill
  apnealog install-skill --yes
  apnealog install-skill --dir ./skills/apnealog`,
	Annotations: map[string]string{noBackend: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := skillDir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %w", err)
			}
			dir = defaultSkillDir(home)
		}
		inst := skillInstall{dir: dir, in: cmd.InOrStdin(), out: cmd.OutOrStdout(), assumeYes: skillSkipConfirm}
		return inst.run()
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	installSkillCmd.Flags().StringVar(&skillDir, "dir", "", "install into this directory instead of ~/.claude/skills/apnealog")
	rootCmd.AddCommand(installSkillCmd)
}

func defaultSkillDir(home string) string {
	return filepath.Join(home, ".claude", "skills", "apnealog")
}

type skillState int

const (
	skillMissing skillState = iota
	skillCurrent
	skillOutdated
)

type skillInstall struct {
	dir       string
	in        io.Reader
	out       io.Writer
	assumeYes bool
}

func (s skillInstall) path() string {
	return filepath.Join(s.dir, "SKILL.md")
}

// state compares the installed file with want.
func (s skillInstall) state(want []byte) (skillState, error) {
	have, err := os.ReadFile(s.path())
	if errors.Is(err, fs.ErrNotExist) {
		return skillMissing, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read installed skill: %w", err)
	}
	if bytes.Equal(have, want) {
		return skillCurrent, nil
	}
	return skillOutdated, nil
}

func (s skillInstall) run() error {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}

	state, err := s.state(content)
	if err != nil {
		return err
	}
	faint := color.New(color.Faint)
	green := color.New(color.FgGreen)

	switch state {
	case skillCurrent:
		green.Fprintf(s.out, "✓ Skill at %s is up to date\n", s.path())
		return nil
	case skillOutdated:
		fmt.Fprintf(s.out, "Update skill at %s\n", s.path())
		faint.Fprintf(s.out, "  the current file will be kept as SKILL.md.bak\n")
	default:
		fmt.Fprintf(s.out, "Install skill to %s\n", s.path())
	}

	if !s.assumeYes && !s.confirm() {
		faint.Fprintln(s.out, "Nothing written.")
		return nil
	}

	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if state == skillOutdated {
		if err := os.Rename(s.path(), s.path()+".bak"); err != nil {
			return fmt.Errorf("failed to keep previous skill: %w", err)
		}
	}
	if err := writeFileAtomic(s.path(), content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	green.Fprintln(s.out, "✓ Skill installed")
	faint.Fprintln(s.out, `  try: "log a 4:30 static for Alice" or "who leads dynamic?"`)
	return nil
}

// confirm reads a y/yes answer. EOF counts as no.
func (s skillInstall) confirm() bool {
	fmt.Fprint(s.out, "Proceed? [y/N] ")
	line, _ := bufio.NewReader(s.in).ReadString('\n')
	fmt.Fprintln(s.out)
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".skill-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
