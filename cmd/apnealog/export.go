// ABOUTME: CLI commands for exporting and importing club data.
// ABOUTME: Supports JSON, YAML, and Markdown export; JSON and YAML import.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/apnealog/internal/storage"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export club data",
	Long: `Export club data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Leaderboard per discipline plus sessions (for sharing)

The markdown leaderboard hides the names of anonymized divers.

EXAMPLES:

  apnealog export json                  # Export all data as JSON
  apnealog export json -o backup.json   # Save to file
  apnealog export markdown -o board.md  # Shareable leaderboard`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var data []byte
		var err error
		switch args[0] {
		case "json":
			data, err = repos.ExportJSON(ctx)
		case "yaml":
			data, err = repos.ExportYAML(ctx)
		case "markdown", "md":
			var all *storage.ExportData
			all, err = repos.GetAllData(ctx)
			if err == nil {
				data = []byte(storage.ExportMarkdown(all))
			}
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
			return nil
		}
		fmt.Println(string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import club data from a JSON or YAML export",
	Long: `Import club data from a previous export.

Files ending in .yaml or .yml are read as YAML, everything else as JSON.
The import replaces the four tables with the file's contents. Duplicate
profile names abort the import before anything is written.

EXAMPLES:

  apnealog import backup.json
  apnealog import club.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		switch strings.ToLower(filepath.Ext(filename)) {
		case ".yaml", ".yml":
			err = repos.ImportYAML(cmd.Context(), data)
		default:
			err = repos.ImportJSON(cmd.Context(), data)
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
