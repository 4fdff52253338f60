// ABOUTME: CLI command for copying club tables between storage backends.
// ABOUTME: Copies raw grids so unknown columns and legacy rows move unchanged.
package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/harperreed/apnealog/internal/config"
	"github.com/harperreed/apnealog/internal/sheets"
	"github.com/harperreed/apnealog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateToDir  string
	migrateForce  bool
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy club tables from one backend to another",
	Long: `Copy the four club tables from one storage backend to another.

Tables are copied as raw grids: headers, unknown columns, and rows that
still need healing move across exactly as stored. Every source table is
read and checked before anything is written, so a malformed source leaves
the destination untouched. Existing destination tables are overwritten.

The source uses the current configuration; --from only overrides the
backend. --to-dir points a local destination somewhere else.

USAGE:

  apnealog migrate --to yaml --dry-run            # Check the source only
  apnealog migrate --from sqlite --to yaml        # Copy into YAML files
  apnealog migrate --to postgres                  # Needs postgres_url

AFTER MIGRATION:

  Set "backend:" in ~/.config/apnealog/config.yaml to the new backend.`,
	Annotations: map[string]string{noBackend: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if migrateTo == "" && !migrateDryRun {
			return fmt.Errorf("--to is required")
		}

		srcCfg := *cfg
		if migrateFrom != "" {
			srcCfg.Backend = migrateFrom
		}
		dstCfg := *cfg
		dstCfg.Backend = migrateTo
		if migrateToDir != "" {
			dstCfg.DataDir = migrateToDir
		}
		if err := srcCfg.Validate(); err != nil {
			return fmt.Errorf("source: %w", err)
		}
		if !migrateDryRun {
			if err := dstCfg.Validate(); err != nil {
				return fmt.Errorf("destination: %w", err)
			}
			if srcCfg.GetBackend() == dstCfg.GetBackend() && srcCfg.GetDataDir() == dstCfg.GetDataDir() {
				return fmt.Errorf("source and destination are the same")
			}
		}

		src, err := srcCfg.OpenTransport(ctx)
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		defer src.Close()

		var dst sheets.Transport
		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()
			dst = sheets.NewMemory()
		} else {
			if !migrateForce {
				if err := checkDestinationEmpty(&dstCfg); err != nil {
					return err
				}
			}
			dst, err = dstCfg.OpenTransport(ctx)
			if err != nil {
				return fmt.Errorf("open destination: %w", err)
			}
		}
		defer dst.Close()

		summary, err := storage.MigrateData(ctx, src, dst, cfg.Tables.IDs(cfg.GetLocation()))
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		names := make([]string, 0, len(summary.Tables))
		for name := range summary.Tables {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s %d rows\n", padRight(name+":", 12), summary.Tables[name])
		}
		if migrateDryRun {
			color.Green("✓ Source is readable; %d rows would be copied", summary.Total())
			return nil
		}
		color.Green("✓ Copied %d rows from %s to %s", summary.Total(), srcCfg.GetBackend(), dstCfg.GetBackend())
		return nil
	},
}

// checkDestinationEmpty refuses to overwrite a local backend that already has data.
func checkDestinationEmpty(c *config.Config) error {
	var dir string
	switch c.GetBackend() {
	case config.BackendYAML:
		dir = filepath.Join(c.GetDataDir(), "tables")
	case config.BackendBadger:
		dir = filepath.Join(c.GetDataDir(), "badger")
	default:
		return nil
	}
	nonEmpty, err := storage.IsDirNonEmpty(dir)
	if err != nil {
		return err
	}
	if nonEmpty {
		return fmt.Errorf("destination %s is not empty (use --force to overwrite)", dir)
	}
	return nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source backend (default: configured backend)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend")
	migrateCmd.Flags().StringVar(&migrateToDir, "to-dir", "", "data directory for a local destination")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "overwrite a non-empty destination")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "read and check the source without writing")
	rootCmd.AddCommand(migrateCmd)
}
