// ABOUTME: CLI command that drops dangling session links.
// ABOUTME: Records and feedback pointing at deleted sessions are unlinked.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Unlink records and feedback from missing sessions",
	Long: `Clear session links that point at sessions that no longer exist.

A link can dangle when a session was removed by hand in the sheet or when
an earlier delete stopped partway. Nothing is written when every link is
valid, so repair is safe to run at any time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := coord.Repair(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to repair links: %w", err)
		}
		if res.Records == 0 && res.Feedback == 0 {
			color.Green("✓ All session links are valid")
			return nil
		}
		color.Green("✓ Unlinked %d records and %d feedback entries", res.Records, res.Feedback)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(repairCmd)
}
