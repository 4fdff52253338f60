// ABOUTME: CLI commands for club activity sessions.
// ABOUTME: Deleting a session unlinks its records and feedback instead of deleting them.
package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/apnealog/internal/models"
	"github.com/spf13/cobra"
)

var (
	sessionDate        string
	sessionDescription string
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Manage activity sessions",
	Long: `Manage club activity sessions.

Records and feedback can be linked to a session with --session. Deleting a
session keeps those records and feedback entries and clears their link.

EXAMPLES:

  apnealog session add "Pool Longchamp" --date 2024-03-09 -m "CO2 tables"
  apnealog session list
  apnealog session delete 3f2a`,
}

var sessionAddCmd = &cobra.Command{
	Use:   "add <place>",
	Short: "Create a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		place := strings.TrimSpace(args[0])
		if place == "" {
			return fmt.Errorf("place is required")
		}
		day, err := parseDay(sessionDate)
		if err != nil {
			return err
		}

		sess := models.NewActivitySession(day, place).WithDescription(sessionDescription)
		if err := repos.Sessions.Add(cmd.Context(), *sess); err != nil {
			return fmt.Errorf("failed to add session: %w", err)
		}

		color.Green("✓ Added session %s", sess.Title())
		fmt.Printf("  ID: %s\n", color.New(color.Faint).Sprint(shortID(sess.ID)))
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sessions, err := repos.Sessions.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}
		records, err := repos.Records.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load records: %w", err)
		}
		linked := make(map[string]int)
		for _, r := range records {
			if r.LinkedSessionID != "" {
				linked[r.LinkedSessionID]++
			}
		}

		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].Date.After(sessions[j].Date)
		})
		faint := color.New(color.Faint)
		for _, s := range sessions {
			line := fmt.Sprintf("%s  %s  %3d records", faint.Sprint(shortID(s.ID)), padRight(truncate(s.Title(), 40), 40), linked[s.ID])
			if s.Description != "" {
				line += faint.Sprintf("  (%s)", truncate(s.Description, 30))
			}
			fmt.Println(line)
		}
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a session and unlink its records and feedback",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sess, err := repos.Sessions.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("session %s: %w", args[0], err)
		}
		res, err := coord.DeleteSession(ctx, sess.ID)
		if err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		color.Green("✓ Deleted session %s", sess.Title())
		fmt.Printf("  Unlinked %d records and %d feedback entries\n", res.Records, res.Feedback)
		return nil
	},
}

func init() {
	sessionAddCmd.Flags().StringVarP(&sessionDate, "date", "d", "", "Session date (YYYY-MM-DD), defaults to today")
	sessionAddCmd.Flags().StringVarP(&sessionDescription, "description", "m", "", "What was trained")

	sessionCmd.AddCommand(sessionAddCmd, sessionListCmd, sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}
