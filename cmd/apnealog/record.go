// ABOUTME: CLI commands for performance records.
// ABOUTME: Add, list, edit, and delete records; values are kept exactly as entered.
package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/apnealog/internal/models"
	"github.com/spf13/cobra"
)

var (
	recordDate       string
	recordSession    string
	recordListUser   string
	recordListDisc   string
	recordListLimit  int
	recordEditValue  string
	recordEditDate   string
	recordEditSess   string
	recordEditUnlink bool
)

var recordCmd = &cobra.Command{
	Use:     "record",
	Aliases: []string{"rec", "r"},
	Short:   "Manage performance records",
	Long: `Manage performance records.

VALUES:

  Timed disciplines (sta, sprint_16x25) take MM:SS with optional
  milliseconds: 04:30, 4:30.5, 02:05.500.
  Distance disciplines (dyn, dyn_bf, dnf, depth) take meters with an
  optional "m": 75, 75m. Fractions of a meter are rejected.

  The text is stored exactly as typed; rankings use the parsed value.

EXAMPLES:

  apnealog record add Alice sta 04:30
  apnealog record add Bob dyn 75m --date 2024-06-01 --session 3f2a
  apnealog record list --user Alice
  apnealog record edit 7c1d --value 80m
  apnealog record delete 7c1d`,
}

var recordAddCmd = &cobra.Command{
	Use:   "add <user> <discipline> <value>",
	Short: "Add a performance record",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		d, err := models.ParseDiscipline(args[1])
		if err != nil {
			return err
		}
		r, err := models.NewPerformanceRecord(args[0], d, args[2])
		if err != nil {
			return err
		}
		day, err := parseDay(recordDate)
		if err != nil {
			return err
		}
		r.WithEntryDate(day)

		if recordSession != "" {
			sess, err := repos.Sessions.Get(ctx, recordSession)
			if err != nil {
				return fmt.Errorf("session %s: %w", recordSession, err)
			}
			r.WithSession(sess.ID)
		}

		if err := repos.Records.Add(ctx, *r); err != nil {
			return fmt.Errorf("failed to add record: %w", err)
		}

		color.Green("✓ Added %s %s for %s", d.Label(), r.DisplayValue(), r.User)
		fmt.Printf("  ID: %s\n", color.New(color.Faint).Sprint(shortID(r.ID)))
		return nil
	},
}

var recordListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List performance records, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		var discipline models.Discipline
		if recordListDisc != "" {
			d, err := models.ParseDiscipline(recordListDisc)
			if err != nil {
				return err
			}
			discipline = d
		}

		records, err := repos.Records.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}

		var out []models.PerformanceRecord
		for _, r := range records {
			if recordListUser != "" && r.User != recordListUser {
				continue
			}
			if discipline != "" && r.Discipline != discipline {
				continue
			}
			out = append(out, r)
		}
		if len(out) == 0 {
			fmt.Println("No records found.")
			return nil
		}

		sort.SliceStable(out, func(i, j int) bool {
			return out[i].EntryDate.After(out[j].EntryDate)
		})
		if recordListLimit > 0 && len(out) > recordListLimit {
			out = out[:recordListLimit]
		}

		faint := color.New(color.Faint)
		for _, r := range out {
			fmt.Printf("%s  %s  %s  %s  %s\n",
				faint.Sprint(shortID(r.ID)),
				models.FormatDate(r.EntryDate),
				padRight(truncate(r.User, 16), 16),
				padRight(string(r.Discipline), 12),
				r.DisplayValue(),
			)
		}
		return nil
	},
}

var recordEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a record's value, date, or session link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var sessionID string
		if recordEditSess != "" {
			sess, err := repos.Sessions.Get(ctx, recordEditSess)
			if err != nil {
				return fmt.Errorf("session %s: %w", recordEditSess, err)
			}
			sessionID = sess.ID
		}
		var day time.Time
		if recordEditDate != "" {
			t, err := parseDay(recordEditDate)
			if err != nil {
				return err
			}
			day = t
		}

		updated, err := repos.Records.Update(ctx, args[0], func(r *models.PerformanceRecord) error {
			if recordEditValue != "" {
				if err := r.SetValue(recordEditValue); err != nil {
					return err
				}
			}
			if !day.IsZero() {
				r.WithEntryDate(day)
			}
			if sessionID != "" {
				r.WithSession(sessionID)
			}
			if recordEditUnlink {
				r.LinkedSessionID = ""
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to edit record: %w", err)
		}

		color.Green("✓ Updated record %s: %s %s on %s", shortID(updated.ID),
			updated.Discipline.Label(), updated.DisplayValue(), models.FormatDate(updated.EntryDate))
		return nil
	},
}

var recordDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a performance record",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := repos.Records.Delete(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}
		color.Green("✓ Deleted record %s (%s %s)", shortID(removed.ID), removed.User, removed.DisplayValue())
		return nil
	},
}

func init() {
	recordAddCmd.Flags().StringVarP(&recordDate, "date", "d", "", "Entry date (YYYY-MM-DD), defaults to today")
	recordAddCmd.Flags().StringVarP(&recordSession, "session", "s", "", "Session ID or prefix to link")

	recordListCmd.Flags().StringVarP(&recordListUser, "user", "u", "", "Filter by diver")
	recordListCmd.Flags().StringVarP(&recordListDisc, "discipline", "t", "", "Filter by discipline")
	recordListCmd.Flags().IntVarP(&recordListLimit, "limit", "n", 20, "Max results (0 for all)")

	recordEditCmd.Flags().StringVarP(&recordEditValue, "value", "v", "", "New value as entered")
	recordEditCmd.Flags().StringVarP(&recordEditDate, "date", "d", "", "New entry date (YYYY-MM-DD)")
	recordEditCmd.Flags().StringVarP(&recordEditSess, "session", "s", "", "Link to session ID or prefix")
	recordEditCmd.Flags().BoolVar(&recordEditUnlink, "unlink", false, "Remove the session link")

	recordCmd.AddCommand(recordAddCmd, recordListCmd, recordEditCmd, recordDeleteCmd)
	rootCmd.AddCommand(recordCmd)
}
