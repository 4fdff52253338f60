// ABOUTME: CLI commands for instructor feedback.
// ABOUTME: Feedback names a diver and an instructor and may link to a session.
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
	feedbackInstructor string
	feedbackSession    string
	feedbackDate       string
	feedbackListDiver  string
)

var feedbackCmd = &cobra.Command{
	Use:     "feedback",
	Aliases: []string{"fb"},
	Short:   "Manage instructor feedback",
	Long: `Manage instructor feedback for divers.

EXAMPLES:

  apnealog feedback add Alice "relax the shoulders" --instructor Ines -s 3f2a
  apnealog feedback list --diver Alice
  apnealog feedback delete 9e0b`,
}

var feedbackAddCmd = &cobra.Command{
	Use:   "add <diver> <text>",
	Short: "Add feedback for a diver",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		diver := strings.TrimSpace(args[0])
		if diver == "" || strings.TrimSpace(args[1]) == "" {
			return fmt.Errorf("diver and text are required")
		}
		day, err := parseDay(feedbackDate)
		if err != nil {
			return err
		}

		fb := models.NewFeedbackEntry(diver, strings.TrimSpace(feedbackInstructor), args[1]).WithDate(day)
		if feedbackSession != "" {
			sess, err := repos.Sessions.Get(ctx, feedbackSession)
			if err != nil {
				return fmt.Errorf("session %s: %w", feedbackSession, err)
			}
			fb.WithSession(sess.ID)
		}

		if err := repos.Feedback.Add(ctx, *fb); err != nil {
			return fmt.Errorf("failed to add feedback: %w", err)
		}
		color.Green("✓ Added feedback for %s", fb.DiverName)
		fmt.Printf("  ID: %s\n", color.New(color.Faint).Sprint(shortID(fb.ID)))
		return nil
	},
}

var feedbackListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List feedback, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := repos.Feedback.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list feedback: %w", err)
		}

		var out []models.FeedbackEntry
		for _, f := range entries {
			if feedbackListDiver != "" && f.DiverName != feedbackListDiver {
				continue
			}
			out = append(out, f)
		}
		if len(out) == 0 {
			fmt.Println("No feedback found.")
			return nil
		}

		sort.SliceStable(out, func(i, j int) bool {
			return out[i].FeedbackDate.After(out[j].FeedbackDate)
		})
		faint := color.New(color.Faint)
		for _, f := range out {
			fmt.Printf("%s  %s  %s  %s  %s\n",
				faint.Sprint(shortID(f.ID)),
				models.FormatDate(f.FeedbackDate),
				padRight(truncate(f.DiverName, 16), 16),
				padRight(truncate(orDash(f.InstructorName), 16), 16),
				truncate(f.Text, 60),
			)
		}
		return nil
	},
}

var feedbackDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a feedback entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := repos.Feedback.Delete(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to delete feedback: %w", err)
		}
		color.Green("✓ Deleted feedback %s for %s", shortID(removed.ID), removed.DiverName)
		return nil
	},
}

func init() {
	feedbackAddCmd.Flags().StringVarP(&feedbackInstructor, "instructor", "i", "", "Instructor giving the feedback")
	feedbackAddCmd.Flags().StringVarP(&feedbackSession, "session", "s", "", "Session ID or prefix to link")
	feedbackAddCmd.Flags().StringVarP(&feedbackDate, "date", "d", "", "Feedback date (YYYY-MM-DD), defaults to today")

	feedbackListCmd.Flags().StringVar(&feedbackListDiver, "diver", "", "Filter by diver")

	feedbackCmd.AddCommand(feedbackAddCmd, feedbackListCmd, feedbackDeleteCmd)
	rootCmd.AddCommand(feedbackCmd)
}
