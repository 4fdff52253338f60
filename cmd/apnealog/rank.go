// ABOUTME: CLI commands for rankings and personal bests.
// ABOUTME: rank orders every diver in a discipline; best shows per-discipline bests.
package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/apnealog/internal/models"
	"github.com/harperreed/apnealog/internal/ranking"
	"github.com/spf13/cobra"
)

var rankRedact bool

var rankCmd = &cobra.Command{
	Use:   "rank <discipline>",
	Short: "Rank every diver's best in a discipline",
	Long: `Rank every diver by their best performance in one discipline.

Divers are ranked 1, 2, 3... with no shared places; on equal results the
diver listed first in the profiles table comes first. Records whose value
could not be parsed are left out.

Use --redact for a board to share: divers who asked to be anonymized are
shown as "Anonymous".

EXAMPLES:

  apnealog rank sta
  apnealog rank sprint_16x25 --redact`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := models.ParseDiscipline(args[0])
		if err != nil {
			return err
		}
		records, book, err := loadRankingInputs(cmd.Context())
		if err != nil {
			return err
		}

		entries := ranking.RankAll(d, records, ranking.KnownUsers(book, records))
		if rankRedact {
			entries = ranking.Redact(entries, book)
		}

		color.New(color.Bold).Printf("%s (%s)\n", d.Label(), d.Direction())
		if len(entries) == 0 {
			fmt.Println("No results yet.")
			return nil
		}
		faint := color.New(color.Faint)
		for _, e := range entries {
			fmt.Printf("%3d. %s  %s  %s\n",
				e.Rank,
				padRight(truncate(e.User, 20), 20),
				padRight(e.Record.DisplayValue(), 10),
				faint.Sprint(models.FormatDate(e.Record.EntryDate)),
			)
		}
		return nil
	},
}

var bestCmd = &cobra.Command{
	Use:   "best [user]",
	Short: "Show personal bests, or the club best per discipline",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, book, err := loadRankingInputs(cmd.Context())
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		if len(args) == 1 {
			bests := ranking.PersonalBests(args[0], records)
			if len(bests) == 0 {
				fmt.Printf("No records for %s.\n", args[0])
				return nil
			}
			for _, pb := range bests {
				fmt.Printf("%s  %s  %s\n",
					padRight(pb.Discipline.Label(), 26),
					padRight(pb.Record.DisplayValue(), 10),
					faint.Sprint(models.FormatDate(pb.Record.EntryDate)),
				)
			}
			return nil
		}

		bests := ranking.ClubBests(records, ranking.KnownUsers(book, records))
		if len(bests) == 0 {
			fmt.Println("No results yet.")
			return nil
		}
		for _, cb := range bests {
			fmt.Printf("%s  %s  %s  %s\n",
				padRight(cb.Discipline.Label(), 26),
				padRight(truncate(cb.Entry.User, 20), 20),
				padRight(cb.Entry.Record.DisplayValue(), 10),
				faint.Sprint(models.FormatDate(cb.Entry.Record.EntryDate)),
			)
		}
		return nil
	},
}

func loadRankingInputs(ctx context.Context) ([]models.PerformanceRecord, *models.ProfileBook, error) {
	records, err := repos.Records.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load records: %w", err)
	}
	book, err := repos.Profiles.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	return records, book, nil
}

func init() {
	rankCmd.Flags().BoolVar(&rankRedact, "redact", false, "Hide anonymized divers' names")
	rootCmd.AddCommand(rankCmd, bestCmd)
}
