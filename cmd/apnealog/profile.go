// ABOUTME: CLI commands for diver profiles.
// ABOUTME: Rename and delete go through the integrity coordinator so records follow the diver.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/apnealog/internal/models"
	"github.com/spf13/cobra"
)

var (
	profileCert      string
	profileCertDate  string
	profileLifras    string
	profileAnonymize bool
	profileAIConsent bool
	profileNotes     string
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"p", "diver"},
	Short:   "Manage diver profiles",
	Long: `Manage diver profiles.

A profile is keyed by the diver's name. Records and feedback refer to divers
by name, so renaming a profile also rewrites every record and feedback entry
that mentions the old name.

CERTIFICATIONS:

  none, A1, A2, A3, S4, I1, I2, I3 (I1 and above are instructors)

EXAMPLES:

  apnealog profile add Alice --cert A2 --cert-date 2023-05-04
  apnealog profile edit Bob --anonymize
  apnealog profile rename Alice Alicia
  apnealog profile delete Bob      # Records and feedback are kept`,
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a diver profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := models.NewUserProfile(strings.TrimSpace(args[0]))
		if err := applyProfileFlags(cmd, p); err != nil {
			return err
		}
		if err := repos.Profiles.Add(cmd.Context(), *p); err != nil {
			return fmt.Errorf("failed to add profile: %w", err)
		}
		color.Green("✓ Added profile %s", p.UserName)
		return nil
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Change a profile's certification, flags, or notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := repos.Profiles.Update(cmd.Context(), args[0], func(p *models.UserProfile) error {
			return applyProfileFlags(cmd, p)
		})
		if err != nil {
			return fmt.Errorf("failed to edit profile: %w", err)
		}
		color.Green("✓ Updated profile %s", p.UserName)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List diver profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := repos.Profiles.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}
		problems, err := repos.Profiles.Problems(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list profiles: %w", err)
		}
		warn := color.New(color.FgYellow)
		for _, p := range problems {
			if p.Name != "" {
				warn.Fprintf(cmd.ErrOrStderr(), "! profile row %d skipped: %s %q\n", p.Row, p.Reason, p.Name)
			} else {
				warn.Fprintf(cmd.ErrOrStderr(), "! profile row %d skipped: %s\n", p.Row, p.Reason)
			}
		}
		if len(problems) > 0 {
			warn.Fprintln(cmd.ErrOrStderr(), "  profile edits, renames and deletes fail until these rows are fixed")
		}
		if book.Len() == 0 {
			fmt.Println("No profiles found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, p := range book.All() {
			line := fmt.Sprintf("%s  %s", padRight(truncate(p.UserName, 20), 20), padRight(string(p.Certification), 4))
			if p.Anonymize {
				line += faint.Sprint("  anonymized")
			}
			fmt.Println(line)
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := repos.Profiles.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		bold.Println(p.UserName)
		certDate := ""
		if p.CertificationDate != nil {
			certDate = models.FormatDate(*p.CertificationDate)
		}
		fmt.Printf("  Certification:  %s %s\n", p.Certification, certDate)
		fmt.Printf("  LIFRAS ID:      %s\n", orDash(p.LifrasID))
		fmt.Printf("  Anonymize:      %t\n", p.Anonymize)
		fmt.Printf("  AI consent:     %t\n", p.AIConsent)
		if p.Notes != "" {
			fmt.Printf("  Notes:          %s\n", p.Notes)
		}
		for _, col := range p.Extra {
			fmt.Printf("  %s %s\n", padRight(col.Name+":", 15), col.Value)
		}
		return nil
	},
}

var profileRenameCmd = &cobra.Command{
	Use:     "rename <old> <new>",
	Aliases: []string{"mv"},
	Short:   "Rename a diver everywhere they appear",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := coord.RenameUser(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to rename %s: %w", args[0], err)
		}
		color.Green("✓ Renamed %s to %s", args[0], strings.TrimSpace(args[1]))
		fmt.Printf("  Updated %d records and %d feedback entries\n", res.Records, res.Feedback)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a diver profile, keeping their history",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := coord.DeleteUser(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", args[0], err)
		}
		color.Green("✓ Deleted profile %s", args[0])
		fmt.Printf("  Kept %d records and %d feedback entries\n", res.Records, res.Feedback)
		return nil
	},
}

// applyProfileFlags copies the flags the user set onto p.
func applyProfileFlags(cmd *cobra.Command, p *models.UserProfile) error {
	flags := cmd.Flags()
	if flags.Changed("cert") {
		c, err := models.ParseCertification(profileCert)
		if err != nil {
			return err
		}
		day, err := parseDay(profileCertDate)
		if err != nil {
			return err
		}
		p.WithCertification(c, day)
	} else if flags.Changed("cert-date") {
		day, err := parseDay(profileCertDate)
		if err != nil {
			return err
		}
		p.CertificationDate = &day
	}
	if flags.Changed("lifras") {
		p.WithLifrasID(profileLifras)
	}
	if flags.Changed("anonymize") {
		p.WithAnonymize(profileAnonymize)
	}
	if flags.Changed("ai-consent") {
		p.AIConsent = profileAIConsent
	}
	if flags.Changed("notes") {
		p.WithNotes(profileNotes)
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{profileAddCmd, profileEditCmd} {
		c.Flags().StringVar(&profileCert, "cert", "", "Certification level (none, A1-A3, S4, I1-I3)")
		c.Flags().StringVar(&profileCertDate, "cert-date", "", "Date the certification was obtained (YYYY-MM-DD)")
		c.Flags().StringVar(&profileLifras, "lifras", "", "LIFRAS membership number")
		c.Flags().BoolVar(&profileAnonymize, "anonymize", false, "Hide the name in shared rankings")
		c.Flags().BoolVar(&profileAIConsent, "ai-consent", false, "Allow AI-assisted feedback")
		c.Flags().StringVar(&profileNotes, "notes", "", "Free-form notes")
	}

	profileCmd.AddCommand(profileAddCmd, profileEditCmd, profileListCmd, profileShowCmd, profileRenameCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}
