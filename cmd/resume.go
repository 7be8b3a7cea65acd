package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nikogura/job-assistant/pkg/resume"
)

//nolint:gochecknoglobals // Cobra boilerplate
var refreshResumeCmd = &cobra.Command{
	Use:   "refresh-resume",
	Short: "Re-read and re-parse your resume",
	Long: `Fetches the resume (RESUME_FILE, or the Google Doc GOOGLE_DRIVE_RESUME_ID),
parses it again and replaces the cached profile.`,
	Args: cobra.NoArgs,
	RunE: runRefreshResume,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(refreshResumeCmd)
}

func runRefreshResume(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	spin := newSpinner(out, "Parsing resume...")
	spin.start()
	var profile resume.Profile
	profile, err = a.profile(ctx, true)
	spin.stopSpinner()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Resume refreshed\n")
	fmt.Fprintf(out, "  Skills:     %d\n", len(profile.Skills))
	fmt.Fprintf(out, "  Experience: %d years\n", profile.ExperienceYears)
	fmt.Fprintf(out, "  Level:      %s\n", cases.Title(language.English).String(profile.ExperienceLevel))
	if profile.CurrentRole != "" {
		fmt.Fprintf(out, "  Role:       %s\n", profile.CurrentRole)
	}

	return err
}
