package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikogura/job-assistant/pkg/llm"
	"github.com/nikogura/job-assistant/pkg/resume"
	"github.com/nikogura/job-assistant/pkg/scorer"
)

//nolint:gochecknoglobals // Cobra boilerplate
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score unscored job postings against your resume",
	Long: `Scores every saved posting that has no score yet (or a score of 0) against
the parsed resume and the USER_PREFERENCES and USER_LOCATION settings.

Postings whose scoring fails are saved with a 0 score and retried next run.`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var profile resume.Profile
	profile, err = a.profile(ctx, false)
	if err != nil {
		return err
	}

	var gateway *llm.Gateway
	gateway, err = a.llm(ctx)
	if err != nil {
		return err
	}

	prefs := scorer.Preferences{
		Items:    a.cfg.Preferences.Preferences,
		Location: a.cfg.Preferences.Location,
	}
	stage := scorer.NewStage(scorer.NewScorer(gateway, profile, prefs, a.logger), a.store, a.logger)

	out := cmd.OutOrStdout()
	spin := newSpinner(out, "Scoring jobs...")
	spin.start()
	report, err := stage.Run(ctx)
	spin.stopSpinner()
	if err != nil {
		return err
	}

	for i := range report.Jobs {
		job := report.Jobs[i]
		fmt.Fprintf(out, "  %3d  %s at %s\n", job.ScoreValue(), job.Title, job.Company)
	}

	fmt.Fprintf(out, "\nScored %d of %d jobs (%d failed)\n", report.Scored, report.Candidates, report.Failed)

	if report.Candidates > 0 {
		a.rebuildIndex()
	}

	return err
}
