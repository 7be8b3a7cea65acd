package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/job-assistant/pkg/jobs"
	"github.com/nikogura/job-assistant/pkg/llm"
	"github.com/nikogura/job-assistant/pkg/materials"
	"github.com/nikogura/job-assistant/pkg/resume"
	"github.com/nikogura/job-assistant/pkg/store"
)

//nolint:gochecknoglobals // Cobra boilerplate
var jobID string

//nolint:gochecknoglobals // Cobra boilerplate
var generateCmd = &cobra.Command{
	Use:   "generate [job-id]",
	Short: "Draft a cover letter and resume highlights",
	Long: `Drafts a cover letter and a set of resume highlights for one posting, or for
every posting scored at least MIN_SCORE_FOR_NOTIFICATION when no id is given.
Company research attached by research-high is used when present.

Example:
  job-assistant generate
  job-assistant generate 3f2a9c41b7de
  job-assistant generate --job-id 3f2a9c41b7de`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&jobID, "job-id", "", "Only generate for this posting")
}

func runGenerate(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()

	id := jobID
	if len(args) == 1 {
		id = args[0]
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var targets []jobs.Job
	targets, err = generationTargets(a.store, id, a.cfg.Preferences.MinScoreNotification)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(targets) == 0 {
		fmt.Fprintf(out, "No jobs scored %d or more\n", a.cfg.Preferences.MinScoreNotification)
		return err
	}

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

	writer := &materials.Writer{
		CoverLettersDir: a.cfg.Storage.CoverLettersDir,
		HighlightsDir:   a.cfg.Storage.HighlightsDir,
	}
	stage := materials.NewStage(materials.NewGenerator(gateway, profile), writer, a.logger)

	spin := newSpinner(out, fmt.Sprintf("Generating materials for %d jobs...", len(targets)))
	spin.start()
	report := stage.Run(ctx, targets)
	spin.stopSpinner()

	for _, o := range report.Outputs {
		fmt.Fprintf(out, "%s at %s\n", o.Title, o.Company)
		fmt.Fprintf(out, "  Cover letter: %s\n", o.CoverLetterPath)
		fmt.Fprintf(out, "  Highlights:   %s\n", o.HighlightsPath)
	}

	fmt.Fprintf(out, "\nGenerated materials for %d jobs (%d failed)\n", report.Generated, report.Failed)

	return err
}

// generationTargets returns the single job named by id, or every job scoring at least threshold.
func generationTargets(s *store.Store, id string, threshold int) (targets []jobs.Job, err error) {
	if id == "" {
		targets, err = s.ListScoredAtLeast(threshold)
		return targets, err
	}

	job, found, err := s.Get(id)
	if err != nil {
		return targets, err
	}

	if !found {
		err = errors.Errorf("no job with id '%s'", id)
		return targets, err
	}

	targets = []jobs.Job{job}

	return targets, err
}
