package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikogura/job-assistant/pkg/jobs"
	"github.com/nikogura/job-assistant/pkg/research"
)

//nolint:gochecknoglobals // Cobra boilerplate
var refresh bool

//nolint:gochecknoglobals // Cobra boilerplate
var researchCmd = &cobra.Command{
	Use:   "research <company>",
	Short: "Research one company and print its profile",
	Long: `Searches the web for the company, reads the top results and prints a
synthesized profile. Profiles are cached for RESEARCH_CACHE_TTL; --refresh
ignores the cache.

Example:
  job-assistant research "Acme Corp"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

//nolint:gochecknoglobals // Cobra boilerplate
var researchHighCmd = &cobra.Command{
	Use:   "research-high",
	Short: "Research companies behind postings above MIN_SCORE_FOR_RESEARCH",
	Long: `Researches each distinct company among postings scored at least
MIN_SCORE_FOR_RESEARCH once and attaches the profile to every one of its
postings.`,
	Args: cobra.NoArgs,
	RunE: runResearchHigh,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(researchCmd)
	rootCmd.AddCommand(researchHighCmd)
	researchCmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore cached research")
	researchHighCmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore cached research")
}

func runResearch(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	company := strings.Join(args, " ")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var looker *research.CachedResearcher
	looker, err = a.researcher(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	spin := newSpinner(out, fmt.Sprintf("Researching %s...", company))
	spin.start()
	profile := looker.Lookup(ctx, company, refresh)
	spin.stopSpinner()

	printProfile(out, profile)

	return err
}

func runResearchHigh(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var looker *research.CachedResearcher
	looker, err = a.researcher(ctx)
	if err != nil {
		return err
	}

	threshold := a.cfg.Preferences.MinScoreResearch
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Researching companies for jobs scored %d or more...\n", threshold)

	batch := research.NewBatch(looker, a.store, refresh, a.logger)

	var report research.BatchReport
	report, err = batch.Run(ctx, threshold)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Researched %d companies for %d jobs (%d failed, %d skipped)\n",
		report.Companies, report.Jobs, report.Failed, report.Skipped)

	return err
}

func printProfile(out io.Writer, profile jobs.CompanyProfile) {
	fmt.Fprintf(out, "\n%s\n%s\n\n", profile.Company, strings.Repeat("=", len(profile.Company)))
	fmt.Fprintf(out, "%s\n\n", profile.Summary)

	fmt.Fprintf(out, "Industry:   %s\n", profile.Industry)
	fmt.Fprintf(out, "Size:       %s\n", profile.Size)
	fmt.Fprintf(out, "Funding:    %s\n", profile.FundingStage)
	fmt.Fprintf(out, "Culture:    %s\n", profile.Culture)

	printList(out, "Tech stack", profile.TechStack)
	printList(out, "Values", profile.Values)
	printList(out, "Recent news", profile.RecentNews)
	printList(out, "Sources", profile.Sources)

	if profile.Error != "" {
		fmt.Fprintf(out, "\nError: %s\n", profile.Error)
	}
}

func printList(out io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", label)
	for _, item := range items {
		fmt.Fprintf(out, "  - %s\n", item)
	}
}
