package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nikogura/job-assistant/pkg/export"
	"github.com/nikogura/job-assistant/pkg/jobs"
	"github.com/nikogura/job-assistant/pkg/store"
)

//nolint:gochecknoglobals // Cobra boilerplate
var minScore int

//nolint:gochecknoglobals // Cobra boilerplate
var xlsxPath string

//nolint:gochecknoglobals // Cobra boilerplate
var reviewCmd = &cobra.Command{
	Use:   "review [min-score]",
	Short: "List saved job postings",
	Long: `Lists saved postings. With a minimum score (positional or --min-score), only
postings scoring at least that much are shown, highest first. Unscored
postings count as 0.

Example:
  job-assistant review
  job-assistant review 70
  job-assistant review --min-score 80 --xlsx review.xlsx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.Flags().IntVar(&minScore, "min-score", 0, "Only show postings scoring at least this much")
	reviewCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also export the listing to this Excel file")
}

func runReview(cmd *cobra.Command, args []string) (err error) {
	threshold := minScore
	filtered := cmd.Flags().Changed("min-score")
	if len(args) == 1 {
		threshold, err = strconv.Atoi(args[0])
		if err != nil {
			err = errors.Errorf("min-score must be a number, got '%s'", args[0])
			return err
		}
		filtered = true
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var all []jobs.Job
	all, err = a.store.List()
	if err != nil {
		return err
	}

	listing := filterForReview(all, threshold, filtered)

	out := cmd.OutOrStdout()
	printListing(out, listing)

	if filtered {
		fmt.Fprintf(out, "\n%d of %d jobs scored %d or more\n", len(listing), len(all), threshold)
	} else {
		fmt.Fprintf(out, "\n%d jobs\n", len(listing))
	}

	if xlsxPath != "" {
		var path string
		path, err = export.ExportJobs(listing, xlsxPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported to %s\n", path)
	}

	return err
}

// filterForReview returns every job in store order, or, when filtered, the jobs scoring at
// least threshold sorted by descending score.
func filterForReview(all []jobs.Job, threshold int, filtered bool) (listing []jobs.Job) {
	if !filtered {
		listing = all
		return listing
	}

	listing = store.FilterScoredAtLeast(all, threshold)
	store.SortByScore(listing)

	return listing
}

func printListing(out io.Writer, listing []jobs.Job) {
	title := cases.Title(language.English)
	fmt.Fprintf(out, "%-5s  %-12s  %-40s  %-24s  %s\n",
		title.String("score"), title.String("id"), title.String("title"), title.String("company"), title.String("source"))

	for i := range listing {
		job := listing[i]
		score := "-"
		if job.Scored() {
			score = strconv.Itoa(job.ScoreValue())
		}
		fmt.Fprintf(out, "%-5s  %-12s  %-40s  %-24s  %s\n", score, job.ID, clip(job.Title, 40), clip(job.Company, 24), job.Source)
	}
}

// clip shortens s to n runes for column display.
func clip(s string, n int) (out string) {
	runes := []rune(s)
	if len(runes) <= n {
		out = s
		return out
	}
	out = string(runes[:n-1]) + "…"
	return out
}
