package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikogura/job-assistant/pkg/index"
)

//nolint:gochecknoglobals // Cobra boilerplate
var searchLimit int

//nolint:gochecknoglobals // Cobra boilerplate
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the search index from the job store",
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

//nolint:gochecknoglobals // Cobra boilerplate
var searchCmd = &cobra.Command{
	Use:   "search <terms...>",
	Short: "Search saved postings by title, company and description",
	Long: `Searches the index built by the index command (and refreshed by check and
score).

Example:
  job-assistant search platform engineer
  job-assistant search kubernetes --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results")
}

func runIndex(cmd *cobra.Command, args []string) (err error) {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	count, err := a.reindex()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d jobs in %s\n", count, a.cfg.Storage.IndexFile)

	return err
}

func runSearch(cmd *cobra.Command, args []string) (err error) {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var indexer *index.Indexer
	indexer, err = index.NewIndexer(a.cfg.Storage.IndexFile)
	if err != nil {
		return err
	}

	var hits []index.Hit
	hits, err = indexer.Search(strings.Join(args, " "), searchLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(hits) == 0 {
		fmt.Fprintf(out, "No matches (run 'job-assistant index' if the store changed)\n")
		return err
	}

	for _, hit := range hits {
		score := "-"
		if hit.Entry.Score != nil {
			score = fmt.Sprintf("%d", *hit.Entry.Score)
		}
		fmt.Fprintf(out, "%-5s  %-12s  %s at %s\n", score, hit.Entry.ID, hit.Entry.Title, hit.Entry.Company)
	}

	return err
}
