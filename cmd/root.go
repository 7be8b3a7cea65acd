package cmd

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var envFile string

//nolint:gochecknoglobals // Cobra boilerplate
var logger = slog.Default()

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "job-assistant",
	Short: "Triage job alerts and draft applications",
	Long: `job-assistant reads job-alert emails, scores each posting against your resume,
researches the companies behind the best matches and drafts cover letters and
resume highlights for them.

Every step is a separate command and can be re-run at any time:

  job-assistant check            # pull new postings from Gmail
  job-assistant score            # score unscored postings
  job-assistant review 70        # list postings scored 70 or more
  job-assistant research-high    # research companies above MIN_SCORE_FOR_RESEARCH
  job-assistant generate         # draft materials above MIN_SCORE_FOR_NOTIFICATION

Uses a local Ollama model by default, or Gemini on Vertex AI with LLM_PROVIDER=vertex.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(getVerbose())
		slog.SetDefault(logger)
	},
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default is ./.env)")
}

// getVerbose returns the verbose flag value.
func getVerbose() (result bool) {
	result = verbose
	return result
}

// getEnvFile returns the env file path.
func getEnvFile() (result string) {
	result = envFile
	return result
}

// newLogger creates the run's logger, tagged with a fresh run id.
func newLogger(debug bool) (l *slog.Logger) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	l = slog.New(handler).With("run_id", uuid.NewString())
	return l
}
