package cmd

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/job-assistant/pkg/googleauth"
	"github.com/nikogura/job-assistant/pkg/ingest"
	"github.com/nikogura/job-assistant/pkg/llm"
	"github.com/nikogura/job-assistant/pkg/mail"
)

//nolint:gochecknoglobals // Cobra boilerplate
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Pull new job postings from unread Gmail job alerts",
	Long: `Reads unread job-alert emails, extracts one posting from each and saves it
to the job store. Postings already in the store are skipped. Every processed
email is marked read, whatever the outcome.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var client *http.Client
	client, err = googleauth.Client(ctx, a.cfg.Google.CredentialsPath, a.cfg.Google.GmailTokenPath, mail.Scope)
	if err != nil {
		err = errors.Wrap(err, "failed to authorize Gmail")
		return err
	}

	var mailbox *mail.Gmail
	mailbox, err = mail.NewGmail(ctx, client, a.logger)
	if err != nil {
		return err
	}

	var gateway *llm.Gateway
	gateway, err = a.llm(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Checking for up to %d job alerts...\n", a.cfg.MaxEmails)

	ingestor := ingest.NewIngestor(mailbox, ingest.NewParser(gateway), a.store, a.cfg.MaxEmails, a.logger)

	var report ingest.Report
	report, err = ingestor.Run(ctx)
	if err != nil {
		return err
	}

	for _, rec := range report.Records {
		switch rec.Outcome {
		case ingest.OutcomeCreated:
			fmt.Fprintf(out, "  + %s at %s (%s)\n", rec.Job.Title, rec.Job.Company, rec.Job.ID)
		case ingest.OutcomeDuplicate:
			fmt.Fprintf(out, "  = %s at %s (already saved)\n", rec.Job.Title, rec.Job.Company)
		case ingest.OutcomeFailed:
			fmt.Fprintf(out, "  ! message %s: %v\n", rec.MessageID, rec.Err)
		}
	}

	fmt.Fprintf(out, "\nProcessed %d emails: %d new, %d duplicate, %d failed\n",
		report.Seen, report.Created, report.Duplicates, report.Failed)

	if report.Created > 0 {
		a.rebuildIndex()
	}

	return err
}
