package ingest

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/nikogura/job-assistant/pkg/jobs"
	"github.com/nikogura/job-assistant/pkg/mail"
)

// Mailbox lists unread job alerts and marks them read.
type Mailbox interface {
	UnreadJobMessages(ctx context.Context, limit int) (messages []mail.Message, err error)
	MarkRead(ctx context.Context, id string) (err error)
}

// Store is the part of the job store ingestion writes to.
type Store interface {
	Exists(id string) (exists bool, err error)
	Save(job *jobs.Job) (id string, err error)
}

// Outcome of processing one message.
type Outcome string

// Outcomes.
const (
	OutcomeCreated   Outcome = "created"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeFailed    Outcome = "failed"
)

// Processed is what happened to one message.
type Processed struct {
	MessageID string
	Job       jobs.Job
	Outcome   Outcome
	Err       error
}

// Report summarizes one ingestion run.
type Report struct {
	Seen       int
	Created    int
	Duplicates int
	Failed     int
	Records    []Processed
}

// Ingestor moves new job alerts from the mailbox into the store.
type Ingestor struct {
	mailbox Mailbox
	parser  *Parser
	store   Store
	limit   int
	logger  *slog.Logger
}

// NewIngestor creates an ingestor that reads up to limit messages per run.
func NewIngestor(mailbox Mailbox, parser *Parser, store Store, limit int, logger *slog.Logger) (ingestor *Ingestor) {
	if logger == nil {
		logger = slog.Default()
	}
	ingestor = &Ingestor{
		mailbox: mailbox,
		parser:  parser,
		store:   store,
		limit:   limit,
		logger:  logger,
	}
	return ingestor
}

// Run processes every unread job alert. Only a failure to list the mailbox is returned as an error;
// per-message failures are logged, counted and do not stop the run. Every message is marked read.
func (in *Ingestor) Run(ctx context.Context) (report Report, err error) {
	var messages []mail.Message
	messages, err = in.mailbox.UnreadJobMessages(ctx, in.limit)
	if err != nil {
		err = errors.Wrap(err, "failed to fetch job emails")
		return report, err
	}

	report.Seen = len(messages)
	report.Records = make([]Processed, 0, len(messages))

	for _, msg := range messages {
		processed := in.process(ctx, msg)

		switch processed.Outcome {
		case OutcomeCreated:
			report.Created++
		case OutcomeDuplicate:
			report.Duplicates++
		case OutcomeFailed:
			report.Failed++
			in.logger.Error("failed to ingest message", "message_id", msg.ID, "subject", msg.Subject, "error", processed.Err)
		}
		report.Records = append(report.Records, processed)

		markErr := in.mailbox.MarkRead(ctx, msg.ID)
		if markErr != nil {
			in.logger.Warn("failed to mark message read", "message_id", msg.ID, "error", markErr)
		}
	}

	return report, err
}

// process handles one message. A panic inside parsing is turned into a failed outcome.
func (in *Ingestor) process(ctx context.Context, msg mail.Message) (processed Processed) {
	processed.MessageID = msg.ID
	processed.Outcome = OutcomeFailed

	defer func() {
		if r := recover(); r != nil {
			processed.Outcome = OutcomeFailed
			processed.Err = errors.Errorf("panic while parsing message: %v", r)
		}
	}()

	job := in.parser.Parse(ctx, msg.Subject, msg.Body, msg.From)
	id := job.ComputeID()
	job.ID = id
	processed.Job = job

	if job.ExtractionError != "" {
		in.logger.Warn("model extraction failed, using fallbacks", "message_id", msg.ID, "error", job.ExtractionError)
	}

	exists, err := in.store.Exists(id)
	if err != nil {
		processed.Err = err
		return processed
	}

	if exists {
		processed.Outcome = OutcomeDuplicate
		return processed
	}

	_, err = in.store.Save(&job)
	if err != nil {
		processed.Err = err
		return processed
	}

	processed.Job = job
	processed.Outcome = OutcomeCreated

	return processed
}
