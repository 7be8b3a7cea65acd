package materials

import (
	"context"
	"log/slog"

	"github.com/nikogura/job-assistant/pkg/jobs"
)

// Output is what was written for one job.
type Output struct {
	JobID           string
	Title           string
	Company         string
	CoverLetterPath string
	HighlightsPath  string
}

// Report summarizes one generation run.
type Report struct {
	Generated int
	Failed    int
	Outputs   []Output
}

// Stage generates and saves materials for a list of jobs.
type Stage struct {
	generator *Generator
	writer    *Writer
	logger    *slog.Logger
}

// NewStage creates a generation stage.
func NewStage(generator *Generator, writer *Writer, logger *slog.Logger) (stage *Stage) {
	if logger == nil {
		logger = slog.Default()
	}
	stage = &Stage{generator: generator, writer: writer, logger: logger}
	return stage
}

// Run writes a cover letter and highlights for each job. A failure on one job
// is logged and counted, and the rest still run.
func (s *Stage) Run(ctx context.Context, targets []jobs.Job) (report Report) {
	report.Outputs = []Output{}

	for _, job := range targets {
		out, err := s.generate(ctx, job)
		if err != nil {
			report.Failed++
			s.logger.Error("failed to generate materials", "job_id", job.ID, "error", err)
			continue
		}
		report.Generated++
		report.Outputs = append(report.Outputs, out)
	}

	return report
}

func (s *Stage) generate(ctx context.Context, job jobs.Job) (out Output, err error) {
	out = Output{JobID: job.ID, Title: job.Title, Company: job.Company}

	var letter string
	letter, err = s.generator.CoverLetter(ctx, job, job.CompanyResearch)
	if err != nil {
		return out, err
	}

	out.CoverLetterPath, err = s.writer.WriteCoverLetter(job.ID, letter)
	if err != nil {
		return out, err
	}

	var highlights string
	highlights, err = s.generator.Highlights(ctx, job)
	if err != nil {
		return out, err
	}

	out.HighlightsPath, err = s.writer.WriteHighlights(job.ID, highlights)
	if err != nil {
		return out, err
	}

	s.logger.Debug("generated materials", "job_id", job.ID, "cover_letter", out.CoverLetterPath, "highlights", out.HighlightsPath)

	return out, err
}
