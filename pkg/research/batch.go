package research

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/nikogura/job-assistant/pkg/jobs"
	"github.com/nikogura/job-assistant/pkg/store"
)

// Looker returns a profile for a company, possibly from cache.
type Looker interface {
	Lookup(ctx context.Context, company string, refresh bool) (profile jobs.CompanyProfile)
}

// Store is the part of the job store batch research reads and writes.
type Store interface {
	List() (all []jobs.Job, err error)
	Save(job *jobs.Job) (id string, err error)
}

// BatchReport summarizes one batch research run.
type BatchReport struct {
	Jobs      int
	Companies int
	Failed    int
	Skipped   int
}

// Batch attaches company research to every high-scoring job.
type Batch struct {
	looker  Looker
	store   Store
	refresh bool
	logger  *slog.Logger
}

// NewBatch creates a batch researcher. With refresh set, every company is researched afresh.
func NewBatch(looker Looker, store Store, refresh bool, logger *slog.Logger) (batch *Batch) {
	if logger == nil {
		logger = slog.Default()
	}
	batch = &Batch{looker: looker, store: store, refresh: refresh, logger: logger}
	return batch
}

// Run researches each distinct company among jobs scored at or above threshold once,
// then writes the profile onto every job of that company.
func (b *Batch) Run(ctx context.Context, threshold int) (report BatchReport, err error) {
	var all []jobs.Job
	all, err = b.store.List()
	if err != nil {
		err = errors.Wrap(err, "failed to list jobs")
		return report, err
	}

	targets := store.FilterScoredAtLeast(all, threshold)
	profiles := map[string]jobs.CompanyProfile{}

	for i := range targets {
		job := targets[i]
		company := strings.TrimSpace(job.Company)
		if company == "" || strings.EqualFold(company, jobs.Unknown) {
			report.Skipped++
			continue
		}

		key := strings.ToLower(company)
		profile, ok := profiles[key]
		if !ok {
			b.logger.Info("researching company", "company", company)
			profile = b.looker.Lookup(ctx, company, b.refresh)
			profiles[key] = profile
			report.Companies++
			if profile.Error != "" {
				report.Failed++
				b.logger.Warn("company research failed", "company", company, "error", profile.Error)
			}
		}

		job.CompanyResearch = &profile
		_, err = b.store.Save(&job)
		if err != nil {
			err = errors.Wrapf(err, "failed to save research for %s", job.ID)
			return report, err
		}
		report.Jobs++
	}

	return report, err
}
