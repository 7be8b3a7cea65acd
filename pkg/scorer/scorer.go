// Package scorer rates stored jobs against the resume profile.
package scorer

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/nikogura/job-assistant/pkg/jobs"
	"github.com/nikogura/job-assistant/pkg/llm"
	"github.com/nikogura/job-assistant/pkg/resume"
	"github.com/nikogura/job-assistant/pkg/schema"
)

// DefaultReasoning is used when the model gave a score but no explanation.
const DefaultReasoning = "Score calculated based on resume match"

// StructuredParser is the part of the gateway scoring needs.
type StructuredParser interface {
	ParseStructured(ctx context.Context, prompt string) (result llm.Result)
}

// Preferences is what the user is looking for.
type Preferences struct {
	Items    []string
	Location string
}

// Scorer calculates match scores for individual jobs.
type Scorer struct {
	gateway     StructuredParser
	profile     resume.Profile
	preferences Preferences
	logger      *slog.Logger
}

// NewScorer creates a new scorer instance.
func NewScorer(gateway StructuredParser, profile resume.Profile, preferences Preferences, logger *slog.Logger) (scorer *Scorer) {
	if logger == nil {
		logger = slog.Default()
	}
	scorer = &Scorer{
		gateway:     gateway,
		profile:     profile,
		preferences: preferences,
		logger:      logger,
	}
	return scorer
}

func scoringSchema() (s schema.Schema) {
	s = schema.Schema{
		schema.Int("score", 0),
		schema.NonEmptyString("reasoning", DefaultReasoning),
		schema.Strings("matched_skills"),
		schema.Strings("missing_skills"),
	}
	for _, rule := range ScoringRules {
		s = append(s, schema.Int(rule.Field, 0))
	}
	return s
}

// Score rates one job. It never fails: a model failure yields a zero score with Error set.
func (s *Scorer) Score(ctx context.Context, job jobs.Job) (scoring jobs.Scoring) {
	result := s.gateway.ParseStructured(ctx, llm.BuildScoringPrompt(llm.ScoringRequest{
		Skills:            s.profile.Skills,
		Expertise:         s.profile.AreasOfExpertise,
		ExperienceYears:   s.profile.ExperienceYears,
		ExperienceLevel:   s.profile.ExperienceLevel,
		CurrentRole:       s.profile.CurrentRole,
		Title:             job.Title,
		Company:           job.Company,
		Location:          job.Location,
		Description:       job.Description,
		Preferences:       s.preferences.Items,
		PreferredLocation: s.preferences.Location,
	}))

	scoring = jobs.Scoring{
		MatchedSkills:     []string{},
		MissingSkills:     []string{},
		ResumeSkillsCount: len(s.profile.Skills),
		JobTitle:          job.Title,
		JobCompany:        job.Company,
	}

	if result.Failed() {
		scoring.Reasoning = "Scoring failed: " + result.Error()
		scoring.Error = result.Error()
		return scoring
	}

	record := scoringSchema().Apply(result)

	score, ok := record.IntOK("score")
	if !ok {
		s.logger.Debug("non-numeric score, using 0", "job_id", job.ID, "score", result["score"])
	}
	scoring.Score = clamp(score, MaxScore)
	scoring.Reasoning = record.String("reasoning")
	scoring.MatchedSkills = record.Strings("matched_skills")
	scoring.MissingSkills = record.Strings("missing_skills")

	for _, rule := range ScoringRules {
		value := clamp(record.Int(rule.Field), rule.Weight)
		switch rule.Name {
		case RuleSkills:
			scoring.SkillMatchScore = value
		case RuleExperience:
			scoring.ExperienceMatchScore = value
		case RulePreferences:
			scoring.PreferencesMatchScore = value
		case RuleLocation:
			scoring.LocationMatchScore = value
		case RuleFit:
			scoring.OverallFitScore = value
		}
	}

	if total := scoring.SubScoreTotal(); total != scoring.Score {
		s.logger.Debug("sub-scores do not add up", "job_id", job.ID, "score", scoring.Score, "sub_total", total)
	}

	return scoring
}

// Store is the part of the job store scoring reads and writes.
type Store interface {
	List() (all []jobs.Job, err error)
	Save(job *jobs.Job) (id string, err error)
}

// Report summarizes one scoring run.
type Report struct {
	Candidates int
	Scored     int
	Failed     int
	Jobs       []jobs.Job
}

// Stage scores every unscored job in the store.
type Stage struct {
	scorer *Scorer
	store  Store
	logger *slog.Logger
}

// NewStage creates a scoring stage.
func NewStage(scorer *Scorer, store Store, logger *slog.Logger) (stage *Stage) {
	if logger == nil {
		logger = slog.Default()
	}
	stage = &Stage{
		scorer: scorer,
		store:  store,
		logger: logger,
	}
	return stage
}

// Run scores each job with no score (or a zero score) and writes it back.
// A store error aborts the run; model failures are recorded on the job and counted.
func (st *Stage) Run(ctx context.Context) (report Report, err error) {
	var all []jobs.Job
	all, err = st.store.List()
	if err != nil {
		err = errors.Wrap(err, "failed to list jobs")
		return report, err
	}

	for i := range all {
		job := all[i]
		if !job.Unscored() {
			continue
		}
		report.Candidates++

		scoring := st.scorer.Score(ctx, job)
		job.SetScore(scoring.Score)
		job.Scoring = &scoring

		_, err = st.store.Save(&job)
		if err != nil {
			err = errors.Wrapf(err, "failed to save score for %s", job.ID)
			return report, err
		}

		if scoring.Error != "" {
			report.Failed++
			st.logger.Warn("scoring failed", "job_id", job.ID, "error", scoring.Error)
		} else {
			report.Scored++
			st.logger.Debug("scored job", "job_id", job.ID, "title", job.Title, "score", scoring.Score)
		}

		report.Jobs = append(report.Jobs, job)
	}

	return report, err
}
