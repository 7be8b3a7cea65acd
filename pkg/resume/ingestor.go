package resume

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nikogura/job-assistant/pkg/llm"
	"github.com/nikogura/job-assistant/pkg/schema"
)

// ErrNoDocument means no resume document is configured.
var ErrNoDocument = errors.New("no resume document configured")

// Cache persists the most recently parsed profile.
type Cache interface {
	LoadResume() (profile Profile, found bool, err error)
	SaveResume(profile Profile) (err error)
}

// StructuredParser is the part of the gateway resume parsing needs.
type StructuredParser interface {
	ParseStructured(ctx context.Context, prompt string) (result llm.Result)
}

//nolint:gochecknoglobals // extraction contract
var profileSchema = schema.Schema{
	schema.Strings("skills"),
	schema.Int("experience_years", 0),
	schema.NonEmptyString("experience_level", LevelMid),
	schema.Any("education", []any{}),
	schema.Any("notable_projects", []any{}),
	schema.Strings("areas_of_expertise"),
	schema.String("current_role", ""),
	schema.Any("previous_roles", []any{}),
}

// Ingestor produces the resume profile, from cache when possible.
type Ingestor struct {
	fetcher Fetcher
	docID   string
	gateway StructuredParser
	cache   Cache
	logger  *slog.Logger
	now     func() time.Time
}

// NewIngestor creates a resume ingestor for the document docID.
func NewIngestor(fetcher Fetcher, docID string, gateway StructuredParser, cache Cache, logger *slog.Logger) (ingestor *Ingestor) {
	if logger == nil {
		logger = slog.Default()
	}
	ingestor = &Ingestor{
		fetcher: fetcher,
		docID:   docID,
		gateway: gateway,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
	}
	return ingestor
}

// Load returns the cached profile unless forceRefresh is set or nothing is cached,
// in which case the document is fetched, parsed and written back to the cache.
func (in *Ingestor) Load(ctx context.Context, forceRefresh bool) (profile Profile, err error) {
	if !forceRefresh {
		var found bool
		profile, found, err = in.cache.LoadResume()
		if err != nil {
			in.logger.Warn("resume cache unreadable, re-parsing", "error", err)
			err = nil
		} else if found {
			in.logger.Debug("using cached resume", "parsed_at", profile.ParsedAt)
			return profile, err
		}
	}

	if strings.TrimSpace(in.docID) == "" {
		err = ErrNoDocument
		return profile, err
	}

	var text string
	text, err = in.fetcher.FetchText(ctx, in.docID)
	if err != nil {
		err = errors.Wrap(err, "failed to fetch resume")
		return profile, err
	}

	if strings.TrimSpace(text) == "" {
		err = errors.Errorf("resume document %s is empty", in.docID)
		return profile, err
	}

	profile, err = in.Parse(ctx, text)
	if err != nil {
		return profile, err
	}

	err = in.cache.SaveResume(profile)
	if err != nil {
		return profile, err
	}

	in.logger.Debug("parsed resume", "skills", len(profile.Skills), "experience_years", profile.ExperienceYears)

	return profile, err
}

// Parse extracts a profile from resume text.
func (in *Ingestor) Parse(ctx context.Context, text string) (profile Profile, err error) {
	result := in.gateway.ParseStructured(ctx, llm.BuildResumePrompt(text))
	if result.Failed() {
		err = errors.Errorf("failed to parse resume: %s", result.Error())
		return profile, err
	}

	record := profileSchema.Apply(result)

	profile = Profile{
		Skills:           record.Strings("skills"),
		ExperienceYears:  record.Int("experience_years"),
		ExperienceLevel:  strings.ToLower(strings.TrimSpace(record.String("experience_level"))),
		AreasOfExpertise: record.Strings("areas_of_expertise"),
		CurrentRole:      strings.TrimSpace(record.String("current_role")),
		RawText:          text,
		ParsedAt:         in.now().UTC(),
	}

	if !ValidLevel(profile.ExperienceLevel) {
		in.logger.Debug("normalizing experience level", "level", profile.ExperienceLevel)
		profile.ExperienceLevel = LevelMid
	}

	if profile.ExperienceYears < 0 {
		profile.ExperienceYears = 0
	}

	profile.Education = decodeList[Education](in.logger, record, "education")
	profile.NotableProjects = decodeList[Project](in.logger, record, "notable_projects")
	profile.PreviousRoles = decodeList[Role](in.logger, record, "previous_roles")

	return profile, err
}

// decodeList reads a list of objects, dropping the whole list when the model returned the wrong shape.
func decodeList[T any](logger *slog.Logger, record schema.Record, name string) (items []T) {
	items = []T{}

	var decoded []T
	err := record.Decode(name, &decoded)
	if err != nil {
		logger.Debug("ignoring malformed resume field", "field", name, "error", err)
		return items
	}

	if decoded != nil {
		items = decoded
	}

	return items
}
