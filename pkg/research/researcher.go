package research

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/nikogura/job-assistant/pkg/jobs"
	"github.com/nikogura/job-assistant/pkg/llm"
	"github.com/nikogura/job-assistant/pkg/schema"
)

const (
	// DefaultMaxURLs is how many search results are fetched per company.
	DefaultMaxURLs = 5
	// MaxRecentNews caps the news items kept on a profile.
	MaxRecentNews = 3
	// NoInformation is the summary of a profile built from zero pages.
	NoInformation = "No information found"
)

// StructuredParser is the part of the gateway research needs.
type StructuredParser interface {
	ParseStructured(ctx context.Context, prompt string) (result llm.Result)
}

// Researcher searches the web for a company and has the model summarize what it finds.
type Researcher struct {
	searcher Searcher
	fetcher  PageFetcher
	gateway  StructuredParser
	maxURLs  int
	logger   *slog.Logger
	now      func() time.Time
}

// NewResearcher creates a researcher. maxURLs <= 0 uses DefaultMaxURLs.
func NewResearcher(searcher Searcher, fetcher PageFetcher, gateway StructuredParser, maxURLs int, logger *slog.Logger) (researcher *Researcher) {
	if maxURLs <= 0 {
		maxURLs = DefaultMaxURLs
	}
	if logger == nil {
		logger = slog.Default()
	}
	researcher = &Researcher{
		searcher: searcher,
		fetcher:  fetcher,
		gateway:  gateway,
		maxURLs:  maxURLs,
		logger:   logger,
		now:      time.Now,
	}
	return researcher
}

// Query is the search query used for a company.
func Query(company string) (query string) {
	query = company + " company culture technology stack"
	return query
}

// Research builds a profile for company. It never fails: search, fetch and model
// problems degrade the profile instead.
func (r *Researcher) Research(ctx context.Context, company string) (profile jobs.CompanyProfile) {
	results, err := r.searcher.Search(ctx, Query(company), r.maxURLs)
	if err != nil {
		r.logger.Warn("company search failed", "company", company, "error", err)
		results = nil
	}

	pages := r.fetchPages(ctx, results)
	sources := make([]string, 0, len(pages))
	for _, p := range pages {
		sources = append(sources, p.URL)
	}

	if len(pages) == 0 {
		profile = emptyProfile(company, NoInformation)
		profile.FetchedAt = r.now().UTC()
		return profile
	}

	result := r.gateway.ParseStructured(ctx, llm.BuildResearchPrompt(llm.ResearchRequest{
		Company: company,
		Sources: pages,
	}))

	if result.Failed() {
		profile = emptyProfile(company, "Research failed: "+result.Error())
		profile.Sources = sources
		profile.Error = result.Error()
		profile.FetchedAt = r.now().UTC()
		return profile
	}

	record := profileSchema(company).Apply(result)

	profile = jobs.CompanyProfile{
		Company:      record.String("company"),
		Summary:      record.String("summary"),
		TechStack:    record.Strings("tech_stack"),
		Values:       record.Strings("values"),
		RecentNews:   record.Strings("recent_news"),
		Culture:      record.String("culture"),
		Size:         record.String("size"),
		Industry:     record.String("industry"),
		FundingStage: record.String("funding_stage"),
		Sources:      sources,
		FetchedAt:    r.now().UTC(),
	}

	if len(profile.RecentNews) > MaxRecentNews {
		profile.RecentNews = profile.RecentNews[:MaxRecentNews]
	}

	return profile
}

func (r *Researcher) fetchPages(ctx context.Context, results []SearchResult) (pages []llm.SourcePage) {
	pages = []llm.SourcePage{}
	for i, res := range results {
		if i >= r.maxURLs {
			break
		}

		text, err := r.fetcher.Fetch(ctx, res.URL)
		if err != nil {
			r.logger.Debug("skipping page", "url", res.URL, "error", err)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		pages = append(pages, llm.SourcePage{
			URL:     res.URL,
			Title:   res.Title,
			Content: llm.Truncate(text, llm.PageContentLimit),
		})
	}
	return pages
}

func profileSchema(company string) (s schema.Schema) {
	s = schema.Schema{
		schema.NonEmptyString("company", company),
		schema.String("summary", ""),
		schema.Strings("tech_stack"),
		schema.Strings("values"),
		schema.Strings("recent_news"),
		schema.NonEmptyString("culture", jobs.Unknown),
		schema.NonEmptyString("size", jobs.Unknown),
		schema.NonEmptyString("industry", jobs.Unknown),
		schema.NonEmptyString("funding_stage", jobs.Unknown),
	}
	return s
}

func emptyProfile(company, summary string) (profile jobs.CompanyProfile) {
	profile = jobs.CompanyProfile{
		Company:      company,
		Summary:      summary,
		TechStack:    []string{},
		Values:       []string{},
		RecentNews:   []string{},
		Culture:      jobs.Unknown,
		Size:         jobs.Unknown,
		Industry:     jobs.Unknown,
		FundingStage: jobs.Unknown,
		Sources:      []string{},
	}
	return profile
}

// Slug turns a company name into a cache key.
func Slug(company string) (slug string) {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(company)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastDash = false
		case !lastDash:
			sb.WriteByte('-')
			lastDash = true
		}
	}
	slug = strings.TrimSuffix(sb.String(), "-")
	return slug
}
