// Package ingest turns job-alert emails into stored job records.
package ingest

import (
	"context"
	"regexp"
	"strings"

	"github.com/nikogura/job-assistant/pkg/jobs"
	"github.com/nikogura/job-assistant/pkg/llm"
	"github.com/nikogura/job-assistant/pkg/schema"
)

const (
	// DescriptionLimit caps stored descriptions.
	DescriptionLimit = 500
	titleLimit       = 100
)

var (
	replyPrefix    = regexp.MustCompile(`(?i)^re:\s*`)
	forwardPrefix  = regexp.MustCompile(`(?i)^fwd?:\s*`)
	titleSeparator = regexp.MustCompile(`[|\-–—]`)
	urlPattern     = regexp.MustCompile("https?://[^\\s<>\"{}|\\\\^`\\[\\]]+")
)

//nolint:gochecknoglobals // fixed keyword lists
var (
	jobURLKeywords = []string{"job", "career", "apply", "position", "opening"}
	sources        = []struct{ keyword, name string }{
		{"linkedin", "LinkedIn"},
		{"indeed", "Indeed"},
		{"glassdoor", "Glassdoor"},
		{"ziprecruiter", "ZipRecruiter"},
		{"monster", "Monster"},
	}
)

// StructuredParser is the part of the gateway the parser needs.
type StructuredParser interface {
	ParseStructured(ctx context.Context, prompt string) (result llm.Result)
}

// Parser extracts job fields from one email.
type Parser struct {
	gateway StructuredParser
}

// NewParser creates a parser.
func NewParser(gateway StructuredParser) (parser *Parser) {
	parser = &Parser{gateway: gateway}
	return parser
}

// Parse asks the model for the posting's fields and backfills anything it left out.
// The returned job always has title, company, location, url, source and description set.
func (p *Parser) Parse(ctx context.Context, subject, body, from string) (job jobs.Job) {
	result := p.gateway.ParseStructured(ctx, llm.BuildExtractionPrompt(llm.ExtractionRequest{
		Subject: subject,
		From:    from,
		Body:    body,
	}))

	var extractionErr string
	values := map[string]any(result)
	if result.Failed() {
		extractionErr = result.Error()
		values = map[string]any{}
	}

	record := jobSchema(subject, body, from).Apply(values)

	job = jobs.Job{
		Title:           record.String("title"),
		Company:         record.String("company"),
		Location:        record.String("location"),
		Description:     llm.Truncate(record.String("description"), DescriptionLimit),
		URL:             strings.TrimSpace(record.String("url")),
		Source:          record.String("source"),
		Salary:          record.String("salary"),
		EmploymentType:  record.String("employment_type"),
		ExtractionError: extractionErr,
	}

	return job
}

// jobSchema is the extraction contract with its per-email fallbacks.
func jobSchema(subject, body, from string) (s schema.Schema) {
	s = schema.Schema{
		schema.NonEmptyString("title", TitleFromSubject(subject)),
		schema.String("company", jobs.Unknown),
		schema.String("location", jobs.Unknown),
		schema.String("url", ExtractURL(body)),
		schema.String("source", SourceFromSender(from)),
		schema.String("description", llm.Truncate(body, DescriptionLimit)),
		schema.String("salary", ""),
		schema.String("employment_type", "unknown"),
	}
	return s
}

// TitleFromSubject strips reply/forward prefixes and keeps the part before the first separator.
func TitleFromSubject(subject string) (title string) {
	title = strings.TrimSpace(subject)
	title = replyPrefix.ReplaceAllString(title, "")
	title = forwardPrefix.ReplaceAllString(title, "")
	title = strings.TrimSpace(titleSeparator.Split(title, 2)[0])
	title = llm.Truncate(title, titleLimit)
	return title
}

// ExtractURL returns the first URL that looks like a posting, else the first URL, else "".
func ExtractURL(body string) (url string) {
	urls := urlPattern.FindAllString(body, -1)
	for _, u := range urls {
		lower := strings.ToLower(u)
		for _, kw := range jobURLKeywords {
			if strings.Contains(lower, kw) {
				url = u
				return url
			}
		}
	}
	if len(urls) > 0 {
		url = urls[0]
	}
	return url
}

// SourceFromSender names the job board a sender belongs to, or "Unknown".
func SourceFromSender(from string) (source string) {
	lower := strings.ToLower(from)
	for _, s := range sources {
		if strings.Contains(lower, s.keyword) {
			source = s.name
			return source
		}
	}
	source = jobs.Unknown
	return source
}
