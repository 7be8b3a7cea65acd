// Package materials drafts cover letters and resume highlights for a job.
package materials

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/nikogura/job-assistant/pkg/jobs"
	"github.com/nikogura/job-assistant/pkg/llm"
	"github.com/nikogura/job-assistant/pkg/resume"
)

// maxProjects caps the projects quoted in a cover letter.
const maxProjects = 3

// TextGenerator is the part of the gateway prose generation needs.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, creative bool) (text string, err error)
}

// Generator writes job-specific prose from the resume profile.
type Generator struct {
	gateway TextGenerator
	profile resume.Profile
}

// NewGenerator creates a generator for profile.
func NewGenerator(gateway TextGenerator, profile resume.Profile) (generator *Generator) {
	generator = &Generator{gateway: gateway, profile: profile}
	return generator
}

// CoverLetter drafts a cover letter. company may be nil.
func (g *Generator) CoverLetter(ctx context.Context, job jobs.Job, company *jobs.CompanyProfile) (letter string, err error) {
	req := llm.CoverLetterRequest{
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Description: job.Description,
		CurrentRole: g.profile.CurrentRole,
		Skills:      g.profile.Skills,
	}

	if company != nil {
		req.CompanyInfo = &llm.CompanyExcerpt{
			Summary:   company.Summary,
			TechStack: company.TechStack,
			Values:    company.Values,
			Culture:   company.Culture,
		}
	}

	for i, p := range g.profile.NotableProjects {
		if i >= maxProjects {
			break
		}
		req.Projects = append(req.Projects, llm.ProjectSummary{
			Name:         p.Name.String(),
			Description:  p.Description.String(),
			Technologies: p.Technologies,
		})
	}

	letter, err = g.gateway.GenerateText(ctx, llm.BuildCoverLetterPrompt(req), true)
	if err != nil {
		err = errors.Wrapf(err, "failed to generate cover letter for %s", job.ID)
		return letter, err
	}

	letter = strings.TrimSpace(letter)

	return letter, err
}

// Highlights drafts 4-6 resume bullets tailored to job.
func (g *Generator) Highlights(ctx context.Context, job jobs.Job) (highlights string, err error) {
	highlights, err = g.gateway.GenerateText(ctx, llm.BuildHighlightsPrompt(llm.HighlightsRequest{
		Title:        job.Title,
		Company:      job.Company,
		Description:  job.Description,
		Skills:       g.profile.Skills,
		ProjectCount: len(g.profile.NotableProjects),
		RoleCount:    len(g.profile.PreviousRoles),
	}), true)
	if err != nil {
		err = errors.Wrapf(err, "failed to generate highlights for %s", job.ID)
		return highlights, err
	}

	highlights = strings.TrimSpace(highlights)

	return highlights, err
}
