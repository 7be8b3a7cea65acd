package llm

import (
	"fmt"
	"strings"
)

// Character limits for text embedded in prompts.
const (
	EmailBodyLimit        = 2000
	ScoringDescLimit      = 1000
	PageContentLimit      = 2000
	ResearchContextLimit  = 5000
	CoverLetterDescLimit  = 800
	HighlightsDescLimit   = 1000
	researchSourceDivider = "\n\n---\n\n"
)

// BuildExtractionPrompt asks for the fields of a job posting found in an email.
func BuildExtractionPrompt(req ExtractionRequest) (prompt string) {
	prompt = fmt.Sprintf(`Extract job information from this email in JSON format:

Subject: %s
From: %s
Body: %s

Return a JSON object with these fields:
- title: job title (string)
- company: company name (string)
- location: job location (string, "Remote" if remote)
- description: job description (string, max 500 chars)
- url: application URL if present (string, empty if not found)
- source: email source (e.g., "LinkedIn", "Indeed", "Glassdoor")
- salary: salary range if mentioned (string, empty if not found)
- employment_type: "full-time", "part-time", "contract", or "unknown"

Example output:
{
  "title": "Software Engineer",
  "company": "Tech Corp",
  "location": "San Francisco, CA",
  "description": "We are looking for a software engineer...",
  "url": "https://company.com/jobs/123",
  "source": "LinkedIn",
  "salary": "$100k-150k",
  "employment_type": "full-time"
}

Return ONLY valid JSON, no other text:`, req.Subject, req.From, Truncate(req.Body, EmailBodyLimit))

	return prompt
}

// BuildResumePrompt asks for a structured profile of a resume.
func BuildResumePrompt(resumeText string) (prompt string) {
	prompt = fmt.Sprintf(`Extract the following information from this resume in JSON format:

%s

Return a JSON object with these fields:
- skills: array of programming languages, frameworks, tools, technologies
- experience_years: number of years of professional experience
- experience_level: "entry", "mid", "senior", or "executive"
- education: array of degrees with fields: degree, field, institution, year
- notable_projects: array of projects with fields: name, description, technologies
- areas_of_expertise: array of domain areas (e.g., "Machine Learning", "Web Development")
- current_role: string describing current or most recent position
- previous_roles: array of previous positions with fields: title, company, duration, responsibilities

Example output:
{
  "skills": ["Python", "JavaScript", "React", "AWS"],
  "experience_years": 5,
  "experience_level": "mid",
  "education": [{"degree": "BS", "field": "Computer Science", "institution": "University", "year": 2019}],
  "notable_projects": [{"name": "Project X", "description": "...", "technologies": ["Python", "Django"]}],
  "areas_of_expertise": ["Machine Learning", "Backend Development"],
  "current_role": "Software Engineer at Company",
  "previous_roles": [{"title": "Developer", "company": "Company", "duration": "2020-2022", "responsibilities": "..."}]
}

Return ONLY valid JSON, no other text:`, resumeText)

	return prompt
}

// BuildScoringPrompt asks for a 0-100 match score with the weighted breakdown.
func BuildScoringPrompt(req ScoringRequest) (prompt string) {
	prefs := "None specified"
	if len(req.Preferences) > 0 {
		prefs = strings.Join(req.Preferences, ", ")
	}

	location := "No preference"
	if req.PreferredLocation != "" {
		location = req.PreferredLocation
	}

	level := req.ExperienceLevel
	if level == "" {
		level = "mid"
	}

	currentRole := req.CurrentRole
	if currentRole == "" {
		currentRole = "Unknown"
	}

	prompt = fmt.Sprintf(`Score this job posting from 0-100 based on how well it matches the resume and preferences.

RESUME INFORMATION:
- Skills: %s
- Areas of Expertise: %s
- Experience: %d years, %s level
- Current Role: %s

JOB POSTING:
Title: %s
Company: %s
Location: %s
Description: %s

USER PREFERENCES:
- Preferences: %s
- Preferred Location: %s

Score based on:
1. Skills match (40 points): How well do the job requirements match the resume skills?
2. Experience level match (20 points): Does the required experience level match?
3. Preferences match (20 points): Does it match user preferences (remote, company size, industry)?
4. Location match (10 points): Is the location desirable?
5. Overall fit (10 points): General fit based on career trajectory

The five scores must add up to the overall score.

Return a JSON object with:
- score: integer from 0-100
- reasoning: string explaining the score
- skill_match_score: integer 0-40
- experience_match_score: integer 0-20
- preferences_match_score: integer 0-20
- location_match_score: integer 0-10
- overall_fit_score: integer 0-10
- matched_skills: array of skills from resume that match the job
- missing_skills: array of skills mentioned in job but not in resume

Example output:
{
  "score": 85,
  "reasoning": "Strong match: 8/10 skills match, experience level aligns, remote preference met",
  "skill_match_score": 35,
  "experience_match_score": 18,
  "preferences_match_score": 15,
  "location_match_score": 8,
  "overall_fit_score": 9,
  "matched_skills": ["Python", "AWS", "Docker"],
  "missing_skills": ["Kubernetes"]
}

Return ONLY valid JSON, no other text:`,
		strings.Join(req.Skills, ", "),
		strings.Join(req.Expertise, ", "),
		req.ExperienceYears, level,
		currentRole,
		req.Title, req.Company, req.Location,
		Truncate(req.Description, ScoringDescLimit),
		prefs, location)

	return prompt
}

// BuildResearchPrompt asks for a company profile synthesized from fetched pages.
func BuildResearchPrompt(req ResearchRequest) (prompt string) {
	sections := make([]string, 0, len(req.Sources))
	for _, src := range req.Sources {
		sections = append(sections, fmt.Sprintf("URL: %s\nTitle: %s\nContent: %s", src.URL, src.Title, src.Content))
	}
	contextText := Truncate(strings.Join(sections, researchSourceDivider), ResearchContextLimit)

	prompt = fmt.Sprintf(`Research this company and extract key information in JSON format:

Company: %s

Sources:
%s

Return a JSON object with:
- company: company name
- summary: brief company overview (2-3 sentences)
- tech_stack: array of technologies they use (if tech company)
- values: array of company values/culture points
- recent_news: array of recent news items (max 3)
- culture: description of company culture (2-3 sentences)
- size: company size if mentioned (e.g., "500-1000 employees")
- industry: primary industry
- funding_stage: funding stage if startup (e.g., "Series B", "Public")

Example output:
{
  "company": "Tech Corp",
  "summary": "Tech Corp is a leading SaaS company...",
  "tech_stack": ["Python", "React", "AWS", "Kubernetes"],
  "values": ["Innovation", "Work-life balance", "Diversity"],
  "recent_news": ["Raised Series B funding", "Launched new product"],
  "culture": "Fast-paced startup culture with emphasis on collaboration",
  "size": "200-500 employees",
  "industry": "SaaS",
  "funding_stage": "Series B"
}

Return ONLY valid JSON, no other text:`, req.Company, contextText)

	return prompt
}

// BuildCoverLetterPrompt asks for a ~300 word cover letter.
func BuildCoverLetterPrompt(req CoverLetterRequest) (prompt string) {
	companySection := ""
	if req.CompanyInfo != nil {
		companySection = fmt.Sprintf(`
Company Information:
- Summary: %s
- Tech Stack: %s
- Values: %s
- Culture: %s
`, req.CompanyInfo.Summary,
			strings.Join(req.CompanyInfo.TechStack, ", "),
			strings.Join(req.CompanyInfo.Values, ", "),
			req.CompanyInfo.Culture)
	}

	projects := make([]string, 0, len(req.Projects))
	for _, p := range req.Projects {
		projects = append(projects, fmt.Sprintf("- %s: %s (Technologies: %s)", p.Name, p.Description, strings.Join(p.Technologies, ", ")))
	}

	prompt = fmt.Sprintf(`Write a professional, customized cover letter for this job application.

JOB INFORMATION:
Title: %s
Company: %s
Location: %s
Description: %s
%s
MY BACKGROUND:
Current Role: %s
Key Skills: %s
Notable Projects:
%s

INSTRUCTIONS:
1. Address the letter professionally (use "Dear Hiring Manager" if name unknown)
2. Express genuine interest in the specific role and company
3. Mention 2-3 specific skills or experiences that match the job requirements
4. Reference something specific about the company (from research if available, or general interest)
5. Highlight one relevant project or achievement
6. Keep it concise (3-4 paragraphs, ~300 words)
7. End with enthusiasm and call to action
8. Use professional but warm tone

Write the cover letter now:`,
		req.Title, req.Company, req.Location,
		Truncate(req.Description, CoverLetterDescLimit),
		companySection,
		req.CurrentRole,
		strings.Join(req.Skills, ", "),
		strings.Join(projects, "\n"))

	return prompt
}

// BuildHighlightsPrompt asks for 4-6 resume bullets tailored to a job.
func BuildHighlightsPrompt(req HighlightsRequest) (prompt string) {
	prompt = fmt.Sprintf(`Generate a list of resume highlights tailored to this job posting.

JOB POSTING:
Title: %s
Company: %s
Description: %s

MY RESUME:
Skills: %s
Projects: %d notable projects
Experience: %d roles

INSTRUCTIONS:
Create 4-6 bullet points that highlight:
1. Most relevant skills that match the job
2. Relevant projects or achievements
3. Relevant experience
4. Why you're a good fit

Format as bullet points, each 1-2 sentences. Be specific and quantify achievements where possible.

Example format:
- 5+ years of experience with Python and AWS, building scalable backend systems
- Led development of [Project Name] using [Technologies], resulting in [Achievement]
- Expertise in [Skill] with [X] years of hands-on experience

Generate the highlights now:`,
		req.Title, req.Company,
		Truncate(req.Description, HighlightsDescLimit),
		strings.Join(req.Skills, ", "),
		req.ProjectCount, req.RoleCount)

	return prompt
}
