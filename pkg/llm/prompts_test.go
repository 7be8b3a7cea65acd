package llm

import (
	"strings"
	"testing"
)

func TestBuildExtractionPrompt(t *testing.T) {
	body := strings.Repeat("x", EmailBodyLimit+500)
	prompt := BuildExtractionPrompt(ExtractionRequest{
		Subject: "Senior Backend Engineer - Acme Corp",
		From:    "jobs@linkedin.com",
		Body:    body,
	})

	if !strings.Contains(prompt, "Subject: Senior Backend Engineer - Acme Corp") {
		t.Error("Prompt doesn't contain the subject")
	}

	if !strings.Contains(prompt, "From: jobs@linkedin.com") {
		t.Error("Prompt doesn't contain the sender")
	}

	if strings.Contains(prompt, strings.Repeat("x", EmailBodyLimit+1)) {
		t.Errorf("Expected body truncated to %d chars", EmailBodyLimit)
	}

	if !strings.Contains(prompt, "employment_type") {
		t.Error("Prompt doesn't request employment_type")
	}
}

func TestBuildScoringPromptDefaults(t *testing.T) {
	prompt := BuildScoringPrompt(ScoringRequest{
		Skills:      []string{"Go", "Kubernetes"},
		Title:       "Platform Engineer",
		Company:     "Acme",
		Description: "Run the platform",
	})

	if !strings.Contains(prompt, "- Preferences: None specified") {
		t.Error("Expected 'None specified' when no preferences")
	}

	if !strings.Contains(prompt, "- Preferred Location: No preference") {
		t.Error("Expected 'No preference' when no location")
	}

	if !strings.Contains(prompt, "- Skills: Go, Kubernetes") {
		t.Error("Prompt doesn't list skills")
	}

	if !strings.Contains(prompt, "0 years, mid level") {
		t.Error("Expected mid level default")
	}

	for _, weight := range []string{"(40 points)", "(20 points)", "(10 points)"} {
		if !strings.Contains(prompt, weight) {
			t.Errorf("Prompt missing weight %s", weight)
		}
	}
}

func TestBuildScoringPromptPreferences(t *testing.T) {
	prompt := BuildScoringPrompt(ScoringRequest{
		Preferences:       []string{"remote", "startup"},
		PreferredLocation: "Berlin",
		Description:       strings.Repeat("d", ScoringDescLimit+10),
	})

	if !strings.Contains(prompt, "- Preferences: remote, startup") {
		t.Error("Prompt doesn't list preferences")
	}

	if !strings.Contains(prompt, "- Preferred Location: Berlin") {
		t.Error("Prompt doesn't include location")
	}

	if strings.Contains(prompt, strings.Repeat("d", ScoringDescLimit+1)) {
		t.Error("Expected description truncated")
	}
}

func TestBuildResearchPrompt(t *testing.T) {
	prompt := BuildResearchPrompt(ResearchRequest{
		Company: "Acme",
		Sources: []SourcePage{
			{URL: "https://acme.com/about", Title: "About", Content: "We build rockets"},
			{URL: "https://news.example/acme", Title: "News", Content: strings.Repeat("n", ResearchContextLimit)},
		},
	})

	if !strings.Contains(prompt, "Company: Acme") {
		t.Error("Prompt doesn't contain the company")
	}

	if !strings.Contains(prompt, "URL: https://acme.com/about\nTitle: About\nContent: We build rockets") {
		t.Error("Prompt doesn't contain the first source")
	}

	if !strings.Contains(prompt, researchSourceDivider) {
		t.Error("Expected sources separated by divider")
	}

	if strings.Contains(prompt, strings.Repeat("n", ResearchContextLimit)) {
		t.Error("Expected the research context truncated")
	}
}

func TestBuildCoverLetterPrompt(t *testing.T) {
	req := CoverLetterRequest{
		Title:       "Backend Engineer",
		Company:     "Acme",
		CurrentRole: "Engineer at Initech",
		Skills:      []string{"Go"},
		Projects: []ProjectSummary{
			{Name: "Pipeline", Description: "ETL", Technologies: []string{"Go", "Kafka"}},
		},
	}

	prompt := BuildCoverLetterPrompt(req)

	if strings.Contains(prompt, "Company Information:") {
		t.Error("Expected no company section without research")
	}

	if !strings.Contains(prompt, "- Pipeline: ETL (Technologies: Go, Kafka)") {
		t.Error("Prompt doesn't list the project")
	}

	if !strings.Contains(prompt, "8. Use professional but warm tone") {
		t.Error("Prompt missing instruction list")
	}

	req.CompanyInfo = &CompanyExcerpt{Summary: "Rocket maker", TechStack: []string{"Rust"}}
	prompt = BuildCoverLetterPrompt(req)

	if !strings.Contains(prompt, "- Summary: Rocket maker") {
		t.Error("Expected company summary in prompt")
	}

	if !strings.Contains(prompt, "- Tech Stack: Rust") {
		t.Error("Expected tech stack in prompt")
	}
}

func TestBuildHighlightsPrompt(t *testing.T) {
	prompt := BuildHighlightsPrompt(HighlightsRequest{
		Title:        "SRE",
		Company:      "Acme",
		Skills:       []string{"Go", "Terraform"},
		ProjectCount: 2,
		RoleCount:    3,
	})

	if !strings.Contains(prompt, "Projects: 2 notable projects") {
		t.Error("Prompt doesn't contain project count")
	}

	if !strings.Contains(prompt, "Experience: 3 roles") {
		t.Error("Prompt doesn't contain role count")
	}

	if !strings.Contains(prompt, "4-6 bullet points") {
		t.Error("Prompt doesn't ask for 4-6 bullets")
	}
}
