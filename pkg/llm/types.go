package llm

// OllamaRequest represents the Ollama generate request format.
type OllamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options OllamaOptions `json:"options"`
}

// OllamaOptions holds sampling parameters.
type OllamaOptions struct {
	Temperature float64 `json:"temperature"`
}

// OllamaResponse represents the non-streaming Ollama generate response.
type OllamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// ExtractionRequest is one job-alert email.
type ExtractionRequest struct {
	Subject string
	From    string
	Body    string
}

// ScoringRequest compares one job against the resume and preferences.
type ScoringRequest struct {
	Skills            []string
	Expertise         []string
	ExperienceYears   int
	ExperienceLevel   string
	CurrentRole       string
	Title             string
	Company           string
	Location          string
	Description       string
	Preferences       []string
	PreferredLocation string
}

// SourcePage is one fetched web page used as research context.
type SourcePage struct {
	URL     string
	Title   string
	Content string
}

// ResearchRequest asks for a company profile from fetched pages.
type ResearchRequest struct {
	Company string
	Sources []SourcePage
}

// CompanyExcerpt is the part of a company profile worth mentioning in a letter.
type CompanyExcerpt struct {
	Summary   string
	TechStack []string
	Values    []string
	Culture   string
}

// ProjectSummary is a notable resume project.
type ProjectSummary struct {
	Name         string
	Description  string
	Technologies []string
}

// CoverLetterRequest holds everything a cover letter draws on.
type CoverLetterRequest struct {
	Title       string
	Company     string
	Location    string
	Description string
	// CompanyInfo is nil when the record has no research attached.
	CompanyInfo *CompanyExcerpt
	CurrentRole string
	Skills      []string
	Projects    []ProjectSummary
}

// HighlightsRequest asks for tailored resume bullets.
type HighlightsRequest struct {
	Title        string
	Company      string
	Description  string
	Skills       []string
	ProjectCount int
	RoleCount    int
}
