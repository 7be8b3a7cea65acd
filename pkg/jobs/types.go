package jobs

import "time"

// Job is one normalized job posting.
type Job struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	URL            string `json:"url"`
	Source         string `json:"source"`
	Salary         string `json:"salary"`
	EmploymentType string `json:"employment_type"`
	// Score is nil until the job has been scored.
	Score           *int            `json:"score,omitempty"`
	Scoring         *Scoring        `json:"scoring,omitempty"`
	CompanyResearch *CompanyProfile `json:"company_research,omitempty"`
	// ExtractionError is set when the model could not extract fields from the email.
	ExtractionError string    `json:"extraction_error,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
	UpdatedAt       time.Time `json:"updated_at,omitzero"`
}

// ScoreValue returns the score, treating an unscored job as 0.
func (j *Job) ScoreValue() (score int) {
	if j.Score != nil {
		score = *j.Score
	}
	return score
}

// Scored reports whether a score is present.
func (j *Job) Scored() (scored bool) {
	scored = j.Score != nil
	return scored
}

// Unscored reports whether the scoring stage should (re)score this job.
// A zero score counts as unscored, so a genuine 0 is retried every run.
func (j *Job) Unscored() (unscored bool) {
	unscored = j.Score == nil || *j.Score == 0
	return unscored
}

// SetScore stores a score.
func (j *Job) SetScore(score int) {
	j.Score = &score
}

// Scoring is the breakdown behind a score.
type Scoring struct {
	Score                 int      `json:"score"`
	Reasoning             string   `json:"reasoning"`
	SkillMatchScore       int      `json:"skill_match_score"`
	ExperienceMatchScore  int      `json:"experience_match_score"`
	PreferencesMatchScore int      `json:"preferences_match_score"`
	LocationMatchScore    int      `json:"location_match_score"`
	OverallFitScore       int      `json:"overall_fit_score"`
	MatchedSkills         []string `json:"matched_skills"`
	MissingSkills         []string `json:"missing_skills"`
	ResumeSkillsCount     int      `json:"resume_skills_count"`
	JobTitle              string   `json:"job_title"`
	JobCompany            string   `json:"job_company"`
	// Error is set when the model failed and the score is a placeholder 0.
	Error string `json:"error,omitempty"`
}

// SubScoreTotal sums the five weighted sub-scores.
func (s *Scoring) SubScoreTotal() (total int) {
	total = s.SkillMatchScore + s.ExperienceMatchScore + s.PreferencesMatchScore + s.LocationMatchScore + s.OverallFitScore
	return total
}

// CompanyProfile is a synthesized summary of a company.
type CompanyProfile struct {
	Company      string    `json:"company"`
	Summary      string    `json:"summary"`
	TechStack    []string  `json:"tech_stack"`
	Values       []string  `json:"values"`
	RecentNews   []string  `json:"recent_news"`
	Culture      string    `json:"culture"`
	Size         string    `json:"size"`
	Industry     string    `json:"industry"`
	FundingStage string    `json:"funding_stage"`
	Sources      []string  `json:"sources"`
	Error        string    `json:"error,omitempty"`
	FetchedAt    time.Time `json:"fetched_at,omitzero"`
}

// Complete reports whether the profile came from a successful synthesis over at least one page.
func (p *CompanyProfile) Complete() (complete bool) {
	complete = p.Error == "" && len(p.Sources) > 0
	return complete
}

// Unknown is the placeholder for a scalar the model could not determine.
const Unknown = "Unknown"
