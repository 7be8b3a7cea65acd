package resume

import (
	"time"

	"github.com/nikogura/job-assistant/pkg/schema"
)

// Experience levels.
const (
	LevelEntry     = "entry"
	LevelMid       = "mid"
	LevelSenior    = "senior"
	LevelExecutive = "executive"
)

// Profile is the structured form of the candidate's resume.
type Profile struct {
	Skills           []string    `json:"skills"`
	ExperienceYears  int         `json:"experience_years"`
	ExperienceLevel  string      `json:"experience_level"`
	Education        []Education `json:"education"`
	NotableProjects  []Project   `json:"notable_projects"`
	AreasOfExpertise []string    `json:"areas_of_expertise"`
	CurrentRole      string      `json:"current_role"`
	PreviousRoles    []Role      `json:"previous_roles"`
	RawText          string      `json:"raw_text"`
	ParsedAt         time.Time   `json:"parsed_at,omitzero"`
}

// Education is one degree.
type Education struct {
	Degree      schema.Text `json:"degree"`
	Field       schema.Text `json:"field"`
	Institution schema.Text `json:"institution"`
	Year        schema.Text `json:"year"`
}

// Project is a notable project.
type Project struct {
	Name         schema.Text `json:"name"`
	Description  schema.Text `json:"description"`
	Technologies schema.List `json:"technologies"`
}

// Role is a previous position.
type Role struct {
	Title            schema.Text `json:"title"`
	Company          schema.Text `json:"company"`
	Duration         schema.Text `json:"duration"`
	Responsibilities schema.Text `json:"responsibilities"`
}

// ValidLevel reports whether level is one of the four experience levels.
func ValidLevel(level string) (ok bool) {
	switch level {
	case LevelEntry, LevelMid, LevelSenior, LevelExecutive:
		ok = true
	}
	return ok
}
