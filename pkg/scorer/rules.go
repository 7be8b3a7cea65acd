package scorer

// Rule is one weighted component of a job score.
type Rule struct {
	Name        string
	Field       string // key in the model's response
	Description string
	Weight      int // maximum points
}

// Rule names.
const (
	RuleSkills      = "SKILL_MATCH"
	RuleExperience  = "EXPERIENCE_MATCH"
	RulePreferences = "PREFERENCES_MATCH"
	RuleLocation    = "LOCATION_MATCH"
	RuleFit         = "OVERALL_FIT"
)

// MaxScore is the top of the score range; the rule weights add up to it.
const MaxScore = 100

//nolint:gochecknoglobals // Scoring configuration constants
var ScoringRules = []Rule{
	{
		Name:        RuleSkills,
		Field:       "skill_match_score",
		Description: "How well the candidate's skills match the job requirements",
		Weight:      40,
	},
	{
		Name:        RuleExperience,
		Field:       "experience_match_score",
		Description: "Whether experience level and years fit the role",
		Weight:      20,
	},
	{
		Name:        RulePreferences,
		Field:       "preferences_match_score",
		Description: "How well the job matches the stated preferences",
		Weight:      20,
	},
	{
		Name:        RuleLocation,
		Field:       "location_match_score",
		Description: "Location compatibility with the preferred location",
		Weight:      10,
	},
	{
		Name:        RuleFit,
		Field:       "overall_fit_score",
		Description: "Company culture and overall career fit",
		Weight:      10,
	},
}

// RuleFor returns the rule with the given name.
func RuleFor(name string) (rule Rule, ok bool) {
	for _, r := range ScoringRules {
		if r.Name == name {
			rule = r
			ok = true
			return rule, ok
		}
	}
	return rule, ok
}

// clamp bounds v to [0, limit].
func clamp(v, limit int) (out int) {
	out = v
	if out < 0 {
		out = 0
	}
	if out > limit {
		out = limit
	}
	return out
}
