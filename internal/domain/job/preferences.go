package job

import "strings"

// Preferences drive aggregation query parameters and match scoring.
type Preferences struct {
	Skills     []string `json:"skills"`
	Categories []string `json:"categories"`
	MinSalary  int      `json:"minSalary"`
	JobTypes   []string `json:"jobTypes"`
}

// DefaultSkills is the scoring skill set used while the user has not
// declared any skills of their own.
var DefaultSkills = []string{
	"javascript", "react", "design", "figma", "css", "html", "python",
	"product", "ui", "ux", "typescript", "node", "marketing", "data",
	"analytics", "devops", "aws", "docker", "sql", "git", "agile",
	"management", "engineering", "frontend", "backend", "mobile",
}

// DefaultPreferences seeds a fresh profile.
func DefaultPreferences() Preferences {
	return Preferences{
		Skills:     []string{"JavaScript", "React", "Design", "Figma", "CSS", "Python"},
		Categories: []string{"software-dev", "design"},
		MinSalary:  0,
		JobTypes:   []string{"full_time", "contract"},
	}
}

// ScoringSkills returns the lower-cased skill set to score against:
// the user's declared skills when present, DefaultSkills otherwise.
func (p Preferences) ScoringSkills() []string {
	if len(p.Skills) == 0 {
		return DefaultSkills
	}
	out := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return DefaultSkills
	}
	return out
}

// PartialPreferences is a shallow-merge patch; nil slices and a nil
// MinSalary leave the stored value untouched.
type PartialPreferences struct {
	Skills     []string `json:"skills"`
	Categories []string `json:"categories"`
	MinSalary  *int     `json:"minSalary"`
	JobTypes   []string `json:"jobTypes"`
}

// Merge applies the patch onto p and returns the result.
func (p Preferences) Merge(patch PartialPreferences) Preferences {
	if patch.Skills != nil {
		p.Skills = patch.Skills
	}
	if patch.Categories != nil {
		p.Categories = patch.Categories
	}
	if patch.MinSalary != nil {
		p.MinSalary = *patch.MinSalary
	}
	if patch.JobTypes != nil {
		p.JobTypes = patch.JobTypes
	}
	return p
}
