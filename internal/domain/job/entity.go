package job

import (
	"fmt"
	"net/url"
	"strings"
)

// Job is the canonical listing shape every source normalizes into.
// Once normalized it is immutable; triage-only fields live on triage.Entry.
type Job struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Logo           string   `json:"logo"`
	Location       string   `json:"location"`
	LocationType   string   `json:"locationType"`
	Salary         string   `json:"salary"`
	SalaryMin      int      `json:"salaryMin"`
	Match          int      `json:"match"`
	PostedDays     int      `json:"postedDays"`
	Description    string   `json:"description"`
	IsHTML         bool     `json:"isHtml"`
	Skills         []string `json:"skills"`
	UserSkillMatch []string `json:"userSkillMatch"`
	URL            string   `json:"url"`
	JobType        string   `json:"jobType"`
	Category       string   `json:"category"`
	Source         string   `json:"source"`
	SearchURL      string   `json:"searchUrl,omitempty"`
}

// PostedDaysUnknown marks listings with an absent or unparseable date.
// Deliberately large so age-based filters never treat it as recent.
const PostedDaysUnknown = 999

// MaxTags caps both Skills and UserSkillMatch.
const MaxTags = 6

// DedupKey is the cross-source duplicate key: lower-cased title+company
// with all whitespace removed. First occurrence wins during merge.
func (j Job) DedupKey() string {
	k := strings.ToLower(j.Title + j.Company)
	return strings.Join(strings.Fields(k), "")
}

// PostedLabel renders PostedDays the way listings display age. Unknown
// ages (999) land in the over-a-year bucket.
func (j Job) PostedLabel() string {
	switch d := j.PostedDays; {
	case d <= 0:
		return "Today"
	case d == 1:
		return "Yesterday"
	case d < 30:
		return fmt.Sprintf("%dd ago", d)
	case d < 365:
		return fmt.Sprintf("%dmo ago", d/30)
	default:
		return "Over a year ago"
	}
}

// SearchURLFor builds an external job-search link for listings that carry
// no apply URL of their own.
func SearchURLFor(title, company string) string {
	q := strings.TrimSpace(title + " " + company)
	return "https://www.linkedin.com/jobs/search/?keywords=" + url.QueryEscape(q)
}

// LogoURL passes through absolute logo URLs and otherwise synthesizes a
// deterministic placeholder keyed by company name.
func LogoURL(company, raw string) string {
	if raw != "" && strings.HasPrefix(raw, "http") {
		return raw
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(company) +
		"&background=0a66c2&color=fff&size=100&bold=true"
}
