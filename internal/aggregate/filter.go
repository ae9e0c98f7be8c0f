package aggregate

import (
	"strings"

	"matchpoint/internal/domain/job"
)

// Quick filter identifiers, applied after the preference filters.
const (
	QuickAll      = "all"
	QuickFullTime = "fulltime"
	QuickSalary   = "salary"
	QuickRecent   = "recent"
)

const recentDays = 7

// nonASCIIThreshold is the fraction of non-ASCII runes above which a
// listing is treated as non-English and dropped from results.
const nonASCIIThreshold = 0.15

// Filters narrows a merged result set. Zero value means no narrowing.
type Filters struct {
	MinSalary int      `json:"minSalary"`
	JobTypes  []string `json:"jobTypes"`
	Quick     string   `json:"quick"`
}

// Apply filters jobs in place order-preservingly and returns the survivors.
func (f Filters) Apply(jobs []job.Job) []job.Job {
	out := make([]job.Job, 0, len(jobs))
	for _, j := range jobs {
		if f.MinSalary > 0 && j.SalaryMin > 0 && j.SalaryMin < f.MinSalary {
			continue
		}
		if len(f.JobTypes) > 0 && !containsFold(f.JobTypes, j.JobType) {
			continue
		}
		if !f.passQuick(j) {
			continue
		}
		out = append(out, j)
	}
	return out
}

func (f Filters) passQuick(j job.Job) bool {
	switch f.Quick {
	case "", QuickAll:
		return true
	case QuickFullTime:
		return strings.EqualFold(j.JobType, "Full-time")
	case QuickSalary:
		return j.SalaryMin > 0 || j.Salary != ""
	case QuickRecent:
		return j.PostedDays <= recentDays
	default:
		return true
	}
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(strings.TrimSpace(h), needle) {
			return true
		}
	}
	return false
}

// isEnglish is a cheap heuristic: a text block with too many non-ASCII
// runes is assumed to be a non-English posting.
func isEnglish(s string) bool {
	if s == "" {
		return true
	}
	var nonASCII, total int
	for _, r := range s {
		total++
		if r > 127 {
			nonASCII++
		}
	}
	return float64(nonASCII)/float64(total) < nonASCIIThreshold
}
