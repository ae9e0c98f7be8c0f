package source

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"matchpoint/internal/domain/job"
)

var (
	bracketRe = regexp.MustCompile(`\s*\[.*?\]`)
	numberRe  = regexp.MustCompile(`[\d,]+`)
)

// CleanTitle strips bracketed noise like "[Hiring]" and falls back to
// "Untitled" when nothing readable remains.
func CleanTitle(raw string) string {
	t := strings.TrimSpace(bracketRe.ReplaceAllString(raw, ""))
	if t == "" {
		return "Untitled"
	}
	return t
}

// CleanCompany trims the employer name and falls back to "Unknown" so the
// dedup key and logo placeholder always have something to work with.
func CleanCompany(raw string) string {
	c := strings.TrimSpace(raw)
	if c == "" {
		return "Unknown"
	}
	return c
}

// ParseSalaryMin extracts the first number run from a free-form salary
// string. "$120,000 - $150,000" yields 120000. Zero means unknown.
func ParseSalaryMin(s string) int {
	m := numberRe.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0
	}
	return n
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DaysAgo converts a provider timestamp into whole days before now. Future
// dates floor to zero; unparseable input maps to PostedDaysUnknown so stale
// records sort behind everything with a real date.
func DaysAgo(raw string, now time.Time) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return job.PostedDaysUnknown
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		d := int(now.Sub(t).Hours() / 24)
		if d < 0 {
			return 0
		}
		return d
	}
	return job.PostedDaysUnknown
}

// Tags title-cases, dedupes, and caps a raw tag list at job.MaxTags.
func Tags(raw []string) []string {
	out := make([]string, 0, job.MaxTags)
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, job.TitleCase(t))
		if len(out) == job.MaxTags {
			break
		}
	}
	return out
}

// SalaryRange renders "$120K–$150K USD" style display text. Both bounds
// must be present; otherwise providers' own display strings win.
func SalaryRange(min, max int, currency string) string {
	if min <= 0 || max <= 0 {
		return ""
	}
	if currency == "" {
		currency = "USD"
	}
	return "$" + strconv.Itoa(min/1000) + "K–$" + strconv.Itoa(max/1000) + "K " + currency
}
