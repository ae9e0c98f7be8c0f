package aggregate

import (
	"strings"

	"matchpoint/internal/domain/job"
	"matchpoint/internal/scoring"
)

// fallbackSeed describes one curated listing served when every source
// fails. Match scores are drawn at serve time so the set still looks alive.
type fallbackSeed struct {
	id       string
	title    string
	company  string
	location string
	salary   string
	salMin   int
	skills   []string
	jobType  string
	category string
}

var fallbackSeeds = []fallbackSeed{
	{"fb-1", "Senior Frontend Engineer", "Stripe", "Remote (US)", "$160K–$210K USD", 160000,
		[]string{"React", "TypeScript", "CSS"}, "Full-time", "Software Development"},
	{"fb-2", "Backend Engineer, Infrastructure", "TikTok", "Remote", "$150K–$200K USD", 150000,
		[]string{"Go", "Kubernetes", "MySQL"}, "Full-time", "Software Development"},
	{"fb-3", "Product Designer", "Figma", "Remote (US)", "$140K–$180K USD", 140000,
		[]string{"Figma", "Prototyping", "Design Systems"}, "Full-time", "Design"},
	{"fb-4", "Senior Software Engineer", "Netflix", "Remote", "$180K–$250K USD", 180000,
		[]string{"Java", "AWS", "Microservices"}, "Full-time", "Software Development"},
	{"fb-5", "Data Scientist", "Airbnb", "Remote (US)", "$150K–$190K USD", 150000,
		[]string{"Python", "SQL", "Machine Learning"}, "Full-time", "Data Science"},
	{"fb-6", "Cloud Engineer", "Google", "Remote", "$170K–$220K USD", 170000,
		[]string{"GCP", "Terraform", "Go"}, "Full-time", "DevOps"},
}

// fallbackJobs materializes the curated set with fresh match scores in
// [80, 95).
func fallbackJobs(randf func() float64, userSkills []string) []job.Job {
	out := make([]job.Job, 0, len(fallbackSeeds))
	for _, s := range fallbackSeeds {
		out = append(out, job.Job{
			ID:             s.id,
			Title:          s.title,
			Company:        s.company,
			Logo:           "https://logo.clearbit.com/" + strings.ToLower(s.company) + ".com",
			Location:       s.location,
			LocationType:   "Remote",
			Salary:         s.salary,
			SalaryMin:      s.salMin,
			Match:          80 + int(randf()*15),
			PostedDays:     1,
			Description:    s.title + " at " + s.company + ". Live listings are temporarily unavailable; this is a curated placeholder.",
			IsHTML:         false,
			Skills:         append([]string(nil), s.skills...),
			UserSkillMatch: scoring.Matched(s.skills, userSkills),
			URL:            "",
			JobType:        s.jobType,
			Category:       s.category,
			Source:         "fallback",
			SearchURL:      job.SearchURLFor(s.title, s.company),
		})
	}
	return out
}
