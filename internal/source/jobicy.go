package source

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"matchpoint/internal/domain/job"
	"matchpoint/internal/sanitize"
	"matchpoint/internal/scoring"
)

const defaultJobicyURL = "https://jobicy.com/api/v2/remote-jobs"

// Jobicy fetches from the Jobicy public API, US-geo feed.
type Jobicy struct {
	baseURL string
	client  *http.Client
	scorer  *scoring.Scorer
	logger  *log.Logger
	now     func() time.Time
}

func NewJobicy(baseURL string, timeout time.Duration, scorer *scoring.Scorer, logger *log.Logger) *Jobicy {
	if baseURL == "" {
		baseURL = defaultJobicyURL
	}
	return &Jobicy{
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
		scorer:  scorer,
		logger:  logger,
		now:     time.Now,
	}
}

func (j *Jobicy) Name() string           { return "Jobicy" }
func (j *Jobicy) SupportsCategory() bool { return false }

type jobicyEnvelope struct {
	Jobs []jobicyJob `json:"jobs"`
}

type jobicyJob struct {
	ID          json.Number `json:"id"`
	URL         string      `json:"url"`
	Title       string      `json:"jobTitle"`
	Company     string      `json:"companyName"`
	CompanyLogo string      `json:"companyLogo"`
	Industry    string      `json:"jobIndustry"`
	JobType     string      `json:"jobType"`
	Geo         string      `json:"jobGeo"`
	Excerpt     string      `json:"jobExcerpt"`
	Description string      `json:"jobDescription"`
	PubDate     string      `json:"pubDate"`
	SalaryMin   int         `json:"annualSalaryMin"`
	SalaryMax   int         `json:"annualSalaryMax"`
	Currency    string      `json:"salaryCurrency"`
}

func (j *Jobicy) Fetch(ctx context.Context, q Query) ([]job.Job, error) {
	v := url.Values{}
	v.Set("count", "50")
	v.Set("geo", "usa")
	if q.Text != "" {
		v.Set("tag", q.Text)
	}

	body, err := getWithRetry(ctx, j.client, j.baseURL+"?"+v.Encode())
	if err != nil {
		return nil, err
	}

	var env jobicyEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}

	now := j.now()
	out := make([]job.Job, 0, len(env.Jobs))
	for _, raw := range env.Jobs {
		out = append(out, j.normalize(raw, q.UserSkills, now))
	}
	j.logger.Printf("jobicy: %d listings (q=%q)", len(out), q.Text)
	return out, nil
}

func (j *Jobicy) normalize(raw jobicyJob, userSkills []string, now time.Time) job.Job {
	// Jobicy has no tag list; the industry plus the comma-separated type
	// string stand in for one.
	rawTags := []string{raw.Industry}
	rawTags = append(rawTags, strings.Split(raw.JobType, ",")...)
	tags := Tags(rawTags)

	title := CleanTitle(raw.Title)
	company := CleanCompany(raw.Company)
	salary := SalaryRange(raw.SalaryMin, raw.SalaryMax, raw.Currency)
	desc := sanitize.HTML(raw.Description)
	isHTML := true
	if raw.Description == "" {
		desc = raw.Excerpt
		isHTML = false
	}
	return job.Job{
		ID:             "jc-" + raw.ID.String(),
		Title:          title,
		Company:        company,
		Logo:           job.LogoURL(company, raw.CompanyLogo),
		Location:       pickNonEmpty(raw.Geo, "Remote"),
		LocationType:   "Remote",
		Salary:         salary,
		SalaryMin:      raw.SalaryMin,
		Match:          j.scorer.Score(tags, userSkills),
		PostedDays:     DaysAgo(raw.PubDate, now),
		Description:    desc,
		IsHTML:         isHTML,
		Skills:         tags,
		UserSkillMatch: scoring.Matched(tags, userSkills),
		URL:            raw.URL,
		JobType:        job.FormatJobType(firstSegment(raw.JobType)),
		Category:       raw.Industry,
		Source:         j.Name(),
		SearchURL:      job.SearchURLFor(title, company),
	}
}

func firstSegment(s string) string {
	if i := strings.IndexByte(s, ','); i >= 0 {
		return s[:i]
	}
	return s
}
