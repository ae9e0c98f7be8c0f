package source

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"

	"matchpoint/internal/domain/job"
	"matchpoint/internal/sanitize"
	"matchpoint/internal/scoring"
)

const defaultRemotiveURL = "https://remotive.com/api/remote-jobs"

// Remotive fetches from the Remotive public API. It is the only source
// that accepts a category parameter, so the aggregator fans it out once
// per selected category.
type Remotive struct {
	baseURL string
	client  *http.Client
	scorer  *scoring.Scorer
	logger  *log.Logger
	now     func() time.Time
}

func NewRemotive(baseURL string, timeout time.Duration, scorer *scoring.Scorer, logger *log.Logger) *Remotive {
	if baseURL == "" {
		baseURL = defaultRemotiveURL
	}
	return &Remotive{
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
		scorer:  scorer,
		logger:  logger,
		now:     time.Now,
	}
}

func (r *Remotive) Name() string           { return "Remotive" }
func (r *Remotive) SupportsCategory() bool { return true }

type remotiveEnvelope struct {
	Jobs []remotiveJob `json:"jobs"`
}

type remotiveJob struct {
	ID          json.Number `json:"id"`
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	CompanyName string      `json:"company_name"`
	CompanyLogo string      `json:"company_logo"`
	Category    string      `json:"category"`
	Tags        []string    `json:"tags"`
	JobType     string      `json:"job_type"`
	Published   string      `json:"publication_date"`
	Location    string      `json:"candidate_required_location"`
	Salary      string      `json:"salary"`
	Description string      `json:"description"`
}

func (r *Remotive) Fetch(ctx context.Context, q Query) ([]job.Job, error) {
	v := url.Values{}
	v.Set("limit", "100")
	v.Set("search", q.Text)
	if q.Category != "" {
		v.Set("category", q.Category)
	}

	body, err := getWithRetry(ctx, r.client, r.baseURL+"?"+v.Encode())
	if err != nil {
		return nil, err
	}

	var env remotiveEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}

	now := r.now()
	out := make([]job.Job, 0, len(env.Jobs))
	for _, raw := range env.Jobs {
		out = append(out, r.normalize(raw, q.UserSkills, now))
	}
	r.logger.Printf("remotive: %d listings (q=%q cat=%q)", len(out), q.Text, q.Category)
	return out, nil
}

func (r *Remotive) normalize(raw remotiveJob, userSkills []string, now time.Time) job.Job {
	tags := Tags(raw.Tags)
	title := CleanTitle(raw.Title)
	company := CleanCompany(raw.CompanyName)
	return job.Job{
		ID:             "rm-" + raw.ID.String(),
		Title:          title,
		Company:        company,
		Logo:           job.LogoURL(company, raw.CompanyLogo),
		Location:       pickNonEmpty(raw.Location, "Remote"),
		LocationType:   "Remote",
		Salary:         raw.Salary,
		SalaryMin:      ParseSalaryMin(raw.Salary),
		Match:          r.scorer.Score(tags, userSkills),
		PostedDays:     DaysAgo(raw.Published, now),
		Description:    sanitize.HTML(raw.Description),
		IsHTML:         true,
		Skills:         tags,
		UserSkillMatch: scoring.Matched(tags, userSkills),
		URL:            raw.URL,
		JobType:        job.FormatJobType(raw.JobType),
		Category:       raw.Category,
		Source:         r.Name(),
		SearchURL:      job.SearchURLFor(title, company),
	}
}
