package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"matchpoint/internal/domain/job"
	"matchpoint/internal/sanitize"
	"matchpoint/internal/scoring"
)

const (
	defaultRemoteOKURL = "https://remoteok.com/api"
	remoteOKCap        = 30
)

// RemoteOK fetches the full RemoteOK feed. The API has no query parameter,
// so matching against the search text happens client-side and results are
// capped to keep one source from drowning the merge.
type RemoteOK struct {
	baseURL string
	client  *http.Client
	scorer  *scoring.Scorer
	logger  *log.Logger
	now     func() time.Time
}

func NewRemoteOK(baseURL string, timeout time.Duration, scorer *scoring.Scorer, logger *log.Logger) *RemoteOK {
	if baseURL == "" {
		baseURL = defaultRemoteOKURL
	}
	return &RemoteOK{
		baseURL: baseURL,
		client:  newHTTPClient(timeout),
		scorer:  scorer,
		logger:  logger,
		now:     time.Now,
	}
}

func (r *RemoteOK) Name() string           { return "RemoteOK" }
func (r *RemoteOK) SupportsCategory() bool { return false }

type remoteOKJob struct {
	ID          json.Number `json:"id"`
	Position    string      `json:"position"`
	Company     string      `json:"company"`
	CompanyLogo string      `json:"company_logo"`
	Logo        string      `json:"logo"`
	Tags        []string    `json:"tags"`
	Location    string      `json:"location"`
	SalaryMin   int         `json:"salary_min"`
	SalaryMax   int         `json:"salary_max"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	URL         string      `json:"url"`
}

func (r *RemoteOK) Fetch(ctx context.Context, q Query) ([]job.Job, error) {
	body, err := getWithRetry(ctx, r.client, r.baseURL)
	if err != nil {
		return nil, err
	}

	// Element zero of the feed is a legal notice, not a listing.
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("remoteok: empty feed")
	}
	items = items[1:]

	needle := strings.ToLower(strings.TrimSpace(q.Text))
	now := r.now()
	out := make([]job.Job, 0, remoteOKCap)
	for _, item := range items {
		var raw remoteOKJob
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		if raw.Position == "" {
			continue
		}
		if needle != "" && !r.matches(raw, needle) {
			continue
		}
		out = append(out, r.normalize(raw, q.UserSkills, now))
		if len(out) == remoteOKCap {
			break
		}
	}
	r.logger.Printf("remoteok: %d listings (q=%q)", len(out), q.Text)
	return out, nil
}

func (r *RemoteOK) matches(raw remoteOKJob, needle string) bool {
	if strings.Contains(strings.ToLower(raw.Position), needle) ||
		strings.Contains(strings.ToLower(raw.Company), needle) {
		return true
	}
	for _, t := range raw.Tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

func (r *RemoteOK) normalize(raw remoteOKJob, userSkills []string, now time.Time) job.Job {
	tags := Tags(raw.Tags)
	title := CleanTitle(raw.Position)
	company := CleanCompany(raw.Company)
	return job.Job{
		ID:             "rok-" + raw.ID.String(),
		Title:          title,
		Company:        company,
		Logo:           job.LogoURL(company, pickNonEmpty(raw.CompanyLogo, raw.Logo)),
		Location:       pickNonEmpty(raw.Location, "Remote"),
		LocationType:   "Remote",
		Salary:         SalaryRange(raw.SalaryMin, raw.SalaryMax, "USD"),
		SalaryMin:      raw.SalaryMin,
		Match:          r.scorer.Score(tags, userSkills),
		PostedDays:     DaysAgo(raw.Date, now),
		Description:    sanitize.HTML(raw.Description),
		IsHTML:         true,
		Skills:         tags,
		UserSkillMatch: scoring.Matched(tags, userSkills),
		URL:            raw.URL,
		JobType:        job.FormatJobType(""),
		Category:       "",
		Source:         r.Name(),
		SearchURL:      job.SearchURLFor(title, company),
	}
}
