package source

import (
	"context"
	"log"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"matchpoint/internal/domain/job"
	"matchpoint/internal/scoring"
)

const defaultWWRURL = "https://weworkremotely.com"

// WeWorkRemotely scrapes the We Work Remotely search page. It has no JSON
// API, so listings come from the HTML job board markup.
type WeWorkRemotely struct {
	baseURL     string
	allowedHost string
	timeout     time.Duration
	scorer      *scoring.Scorer
	logger      *log.Logger
	now         func() time.Time
}

func NewWeWorkRemotely(baseURL string, timeout time.Duration, scorer *scoring.Scorer, logger *log.Logger) *WeWorkRemotely {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultWWRURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &WeWorkRemotely{
		baseURL:     strings.TrimRight(baseURL, "/"),
		allowedHost: hostFromBaseURL(baseURL),
		timeout:     timeout,
		scorer:      scorer,
		logger:      logger,
		now:         time.Now,
	}
}

func (w *WeWorkRemotely) Name() string           { return "WeWorkRemotely" }
func (w *WeWorkRemotely) SupportsCategory() bool { return false }

type wwrListing struct {
	title    string
	company  string
	region   string
	link     string
	postedAt string
}

func (w *WeWorkRemotely) Fetch(ctx context.Context, q Query) ([]job.Job, error) {
	c := colly.NewCollector(
		colly.AllowedDomains(w.allowedHost),
	)
	c.SetRequestTimeout(w.timeout)
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 2, Delay: 300 * time.Millisecond})

	listings := make([]wwrListing, 0, 32)

	c.OnHTML("section.jobs li", func(e *colly.HTMLElement) {
		href := strings.TrimSpace(e.ChildAttr("a[href*='/remote-jobs/']", "href"))
		if href == "" {
			return
		}
		l := wwrListing{
			title:    strings.TrimSpace(e.ChildText("span.title")),
			company:  strings.TrimSpace(e.ChildText("span.company")),
			region:   strings.TrimSpace(e.ChildText("span.region")),
			link:     e.Request.AbsoluteURL(href),
			postedAt: strings.TrimSpace(e.ChildAttr("time", "datetime")),
		}
		if l.title == "" {
			return
		}
		listings = append(listings, l)
	})

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "matchpoint/1.0")
	})

	var reqErr error
	c.OnError(func(_ *colly.Response, err error) {
		reqErr = err
	})

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err := c.Visit(w.searchURL(q.Text)); err != nil {
		return nil, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, reqErr
	}

	now := w.now()
	seen := make(map[string]struct{}, len(listings))
	out := make([]job.Job, 0, len(listings))
	for _, l := range listings {
		id := "wwr-" + slugFromURL(l.link)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, w.normalize(l, id, q.UserSkills, now))
	}
	w.logger.Printf("weworkremotely: %d listings (q=%q)", len(out), q.Text)
	return out, nil
}

func (w *WeWorkRemotely) searchURL(text string) string {
	if strings.TrimSpace(text) == "" {
		return w.baseURL + "/remote-jobs"
	}
	return w.baseURL + "/remote-jobs/search?term=" + url.QueryEscape(text)
}

func (w *WeWorkRemotely) normalize(l wwrListing, id string, userSkills []string, now time.Time) job.Job {
	title := CleanTitle(l.title)
	company := CleanCompany(l.company)
	return job.Job{
		ID:             id,
		Title:          title,
		Company:        company,
		Logo:           job.LogoURL(company, ""),
		Location:       pickNonEmpty(l.region, "Remote"),
		LocationType:   "Remote",
		Match:          w.scorer.Score(nil, userSkills),
		PostedDays:     DaysAgo(l.postedAt, now),
		Description:    title + " at " + company + ".",
		IsHTML:         false,
		Skills:         []string{},
		UserSkillMatch: []string{},
		URL:            l.link,
		JobType:        job.FormatJobType(""),
		Source:         w.Name(),
		SearchURL:      job.SearchURLFor(title, company),
	}
}

func slugFromURL(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 0 {
		return link
	}
	return parts[len(parts)-1]
}

func hostFromBaseURL(base string) string {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil || u.Host == "" {
		return "weworkremotely.com"
	}
	if h, _, err := net.SplitHostPort(u.Host); err == nil {
		return h
	}
	return u.Host
}
