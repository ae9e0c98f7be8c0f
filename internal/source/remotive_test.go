package source

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"matchpoint/internal/scoring"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func fixedScorer() *scoring.Scorer {
	return scoring.NewWithRand(func() float64 { return 0.5 })
}

func TestRemotiveFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `{"jobs":[{
			"id": 101,
			"url": "https://remotive.com/jobs/101",
			"title": "Backend Engineer [Remote]",
			"company_name": "Acme",
			"company_logo": "https://cdn.example.com/acme.png",
			"category": "Software Development",
			"tags": ["go", "postgres"],
			"job_type": "full_time",
			"publication_date": "2026-03-05T00:00:00",
			"candidate_required_location": "USA Only",
			"salary": "$140,000 - $170,000",
			"description": "<p>Build services.</p>"
		}]}`)
	}))
	defer srv.Close()

	src := NewRemotive(srv.URL, time.Second, fixedScorer(), testLogger())
	src.now = func() time.Time { return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) }

	jobs, err := src.Fetch(context.Background(), Query{
		Text:       "backend",
		Category:   "software-dev",
		UserSkills: []string{"go"},
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	for _, want := range []string{"limit=100", "search=backend", "category=software-dev"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("request query %q missing %q", gotQuery, want)
		}
	}

	j := jobs[0]
	if j.ID != "rm-101" {
		t.Errorf("ID = %q", j.ID)
	}
	if j.Title != "Backend Engineer" {
		t.Errorf("Title = %q, bracket noise should be stripped", j.Title)
	}
	if j.SalaryMin != 140000 {
		t.Errorf("SalaryMin = %d", j.SalaryMin)
	}
	if j.PostedDays != 5 {
		t.Errorf("PostedDays = %d", j.PostedDays)
	}
	if j.JobType != "Full-time" {
		t.Errorf("JobType = %q", j.JobType)
	}
	if !j.IsHTML {
		t.Error("remotive descriptions are HTML")
	}
	if len(j.UserSkillMatch) != 1 || j.UserSkillMatch[0] != "Go" {
		t.Errorf("UserSkillMatch = %v", j.UserSkillMatch)
	}
	if j.Source != "Remotive" {
		t.Errorf("Source = %q", j.Source)
	}
}

func TestRemotiveFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewRemotive(srv.URL, time.Second, fixedScorer(), testLogger())
	if _, err := src.Fetch(context.Background(), Query{Text: "go"}); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestJobicyFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("geo") != "usa" {
			t.Errorf("geo = %q", r.URL.Query().Get("geo"))
		}
		io.WriteString(w, `{"jobs":[{
			"id": 7,
			"url": "https://jobicy.com/jobs/7",
			"jobTitle": "Data Engineer",
			"companyName": "Globex",
			"companyLogo": "",
			"jobIndustry": "Data Science",
			"jobType": "full_time,contract",
			"jobGeo": "USA",
			"jobExcerpt": "Pipelines.",
			"jobDescription": "",
			"pubDate": "2026-03-08 09:00:00",
			"annualSalaryMin": 120000,
			"annualSalaryMax": 160000,
			"salaryCurrency": "USD"
		}]}`)
	}))
	defer srv.Close()

	src := NewJobicy(srv.URL, time.Second, fixedScorer(), testLogger())
	src.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }

	jobs, err := src.Fetch(context.Background(), Query{Text: "data", UserSkills: []string{"sql"}})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	j := jobs[0]
	if j.ID != "jc-7" {
		t.Errorf("ID = %q", j.ID)
	}
	if j.Salary != "$120K–$160K USD" {
		t.Errorf("Salary = %q", j.Salary)
	}
	if j.JobType != "Full-time" {
		t.Errorf("JobType = %q, want first comma segment mapped", j.JobType)
	}
	if j.Description != "Pipelines." || j.IsHTML {
		t.Errorf("empty description should fall back to plain excerpt, got %q html=%v", j.Description, j.IsHTML)
	}
	if j.PostedDays != 2 {
		t.Errorf("PostedDays = %d", j.PostedDays)
	}
}

func TestRemoteOKFetchSkipsNoticeFiltersAndCaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var b strings.Builder
		b.WriteString(`[{"legal":"API terms of use"}`)
		for i := 0; i < 40; i++ {
			b.WriteString(`,{"id":`)
			b.WriteString(strconv.Itoa(i))
			b.WriteString(`,"position":"Go Developer","company":"Initech","tags":["golang"],"location":"Remote","date":"2026-03-09T00:00:00Z","url":"https://remoteok.com/l"}`)
		}
		b.WriteString(`,{"id":999,"position":"Chef","company":"Bistro","tags":["cooking"],"url":"https://remoteok.com/chef"}`)
		b.WriteString(`]`)
		io.WriteString(w, b.String())
	}))
	defer srv.Close()

	src := NewRemoteOK(srv.URL, time.Second, fixedScorer(), testLogger())
	src.now = func() time.Time { return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) }

	jobs, err := src.Fetch(context.Background(), Query{Text: "go", UserSkills: []string{"golang"}})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(jobs) != remoteOKCap {
		t.Fatalf("expected cap of %d, got %d", remoteOKCap, len(jobs))
	}
	for _, j := range jobs {
		if j.Title == "Chef" {
			t.Error("non-matching listing survived the query filter")
		}
		if !strings.HasPrefix(j.ID, "rok-") {
			t.Errorf("ID = %q", j.ID)
		}
	}
}

func TestRemoteOKEmptyQueryKeepsAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"legal":"notice"},
			{"id":1,"position":"Chef","company":"Bistro","url":"https://remoteok.com/1"},
			{"id":2,"position":"Designer","company":"Hooli","url":"https://remoteok.com/2"}]`)
	}))
	defer srv.Close()

	src := NewRemoteOK(srv.URL, time.Second, fixedScorer(), testLogger())
	jobs, err := src.Fetch(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
}
