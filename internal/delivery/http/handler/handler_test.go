package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"matchpoint/internal/aggregate"
	"matchpoint/internal/delivery/http/middleware"
	v1 "matchpoint/internal/delivery/http/routes/v1"
	"matchpoint/internal/domain/job"
	"matchpoint/internal/pkg/jwt"
	"matchpoint/internal/pkg/response"
	"matchpoint/internal/source"
	"matchpoint/internal/storage"
	"matchpoint/internal/swipe"
	"matchpoint/internal/triage"

	"github.com/gofiber/fiber/v3"
)

type stubSource struct {
	jobs []job.Job
	err  error
}

func (s *stubSource) Name() string           { return "Stub" }
func (s *stubSource) SupportsCategory() bool { return false }
func (s *stubSource) Fetch(context.Context, source.Query) ([]job.Job, error) {
	return s.jobs, s.err
}

// testScheduler captures the engine's deferred callbacks so tests fire
// them between requests instead of sleeping.
type testScheduler struct {
	mu     sync.Mutex
	timers []*testTimer
}

type testTimer struct {
	d       time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (s *testScheduler) schedule(d time.Duration, fn func()) swipe.CancelFunc {
	s.mu.Lock()
	tm := &testTimer{d: d, fn: fn}
	s.timers = append(s.timers, tm)
	s.mu.Unlock()
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if tm.fired {
			return false
		}
		tm.stopped = true
		return true
	}
}

func (s *testScheduler) fire(d time.Duration) {
	s.mu.Lock()
	var due []*testTimer
	for _, tm := range s.timers {
		if tm.d == d && !tm.stopped && !tm.fired {
			tm.fired = true
			due = append(due, tm)
		}
	}
	s.mu.Unlock()
	for _, tm := range due {
		tm.fn()
	}
}

type fixture struct {
	app    *fiber.App
	store  *triage.Store
	engine *swipe.Engine
	sched  *testScheduler
}

// newFixture wires the v1 API against stub sources and memory storage.
func newFixture(t *testing.T, jobs []job.Job) *fixture {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	store := triage.NewStore(storage.NewMemory(), logger)
	agg := aggregate.New([]source.Source{&stubSource{jobs: jobs}}, logger)
	sched := &testScheduler{}
	engine := swipe.NewEngine(store, logger, swipe.WithScheduler(sched.schedule))

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware().Middleware())
	v1.Register(app.Group("/api/v1"), v1.Deps{
		Aggregator: agg,
		Store:      store,
		Engine:     engine,
		JWT:        jwt.NewHMACService("test-secret", 0),
	})
	return &fixture{app: app, store: store, engine: engine, sched: sched}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (*http.Response, response.SemanticResponse) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	var env response.SemanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, env
}

func sampleJobs() []job.Job {
	return []job.Job{
		{ID: "rm-1", Title: "Go Engineer", Company: "Acme", Match: 90, JobType: "Full-time"},
		{ID: "jc-2", Title: "Designer", Company: "Hooli", Match: 75, JobType: "Contract"},
	}
}

func TestSearchEndpoint(t *testing.T) {
	f := newFixture(t, sampleJobs())

	resp, env := f.do(t, "POST", "/api/v1/jobs/search", map[string]any{"query": "go"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	data, _ := json.Marshal(env.Data)
	var out struct {
		Jobs  []job.Job `json:"jobs"`
		Total int       `json:"total"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if out.Total != 2 {
		t.Errorf("total = %d", out.Total)
	}
	if out.Jobs[0].Match < out.Jobs[1].Match {
		t.Error("results not sorted by match")
	}
}

func TestCatalogEndpoints(t *testing.T) {
	f := newFixture(t, nil)
	for path, wantLen := range map[string]int{
		"/api/v1/catalog/categories":   len(job.Categories),
		"/api/v1/catalog/job-types":    len(job.JobTypes),
		"/api/v1/catalog/skip-reasons": len(job.SkipReasons),
	} {
		resp, env := f.do(t, "GET", path, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d", path, resp.StatusCode)
		}
		items, ok := env.Data.([]any)
		if !ok || len(items) != wantLen {
			t.Errorf("%s returned %d entries, want %d", path, len(items), wantLen)
		}
	}
}

func TestSwipeFlowOverHTTP(t *testing.T) {
	f := newFixture(t, sampleJobs())

	resp, _ := f.do(t, "POST", "/api/v1/swipe/queue", map[string]any{"query": "go"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("queue status = %d", resp.StatusCode)
	}

	resp, _ = f.do(t, "POST", "/api/v1/swipe/commit", map[string]string{"direction": "right"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("commit status = %d", resp.StatusCode)
	}
	if len(f.store.Saved()) != 1 {
		t.Fatalf("saved = %d", len(f.store.Saved()))
	}
	f.sched.fire(250 * time.Millisecond)

	// Skip needs a follow-up reason.
	resp, _ = f.do(t, "POST", "/api/v1/swipe/commit", map[string]string{"direction": "left"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("skip commit status = %d", resp.StatusCode)
	}
	f.sched.fire(250 * time.Millisecond)
	if len(f.store.Skipped()) != 0 {
		t.Fatal("skip filed before reason")
	}
	resp, _ = f.do(t, "POST", "/api/v1/swipe/skip-reason", map[string]string{"reason": "low_salary"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("skip-reason status = %d", resp.StatusCode)
	}
	if got := f.store.Skipped(); len(got) != 1 || got[0].SkipReason != job.SkipLowSalary {
		t.Fatalf("skipped = %+v", got)
	}

	// Deck is exhausted now; further commits conflict.
	resp, _ = f.do(t, "POST", "/api/v1/swipe/commit", map[string]string{"direction": "right"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("exhausted commit status = %d, want 409", resp.StatusCode)
	}

	_, env := f.do(t, "GET", "/api/v1/swipe/state", nil)
	data, _ := json.Marshal(env.Data)
	var state struct {
		State string `json:"state"`
	}
	_ = json.Unmarshal(data, &state)
	if state.State != "exhausted" {
		t.Errorf("state = %q", state.State)
	}
}

func TestSwipeQueueSkipsTriagedJobs(t *testing.T) {
	f := newFixture(t, sampleJobs())
	f.store.Save(context.Background(), job.Job{ID: "rm-1", Title: "Go Engineer", Company: "Acme"})

	f.do(t, "POST", "/api/v1/swipe/queue", map[string]any{"query": "go"})
	if f.engine.Remaining() != 1 {
		t.Errorf("remaining = %d, already-saved job should not be dealt", f.engine.Remaining())
	}
}

func TestBucketEndpoints(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.store.Skip(ctx, job.Job{ID: "x-1", Title: "A", Company: "B"}, job.SkipNotRelevant)

	resp, env := f.do(t, "GET", "/api/v1/buckets/skipped", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	data, _ := json.Marshal(env.Data)
	var bucket struct {
		Total int `json:"total"`
	}
	_ = json.Unmarshal(data, &bucket)
	if bucket.Total != 1 {
		t.Errorf("total = %d", bucket.Total)
	}

	resp, _ = f.do(t, "POST", "/api/v1/buckets/skipped/x-1/restore", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("restore status = %d", resp.StatusCode)
	}
	if len(f.store.Saved()) != 1 {
		t.Error("restore did not land in saved")
	}

	resp, _ = f.do(t, "PUT", "/api/v1/buckets/saved/x-1/status", map[string]string{"status": "applied"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status update = %d", resp.StatusCode)
	}
	resp, _ = f.do(t, "PUT", "/api/v1/buckets/saved/x-1/status", map[string]string{"status": "ghosted"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown status = %d, want 400", resp.StatusCode)
	}

	resp, _ = f.do(t, "DELETE", "/api/v1/buckets/saved/nope", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("remove missing = %d, want 404", resp.StatusCode)
	}

	resp, _ = f.do(t, "GET", "/api/v1/buckets/junk", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown bucket = %d, want 400", resp.StatusCode)
	}
}

func TestPreferencesEndpoints(t *testing.T) {
	f := newFixture(t, nil)

	resp, _ := f.do(t, "PUT", "/api/v1/preferences", map[string]any{"minSalary": 120000})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	if f.store.Preferences().MinSalary != 120000 {
		t.Errorf("minSalary = %d", f.store.Preferences().MinSalary)
	}
	// Omitted fields keep their defaults.
	if len(f.store.Preferences().Skills) == 0 {
		t.Error("merge wiped skills")
	}
}

func TestProfileRequiresSession(t *testing.T) {
	f := newFixture(t, nil)

	resp, _ := f.do(t, "GET", "/api/v1/profile", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated profile = %d", resp.StatusCode)
	}

	_, env := f.do(t, "POST", "/api/v1/session", map[string]string{"handle": "otter"})
	data, _ := json.Marshal(env.Data)
	var sess struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(data, &sess)
	if sess.Token == "" {
		t.Fatal("no token issued")
	}

	req := httptest.NewRequest("GET", "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("profile request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("authenticated profile = %d", resp.StatusCode)
	}
}
