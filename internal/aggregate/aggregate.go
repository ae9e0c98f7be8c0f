// Package aggregate merges listings from every configured source into a
// single deduplicated, score-sorted result set, with an LRU result cache
// and a curated fallback for total source outage.
package aggregate

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"matchpoint/internal/domain/job"
	"matchpoint/internal/source"
)

// maxCategoryFanout caps how many categories fan out into separate
// requests against category-aware sources.
const maxCategoryFanout = 3

// Request is one aggregated search.
type Request struct {
	Query      string
	Categories []string
	UserSkills []string
	Filters    Filters
}

// Result is what a search returns after merge and filtering.
type Result struct {
	Jobs     []job.Job `json:"jobs"`
	Total    int       `json:"total"`
	Cached   bool      `json:"cached"`
	Fallback bool      `json:"fallback"`
}

// EventFunc receives aggregator lifecycle events for broadcast.
type EventFunc func(event string, payload any)

// Aggregator fans a search out to all sources and merges the results.
type Aggregator struct {
	sources []source.Source
	cache   *resultCache
	logger  *log.Logger
	randf   func() float64
	notify  EventFunc

	// generation invalidates in-flight fetches superseded by a newer
	// search, so a slow old fan-out never overwrites fresher state.
	generation atomic.Uint64
}

type Option func(*Aggregator)

func WithCache(ttl time.Duration, capacity int) Option {
	return func(a *Aggregator) { a.cache = newResultCache(ttl, capacity) }
}

func WithRand(r func() float64) Option {
	return func(a *Aggregator) { a.randf = r }
}

func WithNotifier(fn EventFunc) Option {
	return func(a *Aggregator) { a.notify = fn }
}

func New(sources []source.Source, logger *log.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		sources: sources,
		cache:   newResultCache(DefaultCacheTTL, DefaultCacheCap),
		logger:  logger,
		randf:   rand.Float64,
		notify:  func(string, any) {},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Search returns the merged result set for the request, from cache when
// fresh. Individual source failures are tolerated; only a total outage
// produces the curated fallback set.
func (a *Aggregator) Search(ctx context.Context, req Request) (Result, error) {
	key := CacheKey(req.Query, req.Categories)
	if jobs, ok := a.cache.get(key); ok {
		filtered := req.Filters.Apply(jobs)
		return Result{Jobs: filtered, Total: len(filtered), Cached: true}, nil
	}

	gen := a.generation.Add(1)
	jobs, failures, calls := a.fanOut(ctx, req)

	// The deck must never come up empty: a total outage and a merge that
	// drops every listing both fall back to the curated set, uncached.
	merged := merge(jobs)
	if len(merged) == 0 {
		if failures == calls {
			a.notify("sources_down", map[string]int{"failed": failures})
		}
		a.logger.Printf("aggregate: no usable listings (%d/%d calls failed), serving fallback", failures, calls)
		fb := fallbackJobs(a.randf, req.UserSkills)
		sortByMatch(fb)
		filtered := req.Filters.Apply(fb)
		return Result{Jobs: filtered, Total: len(filtered), Fallback: true}, nil
	}

	if gen == a.generation.Load() {
		a.cache.set(key, req.Query, req.Categories, merged)
	}
	a.notify("results", map[string]int{"total": len(merged)})

	filtered := req.Filters.Apply(merged)
	return Result{Jobs: filtered, Total: len(filtered)}, nil
}

// fanOut runs every source call concurrently and collects whatever
// arrives before each per-source timeout.
func (a *Aggregator) fanOut(ctx context.Context, req Request) (jobs []job.Job, failures, calls int) {
	cats := req.Categories
	if len(cats) > maxCategoryFanout {
		cats = cats[:maxCategoryFanout]
	}

	type call struct {
		src      source.Source
		category string
	}
	var plan []call
	for _, src := range a.sources {
		if src.SupportsCategory() && len(cats) > 0 {
			for _, c := range cats {
				plan = append(plan, call{src, c})
			}
			continue
		}
		plan = append(plan, call{src, ""})
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, c := range plan {
		wg.Add(1)
		go func(c call) {
			defer wg.Done()
			got, err := c.src.Fetch(ctx, source.Query{
				Text:       req.Query,
				Category:   c.category,
				UserSkills: req.UserSkills,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				a.logger.Printf("aggregate: %s failed: %v", c.src.Name(), err)
				return
			}
			jobs = append(jobs, got...)
		}(c)
	}
	wg.Wait()
	return jobs, failures, len(plan)
}

// merge drops non-English listings, deduplicates across sources
// (first occurrence wins), and sorts by match score descending.
func merge(jobs []job.Job) []job.Job {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]job.Job, 0, len(jobs))
	for _, j := range jobs {
		// Title and company are judged separately so a non-English title
		// cannot ride on a long ASCII company name.
		if !isEnglish(j.Title) || !isEnglish(j.Company) {
			continue
		}
		k := j.DedupKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, j)
	}
	sortByMatch(out)
	return out
}

func sortByMatch(jobs []job.Job) {
	sort.SliceStable(jobs, func(i, k int) bool {
		return jobs[i].Match > jobs[k].Match
	})
}

// Refresh re-fetches every cached query so entries stay warm between
// user searches. Driven by the cron scheduler.
func (a *Aggregator) Refresh(ctx context.Context, userSkills []string) {
	for _, ent := range a.cache.entries() {
		if ctx.Err() != nil {
			return
		}
		jobs, _, _ := a.fanOut(ctx, Request{
			Query:      ent.query,
			Categories: ent.categories,
			UserSkills: userSkills,
		})
		merged := merge(jobs)
		if len(merged) == 0 {
			continue
		}
		a.cache.set(ent.key, ent.query, ent.categories, merged)
	}
}

// CacheSize reports how many result sets are currently cached.
func (a *Aggregator) CacheSize() int { return a.cache.size() }
