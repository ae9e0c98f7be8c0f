package aggregate

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"matchpoint/internal/domain/job"
)

const (
	// DefaultCacheTTL bounds how long a merged result set is served
	// without re-fetching the sources.
	DefaultCacheTTL = 300 * time.Second
	// DefaultCacheCap bounds distinct query+category combinations held.
	DefaultCacheCap = 64
)

// CacheKey derives a stable key from the search text and the selected
// categories. Category order must not matter.
func CacheKey(query string, categories []string) string {
	cats := append([]string(nil), categories...)
	for i := range cats {
		cats[i] = strings.ToLower(strings.TrimSpace(cats[i]))
	}
	sort.Strings(cats)

	payload, _ := json.Marshal(struct {
		Query      string   `json:"query"`
		Categories []string `json:"categories"`
	}{strings.ToLower(strings.TrimSpace(query)), cats})

	sum := sha256.Sum256(payload)
	return "jobs:search:" + hex.EncodeToString(sum[:])
}

type cacheEntry struct {
	key        string
	query      string
	categories []string
	jobs       []job.Job
	storedAt   time.Time
}

// resultCache is an LRU of merged result sets with per-entry TTL.
type resultCache struct {
	mu  sync.Mutex
	ttl time.Duration
	cap int
	ll  *list.List
	idx map[string]*list.Element
	now func() time.Time
}

func newResultCache(ttl time.Duration, capacity int) *resultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if capacity <= 0 {
		capacity = DefaultCacheCap
	}
	return &resultCache{
		ttl: ttl,
		cap: capacity,
		ll:  list.New(),
		idx: make(map[string]*list.Element, capacity),
		now: time.Now,
	}
}

func (c *resultCache) get(key string) ([]job.Job, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.idx[key]
	if !ok {
		return nil, false
	}
	ent := el.Value.(*cacheEntry)
	if c.now().Sub(ent.storedAt) > c.ttl {
		c.ll.Remove(el)
		delete(c.idx, key)
		return nil, false
	}
	c.ll.MoveToFront(el)
	out := make([]job.Job, len(ent.jobs))
	copy(out, ent.jobs)
	return out, true
}

func (c *resultCache) set(key, query string, categories []string, jobs []job.Job) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]job.Job, len(jobs))
	copy(stored, jobs)

	if el, ok := c.idx[key]; ok {
		ent := el.Value.(*cacheEntry)
		ent.jobs = stored
		ent.storedAt = c.now()
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&cacheEntry{
		key:        key,
		query:      query,
		categories: append([]string(nil), categories...),
		jobs:       stored,
		storedAt:   c.now(),
	})
	c.idx[key] = el

	for c.ll.Len() > c.cap {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.idx, oldest.Value.(*cacheEntry).key)
	}
}

func (c *resultCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// entries returns cached entries, most recent first. Used by the refresher.
func (c *resultCache) entries() []cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]cacheEntry, 0, c.ll.Len())
	for el := c.ll.Front(); el != nil; el = el.Next() {
		out = append(out, *el.Value.(*cacheEntry))
	}
	return out
}
