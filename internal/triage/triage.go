// Package triage holds the three user buckets a listing can land in after
// review: saved, skipped, archived. Mutations are synchronous in memory and
// persisted best-effort to the configured store.
package triage

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"matchpoint/internal/domain/job"
	"matchpoint/internal/storage"
)

// Bucket names a triage destination.
type Bucket string

const (
	BucketSaved    Bucket = "saved"
	BucketSkipped  Bucket = "skipped"
	BucketArchived Bucket = "archived"
)

const (
	// MaxSkipped caps the skipped bucket; the oldest entry falls off.
	MaxSkipped = 100
	// MaxNotes caps free-form notes on a saved job, in runes.
	MaxNotes = 500
)

var ErrNotFound = errors.New("triage: entry not found")

// Entry is a listing plus its bucket-local state.
type Entry struct {
	job.Job
	SavedAt    *time.Time            `json:"savedAt,omitempty"`
	SkippedAt  *time.Time            `json:"skippedAt,omitempty"`
	ArchivedAt *time.Time            `json:"archivedAt,omitempty"`
	Opened     bool                  `json:"opened"`
	SkipReason job.SkipReason        `json:"skipReason,omitempty"`
	AppStatus  job.ApplicationStatus `json:"appStatus,omitempty"`
	Notes      string                `json:"notes,omitempty"`
}

// skipFeedback is one row of the skip-reason log used to tune sourcing.
type skipFeedback struct {
	JobID  string         `json:"jobId"`
	Reason job.SkipReason `json:"reason"`
	At     time.Time      `json:"at"`
}

// Store owns bucket state. All methods are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	saved    []Entry
	skipped  []Entry
	archived []Entry
	feedback []skipFeedback
	prefs    job.Preferences
	viewed   int

	kv     storage.KV
	logger *log.Logger
	now    func() time.Time
}

func NewStore(kv storage.KV, logger *log.Logger) *Store {
	return &Store{
		kv:     kv,
		prefs:  job.DefaultPreferences(),
		logger: logger,
		now:    time.Now,
	}
}

// Load hydrates bucket state from the store. Missing keys leave defaults.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	load := func(key string, out any) {
		if _, err := s.kv.GetJSON(ctx, key, out); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	load(storage.KeySaved, &s.saved)
	load(storage.KeySkipped, &s.skipped)
	load(storage.KeyArchived, &s.archived)
	load(storage.KeySkipFeedback, &s.feedback)
	load(storage.KeyViewedCount, &s.viewed)

	var prefs job.Preferences
	if found, err := s.kv.GetJSON(ctx, storage.KeyPrefs, &prefs); err == nil && found {
		s.prefs = prefs
	} else if err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Save adds a job to the saved bucket, newest first. Saving the same job
// twice is a no-op; it reports whether the entry was added.
func (s *Store) Save(ctx context.Context, j job.Job) bool {
	s.mu.Lock()
	if indexOf(s.saved, j.ID) >= 0 {
		s.mu.Unlock()
		return false
	}
	at := s.now()
	s.saved = prepend(s.saved, Entry{
		Job:       j,
		SavedAt:   &at,
		AppStatus: job.StatusSaved,
	})
	s.mu.Unlock()

	s.persist(ctx, storage.KeySaved)
	return true
}

// Skip records a skipped job with its reason and appends to the feedback
// log. The bucket is capped; the oldest entry falls off.
func (s *Store) Skip(ctx context.Context, j job.Job, reason job.SkipReason) {
	s.mu.Lock()
	at := s.now()
	if indexOf(s.skipped, j.ID) < 0 {
		s.skipped = prepend(s.skipped, Entry{
			Job:        j,
			SkippedAt:  &at,
			SkipReason: reason,
		})
		if len(s.skipped) > MaxSkipped {
			s.skipped = s.skipped[:MaxSkipped]
		}
	}
	s.feedback = append(s.feedback, skipFeedback{JobID: j.ID, Reason: reason, At: at})
	s.mu.Unlock()

	s.persist(ctx, storage.KeySkipped, storage.KeySkipFeedback)
}

// Archive records a job set aside for later.
func (s *Store) Archive(ctx context.Context, j job.Job) {
	s.mu.Lock()
	if indexOf(s.archived, j.ID) >= 0 {
		s.mu.Unlock()
		return
	}
	at := s.now()
	s.archived = prepend(s.archived, Entry{Job: j, ArchivedAt: &at})
	s.mu.Unlock()

	s.persist(ctx, storage.KeyArchived)
}

// Remove deletes an entry from a bucket.
func (s *Store) Remove(ctx context.Context, b Bucket, id string) error {
	s.mu.Lock()
	list := s.bucket(b)
	i := indexOf(*list, id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	*list = append((*list)[:i], (*list)[i+1:]...)
	s.mu.Unlock()

	s.persist(ctx, keyFor(b))
	return nil
}

// Restore moves an entry from skipped or archived back into saved with a
// fresh saved timestamp and cleared open state. Restoring an id that is
// not in the bucket is a no-op error; restoring twice has no extra effect.
func (s *Store) Restore(ctx context.Context, from Bucket, id string) error {
	if from == BucketSaved {
		return ErrNotFound
	}
	s.mu.Lock()
	list := s.bucket(from)
	i := indexOf(*list, id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	ent := (*list)[i]
	*list = append((*list)[:i], (*list)[i+1:]...)

	if indexOf(s.saved, id) < 0 {
		at := s.now()
		s.saved = prepend(s.saved, Entry{
			Job:       ent.Job,
			SavedAt:   &at,
			AppStatus: job.StatusSaved,
		})
	}
	s.mu.Unlock()

	s.persist(ctx, keyFor(from), storage.KeySaved)
	return nil
}

// MarkOpened flags a saved job as visited.
func (s *Store) MarkOpened(ctx context.Context, id string) error {
	s.mu.Lock()
	i := indexOf(s.saved, id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.saved[i].Opened = true
	s.mu.Unlock()

	s.persist(ctx, storage.KeySaved)
	return nil
}

// SetStatus updates the application pipeline status of a saved job.
func (s *Store) SetStatus(ctx context.Context, id string, status job.ApplicationStatus) error {
	s.mu.Lock()
	i := indexOf(s.saved, id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.saved[i].AppStatus = status
	s.mu.Unlock()

	s.persist(ctx, storage.KeySaved)
	return nil
}

// SetNotes replaces the notes on a saved job, truncated to MaxNotes runes.
func (s *Store) SetNotes(ctx context.Context, id, notes string) error {
	if r := []rune(notes); len(r) > MaxNotes {
		notes = string(r[:MaxNotes])
	}
	s.mu.Lock()
	i := indexOf(s.saved, id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.saved[i].Notes = notes
	s.mu.Unlock()

	s.persist(ctx, storage.KeySaved)
	return nil
}

// Clear empties one bucket.
func (s *Store) Clear(ctx context.Context, b Bucket) {
	s.mu.Lock()
	*s.bucket(b) = nil
	s.mu.Unlock()
	s.persist(ctx, keyFor(b))
}

// Saved returns a copy of the saved bucket, newest first.
func (s *Store) Saved() []Entry { return s.copyOf(BucketSaved) }

// Skipped returns a copy of the skipped bucket, newest first.
func (s *Store) Skipped() []Entry { return s.copyOf(BucketSkipped) }

// Archived returns a copy of the archived bucket, newest first.
func (s *Store) Archived() []Entry { return s.copyOf(BucketArchived) }

// NextUnopened returns the most recently saved job not yet visited.
func (s *Store) NextUnopened() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.saved {
		if !e.Opened {
			return e, true
		}
	}
	return Entry{}, false
}

// Contains reports whether any bucket already holds the given job id.
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.saved, id) >= 0 ||
		indexOf(s.skipped, id) >= 0 ||
		indexOf(s.archived, id) >= 0
}

// IncrementViewed bumps and returns the lifetime viewed counter.
func (s *Store) IncrementViewed(ctx context.Context) int {
	s.mu.Lock()
	s.viewed++
	v := s.viewed
	s.mu.Unlock()

	s.persist(ctx, storage.KeyViewedCount)
	return v
}

func (s *Store) ViewedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewed
}

// Preferences returns the current preference set.
func (s *Store) Preferences() job.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// UpdatePreferences merges a partial update and persists the result.
func (s *Store) UpdatePreferences(ctx context.Context, p job.PartialPreferences) job.Preferences {
	s.mu.Lock()
	s.prefs = s.prefs.Merge(p)
	out := s.prefs
	s.mu.Unlock()

	s.persist(ctx, storage.KeyPrefs)
	return out
}

// Counts reports bucket sizes for badges.
func (s *Store) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{
		string(BucketSaved):    len(s.saved),
		string(BucketSkipped):  len(s.skipped),
		string(BucketArchived): len(s.archived),
	}
}

func (s *Store) copyOf(b Bucket) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := *s.bucket(b)
	out := make([]Entry, len(src))
	copy(out, src)
	return out
}

// bucket must be called with s.mu held.
func (s *Store) bucket(b Bucket) *[]Entry {
	switch b {
	case BucketSkipped:
		return &s.skipped
	case BucketArchived:
		return &s.archived
	default:
		return &s.saved
	}
}

// persist writes the named keys best-effort. A store outage must never
// fail the user action that triggered it.
func (s *Store) persist(ctx context.Context, keys ...string) {
	s.mu.Lock()
	snapshot := map[string]any{
		storage.KeySaved:        append([]Entry(nil), s.saved...),
		storage.KeySkipped:      append([]Entry(nil), s.skipped...),
		storage.KeyArchived:     append([]Entry(nil), s.archived...),
		storage.KeySkipFeedback: append([]skipFeedback(nil), s.feedback...),
		storage.KeyViewedCount:  s.viewed,
		storage.KeyPrefs:        s.prefs,
	}
	s.mu.Unlock()

	for _, k := range keys {
		if err := s.kv.SetJSON(ctx, k, snapshot[k]); err != nil {
			s.logger.Printf("triage: persist %s failed: %v", k, err)
		}
	}
}

func keyFor(b Bucket) string {
	switch b {
	case BucketSkipped:
		return storage.KeySkipped
	case BucketArchived:
		return storage.KeyArchived
	default:
		return storage.KeySaved
	}
}

func indexOf(list []Entry, id string) int {
	for i, e := range list {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func prepend(list []Entry, e Entry) []Entry {
	out := make([]Entry, 0, len(list)+1)
	out = append(out, e)
	return append(out, list...)
}
