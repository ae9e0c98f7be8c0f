package swipe

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"matchpoint/internal/domain/job"
	"matchpoint/internal/storage"
	"matchpoint/internal/triage"
)

// fakeScheduler captures deferred callbacks so tests fire them by hand.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (s *fakeScheduler) schedule(d time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	t := &fakeTimer{d: d, fn: fn}
	s.timers = append(s.timers, t)
	s.mu.Unlock()
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if t.fired {
			return false
		}
		t.stopped = true
		return true
	}
}

// fire runs every live timer with the given delay.
func (s *fakeScheduler) fire(d time.Duration) {
	s.mu.Lock()
	var due []*fakeTimer
	for _, t := range s.timers {
		if t.d == d && !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

func newTestEngine(t *testing.T, jobs ...job.Job) (*Engine, *triage.Store, *fakeScheduler) {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	store := triage.NewStore(storage.NewMemory(), logger)
	sched := &fakeScheduler{}
	e := NewEngine(store, logger, WithScheduler(sched.schedule))
	e.SetQueue(context.Background(), jobs)
	return e, store, sched
}

func deck(n int) []job.Job {
	out := make([]job.Job, n)
	for i := range out {
		out[i] = job.Job{ID: string(rune('a' + i)), Title: "T", Company: "C"}
	}
	return out
}

func TestCommitSaveAdvancesAfterDelay(t *testing.T) {
	e, store, sched := newTestEngine(t, deck(2)...)
	ctx := context.Background()

	out, err := e.Commit(ctx, DirRight)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if out.Action != ActionSave || out.Job.ID != "a" {
		t.Errorf("outcome = %+v", out)
	}
	if e.State() != StateCommitting {
		t.Errorf("state = %q, want committing during settle delay", e.State())
	}
	// Further commits are blocked until the deck advances.
	if _, err := e.Commit(ctx, DirRight); err != ErrBusy {
		t.Errorf("commit during settle: err = %v, want ErrBusy", err)
	}

	sched.fire(250 * time.Millisecond)
	if e.State() != StateIdle {
		t.Errorf("state after advance = %q", e.State())
	}
	if cur, _ := e.Current(); cur.ID != "b" {
		t.Errorf("current = %q, want b", cur.ID)
	}
	if len(store.Saved()) != 1 {
		t.Errorf("saved = %d", len(store.Saved()))
	}
	if store.ViewedCount() != 1 {
		t.Errorf("viewed = %d", store.ViewedCount())
	}
}

func TestDeckExhaustionEachJobInOneBucket(t *testing.T) {
	e, store, sched := newTestEngine(t, deck(3)...)
	ctx := context.Background()

	dirs := []Direction{DirRight, DirDown, DirLeft}
	for _, d := range dirs {
		if _, err := e.Commit(ctx, d); err != nil {
			t.Fatalf("Commit(%s): %v", d, err)
		}
		sched.fire(250 * time.Millisecond)
	}
	if err := e.ChooseSkipReason(ctx, job.SkipNotRelevant); err != nil {
		t.Fatalf("ChooseSkipReason: %v", err)
	}

	if e.State() != StateExhausted {
		t.Errorf("state = %q, want exhausted", e.State())
	}
	if _, err := e.Commit(ctx, DirRight); err != ErrExhausted {
		t.Errorf("commit on empty deck: err = %v", err)
	}

	total := len(store.Saved()) + len(store.Skipped()) + len(store.Archived())
	if total != 3 {
		t.Fatalf("bucket total = %d, want 3", total)
	}
	seen := map[string]int{}
	for _, en := range store.Saved() {
		seen[en.ID]++
	}
	for _, en := range store.Skipped() {
		seen[en.ID]++
	}
	for _, en := range store.Archived() {
		seen[en.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("job %q landed in %d buckets", id, n)
		}
	}
}

func TestSkipWaitsForReason(t *testing.T) {
	e, store, sched := newTestEngine(t, deck(2)...)
	ctx := context.Background()

	if _, err := e.Commit(ctx, DirLeft); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	sched.fire(250 * time.Millisecond)

	// The skip is not filed until a reason arrives.
	if len(store.Skipped()) != 0 {
		t.Fatal("skip recorded before reason chosen")
	}
	if _, ok := e.PendingSkip(); !ok {
		t.Fatal("no pending skip reported")
	}

	if err := e.ChooseSkipReason(ctx, job.SkipLowSalary); err != nil {
		t.Fatalf("ChooseSkipReason: %v", err)
	}
	skipped := store.Skipped()
	if len(skipped) != 1 || skipped[0].SkipReason != job.SkipLowSalary {
		t.Errorf("skipped = %+v", skipped)
	}
	if err := e.ChooseSkipReason(ctx, job.SkipOther); err != ErrNoPendingSkip {
		t.Errorf("second reason err = %v", err)
	}
}

func TestPendingSkipBlocksFurtherTriage(t *testing.T) {
	e, store, sched := newTestEngine(t, deck(3)...)
	ctx := context.Background()

	if _, err := e.Commit(ctx, DirLeft); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	sched.fire(250 * time.Millisecond)

	// The prompt is modal: no commit or drag until the skip is resolved,
	// so the first job can never be silently dropped.
	if _, err := e.Commit(ctx, DirLeft); err != ErrReasonPending {
		t.Fatalf("commit with prompt open: err = %v, want ErrReasonPending", err)
	}
	if err := e.DragStart(0, 0); err != ErrReasonPending {
		t.Errorf("drag with prompt open: err = %v, want ErrReasonPending", err)
	}

	if err := e.ChooseSkipReason(ctx, job.SkipNotRelevant); err != nil {
		t.Fatalf("ChooseSkipReason: %v", err)
	}
	if _, err := e.Commit(ctx, DirLeft); err != nil {
		t.Fatalf("commit after resolution: %v", err)
	}
	sched.fire(250 * time.Millisecond)
	sched.fire(4 * time.Second)

	skipped := store.Skipped()
	if len(skipped) != 2 {
		t.Fatalf("skipped = %d, want both left-committed jobs filed", len(skipped))
	}
	seen := map[string]bool{}
	for _, en := range skipped {
		seen[en.ID] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("skipped bucket = %v, want a and b", seen)
	}
}

func TestSkipReasonTimeoutFilesOther(t *testing.T) {
	e, store, sched := newTestEngine(t, deck(1)...)
	ctx := context.Background()

	if _, err := e.Commit(ctx, DirLeft); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	sched.fire(4 * time.Second)

	skipped := store.Skipped()
	if len(skipped) != 1 || skipped[0].SkipReason != job.SkipOther {
		t.Fatalf("skipped after timeout = %+v", skipped)
	}
	if err := e.ChooseSkipReason(ctx, job.SkipLowSalary); err != ErrNoPendingSkip {
		t.Errorf("reason after timeout err = %v", err)
	}
	if len(store.Skipped()) != 1 {
		t.Error("late reason duplicated the skip")
	}
}

func TestDragHintsAndCommit(t *testing.T) {
	e, store, sched := newTestEngine(t, deck(2)...)
	ctx := context.Background()

	if err := e.DragStart(200, 300); err != nil {
		t.Fatalf("DragStart: %v", err)
	}
	cases := []struct {
		x, y float64
		want Hint
	}{
		{250, 300, HintNone},     // dx=50, under threshold
		{310, 300, HintSave},     // dx=110
		{80, 300, HintSkip},      // dx=-120
		{200, 390, HintArchive},  // dy=90
		{200, 370, HintNone},     // dy=70
	}
	for _, c := range cases {
		got, err := e.DragMove(c.x, c.y)
		if err != nil {
			t.Fatalf("DragMove: %v", err)
		}
		if got != c.want {
			t.Errorf("DragMove(%v,%v) = %q, want %q", c.x, c.y, got, c.want)
		}
	}

	out, err := e.DragEnd(ctx, 320, 300)
	if err != nil {
		t.Fatalf("DragEnd: %v", err)
	}
	if out.Action != ActionSave {
		t.Errorf("action = %q", out.Action)
	}
	sched.fire(250 * time.Millisecond)
	if len(store.Saved()) != 1 {
		t.Errorf("saved = %d", len(store.Saved()))
	}
}

func TestDragTapAndSnapBack(t *testing.T) {
	e, store, _ := newTestEngine(t, deck(1)...)
	ctx := context.Background()

	// Tap: released within the slop.
	if err := e.DragStart(100, 100); err != nil {
		t.Fatalf("DragStart: %v", err)
	}
	out, err := e.DragEnd(ctx, 102, 103)
	if err != nil {
		t.Fatalf("DragEnd: %v", err)
	}
	if out.Action != ActionTap {
		t.Errorf("action = %q, want tap", out.Action)
	}
	if e.State() != StateIdle {
		t.Errorf("state after tap = %q", e.State())
	}

	// Snap back: moved, but under every commit threshold.
	if err := e.DragStart(100, 100); err != nil {
		t.Fatalf("DragStart: %v", err)
	}
	out, err = e.DragEnd(ctx, 160, 130)
	if err != nil {
		t.Fatalf("DragEnd: %v", err)
	}
	if out.Action != ActionNone {
		t.Errorf("action = %q, want none", out.Action)
	}
	if len(store.Saved())+len(store.Skipped())+len(store.Archived()) != 0 {
		t.Error("snap back touched a bucket")
	}
}

func TestSetQueueResolvesPendingSkip(t *testing.T) {
	e, store, sched := newTestEngine(t, deck(2)...)
	ctx := context.Background()

	if _, err := e.Commit(ctx, DirLeft); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	e.SetQueue(ctx, deck(1))

	skipped := store.Skipped()
	if len(skipped) != 1 || skipped[0].SkipReason != job.SkipOther {
		t.Fatalf("pending skip not resolved on queue swap: %+v", skipped)
	}
	if e.State() != StateIdle {
		t.Errorf("state after SetQueue = %q", e.State())
	}
	if e.Remaining() != 1 {
		t.Errorf("remaining = %d", e.Remaining())
	}
	// The old 4s timer must not fire against the new queue.
	sched.fire(4 * time.Second)
	if len(store.Skipped()) != 1 {
		t.Error("stale skip timer fired after queue swap")
	}
}

func TestEmptyQueueIsExhausted(t *testing.T) {
	e, _, _ := newTestEngine(t)
	if e.State() != StateExhausted {
		t.Errorf("state = %q", e.State())
	}
	if err := e.DragStart(0, 0); err != ErrExhausted {
		t.Errorf("DragStart err = %v", err)
	}
}
