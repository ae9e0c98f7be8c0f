// Package swipe implements the card review state machine: one listing is
// on deck at a time, a drag or key commit sends it to a triage bucket, and
// the deck advances after a short settle delay.
package swipe

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"
	"time"

	"matchpoint/internal/domain/job"
	"matchpoint/internal/triage"
)

// State is the engine's lifecycle position.
type State string

const (
	StateIdle       State = "idle"
	StateDragging   State = "dragging"
	StateCommitting State = "committing"
	StateExhausted  State = "exhausted"
)

// Direction is a commit gesture.
type Direction string

const (
	DirRight Direction = "right" // save
	DirLeft  Direction = "left"  // skip, reason pending
	DirDown  Direction = "down"  // archive
)

// Hint is live drag feedback before the gesture commits.
type Hint string

const (
	HintNone    Hint = ""
	HintSave    Hint = "save"
	HintSkip    Hint = "skip"
	HintArchive Hint = "archive"
)

// Gesture thresholds and timings.
const (
	CommitThresholdX = 100.0
	CommitThresholdY = 80.0
	// TapSlop is the manhattan-distance ceiling below which a release
	// counts as a tap, not a swipe.
	TapSlop = 6.0

	advanceDelay      = 250 * time.Millisecond
	skipReasonTimeout = 4 * time.Second
)

var (
	ErrExhausted     = errors.New("swipe: deck exhausted")
	ErrBusy          = errors.New("swipe: commit in progress")
	ErrReasonPending = errors.New("swipe: skip reason prompt open")
	ErrNotDragging   = errors.New("swipe: no drag in progress")
	ErrNoPendingSkip = errors.New("swipe: no skip awaiting a reason")
)

// Outcome reports what a released gesture or key commit did.
type Outcome struct {
	Action Action  `json:"action"`
	Job    job.Job `json:"job"`
}

type Action string

const (
	ActionNone    Action = "none" // snapped back
	ActionTap     Action = "tap"
	ActionSave    Action = "save"
	ActionSkip    Action = "skip"
	ActionArchive Action = "archive"
)

// EventFunc receives engine events for broadcast.
type EventFunc func(event string, payload any)

// CancelFunc stops a scheduled callback; it reports whether it ran in time.
type CancelFunc func() bool

// Engine drives one review deck. Safe for concurrent use.
type Engine struct {
	mu     sync.Mutex
	queue  []job.Job
	index  int
	state  State
	startX float64
	startY float64

	pendingSkip *job.Job
	cancelSkip  CancelFunc

	store  *triage.Store
	logger *log.Logger
	notify EventFunc

	// schedule is swapped in tests to fire timers synchronously.
	schedule func(time.Duration, func()) CancelFunc
}

func NewEngine(store *triage.Store, logger *log.Logger, opts ...Option) *Engine {
	e := &Engine{
		state:  StateExhausted,
		store:  store,
		logger: logger,
		notify: func(string, any) {},
		schedule: func(d time.Duration, fn func()) CancelFunc {
			t := time.AfterFunc(d, fn)
			return t.Stop
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type Option func(*Engine)

func WithNotifier(fn EventFunc) Option {
	return func(e *Engine) { e.notify = fn }
}

// WithScheduler overrides deferred execution. Used in tests.
func WithScheduler(s func(time.Duration, func()) CancelFunc) Option {
	return func(e *Engine) { e.schedule = s }
}

// SetQueue replaces the deck and resets all gesture state. A pending skip
// is resolved as "other" first so no review is lost.
func (e *Engine) SetQueue(ctx context.Context, jobs []job.Job) {
	e.mu.Lock()
	pending := e.takePendingLocked()
	e.queue = append([]job.Job(nil), jobs...)
	e.index = 0
	if len(e.queue) == 0 {
		e.state = StateExhausted
	} else {
		e.state = StateIdle
	}
	e.mu.Unlock()

	if pending != nil {
		e.store.Skip(ctx, *pending, job.SkipOther)
	}
	e.notify("queue", map[string]int{"size": len(jobs)})
}

// Current returns the on-deck listing.
func (e *Engine) Current() (job.Job, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index >= len(e.queue) {
		return job.Job{}, false
	}
	return e.queue[e.index], true
}

// State returns the engine's current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Remaining reports how many listings are still on deck.
func (e *Engine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index >= len(e.queue) {
		return 0
	}
	return len(e.queue) - e.index
}

// DragStart begins a gesture at the given pointer position.
func (e *Engine) DragStart(x, y float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case StateExhausted:
		return ErrExhausted
	case StateCommitting:
		return ErrBusy
	case StateDragging:
		// Restart from the new anchor; pointer-capture loss does this.
	}
	if e.pendingSkip != nil {
		return ErrReasonPending
	}
	e.state = StateDragging
	e.startX, e.startY = x, y
	return nil
}

// DragMove reports the hint the current pointer position would commit to.
func (e *Engine) DragMove(x, y float64) (Hint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateDragging {
		return HintNone, ErrNotDragging
	}
	return hintFor(x-e.startX, y-e.startY), nil
}

// DragEnd releases the gesture. Past a threshold it commits; inside the
// tap slop it is a tap; anywhere else the card snaps back.
func (e *Engine) DragEnd(ctx context.Context, x, y float64) (Outcome, error) {
	e.mu.Lock()
	if e.state != StateDragging {
		e.mu.Unlock()
		return Outcome{}, ErrNotDragging
	}
	dx, dy := x-e.startX, y-e.startY
	cur := e.queue[e.index]

	if math.Abs(dx)+math.Abs(dy) < TapSlop {
		e.state = StateIdle
		e.mu.Unlock()
		e.notify("tap", cur)
		return Outcome{Action: ActionTap, Job: cur}, nil
	}

	dir, ok := directionFor(dx, dy)
	if !ok {
		e.state = StateIdle
		e.mu.Unlock()
		return Outcome{Action: ActionNone, Job: cur}, nil
	}
	return e.commitLocked(ctx, dir, cur)
}

// Commit performs a keyboard-driven triage of the on-deck listing.
func (e *Engine) Commit(ctx context.Context, dir Direction) (Outcome, error) {
	e.mu.Lock()
	switch e.state {
	case StateExhausted:
		e.mu.Unlock()
		return Outcome{}, ErrExhausted
	case StateCommitting:
		e.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	// The reason prompt blocks further triage; a commit here would
	// orphan the unresolved skip.
	if e.pendingSkip != nil {
		e.mu.Unlock()
		return Outcome{}, ErrReasonPending
	}
	cur := e.queue[e.index]
	return e.commitLocked(ctx, dir, cur)
}

// commitLocked runs the bucket action and schedules the deck advance.
// Called with e.mu held; unlocks it.
func (e *Engine) commitLocked(ctx context.Context, dir Direction, cur job.Job) (Outcome, error) {
	e.state = StateCommitting

	var action Action
	switch dir {
	case DirRight:
		action = ActionSave
	case DirDown:
		action = ActionArchive
	case DirLeft:
		action = ActionSkip
		e.pendingSkip = &cur
		e.cancelSkip = e.schedule(skipReasonTimeout, func() {
			e.resolveSkipTimeout(cur.ID)
		})
	default:
		e.state = StateIdle
		e.mu.Unlock()
		return Outcome{Action: ActionNone, Job: cur}, nil
	}

	e.scheduleAdvanceLocked()
	e.mu.Unlock()

	switch action {
	case ActionSave:
		e.store.Save(ctx, cur)
	case ActionArchive:
		e.store.Archive(ctx, cur)
	}
	e.store.IncrementViewed(ctx)
	e.notify(string(action), cur)
	return Outcome{Action: action, Job: cur}, nil
}

// scheduleAdvanceLocked defers the index move so the outgoing card can
// settle. Called with e.mu held.
func (e *Engine) scheduleAdvanceLocked() {
	e.schedule(advanceDelay, func() {
		e.mu.Lock()
		if e.state != StateCommitting {
			e.mu.Unlock()
			return
		}
		e.index++
		if e.index >= len(e.queue) {
			e.state = StateExhausted
		} else {
			e.state = StateIdle
		}
		exhausted := e.state == StateExhausted
		e.mu.Unlock()
		if exhausted {
			e.notify("exhausted", nil)
		}
	})
}

// ChooseSkipReason resolves the pending skip with the user's answer.
func (e *Engine) ChooseSkipReason(ctx context.Context, reason job.SkipReason) error {
	e.mu.Lock()
	pending := e.takePendingLocked()
	e.mu.Unlock()
	if pending == nil {
		return ErrNoPendingSkip
	}
	e.store.Skip(ctx, *pending, reason)
	e.notify("skipped", map[string]string{"id": pending.ID, "reason": string(reason)})
	return nil
}

// PendingSkip reports whether a skip is waiting on a reason.
func (e *Engine) PendingSkip() (job.Job, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pendingSkip == nil {
		return job.Job{}, false
	}
	return *e.pendingSkip, true
}

// resolveSkipTimeout files the pending skip as "other" when the reason
// prompt times out.
func (e *Engine) resolveSkipTimeout(id string) {
	e.mu.Lock()
	if e.pendingSkip == nil || e.pendingSkip.ID != id {
		e.mu.Unlock()
		return
	}
	pending := *e.pendingSkip
	e.pendingSkip = nil
	e.cancelSkip = nil
	e.mu.Unlock()

	e.logger.Printf("swipe: skip reason prompt timed out for %s, filing as other", id)
	e.store.Skip(context.Background(), pending, job.SkipOther)
	e.notify("skipped", map[string]string{"id": pending.ID, "reason": string(job.SkipOther)})
}

// takePendingLocked clears and returns the pending skip, stopping its
// timeout. Called with e.mu held.
func (e *Engine) takePendingLocked() *job.Job {
	if e.pendingSkip == nil {
		return nil
	}
	p := e.pendingSkip
	e.pendingSkip = nil
	if e.cancelSkip != nil {
		e.cancelSkip()
		e.cancelSkip = nil
	}
	return p
}

func hintFor(dx, dy float64) Hint {
	switch {
	case dx > CommitThresholdX:
		return HintSave
	case dx < -CommitThresholdX:
		return HintSkip
	case dy > CommitThresholdY:
		return HintArchive
	default:
		return HintNone
	}
}

func directionFor(dx, dy float64) (Direction, bool) {
	switch {
	case dx > CommitThresholdX:
		return DirRight, true
	case dx < -CommitThresholdX:
		return DirLeft, true
	case dy > CommitThresholdY:
		return DirDown, true
	default:
		return "", false
	}
}
