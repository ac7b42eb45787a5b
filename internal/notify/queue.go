// Package notify implements the queue of transient, self-expiring messages
// shown to the user. Networking code and the UI both push into it; the UI
// renders its snapshot.
package notify

import (
	"sync"
	"time"

	"github.com/nhle/tavern/internal/model"
)

const (
	// DefaultDuration is how long a notification stays up when the caller
	// does not choose.
	DefaultDuration = 4 * time.Second

	// SettleInterval is the delay between hiding a notification and
	// removing it, reserved for the exit animation.
	SettleInterval = 300 * time.Millisecond
)

// Option configures a Queue.
type Option func(*Queue)

// WithScheduler replaces the timer source.
func WithScheduler(s Scheduler) Option {
	return func(q *Queue) { q.sched = s }
}

// WithDefaultDuration changes the duration used when Push receives zero.
func WithDefaultDuration(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.defaultDuration = d
		}
	}
}

// WithClock sets the source of CreatedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// Queue holds notifications in insertion order. Every state change goes
// through one mutex; timer callbacks only ever move an entry forward from
// a specific phase, so late or duplicate firings are no-ops.
type Queue struct {
	mu              sync.Mutex
	nextID          uint64
	entries         []model.Notification
	timers          map[uint64][]Timer
	sched           Scheduler
	now             func() time.Time
	defaultDuration time.Duration
	updates         chan struct{}
	closed          bool
}

// New creates an empty queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		timers:          make(map[uint64][]Timer),
		sched:           realScheduler{},
		now:             time.Now,
		defaultDuration: DefaultDuration,
		updates:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push appends a notification and returns its id immediately. A
// non-positive duration selects the queue's default.
func (q *Queue) Push(severity model.Severity, message string, duration time.Duration) uint64 {
	if duration <= 0 {
		duration = q.defaultDuration
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return 0
	}
	q.nextID++
	id := q.nextID
	q.entries = append(q.entries, model.Notification{
		ID:        id,
		Severity:  severity,
		Message:   message,
		Duration:  duration,
		Phase:     model.PhaseScheduled,
		CreatedAt: q.now(),
	})
	q.mu.Unlock()
	q.signal()

	// Zero delay defers the reveal to the next turn of the event loop,
	// after the entry has been observed in its scheduled state.
	q.schedule(id, 0, func() {
		q.advance(id, model.PhaseScheduled, model.PhaseVisible)
	})
	q.schedule(id, duration, func() { q.Hide(id) })

	return id
}

// Success pushes a success notification with the default duration.
func (q *Queue) Success(message string) uint64 {
	return q.Push(model.SeveritySuccess, message, 0)
}

// Error pushes an error notification with the default duration.
func (q *Queue) Error(message string) uint64 {
	return q.Push(model.SeverityError, message, 0)
}

// Warning pushes a warning notification with the default duration.
func (q *Queue) Warning(message string) uint64 {
	return q.Push(model.SeverityWarning, message, 0)
}

// Info pushes an informational notification with the default duration.
func (q *Queue) Info(message string) uint64 {
	return q.Push(model.SeverityInfo, message, 0)
}

// Hide moves the notification to hidden and schedules its removal after
// SettleInterval. Unknown or already hidden ids are ignored.
func (q *Queue) Hide(id uint64) {
	q.mu.Lock()
	i := q.indexOf(id)
	if i < 0 || q.entries[i].Phase == model.PhaseHidden {
		q.mu.Unlock()
		return
	}
	q.entries[i].Phase = model.PhaseHidden
	q.mu.Unlock()
	q.signal()

	q.schedule(id, SettleInterval, func() { q.remove(id) })
}

// ClearAll hides every queued notification at once. Each is removed after
// SettleInterval; notifications pushed afterwards are unaffected.
func (q *Queue) ClearAll() {
	q.mu.Lock()
	var hidden []uint64
	for i := range q.entries {
		if q.entries[i].Phase == model.PhaseHidden {
			continue
		}
		q.entries[i].Phase = model.PhaseHidden
		hidden = append(hidden, q.entries[i].ID)
	}
	q.mu.Unlock()
	if len(hidden) == 0 {
		return
	}
	q.signal()

	for _, id := range hidden {
		q.schedule(id, SettleInterval, func() { q.remove(id) })
	}
}

// Snapshot returns a copy of every queued notification in insertion order,
// including scheduled and hidden ones.
func (q *Queue) Snapshot() []model.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]model.Notification, len(q.entries))
	copy(out, q.entries)
	return out
}

// Get returns the notification with id if it is still queued.
func (q *Queue) Get(id uint64) (model.Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := q.indexOf(id)
	if i < 0 {
		return model.Notification{}, false
	}
	return q.entries[i], true
}

// Len returns the number of queued notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Updates delivers a signal whenever the queue changes. Signals coalesce;
// a receiver should re-read Snapshot after each one.
func (q *Queue) Updates() <-chan struct{} {
	return q.updates
}

// Close stops all pending timers. Pushes after Close are dropped.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	for id, ts := range q.timers {
		for _, t := range ts {
			t.Stop()
		}
		delete(q.timers, id)
	}
}

// advance moves id from phase from to phase to. Nothing happens if the
// entry is gone or already past from.
func (q *Queue) advance(id uint64, from, to model.Phase) {
	q.mu.Lock()
	i := q.indexOf(id)
	if i < 0 || q.entries[i].Phase != from {
		q.mu.Unlock()
		return
	}
	q.entries[i].Phase = to
	q.mu.Unlock()
	q.signal()
}

// remove drops id from the queue along with its timer bookkeeping.
func (q *Queue) remove(id uint64) {
	q.mu.Lock()
	i := q.indexOf(id)
	if i < 0 {
		q.mu.Unlock()
		return
	}
	q.entries = append(q.entries[:i], q.entries[i+1:]...)
	delete(q.timers, id)
	q.mu.Unlock()
	q.signal()
}

func (q *Queue) schedule(id uint64, d time.Duration, f func()) {
	t := q.sched.AfterFunc(d, f)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		t.Stop()
		return
	}
	if q.indexOf(id) >= 0 {
		q.timers[id] = append(q.timers[id], t)
	}
}

// indexOf returns the position of id in entries or -1. Callers hold mu.
func (q *Queue) indexOf(id uint64) int {
	for i := range q.entries {
		if q.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func (q *Queue) signal() {
	select {
	case q.updates <- struct{}{}:
	default:
	}
}
