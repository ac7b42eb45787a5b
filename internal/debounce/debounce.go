// Package debounce rate-limits user input.
//
// Debouncer works inside a Bubble Tea model: each Trigger returns a tick
// command carrying a tag, and only the tag of the latest trigger is
// current when its tick arrives. Throttler lets one call through per
// window and drops the rest.
package debounce

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Debouncer collapses a burst of triggers into the last one. It is meant
// to be owned by a single model and is not safe for concurrent use.
type Debouncer struct {
	wait time.Duration
	tag  int
}

// New creates a Debouncer that fires after wait of quiet.
func New(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Trigger starts a new quiet period and returns the command that
// delivers msg(tag) once it ends.
func (d *Debouncer) Trigger(msg func(tag int) tea.Msg) tea.Cmd {
	d.tag++
	tag := d.tag
	return tea.Tick(d.wait, func(time.Time) tea.Msg {
		return msg(tag)
	})
}

// Current reports whether tag belongs to the latest trigger.
func (d *Debouncer) Current(tag int) bool {
	return tag == d.tag
}

// Throttler allows at most one call per limit.
type Throttler struct {
	limit time.Duration
	now   func() time.Time

	mu   sync.Mutex
	last time.Time
}

// NewThrottler creates a Throttler. now may be nil.
func NewThrottler(limit time.Duration, now func() time.Time) *Throttler {
	if now == nil {
		now = time.Now
	}
	return &Throttler{limit: limit, now: now}
}

// Allow reports whether a call may run now and, if so, opens a new
// window.
func (t *Throttler) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.limit {
		return false
	}
	t.last = now
	return true
}

// Do runs f if the throttler allows it.
func (t *Throttler) Do(f func()) bool {
	if !t.Allow() {
		return false
	}
	f()
	return true
}
