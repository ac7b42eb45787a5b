package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/nhle/tavern/internal/notify"
)

// FakeScheduler is a manual clock for notify.Queue. Callbacks run only
// inside Advance, in due-time order, ties broken by scheduling order.
type FakeScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*fakeTimer
}

type fakeTimer struct {
	s   *FakeScheduler
	at  time.Duration
	seq int
	f   func()
}

// NewFakeScheduler returns a scheduler whose clock starts at zero.
func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{}
}

// AfterFunc registers f to run once the clock has advanced by d.
func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) notify.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	t := &fakeTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.pending = append(s.pending, t)
	return t
}

// Advance moves the clock forward by d, firing every callback that comes
// due, including callbacks scheduled by earlier callbacks.
func (s *FakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	for {
		sort.SliceStable(s.pending, func(i, j int) bool {
			if s.pending[i].at != s.pending[j].at {
				return s.pending[i].at < s.pending[j].at
			}
			return s.pending[i].seq < s.pending[j].seq
		})
		if len(s.pending) == 0 || s.pending[0].at > target {
			break
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.now = next.at

		s.mu.Unlock()
		next.f()
		s.mu.Lock()
	}
	s.now = target
	s.mu.Unlock()
}

// Pending returns the number of callbacks that have not fired or been
// stopped.
func (s *FakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels the callback. It reports whether the callback was pending.
func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	for i, p := range t.s.pending {
		if p == t {
			t.s.pending = append(t.s.pending[:i], t.s.pending[i+1:]...)
			return true
		}
	}
	return false
}
