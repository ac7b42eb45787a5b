package debounce

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type searchMsg struct{ tag int }

func TestDebouncerOnlyLatestIsCurrent(t *testing.T) {
	d := New(time.Millisecond)
	mk := func(tag int) tea.Msg { return searchMsg{tag} }

	first := d.Trigger(mk)
	second := d.Trigger(mk)

	m1 := first().(searchMsg)
	m2 := second().(searchMsg)

	if d.Current(m1.tag) {
		t.Fatal("superseded trigger reported current")
	}
	if !d.Current(m2.tag) {
		t.Fatal("latest trigger not current")
	}
}

func TestDebouncerWaits(t *testing.T) {
	d := New(20 * time.Millisecond)
	cmd := d.Trigger(func(tag int) tea.Msg { return searchMsg{tag} })

	start := time.Now()
	cmd()
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Fatalf("fired after %v", elapsed)
	}
}

func TestThrottler(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	th := NewThrottler(500*time.Millisecond, func() time.Time { return now })

	calls := 0
	inc := func() { calls++ }

	if !th.Do(inc) {
		t.Fatal("first call throttled")
	}
	now = now.Add(499 * time.Millisecond)
	if th.Do(inc) {
		t.Fatal("call inside window allowed")
	}
	now = now.Add(time.Millisecond)
	if !th.Do(inc) {
		t.Fatal("call after window throttled")
	}
	if calls != 2 {
		t.Fatalf("calls = %d", calls)
	}
}
