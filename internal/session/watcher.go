// Package session periodically re-checks the credential of the route the
// user is sitting on, so an expiry is noticed without a navigation.
package session

import (
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tavern/internal/router"
)

// DefaultInterval is used when the configured interval is not positive.
const DefaultInterval = 30 * time.Second

// Navigator is the part of the router the watcher drives.
type Navigator interface {
	Current() router.Location
	Push(path string) error
}

// ExpiredMsg is a tea.Msg sent when a check moved the user off a
// protected route.
type ExpiredMsg struct {
	From string
	To   string
}

// Watcher re-navigates to the current protected route on a ticker so the
// guard can re-evaluate it.
type Watcher struct {
	nav       Navigator
	interval  time.Duration
	resultCh  chan ExpiredMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        sync.Mutex
	running   bool
}

// New creates a Watcher.
func New(nav Navigator, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		nav:       nav,
		interval:  interval,
		resultCh:  make(chan ExpiredMsg, 4),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the check loop and returns a tea.Cmd that waits for the
// first ExpiredMsg. Calling Start twice returns nil.
func (w *Watcher) Start() tea.Cmd {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	go w.loop()

	return w.WaitForNext()
}

// Stop halts the check loop.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}

	close(w.stopCh)
	w.running = false
}

// CheckNow asks the loop for an immediate check.
func (w *Watcher) CheckNow() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

// WaitForNext returns a tea.Cmd that waits for the next ExpiredMsg. It
// should be re-issued after each ExpiredMsg is handled.
func (w *Watcher) WaitForNext() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-w.resultCh:
			return msg
		case <-w.stopCh:
			return nil
		}
	}
}

// Check runs one check synchronously and reports whether the user was
// moved off the current route.
func (w *Watcher) Check() bool {
	before := w.nav.Current()
	if !before.Route.RequiresAuth {
		return false
	}

	if err := w.nav.Push(before.String()); err != nil {
		log.Printf("session: re-checking %s: %v", before.Path, err)
		return false
	}

	after := w.nav.Current()
	if after.Path == before.Path {
		return false
	}

	log.Printf("session: %s is no longer reachable, moved to %s", before.Path, after.Path)
	w.send(ExpiredMsg{From: before.Path, To: after.Path})
	return true
}

func (w *Watcher) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Check()
		case <-w.triggerCh:
			w.Check()
		}
	}
}

// send delivers msg without blocking the loop.
func (w *Watcher) send(msg ExpiredMsg) {
	select {
	case w.resultCh <- msg:
	default:
	}
}
