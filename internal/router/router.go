// Package router maps paths to named screens and runs navigation guards
// before committing a move.
package router

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
)

// MaxRedirects bounds how many redirects a single Push may follow.
const MaxRedirects = 10

var (
	// ErrNoRoute is returned when no route matches a path.
	ErrNoRoute = errors.New("no route matches path")
	// ErrRedirectLoop is returned when a navigation keeps redirecting.
	ErrRedirectLoop = errors.New("too many redirects")
)

// Route is one entry of the route table. A pattern segment starting with
// ':' captures a parameter and a lone "*" matches any path.
type Route struct {
	Pattern      string
	Name         string
	Title        string
	RequiresAuth bool
	Redirect     string
}

// Location is a resolved navigation target.
type Location struct {
	Path   string
	Route  Route
	Params map[string]string
	Query  url.Values
}

// Param returns a captured path parameter.
func (l Location) Param(name string) string {
	return l.Params[name]
}

// String returns the path with its query, suitable for Push.
func (l Location) String() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// Outcome is what a guard decides for one navigation attempt: proceed
// when Redirect is empty, otherwise go to Redirect instead.
type Outcome struct {
	Redirect string
}

// Proceed lets the navigation through.
func Proceed() Outcome { return Outcome{} }

// RedirectTo sends the navigation elsewhere.
func RedirectTo(path string) Outcome { return Outcome{Redirect: path} }

// Guard inspects a navigation before it is committed.
type Guard func(to, from Location) Outcome

// Listener is told about every committed navigation.
type Listener func(to, from Location)

// Router holds the route table and the current location.
type Router struct {
	routes []Route

	mu        sync.RWMutex
	guards    []Guard
	listeners []Listener
	current   Location
}

// New creates a Router. Routes are matched in order.
func New(routes []Route) *Router {
	return &Router{routes: routes}
}

// BeforeEach registers a guard. Guards run in registration order and the
// first redirect wins.
func (r *Router) BeforeEach(g Guard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guards = append(r.guards, g)
}

// OnChange registers a listener for committed navigations.
func (r *Router) OnChange(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// Current returns the last committed location.
func (r *Router) Current() Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Push navigates to path, following route and guard redirects.
func (r *Router) Push(path string) error {
	r.mu.RLock()
	from := r.current
	guards := append([]Guard(nil), r.guards...)
	r.mu.RUnlock()

	target := path
	for range MaxRedirects + 1 {
		to, err := r.Resolve(target)
		if err != nil {
			return err
		}
		if to.Route.Redirect != "" {
			target = to.Route.Redirect
			continue
		}

		outcome := runGuards(guards, to, from)
		if outcome.Redirect != "" {
			log.Printf("router: %s redirected to %s", to.Path, outcome.Redirect)
			target = outcome.Redirect
			continue
		}

		r.commit(to, from)
		return nil
	}

	return fmt.Errorf("navigating to %s: %w", path, ErrRedirectLoop)
}

// Resolve matches path against the route table without navigating.
func (r *Router) Resolve(path string) (Location, error) {
	u, err := url.Parse(path)
	if err != nil {
		return Location{}, fmt.Errorf("parsing path %q: %w", path, err)
	}

	clean := "/" + strings.Trim(u.Path, "/")
	for _, route := range r.routes {
		params, ok := match(route.Pattern, clean)
		if !ok {
			continue
		}
		return Location{
			Path:   clean,
			Route:  route,
			Params: params,
			Query:  u.Query(),
		}, nil
	}

	return Location{}, fmt.Errorf("%w: %s", ErrNoRoute, clean)
}

func (r *Router) commit(to, from Location) {
	r.mu.Lock()
	r.current = to
	listeners := append([]Listener(nil), r.listeners...)
	r.mu.Unlock()

	for _, l := range listeners {
		l(to, from)
	}
}

func runGuards(guards []Guard, to, from Location) Outcome {
	for _, g := range guards {
		if out := g(to, from); out.Redirect != "" {
			return out
		}
	}
	return Proceed()
}

func match(pattern, path string) (map[string]string, bool) {
	if pattern == "*" {
		return nil, true
	}

	want := split(pattern)
	got := split(path)
	if len(want) != len(got) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range want {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			if got[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[name] = got[i]
			continue
		}
		if seg != got[i] {
			return nil, false
		}
	}
	return params, true
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
