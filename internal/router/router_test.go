package router

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	r := New(DefaultRoutes())

	tests := []struct {
		path     string
		name     string
		redirect string
		param    string
	}{
		{path: "/", redirect: PathDashboard},
		{path: "/login", name: NameLogin},
		{path: "/register/", name: NameRegister},
		{path: "/dashboard?tab=liked", name: NameDashboard},
		{path: "/cards/abc", name: NameCard, param: "abc"},
		{path: "/cards", redirect: PathLogin},
		{path: "/nowhere/at/all", redirect: PathLogin},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			loc, err := r.Resolve(tc.path)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if loc.Route.Name != tc.name || loc.Route.Redirect != tc.redirect {
				t.Fatalf("route = %+v", loc.Route)
			}
			if got := loc.Param("id"); got != tc.param {
				t.Fatalf("id param = %q, want %q", got, tc.param)
			}
		})
	}
}

func TestResolveQuery(t *testing.T) {
	r := New(DefaultRoutes())

	loc, err := r.Resolve("/dashboard?tab=liked")
	if err != nil {
		t.Fatal(err)
	}
	if loc.Path != PathDashboard || loc.Query.Get("tab") != "liked" {
		t.Fatalf("location = %+v", loc)
	}
}

func TestResolveNoRoute(t *testing.T) {
	r := New([]Route{{Pattern: "/only"}})

	if _, err := r.Resolve("/other"); !errors.Is(err, ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
	if err := r.Push("/other"); !errors.Is(err, ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute from Push, got %v", err)
	}
}

func TestPushFollowsRouteRedirects(t *testing.T) {
	r := New(DefaultRoutes())

	if err := r.Push("/"); err != nil {
		t.Fatalf("push: %v", err)
	}
	if got := r.Current().Path; got != PathDashboard {
		t.Fatalf("current = %s, want %s", got, PathDashboard)
	}

	if err := r.Push("/bogus"); err != nil {
		t.Fatalf("push: %v", err)
	}
	if got := r.Current().Path; got != PathLogin {
		t.Fatalf("current = %s, want %s", got, PathLogin)
	}
}

func TestGuardRedirect(t *testing.T) {
	r := New(DefaultRoutes())
	var seen []string
	r.BeforeEach(func(to, from Location) Outcome {
		seen = append(seen, to.Path)
		if to.Route.RequiresAuth {
			return RedirectTo(PathLogin)
		}
		return Proceed()
	})

	if err := r.Push(CardPath("42")); err != nil {
		t.Fatalf("push: %v", err)
	}
	if got := r.Current().Path; got != PathLogin {
		t.Fatalf("current = %s", got)
	}
	if len(seen) != 2 || seen[0] != "/cards/42" || seen[1] != PathLogin {
		t.Fatalf("guard saw %v", seen)
	}
}

func TestFirstRedirectingGuardWins(t *testing.T) {
	r := New(DefaultRoutes())
	secondCalls := 0
	r.BeforeEach(func(to, from Location) Outcome {
		if to.Path == PathDashboard {
			return RedirectTo(PathRegister)
		}
		return Proceed()
	})
	r.BeforeEach(func(to, from Location) Outcome {
		secondCalls++
		return Proceed()
	})

	if err := r.Push(PathDashboard); err != nil {
		t.Fatal(err)
	}
	if got := r.Current().Path; got != PathRegister {
		t.Fatalf("current = %s", got)
	}
	// Only the /register attempt reached the second guard.
	if secondCalls != 1 {
		t.Fatalf("second guard calls = %d", secondCalls)
	}
}

func TestRedirectLoop(t *testing.T) {
	r := New(DefaultRoutes())
	r.BeforeEach(func(to, from Location) Outcome {
		if to.Path == PathLogin {
			return RedirectTo(PathRegister)
		}
		return RedirectTo(PathLogin)
	})

	if err := r.Push(PathLogin); !errors.Is(err, ErrRedirectLoop) {
		t.Fatalf("expected ErrRedirectLoop, got %v", err)
	}
	if got := r.Current().Path; got != "" {
		t.Fatalf("nothing should be committed, current = %q", got)
	}
}

func TestListeners(t *testing.T) {
	r := New(DefaultRoutes())
	type move struct{ to, from string }
	var moves []move
	r.OnChange(func(to, from Location) {
		moves = append(moves, move{to.Path, from.Path})
	})

	if err := r.Push(PathLogin); err != nil {
		t.Fatal(err)
	}
	if err := r.Push(PathDashboard); err != nil {
		t.Fatal(err)
	}

	want := []move{{PathLogin, ""}, {PathDashboard, PathLogin}}
	if len(moves) != len(want) {
		t.Fatalf("moves = %v", moves)
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Errorf("move %d = %v, want %v", i, moves[i], want[i])
		}
	}
}

func TestListenerMayReadCurrent(t *testing.T) {
	r := New(DefaultRoutes())
	var inside string
	r.OnChange(func(to, from Location) {
		inside = r.Current().Path
	})

	if err := r.Push(PathRegister); err != nil {
		t.Fatal(err)
	}
	if inside != PathRegister {
		t.Fatalf("Current inside listener = %q", inside)
	}
}

func TestLocationString(t *testing.T) {
	r := New(DefaultRoutes())

	loc, err := r.Resolve("/dashboard/?tab=liked")
	if err != nil {
		t.Fatal(err)
	}
	if got := loc.String(); got != "/dashboard?tab=liked" {
		t.Fatalf("String() = %q", got)
	}
}
