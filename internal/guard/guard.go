// Package guard decides, once per navigation, whether the user may reach
// the target route given the state of the stored credential.
package guard

import (
	"log"

	"github.com/nhle/tavern/internal/router"
)

// AppName is appended to every window title.
const AppName = "BrilliantTavern"

// Tokens is the part of the token manager the guard consults.
// *token.Manager satisfies it.
type Tokens interface {
	HasCredential() bool
	IsExpired() bool
	Invalidate()
}

// Guard is the authentication guard registered with the router.
type Guard struct {
	tokens   Tokens
	setTitle func(string)
}

// New creates a Guard. setTitle may be nil.
func New(tokens Tokens, setTitle func(string)) *Guard {
	if setTitle == nil {
		setTitle = func(string) {}
	}
	return &Guard{tokens: tokens, setTitle: setTitle}
}

// Title formats a route title for the window.
func Title(routeTitle string) string {
	return routeTitle + " - " + AppName
}

// Check evaluates one navigation attempt. It never fails; every input
// maps to proceed or a redirect.
func (g *Guard) Check(to, _ router.Location) router.Outcome {
	if to.Route.Title != "" {
		g.setTitle(Title(to.Route.Title))
	}

	hasCredential := g.tokens.HasCredential()

	if to.Route.RequiresAuth {
		if !hasCredential {
			return router.RedirectTo(router.PathLogin)
		}
		if g.tokens.IsExpired() {
			log.Printf("guard: token expired, clearing credentials and redirecting to login")
			g.tokens.Invalidate()
			return router.RedirectTo(router.PathLogin)
		}
		return router.Proceed()
	}

	if hasCredential && isAuthPage(to.Path) {
		if !g.tokens.IsExpired() {
			return router.RedirectTo(router.PathDashboard)
		}
		log.Printf("guard: stale token on %s, clearing credentials", to.Path)
		g.tokens.Invalidate()
	}

	return router.Proceed()
}

func isAuthPage(path string) bool {
	return path == router.PathLogin || path == router.PathRegister
}
