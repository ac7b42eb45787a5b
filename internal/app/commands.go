package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nhle/tavern/internal/api"
	"github.com/nhle/tavern/internal/model"
	"github.com/nhle/tavern/internal/notify"
	"github.com/nhle/tavern/internal/ui/carddetail"
	"github.com/nhle/tavern/internal/ui/login"
)

// toastsChangedMsg signals that the notification queue changed.
type toastsChangedMsg struct{}

// authDoneMsg carries the outcome of a login or register submit.
type authDoneMsg struct {
	user model.User
	err  error
}

// logoutDoneMsg is sent once the credential has been dropped.
type logoutDoneMsg struct{}

// navigate returns a command that pushes path on the router. The router
// listener reports the committed route as a NavigatedMsg. Pushing from a
// command keeps the listener off the event loop goroutine.
func (m Model) navigate(path string) tea.Cmd {
	r := m.deps.Router
	return func() tea.Msg {
		if err := r.Push(path); err != nil {
			log.Printf("app: navigating to %s: %v", path, err)
		}
		return nil
	}
}

// waitForToasts returns a tea.Cmd that waits for the next queue change.
// It must be re-issued after each toastsChangedMsg.
func waitForToasts(q *notify.Queue) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-q.Updates(); !ok {
			return nil
		}
		return toastsChangedMsg{}
	}
}

// authenticate signs in or registers and stores the returned credential.
func (m Model) authenticate(s login.SubmitMsg) tea.Cmd {
	client, creds := m.deps.Client, m.deps.Creds
	return func() tea.Msg {
		ctx := context.Background()

		var (
			res *model.AuthResult
			err error
		)
		if s.Mode == login.ModeRegister {
			res, err = client.Register(ctx, api.RegisterRequest{
				Username: s.Username,
				Email:    s.Email,
				Password: s.Password,
			})
		} else {
			res, err = client.Login(ctx, api.LoginRequest{
				Username: s.Username,
				Password: s.Password,
			})
		}
		if err != nil {
			return authDoneMsg{err: err}
		}
		if res.Token == "" {
			return authDoneMsg{err: errors.New("server returned no token")}
		}

		user := res.User()
		if err := creds.Save(res.Token, user); err != nil {
			log.Printf("app: saving credentials: %v", err)
			return authDoneMsg{err: fmt.Errorf("saving credentials: %w", err)}
		}
		return authDoneMsg{user: user}
	}
}

// authFailureText returns the message to show for a failed submit, or ""
// when the request pipeline has already shown one.
func authFailureText(err error) string {
	var (
		be *api.BusinessError
		he *api.HTTPError
		ne *api.NetworkError
		ce *api.ConfigError
	)
	switch {
	case errors.As(err, &be):
		return be.Message
	case errors.As(err, &he), errors.As(err, &ne), errors.As(err, &ce):
		return ""
	default:
		return "Sign in failed: " + err.Error()
	}
}

// logout tells the server and drops the local credential regardless of
// the answer.
func (m Model) logout() tea.Cmd {
	client, tokens := m.deps.Client, m.deps.Tokens
	return func() tea.Msg {
		if err := client.Logout(context.Background()); err != nil {
			log.Printf("app: logout: %v", err)
		}
		tokens.Invalidate()
		return logoutDoneMsg{}
	}
}

// toggleLike likes or unlikes a card from the market list.
func (m Model) toggleLike(id uuid.UUID) tea.Cmd {
	client := m.deps.Client
	return func() tea.Msg {
		res, err := client.ToggleLike(context.Background(), id)
		return carddetail.LikedMsg{CardID: id, Result: res, Err: err}
	}
}
