package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nhle/tavern/internal/api"
	"github.com/nhle/tavern/internal/credential"
	"github.com/nhle/tavern/internal/guard"
	"github.com/nhle/tavern/internal/model"
	"github.com/nhle/tavern/internal/notify"
	"github.com/nhle/tavern/internal/router"
	"github.com/nhle/tavern/internal/token"
	"github.com/nhle/tavern/internal/ui/carddetail"
	"github.com/nhle/tavern/internal/ui/command"
	settings "github.com/nhle/tavern/internal/ui/config"
	"github.com/nhle/tavern/internal/ui/login"
	"github.com/nhle/tavern/tests/testutil"
)

// recorder collects committed navigations.
type recorder struct {
	mu   sync.Mutex
	seen []string
}

func (r *recorder) record(to, _ router.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, to.Path)
}

func (r *recorder) paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

type harness struct {
	m     Model
	creds credential.Store
	queue *notify.Queue
	nav   *recorder
}

func newHarness(t *testing.T, handler http.HandlerFunc) *harness {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds := credential.NewKVStore(testutil.NewTestStore(t))
	tokens := token.NewManager(creds, time.Now)
	queue := notify.New(notify.WithScheduler(testutil.NewFakeScheduler()))
	t.Cleanup(queue.Close)

	r := router.New(router.DefaultRoutes())
	r.BeforeEach(guard.New(tokens, nil).Check)
	nav := &recorder{}
	r.OnChange(nav.record)

	client := api.NewClient(srv.URL+"/api", tokens, queue)
	client.SetNavigator(r)

	m := New(Deps{
		Config: &model.AppConfig{},
		Client: client,
		Router: r,
		Tokens: tokens,
		Creds:  creds,
		Queue:  queue,
	})
	return &harness{m: m, creds: creds, queue: queue, nav: nav}
}

func envelope(w http.ResponseWriter, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"message": message,
		"data":    data,
	})
}

func messages(q *notify.Queue) []string {
	var out []string
	for _, n := range q.Snapshot() {
		out = append(out, n.Message)
	}
	return out
}

func locate(t *testing.T, path string) router.Location {
	t.Helper()
	loc, err := router.New(router.DefaultRoutes()).Resolve(path)
	if err != nil {
		t.Fatalf("resolve %s: %v", path, err)
	}
	return loc
}

func TestAuthenticateStoresCredential(t *testing.T) {
	userID := uuid.New()
	tok := testutil.MintToken(t, time.Now().Add(time.Hour))

	bodies := make(chan api.LoginRequest, 1)
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body api.LoginRequest
		json.NewDecoder(r.Body).Decode(&body)
		bodies <- body
		envelope(w, 200, "ok", map[string]any{
			"token":    tok,
			"userId":   userID,
			"username": "alice",
			"email":    "alice@example.com",
		})
	})

	msg := h.m.authenticate(login.SubmitMsg{
		Mode:     login.ModeLogin,
		Username: "alice",
		Password: "secret1",
	})()

	done, ok := msg.(authDoneMsg)
	if !ok {
		t.Fatalf("expected authDoneMsg, got %T", msg)
	}
	if done.err != nil {
		t.Fatalf("unexpected error: %v", done.err)
	}
	if done.user.ID != userID || done.user.Username != "alice" {
		t.Errorf("user = %+v", done.user)
	}
	if body := <-bodies; body.Username != "alice" || body.Password != "secret1" {
		t.Errorf("request body = %+v", body)
	}

	stored, err := h.creds.Token()
	if err != nil || stored != tok {
		t.Fatalf("stored token = %q, %v", stored, err)
	}
}

func TestAuthenticateRegisterSendsEmail(t *testing.T) {
	bodies := make(chan api.RegisterRequest, 1)
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/register" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body api.RegisterRequest
		json.NewDecoder(r.Body).Decode(&body)
		bodies <- body
		envelope(w, 200, "ok", map[string]any{"token": "a.b.c", "username": "bob"})
	})

	msg := h.m.authenticate(login.SubmitMsg{
		Mode:     login.ModeRegister,
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret1",
	})()

	if done := msg.(authDoneMsg); done.err != nil {
		t.Fatalf("unexpected error: %v", done.err)
	}
	if body := <-bodies; body.Email != "bob@example.com" {
		t.Errorf("email = %q", body.Email)
	}
}

func TestAuthenticateRejectedShowsServerMessage(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		envelope(w, 1001, "Wrong username or password", nil)
	})

	msg := h.m.authenticate(login.SubmitMsg{Mode: login.ModeLogin, Username: "alice", Password: "nope12"})()
	done := msg.(authDoneMsg)
	if !api.IsBusinessError(done.err) {
		t.Fatalf("expected business error, got %v", done.err)
	}

	h.m.Update(done)

	got := messages(h.queue)
	if len(got) != 1 || got[0] != "Wrong username or password" {
		t.Fatalf("notifications = %v", got)
	}
	if _, err := h.creds.Token(); !errors.Is(err, credential.ErrNotFound) {
		t.Fatalf("credential stored after rejection: %v", err)
	}
}

func TestAuthFailureTextSkipsPipelineErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"business", &api.BusinessError{Code: 1, Message: "taken"}, "taken"},
		{"http", &api.HTTPError{Status: 500, Message: "boom"}, ""},
		{"network", &api.NetworkError{Err: errors.New("refused")}, ""},
		{"config", &api.ConfigError{Err: errors.New("bad url")}, ""},
		{"other", errors.New("disk full"), "Sign in failed: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := authFailureText(tt.err); got != tt.want {
				t.Errorf("authFailureText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNavigateFollowsGuard(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})

	if msg := h.m.navigate(router.PathDashboard)(); msg != nil {
		t.Fatalf("navigate returned %T", msg)
	}

	got := h.nav.paths()
	if len(got) != 1 || got[0] != router.PathLogin {
		t.Fatalf("navigations = %v, want [/login]", got)
	}
}

func TestNavigateWithLiveCredential(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})
	if err := h.creds.Save(testutil.MintToken(t, time.Now().Add(time.Hour)), model.User{Username: "alice"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	h.m.navigate(router.PathRoot)()

	got := h.nav.paths()
	if len(got) != 1 || got[0] != router.PathDashboard {
		t.Fatalf("navigations = %v, want [/dashboard]", got)
	}
}

func TestEnterSelectsView(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		path string
		want ViewState
	}{
		{router.PathLogin, ViewLogin},
		{router.PathRegister, ViewLogin},
		{router.PathDashboard, ViewMarket},
		{router.CardPath(uuid.NewString()), ViewCard},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			next, _ := h.m.enter(locate(t, tt.path))
			if got := next.(Model).currentView; got != tt.want {
				t.Errorf("view = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEnterRegisterStartsRegisterForm(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})

	next, _ := h.m.enter(locate(t, router.PathRegister))
	if got := next.(Model).loginView.Mode(); got != login.ModeRegister {
		t.Fatalf("mode = %v, want register", got)
	}
}

func TestEnterMalformedCardID(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})

	next, cmd := h.m.enter(locate(t, router.CardPath("not-a-uuid")))
	if next.(Model).currentView == ViewCard {
		t.Fatal("malformed id opened the card view")
	}
	if got := messages(h.queue); len(got) != 1 || got[0] != api.MsgNotFound {
		t.Fatalf("notifications = %v", got)
	}
	if cmd == nil {
		t.Fatal("expected a navigation back to the dashboard")
	}
}

func TestDashboardLoadsOnce(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})

	next, cmd := h.m.enter(locate(t, router.PathDashboard))
	if cmd == nil {
		t.Fatal("first visit should load the market")
	}

	_, cmd = next.(Model).enter(locate(t, router.PathDashboard))
	if cmd != nil {
		t.Fatal("second visit should keep the loaded page")
	}
}

func TestLogoutDropsCredential(t *testing.T) {
	var called atomic.Bool
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		called.Store(r.URL.Path == "/api/auth/logout")
		envelope(w, 200, "ok", nil)
	})
	if err := h.creds.Save(testutil.MintToken(t, time.Now().Add(time.Hour)), model.User{Username: "alice"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, ok := h.m.logout()().(logoutDoneMsg); !ok {
		t.Fatal("expected logoutDoneMsg")
	}
	if !called.Load() {
		t.Error("logout endpoint was not called")
	}
	if _, err := h.creds.Token(); !errors.Is(err, credential.ErrNotFound) {
		t.Fatalf("credential survived logout: %v", err)
	}
}

func TestToggleLikeReportsResult(t *testing.T) {
	id := uuid.New()
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		envelope(w, 200, "ok", map[string]any{"isLiked": true, "likesCount": 8})
	})

	msg, ok := h.m.toggleLike(id)().(carddetail.LikedMsg)
	if !ok {
		t.Fatalf("expected LikedMsg, got %T", msg)
	}
	if msg.CardID != id || msg.Err != nil {
		t.Fatalf("msg = %+v", msg)
	}
	if msg.Result == nil || !msg.Result.IsLiked || msg.Result.LikesCount != 8 {
		t.Fatalf("result = %+v", msg.Result)
	}
}

func TestUnknownCommandWarns(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})

	h.m.execute(command.CommandMsg{Name: "frobnicate"})

	got := messages(h.queue)
	if len(got) != 1 || got[0] != `Unknown command "frobnicate"` {
		t.Fatalf("notifications = %v", got)
	}
}

func TestDismissCommandClearsToasts(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})
	h.queue.Info("one")
	h.queue.Info("two")

	h.m.execute(command.CommandMsg{Name: "dismiss"})

	for _, n := range h.queue.Snapshot() {
		if n.Phase != model.PhaseHidden {
			t.Fatalf("notification %d is %s", n.ID, n.Phase)
		}
	}
}

func TestTitleMsgSetsWindowTitle(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})

	_, cmd := h.m.Update(TitleMsg("Login - BrilliantTavern"))
	if cmd == nil {
		t.Fatal("expected a window title command")
	}
}

func TestResetReturnsToLogin(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})
	h.m.currentView = ViewMarket
	h.m.marketLoaded = true

	next, _ := h.m.Update(ResetMsg{})
	m := next.(Model)
	if m.currentView != ViewLogin || m.marketLoaded {
		t.Fatalf("view = %d, marketLoaded = %v", m.currentView, m.marketLoaded)
	}
}

func TestQuitKeyOnlyOnMarket(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})
	q := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}

	h.m.currentView = ViewLogin
	if _, _, handled := h.m.handleGlobalKeys(q); handled {
		t.Error("q quit from the login form")
	}

	h.m.currentView = ViewMarket
	if _, cmd, handled := h.m.handleGlobalKeys(q); !handled || cmd == nil {
		t.Error("q did not quit from the market")
	}
}

func TestSettingsCommandOpensForm(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})
	h.m.deps.ConfigPath = t.TempDir() + "/config.yaml"
	h.m.currentView = ViewMarket

	next, cmd := h.m.execute(command.CommandMsg{Name: "settings"})
	if got := next.(Model).currentView; got != ViewSettings {
		t.Fatalf("view = %d, want settings", got)
	}
	if cmd == nil {
		t.Fatal("expected the form init command")
	}
}

func TestSettingsSavedUpdatesConfig(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})
	h.m.currentView = ViewSettings
	h.m.previousView = ViewMarket

	saved := model.AppConfig{API: model.APIConfig{BaseURL: "https://tavern.example.com/api", TimeoutSec: 5}}
	next, _ := h.m.Update(settings.SavedMsg{Config: saved})

	if got := next.(Model).currentView; got != ViewMarket {
		t.Fatalf("view = %d, want market", got)
	}
	if h.m.deps.Config.API.BaseURL != "https://tavern.example.com/api" {
		t.Fatalf("config not updated: %+v", h.m.deps.Config.API)
	}
}

func TestSameRouteRecommitKeepsDraft(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})
	id := uuid.New()
	loc := locate(t, router.CardPath(id.String()))

	next, _ := h.m.Update(NavigatedMsg{To: loc})
	next, _ = next.Update(carddetail.DetailLoadedMsg{ID: id, Card: &model.CharacterCard{ID: id, Name: "Aria"}})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if !next.(Model).detail.Typing() {
		t.Fatal("comment input did not open")
	}

	next, cmd := next.Update(NavigatedMsg{To: loc})
	m := next.(Model)
	if !m.detail.Typing() {
		t.Fatal("re-commit of the same card closed the comment input")
	}
	if m.currentView != ViewCard {
		t.Fatalf("view = %d, want card", m.currentView)
	}
	if cmd != nil {
		t.Fatal("re-commit of the same card reloaded it")
	}
}

func TestSameRouteRecommitKeepsOverlay(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})
	loc := locate(t, router.PathDashboard)

	next, _ := h.m.Update(NavigatedMsg{To: loc})
	m := next.(Model)
	m.previousView = m.currentView
	m.currentView = ViewHelp

	next, _ = m.Update(NavigatedMsg{To: loc})
	if got := next.(Model).currentView; got != ViewHelp {
		t.Fatalf("view = %d, want help overlay kept", got)
	}
}
