package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nhle/tavern/internal/api"
	"github.com/nhle/tavern/internal/credential"
	"github.com/nhle/tavern/internal/format"
	"github.com/nhle/tavern/internal/guard"
	"github.com/nhle/tavern/internal/keys"
	"github.com/nhle/tavern/internal/model"
	"github.com/nhle/tavern/internal/notify"
	"github.com/nhle/tavern/internal/router"
	"github.com/nhle/tavern/internal/session"
	"github.com/nhle/tavern/internal/token"
	"github.com/nhle/tavern/internal/ui"
	"github.com/nhle/tavern/internal/ui/carddetail"
	"github.com/nhle/tavern/internal/ui/cardlist"
	"github.com/nhle/tavern/internal/ui/command"
	settings "github.com/nhle/tavern/internal/ui/config"
	helpview "github.com/nhle/tavern/internal/ui/help"
	"github.com/nhle/tavern/internal/ui/login"
	"github.com/nhle/tavern/internal/ui/toast"
)

// NavigatedMsg is sent by the router listener after every committed
// navigation.
type NavigatedMsg struct {
	To router.Location
}

// TitleMsg carries a new window title from the navigation guard.
type TitleMsg string

// ResetMsg sends the UI back to the login screen without the router. It
// is the hard-redirect fallback of the request pipeline.
type ResetMsg struct{}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewMarket
	ViewCard
	ViewHelp
	ViewCommand
	ViewSettings
)

// Deps are the services the root model drives.
type Deps struct {
	Config     *model.AppConfig
	ConfigPath string
	Client     *api.Client
	Router     *router.Router
	Tokens     *token.Manager
	Creds      credential.Store
	Queue      *notify.Queue
	Watcher    *session.Watcher
}

// Model is the root Bubble Tea model. The router decides which screen is
// shown; the model follows its NavigatedMsg.
type Model struct {
	deps         Deps
	currentView  ViewState
	previousView ViewState
	location     router.Location
	layout       ui.Layout
	keys         *keys.KeyMap
	loginView    login.Model
	market       cardlist.Model
	detail       carddetail.Model
	helpView     helpview.Model
	commandView  command.Model
	settingsView settings.Model
	toasts       []model.Notification
	user         model.User
	marketLoaded bool
	ready        bool
}

// New creates the root application model.
func New(deps Deps) Model {
	k := keys.DefaultKeyMap()
	return Model{
		deps:         deps,
		currentView:  ViewLogin,
		keys:         k,
		layout:       ui.NewLayout(80, 24),
		loginView:    login.New(80, 24),
		market:       cardlist.New(deps.Client, k, 80, 24),
		detail:       carddetail.New(deps.Client, k, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		commandView:  command.New(80, 24),
		settingsView: settings.New(deps.ConfigPath, 80, 24),
	}
}

// Init navigates to the root route and starts the background listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.navigate(router.PathRoot),
		waitForToasts(m.deps.Queue),
	}
	if m.deps.Watcher != nil {
		cmds = append(cmds, m.deps.Watcher.Start())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.loginView.SetSize(w, h)
		m.market.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.settingsView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case NavigatedMsg:
		return m.enter(msg.To)

	case TitleMsg:
		return m, tea.SetWindowTitle(string(msg))

	case ResetMsg:
		m.location = router.Location{}
		m.currentView = ViewLogin
		m.marketLoaded = false
		m.user = model.User{}
		return m, m.loginView.Start(login.ModeLogin)

	case toastsChangedMsg:
		m.toasts = m.deps.Queue.Snapshot()
		return m, waitForToasts(m.deps.Queue)

	case session.ExpiredMsg:
		m.deps.Queue.Warning(api.MsgSessionExpired)
		return m, m.deps.Watcher.WaitForNext()

	case login.SubmitMsg:
		return m, m.authenticate(msg)

	case login.CancelMsg:
		return m, m.quit()

	case authDoneMsg:
		if msg.err != nil {
			if text := authFailureText(msg.err); text != "" {
				m.deps.Queue.Error(text)
			}
			return m, m.loginView.Failed()
		}
		m.marketLoaded = false
		m.deps.Queue.Success(fmt.Sprintf("Welcome, %s", msg.user.Username))
		return m, m.navigate(router.PathDashboard)

	case logoutDoneMsg:
		m.marketLoaded = false
		m.deps.Queue.Info("Signed out")
		return m, m.navigate(router.PathLogin)

	case cardlist.SelectedCardMsg:
		return m, m.navigate(router.CardPath(msg.ID.String()))

	case cardlist.LikeRequestMsg:
		return m, m.toggleLike(msg.ID)

	case carddetail.LikedMsg:
		if msg.Err == nil && msg.Result != nil {
			m.market.ApplyLike(msg.CardID, *msg.Result)
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd

	case carddetail.BackMsg:
		return m, m.navigate(router.PathDashboard)

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.execute(msg)

	case command.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case settings.SavedMsg:
		var cmd tea.Cmd
		m.settingsView, cmd = m.settingsView.Update(msg)
		if msg.Err != nil {
			m.deps.Queue.Error(fmt.Sprintf("Could not save settings: %v", msg.Err))
			return m, tea.Batch(cmd, m.settingsView.Open(msg.Config))
		}
		if m.deps.Config != nil {
			*m.deps.Config = msg.Config
		}
		m.currentView = m.previousView
		m.deps.Queue.Success("Settings saved, restart to apply")
		return m, cmd

	case settings.DoneMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKeys(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the view. Single
// character shortcuts are skipped while a text field has focus.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return m, m.quit(), true
	}

	switch {
	case key.Matches(msg, m.keys.SwitchForm) && m.currentView == ViewLogin:
		target := router.PathRegister
		if m.loginView.Mode() == login.ModeRegister {
			target = router.PathLogin
		}
		return m, m.navigate(target), true

	case key.Matches(msg, m.keys.Logout) && m.signedIn():
		return m, m.logout(), true
	}

	if m.typing() {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		m.helpView.SetInfo(m.sessionInfo())
		return m, nil, true

	case msg.String() == ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true

	case key.Matches(msg, m.keys.DismissAll):
		m.deps.Queue.ClearAll()
		return m, nil, true

	case key.Matches(msg, m.keys.Back) && m.currentView == ViewHelp:
		m.currentView = m.previousView
		return m, nil, true

	case key.Matches(msg, m.keys.Quit) && m.currentView == ViewMarket:
		return m, m.quit(), true
	}

	return m, nil, false
}

// typing reports whether the active view owns the keyboard.
func (m Model) typing() bool {
	switch m.currentView {
	case ViewLogin, ViewCommand, ViewSettings:
		return true
	case ViewMarket:
		return m.market.Typing()
	case ViewCard:
		return m.detail.Typing()
	}
	return false
}

func (m Model) signedIn() bool {
	return m.currentView == ViewMarket || m.currentView == ViewCard
}

// enter switches to the screen of a committed route. Re-committing the
// current location, as the session watcher does, keeps the screen and any
// draft as they are.
func (m Model) enter(to router.Location) (tea.Model, tea.Cmd) {
	if to.Route.Name != "" && to.String() == m.location.String() {
		m.location = to
		return m, nil
	}
	m.location = to
	m.user, _ = m.deps.Creds.User()

	switch to.Route.Name {
	case router.NameLogin:
		m.currentView = ViewLogin
		return m, m.loginView.Start(login.ModeLogin)

	case router.NameRegister:
		m.currentView = ViewLogin
		return m, m.loginView.Start(login.ModeRegister)

	case router.NameDashboard:
		m.currentView = ViewMarket
		if m.marketLoaded {
			return m, nil
		}
		m.marketLoaded = true
		cmd := m.market.Reload()
		return m, cmd

	case router.NameCard:
		id, err := uuid.Parse(to.Param("id"))
		if err != nil {
			m.deps.Queue.Error(api.MsgNotFound)
			return m, m.navigate(router.PathDashboard)
		}
		m.currentView = ViewCard
		cmd := m.detail.Open(id)
		return m, cmd
	}

	return m, nil
}

// execute runs a command palette entry.
func (m Model) execute(c command.CommandMsg) (tea.Model, tea.Cmd) {
	switch c.Name {
	case "quit", "q":
		return m, m.quit()
	case "logout":
		return m, m.logout()
	case "dismiss":
		m.deps.Queue.ClearAll()
		return m, nil
	case "help":
		m.currentView = ViewHelp
		m.helpView.SetInfo(m.sessionInfo())
		return m, nil
	case "settings":
		if m.deps.Config == nil || m.deps.ConfigPath == "" {
			break
		}
		m.currentView = ViewSettings
		cmd := m.settingsView.Open(*m.deps.Config)
		return m, cmd
	case "refresh":
		if m.currentView == ViewCard {
			cmd := m.detail.Open(m.detail.CardID())
			return m, cmd
		}
		cmd := m.market.Reload()
		return m, cmd
	case "open":
		if len(c.Args) == 1 {
			return m, m.navigate(router.CardPath(c.Args[0]))
		}
	case "filter":
		if len(c.Args) == 1 && m.currentView == ViewMarket {
			return m.updateActiveView(filterKey(c.Args[0]))
		}
	}

	m.deps.Queue.Warning(fmt.Sprintf("Unknown command %q", c.Name))
	return m, nil
}

// filterKey maps a filter name to the key that selects it.
func filterKey(name string) tea.KeyMsg {
	digits := map[string]string{
		api.MarketPublic:  "1",
		api.MarketPopular: "2",
		api.MarketLatest:  "3",
		api.MarketMine:    "4",
		api.MarketLiked:   "5",
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(digits[name])}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch routed := msg.(type) {
	case cardlist.CardsLoadedMsg:
		m.market, cmd = m.market.Update(routed)
		return m, cmd
	case carddetail.DetailLoadedMsg, carddetail.CommentsLoadedMsg, carddetail.CommentPostedMsg:
		m.detail, cmd = m.detail.Update(routed)
		return m, cmd
	}

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewMarket:
		m.market, cmd = m.market.Update(msg)
	case ViewCard:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := guard.AppName
	if m.location.Route.Title != "" {
		title = guard.Title(m.location.Route.Title)
	}
	account := "not signed in"
	if m.user.Username != "" && m.signedIn() {
		account = "@" + m.user.Username
	}

	header := m.layout.RenderHeader(title, account)
	toasts := toast.Render(m.toasts, m.layout.ContentWidth())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, m.renderContent(), toasts, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.loginView.View()
	case ViewMarket:
		return m.market.View()
	case ViewCard:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewSettings:
		return m.settingsView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewLogin:
		return "enter next | ctrl+r switch form | ctrl+c quit"
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewSettings:
		return "enter next | esc cancel"
	case ViewCard:
		if m.detail.Typing() {
			return "enter post | esc cancel"
		}
		return "esc back | l like | c comment | r refresh | j/k scroll | ? help"
	default:
		if m.market.Typing() {
			return "enter apply | esc clear"
		}
		return "q quit | ? help | / search | 1-5 filter | tab next filter | l like | : command"
	}
}

// sessionInfo summarizes the credential for the help overlay.
func (m Model) sessionInfo() helpview.Info {
	info := helpview.Info{Username: m.user.Username}
	if cfg := m.deps.Config; cfg != nil {
		info.BaseURL = cfg.API.BaseURL
		info.Backend = cfg.Credential.Backend
	}
	if exp, ok := m.deps.Tokens.ExpiresAt(); ok {
		info.Expires = format.Date(exp.Local(), "YYYY-MM-DD HH:mm")
	}
	return info
}

func (m Model) quit() tea.Cmd {
	if m.deps.Watcher != nil {
		m.deps.Watcher.Stop()
	}
	return tea.Quit
}
