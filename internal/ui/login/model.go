package login

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tavern/internal/theme"
	"github.com/nhle/tavern/internal/validate"
)

// Mode selects between the sign-in and sign-up forms.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// SubmitMsg is dispatched when the user completes the form.
type SubmitMsg struct {
	Mode     Mode
	Username string
	Email    string
	Password string
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

var errPasswordMismatch = errors.New("passwords do not match")

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	username string
	email    string
	password string
	confirm  string
}

// Model is the Bubble Tea model for the login and register forms.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	mode    Mode
	pending bool
	width   int
	height  int
}

// New creates a new form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start resets the form for mode. The username survives a switch between
// modes so it does not have to be typed twice.
func (m *Model) Start(mode Mode) tea.Cmd {
	m.mode = mode
	m.pending = false
	m.fb.email = ""
	m.fb.password = ""
	m.fb.confirm = ""
	if mode == ModeRegister {
		m.form = m.buildRegisterForm()
	} else {
		m.form = m.buildLoginForm()
	}
	return m.form.Init()
}

// Mode returns the active form mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Pending reports whether a submit is waiting for the server.
func (m Model) Pending() bool {
	return m.pending
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.pending {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.pending = true
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "Sign in to BrilliantTavern"
	hint := "ctrl+r create an account"
	if m.mode == ModeRegister {
		titleText = "Create your BrilliantTavern account"
		hint = "ctrl+r back to sign in"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	body := m.form.View()
	if m.pending {
		body = theme.DimmedStyle.Render("Please wait...")
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(titleText),
		body,
		theme.HelpStyle.Render(hint),
	)

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		theme.FormStyle.Render(content),
	)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			m.usernameField(),
			m.passwordField(),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m *Model) buildRegisterForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			m.usernameField(),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validate.Email),
			m.passwordField(),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirm).
				Validate(m.validateConfirm),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m *Model) usernameField() huh.Field {
	return huh.NewInput().
		Title("Username").
		Placeholder("3-50 letters, digits or _").
		Value(&m.fb.username).
		Validate(validate.Username)
}

func (m *Model) passwordField() huh.Field {
	return huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&m.fb.password).
		Validate(validate.Password)
}

func (m *Model) validateConfirm(s string) error {
	if s != m.fb.password {
		return errPasswordMismatch
	}
	return nil
}

// Failed re-opens the form after the server rejected a submit, keeping
// the username.
func (m *Model) Failed() tea.Cmd {
	return m.Start(m.mode)
}

func (m Model) handleSubmit() tea.Cmd {
	msg := SubmitMsg{
		Mode:     m.mode,
		Username: m.fb.username,
		Password: m.fb.password,
	}
	if m.mode == ModeRegister {
		msg.Email = m.fb.email
	}
	return func() tea.Msg { return msg }
}

func (m Model) formWidth() int {
	w := m.width / 2
	if w < 40 {
		w = 40
	}
	if w > 72 {
		w = 72
	}
	return w
}
