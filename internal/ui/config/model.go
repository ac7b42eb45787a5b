package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tavern/internal/model"
	"github.com/nhle/tavern/internal/theme"
	"github.com/nhle/tavern/internal/validate"
)

// SavedMsg reports the outcome of writing the settings file.
type SavedMsg struct {
	Config model.AppConfig
	Err    error
}

// DoneMsg signals the settings view should close.
type DoneMsg struct{}

var errNotPositive = errors.New("must be a positive whole number")

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	baseURL  string
	timeout  string
	backend  string
	duration string
	interval string
}

// Model edits the persisted client settings. Changes apply on the next
// start.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	path    string
	base    model.AppConfig
	saving  bool
	spinner spinner.Model
	width   int
	height  int
}

// New creates a settings view that writes to path.
func New(path string, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		fb:      &formBindings{},
		path:    path,
		spinner: sp,
		width:   width,
		height:  height,
	}
}

// Open seeds the form from cfg.
func (m *Model) Open(cfg model.AppConfig) tea.Cmd {
	m.base = cfg
	m.saving = false
	m.fb.baseURL = cfg.API.BaseURL
	m.fb.timeout = strconv.Itoa(cfg.API.TimeoutSec)
	m.fb.backend = cfg.Credential.Backend
	m.fb.duration = strconv.Itoa(cfg.Notify.DefaultDurationMS)
	m.fb.interval = strconv.Itoa(cfg.Session.CheckIntervalSec)
	m.form = m.buildForm()
	return m.form.Init()
}

// Saving reports whether a write is in flight.
func (m Model) Saving() bool {
	return m.saving
}

// Path returns the settings file location.
func (m Model) Path() string {
	return m.path
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SavedMsg:
		m.saving = false
		return m, nil

	case spinner.TickMsg:
		if !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.form == nil || m.saving {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.saving = true
		return m, tea.Batch(m.spinner.Tick, m.save(m.collect()))
	case huh.StateAborted:
		return m, func() tea.Msg { return DoneMsg{} }
	}

	return m, cmd
}

// collect merges the form values over the settings the view was opened
// with. Fields are already validated.
func (m Model) collect() model.AppConfig {
	cfg := m.base
	cfg.API.BaseURL = strings.TrimSpace(m.fb.baseURL)
	cfg.API.TimeoutSec, _ = strconv.Atoi(strings.TrimSpace(m.fb.timeout))
	cfg.Credential.Backend = m.fb.backend
	cfg.Notify.DefaultDurationMS, _ = strconv.Atoi(strings.TrimSpace(m.fb.duration))
	cfg.Session.CheckIntervalSec, _ = strconv.Atoi(strings.TrimSpace(m.fb.interval))
	return cfg
}

func (m Model) save(cfg model.AppConfig) tea.Cmd {
	path := m.path
	return func() tea.Msg {
		if err := cfg.Validate(); err != nil {
			return SavedMsg{Config: cfg, Err: err}
		}
		if err := model.SaveConfig(path, &cfg); err != nil {
			return SavedMsg{Config: cfg, Err: fmt.Errorf("saving %s: %w", path, err)}
		}
		return SavedMsg{Config: cfg}
	}
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	body := m.form.View()
	if m.saving {
		body = m.spinner.View() + " Saving..."
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Settings"),
		body,
		theme.HelpStyle.Render("esc cancel | written to "+m.path),
	)

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		theme.FormStyle.Render(content),
	)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API base URL").
				Description("Prefixed to every request path").
				Placeholder("https://tavern.example.com/api").
				Value(&m.fb.baseURL).
				Validate(validate.URL),
			huh.NewInput().
				Title("Request timeout (seconds)").
				Value(&m.fb.timeout).
				Validate(positiveInt),
			huh.NewSelect[string]().
				Title("Credential storage").
				Options(
					huh.NewOption("Local database", model.CredentialBackendSQLite),
					huh.NewOption("System keyring", model.CredentialBackendKeyring),
				).
				Value(&m.fb.backend),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Notification duration (ms)").
				Value(&m.fb.duration).
				Validate(positiveInt),
			huh.NewInput().
				Title("Session check interval (seconds)").
				Value(&m.fb.interval).
				Validate(positiveInt),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errNotPositive
	}
	return nil
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
