package help

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tavern/internal/keys"
	"github.com/nhle/tavern/internal/theme"
)

// Info is the session summary shown under the shortcuts.
type Info struct {
	Username string
	BaseURL  string
	Backend  string
	Expires  string
}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	info   Info
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// SetInfo replaces the session summary.
func (m *Model) SetInfo(info Info) {
	m.info = info
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	m.help.Width = m.width - 4
	m.help.ShowAll = true

	rows := []string{
		titleStyle.Render("Keyboard Shortcuts"),
		m.help.View(m.keys),
		"",
		titleStyle.Render("Session"),
	}
	rows = append(rows, m.infoLines()...)

	return theme.DetailPanelStyle.
		Width(max(m.width-4, 1)).
		Height(max(m.height-4, 1)).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) infoLines() []string {
	user := m.info.Username
	if user == "" {
		user = "not signed in"
	}
	line := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return fmt.Sprintf("%s %s", theme.DimmedStyle.Render(fmt.Sprintf("%-12s", label)), value)
	}
	return []string{
		line("User", user),
		line("Server", m.info.BaseURL),
		line("Credentials", m.info.Backend),
		line("Expires", m.info.Expires),
	}
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
