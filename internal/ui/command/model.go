package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tavern/internal/theme"
)

// CommandMsg is emitted when the user executes a command. Name is the
// first word and Args the rest.
type CommandMsg struct {
	Name string
	Args []string
}

// CancelMsg is emitted when the palette is dismissed.
type CancelMsg struct{}

// Known lists the commands offered as completions.
var Known = []string{
	"refresh",
	"logout",
	"quit",
	"open",
	"filter public",
	"filter popular",
	"filter latest",
	"filter my",
	"filter liked",
	"dismiss",
	"help",
	"settings",
}

// Parse splits a command line into a CommandMsg.
func Parse(line string) (CommandMsg, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return CommandMsg{}, false
	}
	return CommandMsg{Name: strings.ToLower(fields[0]), Args: fields[1:]}, true
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(Known)
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			cmd, ok := Parse(m.input.Value())
			m.input.Reset()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg { return cmd }

		case "esc":
			m.input.Reset()
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Command Palette"),
		m.input.View(),
		theme.HelpStyle.Render("tab completes | enter runs | esc closes"),
	)

	return theme.DetailPanelStyle.
		Width(max(m.width-4, 1)).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
