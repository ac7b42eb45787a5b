package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tavern/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the card detail content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for cards in the market list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// DimmedStyle is used for secondary text such as authors and timestamps.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// FormStyle centers the login and register forms.
var FormStyle = lipgloss.NewStyle().
	Padding(1, 4).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBlue)

// PublicBadgeStyle marks public cards.
var PublicBadgeStyle = lipgloss.NewStyle().
	Foreground(ColorGreen).
	Bold(true)

// PrivateBadgeStyle marks cards only their creator can see.
var PrivateBadgeStyle = lipgloss.NewStyle().
	Foreground(ColorOrange).
	Bold(true)

// LikedStyle renders the like counter of a card the user has liked.
var LikedStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// PinnedStyle marks pinned comments.
var PinnedStyle = lipgloss.NewStyle().
	Foreground(ColorMagenta).
	Bold(true)

// SeverityColor returns the accent color of a notification severity.
func SeverityColor(sev model.Severity) lipgloss.AdaptiveColor {
	switch sev {
	case model.SeveritySuccess:
		return ColorGreen
	case model.SeverityError:
		return ColorRed
	case model.SeverityWarning:
		return ColorYellow
	case model.SeverityInfo:
		return ColorBlue
	default:
		return ColorGray
	}
}

// ToastStyle returns the boxed style of a notification toast.
func ToastStyle(sev model.Severity) lipgloss.Style {
	c := SeverityColor(sev)
	return lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Foreground(c)
}

// HiddenToastStyle renders a toast that is fading out.
var HiddenToastStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorSubtle).
	Foreground(ColorSubtle)
