// Package toast draws the notification queue as a stack of boxes.
package toast

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tavern/internal/model"
	"github.com/nhle/tavern/internal/theme"
)

// MaxWidth caps the width of a single toast.
const MaxWidth = 48

var icons = map[model.Severity]string{
	model.SeveritySuccess: "✓",
	model.SeverityError:   "✗",
	model.SeverityWarning: "!",
	model.SeverityInfo:    "i",
}

// Render stacks the entries in insertion order. Scheduled entries are not
// drawn yet and hidden ones are drawn dimmed while they settle. It
// returns the empty string when nothing is drawn.
func Render(entries []model.Notification, width int) string {
	w := min(width, MaxWidth)
	if w <= 4 {
		return ""
	}

	var boxes []string
	for _, n := range entries {
		if n.Phase == model.PhaseScheduled {
			continue
		}

		style := theme.ToastStyle(n.Severity)
		if n.Phase == model.PhaseHidden {
			style = theme.HiddenToastStyle
		}

		text := n.Message
		if icon, ok := icons[n.Severity]; ok {
			text = icon + " " + text
		}
		boxes = append(boxes, style.Width(w-2).Render(text))
	}

	if len(boxes) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}
