package model

import "time"

// Severity classifies a notification for display.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Phase is the display lifecycle stage of a notification. A notification
// moves forward only: scheduled, visible, hidden, then it is removed from
// its queue entirely.
type Phase int

const (
	PhaseScheduled Phase = iota
	PhaseVisible
	PhaseHidden
)

func (p Phase) String() string {
	switch p {
	case PhaseScheduled:
		return "scheduled"
	case PhaseVisible:
		return "visible"
	case PhaseHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Notification is a transient, user-visible message.
type Notification struct {
	// ID is unique and increasing for the lifetime of the process.
	ID uint64 `json:"id"`

	// Severity selects the styling of the message.
	Severity Severity `json:"severity"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Duration is how long after creation the notification hides itself.
	Duration time.Duration `json:"duration"`

	// Phase is the current display stage.
	Phase Phase `json:"phase"`

	// CreatedAt is when this notification was pushed.
	CreatedAt time.Time `json:"created_at"`
}

// Shown reports whether the notification should currently be drawn.
func (n Notification) Shown() bool {
	return n.Phase == PhaseVisible
}
