package carddetail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/nhle/tavern/internal/api"
	"github.com/nhle/tavern/internal/debounce"
	"github.com/nhle/tavern/internal/format"
	"github.com/nhle/tavern/internal/keys"
	"github.com/nhle/tavern/internal/model"
	"github.com/nhle/tavern/internal/theme"
)

// CommentPageSize is the number of comments requested per page.
const CommentPageSize = 20

// Service is the part of the API the detail view calls. *api.Client
// satisfies it.
type Service interface {
	CardDetail(ctx context.Context, id uuid.UUID) (*model.CharacterCard, error)
	Comments(ctx context.Context, q api.CommentQuery) (*model.CommentPage, error)
	CreateComment(ctx context.Context, in model.CommentInput) (*model.Comment, error)
	ToggleLike(ctx context.Context, id uuid.UUID) (*model.LikeResult, error)
}

// BackMsg signals the parent to navigate back to the market.
type BackMsg struct{}

// DetailLoadedMsg carries the loaded card.
type DetailLoadedMsg struct {
	ID   uuid.UUID
	Card *model.CharacterCard
	Err  error
}

// CommentsLoadedMsg carries the first page of comments.
type CommentsLoadedMsg struct {
	CardID uuid.UUID
	Page   *model.CommentPage
	Err    error
}

// CommentPostedMsg is sent when a comment was accepted by the server.
type CommentPostedMsg struct {
	CardID  uuid.UUID
	Comment *model.Comment
	Err     error
}

// LikedMsg is sent when a like toggle finished.
type LikedMsg struct {
	CardID uuid.UUID
	Result *model.LikeResult
	Err    error
}

// Model is the card detail view component.
type Model struct {
	cardID   uuid.UUID
	card     *model.CharacterCard
	comments *model.CommentPage
	service  Service
	viewport viewport.Model
	input    textinput.Model
	writing  bool
	likes    *debounce.Throttler
	keys     *keys.KeyMap
	now      func() time.Time
	width    int
	height   int
	loading  bool
}

// New creates a new detail view model.
func New(svc Service, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	ti := textinput.New()
	ti.Placeholder = "write a comment..."
	ti.Prompt = "> "
	ti.CharLimit = 1000
	ti.Width = width - 6

	return Model{
		service:  svc,
		viewport: vp,
		input:    ti,
		likes:    debounce.NewThrottler(500*time.Millisecond, nil),
		keys:     k,
		now:      time.Now,
		width:    width,
		height:   height,
	}
}

// Open starts loading a card and its comments.
func (m *Model) Open(id uuid.UUID) tea.Cmd {
	m.cardID = id
	m.card = nil
	m.comments = nil
	m.writing = false
	m.loading = true
	m.input.Reset()
	m.input.Blur()
	return tea.Batch(m.loadCard(id), m.loadComments(id))
}

// CardID returns the card being shown.
func (m Model) CardID() uuid.UUID {
	return m.cardID
}

// Typing reports whether the comment input has focus.
func (m Model) Typing() bool {
	return m.writing
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DetailLoadedMsg:
		if msg.ID != m.cardID {
			return m, nil
		}
		m.loading = false
		if msg.Err == nil {
			m.card = msg.Card
		}
		m.refresh()
		return m, nil

	case CommentsLoadedMsg:
		if msg.CardID != m.cardID || msg.Err != nil {
			return m, nil
		}
		m.comments = msg.Page
		m.refresh()
		return m, nil

	case CommentPostedMsg:
		if msg.CardID != m.cardID || msg.Err != nil {
			return m, nil
		}
		return m, m.loadComments(m.cardID)

	case LikedMsg:
		if msg.CardID != m.cardID || msg.Err != nil || m.card == nil {
			return m, nil
		}
		m.card.IsLikedByCurrentUser = msg.Result.IsLiked
		m.card.LikesCount = msg.Result.LikesCount
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.writing {
			return m.handleWritingKeys(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Comment):
			if m.card != nil {
				m.writing = true
				return m, m.input.Focus()
			}
			return m, nil

		case key.Matches(msg, m.keys.Like):
			if m.card != nil && m.likes.Allow() {
				return m, m.toggleLike(m.cardID)
			}
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			cmd := m.Open(m.cardID)
			return m, cmd
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleWritingKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.writing = false
		m.input.Blur()
		return m, nil

	case "enter":
		content := strings.TrimSpace(m.input.Value())
		if content == "" {
			return m, nil
		}
		m.writing = false
		m.input.Reset()
		m.input.Blur()
		return m, m.postComment(model.CommentInput{CardID: m.cardID, Content: content})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	placeholder := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.loading {
		return placeholder.Render("Loading card...")
	}
	if m.card == nil {
		return placeholder.Render("Card not available")
	}

	if m.writing {
		return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.input.View())
	}
	return m.viewport.View()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderContent())
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	card := m.card
	if card == nil {
		return ""
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(card.Name))

	badge := theme.PublicBadgeStyle.Render("PUBLIC")
	if !card.IsPublic {
		badge = theme.PrivateBadgeStyle.Render("PRIVATE")
	}
	likes := fmt.Sprintf("♡ %s", format.Count(int64(card.LikesCount)))
	if card.IsLikedByCurrentUser {
		likes = theme.LikedStyle.Render(fmt.Sprintf("♥ %s", format.Count(int64(card.LikesCount))))
	}
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, badge, "  ", likes))
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	meta := func(label, value string) {
		if value == "" {
			return
		}
		sections = append(sections, fmt.Sprintf("%s %s", metaStyle.Render(fmt.Sprintf("%-9s", label+":")), valStyle.Render(value)))
	}
	meta("Creator", card.CreatorUsername)
	meta("Created", format.Date(card.CreatedAt, "YYYY-MM-DD HH:mm"))
	meta("Updated", format.Date(card.UpdatedAt, "YYYY-MM-DD HH:mm"))
	meta("Voice", card.TTSVoiceID)

	separator := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	empty := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)

	section := func(title, body string) {
		if body == "" {
			return
		}
		sections = append(sections, "", separator, "", headerStyle.Render(title), body)
	}
	section("About", card.ShortDescription)
	section("Greeting", card.GreetingMessage)
	section("Description", card.CardData.Description)
	section("Personality", card.CardData.Personality)
	section("Scenario", card.CardData.Scenario)

	if len(card.CardData.ExampleDialogs) > 0 {
		var b strings.Builder
		for i, d := range card.CardData.ExampleDialogs {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%s %s\n%s %s\n", metaStyle.Render("user:"), d.User, metaStyle.Render("char:"), d.Assistant)
		}
		section("Example dialogs", strings.TrimRight(b.String(), "\n"))
	}

	sections = append(sections, "", separator, "")
	if m.comments == nil {
		sections = append(sections, headerStyle.Render("Comments"), empty.Render("Loading comments..."))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, headerStyle.Render(fmt.Sprintf("Comments (%d)", m.comments.TotalCount)))
	if len(m.comments.Comments) == 0 {
		sections = append(sections, empty.Render("No comments yet. Press c to write one."))
	}
	sections = append(sections, "")
	for _, c := range m.comments.Comments {
		sections = append(sections, m.renderComment(c, "")...)
	}
	if m.comments.HasMore {
		sections = append(sections, empty.Render("More comments on the web client."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderComment(c model.Comment, indent string) []string {
	authorStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)

	header := indent + authorStyle.Render(c.AuthorName) + "  " +
		theme.DimmedStyle.Render(format.Relative(c.CreatedAt, m.now()))
	if c.IsPinned {
		header += "  " + theme.PinnedStyle.Render("PINNED")
	}
	if c.LikesCount > 0 {
		header += "  " + theme.DimmedStyle.Render("♡ "+format.Count(int64(c.LikesCount)))
	}

	lines := []string{header, indent + c.Content}
	for _, r := range c.Replies {
		lines = append(lines, m.renderComment(r, indent+"  ")...)
	}
	if extra := c.RepliesCount - len(c.Replies); extra > 0 && indent == "" {
		lines = append(lines, theme.DimmedStyle.Render(fmt.Sprintf("  %d more replies", extra)))
	}
	return append(lines, "")
}

func (m Model) loadCard(id uuid.UUID) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		card, err := svc.CardDetail(context.Background(), id)
		return DetailLoadedMsg{ID: id, Card: card, Err: err}
	}
}

func (m Model) loadComments(id uuid.UUID) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		page, err := svc.Comments(context.Background(), api.CommentQuery{
			CardID:    id,
			SortBy:    "created_at",
			SortOrder: "desc",
			Size:      CommentPageSize,
		})
		return CommentsLoadedMsg{CardID: id, Page: page, Err: err}
	}
}

func (m Model) postComment(in model.CommentInput) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		c, err := svc.CreateComment(context.Background(), in)
		return CommentPostedMsg{CardID: in.CardID, Comment: c, Err: err}
	}
}

func (m Model) toggleLike(id uuid.UUID) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		res, err := svc.ToggleLike(context.Background(), id)
		return LikedMsg{CardID: id, Result: res, Err: err}
	}
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.input.Width = width - 6
	m.refresh()
}
