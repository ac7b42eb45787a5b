package cardlist

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/nhle/tavern/internal/api"
	"github.com/nhle/tavern/internal/debounce"
	"github.com/nhle/tavern/internal/keys"
	"github.com/nhle/tavern/internal/model"
	"github.com/nhle/tavern/internal/theme"
)

const (
	// PageSize is the number of cards requested per page.
	PageSize = 20
	// SearchDelay is the quiet period before a typed keyword is searched.
	SearchDelay = 300 * time.Millisecond
	// LikeInterval is the shortest gap between two like toggles.
	LikeInterval = 500 * time.Millisecond
)

// Loader fetches market pages. *api.Client satisfies it.
type Loader interface {
	MarketCards(ctx context.Context, q api.MarketQuery) (*model.CursorPage[model.CharacterCard], error)
}

// CardsLoadedMsg is sent when a market page has been fetched.
type CardsLoadedMsg struct {
	Filter  string
	Keyword string
	Append  bool
	Page    *model.CursorPage[model.CharacterCard]
	Err     error
}

// SelectedCardMsg is sent when a user opens a card.
type SelectedCardMsg struct {
	ID uuid.UUID
}

// LikeRequestMsg asks the parent to toggle the like on a card.
type LikeRequestMsg struct {
	ID uuid.UUID
}

type searchTickMsg struct {
	tag int
}

// filters defines the market filters cycled by Tab.
var filters = []struct {
	value string
	label string
}{
	{api.MarketPublic, "Public"},
	{api.MarketPopular, "Popular"},
	{api.MarketLatest, "Latest"},
	{api.MarketMine, "My cards"},
	{api.MarketLiked, "Liked"},
}

// Model is the card market view component.
type Model struct {
	list        list.Model
	loader      Loader
	keys        *keys.KeyMap
	filterIndex int
	keyword     string
	cursor      string
	hasNext     bool
	loading     bool
	searchMode  bool
	searchInput textinput.Model
	search      *debounce.Debouncer
	likes       *debounce.Throttler
	width       int
	height      int
}

// New creates a new card market model.
func New(loader Loader, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Card Market"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search cards..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		loader:      loader,
		keys:        k,
		searchInput: si,
		search:      debounce.New(SearchDelay),
		likes:       debounce.NewThrottler(LikeInterval, nil),
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the first market page.
func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Update handles messages for the card market view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case CardsLoadedMsg:
		return m.applyPage(msg), nil

	case searchTickMsg:
		if !m.search.Current(msg.tag) {
			return m, nil
		}
		return m.applyKeyword(m.searchInput.Value())

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	// Delegate to list model for other messages
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) applyPage(msg CardsLoadedMsg) Model {
	// Drop answers to queries that have since been replaced.
	if msg.Filter != m.Filter() || msg.Keyword != m.keyword {
		return m
	}
	m.loading = false
	if msg.Err != nil || msg.Page == nil {
		return m
	}

	items := make([]list.Item, 0, len(m.list.Items())+len(msg.Page.Items))
	if msg.Append {
		items = append(items, m.list.Items()...)
	}
	for _, card := range msg.Page.Items {
		items = append(items, CardItem{Card: card})
	}
	m.list.SetItems(items)
	if !msg.Append {
		m.list.Select(0)
	}

	m.cursor = msg.Page.NextCursor
	m.hasNext = msg.Page.HasNext
	return m
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m.applyKeyword(m.searchInput.Value())

	case "esc":
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		return m.applyKeyword("")
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	tick := m.search.Trigger(func(tag int) tea.Msg { return searchTickMsg{tag: tag} })
	return m, tea.Batch(cmd, tick)
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		card, ok := m.SelectedCard()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedCardMsg{ID: card.ID}
		}

	case key.Matches(msg, m.keys.Like):
		card, ok := m.SelectedCard()
		if !ok || !m.likes.Allow() {
			return m, nil
		}
		return m, func() tea.Msg {
			return LikeRequestMsg{ID: card.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.keyword)
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.FilterPublic):
		return m.setFilter(0)
	case key.Matches(msg, m.keys.FilterPopular):
		return m.setFilter(1)
	case key.Matches(msg, m.keys.FilterLatest):
		return m.setFilter(2)
	case key.Matches(msg, m.keys.FilterMine):
		return m.setFilter(3)
	case key.Matches(msg, m.keys.FilterLiked):
		return m.setFilter(4)
	case key.Matches(msg, m.keys.CycleFilter):
		return m.setFilter((m.filterIndex + 1) % len(filters))

	case key.Matches(msg, m.keys.LoadMore):
		if !m.hasNext || m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.load(m.cursor, true)

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.Reload()
		return m, cmd
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) setFilter(i int) (Model, tea.Cmd) {
	if i == m.filterIndex {
		return m, nil
	}
	m.filterIndex = i
	cmd := m.Reload()
	return m, cmd
}

func (m Model) applyKeyword(kw string) (Model, tea.Cmd) {
	kw = strings.TrimSpace(kw)
	if kw == m.keyword {
		return m, nil
	}
	m.keyword = kw
	cmd := m.Reload()
	return m, cmd
}

// View renders the card market view.
func (m Model) View() string {
	var rows []string
	rows = append(rows, m.renderFilters())

	if m.searchMode {
		rows = append(rows, lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View()))
	} else if m.keyword != "" {
		rows = append(rows, theme.HelpStyle.Render(" search: "+m.keyword+"  (esc in search to clear)"))
	}

	if len(m.list.Items()) == 0 {
		rows = append(rows, m.renderEmptyState())
	} else {
		rows = append(rows, m.list.View())
	}

	if m.hasNext {
		rows = append(rows, theme.HelpStyle.Render(" n load more"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderFilters() string {
	tabs := make([]string, len(filters))
	for i, f := range filters {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(theme.ColorGray)
		if i == m.filterIndex {
			style = style.Bold(true).Foreground(theme.ColorBlue).Underline(true)
		}
		tabs[i] = style.Render(f.label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderEmptyState shows guidance text when no cards are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(max(m.height-4, 1)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.loading {
		return style.Render("Loading cards...")
	}
	if m.keyword != "" {
		return style.Render("No cards match \"" + m.keyword + "\".")
	}
	return style.Render("No cards here yet.\nPress tab to try another filter.")
}

// Reload returns a tea.Cmd that fetches the first page for the current
// filter and keyword.
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	m.cursor = ""
	m.hasNext = false
	return m.load("", false)
}

func (m Model) load(cursor string, appendPage bool) tea.Cmd {
	loader := m.loader
	q := api.MarketQuery{
		Filter:  m.Filter(),
		Keyword: m.keyword,
		Cursor:  cursor,
		Size:    PageSize,
	}
	return func() tea.Msg {
		page, err := loader.MarketCards(context.Background(), q)
		return CardsLoadedMsg{
			Filter:  q.Filter,
			Keyword: q.Keyword,
			Append:  appendPage,
			Page:    page,
			Err:     err,
		}
	}
}

// Filter returns the active market filter.
func (m Model) Filter() string {
	return filters[m.filterIndex].value
}

// Keyword returns the active search keyword.
func (m Model) Keyword() string {
	return m.keyword
}

// Typing reports whether the search input has focus, in which case
// global single-key shortcuts must not fire.
func (m Model) Typing() bool {
	return m.searchMode
}

// SelectedCard returns the highlighted card.
func (m Model) SelectedCard() (model.CharacterCard, bool) {
	item, ok := m.list.SelectedItem().(CardItem)
	if !ok {
		return model.CharacterCard{}, false
	}
	return item.Card, true
}

// ApplyLike updates the like state of a listed card.
func (m *Model) ApplyLike(id uuid.UUID, res model.LikeResult) {
	for i, it := range m.list.Items() {
		ci, ok := it.(CardItem)
		if !ok || ci.Card.ID != id {
			continue
		}
		ci.Card.IsLikedByCurrentUser = res.IsLiked
		ci.Card.LikesCount = res.LikesCount
		m.list.SetItem(i, ci)
		return
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
