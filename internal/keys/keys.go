package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Market filters
	FilterPublic  key.Binding
	FilterPopular key.Binding
	FilterLatest  key.Binding
	FilterMine    key.Binding
	FilterLiked   key.Binding
	CycleFilter   key.Binding
	LoadMore      key.Binding

	// Card actions
	Like    key.Binding
	Comment key.Binding

	// Session
	Logout      key.Binding
	SwitchForm  key.Binding
	DismissAll  key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open card"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		FilterPublic: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "public"),
		),
		FilterPopular: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "popular"),
		),
		FilterLatest: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "latest"),
		),
		FilterMine: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "my cards"),
		),
		FilterLiked: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "liked"),
		),
		CycleFilter: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next filter"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "load more"),
		),
		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "like"),
		),
		Comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comment"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "sign out"),
		),
		SwitchForm: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "login/register"),
		),
		DismissAll: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss toasts"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Search,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Search, k.Help, k.Refresh, k.LoadMore, k.DismissAll},
		{k.FilterPublic, k.FilterPopular, k.FilterLatest, k.FilterMine, k.FilterLiked, k.CycleFilter},
		{k.Like, k.Comment, k.Logout, k.SwitchForm},
	}
}
