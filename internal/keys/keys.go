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

	// Summary tiles
	TileAll        key.Binding
	TileOverdue    key.Binding
	TileHigh       key.Binding
	TileTodo       key.Binding
	TileInProgress key.Binding
	TileCompleted  key.Binding

	// Fine filters
	CycleStatus   key.Binding
	CyclePriority key.Binding

	// Sort
	CycleSort   key.Binding
	ReverseSort key.Binding

	// Task actions
	New        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	ToggleDone key.Binding

	// Notification center
	Notifications key.Binding

	// Session
	Profile key.Binding
	Logout  key.Binding
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
			key.WithHelp("enter", "open detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
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
		TileAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "all tasks"),
		),
		TileOverdue: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "overdue"),
		),
		TileHigh: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "high priority"),
		),
		TileTodo: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "todo"),
		),
		TileInProgress: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "in progress"),
		),
		TileCompleted: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "completed"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle status filter"),
		),
		CyclePriority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "cycle priority filter"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle sort"),
		),
		ReverseSort: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "reverse sort"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit task"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete task"),
		),
		ToggleDone: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle done"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "notifications"),
		),
		Profile: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "profile"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "log out"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.New, k.Edit,
		k.Quit, k.Help, k.Search,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Search, k.Help, k.Refresh, k.Notifications},
		{k.TileAll, k.TileOverdue, k.TileHigh, k.TileTodo, k.TileInProgress, k.TileCompleted},
		{k.CycleStatus, k.CyclePriority, k.CycleSort, k.ReverseSort},
		{k.New, k.Edit, k.Delete, k.ToggleDone},
		{k.Profile, k.Logout},
	}
}
