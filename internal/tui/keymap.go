package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Tabs
	NextTab     key.Binding
	PrevTab     key.Binding
	SpendingTab key.Binding
	BudgetTab   key.Binding
	ExpensesTab key.Binding

	// Actions
	Select       key.Binding
	Back         key.Binding
	Sort         key.Binding
	Order        key.Binding
	Categorize   key.Binding
	Uncategorize key.Binding
	NextAccount  key.Binding
	PrevAccount  key.Binding
	NextYear     key.Binding
	PrevYear     key.Binding
	ToggleSticky key.Binding
	Refresh      key.Binding

	// Application
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "previous month"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "next month"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("PgUp/Ctrl+B", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("PgDn/Ctrl+F", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("Home/g", "go to start"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("End/G", "go to end"),
		),

		// Tabs
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("Shift+Tab", "previous tab"),
		),
		SpendingTab: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "spending"),
		),
		BudgetTab: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "budget"),
		),
		ExpensesTab: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "expenses"),
		),

		// Actions
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "open expenses"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort field"),
		),
		Order: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "sort order"),
		),
		Categorize: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "categorize"),
		),
		Uncategorize: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "clear category"),
		),
		NextAccount: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next account"),
		),
		PrevAccount: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous account"),
		),
		NextYear: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "next year"),
		),
		PrevYear: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "previous year"),
		),
		ToggleSticky: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "sticky headers"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),

		// Application
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Select, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.Home, k.End},
		{k.NextTab, k.PrevTab, k.SpendingTab, k.BudgetTab, k.ExpensesTab},
		{k.Select, k.Back, k.Sort, k.Order, k.Categorize, k.Uncategorize},
		{k.PrevAccount, k.NextAccount, k.PrevYear, k.NextYear, k.ToggleSticky, k.Refresh},
		{k.Help, k.Quit, k.ForceQuit},
	}
}
