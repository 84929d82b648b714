// Package tui is the interactive terminal interface: a monthly spending
// table, the budget, and expense lists that can be categorized in place.
package tui

import (
	"context"
	"errors"
	"slices"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/budgetview/internal/accounts"
	"github.com/Veraticus/budgetview/internal/budget"
	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/engine"
	"github.com/Veraticus/budgetview/internal/expenses"
	"github.com/Veraticus/budgetview/internal/model"
	"github.com/Veraticus/budgetview/internal/service"
	"github.com/Veraticus/budgetview/internal/spending"
	"github.com/Veraticus/budgetview/internal/tui/themes"
)

var tabs = []string{model.TabSpending, model.TabBudget, model.TabExpenses}

// budgetLine is one selectable line of the budget tab: a category, or one
// of its items when item is set.
type budgetLine struct {
	category *budget.CategoryView
	item     *budget.ItemView
}

// itemPicker chooses the budget item an expense is assigned to.
type itemPicker struct {
	items     []*budget.ItemView
	cursor    int
	expenseID int
}

// Model holds the main TUI state.
type Model struct {
	ctx      context.Context
	engine   Engine
	settings service.SettingsStore
	app      *model.AppSettings
	page     *model.ExpensesPageSettings
	snapshot *engine.Snapshot
	table    *spending.Table
	query    *expenses.Query
	picker   *itemPicker
	theme    themes.Theme
	keymap   KeyMap
	help     help.Model
	spinner  spinner.Model
	status   statusMsg
	config   Config
	tab      string
	backTab  string
	lines    []budgetLine
	list     []expenses.View
	sortBy   expenses.SortBy
	width    int
	height   int
	row      int
	col      int
	line     int
	cursor   int
	loading  bool
	showHelp bool
	quitting bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	return Model{
		ctx:      ctx,
		config:   cfg,
		engine:   cfg.Engine,
		settings: cfg.Settings,
		theme:    cfg.Theme,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		app:      model.DefaultAppSettings(cfg.Year),
		page:     model.DefaultExpensesPageSettings(),
		tab:      model.TabSpending,
		sortBy:   expenses.DefaultSortBy,
		width:    cfg.Width,
		height:   cfg.Height,
		loading:  true,
	}
}

// Init loads the saved settings, which in turn triggers the first refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadSettings())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case settingsLoadedMsg:
		return m.handleSettingsLoaded(msg)

	case snapshotLoadedMsg:
		return m.handleSnapshotLoaded(msg)

	case expensesLoadedMsg:
		return m.handleExpensesLoaded(msg)

	case categorizedMsg:
		return m.handleCategorized(msg)

	case settingsSavedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		}
		return m, nil

	case statusMsg:
		m.status = msg
		return m, nil
	}

	return m, nil
}

func (m *Model) setError(err error) {
	common.LogError(err, "TUI operation failed", nil)
	m.status = statusMsg{level: statusError, text: common.UserMessage(err)}
}

func (m Model) handleSettingsLoaded(msg settingsLoadedMsg) (tea.Model, tea.Cmd) {
	m.app = msg.app
	m.page = msg.page
	if msg.err != nil {
		m.setError(msg.err)
	}
	if !slices.Contains(tabs, m.app.Tab) {
		m.app.Tab = model.TabSpending
	}
	m.tab = m.app.Tab
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.refresh(m.app.Year))
}

func (m Model) handleSnapshotLoaded(msg snapshotLoadedMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, common.ErrStaleSnapshot) {
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}

	m.applySnapshot(msg.snapshot)

	if m.tab == model.TabExpenses {
		return m, m.openCurrentQuery()
	}
	return m, nil
}

func (m *Model) applySnapshot(snapshot *engine.Snapshot) {
	m.snapshot = snapshot
	m.table = spending.NewTable(snapshot.Spending)

	m.lines = nil
	for _, category := range snapshot.Budget.Categories() {
		m.lines = append(m.lines, budgetLine{category: category})
		for _, item := range category.Items {
			m.lines = append(m.lines, budgetLine{category: category, item: item})
		}
	}

	m.row = clamp(m.row, len(m.table.Rows))
	m.line = clamp(m.line, len(m.lines))
}

func (m Model) handleExpensesLoaded(msg expensesLoadedMsg) (tea.Model, tea.Cmd) {
	if m.query == nil || msg.query != *m.query {
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.setError(msg.err)
		return m, nil
	}
	m.list = msg.list
	m.cursor = clamp(m.cursor, len(m.list))
	return m, nil
}

func (m Model) handleCategorized(msg categorizedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil && !errors.Is(msg.err, common.ErrStaleSnapshot) {
		m.setError(msg.err)
		return m, nil
	}
	if msg.snapshot != nil {
		m.applySnapshot(msg.snapshot)
	}

	idx := slices.IndexFunc(m.list, func(v expenses.View) bool { return v.ID == msg.expenseID })
	if idx < 0 || m.query == nil || m.snapshot == nil {
		return m, nil
	}

	m.list[idx].BudgetItemID = msg.itemID
	settings := m.query.Settings()
	switch {
	case !m.query.Matches(m.list[idx].Expense, m.snapshot.Budget):
		m.list = slices.Delete(m.list, idx, idx+1)
		m.cursor = clamp(m.cursor, len(m.list))
	case settings.AutoAdvance && idx == m.cursor:
		m.cursor = clamp(m.cursor+1, len(m.list))
	}

	if msg.itemID == nil {
		m.status = statusMsg{level: statusSuccess, text: "Category cleared"}
	} else {
		m.status = statusMsg{level: statusSuccess, text: "Categorized as " + m.itemName(*msg.itemID)}
	}
	return m, nil
}

func (m Model) itemName(id int) string {
	if m.snapshot != nil {
		if item, err := m.snapshot.Budget.GetItem(id); err == nil {
			return item.DisplayName
		}
	}
	return "item #" + strconv.Itoa(id)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keymap.Help, m.keymap.Back, m.keymap.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.picker != nil {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keymap.NextTab):
		return m.switchTab(tabs[(slices.Index(tabs, m.tab)+1)%len(tabs)])
	case key.Matches(msg, m.keymap.PrevTab):
		return m.switchTab(tabs[(slices.Index(tabs, m.tab)+len(tabs)-1)%len(tabs)])
	case key.Matches(msg, m.keymap.SpendingTab):
		return m.switchTab(model.TabSpending)
	case key.Matches(msg, m.keymap.BudgetTab):
		return m.switchTab(model.TabBudget)
	case key.Matches(msg, m.keymap.ExpensesTab):
		return m.switchTab(model.TabExpenses)
	case key.Matches(msg, m.keymap.Refresh):
		m.loading = true
		m.status = statusMsg{level: statusInfo, text: "Refreshing..."}
		return m, tea.Batch(m.spinner.Tick, m.refresh(m.app.Year))
	case key.Matches(msg, m.keymap.PrevYear):
		return m.switchYear(m.app.Year - 1)
	case key.Matches(msg, m.keymap.NextYear):
		return m.switchYear(m.app.Year + 1)
	case key.Matches(msg, m.keymap.ToggleSticky):
		m.app.StickyHeaders = !m.app.StickyHeaders
		return m, m.saveAppSettings()
	}

	if m.snapshot == nil {
		return m, nil
	}

	switch m.tab {
	case model.TabSpending:
		return m.handleSpendingKey(msg)
	case model.TabBudget:
		return m.handleBudgetKey(msg)
	default:
		return m.handleExpensesKey(msg)
	}
}

func (m Model) switchTab(tab string) (tea.Model, tea.Cmd) {
	if tab == m.tab {
		return m, nil
	}
	m.tab = tab
	m.app.Tab = tab

	cmds := []tea.Cmd{m.saveAppSettings()}
	if tab == model.TabExpenses && m.snapshot != nil && m.query == nil {
		cmds = append(cmds, m.openCurrentQuery())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) switchYear(year int) (tea.Model, tea.Cmd) {
	if year < 2000 || year > 2099 {
		return m, showStatus(statusError, "Year %d is out of range", year)
	}
	m.app.Year = year
	m.query = nil
	m.list = nil
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.saveAppSettings(), m.refresh(year))
}

// openQuery shows the expenses addressed by q on the expenses tab.
func (m Model) openQuery(q expenses.Query) (tea.Model, tea.Cmd) {
	if m.tab != model.TabExpenses {
		m.backTab = m.tab
	}
	m.tab = model.TabExpenses
	m.app.Tab = model.TabExpenses
	m.query = &q
	m.list = nil
	m.cursor = 0
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.loadExpenses(q), m.saveAppSettings())
}

// openCurrentQuery reloads the shown query, or the remembered account when
// nothing has been opened yet.
func (m *Model) openCurrentQuery() tea.Cmd {
	if m.query == nil {
		q, ok := m.defaultAccountQuery()
		if !ok {
			m.status = statusMsg{level: statusInfo, text: "No accounts yet"}
			return nil
		}
		m.query = &q
	}
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.loadExpenses(*m.query))
}

func (m Model) defaultAccountQuery() (expenses.Query, bool) {
	accts := m.snapshot.Accounts
	if m.page.AccountID != nil && accts.HasAccount(*m.page.AccountID) {
		return expenses.ByAccount(*m.page.AccountID, m.app.Year), true
	}
	if first := accts.First(); first != nil {
		return expenses.ByAccount(first.ID(), m.app.Year), true
	}
	return expenses.Query{}, false
}

func (m Model) handleSpendingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lastCol := len(m.table.Months)
	switch {
	case key.Matches(msg, m.keymap.Up):
		m.row = clamp(m.row-1, len(m.table.Rows))
	case key.Matches(msg, m.keymap.Down):
		m.row = clamp(m.row+1, len(m.table.Rows))
	case key.Matches(msg, m.keymap.PageUp):
		m.row = clamp(m.row-m.pageSize(), len(m.table.Rows))
	case key.Matches(msg, m.keymap.PageDown):
		m.row = clamp(m.row+m.pageSize(), len(m.table.Rows))
	case key.Matches(msg, m.keymap.Left):
		m.col = max(m.col-1, 0)
	case key.Matches(msg, m.keymap.Right):
		m.col = min(m.col+1, lastCol)
	case key.Matches(msg, m.keymap.Home):
		m.col = 0
	case key.Matches(msg, m.keymap.End):
		m.col = lastCol
	case key.Matches(msg, m.keymap.Select):
		row := m.table.Rows[m.row]
		cell := row.Total
		if m.col < lastCol {
			cell = row.Cells[m.col]
		}
		if cell.Query == nil {
			return m, showStatus(statusInfo, "Pick a month or a budget line to see its expenses")
		}
		return m.openQuery(*cell.Query)
	}
	return m, nil
}

func (m Model) handleBudgetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Up):
		m.line = clamp(m.line-1, len(m.lines))
	case key.Matches(msg, m.keymap.Down):
		m.line = clamp(m.line+1, len(m.lines))
	case key.Matches(msg, m.keymap.PageUp):
		m.line = clamp(m.line-m.pageSize(), len(m.lines))
	case key.Matches(msg, m.keymap.PageDown):
		m.line = clamp(m.line+m.pageSize(), len(m.lines))
	case key.Matches(msg, m.keymap.Home):
		m.line = 0
	case key.Matches(msg, m.keymap.End):
		m.line = clamp(len(m.lines)-1, len(m.lines))
	case key.Matches(msg, m.keymap.Select):
		if len(m.lines) == 0 {
			return m, nil
		}
		line := m.lines[m.line]
		selector := expenses.CategorySelector(line.category.ID())
		if line.item != nil {
			selector = expenses.ItemSelector(line.item.ID())
		}
		return m.openQuery(expenses.ByPeriod(strconv.Itoa(m.app.Year), selector))
	}
	return m, nil
}

func (m Model) handleExpensesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Up):
		m.cursor = clamp(m.cursor-1, len(m.list))
	case key.Matches(msg, m.keymap.Down):
		m.cursor = clamp(m.cursor+1, len(m.list))
	case key.Matches(msg, m.keymap.PageUp):
		m.cursor = clamp(m.cursor-m.pageSize(), len(m.list))
	case key.Matches(msg, m.keymap.PageDown):
		m.cursor = clamp(m.cursor+m.pageSize(), len(m.list))
	case key.Matches(msg, m.keymap.Home):
		m.cursor = 0
	case key.Matches(msg, m.keymap.End):
		m.cursor = clamp(len(m.list)-1, len(m.list))
	case key.Matches(msg, m.keymap.Back):
		if m.backTab != "" {
			return m.switchTab(m.backTab)
		}
	case key.Matches(msg, m.keymap.Sort):
		m.sortBy.Field = m.sortBy.Field.Next()
		return m.resort()
	case key.Matches(msg, m.keymap.Order):
		m.sortBy.Order = m.sortBy.Order.Toggle()
		return m.resort()
	case key.Matches(msg, m.keymap.Categorize):
		if len(m.list) == 0 {
			return m, nil
		}
		m.picker = m.newPicker(m.list[m.cursor])
	case key.Matches(msg, m.keymap.Uncategorize):
		if len(m.list) == 0 || m.list[m.cursor].BudgetItemID == nil {
			return m, nil
		}
		m.loading = true
		return m, m.categorize(m.list[m.cursor].ID, nil)
	case key.Matches(msg, m.keymap.NextAccount):
		return m.stepAccount(1)
	case key.Matches(msg, m.keymap.PrevAccount):
		return m.stepAccount(-1)
	}
	return m, nil
}

func (m Model) resort() (tea.Model, tea.Cmd) {
	var selected int
	if len(m.list) > 0 {
		selected = m.list[m.cursor].ID
	}

	sorted, err := expenses.Sort(m.list, m.sortBy)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	m.list = sorted
	m.cursor = max(slices.IndexFunc(m.list, func(v expenses.View) bool { return v.ID == selected }), 0)
	m.status = statusMsg{level: statusInfo, text: "Sorted by " + m.sortBy.String()}
	return m, nil
}

// stepAccount moves an account list to the neighbouring account and
// remembers it for the next start.
func (m Model) stepAccount(delta int) (tea.Model, tea.Cmd) {
	if m.query == nil || m.query.Variant != expenses.VariantAccount {
		return m, nil
	}
	accts := m.snapshot.Accounts.Accounts()
	if len(accts) == 0 {
		return m, nil
	}

	idx := slices.IndexFunc(accts, func(a *accounts.AccountView) bool { return a.ID() == m.query.AccountID })
	next := accts[((idx+delta)%len(accts)+len(accts))%len(accts)]

	id := next.ID()
	page := *m.page
	page.AccountID = &id
	m.page = &page
	save := m.saveExpensesPage()

	updated, cmd := m.openQuery(expenses.ByAccount(id, m.app.Year))
	return updated, tea.Batch(cmd, save)
}

func (m Model) newPicker(e expenses.View) *itemPicker {
	items := slices.Concat(m.snapshot.Budget.Items(), m.snapshot.Budget.IgnoredItems())
	p := &itemPicker{items: items, expenseID: e.ID}
	if e.BudgetItemID != nil {
		p.cursor = max(slices.IndexFunc(items, func(i *budget.ItemView) bool { return i.ID() == *e.BudgetItemID }), 0)
	}
	return p
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := *m.picker
	switch {
	case key.Matches(msg, m.keymap.Back, m.keymap.Quit):
		m.picker = nil
		return m, nil
	case key.Matches(msg, m.keymap.Up):
		p.cursor = clamp(p.cursor-1, len(p.items))
	case key.Matches(msg, m.keymap.Down):
		p.cursor = clamp(p.cursor+1, len(p.items))
	case key.Matches(msg, m.keymap.Home):
		p.cursor = 0
	case key.Matches(msg, m.keymap.End):
		p.cursor = clamp(len(p.items)-1, len(p.items))
	case key.Matches(msg, m.keymap.Select):
		m.picker = nil
		if len(p.items) == 0 {
			return m, nil
		}
		id := p.items[p.cursor].ID()
		m.loading = true
		return m, m.categorize(p.expenseID, &id)
	}
	m.picker = &p
	return m, nil
}

func (m Model) pageSize() int {
	return max(m.height-8, 1)
}

// clamp keeps i within [0, n), or returns 0 for an empty range.
func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	return min(i, n-1)
}

var _ tea.Model = Model{}
