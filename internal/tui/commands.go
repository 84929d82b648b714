package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/budgetview/internal/expenses"
	"github.com/Veraticus/budgetview/internal/model"
	"github.com/Veraticus/budgetview/internal/service"
)

func (m Model) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(m.ctx, m.config.Timeout)
}

// loadSettings reads the persisted UI state, falling back to defaults when
// no store is configured.
func (m Model) loadSettings() tea.Cmd {
	store := m.settings
	year := m.config.Year
	return func() tea.Msg {
		app := model.DefaultAppSettings(year)
		page := model.DefaultExpensesPageSettings()
		if store == nil {
			return settingsLoadedMsg{app: app, page: page}
		}

		ctx, cancel := m.withTimeout()
		defer cancel()

		loadedApp := &model.AppSettings{}
		if err := store.LoadSettings(ctx, model.AppSettingsKey, model.DefaultAppSettings(year), loadedApp); err != nil {
			return settingsLoadedMsg{app: app, page: page, err: fmt.Errorf("failed to load settings: %w", err)}
		}

		loadedPage := &model.ExpensesPageSettings{}
		if err := store.LoadSettings(ctx, model.ExpensesPageSettingsKey, model.DefaultExpensesPageSettings(), loadedPage); err != nil {
			return settingsLoadedMsg{app: loadedApp, page: page, err: fmt.Errorf("failed to load settings: %w", err)}
		}

		return settingsLoadedMsg{app: loadedApp, page: loadedPage}
	}
}

// saveSettings stores a copy of settings under key.
func (m Model) saveSettings(key string, settings service.Settings) tea.Cmd {
	store := m.settings
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()

		if err := store.SaveSettings(ctx, key, settings); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("failed to save %s settings: %w", key, err)}
		}
		return settingsSavedMsg{}
	}
}

func (m Model) saveAppSettings() tea.Cmd {
	app := *m.app
	return m.saveSettings(model.AppSettingsKey, &app)
}

func (m Model) saveExpensesPage() tea.Cmd {
	page := *m.page
	return m.saveSettings(model.ExpensesPageSettingsKey, &page)
}

// refresh rebuilds the snapshot for year.
func (m Model) refresh(year int) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()

		snapshot, err := eng.Refresh(ctx, year)
		return snapshotLoadedMsg{snapshot: snapshot, err: err}
	}
}

// loadExpenses fetches the expenses of query in the current sort order.
func (m Model) loadExpenses(query expenses.Query) tea.Cmd {
	eng := m.engine
	snapshot := m.snapshot
	sortBy := m.sortBy
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()

		list, err := eng.Expenses(ctx, snapshot, query, sortBy)
		return expensesLoadedMsg{query: query, list: list, err: err}
	}
}

// categorize assigns an expense to itemID, or clears it when itemID is nil.
func (m Model) categorize(expenseID int, itemID *int) tea.Cmd {
	eng := m.engine
	year := m.app.Year
	return func() tea.Msg {
		ctx, cancel := m.withTimeout()
		defer cancel()

		snapshot, err := eng.Categorize(ctx, year, expenseID, itemID)
		return categorizedMsg{snapshot: snapshot, expenseID: expenseID, itemID: itemID, err: err}
	}
}

func showStatus(level statusLevel, format string, args ...any) tea.Cmd {
	text := fmt.Sprintf(format, args...)
	return func() tea.Msg {
		return statusMsg{level: level, text: text}
	}
}
