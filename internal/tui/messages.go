package tui

import (
	"github.com/Veraticus/budgetview/internal/engine"
	"github.com/Veraticus/budgetview/internal/expenses"
	"github.com/Veraticus/budgetview/internal/model"
)

// Data loading messages.
type settingsLoadedMsg struct {
	app  *model.AppSettings
	page *model.ExpensesPageSettings
	err  error
}

type snapshotLoadedMsg struct {
	snapshot *engine.Snapshot
	err      error
}

type expensesLoadedMsg struct {
	err   error
	list  []expenses.View
	query expenses.Query
}

// Async operation messages.
type categorizedMsg struct {
	snapshot  *engine.Snapshot
	err       error
	itemID    *int
	expenseID int
}

type settingsSavedMsg struct {
	err error
}

type statusMsg struct {
	text  string
	level statusLevel
}

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusSuccess
	statusError
)
