// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"io"

	"github.com/Veraticus/budgetview/internal/expenses"
	"github.com/Veraticus/budgetview/internal/model"
	"github.com/Veraticus/budgetview/internal/spending"
)

// BudgetAPI defines the contract for the budget server.
type BudgetAPI interface {
	// Budget operations
	GetBudget(ctx context.Context, year int) (*model.Budget, error)
	CloneBudget(ctx context.Context, fromYear, toYear int) error
	GetSpending(ctx context.Context, year int) (*model.SpendingData, error)
	AddCategory(ctx context.Context, fields model.BudgetCategoryFields) error
	UpdateCategory(ctx context.Context, category model.BudgetCategory) error
	DeleteCategory(ctx context.Context, id int) error
	AddItem(ctx context.Context, fields model.BudgetItemFields) error
	UpdateItem(ctx context.Context, item model.BudgetItem) error
	DeleteItem(ctx context.Context, id int) error

	// Account operations
	GetAccounts(ctx context.Context) (*model.Accounts, error)
	GetStatementSchemas(ctx context.Context) (*model.StatementSchemas, error)
	AddAccount(ctx context.Context, fields model.AccountFields) error
	UpdateAccount(ctx context.Context, account model.Account) error
	DeleteAccount(ctx context.Context, id int) error

	// Expense operations
	Expenses(ctx context.Context, query expenses.Query) ([]model.Expense, error)
	UpdateExpenseCategory(ctx context.Context, expenseID int, itemID *int) error
	ImportStatement(ctx context.Context, accountID int, filename string, r io.Reader, size int64) error
	DeleteExpensesNewerThan(ctx context.Context, accountID int, date string) error
}

// Settings is a versioned settings document.
type Settings interface {
	SettingsVersion() int
}

// SettingsStore persists versioned settings documents by key.
type SettingsStore interface {
	// LoadSettings decodes the settings stored under key into target. A
	// missing, unreadable or outdated document is replaced by defaults.
	LoadSettings(ctx context.Context, key string, defaults, target Settings) error
	// SaveSettings stores settings under key. It fails when the stored
	// document has a different version.
	SaveSettings(ctx context.Context, key string, settings Settings) error
	ResetSettings(ctx context.Context, key string) error
	ListSettings(ctx context.Context) ([]SettingsRecord, error)
	Close() error
}

// SettingsRecord is a raw stored settings document.
type SettingsRecord struct {
	Key     string
	Data    string
	Version int
}

// ReportWriter exports the monthly spending table.
type ReportWriter interface {
	Write(ctx context.Context, table *spending.Table) error
}
