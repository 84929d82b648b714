package model

// Settings keys.
const (
	AppSettingsKey          = "app"
	ExpensesPageSettingsKey = "expenses_page"
)

// Tabs of the terminal UI.
const (
	TabSpending = "spending"
	TabBudget   = "budget"
	TabExpenses = "expenses"
)

// AppSettings are the persisted application preferences.
type AppSettings struct {
	Tab           string `json:"tab"`
	Version       int    `json:"version"`
	Year          int    `json:"year"`
	StickyHeaders bool   `json:"sticky_headers"`
}

// AppSettingsVersion is bumped whenever AppSettings changes shape.
const AppSettingsVersion = 3

// DefaultAppSettings returns the settings used on first start.
func DefaultAppSettings(year int) *AppSettings {
	return &AppSettings{
		Version:       AppSettingsVersion,
		Tab:           TabSpending,
		Year:          year,
		StickyHeaders: true,
	}
}

// SettingsVersion implements service.Settings.
func (s *AppSettings) SettingsVersion() int { return s.Version }

// ExpensesPageSettings remember the account last shown on the expenses tab.
type ExpensesPageSettings struct {
	AccountID *int `json:"account_id"`
	Version   int  `json:"version"`
}

// ExpensesPageSettingsVersion is bumped whenever ExpensesPageSettings changes shape.
const ExpensesPageSettingsVersion = 1

// DefaultExpensesPageSettings returns the settings used on first start.
func DefaultExpensesPageSettings() *ExpensesPageSettings {
	return &ExpensesPageSettings{Version: ExpensesPageSettingsVersion}
}

// SettingsVersion implements service.Settings.
func (s *ExpensesPageSettings) SettingsVersion() int { return s.Version }
