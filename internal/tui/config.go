package tui

import (
	"context"
	"time"

	"github.com/Veraticus/budgetview/internal/engine"
	"github.com/Veraticus/budgetview/internal/expenses"
	"github.com/Veraticus/budgetview/internal/service"
	"github.com/Veraticus/budgetview/internal/tui/themes"
)

// Engine is the part of engine.Refresher the TUI drives.
type Engine interface {
	Refresh(ctx context.Context, year int) (*engine.Snapshot, error)
	Expenses(ctx context.Context, snapshot *engine.Snapshot, query expenses.Query, sortBy expenses.SortBy) ([]expenses.View, error)
	Categorize(ctx context.Context, year, expenseID int, itemID *int) (*engine.Snapshot, error)
}

var _ Engine = (*engine.Refresher)(nil)

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Engine   Engine
	Settings service.SettingsStore
	Timeout  time.Duration
	Year     int
	Width    int
	Height   int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:   themes.Default,
		Timeout: 30 * time.Second,
		Year:    time.Now().Year(),
		Width:   120,
		Height:  32,
	}
}

// WithEngine sets the engine that loads budgets and expenses.
func WithEngine(e Engine) Option {
	return func(c *Config) {
		c.Engine = e
	}
}

// WithSettings sets the store the UI state is persisted to.
func WithSettings(store service.SettingsStore) Option {
	return func(c *Config) {
		c.Settings = store
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithYear sets the budget year shown when no year has been saved.
func WithYear(year int) Option {
	return func(c *Config) {
		c.Year = year
	}
}

// WithTimeout bounds every server and storage call.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}
