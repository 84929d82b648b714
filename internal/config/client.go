package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/budgetview/internal/common"
)

// Defaults for the budget server connection and local state.
const (
	DefaultServerURL    = "http://localhost:8000"
	DefaultTimeout      = 30 * time.Second
	DefaultRetries      = 3
	DefaultDatabasePath = "$HOME/.local/share/budgetview/settings.db"
)

// ClientConfig is everything needed to talk to the budget server.
type ClientConfig struct {
	ServerURL    string
	DatabasePath string
	Timeout      time.Duration
	Retries      int
	Year         int
}

// SetDefaults registers the default values of every client key.
func SetDefaults(now time.Time) {
	viper.SetDefault("server.url", DefaultServerURL)
	viper.SetDefault("server.timeout", DefaultTimeout)
	viper.SetDefault("server.retries", DefaultRetries)
	viper.SetDefault("database.path", DefaultDatabasePath)
	viper.SetDefault("budget.year", now.Year())
}

// LoadClientConfig reads the client configuration from Viper.
func LoadClientConfig() (*ClientConfig, error) {
	cfg := &ClientConfig{
		ServerURL:    viper.GetString("server.url"),
		Timeout:      viper.GetDuration("server.timeout"),
		Retries:      viper.GetInt("server.retries"),
		DatabasePath: ExpandPath(viper.GetString("database.path")),
		Year:         viper.GetInt("budget.year"),
	}

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("%w: server.url", common.ErrMissingConfig)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("%w: server.timeout must be positive, got %s", common.ErrInvalidConfig, cfg.Timeout)
	}
	if cfg.Retries < 1 {
		return nil, fmt.Errorf("%w: server.retries must be at least 1, got %d", common.ErrInvalidConfig, cfg.Retries)
	}
	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if cfg.Year < 2000 || cfg.Year > 2099 {
		return nil, fmt.Errorf("%w: budget.year %d is out of range", common.ErrInvalidConfig, cfg.Year)
	}

	return cfg, nil
}

// RetryOptions derives the retry policy of server calls.
func (c *ClientConfig) RetryOptions() common.RetryOptions {
	return common.RetryOptions{
		MaxAttempts:  c.Retries,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2,
	}
}
