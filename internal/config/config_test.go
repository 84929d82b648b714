package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budgetview/internal/common"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("BUDGETVIEW_TEST_DIR", "/srv/budget")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "home", in: "~", want: home},
		{name: "home relative", in: "~/data/settings.db", want: filepath.Join(home, "data/settings.db")},
		{name: "env var", in: "$BUDGETVIEW_TEST_DIR/settings.db", want: "/srv/budget/settings.db"},
		{name: "plain", in: "/tmp/settings.db", want: "/tmp/settings.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestDir(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{name: "xdg config home", xdg: "/srv/xdg", want: "/srv/xdg/budgetview"},
		{name: "home fallback", xdg: "", want: filepath.Join(home, ".config", "budgetview")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", tt.xdg)

			dir, err := Dir()
			require.NoError(t, err)
			assert.Equal(t, tt.want, dir)

			file, err := File("config.yaml")
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(tt.want, "config.yaml"), file)
		})
	}
}

func TestLoadClientConfig(t *testing.T) {
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		set     map[string]any
		wantErr error
		check   func(t *testing.T, cfg *ClientConfig)
		name    string
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg *ClientConfig) {
				assert.Equal(t, DefaultServerURL, cfg.ServerURL)
				assert.Equal(t, DefaultTimeout, cfg.Timeout)
				assert.Equal(t, 2025, cfg.Year)
				assert.Equal(t, 3, cfg.RetryOptions().MaxAttempts)
				assert.NotContains(t, cfg.DatabasePath, "$HOME")
			},
		},
		{
			name: "overrides",
			set:  map[string]any{"server.url": "https://budget.example", "server.timeout": "5s", "budget.year": 2023},
			check: func(t *testing.T, cfg *ClientConfig) {
				assert.Equal(t, "https://budget.example", cfg.ServerURL)
				assert.Equal(t, 5*time.Second, cfg.Timeout)
				assert.Equal(t, 2023, cfg.Year)
			},
		},
		{
			name:    "empty url",
			set:     map[string]any{"server.url": ""},
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "zero retries",
			set:     map[string]any{"server.retries": 0},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "year out of range",
			set:     map[string]any{"budget.year": 1999},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			SetDefaults(now)
			for k, v := range tt.set {
				viper.Set(k, v)
			}

			cfg, err := LoadClientConfig()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadSheetsConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "")
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "env-client")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "env-secret")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "env-token")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "")

	viper.Set("sheets.client_id", "viper-client")
	viper.Set("sheets.spreadsheet_name", "Household")

	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "viper-client", cfg.ClientID)
	assert.Equal(t, "env-secret", cfg.ClientSecret)
	assert.Equal(t, "Household", cfg.SpreadsheetName)

	viper.Reset()
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "")
	_, err = LoadSheetsConfig()
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}
