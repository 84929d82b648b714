package storage

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budgetview/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func storeRaw(t *testing.T, store *SQLiteStorage, key string, version int, data string) {
	t.Helper()
	_, err := store.db.Exec(`INSERT INTO settings (key, version, data) VALUES (?, ?, ?)`, key, version, data)
	require.NoError(t, err)
}

func TestMigrate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))

	var indexCount int
	err = store.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='index' AND name='idx_settings_updated_at'
	`).Scan(&indexCount)
	require.NoError(t, err)
	assert.Equal(t, 1, indexCount)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestLoadSettings(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		seed     func(t *testing.T, store *SQLiteStorage)
		want     *model.AppSettings
		name     string
		wantData bool
	}{
		{
			name: "missing row uses defaults",
			seed: func(*testing.T, *SQLiteStorage) {},
			want: model.DefaultAppSettings(2025),
		},
		{
			name: "stored settings are returned",
			seed: func(t *testing.T, store *SQLiteStorage) {
				storeRaw(t, store, model.AppSettingsKey, model.AppSettingsVersion,
					`{"version":3,"tab":"expenses","year":2023,"sticky_headers":false}`)
			},
			want: &model.AppSettings{Version: 3, Tab: model.TabExpenses, Year: 2023},
		},
		{
			name: "unreadable data resets",
			seed: func(t *testing.T, store *SQLiteStorage) {
				storeRaw(t, store, model.AppSettingsKey, model.AppSettingsVersion, `{"version":`)
			},
			want: model.DefaultAppSettings(2025),
		},
		{
			name: "outdated version resets",
			seed: func(t *testing.T, store *SQLiteStorage) {
				storeRaw(t, store, model.AppSettingsKey, 2, `{"version":2,"tab":"budget","year":2020}`)
			},
			want: model.DefaultAppSettings(2025),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStorage(t)
			tt.seed(t, store)

			var got model.AppSettings
			require.NoError(t, store.LoadSettings(ctx, model.AppSettingsKey, model.DefaultAppSettings(2025), &got))
			assert.Equal(t, tt.want, &got)

			records, err := store.ListSettings(ctx)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, model.AppSettingsVersion, records[0].Version)

			var stored model.AppSettings
			require.NoError(t, json.Unmarshal([]byte(records[0].Data), &stored))
			assert.Equal(t, tt.want, &stored)
		})
	}
}

func TestLoadSettings_NullAccount(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	storeRaw(t, store, model.ExpensesPageSettingsKey, 0, `{"version":0,"account_id":4}`)

	var got model.ExpensesPageSettings
	require.NoError(t, store.LoadSettings(ctx, model.ExpensesPageSettingsKey, model.DefaultExpensesPageSettings(), &got))
	assert.Nil(t, got.AccountID)
	assert.Equal(t, model.ExpensesPageSettingsVersion, got.Version)
}

func TestSaveSettings(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	accountID := 7
	require.NoError(t, store.SaveSettings(ctx, model.ExpensesPageSettingsKey, &model.ExpensesPageSettings{
		Version:   model.ExpensesPageSettingsVersion,
		AccountID: &accountID,
	}))

	var got model.ExpensesPageSettings
	require.NoError(t, store.LoadSettings(ctx, model.ExpensesPageSettingsKey, model.DefaultExpensesPageSettings(), &got))
	require.NotNil(t, got.AccountID)
	assert.Equal(t, 7, *got.AccountID)

	err := store.SaveSettings(ctx, model.ExpensesPageSettingsKey, &model.ExpensesPageSettings{Version: 2})
	assert.ErrorIs(t, err, ErrVersionMismatch)

	err = store.SaveSettings(ctx, model.AppSettingsKey, &model.AppSettings{})
	assert.ErrorIs(t, err, ErrNilParameter)
}

func TestResetSettings(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	settings := model.DefaultAppSettings(2024)
	settings.Tab = model.TabBudget
	require.NoError(t, store.SaveSettings(ctx, model.AppSettingsKey, settings))
	require.NoError(t, store.ResetSettings(ctx, model.AppSettingsKey))

	records, err := store.ListSettings(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	var got model.AppSettings
	require.NoError(t, store.LoadSettings(ctx, model.AppSettingsKey, model.DefaultAppSettings(2026), &got))
	assert.Equal(t, model.TabSpending, got.Tab)
	assert.Equal(t, 2026, got.Year)
}
