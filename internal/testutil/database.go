// Package testutil provides shared test helpers for budgetview packages.
// It sets up isolated settings databases and builds the budget, spending
// and account documents the server would return.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/budgetview/internal/service"
	"github.com/Veraticus/budgetview/internal/storage"
)

// TestStoreOptions configures SetupTestStoreWithOptions.
type TestStoreOptions struct {
	// Settings are saved under their key after migrations.
	Settings map[string]service.Settings
	// Path places the database at a fixed location instead of a temp dir.
	Path           string
	SkipMigrations bool
}

// SetupTestStore creates a migrated settings database in a temporary
// directory. It is closed when the test finishes.
//
// Example:
//
//	store := testutil.SetupTestStore(t)
//	err := store.SaveSettings(ctx, model.AppSettingsKey, model.DefaultAppSettings(2025))
func SetupTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	return SetupTestStoreWithOptions(t, TestStoreOptions{})
}

// SetupTestStoreWithOptions creates a settings database with custom options.
func SetupTestStoreWithOptions(t *testing.T, opts TestStoreOptions) *storage.SQLiteStorage {
	t.Helper()

	path := opts.Path
	if path == "" {
		path = filepath.Join(t.TempDir(), "settings.db")
	}

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	for key, settings := range opts.Settings {
		if err := store.SaveSettings(ctx, key, settings); err != nil {
			t.Fatalf("failed to seed settings %q: %v", key, err)
		}
	}

	return store
}
