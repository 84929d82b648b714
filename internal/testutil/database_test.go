package testutil_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/budgetview/internal/model"
	"github.com/Veraticus/budgetview/internal/service"
	"github.com/Veraticus/budgetview/internal/testutil"
)

func TestSetupTestStore(t *testing.T) {
	store := testutil.SetupTestStore(t)

	records, err := store.ListSettings(context.Background())
	if err != nil {
		t.Fatalf("failed to list settings: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected an empty store, got %d records", len(records))
	}
}

func TestSetupTestStoreWithOptions(t *testing.T) {
	app := model.DefaultAppSettings(2025)
	app.Tab = model.TabExpenses
	path := filepath.Join(t.TempDir(), "nested", "settings.db")

	store := testutil.SetupTestStoreWithOptions(t, testutil.TestStoreOptions{
		Path:     path,
		Settings: map[string]service.Settings{model.AppSettingsKey: app},
	})

	if store.Path() != path {
		t.Errorf("expected path %q, got %q", path, store.Path())
	}

	loaded := &model.AppSettings{}
	if err := store.LoadSettings(context.Background(), model.AppSettingsKey, model.DefaultAppSettings(2025), loaded); err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}
	if loaded.Tab != model.TabExpenses {
		t.Errorf("expected tab %q, got %q", model.TabExpenses, loaded.Tab)
	}
}
