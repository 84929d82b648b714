package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budgetview/internal/api"
	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/config"
	"github.com/Veraticus/budgetview/internal/service"
	"github.com/Veraticus/budgetview/internal/sheets"
	"github.com/Veraticus/budgetview/internal/storage"
)

// newBudgetAPI builds the server client. Tests replace it with a fake.
var newBudgetAPI = func(cfg *config.ClientConfig) (service.BudgetAPI, error) {
	client, err := api.NewClient(cfg.ServerURL, cfg.Timeout, api.WithRetryOptions(cfg.RetryOptions()))
	if err != nil {
		return nil, err
	}
	return client, nil
}

// newReportWriter builds the spreadsheet exporter. Tests replace it with a
// sheets.MockWriter.
var newReportWriter = func(ctx context.Context) (service.ReportWriter, error) {
	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, err
	}
	writer, err := sheets.NewWriter(ctx, *cfg, slog.Default())
	if err != nil {
		return nil, err
	}
	return writer, nil
}

// initClient loads the client configuration and connects to the server.
func initClient() (*config.ClientConfig, service.BudgetAPI, error) {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		return nil, nil, err
	}

	client, err := newBudgetAPI(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create server client: %w", err)
	}
	return cfg, client, nil
}

// initStorage opens the settings database and brings its schema up to date.
func initStorage(ctx context.Context, cfg *config.ClientConfig) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// yearFlag returns --year, or the configured budget year when unset.
func yearFlag(cmd *cobra.Command, cfg *config.ClientConfig) (int, error) {
	year, _ := cmd.Flags().GetInt("year")
	if year == 0 {
		return cfg.Year, nil
	}
	if year < 2000 || year > 2099 {
		return 0, common.NewValidationError("year", "%d is out of range", year)
	}
	return year, nil
}

func addYearFlag(cmd *cobra.Command) {
	cmd.Flags().Int("year", 0, "budget year (default: budget.year from config)")
}

func parseID(arg, name string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, common.NewValidationError(name, "must be a positive id, got %q", arg)
	}
	return id, nil
}
