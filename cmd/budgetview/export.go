package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budgetview/internal/cli"
	"github.com/Veraticus/budgetview/internal/engine"
	"github.com/Veraticus/budgetview/internal/spending"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reports",
		Long:  `Export the monthly spending table to external services.`,
	}

	cmd.AddCommand(exportSheetsCmd())

	return cmd
}

func exportSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Export spending to Google Sheets",
		Long: `Write the monthly spending table of a year to a Google Sheets spreadsheet.

Authenticate first with 'budgetview auth sheets' or configure a service account
under sheets.service_account_path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, client, err := initClient()
			if err != nil {
				return err
			}
			year, err := yearFlag(cmd, cfg)
			if err != nil {
				return err
			}

			snapshot, err := engine.NewRefresher(client).Refresh(ctx, year)
			if err != nil {
				return err
			}

			writer, err := newReportWriter(ctx)
			if err != nil {
				return fmt.Errorf("failed to set up Google Sheets: %w", err)
			}

			table := spending.NewTable(snapshot.Spending)
			if err := writer.Write(ctx, table); err != nil {
				return fmt.Errorf("failed to export spending: %w", err)
			}

			slog.Info("Spending exported", "year", year, "rows", len(table.Rows))
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported spending %d (%d rows)", year, len(table.Rows))))
			return nil
		},
	}
	addYearFlag(cmd)
	return cmd
}
