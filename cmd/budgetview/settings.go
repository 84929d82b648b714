package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budgetview/internal/cli"
	"github.com/Veraticus/budgetview/internal/config"
	"github.com/Veraticus/budgetview/internal/model"
)

var settingsKeys = []string{model.AppSettingsKey, model.ExpensesPageSettingsKey}

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect or reset local settings",
		Long:  `Show or reset the preferences the terminal UI stores in the local settings database.`,
	}

	cmd.AddCommand(showSettingsCmd())
	cmd.AddCommand(resetSettingsCmd())

	return cmd
}

func showSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show stored settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.LoadClientConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := store.ListSettings(ctx)
			if err != nil {
				return fmt.Errorf("failed to list settings: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No settings stored yet."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Key"),
				cli.TableHeaderStyle.Render("Version"),
				cli.TableHeaderStyle.Render("Data"))
			for _, record := range records {
				fmt.Fprintf(w, "%s\t%d\t%s\n", record.Key, record.Version, record.Data)
			}
			return w.Flush()
		},
	}
}

func resetSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "reset [key...]",
		Short:     "Reset settings to their defaults",
		Long:      `Delete stored settings so the next start uses defaults. Without keys every setting is reset.`,
		ValidArgs: settingsKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			keys := args
			if len(keys) == 0 {
				keys = settingsKeys
			}
			for _, key := range keys {
				if !slices.Contains(settingsKeys, key) {
					return fmt.Errorf("unknown settings key %q, expected one of %v", key, settingsKeys)
				}
			}

			cfg, err := config.LoadClientConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			for _, key := range keys {
				if err := store.ResetSettings(ctx, key); err != nil {
					return fmt.Errorf("failed to reset %s settings: %w", key, err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Reset %d settings", len(keys))))
			return nil
		},
	}
}
