package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/budgetview/internal/engine"
	"github.com/Veraticus/budgetview/internal/tui"
	"github.com/Veraticus/budgetview/internal/tui/themes"
)

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive interface",
		Long: `Browse monthly spending, the budget and expense lists interactively, and
categorize expenses in place. The open tab and year are remembered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, client, err := initClient()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return tui.Run(ctx,
				tui.WithEngine(engine.NewRefresher(client)),
				tui.WithSettings(store),
				tui.WithYear(cfg.Year),
				tui.WithTimeout(cfg.Timeout),
				tui.WithTheme(themes.GetTheme(viper.GetString("tui.theme"))),
			)
		},
	}

	cmd.Flags().String("theme", "default", "color theme (default, catppuccin)")
	_ = viper.BindPFlag("tui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}
