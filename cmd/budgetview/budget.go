package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budgetview/internal/budget"
	"github.com/Veraticus/budgetview/internal/cli"
	"github.com/Veraticus/budgetview/internal/engine"
	"github.com/Veraticus/budgetview/internal/spending"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show, edit and copy yearly budgets",
		Long:  `Show the categories and items of a budget year, edit them, or copy a budget to a new year.`,
	}

	cmd.AddCommand(showBudgetCmd())
	cmd.AddCommand(cloneBudgetCmd())
	cmd.AddCommand(categoryCmd())
	cmd.AddCommand(itemCmd())

	return cmd
}

func showBudgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the budget of a year",
		Long:  `Display every active category and item with its target per year and per month.`,
		Args:  cobra.NoArgs,
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

			raw, err := client.GetBudget(ctx, year)
			if err != nil {
				return fmt.Errorf("failed to get budget: %w", err)
			}
			view, err := budget.NewView(*raw)
			if err != nil {
				return fmt.Errorf("failed to build budget view: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Budget %d", year)))
			return cli.RenderBudget(out, view)
		},
	}
	addYearFlag(cmd)
	return cmd
}

func cloneBudgetCmd() *cobra.Command {
	var fromYear, toYear int

	cmd := &cobra.Command{
		Use:   "clone",
		Short: "Copy a budget to another year",
		Long:  `Create the budget of --to as a copy of the categories and items of --from.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if fromYear == toYear {
				return fmt.Errorf("--from and --to must differ, both are %d", fromYear)
			}

			_, client, err := initClient()
			if err != nil {
				return err
			}

			if err := client.CloneBudget(ctx, fromYear, toYear); err != nil {
				return fmt.Errorf("failed to clone budget: %w", err)
			}

			slog.Info("Budget cloned", "from", fromYear, "to", toYear)
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Copied budget %d to %d", fromYear, toYear)))
			return nil
		},
	}

	cmd.Flags().IntVar(&fromYear, "from", 0, "year to copy")
	cmd.Flags().IntVar(&toYear, "to", 0, "year to create")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func spendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spending",
		Short: "Show monthly spending against the budget",
		Long: `Display spending per category and item for each month of a year.

Months that exceed the monthly target of their line are highlighted.`,
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
			table := spending.NewTable(snapshot.Spending)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Spending %d", year)))
			if err := cli.RenderSpending(out, table); err != nil {
				return err
			}

			if over := table.OverCount(); over > 0 {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d months over target", over)))
			} else {
				fmt.Fprintln(out, cli.FormatSuccess("Every month within target"))
			}
			return nil
		},
	}
	addYearFlag(cmd)
	return cmd
}
