package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budgetview/internal/cli"
	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/engine"
	"github.com/Veraticus/budgetview/internal/expenses"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "List, categorize and import expenses",
		Long:  `Work with the bank expenses stored on the server: list them, assign them to budget items, import statements.`,
	}

	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(categorizeExpenseCmd())
	cmd.AddCommand(importExpensesCmd())
	cmd.AddCommand(deleteExpensesCmd())

	return cmd
}

type listOptions struct {
	month         string
	period        string
	sort          string
	account       int
	item          int
	category      int
	uncategorized bool
	all           bool
}

// query builds the expense query the flags describe.
func (o listOptions) query(year int) (expenses.Query, error) {
	var q expenses.Query
	switch {
	case o.account > 0:
		q = expenses.ByAccount(o.account, year)
	case o.period != "":
		var selectors []expenses.Selector
		if o.category > 0 {
			selectors = append(selectors, expenses.CategorySelector(o.category))
		}
		if o.item > 0 {
			selectors = append(selectors, expenses.ItemSelector(o.item))
		}
		if o.uncategorized {
			selectors = append(selectors, expenses.Uncategorized())
		}
		if o.all {
			selectors = append(selectors, expenses.AllNotIgnored())
		}
		if len(selectors) != 1 {
			return q, common.NewValidationError("period", "needs exactly one of --category, --item, --uncategorized or --all")
		}
		q = expenses.ByPeriod(o.period, selectors[0])
	case o.item > 0 && o.month != "":
		q = expenses.ByItemMonth(o.item, o.month)
	default:
		return q, common.NewValidationError("query", "use --account, --item with --month, or --period with a selector")
	}
	return q, q.Validate()
}

func listExpensesCmd() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Long: `List the expenses of an account, of a budget item in one month, or of a period.

Examples:
  budgetview expenses list --account 3
  budgetview expenses list --item 12 --month 2025-03
  budgetview expenses list --period 2025 --uncategorized --sort amount:desc`,
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

			q, err := opts.query(year)
			if err != nil {
				return err
			}
			sortBy := expenses.DefaultSortBy
			if opts.sort != "" {
				if sortBy, err = expenses.ParseSortBy(opts.sort); err != nil {
					return err
				}
			}

			refresher := engine.NewRefresher(client)
			snapshot, err := refresher.Refresh(ctx, year)
			if err != nil {
				return err
			}
			list, err := refresher.Expenses(ctx, snapshot, q, sortBy)
			if err != nil {
				return fmt.Errorf("failed to list expenses: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(q.Label(snapshot.Budget, snapshot.Accounts)))
			return cli.RenderExpenses(out, list, snapshot.Budget, q.Settings().ShowAccount)
		},
	}

	cmd.Flags().IntVar(&opts.account, "account", 0, "list an account's expenses of the year")
	cmd.Flags().IntVar(&opts.item, "item", 0, "budget item id (with --month or --period)")
	cmd.Flags().StringVar(&opts.month, "month", "", "month as YYYY-MM (with --item)")
	cmd.Flags().StringVar(&opts.period, "period", "", "year YYYY or month YYYY-MM")
	cmd.Flags().IntVar(&opts.category, "category", 0, "budget category id (with --period)")
	cmd.Flags().BoolVar(&opts.uncategorized, "uncategorized", false, "expenses without an item (with --period)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "all expenses outside ignored categories (with --period)")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "sort as field[:order], fields: datetime, description, amount, account")
	addYearFlag(cmd)

	return cmd
}

func categorizeExpenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize <expense-id> <item-id|none>",
		Short: "Assign an expense to a budget item",
		Long:  `Assign an expense to a budget item of the year, or clear its item with "none".`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			expenseID, err := parseID(args[0], "expense")
			if err != nil {
				return err
			}
			var itemID *int
			if !strings.EqualFold(args[1], "none") {
				id, err := parseID(args[1], "item")
				if err != nil {
					return err
				}
				itemID = &id
			}

			cfg, client, err := initClient()
			if err != nil {
				return err
			}
			year, err := yearFlag(cmd, cfg)
			if err != nil {
				return err
			}

			refresher := engine.NewRefresher(client)
			if _, err := refresher.Refresh(ctx, year); err != nil {
				return err
			}
			snapshot, err := refresher.Categorize(ctx, year, expenseID, itemID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if itemID == nil {
				fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Cleared the item of expense %d", expenseID)))
				return nil
			}
			item, err := snapshot.Budget.GetItem(*itemID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Categorized expense %d as %s", expenseID, item.DisplayName)))
			return nil
		},
	}
	addYearFlag(cmd)
	return cmd
}

func importExpensesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <account-id> <statement-file>",
		Short: "Import a bank statement",
		Long: `Upload a bank statement file for an account. The server parses it with the
statement format attached to the account.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID(args[0], "account")
			if err != nil {
				return err
			}

			path := args[1]
			file, err := os.Open(path) //nolint:gosec // user-provided statement path
			if err != nil {
				return fmt.Errorf("failed to open statement: %w", err)
			}
			defer func() {
				if closeErr := file.Close(); closeErr != nil {
					slog.Warn("Failed to close statement file", "error", closeErr)
				}
			}()

			info, err := file.Stat()
			if err != nil {
				return fmt.Errorf("failed to stat statement: %w", err)
			}

			_, client, err := initClient()
			if err != nil {
				return err
			}

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx := handler.HandleInterrupts(cmd.Context(), "Import",
				"The server may have stored part of the statement. Check the account before importing again.")

			reader := cli.NewUploadProgress(file, info.Size(), cmd.ErrOrStderr(), "Uploading "+filepath.Base(path))
			err = client.ImportStatement(ctx, accountID, filepath.Base(path), reader, info.Size())
			_ = reader.Close()
			if err != nil {
				if handler.WasInterrupted() {
					return common.NewUserError("import interrupted", err)
				}
				return err
			}

			slog.Info("Statement imported", "account", accountID, "file", path, "bytes", info.Size())
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %s", filepath.Base(path))))
			return nil
		},
	}
}

func deleteExpensesCmd() *cobra.Command {
	var (
		newerThan string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Delete recent expenses of an account",
		Long: `Delete every expense of an account dated after --newer-than, usually to
import an overlapping statement again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			accountID, err := parseID(args[0], "account")
			if err != nil {
				return err
			}
			if _, err := time.Parse(time.DateOnly, newerThan); err != nil {
				return common.NewValidationError("newer-than", "expected YYYY-MM-DD, got %q", newerThan)
			}

			out := cmd.OutOrStdout()
			if !force {
				question := fmt.Sprintf("Delete all expenses of account %d after %s?", accountID, newerThan)
				confirmed, err := cli.Confirm(ctx, cli.NewNonBlockingReader(cmd.InOrStdin()), out, question)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out, cli.FormatInfo("Nothing deleted"))
					return nil
				}
			}

			_, client, err := initClient()
			if err != nil {
				return err
			}
			if err := client.DeleteExpensesNewerThan(ctx, accountID, newerThan); err != nil {
				return fmt.Errorf("failed to delete expenses: %w", err)
			}

			slog.Info("Expenses deleted", "account", accountID, "newer_than", newerThan)
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted expenses of account %d after %s", accountID, newerThan)))
			return nil
		},
	}

	cmd.Flags().StringVar(&newerThan, "newer-than", "", "delete expenses after this date (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("newer-than")

	return cmd
}
