package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budgetview/internal/cli"
	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/engine"
	"github.com/Veraticus/budgetview/internal/model"
)

func categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Add, edit and delete budget categories",
	}

	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(editCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func itemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add, edit and delete budget items",
	}

	cmd.AddCommand(addItemCmd())
	cmd.AddCommand(editItemCmd())
	cmd.AddCommand(deleteItemCmd())

	return cmd
}

// editSession refreshes the snapshot of the selected year before a write so
// that the write can be checked against the current budget.
func editSession(cmd *cobra.Command) (*engine.Refresher, *engine.Snapshot, int, error) {
	cfg, client, err := initClient()
	if err != nil {
		return nil, nil, 0, err
	}
	year, err := yearFlag(cmd, cfg)
	if err != nil {
		return nil, nil, 0, err
	}

	refresher := engine.NewRefresher(client)
	snapshot, err := refresher.Refresh(cmd.Context(), year)
	if err != nil {
		return nil, nil, 0, err
	}
	return refresher, snapshot, year, nil
}

func addCategoryCmd() *cobra.Command {
	var (
		name    string
		ignored bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a category",
		Long: `Create a category in the budget of the selected year. Ignored categories are
left out of spending analysis and usually hold transfers.

Examples:
  budgetview budget category add --name Car
  budgetview budget category add --name Transfers --ignored`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			refresher, _, year, err := editSession(cmd)
			if err != nil {
				return err
			}

			fields := model.BudgetCategoryFields{Name: name, Year: year, Ignored: ignored}
			if _, err := refresher.AddCategory(cmd.Context(), year, fields); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added category %s to %d", name, year)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "category name")
	cmd.Flags().BoolVar(&ignored, "ignored", false, "leave the category out of spending analysis")
	_ = cmd.MarkFlagRequired("name")
	addYearFlag(cmd)

	return cmd
}

func editCategoryCmd() *cobra.Command {
	var (
		name    string
		ignored bool
	)

	cmd := &cobra.Command{
		Use:   "edit <category-id>",
		Short: "Change a category",
		Long:  `Change the name of a category or whether it is ignored. Flags left out keep their value.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("ignored") {
				return common.NewValidationError("flags", "nothing to change, use --name or --ignored")
			}

			refresher, snapshot, year, err := editSession(cmd)
			if err != nil {
				return err
			}
			current, err := snapshot.Budget.GetCategory(id)
			if err != nil {
				return err
			}

			category := current.Category
			if cmd.Flags().Changed("name") {
				category.Name = name
			}
			if cmd.Flags().Changed("ignored") {
				category.Ignored = ignored
			}
			if _, err := refresher.UpdateCategory(cmd.Context(), year, category); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated category %s", category.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new category name")
	cmd.Flags().BoolVar(&ignored, "ignored", false, "leave the category out of spending analysis")
	addYearFlag(cmd)

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete an empty category",
		Long:  `Delete a category. Categories that still have items cannot be deleted.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}

			refresher, snapshot, year, err := editSession(cmd)
			if err != nil {
				return err
			}
			category, err := snapshot.Budget.GetCategory(id)
			if err != nil {
				return err
			}
			if _, err := refresher.DeleteCategory(cmd.Context(), year, id); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted category %s", category.Name())))
			return nil
		},
	}
	addYearFlag(cmd)
	return cmd
}

// amountFlags are the flags describing a recurring target.
type amountFlags struct {
	recurrence string
	amount     float64
	years      int
	none       bool
}

func (f *amountFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.recurrence, "recurrence", "", "weekly, monthly, yearly or every-x-years")
	cmd.Flags().Float64Var(&f.amount, "amount", 0, "target amount per recurrence")
	cmd.Flags().IntVar(&f.years, "years", 0, "years between payments (with --recurrence every-x-years)")
	cmd.Flags().BoolVar(&f.none, "no-amount", false, "item without a target")
}

func (f *amountFlags) changed(cmd *cobra.Command) bool {
	for _, name := range []string{"recurrence", "amount", "years", "no-amount"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// resolve applies the flags on top of current, which may be nil.
func (f *amountFlags) resolve(cmd *cobra.Command, current *model.BudgetAmount) (*model.BudgetAmount, error) {
	if f.none {
		if cmd.Flags().Changed("recurrence") || cmd.Flags().Changed("amount") || cmd.Flags().Changed("years") {
			return nil, common.NewValidationError("no-amount", "cannot be combined with --recurrence, --amount or --years")
		}
		return nil, nil
	}

	var amount model.BudgetAmount
	if current != nil {
		amount = *current
	}
	if cmd.Flags().Changed("recurrence") {
		kind, err := model.ParseAmountKind(f.recurrence)
		if err != nil {
			return nil, err
		}
		amount.Kind = kind
	}
	if amount.Kind == "" {
		return nil, common.NewValidationError("recurrence", "required when setting an amount")
	}
	if cmd.Flags().Changed("amount") {
		amount.Amount = f.amount
	}
	if cmd.Flags().Changed("years") {
		amount.X = f.years
	}
	if amount.Kind != model.AmountEveryXYears {
		amount.X = 0
	}

	if err := amount.Validate(); err != nil {
		return nil, err
	}
	return &amount, nil
}

func addItemCmd() *cobra.Command {
	var (
		name       string
		categoryID int
		budgetOnly bool
		amount     amountFlags
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an item",
		Long: `Create an item in a category of the selected year. Items need a target unless
their category is ignored or they are budget-only.

Examples:
  budgetview budget item add --category 2 --name Groceries --recurrence monthly --amount 300
  budgetview budget item add --category 4 --name "New car" --recurrence every-x-years --amount 30000 --years 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var target *model.BudgetAmount
			if amount.changed(cmd) {
				var err error
				if target, err = amount.resolve(cmd, nil); err != nil {
					return err
				}
			}

			refresher, snapshot, year, err := editSession(cmd)
			if err != nil {
				return err
			}

			fields := model.BudgetItemFields{Amount: target, Name: name, CategoryID: categoryID, BudgetOnly: budgetOnly}
			if _, err := refresher.AddItem(cmd.Context(), year, fields); err != nil {
				return err
			}

			category, err := snapshot.Budget.GetCategory(categoryID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added item %s :: %s", category.Name(), name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "item name")
	cmd.Flags().IntVar(&categoryID, "category", 0, "category id")
	cmd.Flags().BoolVar(&budgetOnly, "budget-only", false, "plan money without ever receiving expenses")
	amount.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")
	addYearFlag(cmd)

	return cmd
}

func editItemCmd() *cobra.Command {
	var (
		name       string
		categoryID int
		budgetOnly bool
		amount     amountFlags
	)

	cmd := &cobra.Command{
		Use:   "edit <item-id>",
		Short: "Change an item",
		Long: `Change the name, category, target or budget-only flag of an item. Flags left
out keep their value; --amount alone keeps the current recurrence.

Examples:
  budgetview budget item edit 12 --amount 350
  budgetview budget item edit 12 --recurrence weekly --amount 80
  budgetview budget item edit 30 --no-amount`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "item")
			if err != nil {
				return err
			}

			refresher, snapshot, year, err := editSession(cmd)
			if err != nil {
				return err
			}
			current, err := snapshot.Budget.GetItem(id)
			if err != nil {
				return err
			}

			item := current.Item
			changed := false
			if cmd.Flags().Changed("name") {
				item.Name, changed = name, true
			}
			if cmd.Flags().Changed("category") {
				item.CategoryID, changed = categoryID, true
			}
			if cmd.Flags().Changed("budget-only") {
				item.BudgetOnly, changed = budgetOnly, true
			}
			if amount.changed(cmd) {
				if item.Amount, err = amount.resolve(cmd, current.Item.Amount); err != nil {
					return err
				}
				changed = true
			}
			if !changed {
				return common.NewValidationError("flags", "nothing to change")
			}

			updated, err := refresher.UpdateItem(cmd.Context(), year, item)
			if err != nil {
				return err
			}

			label := item.Name
			if view, err := updated.Budget.GetItem(id); err == nil {
				label = view.DisplayName
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated item %s", label)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new item name")
	cmd.Flags().IntVar(&categoryID, "category", 0, "move the item to this category")
	cmd.Flags().BoolVar(&budgetOnly, "budget-only", false, "plan money without ever receiving expenses")
	amount.register(cmd)
	addYearFlag(cmd)

	return cmd
}

func deleteItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete an item without expenses",
		Long:  `Delete an item. Items that already have expenses attached cannot be deleted.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "item")
			if err != nil {
				return err
			}

			refresher, snapshot, year, err := editSession(cmd)
			if err != nil {
				return err
			}
			item, err := snapshot.Budget.GetItem(id)
			if err != nil {
				return err
			}
			if _, err := refresher.DeleteItem(cmd.Context(), year, id); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted item %s", item.DisplayName)))
			return nil
		},
	}
	addYearFlag(cmd)
	return cmd
}
