package engine

import (
	"context"
	"log/slog"

	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/model"
)

// snapshotOf returns the current snapshot when it was built for year.
func (r *Refresher) snapshotOf(year int) *Snapshot {
	if snapshot := r.Current(); snapshot != nil && snapshot.Year == year {
		return snapshot
	}
	return nil
}

// edit runs one write against the server and rebuilds the snapshot of year
// so that views never show data older than the write.
func (r *Refresher) edit(ctx context.Context, year int, action string, write func(context.Context) error) (*Snapshot, error) {
	if err := write(ctx); err != nil {
		return nil, err
	}
	slog.Info("Budget data changed", "action", action, "year", year)
	return r.Refresh(ctx, year)
}

// AddCategory creates a category in the budget of year.
func (r *Refresher) AddCategory(ctx context.Context, year int, fields model.BudgetCategoryFields) (*Snapshot, error) {
	if fields.Year == 0 {
		fields.Year = year
	}
	if fields.Year != year {
		return nil, common.NewValidationError("year", "category belongs to %d, not %d", fields.Year, year)
	}
	return r.edit(ctx, year, "add category", func(ctx context.Context) error {
		return r.api.AddCategory(ctx, fields)
	})
}

// UpdateCategory saves the fields of an existing category.
func (r *Refresher) UpdateCategory(ctx context.Context, year int, category model.BudgetCategory) (*Snapshot, error) {
	if snapshot := r.snapshotOf(year); snapshot != nil && !snapshot.Budget.HasCategory(category.ID) {
		return nil, &common.NotFoundError{Kind: "budget category", ID: category.ID}
	}
	return r.edit(ctx, year, "update category", func(ctx context.Context) error {
		return r.api.UpdateCategory(ctx, category)
	})
}

// DeleteCategory deletes a category. Categories that still have items are
// refused before the server is asked.
func (r *Refresher) DeleteCategory(ctx context.Context, year, id int) (*Snapshot, error) {
	if snapshot := r.snapshotOf(year); snapshot != nil {
		category, err := snapshot.Budget.GetCategory(id)
		if err != nil {
			return nil, err
		}
		if n := len(category.Items); n > 0 {
			return nil, common.NewValidationError("category", "%s still has %d items", category.Name(), n)
		}
	}
	return r.edit(ctx, year, "delete category", func(ctx context.Context) error {
		return r.api.DeleteCategory(ctx, id)
	})
}

// checkItem validates an item against the categories of the snapshot.
func checkItem(snapshot *Snapshot, fields model.BudgetItemFields) error {
	if snapshot == nil {
		return nil
	}
	category, err := snapshot.Budget.GetCategory(fields.CategoryID)
	if err != nil {
		return err
	}
	if fields.Amount == nil && !category.Ignored() && !fields.BudgetOnly {
		return common.NewValidationError("amount", "items of %s need an amount", category.Name())
	}
	return nil
}

// AddItem creates an item in the budget of year.
func (r *Refresher) AddItem(ctx context.Context, year int, fields model.BudgetItemFields) (*Snapshot, error) {
	if err := checkItem(r.snapshotOf(year), fields); err != nil {
		return nil, err
	}
	return r.edit(ctx, year, "add item", func(ctx context.Context) error {
		return r.api.AddItem(ctx, fields)
	})
}

// UpdateItem saves the fields of an existing item. An item with spending
// cannot become budget-only.
func (r *Refresher) UpdateItem(ctx context.Context, year int, item model.BudgetItem) (*Snapshot, error) {
	if snapshot := r.snapshotOf(year); snapshot != nil {
		current, err := snapshot.Budget.GetItem(item.ID)
		if err != nil {
			return nil, err
		}
		if err := checkItem(snapshot, item.Fields()); err != nil {
			return nil, err
		}
		if item.BudgetOnly && !current.Item.BudgetOnly && snapshot.Spending.ItemTotal(item.ID) != 0 {
			return nil, common.NewValidationError("budget_only", "%s already has expenses", current.DisplayName)
		}
	}
	return r.edit(ctx, year, "update item", func(ctx context.Context) error {
		return r.api.UpdateItem(ctx, item)
	})
}

// DeleteItem deletes an item. Items with spending are refused before the
// server is asked.
func (r *Refresher) DeleteItem(ctx context.Context, year, id int) (*Snapshot, error) {
	if snapshot := r.snapshotOf(year); snapshot != nil {
		item, err := snapshot.Budget.GetItem(id)
		if err != nil {
			return nil, err
		}
		if snapshot.Spending.ItemTotal(id) != 0 {
			return nil, common.NewValidationError("item", "%s has expenses attached", item.DisplayName)
		}
	}
	return r.edit(ctx, year, "delete item", func(ctx context.Context) error {
		return r.api.DeleteItem(ctx, id)
	})
}

// AddAccount creates an account.
func (r *Refresher) AddAccount(ctx context.Context, year int, fields model.AccountFields) (*Snapshot, error) {
	return r.edit(ctx, year, "add account", func(ctx context.Context) error {
		return r.api.AddAccount(ctx, fields)
	})
}

// UpdateAccount saves the fields of an existing account.
func (r *Refresher) UpdateAccount(ctx context.Context, year int, account model.Account) (*Snapshot, error) {
	if snapshot := r.snapshotOf(year); snapshot != nil && !snapshot.Accounts.HasAccount(account.ID) {
		return nil, &common.NotFoundError{Kind: "account", ID: account.ID}
	}
	return r.edit(ctx, year, "update account", func(ctx context.Context) error {
		return r.api.UpdateAccount(ctx, account)
	})
}

// DeleteAccount deletes an account.
func (r *Refresher) DeleteAccount(ctx context.Context, year, id int) (*Snapshot, error) {
	if snapshot := r.snapshotOf(year); snapshot != nil && !snapshot.Accounts.HasAccount(id) {
		return nil, &common.NotFoundError{Kind: "account", ID: id}
	}
	return r.edit(ctx, year, "delete account", func(ctx context.Context) error {
		return r.api.DeleteAccount(ctx, id)
	})
}
