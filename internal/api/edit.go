package api

import (
	"context"
	"fmt"

	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/model"
)

func checkID(kind string, id int) error {
	if id < 1 {
		return common.NewValidationError("id", "%s id must be positive, got %d", kind, id)
	}
	return nil
}

// AddCategory creates a budget category.
func (c *Client) AddCategory(ctx context.Context, fields model.BudgetCategoryFields) error {
	if err := fields.Validate(); err != nil {
		return err
	}
	if err := c.createJSON(ctx, "/api/budget_categories", fields); err != nil {
		return fmt.Errorf("failed to add category %q: %w", fields.Name, err)
	}
	return nil
}

// UpdateCategory replaces the fields of an existing category.
func (c *Client) UpdateCategory(ctx context.Context, category model.BudgetCategory) error {
	if err := checkID("category", category.ID); err != nil {
		return err
	}
	if err := category.Fields().Validate(); err != nil {
		return err
	}
	path := fmt.Sprintf("/api/budget_categories/%d", category.ID)
	if err := c.postJSON(ctx, path, category, nil); err != nil {
		return fmt.Errorf("failed to update category %d: %w", category.ID, err)
	}
	return nil
}

// DeleteCategory deletes a category. The server refuses categories that
// still have items.
func (c *Client) DeleteCategory(ctx context.Context, id int) error {
	if err := checkID("category", id); err != nil {
		return err
	}
	if err := c.delete(ctx, fmt.Sprintf("/api/budget_categories/%d", id)); err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	return nil
}

// AddItem creates a budget item. The amount is sent in its tagged form,
// e.g. {"Monthly":{"amount":300}}.
func (c *Client) AddItem(ctx context.Context, fields model.BudgetItemFields) error {
	if err := fields.Validate(); err != nil {
		return err
	}
	if err := c.createJSON(ctx, "/api/budget_items", fields); err != nil {
		return fmt.Errorf("failed to add item %q: %w", fields.Name, err)
	}
	return nil
}

// UpdateItem replaces the fields of an existing item. The server refuses to
// make an item budget-only once expenses are attached to it.
func (c *Client) UpdateItem(ctx context.Context, item model.BudgetItem) error {
	if err := checkID("item", item.ID); err != nil {
		return err
	}
	if err := item.Fields().Validate(); err != nil {
		return err
	}
	path := fmt.Sprintf("/api/budget_items/%d", item.ID)
	if err := c.postJSON(ctx, path, item, nil); err != nil {
		return fmt.Errorf("failed to update item %d: %w", item.ID, err)
	}
	return nil
}

// DeleteItem deletes an item. The server refuses items with expenses.
func (c *Client) DeleteItem(ctx context.Context, id int) error {
	if err := checkID("item", id); err != nil {
		return err
	}
	if err := c.delete(ctx, fmt.Sprintf("/api/budget_items/%d", id)); err != nil {
		return fmt.Errorf("failed to delete item %d: %w", id, err)
	}
	return nil
}

// AddAccount creates an account.
func (c *Client) AddAccount(ctx context.Context, fields model.AccountFields) error {
	if err := fields.Validate(); err != nil {
		return err
	}
	if err := c.createJSON(ctx, "/api/accounts", fields); err != nil {
		return fmt.Errorf("failed to add account %q: %w", fields.Name, err)
	}
	return nil
}

// UpdateAccount replaces the fields of an existing account.
func (c *Client) UpdateAccount(ctx context.Context, account model.Account) error {
	if err := checkID("account", account.ID); err != nil {
		return err
	}
	if err := account.Fields().Validate(); err != nil {
		return err
	}
	path := fmt.Sprintf("/api/accounts/%d", account.ID)
	if err := c.postJSON(ctx, path, account, nil); err != nil {
		return fmt.Errorf("failed to update account %d: %w", account.ID, err)
	}
	return nil
}

// DeleteAccount deletes an account. The server refuses accounts with
// expenses.
func (c *Client) DeleteAccount(ctx context.Context, id int) error {
	if err := checkID("account", id); err != nil {
		return err
	}
	if err := c.delete(ctx, fmt.Sprintf("/api/accounts/%d", id)); err != nil {
		return fmt.Errorf("failed to delete account %d: %w", id, err)
	}
	return nil
}
