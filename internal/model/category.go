// Package model defines the wire types exchanged with the budget server.
package model

import (
	"strings"

	"github.com/Veraticus/budgetview/internal/common"
)

// BudgetCategory groups budget items. Ignored categories are excluded from
// spend-vs-budget analysis and are typically used to tag transfers.
type BudgetCategory struct {
	Name    string `json:"name"`
	ID      int    `json:"id"`
	Year    int    `json:"year"`
	Ignored bool   `json:"ignored"`
}

// BudgetItem is a single budgeted line within a category. Amount is nil for
// items that carry no target, which is only expected in ignored categories.
type BudgetItem struct {
	Amount     *BudgetAmount `json:"amount"`
	Name       string        `json:"name"`
	ID         int           `json:"id"`
	CategoryID int           `json:"category_id"`
	BudgetOnly bool          `json:"budget_only"`
}

// BudgetCategoryFields are the fields sent when creating a category.
type BudgetCategoryFields struct {
	Name    string `json:"name"`
	Year    int    `json:"year"`
	Ignored bool   `json:"ignored"`
}

// Validate checks the fields before they are sent to the server.
func (f BudgetCategoryFields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return common.NewValidationError("name", "category name is required")
	}
	if f.Year < 1 {
		return common.NewValidationError("year", "must be positive, got %d", f.Year)
	}
	return nil
}

// Fields returns the editable fields of the category.
func (c BudgetCategory) Fields() BudgetCategoryFields {
	return BudgetCategoryFields{Name: c.Name, Year: c.Year, Ignored: c.Ignored}
}

// BudgetItemFields are the fields sent when creating an item.
type BudgetItemFields struct {
	Amount     *BudgetAmount `json:"amount"`
	Name       string        `json:"name"`
	CategoryID int           `json:"category_id"`
	BudgetOnly bool          `json:"budget_only"`
}

// Validate checks the fields before they are sent to the server.
func (f BudgetItemFields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return common.NewValidationError("name", "item name is required")
	}
	if f.CategoryID < 1 {
		return common.NewValidationError("category_id", "must be positive, got %d", f.CategoryID)
	}
	if f.Amount != nil {
		return f.Amount.Validate()
	}
	return nil
}

// Fields returns the editable fields of the item.
func (i BudgetItem) Fields() BudgetItemFields {
	return BudgetItemFields{Amount: i.Amount, Name: i.Name, CategoryID: i.CategoryID, BudgetOnly: i.BudgetOnly}
}

// Budget is the raw budget for one year as returned by the server.
type Budget struct {
	Categories []BudgetCategory `json:"categories"`
	Items      []BudgetItem     `json:"items"`
	Year       int              `json:"year"`
}

// SpendingDataPoint is the summed spend of one item in one month. A nil
// BudgetItemID marks uncategorized spend.
type SpendingDataPoint struct {
	BudgetItemID *int    `json:"budget_item_id"`
	Month        string  `json:"month"`
	Amount       float64 `json:"amount"`
}

// SpendingData is the spending response for one year.
type SpendingData struct {
	Data []SpendingDataPoint `json:"data"`
}
