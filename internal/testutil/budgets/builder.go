// Package budgets provides a fluent API for building the budget, spending
// and account documents tests feed into views and fake servers.
//
// Example usage:
//
//	raw := budgets.NewBuilder(2025).
//		WithFixture(budgets.FixtureHousehold).
//		WithItem(40, budgets.CategoryFood, "Restaurants", budgets.Monthly(80)).
//		Build()
package budgets

import (
	"github.com/Veraticus/budgetview/internal/model"
)

// Category ids used by the fixtures.
const (
	CategoryHome      = 1
	CategoryFood      = 2
	CategoryTransfers = 3
)

// Item ids used by the fixtures.
const (
	ItemRent      = 10
	ItemGroceries = 20
	ItemSavings   = 30
)

// Account ids used by the fixtures.
const (
	AccountChecking = 1
	AccountAmex     = 2
)

// Builder assembles a model.Budget. Categories and items keep the order
// they were added in.
type Builder struct {
	categories []model.BudgetCategory
	items      []model.BudgetItem
	year       int
}

// NewBuilder creates a builder for a budget of year.
func NewBuilder(year int) *Builder {
	return &Builder{year: year}
}

// WithCategory adds an active category.
func (b *Builder) WithCategory(id int, name string) *Builder {
	b.categories = append(b.categories, model.BudgetCategory{ID: id, Name: name, Year: b.year})
	return b
}

// WithIgnoredCategory adds a category excluded from spending analysis.
func (b *Builder) WithIgnoredCategory(id int, name string) *Builder {
	b.categories = append(b.categories, model.BudgetCategory{ID: id, Name: name, Year: b.year, Ignored: true})
	return b
}

// WithItem adds an item to categoryID. A nil amount leaves the item
// without a target.
func (b *Builder) WithItem(id, categoryID int, name string, amount *model.BudgetAmount) *Builder {
	b.items = append(b.items, model.BudgetItem{ID: id, CategoryID: categoryID, Name: name, Amount: amount})
	return b
}

// WithFixture adds the categories and items of a fixture.
func (b *Builder) WithFixture(f Fixture) *Builder {
	f.apply(b)
	return b
}

// Build returns a copy of the assembled budget.
func (b *Builder) Build() *model.Budget {
	return &model.Budget{
		Year:       b.year,
		Categories: append([]model.BudgetCategory(nil), b.categories...),
		Items:      append([]model.BudgetItem(nil), b.items...),
	}
}

// Monthly returns a pointer to a monthly amount.
func Monthly(amount float64) *model.BudgetAmount {
	a := model.Monthly(amount)
	return &a
}

// Yearly returns a pointer to a yearly amount.
func Yearly(amount float64) *model.BudgetAmount {
	a := model.Yearly(amount)
	return &a
}

// IntPtr returns a pointer to i.
func IntPtr(i int) *int { return &i }

// Spend is one spending data point. A zero itemID marks uncategorized spend.
func Spend(itemID int, month string, amount float64) model.SpendingDataPoint {
	point := model.SpendingDataPoint{Month: month, Amount: amount}
	if itemID != 0 {
		point.BudgetItemID = IntPtr(itemID)
	}
	return point
}

// Spending wraps points in a spending response.
func Spending(points ...model.SpendingDataPoint) *model.SpendingData {
	return &model.SpendingData{Data: points}
}
