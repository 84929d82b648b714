package budget

import (
	"fmt"

	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/model"
)

// ItemView is a budget item placed in its category.
type ItemView struct {
	Category      *CategoryView
	DisplayName   string
	Item          model.BudgetItem
	AmountPerYear float64
}

// ID returns the item id.
func (i *ItemView) ID() int { return i.Item.ID }

// CategoryID returns the id of the owning category.
func (i *ItemView) CategoryID() int { return i.Item.CategoryID }

// Name returns the item name.
func (i *ItemView) Name() string { return i.Item.Name }

// HasTarget reports whether the item carries a budget amount.
func (i *ItemView) HasTarget() bool { return i.Item.Amount != nil }

// AmountPerMonth is the yearly amount spread evenly over twelve months.
func (i *ItemView) AmountPerMonth() float64 { return i.AmountPerYear / MonthsPerYear }

// CategoryView is a budget category with its items in display order.
type CategoryView struct {
	Items         []*ItemView
	Category      model.BudgetCategory
	AmountPerYear float64
}

// ID returns the category id.
func (c *CategoryView) ID() int { return c.Category.ID }

// Name returns the category name.
func (c *CategoryView) Name() string { return c.Category.Name }

// Ignored reports whether the category is excluded from spend analysis.
func (c *CategoryView) Ignored() bool { return c.Category.Ignored }

// AmountPerMonth is the yearly amount spread evenly over twelve months.
func (c *CategoryView) AmountPerMonth() float64 { return c.AmountPerYear / MonthsPerYear }

// View is an immutable projection of one year's budget. All derived amounts
// are computed once in NewView.
type View struct {
	itemsByID         map[int]*ItemView
	categoriesByID    map[int]*CategoryView
	categories        []*CategoryView
	ignoredCategories []*CategoryView
	items             []*ItemView
	ignoredItems      []*ItemView
	year              int
	amountPerYear     float64
}

// NewView builds a view from a raw budget. It fails without returning a
// partial view when an item references an unknown category, an id repeats,
// or an amount is malformed.
func NewView(b model.Budget) (*View, error) {
	v := &View{
		year:           b.Year,
		categoriesByID: make(map[int]*CategoryView, len(b.Categories)),
		itemsByID:      make(map[int]*ItemView, len(b.Items)),
	}

	all := make([]*CategoryView, 0, len(b.Categories))
	for _, category := range b.Categories {
		if _, ok := v.categoriesByID[category.ID]; ok {
			return nil, common.NewValidationError("categories", "duplicate category id %d", category.ID)
		}
		cv := &CategoryView{Category: category}
		v.categoriesByID[category.ID] = cv
		all = append(all, cv)
	}

	for _, item := range b.Items {
		if _, ok := v.itemsByID[item.ID]; ok {
			return nil, common.NewValidationError("items", "duplicate item id %d", item.ID)
		}

		category, ok := v.categoriesByID[item.CategoryID]
		if !ok {
			return nil, common.NewValidationError("items", "item %d references unknown category %d", item.ID, item.CategoryID)
		}

		if item.Amount == nil && !category.Ignored() && !item.BudgetOnly {
			return nil, common.NewValidationError("items", "item %d in active category %d has no amount", item.ID, item.CategoryID)
		}

		var yearly float64
		if item.Amount != nil {
			var err error
			yearly, err = YearlyAmount(*item.Amount)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", item.ID, err)
			}
		}

		iv := &ItemView{
			Item:          item,
			Category:      category,
			DisplayName:   category.Name() + " :: " + item.Name,
			AmountPerYear: yearly,
		}
		v.itemsByID[item.ID] = iv
		category.Items = append(category.Items, iv)
		category.AmountPerYear += yearly
	}

	SortByName(all, (*CategoryView).Name)
	for _, category := range all {
		SortByName(category.Items, (*ItemView).Name)

		if category.Ignored() {
			v.ignoredCategories = append(v.ignoredCategories, category)
			v.ignoredItems = append(v.ignoredItems, category.Items...)
			continue
		}
		v.categories = append(v.categories, category)
		v.items = append(v.items, category.Items...)
		v.amountPerYear += category.AmountPerYear
	}

	return v, nil
}

// Year returns the budget year.
func (v *View) Year() int { return v.year }

// Categories returns the active categories in display order.
func (v *View) Categories() []*CategoryView { return v.categories }

// IgnoredCategories returns the ignored categories in display order.
func (v *View) IgnoredCategories() []*CategoryView { return v.ignoredCategories }

// Items returns the items of active categories in display order.
func (v *View) Items() []*ItemView { return v.items }

// IgnoredItems returns the items of ignored categories in display order.
func (v *View) IgnoredItems() []*ItemView { return v.ignoredItems }

// AmountPerYear is the sum of the active categories' yearly amounts.
func (v *View) AmountPerYear() float64 { return v.amountPerYear }

// AmountPerMonth is the yearly total spread evenly over twelve months.
func (v *View) AmountPerMonth() float64 { return v.amountPerYear / MonthsPerYear }

// GetItem returns the item with the given id.
func (v *View) GetItem(id int) (*ItemView, error) {
	item, ok := v.itemsByID[id]
	if !ok {
		return nil, &common.NotFoundError{Kind: "budget item", ID: id}
	}
	return item, nil
}

// GetCategory returns the category with the given id.
func (v *View) GetCategory(id int) (*CategoryView, error) {
	category, ok := v.categoriesByID[id]
	if !ok {
		return nil, &common.NotFoundError{Kind: "budget category", ID: id}
	}
	return category, nil
}

// HasItem reports whether an item with the given id exists.
func (v *View) HasItem(id int) bool {
	_, ok := v.itemsByID[id]
	return ok
}

// HasCategory reports whether a category with the given id exists.
func (v *View) HasCategory(id int) bool {
	_, ok := v.categoriesByID[id]
	return ok
}

// IsCategoryIgnored reports whether the category exists and is ignored.
func (v *View) IsCategoryIgnored(id int) bool {
	category, ok := v.categoriesByID[id]
	return ok && category.Ignored()
}
