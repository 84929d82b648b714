// Package spending aggregates monthly spending facts against a budget view.
package spending

import (
	"errors"
	"fmt"

	"github.com/Veraticus/budgetview/internal/budget"
	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/model"
)

type monthKey = string

// MonthlyData answers spend lookups by item, category, month and year. It is
// immutable once built; absent keys read as zero.
type MonthlyData struct {
	budget        *budget.View
	items         map[monthKey]map[int]float64
	categories    map[monthKey]map[int]float64
	uncategorized map[monthKey]float64
	itemTotals    map[int]float64
	catTotals     map[int]float64
	monthTotals   map[monthKey]float64
	uncatTotal    float64
	total         float64
}

// NewMonthlyData aggregates points against b in a single pass. Points in
// ignored categories are dropped. A point naming an item unknown to b fails
// with a DataIntegrityError, since the two fetches disagree. Repeated
// (item, month) points are summed.
func NewMonthlyData(points []model.SpendingDataPoint, b *budget.View) (*MonthlyData, error) {
	d := &MonthlyData{
		budget:        b,
		items:         make(map[monthKey]map[int]float64),
		categories:    make(map[monthKey]map[int]float64),
		uncategorized: make(map[monthKey]float64),
		itemTotals:    make(map[int]float64),
		catTotals:     make(map[int]float64),
		monthTotals:   make(map[monthKey]float64),
	}

	for _, point := range points {
		if err := d.add(point); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func (d *MonthlyData) add(point model.SpendingDataPoint) error {
	if point.BudgetItemID == nil {
		d.uncategorized[point.Month] += point.Amount
		d.uncatTotal += point.Amount
		d.monthTotals[point.Month] += point.Amount
		d.total += point.Amount
		return nil
	}

	itemID := *point.BudgetItemID
	item, err := d.budget.GetItem(itemID)
	if errors.Is(err, common.ErrNotFound) {
		return &common.DataIntegrityError{Month: point.Month, ItemID: itemID}
	}
	if err != nil {
		return fmt.Errorf("failed to resolve spending item: %w", err)
	}

	if item.Category.Ignored() {
		return nil
	}

	addTo(d.items, point.Month, itemID, point.Amount)
	addTo(d.categories, point.Month, item.CategoryID(), point.Amount)
	d.itemTotals[itemID] += point.Amount
	d.catTotals[item.CategoryID()] += point.Amount
	d.monthTotals[point.Month] += point.Amount
	d.total += point.Amount

	return nil
}

func addTo(m map[monthKey]map[int]float64, month monthKey, id int, amount float64) {
	byID, ok := m[month]
	if !ok {
		byID = make(map[int]float64)
		m[month] = byID
	}
	byID[id] += amount
}

// Budget returns the view the data was aggregated against.
func (d *MonthlyData) Budget() *budget.View { return d.budget }

// ItemSpend returns the spend of an item in a month.
func (d *MonthlyData) ItemSpend(itemID int, month string) float64 {
	return d.items[month][itemID]
}

// CategorySpend returns the spend of a category in a month.
func (d *MonthlyData) CategorySpend(categoryID int, month string) float64 {
	return d.categories[month][categoryID]
}

// UncategorizedSpend returns the uncategorized spend in a month.
func (d *MonthlyData) UncategorizedSpend(month string) float64 {
	return d.uncategorized[month]
}

// ItemTotal returns the yearly spend of an item.
func (d *MonthlyData) ItemTotal(itemID int) float64 {
	return d.itemTotals[itemID]
}

// CategoryTotal returns the yearly spend of a category.
func (d *MonthlyData) CategoryTotal(categoryID int) float64 {
	return d.catTotals[categoryID]
}

// UncategorizedTotal returns the yearly uncategorized spend.
func (d *MonthlyData) UncategorizedTotal() float64 {
	return d.uncatTotal
}

// MonthTotal returns the spend of all active categories plus uncategorized
// spend in a month.
func (d *MonthlyData) MonthTotal(month string) float64 {
	return d.monthTotals[month]
}

// TotalSpend returns the yearly spend of all active categories plus
// uncategorized spend.
func (d *MonthlyData) TotalSpend() float64 {
	return d.total
}
