package spending

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budgetview/internal/budget"
	"github.com/Veraticus/budgetview/internal/expenses"
	"github.com/Veraticus/budgetview/internal/model"
)

func TestMonths(t *testing.T) {
	months := Months(2025)
	require.Len(t, months, 12)
	assert.Equal(t, "2025-01", months[0])
	assert.Equal(t, "2025-12", months[11])
}

func TestNewTable(t *testing.T) {
	monthly := model.Monthly(10)
	v, err := budget.NewView(model.Budget{
		Year: 2025,
		Categories: []model.BudgetCategory{
			{ID: 1, Name: "Food"},
			{ID: 2, Name: "Transfers", Ignored: true},
		},
		Items: []model.BudgetItem{
			{ID: 1, CategoryID: 1, Name: "Groceries", Amount: &monthly},
			{ID: 2, CategoryID: 2, Name: "Savings"},
			{ID: 3, CategoryID: 1, Name: "Coffee", BudgetOnly: true},
		},
	})
	require.NoError(t, err)

	data, err := NewMonthlyData([]model.SpendingDataPoint{
		point(intPtr(1), "2025-01", 8),
		point(intPtr(1), "2025-02", 12),
		point(intPtr(3), "2025-02", 3),
		point(intPtr(2), "2025-02", 500),
		point(nil, "2025-03", 4),
	}, v)
	require.NoError(t, err)

	table := NewTable(data)
	assert.Equal(t, 2025, table.Year)
	require.Len(t, table.MonthQueries, 12)
	assert.Equal(t, expenses.ByPeriod("2025-01", expenses.AllNotIgnored()), table.MonthQueries[0])

	kinds := make([]RowKind, 0, len(table.Rows))
	labels := make([]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		kinds = append(kinds, row.Kind)
		labels = append(labels, row.Label)
		assert.Len(t, row.Cells, 12)
	}
	assert.Equal(t, []RowKind{RowCategory, RowItem, RowItem, RowUncategorized, RowTotal}, kinds)
	assert.Equal(t, []string{"Food", "Coffee", "Groceries", "uncategorized", "TOTAL"}, labels)

	t.Run("category row", func(t *testing.T) {
		food := table.Rows[0]
		assert.Equal(t, 8.0, food.Cells[0].Amount)
		assert.Equal(t, 15.0, food.Cells[1].Amount)
		assert.Equal(t, 23.0, food.Total.Amount)
		assert.False(t, food.Cells[0].Over)
		assert.True(t, food.Cells[1].Over)
		assert.True(t, food.Cells[5].Soft)
		require.NotNil(t, food.Query)
		assert.Equal(t, expenses.ByPeriod("2025", expenses.CategorySelector(1)), *food.Query)
		assert.Equal(t, expenses.ByPeriod("2025-02", expenses.CategorySelector(1)), *food.Cells[1].Query)
	})

	t.Run("item without target flags any spend", func(t *testing.T) {
		coffee := table.Rows[1]
		assert.True(t, coffee.Cells[1].Over)
		assert.False(t, coffee.Cells[0].Over)
		assert.True(t, coffee.Cells[0].Soft)
	})

	t.Run("item within target", func(t *testing.T) {
		groceries := table.Rows[2]
		assert.False(t, groceries.Cells[0].Over)
		assert.True(t, groceries.Cells[1].Over)
		assert.Equal(t, expenses.ByPeriod("2025-01", expenses.ItemSelector(1)), *groceries.Cells[0].Query)
	})

	t.Run("uncategorized row", func(t *testing.T) {
		row := table.Rows[3]
		assert.Equal(t, 4.0, row.Cells[2].Amount)
		assert.Equal(t, 4.0, row.Total.Amount)
		assert.False(t, row.Cells[2].Over)
		assert.Equal(t, expenses.ByPeriod("2025-03", expenses.Uncategorized()), *row.Cells[2].Query)
	})

	t.Run("total row", func(t *testing.T) {
		row := table.Rows[4]
		assert.Equal(t, 8.0, row.Cells[0].Amount)
		assert.Equal(t, 15.0, row.Cells[1].Amount)
		assert.Equal(t, 4.0, row.Cells[2].Amount)
		assert.Equal(t, 27.0, row.Total.Amount)
		assert.Nil(t, row.Total.Query)
		assert.Equal(t, expenses.ByPeriod("2025-02", expenses.AllNotIgnored()), *row.Cells[1].Query)
	})

	assert.Equal(t, 3, table.OverCount())
}
