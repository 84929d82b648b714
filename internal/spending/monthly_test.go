package spending

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budgetview/internal/budget"
	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/model"
)

func intPtr(i int) *int { return &i }

func point(itemID *int, month string, amount float64) model.SpendingDataPoint {
	return model.SpendingDataPoint{BudgetItemID: itemID, Month: month, Amount: amount}
}

func testView(t *testing.T) *budget.View {
	t.Helper()
	v, err := budget.NewView(model.Budget{
		Year: 2025,
		Categories: []model.BudgetCategory{
			{ID: 1, Name: "Category 1", Year: 2025},
			{ID: 2, Name: "Category 2", Year: 2025, Ignored: true},
		},
		Items: []model.BudgetItem{
			{ID: 1, CategoryID: 1, Name: "Item 1", BudgetOnly: true},
			{ID: 2, CategoryID: 2, Name: "Item 2"},
			{ID: 3, CategoryID: 1, Name: "Item 3", BudgetOnly: true},
		},
	})
	require.NoError(t, err)
	return v
}

func testPoints() []model.SpendingDataPoint {
	return []model.SpendingDataPoint{
		point(intPtr(1), "2025-11", 10),
		point(nil, "2025-11", 3),
		point(intPtr(1), "2025-12", 5),
		point(intPtr(2), "2025-12", 1),
		point(intPtr(3), "2025-12", 7),
	}
}

func TestNewMonthlyData(t *testing.T) {
	data, err := NewMonthlyData(testPoints(), testView(t))
	require.NoError(t, err)

	t.Run("item spend", func(t *testing.T) {
		assert.Equal(t, 10.0, data.ItemSpend(1, "2025-11"))
		assert.Equal(t, 5.0, data.ItemSpend(1, "2025-12"))
		assert.Equal(t, 0.0, data.ItemSpend(3, "2025-11"))
		assert.Equal(t, 7.0, data.ItemSpend(3, "2025-12"))
	})

	t.Run("uncategorized spend", func(t *testing.T) {
		assert.Equal(t, 3.0, data.UncategorizedSpend("2025-11"))
		assert.Equal(t, 0.0, data.UncategorizedSpend("2025-12"))
		assert.Equal(t, 3.0, data.UncategorizedTotal())
	})

	t.Run("ignored category is excluded", func(t *testing.T) {
		assert.Equal(t, 0.0, data.ItemSpend(2, "2025-12"))
		assert.Equal(t, 0.0, data.CategorySpend(2, "2025-12"))
		assert.Equal(t, 0.0, data.ItemTotal(2))
		assert.Equal(t, 0.0, data.CategoryTotal(2))
	})

	t.Run("category spend", func(t *testing.T) {
		assert.Equal(t, 10.0, data.CategorySpend(1, "2025-11"))
		assert.Equal(t, 12.0, data.CategorySpend(1, "2025-12"))
		assert.Equal(t, 22.0, data.CategoryTotal(1))
	})

	t.Run("totals", func(t *testing.T) {
		assert.Equal(t, 13.0, data.MonthTotal("2025-11"))
		assert.Equal(t, 12.0, data.MonthTotal("2025-12"))
		assert.Equal(t, 15.0, data.ItemTotal(1))
		assert.Equal(t, 25.0, data.TotalSpend())
	})

	t.Run("absent keys read as zero", func(t *testing.T) {
		assert.Equal(t, 0.0, data.ItemSpend(999, "2099-01"))
		assert.Equal(t, 0.0, data.CategorySpend(999, "2099-01"))
		assert.Equal(t, 0.0, data.UncategorizedSpend("2099-01"))
		assert.Equal(t, 0.0, data.MonthTotal("2099-01"))
		assert.Equal(t, 0.0, data.ItemTotal(999))
		assert.Equal(t, 0.0, data.CategoryTotal(999))
	})
}

func TestNewMonthlyData_MonthTotalsAreConsistent(t *testing.T) {
	v := testView(t)
	points := append(testPoints(),
		point(intPtr(3), "2025-01", 2.5),
		point(nil, "2025-01", 0.25),
		point(intPtr(1), "2025-06", 40),
		point(intPtr(2), "2025-06", 1000),
	)
	data, err := NewMonthlyData(points, v)
	require.NoError(t, err)

	yearTotal := 0.0
	for _, month := range Months(2025) {
		sum := data.UncategorizedSpend(month)
		for _, category := range v.Categories() {
			sum += data.CategorySpend(category.ID(), month)
		}
		assert.InDelta(t, sum, data.MonthTotal(month), 1e-9, "month %s", month)
		yearTotal += data.MonthTotal(month)
	}
	assert.InDelta(t, yearTotal, data.TotalSpend(), 1e-9)

	categoryTotals := data.UncategorizedTotal()
	for _, category := range v.Categories() {
		categoryTotals += data.CategoryTotal(category.ID())
	}
	assert.InDelta(t, categoryTotals, data.TotalSpend(), 1e-9)
}

func TestNewMonthlyData_DuplicatePointsAccumulate(t *testing.T) {
	data, err := NewMonthlyData([]model.SpendingDataPoint{
		point(intPtr(1), "2025-03", 4),
		point(intPtr(1), "2025-03", 6),
		point(nil, "2025-03", 1),
		point(nil, "2025-03", 2),
	}, testView(t))
	require.NoError(t, err)

	assert.Equal(t, 10.0, data.ItemSpend(1, "2025-03"))
	assert.Equal(t, 3.0, data.UncategorizedSpend("2025-03"))
	assert.Equal(t, 13.0, data.MonthTotal("2025-03"))
}

func TestNewMonthlyData_OrderIndependent(t *testing.T) {
	points := append(testPoints(),
		point(intPtr(1), "2025-11", 0.1),
		point(intPtr(3), "2025-11", 0.2),
		point(nil, "2025-12", 16.99),
		point(intPtr(3), "2025-12", 7.99),
	)
	want, err := NewMonthlyData(points, testView(t))
	require.NoError(t, err)

	reversed := make([]model.SpendingDataPoint, len(points))
	for i, p := range points {
		reversed[len(points)-1-i] = p
	}
	shuffled := append([]model.SpendingDataPoint(nil), points...)
	rand.New(rand.NewSource(7)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	tests := []struct {
		name   string
		points []model.SpendingDataPoint
	}{
		{name: "reversed", points: reversed},
		{name: "shuffled", points: shuffled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMonthlyData(tt.points, testView(t))
			require.NoError(t, err)

			assert.InDelta(t, want.TotalSpend(), got.TotalSpend(), 1e-9)
			assert.InDelta(t, want.UncategorizedTotal(), got.UncategorizedTotal(), 1e-9)
			for _, month := range Months(2025) {
				assert.InDelta(t, want.MonthTotal(month), got.MonthTotal(month), 1e-9, month)
				assert.InDelta(t, want.CategorySpend(1, month), got.CategorySpend(1, month), 1e-9, month)
			}
		})
	}
}

func TestNewMonthlyData_UnknownItem(t *testing.T) {
	data, err := NewMonthlyData([]model.SpendingDataPoint{
		point(intPtr(1), "2025-03", 4),
		point(intPtr(42), "2025-04", 6),
	}, testView(t))
	require.Error(t, err)
	assert.Nil(t, data)

	assert.True(t, errors.Is(err, common.ErrDataIntegrity))

	var integrityErr *common.DataIntegrityError
	require.True(t, errors.As(err, &integrityErr))
	assert.Equal(t, 42, integrityErr.ItemID)
	assert.Equal(t, "2025-04", integrityErr.Month)
	assert.Equal(t, "budget and spending data are out of sync, refresh and try again", common.UserMessage(err))
}
