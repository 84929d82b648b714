package expenses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budgetview/internal/accounts"
	"github.com/Veraticus/budgetview/internal/model"
)

func strPtr(s string) *string { return &s }

func ids(views []View) []int {
	out := make([]int, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}

func sorted(t *testing.T, views []View, field SortField, order SortOrder) []View {
	t.Helper()
	out, err := Sort(views, SortBy{Field: field, Order: order})
	require.NoError(t, err)
	return out
}

func TestSort_Amount(t *testing.T) {
	newExpense := func(id int, amount float64) View {
		return View{Expense: model.Expense{
			ID: id, AccountID: 1, TransactionDate: "2025-12-16", Description: "Some expense", Amount: amount,
		}}
	}
	views := []View{newExpense(1, 16.99), newExpense(2, 7.99), newExpense(3, 12.99)}

	asc := sorted(t, views, SortAmount, Asc)
	assert.Equal(t, []int{2, 3, 1}, ids(asc))

	desc := sorted(t, asc, SortAmount, Desc)
	assert.Equal(t, []int{1, 3, 2}, ids(desc))

	assert.Equal(t, []int{1, 2, 3}, ids(views), "input must not be reordered")
}

func TestSort_Description(t *testing.T) {
	newExpense := func(id int, description string) View {
		return View{Expense: model.Expense{
			ID: id, AccountID: 1, TransactionDate: "2025-12-16", Description: description, Amount: 6.99,
		}}
	}
	views := []View{newExpense(1, "C"), newExpense(2, "c"), newExpense(3, "B"), newExpense(4, "A")}

	asc := sorted(t, views, SortDescription, Asc)
	assert.Equal(t, []int{4, 3, 1, 2}, ids(asc))

	desc := sorted(t, asc, SortDescription, Desc)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(desc))
}

func TestSort_DateTime(t *testing.T) {
	newExpense := func(id int, date string, at *string) View {
		return View{Expense: model.Expense{
			ID: id, AccountID: 1, TransactionDate: date, TransactionTime: at, Description: "Some expense", Amount: 6.99,
		}}
	}
	views := []View{
		newExpense(1, "2025-12-16", strPtr("23:45:55")),
		newExpense(2, "2025-12-16", strPtr("05:10:15")),
		newExpense(3, "2025-12-16", nil),
		newExpense(4, "2025-12-15", nil),
	}

	asc := sorted(t, views, SortDateTime, Asc)
	assert.Equal(t, []int{4, 3, 2, 1}, ids(asc))

	desc := sorted(t, asc, SortDateTime, Desc)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(desc))
}

func TestSort_Account(t *testing.T) {
	accts, err := accounts.NewView(model.Accounts{Accounts: []model.Account{
		{ID: 1, Name: "visa"},
		{ID: 2, Name: "Amex"},
	}}, model.StatementSchemas{})
	require.NoError(t, err)

	views := NewViews([]model.Expense{
		{ID: 1, AccountID: 1},
		{ID: 2, AccountID: 2},
		{ID: 3, AccountID: 1},
		{ID: 4, AccountID: 99},
	}, accts)
	assert.Nil(t, views[3].Account)

	asc := sorted(t, views, SortAccount, Asc)
	assert.Equal(t, []int{4, 2, 1, 3}, ids(asc))
}

func TestComparator_UnknownField(t *testing.T) {
	_, err := Comparator(SortBy{Field: SortField(42)})
	assert.Error(t, err)

	_, err = Sort(nil, SortBy{Field: SortField(42)})
	assert.Error(t, err)
}

func TestParseSortBy(t *testing.T) {
	tests := []struct {
		input   string
		want    SortBy
		wantErr bool
	}{
		{input: "amount:desc", want: SortBy{Field: SortAmount, Order: Desc}},
		{input: "Description", want: SortBy{Field: SortDescription, Order: Asc}},
		{input: "datetime:asc", want: SortBy{Field: SortDateTime, Order: Asc}},
		{input: "account:desc", want: SortBy{Field: SortAccount, Order: Desc}},
		{input: "category", wantErr: true},
		{input: "amount:sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortBy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) SortBy {
	t.Helper()
	sortBy, err := ParseSortBy(s)
	require.NoError(t, err)
	return sortBy
}

func TestSortField_Next(t *testing.T) {
	assert.Equal(t, SortDescription, SortDateTime.Next())
	assert.Equal(t, SortDateTime, SortAccount.Next())
	assert.Equal(t, Asc, Desc.Toggle())
	assert.Equal(t, Desc, Asc.Toggle())
}
