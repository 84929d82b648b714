package engine

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/expenses"
	"github.com/Veraticus/budgetview/internal/model"
)

type mockBudgetAPI struct {
	mock.Mock
}

func (m *mockBudgetAPI) GetBudget(ctx context.Context, year int) (*model.Budget, error) {
	args := m.Called(ctx, year)
	if b, ok := args.Get(0).(*model.Budget); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBudgetAPI) CloneBudget(ctx context.Context, fromYear, toYear int) error {
	args := m.Called(ctx, fromYear, toYear)
	return args.Error(0)
}

func (m *mockBudgetAPI) GetSpending(ctx context.Context, year int) (*model.SpendingData, error) {
	args := m.Called(ctx, year)
	if data, ok := args.Get(0).(*model.SpendingData); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBudgetAPI) GetAccounts(ctx context.Context) (*model.Accounts, error) {
	args := m.Called(ctx)
	if accts, ok := args.Get(0).(*model.Accounts); ok {
		return accts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBudgetAPI) GetStatementSchemas(ctx context.Context) (*model.StatementSchemas, error) {
	args := m.Called(ctx)
	if schemas, ok := args.Get(0).(*model.StatementSchemas); ok {
		return schemas, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBudgetAPI) Expenses(ctx context.Context, query expenses.Query) ([]model.Expense, error) {
	args := m.Called(ctx, query)
	if list, ok := args.Get(0).([]model.Expense); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBudgetAPI) UpdateExpenseCategory(ctx context.Context, expenseID int, itemID *int) error {
	args := m.Called(ctx, expenseID, itemID)
	return args.Error(0)
}

func (m *mockBudgetAPI) ImportStatement(ctx context.Context, accountID int, filename string, r io.Reader, size int64) error {
	args := m.Called(ctx, accountID, filename, r, size)
	return args.Error(0)
}

func (m *mockBudgetAPI) DeleteExpensesNewerThan(ctx context.Context, accountID int, date string) error {
	args := m.Called(ctx, accountID, date)
	return args.Error(0)
}

func (m *mockBudgetAPI) AddCategory(ctx context.Context, fields model.BudgetCategoryFields) error {
	args := m.Called(ctx, fields)
	return args.Error(0)
}

func (m *mockBudgetAPI) UpdateCategory(ctx context.Context, category model.BudgetCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockBudgetAPI) DeleteCategory(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBudgetAPI) AddItem(ctx context.Context, fields model.BudgetItemFields) error {
	args := m.Called(ctx, fields)
	return args.Error(0)
}

func (m *mockBudgetAPI) UpdateItem(ctx context.Context, item model.BudgetItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockBudgetAPI) DeleteItem(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBudgetAPI) AddAccount(ctx context.Context, fields model.AccountFields) error {
	args := m.Called(ctx, fields)
	return args.Error(0)
}

func (m *mockBudgetAPI) UpdateAccount(ctx context.Context, account model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockBudgetAPI) DeleteAccount(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func intPtr(i int) *int { return &i }

func budgetFor(year int) *model.Budget {
	monthly := model.Monthly(100)
	return &model.Budget{
		Year:       year,
		Categories: []model.BudgetCategory{{ID: 1, Name: "Food", Year: year}},
		Items:      []model.BudgetItem{{ID: 1, CategoryID: 1, Name: "Groceries", Amount: &monthly}},
	}
}

func expectAccounts(api *mockBudgetAPI) {
	api.On("GetAccounts", mock.Anything).Return(&model.Accounts{Accounts: []model.Account{{ID: 1, Name: "Checking"}}}, nil)
	api.On("GetStatementSchemas", mock.Anything).Return(&model.StatementSchemas{}, nil)
}

func TestRefresher_Refresh(t *testing.T) {
	api := new(mockBudgetAPI)
	api.On("GetBudget", mock.Anything, 2025).Return(budgetFor(2025), nil)
	api.On("GetSpending", mock.Anything, 2025).Return(&model.SpendingData{Data: []model.SpendingDataPoint{
		{BudgetItemID: intPtr(1), Month: "2025-01", Amount: 40},
		{Month: "2025-01", Amount: 2},
	}}, nil)
	expectAccounts(api)

	r := NewRefresher(api)
	assert.Nil(t, r.Current())

	snapshot, err := r.Refresh(context.Background(), 2025)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), snapshot.Seq)
	assert.Equal(t, 2025, snapshot.Year)
	assert.Equal(t, 42.0, snapshot.Spending.MonthTotal("2025-01"))
	assert.True(t, snapshot.Accounts.HasAccount(1))
	assert.Same(t, snapshot, r.Current())
	api.AssertExpectations(t)
}

func TestRefresher_FailureKeepsSnapshot(t *testing.T) {
	api := new(mockBudgetAPI)
	api.On("GetBudget", mock.Anything, 2025).Return(budgetFor(2025), nil)
	api.On("GetSpending", mock.Anything, 2025).Return(&model.SpendingData{}, nil).Once()
	api.On("GetSpending", mock.Anything, 2025).Return(&model.SpendingData{Data: []model.SpendingDataPoint{
		{BudgetItemID: intPtr(77), Month: "2025-02", Amount: 5},
	}}, nil).Once()
	expectAccounts(api)

	r := NewRefresher(api)
	first, err := r.Refresh(context.Background(), 2025)
	require.NoError(t, err)

	_, err = r.Refresh(context.Background(), 2025)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrDataIntegrity))
	assert.Same(t, first, r.Current())
}

func TestRefresher_FetchError(t *testing.T) {
	api := new(mockBudgetAPI)
	api.On("GetBudget", mock.Anything, 2025).Return(nil, &common.APIError{StatusCode: 500, Message: "boom"})
	api.On("GetSpending", mock.Anything, 2025).Return(&model.SpendingData{}, nil).Maybe()
	api.On("GetAccounts", mock.Anything).Return(&model.Accounts{}, nil).Maybe()
	api.On("GetStatementSchemas", mock.Anything).Return(&model.StatementSchemas{}, nil).Maybe()

	r := NewRefresher(api)
	_, err := r.Refresh(context.Background(), 2025)

	var apiErr *common.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Nil(t, r.Current())
}

func TestRefresher_StaleResultIsDiscarded(t *testing.T) {
	api := new(mockBudgetAPI)
	started := make(chan struct{})
	release := make(chan struct{})

	api.On("GetBudget", mock.Anything, 2024).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(budgetFor(2024), nil)
	api.On("GetBudget", mock.Anything, 2025).Return(budgetFor(2025), nil)
	api.On("GetSpending", mock.Anything, mock.Anything).Return(&model.SpendingData{}, nil)
	expectAccounts(api)

	r := NewRefresher(api)

	type result struct {
		snapshot *Snapshot
		err      error
	}
	older := make(chan result, 1)
	go func() {
		snapshot, err := r.Refresh(context.Background(), 2024)
		older <- result{snapshot, err}
	}()
	<-started

	newer, err := r.Refresh(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), newer.Seq)

	close(release)
	res := <-older
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, common.ErrStaleSnapshot))
	assert.Nil(t, res.snapshot)

	current := r.Current()
	require.NotNil(t, current)
	assert.Equal(t, 2025, current.Year)
	assert.Equal(t, uint64(2), current.Seq)
}

func TestRefresher_Expenses(t *testing.T) {
	api := new(mockBudgetAPI)
	api.On("GetBudget", mock.Anything, 2025).Return(budgetFor(2025), nil)
	api.On("GetSpending", mock.Anything, 2025).Return(&model.SpendingData{}, nil)
	expectAccounts(api)

	query := expenses.ByAccount(1, 2025)
	api.On("Expenses", mock.Anything, query).Return([]model.Expense{
		{ID: 1, AccountID: 1, TransactionDate: "2025-01-02", Amount: 9},
		{ID: 2, AccountID: 1, TransactionDate: "2025-01-05", Amount: 3},
	}, nil)

	r := NewRefresher(api)
	snapshot, err := r.Refresh(context.Background(), 2025)
	require.NoError(t, err)

	list, err := r.Expenses(context.Background(), snapshot, query, expenses.DefaultSortBy)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].ID)
	assert.Equal(t, "Checking", list[0].AccountName())
}

func TestRefresher_Categorize(t *testing.T) {
	api := new(mockBudgetAPI)
	api.On("GetBudget", mock.Anything, 2025).Return(budgetFor(2025), nil)
	api.On("GetSpending", mock.Anything, 2025).Return(&model.SpendingData{}, nil)
	expectAccounts(api)
	api.On("UpdateExpenseCategory", mock.Anything, 5, intPtr(1)).Return(nil)

	r := NewRefresher(api)
	_, err := r.Refresh(context.Background(), 2025)
	require.NoError(t, err)

	snapshot, err := r.Categorize(context.Background(), 2025, 5, intPtr(1))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snapshot.Seq)

	_, err = r.Categorize(context.Background(), 2025, 5, intPtr(99))
	assert.True(t, errors.Is(err, common.ErrNotFound))
	api.AssertNumberOfCalls(t, "UpdateExpenseCategory", 1)
}
