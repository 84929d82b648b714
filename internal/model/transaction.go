package model

// Expense is a single imported bank transaction.
type Expense struct {
	TransactionTime *string `json:"transaction_time"`
	BudgetItemID    *int    `json:"budget_item_id"`
	TransactionDate string  `json:"transaction_date"` // YYYY-MM-DD
	Description     string  `json:"description"`
	ID              int     `json:"id"`
	AccountID       int     `json:"account_id"`
	Amount          float64 `json:"amount"`
}

// IsCategorized reports whether the expense is assigned to a budget item.
func (e Expense) IsCategorized() bool {
	return e.BudgetItemID != nil
}

// Time returns the transaction time, or "" when the statement had none.
func (e Expense) Time() string {
	if e.TransactionTime == nil {
		return ""
	}
	return *e.TransactionTime
}

// Expenses is the response of the expense list endpoints.
type Expenses struct {
	Expenses []Expense `json:"expenses"`
}
