// Package budget projects a raw budget into sorted category and item views
// with yearly and monthly targets.
package budget

import (
	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/model"
)

// Recurrence factors used to normalize amounts to a year.
const (
	WeeksPerYear  = 52
	MonthsPerYear = 12
)

// YearlyAmount converts a recurring amount to its yearly equivalent.
// No rounding is applied. Malformed amounts, including negative ones, are
// rejected with a validation error.
func YearlyAmount(amount model.BudgetAmount) (float64, error) {
	if err := amount.Validate(); err != nil {
		return 0, err
	}
	switch amount.Kind {
	case model.AmountWeekly:
		return amount.Amount * WeeksPerYear, nil
	case model.AmountMonthly:
		return amount.Amount * MonthsPerYear, nil
	case model.AmountYearly:
		return amount.Amount, nil
	case model.AmountEveryXYears:
		return amount.Amount / float64(amount.X), nil
	default:
		return 0, common.NewValidationError("amount", "unknown recurrence kind %q", amount.Kind)
	}
}
