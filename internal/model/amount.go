package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Veraticus/budgetview/internal/common"
)

// AmountKind names the recurrence scheme of a BudgetAmount.
type AmountKind string

// Recurrence schemes understood by the server.
const (
	AmountWeekly      AmountKind = "Weekly"
	AmountMonthly     AmountKind = "Monthly"
	AmountYearly      AmountKind = "Yearly"
	AmountEveryXYears AmountKind = "EveryXYears"
)

// ParseAmountKind matches s case-insensitively against the recurrence kinds,
// ignoring dashes and underscores, so "every-x-years" names AmountEveryXYears.
func ParseAmountKind(s string) (AmountKind, error) {
	key := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, kind := range []AmountKind{AmountWeekly, AmountMonthly, AmountYearly, AmountEveryXYears} {
		if key == strings.ToLower(string(kind)) {
			return kind, nil
		}
	}
	return "", common.NewValidationError("recurrence", "unknown recurrence %q, expected weekly, monthly, yearly or every-x-years", s)
}

// BudgetAmount is a recurring budget figure. Exactly one recurrence scheme
// is active; X is only meaningful for AmountEveryXYears.
//
// On the wire it is externally tagged:
//
//	{"Monthly": {"amount": 25}}
//	{"EveryXYears": {"amount": 900, "x": 3}}
type BudgetAmount struct {
	Kind   AmountKind
	Amount float64
	X      int
}

// Weekly returns an amount that recurs every week.
func Weekly(amount float64) BudgetAmount {
	return BudgetAmount{Kind: AmountWeekly, Amount: amount}
}

// Monthly returns an amount that recurs every month.
func Monthly(amount float64) BudgetAmount {
	return BudgetAmount{Kind: AmountMonthly, Amount: amount}
}

// Yearly returns an amount that recurs every year.
func Yearly(amount float64) BudgetAmount {
	return BudgetAmount{Kind: AmountYearly, Amount: amount}
}

// EveryXYears returns an amount that recurs once every x years.
func EveryXYears(amount float64, x int) BudgetAmount {
	return BudgetAmount{Kind: AmountEveryXYears, Amount: amount, X: x}
}

// Validate checks the amount is well formed.
func (a BudgetAmount) Validate() error {
	switch a.Kind {
	case AmountWeekly, AmountMonthly, AmountYearly:
	case AmountEveryXYears:
		if a.X < 1 {
			return common.NewValidationError("amount.x", "must be a positive integer, got %d", a.X)
		}
	case "":
		return common.NewValidationError("amount", "recurrence kind is required")
	default:
		return common.NewValidationError("amount", "unknown recurrence kind %q", a.Kind)
	}

	if a.Amount < 0 {
		return common.NewValidationError("amount.amount", "must be non-negative, got %.2f", a.Amount)
	}

	return nil
}

// String renders the amount the way the CLI shows it.
func (a BudgetAmount) String() string {
	switch a.Kind {
	case AmountWeekly:
		return fmt.Sprintf("%.2f/week", a.Amount)
	case AmountMonthly:
		return fmt.Sprintf("%.2f/month", a.Amount)
	case AmountYearly:
		return fmt.Sprintf("%.2f/year", a.Amount)
	case AmountEveryXYears:
		return fmt.Sprintf("%.2f every %d years", a.Amount, a.X)
	default:
		return fmt.Sprintf("%.2f", a.Amount)
	}
}

type amountPayload struct {
	Amount *float64 `json:"amount"`
	X      *int     `json:"x,omitempty"`
}

// MarshalJSON encodes the amount in its externally tagged form.
func (a BudgetAmount) MarshalJSON() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	amount := a.Amount
	payload := amountPayload{Amount: &amount}
	if a.Kind == AmountEveryXYears {
		x := a.X
		payload.X = &x
	}

	return json.Marshal(map[AmountKind]amountPayload{a.Kind: payload})
}

// UnmarshalJSON decodes an externally tagged amount. Zero or several tags,
// an unknown tag and a missing amount are all rejected.
func (a *BudgetAmount) UnmarshalJSON(data []byte) error {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return common.NewValidationError("amount", "expected an object: %v", err)
	}

	if len(tagged) != 1 {
		return common.NewValidationError("amount", "expected exactly one recurrence tag, got %d", len(tagged))
	}

	var (
		kind AmountKind
		raw  json.RawMessage
	)
	for k, v := range tagged {
		kind, raw = AmountKind(k), v
	}

	switch kind {
	case AmountWeekly, AmountMonthly, AmountYearly, AmountEveryXYears:
	default:
		return common.NewValidationError("amount", "unknown recurrence kind %q", kind)
	}

	var payload amountPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return common.NewValidationError("amount", "malformed %s payload: %v", kind, err)
	}
	if payload.Amount == nil {
		return common.NewValidationError("amount.amount", "is required for %s", kind)
	}

	decoded := BudgetAmount{Kind: kind, Amount: *payload.Amount}
	if kind == AmountEveryXYears {
		if payload.X == nil {
			return common.NewValidationError("amount.x", "is required for %s", kind)
		}
		decoded.X = *payload.X
	}

	if err := decoded.Validate(); err != nil {
		return err
	}

	*a = decoded
	return nil
}
