// Package expenses orders expense lists and describes which subset of
// expenses a view is showing.
package expenses

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/Veraticus/budgetview/internal/accounts"
	"github.com/Veraticus/budgetview/internal/budget"
	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/model"
)

var (
	monthPattern  = regexp.MustCompile(`^20\d\d-[01]\d$`)
	yearPattern   = regexp.MustCompile(`^20\d\d$`)
	periodPattern = regexp.MustCompile(`^20\d\d(-[01]\d)?$`)
)

// ValidMonth reports whether s is a YYYY-MM month key.
func ValidMonth(s string) bool {
	return monthPattern.MatchString(s)
}

// Variant discriminates the kinds of expense query.
type Variant string

// Query variants.
const (
	VariantAccount   Variant = "account"
	VariantItemMonth Variant = "item-month"
	VariantPeriod    Variant = "period"
)

// SelectorKind discriminates the category selector of a period query.
type SelectorKind string

// Selector kinds. Uncategorized and AllNotIgnored carry no id.
const (
	SelectCategory      SelectorKind = "category"
	SelectItem          SelectorKind = "item"
	SelectUncategorized SelectorKind = "uncategorized"
	SelectAllNotIgnored SelectorKind = "all-not-ignored"
)

// Selector picks the budget scope of a period query.
type Selector struct {
	Kind SelectorKind
	ID   int
}

// CategorySelector selects the expenses of every item in a category.
func CategorySelector(id int) Selector { return Selector{Kind: SelectCategory, ID: id} }

// ItemSelector selects the expenses of one item.
func ItemSelector(id int) Selector { return Selector{Kind: SelectItem, ID: id} }

// Uncategorized selects expenses with no item.
func Uncategorized() Selector { return Selector{Kind: SelectUncategorized} }

// AllNotIgnored selects uncategorized expenses and those of active categories.
func AllNotIgnored() Selector { return Selector{Kind: SelectAllNotIgnored} }

// Query addresses a subset of expenses. Which fields are meaningful depends
// on Variant.
type Query struct {
	Selector  Selector
	Variant   Variant
	Month     string
	Period    string
	AccountID int
	Year      int
	ItemID    int
}

// ByAccount selects every expense of an account in a year.
func ByAccount(accountID, year int) Query {
	return Query{Variant: VariantAccount, AccountID: accountID, Year: year}
}

// ByItemMonth selects the expenses of one item in one month.
func ByItemMonth(itemID int, month string) Query {
	return Query{Variant: VariantItemMonth, ItemID: itemID, Month: month}
}

// ByPeriod selects the expenses of a month ("YYYY-MM") or a year ("YYYY")
// matching selector.
func ByPeriod(period string, selector Selector) Query {
	return Query{Variant: VariantPeriod, Period: period, Selector: selector}
}

// Validate checks the query is well formed for its variant.
func (q Query) Validate() error {
	switch q.Variant {
	case VariantAccount:
		if q.AccountID <= 0 {
			return common.NewValidationError("account", "must be a positive id, got %d", q.AccountID)
		}
		if !yearPattern.MatchString(strconv.Itoa(q.Year)) {
			return common.NewValidationError("year", "invalid year %d", q.Year)
		}
	case VariantItemMonth:
		if q.ItemID <= 0 {
			return common.NewValidationError("item", "must be a positive id, got %d", q.ItemID)
		}
		if !ValidMonth(q.Month) {
			return common.NewValidationError("month", "expected YYYY-MM, got %q", q.Month)
		}
	case VariantPeriod:
		if !periodPattern.MatchString(q.Period) {
			return common.NewValidationError("period", "expected YYYY or YYYY-MM, got %q", q.Period)
		}
		switch q.Selector.Kind {
		case SelectUncategorized, SelectAllNotIgnored:
		case SelectCategory, SelectItem:
			if q.Selector.ID <= 0 {
				return common.NewValidationError("selector", "%s must have a positive id, got %d", q.Selector.Kind, q.Selector.ID)
			}
		default:
			return common.NewValidationError("selector", "unknown selector %q", q.Selector.Kind)
		}
	default:
		return common.NewValidationError("variant", "unknown query variant %q", q.Variant)
	}
	return nil
}

// Request is the body of POST /api/expenses/query.
type Request struct {
	Params  any    `json:"params"`
	Variant string `json:"variant"`
}

// AccountParams are the params of a ByAccount request.
type AccountParams struct {
	ID   int `json:"id"`
	Year int `json:"year"`
}

// PeriodParams are the params of a ByPeriod request.
type PeriodParams struct {
	Category CategoryParam `json:"category"`
	Period   string        `json:"period"`
}

// CategoryParam is the category selector of a ByPeriod request.
type CategoryParam struct {
	Params  *IDParams `json:"params,omitempty"`
	Variant string    `json:"variant"`
}

// IDParams carries a single id.
type IDParams struct {
	ID int `json:"id"`
}

// Request maps the query to its server request. Item-month queries have a
// dedicated endpoint and no request body, so they return an error here.
func (q Query) Request() (Request, error) {
	if err := q.Validate(); err != nil {
		return Request{}, err
	}

	switch q.Variant {
	case VariantAccount:
		return Request{
			Variant: "ByAccount",
			Params:  AccountParams{ID: q.AccountID, Year: q.Year},
		}, nil
	case VariantPeriod:
		return Request{
			Variant: "ByPeriod",
			Params:  PeriodParams{Period: q.Period, Category: q.Selector.param()},
		}, nil
	default:
		return Request{}, common.NewValidationError("variant", "%s queries have no request body", q.Variant)
	}
}

func (s Selector) param() CategoryParam {
	// Sentinels first; they carry no id.
	switch s.Kind {
	case SelectUncategorized:
		return CategoryParam{Variant: "Uncategorized"}
	case SelectAllNotIgnored:
		return CategoryParam{Variant: "All"}
	case SelectItem:
		return CategoryParam{Variant: "BudgetItem", Params: &IDParams{ID: s.ID}}
	default:
		return CategoryParam{Variant: "BudgetCategory", Params: &IDParams{ID: s.ID}}
	}
}

// ListSettings controls how an expense list behaves for a query.
type ListSettings struct {
	AutoAdvance bool
	ShowAccount bool
}

// Settings returns the list settings for the query. Account lists are
// worked through one expense at a time, so the cursor advances after each
// categorization and the account column is redundant.
func (q Query) Settings() ListSettings {
	if q.Variant == VariantAccount {
		return ListSettings{AutoAdvance: true, ShowAccount: false}
	}
	return ListSettings{AutoAdvance: false, ShowAccount: true}
}

// Label returns a human-readable description of the query. Ids that no
// longer resolve are shown as "#id".
func (q Query) Label(b *budget.View, accts *accounts.View) string {
	switch q.Variant {
	case VariantAccount:
		name := fmt.Sprintf("account #%d", q.AccountID)
		if accts != nil {
			if account, err := accts.GetAccount(q.AccountID); err == nil {
				name = account.Name()
			}
		}
		return fmt.Sprintf("%s in %d", name, q.Year)
	case VariantItemMonth:
		return fmt.Sprintf("%s in %s", itemLabel(b, q.ItemID), q.Month)
	case VariantPeriod:
		return fmt.Sprintf("%s in %s", q.Selector.Label(b), q.Period)
	default:
		return string(q.Variant)
	}
}

// Label returns a human-readable description of the selector.
func (s Selector) Label(b *budget.View) string {
	switch s.Kind {
	case SelectUncategorized:
		return "uncategorized"
	case SelectAllNotIgnored:
		return "all categories"
	case SelectItem:
		return itemLabel(b, s.ID)
	case SelectCategory:
		if b != nil {
			if category, err := b.GetCategory(s.ID); err == nil {
				return category.Name()
			}
		}
		return fmt.Sprintf("category #%d", s.ID)
	default:
		return string(s.Kind)
	}
}

func itemLabel(b *budget.View, id int) string {
	if b != nil {
		if item, err := b.GetItem(id); err == nil {
			return item.DisplayName
		}
	}
	return fmt.Sprintf("item #%d", id)
}

// Matches reports whether e belongs to the subset the query addresses. It is
// used to decide whether an expense stays in the displayed list after it was
// recategorized. Items unknown to b never match a budget selector.
func (q Query) Matches(e model.Expense, b *budget.View) bool {
	switch q.Variant {
	case VariantAccount:
		return e.AccountID == q.AccountID && len(e.TransactionDate) >= 4 &&
			e.TransactionDate[:4] == strconv.Itoa(q.Year)
	case VariantItemMonth:
		return inPeriod(e, q.Month) && e.BudgetItemID != nil && *e.BudgetItemID == q.ItemID
	case VariantPeriod:
		return inPeriod(e, q.Period) && q.Selector.matches(e, b)
	default:
		return false
	}
}

func (s Selector) matches(e model.Expense, b *budget.View) bool {
	switch s.Kind {
	case SelectUncategorized:
		return e.BudgetItemID == nil
	case SelectAllNotIgnored:
		if e.BudgetItemID == nil {
			return true
		}
		if b == nil {
			return false
		}
		item, err := b.GetItem(*e.BudgetItemID)
		return err == nil && !item.Category.Ignored()
	case SelectItem:
		return e.BudgetItemID != nil && *e.BudgetItemID == s.ID
	case SelectCategory:
		if e.BudgetItemID == nil || b == nil {
			return false
		}
		item, err := b.GetItem(*e.BudgetItemID)
		return err == nil && item.CategoryID() == s.ID
	default:
		return false
	}
}

func inPeriod(e model.Expense, period string) bool {
	return len(e.TransactionDate) >= len(period) && e.TransactionDate[:len(period)] == period
}
