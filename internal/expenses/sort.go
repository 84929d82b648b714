package expenses

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/budgetview/internal/accounts"
	"github.com/Veraticus/budgetview/internal/budget"
	"github.com/Veraticus/budgetview/internal/model"
)

// View is an expense with its account resolved for display and sorting.
// Account is nil when the account is not known to the client.
type View struct {
	Account *accounts.AccountView
	model.Expense
}

// AccountName returns the account name, or "" when unresolved.
func (v View) AccountName() string {
	if v.Account == nil {
		return ""
	}
	return v.Account.Name()
}

// NewViews attaches accounts to expenses.
func NewViews(list []model.Expense, accts *accounts.View) []View {
	views := make([]View, 0, len(list))
	for _, e := range list {
		v := View{Expense: e}
		if accts != nil {
			if account, err := accts.GetAccount(e.AccountID); err == nil {
				v.Account = account
			}
		}
		views = append(views, v)
	}
	return views
}

// SortField is the column an expense list is ordered by.
type SortField int

// Sort fields.
const (
	SortDateTime SortField = iota
	SortDescription
	SortAmount
	SortAccount
)

var sortFieldNames = map[SortField]string{
	SortDateTime:    "datetime",
	SortDescription: "description",
	SortAmount:      "amount",
	SortAccount:     "account",
}

func (f SortField) String() string {
	if name, ok := sortFieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("SortField(%d)", int(f))
}

// Next cycles to the following sort field.
func (f SortField) Next() SortField {
	return (f + 1) % SortField(len(sortFieldNames))
}

// SortOrder is the direction of a sort.
type SortOrder int

// Sort orders.
const (
	Asc SortOrder = iota
	Desc
)

func (o SortOrder) String() string {
	if o == Desc {
		return "desc"
	}
	return "asc"
}

// Toggle flips the order.
func (o SortOrder) Toggle() SortOrder {
	if o == Desc {
		return Asc
	}
	return Desc
}

// SortBy pairs a field with an order.
type SortBy struct {
	Field SortField
	Order SortOrder
}

// DefaultSortBy shows the newest expenses first.
var DefaultSortBy = SortBy{Field: SortDateTime, Order: Desc}

func (s SortBy) String() string {
	return s.Field.String() + ":" + s.Order.String()
}

// ParseSortBy parses "field" or "field:order", e.g. "amount:desc". The order
// defaults to ascending.
func ParseSortBy(s string) (SortBy, error) {
	fieldName, orderName, _ := strings.Cut(strings.ToLower(strings.TrimSpace(s)), ":")

	var sortBy SortBy
	found := false
	for field, name := range sortFieldNames {
		if name == fieldName {
			sortBy.Field = field
			found = true
			break
		}
	}
	if !found {
		return SortBy{}, fmt.Errorf("unknown sort field %q", fieldName)
	}

	switch orderName {
	case "", "asc":
		sortBy.Order = Asc
	case "desc":
		sortBy.Order = Desc
	default:
		return SortBy{}, fmt.Errorf("unknown sort order %q", orderName)
	}

	return sortBy, nil
}

// Comparator returns a three-way comparison for sortBy. The result is meant
// for a stable sort. Each call creates its own collator.
func Comparator(sortBy SortBy) (func(a, b View) int, error) {
	multiplier := 1
	if sortBy.Order == Desc {
		multiplier = -1
	}

	var base func(a, b View) int
	switch sortBy.Field {
	case SortDateTime:
		base = func(a, b View) int {
			if c := cmp.Compare(a.TransactionDate, b.TransactionDate); c != 0 {
				return c
			}
			return cmp.Compare(a.Time(), b.Time())
		}
	case SortDescription:
		collator := budget.NewCollator()
		base = func(a, b View) int {
			return collator.CompareString(a.Description, b.Description)
		}
	case SortAmount:
		base = func(a, b View) int {
			return cmp.Compare(a.Amount, b.Amount)
		}
	case SortAccount:
		collator := budget.NewCollator()
		base = func(a, b View) int {
			return collator.CompareString(a.AccountName(), b.AccountName())
		}
	default:
		return nil, fmt.Errorf("unsupported sort field %s", sortBy.Field)
	}

	return func(a, b View) int {
		return base(a, b) * multiplier
	}, nil
}

// Sort returns a stably sorted copy of views.
func Sort(views []View, sortBy SortBy) ([]View, error) {
	compare, err := Comparator(sortBy)
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(views)
	slices.SortStableFunc(sorted, compare)
	return sorted, nil
}
