package budgets

import (
	"fmt"

	"github.com/Veraticus/budgetview/internal/model"
)

// Fixture is a predefined set of categories and items.
type Fixture interface {
	// Name returns the fixture's descriptive name.
	Name() string
	apply(b *Builder)
}

type fixture struct {
	build func(b *Builder)
	name  string
}

func (f *fixture) Name() string     { return f.name }
func (f *fixture) apply(b *Builder) { f.build(b) }

// Predefined fixtures for common test scenarios.
var (
	// FixtureHousehold has rent at 1000 a month, groceries at 300 a month
	// and an ignored savings transfer without a target.
	FixtureHousehold Fixture = &fixture{
		name: "Household",
		build: func(b *Builder) {
			b.WithCategory(CategoryHome, "Home").
				WithCategory(CategoryFood, "Food").
				WithIgnoredCategory(CategoryTransfers, "Transfers").
				WithItem(ItemRent, CategoryHome, "Rent", Monthly(1000)).
				WithItem(ItemGroceries, CategoryFood, "Groceries", Monthly(300)).
				WithItem(ItemSavings, CategoryTransfers, "Savings", nil)
		},
	}

	// FixtureEmpty has no categories at all.
	FixtureEmpty Fixture = &fixture{
		name:  "Empty",
		build: func(*Builder) {},
	}
)

// HouseholdSpending is the spending of FixtureHousehold in year: rent and
// groceries in January, the groceries over target, and uncategorized spend
// in February.
func HouseholdSpending(year int) *model.SpendingData {
	month := func(m int) string { return fmt.Sprintf("%04d-%02d", year, m) }
	return Spending(
		Spend(ItemRent, month(1), 1000),
		Spend(ItemGroceries, month(1), 450),
		Spend(0, month(2), 30),
	)
}

// HouseholdAccounts returns a checking account with a statement format and
// a credit card without one.
func HouseholdAccounts() (*model.Accounts, *model.StatementSchemas) {
	schema := 7
	accts := &model.Accounts{Accounts: []model.Account{
		{ID: AccountChecking, Name: "Checking", Class: model.AccountBank, StatementSchemaID: &schema},
		{ID: AccountAmex, Name: "Amex", Class: model.AccountCreditCard},
	}}
	schemas := &model.StatementSchemas{Schemas: []model.StatementSchema{
		{ID: schema, Name: "Chase CSV"},
	}}
	return accts, schemas
}
