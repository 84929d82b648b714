// Package accounts projects the account list into a sorted, id-indexed view.
package accounts

import (
	"github.com/Veraticus/budgetview/internal/budget"
	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/model"
)

// AccountView is an account with its statement schema resolved.
type AccountView struct {
	Schema  *model.StatementSchema
	Account model.Account
}

// ID returns the account id.
func (a *AccountView) ID() int { return a.Account.ID }

// Name returns the account name.
func (a *AccountView) Name() string { return a.Account.Name }

// Class returns the account class.
func (a *AccountView) Class() model.AccountClass { return a.Account.Class }

// View holds accounts sorted by name.
type View struct {
	byID     map[int]*AccountView
	accounts []*AccountView
}

// NewView builds a view from the account and schema lists. An account whose
// schema id does not resolve fails the whole construction.
func NewView(accounts model.Accounts, schemas model.StatementSchemas) (*View, error) {
	schemasByID := make(map[int]model.StatementSchema, len(schemas.Schemas))
	for _, schema := range schemas.Schemas {
		schemasByID[schema.ID] = schema
	}

	v := &View{
		byID:     make(map[int]*AccountView, len(accounts.Accounts)),
		accounts: make([]*AccountView, 0, len(accounts.Accounts)),
	}
	for _, account := range accounts.Accounts {
		if _, ok := v.byID[account.ID]; ok {
			return nil, common.NewValidationError("accounts", "duplicate account id %d", account.ID)
		}

		av := &AccountView{Account: account}
		if account.StatementSchemaID != nil {
			schema, ok := schemasByID[*account.StatementSchemaID]
			if !ok {
				return nil, common.NewValidationError("accounts",
					"account %d references unknown statement schema %d", account.ID, *account.StatementSchemaID)
			}
			av.Schema = &schema
		}

		v.byID[account.ID] = av
		v.accounts = append(v.accounts, av)
	}

	budget.SortByName(v.accounts, (*AccountView).Name)

	return v, nil
}

// Accounts returns the accounts in display order.
func (v *View) Accounts() []*AccountView { return v.accounts }

// Len returns the number of accounts.
func (v *View) Len() int { return len(v.accounts) }

// First returns the first account in display order, or nil when there are none.
func (v *View) First() *AccountView {
	if len(v.accounts) == 0 {
		return nil
	}
	return v.accounts[0]
}

// GetAccount returns the account with the given id.
func (v *View) GetAccount(id int) (*AccountView, error) {
	account, ok := v.byID[id]
	if !ok {
		return nil, &common.NotFoundError{Kind: "account", ID: id}
	}
	return account, nil
}

// HasAccount reports whether an account with the given id exists.
func (v *View) HasAccount(id int) bool {
	_, ok := v.byID[id]
	return ok
}
