package model

import (
	"strings"

	"github.com/Veraticus/budgetview/internal/common"
)

// AccountClass is the kind of institution an account belongs to.
type AccountClass string

// Account classes known to the server.
const (
	AccountBank       AccountClass = "Bank"
	AccountCreditCard AccountClass = "CreditCard"
	AccountShop       AccountClass = "Shop"
)

// Account is a source of expenses. StatementSchemaID names the parser the
// server uses for uploaded statements.
type Account struct {
	StatementSchemaID *int         `json:"statement_schema_id"`
	Name              string       `json:"name"`
	Class             AccountClass `json:"class"`
	ID                int          `json:"id"`
}

// ParseAccountClass matches s case-insensitively against the known classes.
func ParseAccountClass(s string) (AccountClass, error) {
	for _, class := range []AccountClass{AccountBank, AccountCreditCard, AccountShop} {
		if strings.EqualFold(s, string(class)) {
			return class, nil
		}
	}
	return "", common.NewValidationError("class", "unknown account class %q, expected Bank, CreditCard or Shop", s)
}

// AccountFields are the fields sent when creating an account.
type AccountFields struct {
	StatementSchemaID *int         `json:"statement_schema_id"`
	Name              string       `json:"name"`
	Class             AccountClass `json:"class"`
}

// Validate checks the fields before they are sent to the server.
func (f AccountFields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return common.NewValidationError("name", "account name is required")
	}
	if _, err := ParseAccountClass(string(f.Class)); err != nil {
		return err
	}
	if f.StatementSchemaID != nil && *f.StatementSchemaID < 1 {
		return common.NewValidationError("statement_schema_id", "must be positive, got %d", *f.StatementSchemaID)
	}
	return nil
}

// Fields returns the editable fields of the account.
func (a Account) Fields() AccountFields {
	return AccountFields{StatementSchemaID: a.StatementSchemaID, Name: a.Name, Class: a.Class}
}

// Accounts is the response of the account list endpoint.
type Accounts struct {
	Accounts []Account `json:"accounts"`
}

// StatementSchema describes one bank statement format the server can parse.
type StatementSchema struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// StatementSchemas is the response of the schema list endpoint.
type StatementSchemas struct {
	Schemas []StatementSchema `json:"schemas"`
}
