package accounts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/model"
)

func intPtr(i int) *int { return &i }

func TestNewView(t *testing.T) {
	accts := model.Accounts{Accounts: []model.Account{
		{ID: 1, Name: "visa", Class: model.AccountCreditCard, StatementSchemaID: intPtr(10)},
		{ID: 2, Name: "Checking", Class: model.AccountBank},
		{ID: 3, Name: "Amazon", Class: model.AccountShop, StatementSchemaID: intPtr(11)},
	}}
	schemas := model.StatementSchemas{Schemas: []model.StatementSchema{
		{ID: 10, Name: "Visa CSV"},
		{ID: 11, Name: "Amazon orders"},
	}}

	v, err := NewView(accts, schemas)
	require.NoError(t, err)

	ids := make([]int, 0, v.Len())
	for _, a := range v.Accounts() {
		ids = append(ids, a.ID())
	}
	assert.Equal(t, []int{3, 2, 1}, ids)
	assert.Equal(t, 3, v.First().ID())

	visa, err := v.GetAccount(1)
	require.NoError(t, err)
	require.NotNil(t, visa.Schema)
	assert.Equal(t, "Visa CSV", visa.Schema.Name)
	assert.Equal(t, model.AccountCreditCard, visa.Class())

	checking, err := v.GetAccount(2)
	require.NoError(t, err)
	assert.Nil(t, checking.Schema)

	_, err = v.GetAccount(42)
	assert.True(t, errors.Is(err, common.ErrNotFound))
	assert.True(t, v.HasAccount(2))
	assert.False(t, v.HasAccount(42))
}

func TestNewView_UnknownSchema(t *testing.T) {
	accts := model.Accounts{Accounts: []model.Account{
		{ID: 1, Name: "visa", StatementSchemaID: intPtr(99)},
	}}

	v, err := NewView(accts, model.StatementSchemas{})
	require.Error(t, err)
	assert.Nil(t, v)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestNewView_Empty(t *testing.T) {
	v, err := NewView(model.Accounts{}, model.StatementSchemas{})
	require.NoError(t, err)
	assert.Nil(t, v.First())
	assert.Zero(t, v.Len())
}
