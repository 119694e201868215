package custody_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// **** CustodyProvider ****

type mockCustodyProvider struct {
	mock.Mock
}

func (m *mockCustodyProvider) Transfer(
	ctx context.Context, asset, from, to string, amount decimal.Decimal,
) error {
	args := m.Called(ctx, asset, from, to, amount)
	return args.Error(0)
}

func (m *mockCustodyProvider) BalanceOf(
	ctx context.Context, asset, holder string,
) (decimal.Decimal, error) {
	args := m.Called(ctx, asset, holder)

	var res decimal.Decimal
	if a := args.Get(0); a != nil {
		res = a.(decimal.Decimal)
	}
	return res, args.Error(1)
}

// **** CredentialOracle ****

type mockCredentialOracle struct {
	mock.Mock
}

func (m *mockCredentialOracle) CredentialOf(
	ctx context.Context, identity string,
) (string, error) {
	args := m.Called(ctx, identity)

	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res, args.Error(1)
}
