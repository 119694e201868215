package settlement_test

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/htlx-network/htlx-daemon/internal/core/ports"
)

// **** AccessGate ****

type mockAccessGate struct {
	mock.Mock
}

func (m *mockAccessGate) IsAuthorized(
	ctx context.Context, identity string, action ports.Action,
) (bool, error) {
	args := m.Called(ctx, identity, action)

	var res bool
	if a := args.Get(0); a != nil {
		res = a.(bool)
	}
	return res, args.Error(1)
}

func (m *mockAccessGate) IsPaused(ctx context.Context) (bool, error) {
	args := m.Called(ctx)

	var res bool
	if a := args.Get(0); a != nil {
		res = a.(bool)
	}
	return res, args.Error(1)
}

// **** CustodyProvider ****

// failingProvider books transfers on the wrapped provider, failing the ones
// matched by the predicate.
type failingProvider struct {
	ports.CustodyProvider
	failWhen func(asset, from, to string) bool
}

func (p *failingProvider) Transfer(
	ctx context.Context, asset, from, to string, amount decimal.Decimal,
) error {
	if p.failWhen != nil && p.failWhen(asset, from, to) {
		return fmt.Errorf("provider is down")
	}
	return p.CustodyProvider.Transfer(ctx, asset, from, to, amount)
}
