package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// CustodyProvider is the interface to the external system holding the value
// moved by the engine. The engine never assumes anything about how balances
// are kept, it only demands that a transfer either entirely happens or
// entirely fails.
type CustodyProvider interface {
	// Transfer moves the given amount of the asset between two holders.
	Transfer(ctx context.Context, asset, from, to string, amount decimal.Decimal) error
	// BalanceOf returns the amount of the asset held by the given identity.
	BalanceOf(ctx context.Context, asset, holder string) (decimal.Decimal, error)
}
