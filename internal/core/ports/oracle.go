package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CredentialOracle is the interface to the external system binding
// credentials to identities. The engine compares the returned credential for
// equality against the one demanded by a swap leg, it never inspects its
// content.
type CredentialOracle interface {
	// CredentialOf returns the credential bound to the given identity, or an
	// empty string if it holds none.
	CredentialOf(ctx context.Context, identity string) (string, error)
}

// YieldOracle is the interface to the external system quoting the yield
// accrued by a vault position. The engine itself only moves the yield
// recorded on a swap leg, the oracle serves callers assembling legs.
type YieldOracle interface {
	// AccruedYield returns the yield accrued by the given principal of the
	// asset since the given time.
	AccruedYield(
		ctx context.Context, asset string, principal decimal.Decimal, since time.Time,
	) (decimal.Decimal, error)
}
