// Package oracle provides table-driven implementations of the credential
// and yield oracles, meant for tests, demos and deployments where those
// bindings are administered by hand.
package oracle

import (
	"context"
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/shopspring/decimal"

	"github.com/htlx-network/htlx-daemon/internal/core/ports"
)

// StaticCredentialOracle binds credentials to identities through an
// in-memory table. Safe for concurrent use.
type StaticCredentialOracle struct {
	locker      *sync.RWMutex
	credentials map[string]string
}

var _ ports.CredentialOracle = (*StaticCredentialOracle)(nil)

// NewStaticCredentialOracle returns an oracle with no bindings.
func NewStaticCredentialOracle() *StaticCredentialOracle {
	return &StaticCredentialOracle{
		locker:      &sync.RWMutex{},
		credentials: make(map[string]string),
	}
}

// SetCredential binds the credential to the identity, replacing any previous
// one. An empty credential removes the binding.
func (o *StaticCredentialOracle) SetCredential(identity, credential string) {
	o.locker.Lock()
	defer o.locker.Unlock()

	if len(credential) <= 0 {
		delete(o.credentials, identity)
		return
	}
	o.credentials[identity] = credential
}

// CredentialOf implements the CredentialOracle interface.
func (o *StaticCredentialOracle) CredentialOf(
	_ context.Context, identity string,
) (string, error) {
	o.locker.RLock()
	defer o.locker.RUnlock()

	return o.credentials[identity], nil
}

// hoursPerYear converts elapsed time to years for simple interest.
const hoursPerYear = 24 * 365

// yieldPrecision is the number of decimal places a quoted yield is rounded
// to.
const yieldPrecision = 8

// FixedRateYieldOracle quotes the yield accrued by a principal with simple
// interest at a fixed annual rate per asset. Assets without a configured
// rate accrue nothing.
type FixedRateYieldOracle struct {
	rates map[string]decimal.Decimal
	clock clock.Clock
}

var _ ports.YieldOracle = (*FixedRateYieldOracle)(nil)

// NewFixedRateYieldOracle returns an oracle quoting with the given annual
// rates, keyed by asset. A nil clock defaults to the wall clock.
func NewFixedRateYieldOracle(
	rates map[string]decimal.Decimal, clk clock.Clock,
) *FixedRateYieldOracle {
	if clk == nil {
		clk = clock.NewDefaultClock()
	}
	if rates == nil {
		rates = make(map[string]decimal.Decimal)
	}
	return &FixedRateYieldOracle{
		rates: rates,
		clock: clk,
	}
}

// AccruedYield implements the YieldOracle interface.
func (o *FixedRateYieldOracle) AccruedYield(
	_ context.Context, asset string, principal decimal.Decimal, since time.Time,
) (decimal.Decimal, error) {
	rate, ok := o.rates[asset]
	if !ok {
		return decimal.Zero, nil
	}

	elapsed := o.clock.Now().Sub(since)
	if elapsed <= 0 {
		return decimal.Zero, nil
	}

	years := decimal.NewFromFloat(elapsed.Hours() / hoursPerYear)
	return principal.Mul(rate).Mul(years).Round(yieldPrecision), nil
}
