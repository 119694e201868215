// Package custodian provides ready-made implementations of the custody
// provider the settlement engine moves value through. The in-memory one
// backs tests and throwaway setups, the badger one persists balances on disk
// for the command line tool.
package custodian

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/htlx-network/htlx-daemon/internal/core/ports"
)

// Account is a balance of an asset held by an identity.
type Account struct {
	Asset   string
	Holder  string
	Balance decimal.Decimal
}

// InMemoryProvider keeps balances in memory, grouped by asset and holder.
// Safe for concurrent use.
type InMemoryProvider struct {
	balances map[string]map[string]decimal.Decimal
	locker   *sync.Mutex
}

var _ ports.CustodyProvider = (*InMemoryProvider)(nil)

// NewInMemoryProvider returns a provider with no balances. Accounts must be
// funded with Fund before they can be spent from.
func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{
		balances: make(map[string]map[string]decimal.Decimal),
		locker:   &sync.Mutex{},
	}
}

// Fund credits the holder with the given amount of the asset.
func (p *InMemoryProvider) Fund(asset, holder string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("amount must not be negative")
	}

	p.locker.Lock()
	defer p.locker.Unlock()

	p.credit(asset, holder, amount)
	return nil
}

// Transfer moves the given amount of the asset between the two holders. It
// fails without side effects if the sender balance is insufficient.
func (p *InMemoryProvider) Transfer(
	_ context.Context, asset, from, to string, amount decimal.Decimal,
) error {
	if amount.IsNegative() {
		return fmt.Errorf("amount must not be negative")
	}

	p.locker.Lock()
	defer p.locker.Unlock()

	balance := p.balances[asset][from]
	if balance.LessThan(amount) {
		return fmt.Errorf(
			"insufficient funds: %s holds %s %s, cannot move %s",
			from, balance, asset, amount,
		)
	}

	p.balances[asset][from] = balance.Sub(amount)
	p.credit(asset, to, amount)
	return nil
}

// BalanceOf returns the amount of the asset held by the holder, zero if the
// account was never funded.
func (p *InMemoryProvider) BalanceOf(
	_ context.Context, asset, holder string,
) (decimal.Decimal, error) {
	p.locker.Lock()
	defer p.locker.Unlock()

	return p.balances[asset][holder], nil
}

// Accounts returns all non-zero balances sorted by asset and holder.
func (p *InMemoryProvider) Accounts(_ context.Context) ([]Account, error) {
	p.locker.Lock()
	defer p.locker.Unlock()

	accounts := make([]Account, 0, len(p.balances))
	for asset, holders := range p.balances {
		for holder, balance := range holders {
			if balance.IsZero() {
				continue
			}
			accounts = append(accounts, Account{
				Asset:   asset,
				Holder:  holder,
				Balance: balance,
			})
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Asset != accounts[j].Asset {
			return accounts[i].Asset < accounts[j].Asset
		}
		return accounts[i].Holder < accounts[j].Holder
	})
	return accounts, nil
}

func (p *InMemoryProvider) credit(asset, holder string, amount decimal.Decimal) {
	holders, ok := p.balances[asset]
	if !ok {
		holders = make(map[string]decimal.Decimal)
		p.balances[asset] = holders
	}
	holders[holder] = holders[holder].Add(amount)
}
