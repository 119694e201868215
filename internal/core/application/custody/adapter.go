// Package custody bridges the settlement flows and the custody provider.
// Every movement of funds goes through per-swap escrow accounts and is
// mirrored by an entry on the custody ledger.
package custody

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
	"github.com/htlx-network/htlx-daemon/internal/core/ports"
	"github.com/htlx-network/htlx-daemon/pkg/circuitbreaker"
)

// EscrowAccount returns the account holding the funds locked for the given
// swap.
func EscrowAccount(swapId string) string {
	return fmt.Sprintf("escrow:%s", swapId)
}

// Adapter moves funds between the swapping parties and the per-swap escrow
// accounts, keeping the custody ledger in sync with every movement.
type Adapter struct {
	provider    ports.CustodyProvider
	raw         ports.CustodyProvider
	oracle      ports.CredentialOracle
	repoManager ports.RepoManager
}

// NewAdapter returns a custody adapter wrapping the given provider with a
// circuit breaker on the forward transfer path. The credential oracle is
// optional, without it credential gated legs cannot be validated.
func NewAdapter(
	provider ports.CustodyProvider, oracle ports.CredentialOracle,
	repoManager ports.RepoManager,
) (*Adapter, error) {
	if provider == nil {
		return nil, fmt.Errorf("missing custody provider")
	}
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	cb := circuitbreaker.NewCircuitBreaker("custody")
	return &Adapter{
		provider:    breakerProvider{provider, cb},
		raw:         provider,
		oracle:      oracle,
		repoManager: repoManager,
	}, nil
}

// NewJournal returns a journal booking transfers through the breaker and
// compensating them on the raw provider.
func (a *Adapter) NewJournal() *Journal {
	return NewJournal(a.provider, a.raw)
}

// Escrow moves the total amount locked by the given leg from its owner to
// the swap escrow account and adds the matching ledger entry. Transfer
// failures are wrapped so callers can map them uniformly.
func (a *Adapter) Escrow(
	ctx context.Context, journal *Journal, swapId string, legIndex int,
	leg domain.SwapLeg, at time.Time,
) error {
	if err := journal.Transfer(
		ctx, leg.Asset, leg.Owner, EscrowAccount(swapId), leg.Total(),
	); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrTransferFailure, err)
	}

	entry := domain.NewCustodyEntry(swapId, legIndex, leg, at)
	return a.repoManager.CustodyRepository().AddEntry(ctx, entry)
}

// Release moves the escrowed funds of the given leg out of the swap escrow
// account to the receiver and settles the ledger entry. For yield bearing
// legs the escrowed amount already includes the accrued yield, so principal
// and yield leave escrow within the same transfer.
func (a *Adapter) Release(
	ctx context.Context, journal *Journal, swapId string, legIndex int,
	to string, at time.Time,
) error {
	entry, err := a.repoManager.CustodyRepository().GetEntry(ctx, swapId, legIndex)
	if err != nil {
		return err
	}
	if !entry.IsEscrowed() {
		return domain.ErrCustodyEntryNotEscrowed
	}

	if err := journal.Transfer(
		ctx, entry.Asset, EscrowAccount(swapId), to, entry.Amount,
	); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrTransferFailure, err)
	}

	return a.repoManager.CustodyRepository().UpdateEntry(
		ctx, swapId, legIndex,
		func(e *domain.CustodyEntry) (*domain.CustodyEntry, error) {
			if _, err := e.Release(to, at); err != nil {
				return nil, err
			}
			return e, nil
		},
	)
}

// Validate checks that the given receiver may take delivery of the leg.
// Only credential gated legs carry a constraint, for them the receiver's
// credential must match the one required by the leg exactly.
func (a *Adapter) Validate(
	ctx context.Context, leg domain.SwapLeg, receiver string,
) error {
	if leg.Kind() != domain.LegKindCredentialGated {
		return nil
	}
	if a.oracle == nil {
		return fmt.Errorf("missing credential oracle")
	}

	credential, err := a.oracle.CredentialOf(ctx, receiver)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(
		[]byte(credential), []byte(leg.RequiredCredential),
	) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}

// BalanceOf reports the balance the custody provider holds for an account.
func (a *Adapter) BalanceOf(
	ctx context.Context, asset, holder string,
) (decimal.Decimal, error) {
	return a.provider.BalanceOf(ctx, asset, holder)
}

type breakerProvider struct {
	provider ports.CustodyProvider
	cb       *gobreaker.CircuitBreaker
}

func (p breakerProvider) Transfer(
	ctx context.Context, asset, from, to string, amount decimal.Decimal,
) error {
	_, err := p.cb.Execute(func() (interface{}, error) {
		return nil, p.provider.Transfer(ctx, asset, from, to, amount)
	})
	return err
}

func (p breakerProvider) BalanceOf(
	ctx context.Context, asset, holder string,
) (decimal.Decimal, error) {
	balance, err := p.cb.Execute(func() (interface{}, error) {
		return p.provider.BalanceOf(ctx, asset, holder)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance.(decimal.Decimal), nil
}
