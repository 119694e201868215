package custody

import (
	"context"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/htlx-network/htlx-daemon/internal/core/ports"
)

type transfer struct {
	asset  string
	from   string
	to     string
	amount decimal.Decimal
}

// Journal books transfers against a custody provider and keeps enough state
// to reverse them if the enclosing operation fails halfway. Compensation runs
// on a dedicated provider path so a tripped breaker on the forward path
// cannot block a rollback.
type Journal struct {
	forward     ports.CustodyProvider
	compensator ports.CustodyProvider
	transfers   []transfer
}

// NewJournal returns an empty journal booking transfers on the forward
// provider and reversing them on the compensator.
func NewJournal(forward, compensator ports.CustodyProvider) *Journal {
	return &Journal{forward: forward, compensator: compensator}
}

// Transfer performs a transfer on the forward provider and records it so it
// can later be reversed by Compensate.
func (j *Journal) Transfer(
	ctx context.Context, asset, from, to string, amount decimal.Decimal,
) error {
	if err := j.forward.Transfer(ctx, asset, from, to, amount); err != nil {
		return err
	}
	j.transfers = append(j.transfers, transfer{asset, from, to, amount})
	return nil
}

// Compensate reverses all booked transfers, most recent first, and resets the
// journal. Failures are logged and the last one is returned, the remaining
// transfers are reversed anyway.
func (j *Journal) Compensate(ctx context.Context) error {
	var lastErr error
	for i := len(j.transfers) - 1; i >= 0; i-- {
		t := j.transfers[i]
		if err := j.compensator.Transfer(
			ctx, t.asset, t.to, t.from, t.amount,
		); err != nil {
			log.WithError(err).Errorf(
				"failed to compensate transfer of %s %s from %s to %s",
				t.amount, t.asset, t.from, t.to,
			)
			lastErr = err
		}
	}
	j.transfers = nil
	return lastErr
}
