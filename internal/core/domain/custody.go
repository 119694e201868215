package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CustodyStatus represents the accounting status of an escrowed swap leg.
type CustodyStatus int

const (
	// CustodyStatusUndefined is the zero value, assumed by no stored entry.
	CustodyStatusUndefined CustodyStatus = iota * 10
	// CustodyStatusEscrowed marks value held by the engine on behalf of the
	// swap parties.
	CustodyStatusEscrowed
	// CustodyStatusReleased marks value paid out to the counterparty on
	// completion. Terminal.
	CustodyStatusReleased
	// CustodyStatusRefunded marks value returned to its owner after the time
	// lock expired. Terminal.
	CustodyStatusRefunded
)

func (s CustodyStatus) String() string {
	switch s {
	case CustodyStatusEscrowed:
		return "escrowed"
	case CustodyStatusReleased:
		return "released"
	case CustodyStatusRefunded:
		return "refunded"
	default:
		return "undefined"
	}
}

// CustodyEntry is the accounting record of a single escrowed swap leg. It
// tracks what the engine holds and to whom it was eventually released.
// Whether a release is legal is never its concern.
type CustodyEntry struct {
	SwapId     string
	LegIndex   int
	Owner      string
	Asset      string
	Amount     decimal.Decimal
	Status     CustodyStatus
	EscrowedAt time.Time
	SettledAt  time.Time
	ReleasedTo string
}

// NewCustodyEntry returns the Escrowed accounting record for the given swap
// leg. The recorded amount is the total held, principal plus accrued yield.
func NewCustodyEntry(
	swapId string, legIndex int, leg SwapLeg, escrowedAt time.Time,
) *CustodyEntry {
	return &CustodyEntry{
		SwapId:     swapId,
		LegIndex:   legIndex,
		Owner:      leg.Owner,
		Asset:      leg.Asset,
		Amount:     leg.Total(),
		Status:     CustodyStatusEscrowed,
		EscrowedAt: escrowedAt,
	}
}

// CustodyEntryKey returns the ledger identifier of the entry for the given
// swap leg.
func CustodyEntryKey(swapId string, legIndex int) string {
	return fmt.Sprintf("%s:%d", swapId, legIndex)
}

// Key returns the identifier of the entry in the ledger.
func (e *CustodyEntry) Key() string {
	return CustodyEntryKey(e.SwapId, e.LegIndex)
}

// Release settles the entry in favor of the given identity, exactly once.
// The resulting status is Released when the value moved to a counterparty,
// Refunded when it went back to its owner.
func (e *CustodyEntry) Release(to string, settledAt time.Time) (bool, error) {
	if !e.IsEscrowed() {
		return false, ErrCustodyEntryNotEscrowed
	}

	e.Status = CustodyStatusReleased
	if to == e.Owner {
		e.Status = CustodyStatusRefunded
	}
	e.ReleasedTo = to
	e.SettledAt = settledAt
	return true, nil
}

// IsEscrowed returns whether the entry still holds value.
func (e *CustodyEntry) IsEscrowed() bool {
	return e.Status == CustodyStatusEscrowed
}

// IsSettled returns whether the entry was already released or refunded.
func (e *CustodyEntry) IsSettled() bool {
	return e.Status == CustodyStatusReleased || e.Status == CustodyStatusRefunded
}
