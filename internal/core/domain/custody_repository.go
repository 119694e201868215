package domain

import "context"

// CustodyRepository is the abstraction for any kind of database intended to
// persist the custody ledger.
type CustodyRepository interface {
	// AddEntry persists the given accounting entry. It fails with
	// ErrCustodyEntryAlreadyExists if one is already recorded for the same
	// swap leg.
	AddEntry(ctx context.Context, entry *CustodyEntry) error
	// GetEntry returns the entry recorded for the given swap leg, or
	// ErrCustodyEntryNotFound.
	GetEntry(ctx context.Context, swapId string, legIndex int) (*CustodyEntry, error)
	// GetEntriesForSwap returns all the entries recorded for the given swap,
	// ordered by leg index.
	GetEntriesForSwap(ctx context.Context, swapId string) ([]*CustodyEntry, error)
	// GetAllEntries returns the whole ledger.
	GetAllEntries(ctx context.Context) ([]*CustodyEntry, error)
	// UpdateEntry allows to commit multiple changes to the same entry in a
	// transactional way.
	UpdateEntry(
		ctx context.Context,
		swapId string, legIndex int,
		updateFn func(e *CustodyEntry) (*CustodyEntry, error),
	) error
}
