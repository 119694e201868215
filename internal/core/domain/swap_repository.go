package domain

import "context"

// SwapRepository is the abstraction for any kind of database intended to
// persist Swaps.
type SwapRepository interface {
	// AddSwap persists the given swap. It fails with ErrSwapAlreadyExists if
	// its id is already occupied by a previous record, terminal or not.
	AddSwap(ctx context.Context, swap *Swap) error
	// GetSwap returns the swap with the given id, or ErrSwapNotFound.
	GetSwap(ctx context.Context, id string) (*Swap, error)
	// GetAllSwaps returns all the swaps stored in the repository.
	GetAllSwaps(ctx context.Context) ([]*Swap, error)
	// GetSwapsForParty returns all the swaps where the given identity appears
	// as either initiator or participant.
	GetSwapsForParty(ctx context.Context, identity string) ([]*Swap, error)
	// UpdateSwap allows to commit multiple changes to the same swap in a
	// transactional way. The swap passed to updateFn reflects the stored
	// record at execution time, making the closure the place for status
	// guards meant to act as a compare-and-swap.
	UpdateSwap(
		ctx context.Context,
		id string,
		updateFn func(s *Swap) (*Swap, error),
	) error
}
