package inmemory

import (
	"context"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
)

type swapRepositoryImpl struct {
	store *swapInmemoryStore
}

// NewSwapRepositoryImpl returns a new inmemory SwapRepository implementation.
func NewSwapRepositoryImpl(store *swapInmemoryStore) domain.SwapRepository {
	return &swapRepositoryImpl{store}
}

func (r swapRepositoryImpl) AddSwap(
	ctx context.Context, swap *domain.Swap,
) error {
	if ctx.Value("tx") == nil {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	return r.addSwap(swap)
}

func (r swapRepositoryImpl) GetSwap(
	ctx context.Context, id string,
) (*domain.Swap, error) {
	if ctx.Value("tx") == nil {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	return r.getSwap(id)
}

func (r swapRepositoryImpl) GetAllSwaps(
	ctx context.Context,
) ([]*domain.Swap, error) {
	if ctx.Value("tx") == nil {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	swaps := make([]*domain.Swap, 0, len(r.store.swaps))
	for _, swap := range r.store.swaps {
		swap := swap
		swaps = append(swaps, &swap)
	}
	return swaps, nil
}

func (r swapRepositoryImpl) GetSwapsForParty(
	ctx context.Context, party string,
) ([]*domain.Swap, error) {
	if ctx.Value("tx") == nil {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	swaps := make([]*domain.Swap, 0)
	for _, swap := range r.store.swaps {
		if swap.Initiator == party || swap.Participant == party {
			swap := swap
			swaps = append(swaps, &swap)
		}
	}
	return swaps, nil
}

func (r swapRepositoryImpl) UpdateSwap(
	ctx context.Context, id string,
	updateFn func(*domain.Swap) (*domain.Swap, error),
) error {
	if ctx.Value("tx") == nil {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	currentSwap, err := r.getSwap(id)
	if err != nil {
		return err
	}

	updatedSwap, err := updateFn(currentSwap)
	if err != nil {
		return err
	}

	r.store.swaps[id] = *updatedSwap
	return nil
}

func (r swapRepositoryImpl) addSwap(swap *domain.Swap) error {
	if _, ok := r.store.swaps[swap.Id]; ok {
		return domain.ErrSwapAlreadyExists
	}
	r.store.swaps[swap.Id] = *swap
	return nil
}

func (r swapRepositoryImpl) getSwap(id string) (*domain.Swap, error) {
	swap, ok := r.store.swaps[id]
	if !ok {
		return nil, domain.ErrSwapNotFound
	}
	return &swap, nil
}
