package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
)

type swapRepositoryImpl struct {
	store *badgerhold.Store
}

// NewSwapRepositoryImpl initializes a badger implementation of the
// domain.SwapRepository.
func NewSwapRepositoryImpl(store *badgerhold.Store) domain.SwapRepository {
	return swapRepositoryImpl{store}
}

func (r swapRepositoryImpl) AddSwap(
	ctx context.Context, swap *domain.Swap,
) error {
	return r.insertSwap(ctx, *swap)
}

func (r swapRepositoryImpl) GetSwap(
	ctx context.Context, id string,
) (*domain.Swap, error) {
	return r.getSwap(ctx, id)
}

func (r swapRepositoryImpl) GetAllSwaps(
	ctx context.Context,
) ([]*domain.Swap, error) {
	return r.findSwaps(ctx, nil)
}

func (r swapRepositoryImpl) GetSwapsForParty(
	ctx context.Context, party string,
) ([]*domain.Swap, error) {
	query := badgerhold.Where("Initiator").Eq(party).
		Or(badgerhold.Where("Participant").Eq(party))
	return r.findSwaps(ctx, query)
}

func (r swapRepositoryImpl) UpdateSwap(
	ctx context.Context, id string,
	updateFn func(*domain.Swap) (*domain.Swap, error),
) error {
	currentSwap, err := r.getSwap(ctx, id)
	if err != nil {
		return err
	}

	updatedSwap, err := updateFn(currentSwap)
	if err != nil {
		return err
	}

	return r.updateSwap(ctx, id, *updatedSwap)
}

func (r swapRepositoryImpl) insertSwap(
	ctx context.Context, swap domain.Swap,
) error {
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxInsert(tx, swap.Id, &swap)
	} else {
		err = r.store.Insert(swap.Id, &swap)
	}
	if err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrSwapAlreadyExists
		}
		return err
	}

	return nil
}

func (r swapRepositoryImpl) getSwap(
	ctx context.Context, id string,
) (*domain.Swap, error) {
	var err error
	var swap domain.Swap

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxGet(tx, id, &swap)
	} else {
		err = r.store.Get(id, &swap)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrSwapNotFound
		}
		return nil, err
	}

	return &swap, nil
}

func (r swapRepositoryImpl) updateSwap(
	ctx context.Context, id string, swap domain.Swap,
) error {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return r.store.TxUpdate(tx, id, swap)
	}
	return r.store.Update(id, swap)
}

func (r swapRepositoryImpl) findSwaps(
	ctx context.Context, query *badgerhold.Query,
) ([]*domain.Swap, error) {
	var swaps []domain.Swap
	var err error

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxFind(tx, &swaps, query)
	} else {
		err = r.store.Find(&swaps, query)
	}
	if err != nil {
		return nil, err
	}

	list := make([]*domain.Swap, 0, len(swaps))
	for i := range swaps {
		list = append(list, &swaps[i])
	}
	return list, nil
}
