package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
)

type custodyRepositoryImpl struct {
	store *badgerhold.Store
}

// NewCustodyRepositoryImpl initializes a badger implementation of the
// domain.CustodyRepository.
func NewCustodyRepositoryImpl(store *badgerhold.Store) domain.CustodyRepository {
	return custodyRepositoryImpl{store}
}

func (r custodyRepositoryImpl) AddEntry(
	ctx context.Context, entry *domain.CustodyEntry,
) error {
	return r.insertEntry(ctx, *entry)
}

func (r custodyRepositoryImpl) GetEntry(
	ctx context.Context, swapId string, legIndex int,
) (*domain.CustodyEntry, error) {
	return r.getEntry(ctx, domain.CustodyEntryKey(swapId, legIndex))
}

func (r custodyRepositoryImpl) GetEntriesForSwap(
	ctx context.Context, swapId string,
) ([]*domain.CustodyEntry, error) {
	query := badgerhold.Where("SwapId").Eq(swapId).SortBy("LegIndex")
	return r.findEntries(ctx, query)
}

func (r custodyRepositoryImpl) GetAllEntries(
	ctx context.Context,
) ([]*domain.CustodyEntry, error) {
	return r.findEntries(ctx, nil)
}

func (r custodyRepositoryImpl) UpdateEntry(
	ctx context.Context, swapId string, legIndex int,
	updateFn func(*domain.CustodyEntry) (*domain.CustodyEntry, error),
) error {
	key := domain.CustodyEntryKey(swapId, legIndex)

	currentEntry, err := r.getEntry(ctx, key)
	if err != nil {
		return err
	}

	updatedEntry, err := updateFn(currentEntry)
	if err != nil {
		return err
	}

	return r.updateEntry(ctx, key, *updatedEntry)
}

func (r custodyRepositoryImpl) insertEntry(
	ctx context.Context, entry domain.CustodyEntry,
) error {
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxInsert(tx, entry.Key(), &entry)
	} else {
		err = r.store.Insert(entry.Key(), &entry)
	}
	if err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrCustodyEntryAlreadyExists
		}
		return err
	}

	return nil
}

func (r custodyRepositoryImpl) getEntry(
	ctx context.Context, key string,
) (*domain.CustodyEntry, error) {
	var err error
	var entry domain.CustodyEntry

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxGet(tx, key, &entry)
	} else {
		err = r.store.Get(key, &entry)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrCustodyEntryNotFound
		}
		return nil, err
	}

	return &entry, nil
}

func (r custodyRepositoryImpl) updateEntry(
	ctx context.Context, key string, entry domain.CustodyEntry,
) error {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return r.store.TxUpdate(tx, key, entry)
	}
	return r.store.Update(key, entry)
}

func (r custodyRepositoryImpl) findEntries(
	ctx context.Context, query *badgerhold.Query,
) ([]*domain.CustodyEntry, error) {
	var entries []domain.CustodyEntry
	var err error

	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = r.store.TxFind(tx, &entries, query)
	} else {
		err = r.store.Find(&entries, query)
	}
	if err != nil {
		return nil, err
	}

	list := make([]*domain.CustodyEntry, 0, len(entries))
	for i := range entries {
		list = append(list, &entries[i])
	}
	return list, nil
}
