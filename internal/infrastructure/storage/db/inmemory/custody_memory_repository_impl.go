package inmemory

import (
	"context"
	"sort"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
)

type custodyRepositoryImpl struct {
	store *custodyInmemoryStore
}

// NewCustodyRepositoryImpl returns a new inmemory CustodyRepository
// implementation.
func NewCustodyRepositoryImpl(store *custodyInmemoryStore) domain.CustodyRepository {
	return &custodyRepositoryImpl{store}
}

func (r custodyRepositoryImpl) AddEntry(
	ctx context.Context, entry *domain.CustodyEntry,
) error {
	if ctx.Value("tx") == nil {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	if _, ok := r.store.entries[entry.Key()]; ok {
		return domain.ErrCustodyEntryAlreadyExists
	}
	r.store.entries[entry.Key()] = *entry
	return nil
}

func (r custodyRepositoryImpl) GetEntry(
	ctx context.Context, swapId string, legIndex int,
) (*domain.CustodyEntry, error) {
	if ctx.Value("tx") == nil {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	return r.getEntry(domain.CustodyEntryKey(swapId, legIndex))
}

func (r custodyRepositoryImpl) GetEntriesForSwap(
	ctx context.Context, swapId string,
) ([]*domain.CustodyEntry, error) {
	if ctx.Value("tx") == nil {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	entries := make([]*domain.CustodyEntry, 0)
	for _, entry := range r.store.entries {
		if entry.SwapId == swapId {
			entry := entry
			entries = append(entries, &entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LegIndex < entries[j].LegIndex
	})
	return entries, nil
}

func (r custodyRepositoryImpl) GetAllEntries(
	ctx context.Context,
) ([]*domain.CustodyEntry, error) {
	if ctx.Value("tx") == nil {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	entries := make([]*domain.CustodyEntry, 0, len(r.store.entries))
	for _, entry := range r.store.entries {
		entry := entry
		entries = append(entries, &entry)
	}
	return entries, nil
}

func (r custodyRepositoryImpl) UpdateEntry(
	ctx context.Context, swapId string, legIndex int,
	updateFn func(*domain.CustodyEntry) (*domain.CustodyEntry, error),
) error {
	if ctx.Value("tx") == nil {
		r.store.locker.Lock()
		defer r.store.locker.Unlock()
	}

	key := domain.CustodyEntryKey(swapId, legIndex)

	currentEntry, err := r.getEntry(key)
	if err != nil {
		return err
	}

	updatedEntry, err := updateFn(currentEntry)
	if err != nil {
		return err
	}

	r.store.entries[key] = *updatedEntry
	return nil
}

func (r custodyRepositoryImpl) getEntry(key string) (*domain.CustodyEntry, error) {
	entry, ok := r.store.entries[key]
	if !ok {
		return nil, domain.ErrCustodyEntryNotFound
	}
	return &entry, nil
}
