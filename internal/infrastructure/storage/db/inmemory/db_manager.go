package inmemory

import (
	"context"
	"sync"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
	"github.com/htlx-network/htlx-daemon/internal/core/ports"
)

type swapInmemoryStore struct {
	swaps  map[string]domain.Swap
	locker *sync.Mutex
}

type custodyInmemoryStore struct {
	entries map[string]domain.CustodyEntry
	locker  *sync.Mutex
}

type RepoManager struct {
	swapStore    *swapInmemoryStore
	custodyStore *custodyInmemoryStore

	swapRepository    domain.SwapRepository
	custodyRepository domain.CustodyRepository
}

// NewRepoManager returns a ports.RepoManager keeping everything in volatile
// memory, useful for testing and one-shot tooling.
func NewRepoManager() ports.RepoManager {
	swapStore := &swapInmemoryStore{
		swaps:  make(map[string]domain.Swap),
		locker: &sync.Mutex{},
	}
	custodyStore := &custodyInmemoryStore{
		entries: make(map[string]domain.CustodyEntry),
		locker:  &sync.Mutex{},
	}

	return &RepoManager{
		swapStore:         swapStore,
		custodyStore:      custodyStore,
		swapRepository:    NewSwapRepositoryImpl(swapStore),
		custodyRepository: NewCustodyRepositoryImpl(custodyStore),
	}
}

func (d *RepoManager) SwapRepository() domain.SwapRepository {
	return d.swapRepository
}

func (d *RepoManager) CustodyRepository() domain.CustodyRepository {
	return d.custodyRepository
}

func (d *RepoManager) Close() {}

// NewTransaction locks the stores and snapshots their content. The lock is
// held until the transaction is committed or discarded, so transactions
// serialize with each other and with any direct repository access.
func (d *RepoManager) NewTransaction() ports.Transaction {
	d.swapStore.locker.Lock()
	d.custodyStore.locker.Lock()

	return &inmemoryTx{
		manager:         d,
		swapSnapshot:    copySwaps(d.swapStore.swaps),
		custodySnapshot: copyEntries(d.custodyStore.entries),
	}
}

// RunTransaction runs the handler within a transaction injected into the
// context. Repository accesses made through the handler context skip their
// own locking, the transaction already holds the store locks. On error the
// stores are restored to the snapshot taken when the transaction began.
func (d *RepoManager) RunTransaction(
	ctx context.Context, readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	tx := d.NewTransaction()
	txCtx := context.WithValue(ctx, "tx", tx)

	res, err := handler(txCtx)
	if err != nil {
		tx.Discard()
		return nil, err
	}

	if readOnly {
		tx.Discard()
		return res, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

type inmemoryTx struct {
	manager         *RepoManager
	swapSnapshot    map[string]domain.Swap
	custodySnapshot map[string]domain.CustodyEntry
	done            bool
}

func (tx *inmemoryTx) Commit() error {
	if tx.done {
		return nil
	}
	tx.done = true

	tx.manager.custodyStore.locker.Unlock()
	tx.manager.swapStore.locker.Unlock()
	return nil
}

func (tx *inmemoryTx) Discard() {
	if tx.done {
		return
	}
	tx.done = true

	tx.manager.swapStore.swaps = tx.swapSnapshot
	tx.manager.custodyStore.entries = tx.custodySnapshot

	tx.manager.custodyStore.locker.Unlock()
	tx.manager.swapStore.locker.Unlock()
}

func copySwaps(swaps map[string]domain.Swap) map[string]domain.Swap {
	snapshot := make(map[string]domain.Swap, len(swaps))
	for k, v := range swaps {
		v.Legs = append([]domain.SwapLeg(nil), v.Legs...)
		snapshot[k] = v
	}
	return snapshot
}

func copyEntries(entries map[string]domain.CustodyEntry) map[string]domain.CustodyEntry {
	snapshot := make(map[string]domain.CustodyEntry, len(entries))
	for k, v := range entries {
		snapshot[k] = v
	}
	return snapshot
}
