package custodian

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"

	"github.com/htlx-network/htlx-daemon/internal/core/ports"
)

// BadgerProvider persists balances on a badger store so that funds survive
// across processes. Both rows touched by a transfer move within a single
// datastore transaction.
type BadgerProvider struct {
	store  *badgerhold.Store
	locker *sync.Mutex
}

var _ ports.CustodyProvider = (*BadgerProvider)(nil)

// NewBadgerProvider opens (or creates if not existing) the badger store on
// disk at the given data dir and returns a provider backed by it. An empty
// data dir makes the store live in memory, useful for testing.
func NewBadgerProvider(baseDbDir string, logger badger.Logger) (*BadgerProvider, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "custody")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening custody db: %w", err)
	}

	return &BadgerProvider{
		store:  store,
		locker: &sync.Mutex{},
	}, nil
}

// Close closes the underlying store.
func (p *BadgerProvider) Close() error {
	return p.store.Close()
}

// Fund credits the holder with the given amount of the asset.
func (p *BadgerProvider) Fund(asset, holder string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("amount must not be negative")
	}

	p.locker.Lock()
	defer p.locker.Unlock()

	tx := p.store.Badger().NewTransaction(true)
	defer tx.Discard()

	if err := p.credit(tx, asset, holder, amount); err != nil {
		return err
	}
	return tx.Commit()
}

// Transfer moves the given amount of the asset between the two holders. It
// fails without side effects if the sender balance is insufficient.
func (p *BadgerProvider) Transfer(
	_ context.Context, asset, from, to string, amount decimal.Decimal,
) error {
	if amount.IsNegative() {
		return fmt.Errorf("amount must not be negative")
	}

	p.locker.Lock()
	defer p.locker.Unlock()

	tx := p.store.Badger().NewTransaction(true)
	defer tx.Discard()

	sender, err := p.getAccount(tx, asset, from)
	if err != nil {
		return err
	}
	if sender.Balance.LessThan(amount) {
		return fmt.Errorf(
			"insufficient funds: %s holds %s %s, cannot move %s",
			from, sender.Balance, asset, amount,
		)
	}

	sender.Balance = sender.Balance.Sub(amount)
	if err := p.store.TxUpsert(tx, accountKey(asset, from), sender); err != nil {
		return err
	}
	if err := p.credit(tx, asset, to, amount); err != nil {
		return err
	}
	return tx.Commit()
}

// BalanceOf returns the amount of the asset held by the holder, zero if the
// account was never funded.
func (p *BadgerProvider) BalanceOf(
	_ context.Context, asset, holder string,
) (decimal.Decimal, error) {
	p.locker.Lock()
	defer p.locker.Unlock()

	tx := p.store.Badger().NewTransaction(false)
	defer tx.Discard()

	account, err := p.getAccount(tx, asset, holder)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// Accounts returns all non-zero balances sorted by asset and holder.
func (p *BadgerProvider) Accounts(_ context.Context) ([]Account, error) {
	p.locker.Lock()
	defer p.locker.Unlock()

	var accounts []Account
	if err := p.store.Find(&accounts, nil); err != nil {
		return nil, err
	}

	list := make([]Account, 0, len(accounts))
	for _, account := range accounts {
		if account.Balance.IsZero() {
			continue
		}
		list = append(list, account)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Asset != list[j].Asset {
			return list[i].Asset < list[j].Asset
		}
		return list[i].Holder < list[j].Holder
	})
	return list, nil
}

func (p *BadgerProvider) getAccount(
	tx *badger.Txn, asset, holder string,
) (*Account, error) {
	var account Account
	if err := p.store.TxGet(tx, accountKey(asset, holder), &account); err != nil {
		if err == badgerhold.ErrNotFound {
			return &Account{Asset: asset, Holder: holder, Balance: decimal.Zero}, nil
		}
		return nil, err
	}
	return &account, nil
}

func (p *BadgerProvider) credit(
	tx *badger.Txn, asset, holder string, amount decimal.Decimal,
) error {
	account, err := p.getAccount(tx, asset, holder)
	if err != nil {
		return err
	}
	account.Balance = account.Balance.Add(amount)
	return p.store.TxUpsert(tx, accountKey(asset, holder), account)
}

func accountKey(asset, holder string) string {
	return fmt.Sprintf("%s/%s", asset, holder)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			for {
				<-ticker.C
				if err := db.Badger().RunValueLogGC(0.5); err != nil &&
					err != badger.ErrNoRewrite {
					log.Error(err)
				}
			}
		}()
	}

	return db, nil
}
