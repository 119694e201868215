package dbbadger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
	"github.com/htlx-network/htlx-daemon/internal/core/ports"
)

// maxTxAttempts is the number of times a transaction discarded because of a
// conflict is replayed before giving up.
const maxTxAttempts = 5

type repoManager struct {
	store *badgerhold.Store

	swapRepository    domain.SwapRepository
	custodyRepository domain.CustodyRepository
}

// NewRepoManager opens (or creates if not existing) the badger store on disk
// at the given data dir and returns a ports.RepoManager backed by it. An
// empty data dir makes the store live in memory, useful for testing.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "swaps")
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening swaps db: %w", err)
	}

	return &repoManager{
		store:             store,
		swapRepository:    NewSwapRepositoryImpl(store),
		custodyRepository: NewCustodyRepositoryImpl(store),
	}, nil
}

func (d *repoManager) SwapRepository() domain.SwapRepository {
	return d.swapRepository
}

func (d *repoManager) CustodyRepository() domain.CustodyRepository {
	return d.custodyRepository
}

func (d *repoManager) Close() {
	d.store.Close()
}

// NewTransaction implements the RepoManager interface.
func (d *repoManager) NewTransaction() ports.Transaction {
	return d.store.Badger().NewTransaction(true)
}

// RunTransaction runs the handler within a badger transaction injected into
// the context. Writable transactions discarded at commit time because of a
// conflict are replayed up to maxTxAttempts times.
func (d *repoManager) RunTransaction(
	ctx context.Context, readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	var commitErr error
	for i := 0; i < maxTxAttempts; i++ {
		tx := d.store.Badger().NewTransaction(!readOnly)
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

		if commitErr = tx.Commit(); commitErr == nil {
			return res, nil
		}
		if commitErr != badger.ErrConflict {
			return nil, commitErr
		}
	}
	return nil, commitErr
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)

	err := en.Encode(value)
	if err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	var buff bytes.Buffer
	de := json.NewDecoder(&buff)

	_, err := buff.Write(data)
	if err != nil {
		return err
	}

	return de.Decode(value)
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
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
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
