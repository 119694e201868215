package pubsub

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"

	"github.com/htlx-network/htlx-daemon/internal/core/ports"
)

var (
	subsBucket        = []byte("subscriptions")
	subsByEventBucket = []byte("subscriptionsbyevent")

	// separator equivalent character is ÿ.
	// Safe because subscriptions are serialized as JSON and the byte 255
	// never occurs in UTF-8 encoded text.
	separator = []byte{255}
)

// BucketStore is the minimal bucketed key-value storage needed to persist
// subscriptions and their indexing by event.
type BucketStore interface {
	AddToBucket(bucket, key, value []byte) error
	GetFromBucket(bucket, key []byte) ([]byte, error)
	GetAllFromBucket(bucket []byte) (map[string][]byte, error)
	RemoveFromBucket(bucket, key []byte) error
	Close() error
}

type store struct {
	store BucketStore
}

func (s store) Init() error {
	return nil
}

func (s store) Close() error {
	return s.store.Close()
}

func (s store) db() BucketStore {
	return s.store
}

var _ ports.PubSubStore = store{}

type inmemoryBucketStore struct {
	buckets map[string]map[string][]byte
	locker  *sync.RWMutex
}

// NewInMemoryBucketStore returns a volatile BucketStore, useful for testing
// and one-shot tooling.
func NewInMemoryBucketStore() BucketStore {
	return &inmemoryBucketStore{
		buckets: make(map[string]map[string][]byte),
		locker:  &sync.RWMutex{},
	}
}

func (s *inmemoryBucketStore) AddToBucket(bucket, key, value []byte) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	b, ok := s.buckets[string(bucket)]
	if !ok {
		b = make(map[string][]byte)
		s.buckets[string(bucket)] = b
	}
	b[string(key)] = append([]byte(nil), value...)
	return nil
}

func (s *inmemoryBucketStore) GetFromBucket(bucket, key []byte) ([]byte, error) {
	s.locker.RLock()
	defer s.locker.RUnlock()

	b, ok := s.buckets[string(bucket)]
	if !ok {
		return nil, nil
	}
	value, ok := b[string(key)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), value...), nil
}

func (s *inmemoryBucketStore) GetAllFromBucket(bucket []byte) (map[string][]byte, error) {
	s.locker.RLock()
	defer s.locker.RUnlock()

	all := make(map[string][]byte)
	for key, value := range s.buckets[string(bucket)] {
		all[key] = append([]byte(nil), value...)
	}
	return all, nil
}

func (s *inmemoryBucketStore) RemoveFromBucket(bucket, key []byte) error {
	s.locker.Lock()
	defer s.locker.Unlock()

	b, ok := s.buckets[string(bucket)]
	if !ok {
		return nil
	}
	delete(b, string(key))
	return nil
}

func (s *inmemoryBucketStore) Close() error {
	return nil
}

type badgerBucketStore struct {
	db *badger.DB
}

// NewBadgerBucketStore returns a BucketStore persisted on disk at the given
// data dir. An empty data dir makes the store live in memory.
func NewBadgerBucketStore(baseDbDir string, logger badger.Logger) (BucketStore, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, "pubsub")
	}

	isInMemory := len(dbDir) <= 0
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if isInMemory {
		opts.InMemory = true
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening pubsub db: %w", err)
	}
	return &badgerBucketStore{db}, nil
}

func (s *badgerBucketStore) AddToBucket(bucket, key, value []byte) error {
	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(bucketKey(bucket, key), value)
	})
}

func (s *badgerBucketStore) GetFromBucket(bucket, key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(bucketKey(bucket, key))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *badgerBucketStore) GetAllFromBucket(bucket []byte) (map[string][]byte, error) {
	all := make(map[string][]byte)
	prefix := bucketKey(bucket, nil)
	err := s.db.View(func(tx *badger.Txn) error {
		it := tx.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			key := item.Key()[len(prefix):]
			all[string(key)] = value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

func (s *badgerBucketStore) RemoveFromBucket(bucket, key []byte) error {
	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Delete(bucketKey(bucket, key))
	})
}

func (s *badgerBucketStore) Close() error {
	return s.db.Close()
}

func bucketKey(bucket, key []byte) []byte {
	prefixed := make([]byte, 0, len(bucket)+1+len(key))
	prefixed = append(prefixed, bucket...)
	prefixed = append(prefixed, '/')
	prefixed = append(prefixed, key...)
	return prefixed
}
