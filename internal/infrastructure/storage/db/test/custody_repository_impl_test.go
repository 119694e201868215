package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
	"github.com/htlx-network/htlx-daemon/internal/core/ports"
	dbbadger "github.com/htlx-network/htlx-daemon/internal/infrastructure/storage/db/badger"
	"github.com/htlx-network/htlx-daemon/internal/infrastructure/storage/db/inmemory"
)

func TestCustodyRepositoryImplementations(t *testing.T) {
	repositories := createCustodyRepositories(t)

	for i := range repositories {
		repo := repositories[i]

		t.Run(repo.Name, func(t *testing.T) {
			t.Parallel()

			t.Run("testAddAndGetEntry", func(t *testing.T) {
				t.Parallel()
				testAddAndGetEntry(t, repo)
			})

			t.Run("testAddEntryTwice", func(t *testing.T) {
				t.Parallel()
				testAddEntryTwice(t, repo)
			})

			t.Run("testGetEntryNotFound", func(t *testing.T) {
				t.Parallel()
				testGetEntryNotFound(t, repo)
			})

			t.Run("testGetEntriesForSwap", func(t *testing.T) {
				t.Parallel()
				testGetEntriesForSwap(t, repo)
			})

			t.Run("testUpdateEntry", func(t *testing.T) {
				t.Parallel()
				testUpdateEntry(t, repo)
			})
		})
	}
}

func testAddAndGetEntry(t *testing.T, repo custodyRepository) {
	swapId := randomHex(32)
	entry := makeRandomEntry(swapId, 0)

	iEntry, err := repo.write(func(ctx context.Context) (interface{}, error) {
		if err := repo.Repository.AddEntry(ctx, entry); err != nil {
			return nil, err
		}
		return repo.Repository.GetEntry(ctx, swapId, 0)
	})
	require.NoError(t, err)
	storedEntry, ok := iEntry.(*domain.CustodyEntry)
	require.True(t, ok)
	require.Equal(t, entry.Key(), storedEntry.Key())
	require.True(t, storedEntry.IsEscrowed())
	require.True(t, entry.Amount.Equal(storedEntry.Amount))
}

func testAddEntryTwice(t *testing.T, repo custodyRepository) {
	entry := makeRandomEntry(randomHex(32), 0)

	_, err := repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.Repository.AddEntry(ctx, entry)
	})
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.Repository.AddEntry(ctx, entry)
	})
	require.EqualError(t, err, domain.ErrCustodyEntryAlreadyExists.Error())
}

func testGetEntryNotFound(t *testing.T, repo custodyRepository) {
	iEntry, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.Repository.GetEntry(ctx, randomHex(32), 0)
	})
	require.EqualError(t, err, domain.ErrCustodyEntryNotFound.Error())
	require.Nil(t, iEntry)
}

func testGetEntriesForSwap(t *testing.T, repo custodyRepository) {
	swapId := randomHex(32)

	iEntries, err := repo.write(func(ctx context.Context) (interface{}, error) {
		// Inserted out of order on purpose, reads must sort by leg index.
		if err := repo.Repository.AddEntry(
			ctx, makeRandomEntry(swapId, 1),
		); err != nil {
			return nil, err
		}
		if err := repo.Repository.AddEntry(
			ctx, makeRandomEntry(swapId, 0),
		); err != nil {
			return nil, err
		}
		return repo.Repository.GetEntriesForSwap(ctx, swapId)
	})
	require.NoError(t, err)
	entries, ok := iEntries.([]*domain.CustodyEntry)
	require.True(t, ok)
	require.Len(t, entries, 2)
	require.Equal(t, 0, entries[0].LegIndex)
	require.Equal(t, 1, entries[1].LegIndex)

	iEntries, err = repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.Repository.GetEntriesForSwap(ctx, randomHex(32))
	})
	require.NoError(t, err)
	entries, ok = iEntries.([]*domain.CustodyEntry)
	require.True(t, ok)
	require.Len(t, entries, 0)
}

func testUpdateEntry(t *testing.T, repo custodyRepository) {
	swapId := randomHex(32)
	entry := makeRandomEntry(swapId, 0)
	receiver := randomId()

	iEntry, err := repo.write(func(ctx context.Context) (interface{}, error) {
		if err := repo.Repository.AddEntry(ctx, entry); err != nil {
			return nil, err
		}
		if err := repo.Repository.UpdateEntry(
			ctx, swapId, 0,
			func(e *domain.CustodyEntry) (*domain.CustodyEntry, error) {
				if _, err := e.Release(receiver, time.Now()); err != nil {
					return nil, err
				}
				return e, nil
			},
		); err != nil {
			return nil, err
		}
		return repo.Repository.GetEntry(ctx, swapId, 0)
	})
	require.NoError(t, err)
	storedEntry, ok := iEntry.(*domain.CustodyEntry)
	require.True(t, ok)
	require.True(t, storedEntry.IsSettled())
	require.Equal(t, receiver, storedEntry.ReleasedTo)
}

func createCustodyRepositories(t *testing.T) []custodyRepository {
	inmemoryDBManager := inmemory.NewRepoManager()
	badgerDBManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)

	return []custodyRepository{
		{
			Name:       "badger",
			DBManager:  badgerDBManager,
			Repository: badgerDBManager.CustodyRepository(),
		},
		{
			Name:       "inmemory",
			DBManager:  inmemoryDBManager,
			Repository: inmemoryDBManager.CustodyRepository(),
		},
	}
}

type custodyRepository struct {
	Name       string
	DBManager  ports.RepoManager
	Repository domain.CustodyRepository
}

func (r custodyRepository) read(query func(context.Context) (interface{}, error)) (interface{}, error) {
	return r.DBManager.RunTransaction(context.Background(), true, query)
}

func (r custodyRepository) write(query func(context.Context) (interface{}, error)) (interface{}, error) {
	return r.DBManager.RunTransaction(context.Background(), false, query)
}
