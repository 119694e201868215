package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
	"github.com/htlx-network/htlx-daemon/internal/core/ports"
	dbbadger "github.com/htlx-network/htlx-daemon/internal/infrastructure/storage/db/badger"
	"github.com/htlx-network/htlx-daemon/internal/infrastructure/storage/db/inmemory"
)

func TestSwapRepositoryImplementations(t *testing.T) {
	repositories := createSwapRepositories(t)

	for i := range repositories {
		repo := repositories[i]

		t.Run(repo.Name, func(t *testing.T) {
			t.Parallel()

			t.Run("testAddAndGetSwap", func(t *testing.T) {
				t.Parallel()
				testAddAndGetSwap(t, repo)
			})

			t.Run("testAddSwapTwice", func(t *testing.T) {
				t.Parallel()
				testAddSwapTwice(t, repo)
			})

			t.Run("testGetSwapNotFound", func(t *testing.T) {
				t.Parallel()
				testGetSwapNotFound(t, repo)
			})

			t.Run("testGetSwapsForParty", func(t *testing.T) {
				t.Parallel()
				testGetSwapsForParty(t, repo)
			})

			t.Run("testUpdateSwap", func(t *testing.T) {
				t.Parallel()
				testUpdateSwap(t, repo)
			})

			t.Run("testUpdateSwapRollback", func(t *testing.T) {
				t.Parallel()
				testUpdateSwapRollback(t, repo)
			})
		})
	}
}

func testAddAndGetSwap(t *testing.T, repo swapRepository) {
	swap := makeRandomSwap()

	iSwap, err := repo.write(func(ctx context.Context) (interface{}, error) {
		if err := repo.Repository.AddSwap(ctx, swap); err != nil {
			return nil, err
		}
		return repo.Repository.GetSwap(ctx, swap.Id)
	})
	require.NoError(t, err)
	storedSwap, ok := iSwap.(*domain.Swap)
	require.True(t, ok)
	require.Equal(t, swap.Id, storedSwap.Id)
	require.Equal(t, swap.Commitment, storedSwap.Commitment)
	require.Len(t, storedSwap.Legs, 2)
	require.True(t, storedSwap.IsInitiated())
}

func testAddSwapTwice(t *testing.T, repo swapRepository) {
	swap := makeRandomSwap()

	_, err := repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.Repository.AddSwap(ctx, swap)
	})
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.Repository.AddSwap(ctx, swap)
	})
	require.EqualError(t, err, domain.ErrSwapAlreadyExists.Error())

	// Settling the swap must not free its id.
	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.Repository.UpdateSwap(
			ctx, swap.Id, func(s *domain.Swap) (*domain.Swap, error) {
				if _, err := s.Refund(s.ExpiresAt()); err != nil {
					return nil, err
				}
				return s, nil
			},
		)
	})
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.Repository.AddSwap(ctx, swap)
	})
	require.EqualError(t, err, domain.ErrSwapAlreadyExists.Error())
}

func testGetSwapNotFound(t *testing.T, repo swapRepository) {
	iSwap, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.Repository.GetSwap(ctx, randomHex(32))
	})
	require.EqualError(t, err, domain.ErrSwapNotFound.Error())
	require.Nil(t, iSwap)
}

func testGetSwapsForParty(t *testing.T, repo swapRepository) {
	swap := makeRandomSwap()

	iSwaps, err := repo.write(func(ctx context.Context) (interface{}, error) {
		if err := repo.Repository.AddSwap(ctx, swap); err != nil {
			return nil, err
		}
		return repo.Repository.GetSwapsForParty(ctx, swap.Participant)
	})
	require.NoError(t, err)
	swaps, ok := iSwaps.([]*domain.Swap)
	require.True(t, ok)
	require.Len(t, swaps, 1)
	require.Equal(t, swap.Id, swaps[0].Id)

	iSwaps, err = repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.Repository.GetSwapsForParty(ctx, randomId())
	})
	require.NoError(t, err)
	swaps, ok = iSwaps.([]*domain.Swap)
	require.True(t, ok)
	require.Len(t, swaps, 0)
}

func testUpdateSwap(t *testing.T, repo swapRepository) {
	swap := makeRandomSwap()
	secret, commitment := randomSecret()
	swap.Commitment = commitment

	iSwap, err := repo.write(func(ctx context.Context) (interface{}, error) {
		if err := repo.Repository.AddSwap(ctx, swap); err != nil {
			return nil, err
		}
		if err := repo.Repository.UpdateSwap(
			ctx, swap.Id, func(s *domain.Swap) (*domain.Swap, error) {
				if _, err := s.Complete(secret, time.Now()); err != nil {
					return nil, err
				}
				return s, nil
			},
		); err != nil {
			return nil, err
		}
		return repo.Repository.GetSwap(ctx, swap.Id)
	})
	require.NoError(t, err)
	storedSwap, ok := iSwap.(*domain.Swap)
	require.True(t, ok)
	require.True(t, storedSwap.IsCompleted())
	require.Equal(t, secret, storedSwap.RevealedSecret)
}

func testUpdateSwapRollback(t *testing.T, repo swapRepository) {
	expectedErr := errors.New("something went wrong")
	swap := makeRandomSwap()

	iSwap, err := repo.write(func(ctx context.Context) (interface{}, error) {
		if err := repo.Repository.AddSwap(ctx, swap); err != nil {
			return nil, err
		}
		if err := repo.Repository.UpdateSwap(
			ctx, swap.Id, func(s *domain.Swap) (*domain.Swap, error) {
				return nil, expectedErr
			},
		); err != nil {
			return nil, err
		}
		return repo.Repository.GetSwap(ctx, swap.Id)
	})
	require.EqualError(t, err, expectedErr.Error())
	require.Nil(t, iSwap)

	// The swap inserted within the discarded transaction must be gone.
	iSwap, err = repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.Repository.GetSwap(ctx, swap.Id)
	})
	require.EqualError(t, err, domain.ErrSwapNotFound.Error())
	require.Nil(t, iSwap)
}

func createSwapRepositories(t *testing.T) []swapRepository {
	inmemoryDBManager := inmemory.NewRepoManager()
	badgerDBManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)

	return []swapRepository{
		{
			Name:       "badger",
			DBManager:  badgerDBManager,
			Repository: badgerDBManager.SwapRepository(),
		},
		{
			Name:       "inmemory",
			DBManager:  inmemoryDBManager,
			Repository: inmemoryDBManager.SwapRepository(),
		},
	}
}

type swapRepository struct {
	Name       string
	DBManager  ports.RepoManager
	Repository domain.SwapRepository
}

func (r swapRepository) read(query func(context.Context) (interface{}, error)) (interface{}, error) {
	return r.DBManager.RunTransaction(context.Background(), true, query)
}

func (r swapRepository) write(query func(context.Context) (interface{}, error)) (interface{}, error) {
	return r.DBManager.RunTransaction(context.Background(), false, query)
}
