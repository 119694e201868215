package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
)

func TestNewCustodyEntry(t *testing.T) {
	swapId := randomHex(32)
	leg := newYieldLeg("alice", 100, 5)
	escrowedAt := time.Now()

	entry := domain.NewCustodyEntry(swapId, 0, leg, escrowedAt)
	require.Equal(t, swapId, entry.SwapId)
	require.Equal(t, 0, entry.LegIndex)
	require.Equal(t, "alice", entry.Owner)
	require.Equal(t, leg.Asset, entry.Asset)
	require.True(t, decimal.NewFromInt(105).Equal(entry.Amount))
	require.True(t, entry.IsEscrowed())
	require.False(t, entry.IsSettled())
	require.Equal(t, escrowedAt, entry.EscrowedAt)
	require.Equal(t, domain.CustodyEntryKey(swapId, 0), entry.Key())
}

func TestCustodyEntryRelease(t *testing.T) {
	t.Run("to_counterparty", func(t *testing.T) {
		entry := newEscrowedEntry()
		settledAt := time.Now()

		ok, err := entry.Release("bob", settledAt)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, domain.CustodyStatusReleased, entry.Status)
		require.Equal(t, "bob", entry.ReleasedTo)
		require.Equal(t, settledAt, entry.SettledAt)
		require.True(t, entry.IsSettled())
	})

	t.Run("back_to_owner", func(t *testing.T) {
		entry := newEscrowedEntry()

		ok, err := entry.Release("alice", time.Now())
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, domain.CustodyStatusRefunded, entry.Status)
		require.Equal(t, "alice", entry.ReleasedTo)
		require.True(t, entry.IsSettled())
	})
}

func TestFailingCustodyEntryRelease(t *testing.T) {
	entry := newEscrowedEntry()
	ok, err := entry.Release("bob", time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = entry.Release("carol", time.Now())
	require.EqualError(t, err, domain.ErrCustodyEntryNotEscrowed.Error())
	require.False(t, ok)
	require.Equal(t, "bob", entry.ReleasedTo)
}

func newEscrowedEntry() *domain.CustodyEntry {
	return domain.NewCustodyEntry(randomHex(32), 0, newLeg("alice", 100), time.Now())
}
