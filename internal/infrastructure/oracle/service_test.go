package oracle_test

import (
	"context"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/htlx-network/htlx-daemon/internal/infrastructure/oracle"
)

func TestStaticCredentialOracle(t *testing.T) {
	ctx := context.Background()
	svc := oracle.NewStaticCredentialOracle()

	credential, err := svc.CredentialOf(ctx, "alice")
	require.NoError(t, err)
	require.Empty(t, credential)

	svc.SetCredential("alice", "kyc-tier-2")
	credential, err = svc.CredentialOf(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "kyc-tier-2", credential)

	svc.SetCredential("alice", "")
	credential, err = svc.CredentialOf(ctx, "alice")
	require.NoError(t, err)
	require.Empty(t, credential)
}

func TestFixedRateYieldOracle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	testClock := clock.NewTestClock(now)

	svc := oracle.NewFixedRateYieldOracle(map[string]decimal.Decimal{
		"vault-usd": decimal.NewFromFloat(0.05),
	}, testClock)

	oneYearAgo := now.Add(-365 * 24 * time.Hour)

	// A full year at 5% on a 1000 principal accrues 50.
	yield, err := svc.AccruedYield(
		ctx, "vault-usd", decimal.NewFromInt(1000), oneYearAgo,
	)
	require.NoError(t, err)
	require.True(t, yield.Equal(decimal.NewFromInt(50)), yield.String())

	// No rate configured for the asset.
	yield, err = svc.AccruedYield(ctx, "usd", decimal.NewFromInt(1000), oneYearAgo)
	require.NoError(t, err)
	require.True(t, yield.IsZero())

	// Positions opened now or in the future accrue nothing.
	yield, err = svc.AccruedYield(ctx, "vault-usd", decimal.NewFromInt(1000), now)
	require.NoError(t, err)
	require.True(t, yield.IsZero())
}
