package domain_test

import (
	"crypto/rand"
	"encoding/hex"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
)

func TestNewSwap(t *testing.T) {
	commitment := domain.HashSecret(randomBytes(domain.SecretByteLen))

	tests := []struct {
		name string
		legs []domain.SwapLeg
	}{
		{
			name: "with_single_leg",
			legs: []domain.SwapLeg{newLeg("alice", 100)},
		},
		{
			name: "with_both_legs",
			legs: []domain.SwapLeg{newLeg("alice", 100), newLeg("bob", 50)},
		},
		{
			name: "with_yield_bearing_legs",
			legs: []domain.SwapLeg{
				newYieldLeg("alice", 100, 5), newYieldLeg("bob", 100, 3),
			},
		},
		{
			name: "with_credential_gated_leg",
			legs: []domain.SwapLeg{newCredentialLeg("alice", 100, "cred-123")},
		},
	}

	for i := range tests {
		tt := tests[i]

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			now := time.Now()
			swap, err := domain.NewSwap(
				"alice", "bob", tt.legs, commitment, time.Hour, now, "",
			)
			require.NoError(t, err)
			require.NotNil(t, swap)
			require.Len(t, swap.Id, 64)
			require.Equal(t, domain.DeriveSwapId(
				"alice", "bob", commitment, swap.Nonce,
			), swap.Id)
			require.True(t, swap.IsInitiated())
			require.False(t, swap.IsFinalized())
			require.Empty(t, swap.RevealedSecret)
			require.Equal(t, commitment, swap.Commitment)
			require.Equal(t, now.Add(time.Hour), swap.ExpiresAt())
		})
	}
}

func TestFailingNewSwap(t *testing.T) {
	commitment := domain.HashSecret(randomBytes(domain.SecretByteLen))
	legs := []domain.SwapLeg{newLeg("alice", 100)}

	tests := []struct {
		name             string
		initiator        string
		participant      string
		legs             []domain.SwapLeg
		commitment       string
		timeLockDuration time.Duration
		expectedError    error
	}{
		{
			name:             "missing_initiator",
			participant:      "bob",
			legs:             legs,
			commitment:       commitment,
			timeLockDuration: time.Hour,
			expectedError:    domain.ErrSwapMissingParties,
		},
		{
			name:             "missing_participant",
			initiator:        "alice",
			legs:             legs,
			commitment:       commitment,
			timeLockDuration: time.Hour,
			expectedError:    domain.ErrSwapMissingParties,
		},
		{
			name:             "same_party",
			initiator:        "alice",
			participant:      "alice",
			legs:             legs,
			commitment:       commitment,
			timeLockDuration: time.Hour,
			expectedError:    domain.ErrSwapSameParty,
		},
		{
			name:             "no_legs",
			initiator:        "alice",
			participant:      "bob",
			legs:             nil,
			commitment:       commitment,
			timeLockDuration: time.Hour,
			expectedError:    domain.ErrSwapInvalidLegCount,
		},
		{
			name:        "too_many_legs",
			initiator:   "alice",
			participant: "bob",
			legs: []domain.SwapLeg{
				newLeg("alice", 100), newLeg("bob", 50), newLeg("bob", 25),
			},
			commitment:       commitment,
			timeLockDuration: time.Hour,
			expectedError:    domain.ErrSwapInvalidLegCount,
		},
		{
			name:             "first_leg_not_owned_by_initiator",
			initiator:        "alice",
			participant:      "bob",
			legs:             []domain.SwapLeg{newLeg("bob", 100)},
			commitment:       commitment,
			timeLockDuration: time.Hour,
			expectedError:    domain.ErrSwapLegOwnerMismatch,
		},
		{
			name:             "second_leg_not_owned_by_participant",
			initiator:        "alice",
			participant:      "bob",
			legs:             []domain.SwapLeg{newLeg("alice", 100), newLeg("carol", 50)},
			commitment:       commitment,
			timeLockDuration: time.Hour,
			expectedError:    domain.ErrSwapLegOwnerMismatch,
		},
		{
			name:             "zero_amount_leg",
			initiator:        "alice",
			participant:      "bob",
			legs:             []domain.SwapLeg{newLeg("alice", 0)},
			commitment:       commitment,
			timeLockDuration: time.Hour,
			expectedError:    domain.ErrLegInvalidAmount,
		},
		{
			name:             "malformed_commitment",
			initiator:        "alice",
			participant:      "bob",
			legs:             legs,
			commitment:       "not-a-digest",
			timeLockDuration: time.Hour,
			expectedError:    domain.ErrInvalidCommitment,
		},
		{
			name:             "zero_commitment",
			initiator:        "alice",
			participant:      "bob",
			legs:             legs,
			commitment:       hex.EncodeToString(make([]byte, domain.CommitmentByteLen)),
			timeLockDuration: time.Hour,
			expectedError:    domain.ErrInvalidCommitment,
		},
		{
			name:          "zero_time_lock",
			initiator:     "alice",
			participant:   "bob",
			legs:          legs,
			commitment:    commitment,
			expectedError: domain.ErrSwapInvalidTimeLock,
		},
		{
			name:             "negative_time_lock",
			initiator:        "alice",
			participant:      "bob",
			legs:             legs,
			commitment:       commitment,
			timeLockDuration: -time.Hour,
			expectedError:    domain.ErrSwapInvalidTimeLock,
		},
	}

	for i := range tests {
		tt := tests[i]

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			swap, err := domain.NewSwap(
				tt.initiator, tt.participant, tt.legs, tt.commitment,
				tt.timeLockDuration, time.Now(), "",
			)
			require.EqualError(t, err, tt.expectedError.Error())
			require.Nil(t, swap)
		})
	}
}

func TestSwapComplete(t *testing.T) {
	secret, commitment := randomSecret()
	swap := newSwapInitiated(commitment)
	settledAt := time.Now()

	ok, err := swap.Complete(secret, settledAt)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, swap.IsCompleted())
	require.True(t, swap.IsFinalized())
	require.Equal(t, secret, swap.RevealedSecret)
	require.Equal(t, settledAt, swap.SettledAt)

	t.Run("idempotent_on_completed_swap", func(t *testing.T) {
		ok, err := swap.Complete(secret, time.Now())
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, secret, swap.RevealedSecret)
		require.Equal(t, settledAt, swap.SettledAt)
	})
}

func TestFailingSwapComplete(t *testing.T) {
	t.Run("wrong_secret", func(t *testing.T) {
		_, commitment := randomSecret()
		otherSecret, _ := randomSecret()
		swap := newSwapInitiated(commitment)

		ok, err := swap.Complete(otherSecret, time.Now())
		require.EqualError(t, err, domain.ErrInvalidSecret.Error())
		require.False(t, ok)
		require.True(t, swap.IsInitiated())
		require.Empty(t, swap.RevealedSecret)
	})

	t.Run("malformed_secret", func(t *testing.T) {
		_, commitment := randomSecret()
		swap := newSwapInitiated(commitment)

		ok, err := swap.Complete("not-hex-at-all", time.Now())
		require.EqualError(t, err, domain.ErrInvalidSecret.Error())
		require.False(t, ok)
		require.True(t, swap.IsInitiated())
	})

	t.Run("refunded_swap", func(t *testing.T) {
		secret, commitment := randomSecret()
		swap := newSwapRefunded(commitment)

		ok, err := swap.Complete(secret, time.Now())
		require.EqualError(t, err, domain.ErrSwapAlreadyFinalized.Error())
		require.False(t, ok)
		require.True(t, swap.IsRefunded())
		require.Empty(t, swap.RevealedSecret)
	})
}

func TestSwapRefund(t *testing.T) {
	_, commitment := randomSecret()
	swap := newSwapInitiated(commitment)
	now := swap.ExpiresAt().Add(time.Second)

	ok, err := swap.Refund(now)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, swap.IsRefunded())
	require.True(t, swap.IsFinalized())
	require.Equal(t, now, swap.SettledAt)

	t.Run("idempotent_on_refunded_swap", func(t *testing.T) {
		ok, err := swap.Refund(now.Add(time.Hour))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, now, swap.SettledAt)
	})

	t.Run("at_exact_expiry", func(t *testing.T) {
		swap := newSwapInitiated(commitment)

		ok, err := swap.Refund(swap.ExpiresAt())
		require.NoError(t, err)
		require.True(t, ok)
		require.True(t, swap.IsRefunded())
	})
}

func TestFailingSwapRefund(t *testing.T) {
	t.Run("time_lock_not_expired", func(t *testing.T) {
		_, commitment := randomSecret()
		swap := newSwapInitiated(commitment)

		ok, err := swap.Refund(swap.ExpiresAt().Add(-time.Second))
		require.EqualError(t, err, domain.ErrTimeLockNotExpired.Error())
		require.False(t, ok)
		require.True(t, swap.IsInitiated())
	})

	t.Run("completed_swap", func(t *testing.T) {
		secret, commitment := randomSecret()
		swap := newSwapInitiated(commitment)
		_, err := swap.Complete(secret, time.Now())
		require.NoError(t, err)

		ok, err := swap.Refund(swap.ExpiresAt().Add(time.Hour))
		require.EqualError(t, err, domain.ErrSwapAlreadyFinalized.Error())
		require.False(t, ok)
		require.True(t, swap.IsCompleted())
	})
}

func TestDeriveSwapId(t *testing.T) {
	_, commitment := randomSecret()
	nonce := randomId()

	id := domain.DeriveSwapId("alice", "bob", commitment, nonce)
	require.Len(t, id, 64)
	require.Equal(t, id, domain.DeriveSwapId("alice", "bob", commitment, nonce))
	require.NotEqual(t, id, domain.DeriveSwapId("alice", "bob", commitment, randomId()))
	require.NotEqual(t, id, domain.DeriveSwapId("bob", "alice", commitment, nonce))

	t.Run("replayed_nonce_reproduces_id", func(t *testing.T) {
		legs := []domain.SwapLeg{newLeg("alice", 100)}
		first, err := domain.NewSwap(
			"alice", "bob", legs, commitment, time.Hour, time.Now(), nonce,
		)
		require.NoError(t, err)
		second, err := domain.NewSwap(
			"alice", "bob", legs, commitment, time.Hour, time.Now(), nonce,
		)
		require.NoError(t, err)
		require.Equal(t, first.Id, second.Id)
	})
}

func newLeg(owner string, amount int64) domain.SwapLeg {
	return domain.SwapLeg{
		Owner:  owner,
		Asset:  "asset-" + randomHex(8),
		Amount: decimal.NewFromInt(amount),
	}
}

func newYieldLeg(owner string, amount, yield int64) domain.SwapLeg {
	leg := newLeg(owner, amount)
	leg.AccruedYield = decimal.NewFromInt(yield)
	return leg
}

func newCredentialLeg(owner string, amount int64, credential string) domain.SwapLeg {
	leg := newLeg(owner, amount)
	leg.RequiredCredential = credential
	return leg
}

func newSwapInitiated(commitment string) *domain.Swap {
	swap, err := domain.NewSwap(
		"alice", "bob",
		[]domain.SwapLeg{newLeg("alice", 100)},
		commitment, time.Hour, time.Now(), "",
	)
	if err != nil {
		panic(err)
	}
	return swap
}

func newSwapRefunded(commitment string) *domain.Swap {
	swap := newSwapInitiated(commitment)
	if _, err := swap.Refund(swap.ExpiresAt()); err != nil {
		panic(err)
	}
	return swap
}

func randomSecret() (string, string) {
	secret := randomBytes(domain.SecretByteLen)
	return hex.EncodeToString(secret), domain.HashSecret(secret)
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}

func randomId() string {
	return uuid.New().String()
}
