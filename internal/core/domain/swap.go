package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// SwapStatus represents the different statuses that a swap can assume.
// Statuses are monotonic, a swap never leaves a terminal one.
type SwapStatus int

const (
	// SwapStatusUndefined is the zero value, assumed by no stored swap.
	SwapStatusUndefined SwapStatus = iota * 10
	// SwapStatusInitiated marks a swap whose initiator leg is escrowed and
	// that waits for the secret to be revealed or the time lock to expire.
	SwapStatusInitiated
	// SwapStatusCompleted marks a swap settled by the reveal of the secret.
	// Terminal.
	SwapStatusCompleted
	// SwapStatusRefunded marks a swap settled by returning the escrowed
	// value to its owners after the time lock expired. Terminal.
	SwapStatusRefunded
)

func (s SwapStatus) String() string {
	switch s {
	case SwapStatusInitiated:
		return "initiated"
	case SwapStatusCompleted:
		return "completed"
	case SwapStatusRefunded:
		return "refunded"
	default:
		return "undefined"
	}
}

// IsFinal returns whether the status is terminal.
func (s SwapStatus) IsFinal() bool {
	return s == SwapStatusCompleted || s == SwapStatusRefunded
}

// Swap is the data structure representing a hash time-locked swap between
// two parties. The initiator locks the first leg behind the commitment of a
// secret of its choice, the participant settles the swap by revealing that
// secret before the time lock expires. Past the expiry the initiator can
// claim the escrowed value back.
type Swap struct {
	Id               string
	Initiator        string
	Participant      string
	Legs             []SwapLeg
	Commitment       string
	RevealedSecret   string
	Nonce            string
	CreatedAt        time.Time
	TimeLockDuration time.Duration
	SettledAt        time.Time
	Status           SwapStatus
}

// NewSwap returns a swap in Initiated status with an id deterministically
// derived from its parties, commitment and nonce, after validating all the
// given arguments. A fresh nonce is minted when the given one is empty,
// replaying a nonce reproduces the id of the previous swap. The first leg
// must be funded by the initiator, the optional second one by the
// participant.
func NewSwap(
	initiator, participant string, legs []SwapLeg, commitment string,
	timeLockDuration time.Duration, createdAt time.Time, nonce string,
) (*Swap, error) {
	if initiator == "" || participant == "" {
		return nil, ErrSwapMissingParties
	}
	if initiator == participant {
		return nil, ErrSwapSameParty
	}
	if len(legs) < 1 || len(legs) > 2 {
		return nil, ErrSwapInvalidLegCount
	}
	for _, leg := range legs {
		if err := leg.Validate(); err != nil {
			return nil, err
		}
	}
	if legs[0].Owner != initiator {
		return nil, ErrSwapLegOwnerMismatch
	}
	if len(legs) == 2 && legs[1].Owner != participant {
		return nil, ErrSwapLegOwnerMismatch
	}
	if err := ValidateCommitment(commitment); err != nil {
		return nil, err
	}
	if timeLockDuration <= 0 {
		return nil, ErrSwapInvalidTimeLock
	}

	if nonce == "" {
		nonce = uuid.New().String()
	}
	return &Swap{
		Id:               DeriveSwapId(initiator, participant, commitment, nonce),
		Initiator:        initiator,
		Participant:      participant,
		Legs:             legs,
		Commitment:       commitment,
		Nonce:            nonce,
		CreatedAt:        createdAt,
		TimeLockDuration: timeLockDuration,
		Status:           SwapStatusInitiated,
	}, nil
}

// DeriveSwapId returns the deterministic identifier of a swap, computed as
// the hex encoded SHA-256 digest of initiator, participant, commitment and
// nonce.
func DeriveSwapId(initiator, participant, commitment, nonce string) string {
	h := sha256.New()
	h.Write([]byte(initiator))
	h.Write([]byte("|"))
	h.Write([]byte(participant))
	h.Write([]byte("|"))
	h.Write([]byte(commitment))
	h.Write([]byte("|"))
	h.Write([]byte(nonce))
	return hex.EncodeToString(h.Sum(nil))
}

// Complete brings the swap from the Initiated to the Completed status by
// verifying that the given secret is the preimage of the commitment. The
// secret is recorded on the swap at this time and never rewritten.
func (s *Swap) Complete(secret string, settledAt time.Time) (bool, error) {
	if s.IsCompleted() {
		return true, nil
	}

	if !s.IsInitiated() {
		return false, ErrSwapAlreadyFinalized
	}

	if !VerifySecret(secret, s.Commitment) {
		return false, ErrInvalidSecret
	}

	s.RevealedSecret = secret
	s.SettledAt = settledAt
	s.Status = SwapStatusCompleted
	return true, nil
}

// Refund brings the swap from the Initiated to the Refunded status. The time
// lock must be expired at the given time, which is also recorded as the
// settlement time.
func (s *Swap) Refund(now time.Time) (bool, error) {
	if s.IsRefunded() {
		return true, nil
	}

	if !s.IsInitiated() {
		return false, ErrSwapAlreadyFinalized
	}

	if !s.IsExpiredAt(now) {
		return false, ErrTimeLockNotExpired
	}

	s.SettledAt = now
	s.Status = SwapStatusRefunded
	return true, nil
}

// ExpiresAt returns the time at which the swap becomes refundable.
func (s *Swap) ExpiresAt() time.Time {
	return s.CreatedAt.Add(s.TimeLockDuration)
}

// IsExpiredAt returns whether the time lock of the swap is expired at the
// given time.
func (s *Swap) IsExpiredAt(t time.Time) bool {
	return !t.Before(s.ExpiresAt())
}

// InitiatorLeg returns the leg funded by the initiator.
func (s *Swap) InitiatorLeg() SwapLeg {
	return s.Legs[0]
}

// ParticipantLeg returns the leg funded by the participant and whether the
// swap has one.
func (s *Swap) ParticipantLeg() (SwapLeg, bool) {
	if len(s.Legs) < 2 {
		return SwapLeg{}, false
	}
	return s.Legs[1], true
}

// IsInitiated returns whether the swap is in Initiated status.
func (s *Swap) IsInitiated() bool {
	return s.Status == SwapStatusInitiated
}

// IsCompleted returns whether the swap is in Completed status.
func (s *Swap) IsCompleted() bool {
	return s.Status == SwapStatusCompleted
}

// IsRefunded returns whether the swap is in Refunded status.
func (s *Swap) IsRefunded() bool {
	return s.Status == SwapStatusRefunded
}

// IsFinalized returns whether the swap reached a terminal status.
func (s *Swap) IsFinalized() bool {
	return s.Status.IsFinal()
}
