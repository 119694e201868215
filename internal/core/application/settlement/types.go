package settlement

import (
	"fmt"
	"time"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
)

var (
	// ErrServiceUnavailable is thrown when a dependency cannot be reached.
	ErrServiceUnavailable = fmt.Errorf("service is unavailable, retry later")
	// ErrServicePaused is thrown when settlements are administratively
	// suspended. Refunds of expired swaps are never subject to it.
	ErrServicePaused = fmt.Errorf("service is paused, retry later")
)

// InitiateSwapRequest carries everything needed to open a swap.
type InitiateSwapRequest struct {
	Initiator        string
	Participant      string
	Legs             []domain.SwapLeg
	Commitment       string
	TimeLockDuration time.Duration
	// EscrowParticipantLeg moves the participant leg into escrow upfront.
	// Left false, the leg is pulled lazily at completion time.
	EscrowParticipantLeg bool
	// Nonce differentiates swaps between the same parties locked behind the
	// same commitment. Left empty a fresh one is minted, replaying one
	// reproduces the id of the previous request.
	Nonce string
}

// CompleteSwapRequest settles a swap by revealing the secret.
type CompleteSwapRequest struct {
	Id     string
	Caller string
	Secret string
}

// RefundSwapRequest settles an expired swap by returning the escrowed value
// to its owners.
type RefundSwapRequest struct {
	Id     string
	Caller string
}
