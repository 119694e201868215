// Package settlement implements the swap lifecycle: initiation with escrow
// of the funded legs, completion by secret reveal, refund after time lock
// expiry. Every operation runs to a definite outcome within a single storage
// transaction, partial custody transfers are compensated on failure.
package settlement

import (
	"context"
	"fmt"

	"github.com/lightningnetwork/lnd/clock"
	log "github.com/sirupsen/logrus"

	"github.com/htlx-network/htlx-daemon/internal/core/application/custody"
	"github.com/htlx-network/htlx-daemon/internal/core/application/pubsub"
	"github.com/htlx-network/htlx-daemon/internal/core/domain"
	"github.com/htlx-network/htlx-daemon/internal/core/ports"
	"github.com/htlx-network/htlx-daemon/pkg/swaputil"
)

type Service struct {
	repoManager ports.RepoManager
	custody     *custody.Adapter
	gate        ports.AccessGate
	pubsub      *pubsub.Service
	clock       clock.Clock

	locker *swaputil.KeyedMutex
}

// NewService returns the settlement service. A nil clock defaults to the
// wall clock, everything else is required.
func NewService(
	repoManager ports.RepoManager,
	custodyAdapter *custody.Adapter,
	gate ports.AccessGate,
	pubsubSvc *pubsub.Service,
	svcClock clock.Clock,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if custodyAdapter == nil {
		return nil, fmt.Errorf("missing custody adapter")
	}
	if gate == nil {
		return nil, fmt.Errorf("missing access gate")
	}
	if pubsubSvc == nil {
		return nil, fmt.Errorf("missing pubsub service")
	}
	if svcClock == nil {
		svcClock = clock.NewDefaultClock()
	}

	return &Service{
		repoManager: repoManager,
		custody:     custodyAdapter,
		gate:        gate,
		pubsub:      pubsubSvc,
		clock:       svcClock,
		locker:      swaputil.NewKeyedMutex(),
	}, nil
}

// InitiateSwap validates the request, escrows the funded legs and enters the
// swap in the registry, all atomically. A request replaying the nonce of a
// previous one maps to the same id and is rejected as a duplicate, whatever
// the status of the stored swap.
func (s *Service) InitiateSwap(
	ctx context.Context, req InitiateSwapRequest,
) (*domain.Swap, error) {
	if err := s.checkNotPaused(ctx); err != nil {
		return nil, err
	}
	if err := s.checkAuthorized(ctx, req.Initiator, ports.ActionInitiate); err != nil {
		return nil, err
	}

	swap, err := domain.NewSwap(
		req.Initiator, req.Participant, req.Legs, req.Commitment,
		req.TimeLockDuration, s.clock.Now(), req.Nonce,
	)
	if err != nil {
		return nil, err
	}

	s.locker.Lock(swap.Id)
	defer s.locker.Unlock(swap.Id)

	journal := s.custody.NewJournal()
	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			// The registry insert runs first so that a duplicate id fails
			// before any value moves.
			if err := s.repoManager.SwapRepository().AddSwap(ctx, swap); err != nil {
				return nil, err
			}

			if err := s.custody.Escrow(
				ctx, journal, swap.Id, 0, swap.InitiatorLeg(), swap.CreatedAt,
			); err != nil {
				return nil, err
			}

			if leg, ok := swap.ParticipantLeg(); ok && req.EscrowParticipantLeg {
				if err := s.custody.Escrow(
					ctx, journal, swap.Id, 1, leg, swap.CreatedAt,
				); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
	); err != nil {
		//nolint
		journal.Compensate(ctx)
		errorsCounter.WithLabelValues("initiate").Inc()
		return nil, err
	}

	log.Debugf("initiated swap with id %s", swap.Id)
	swapsInitiatedCounter.Inc()
	s.publishSwapInitiated(swap)

	return swap, nil
}

// CompleteSwap settles the swap in favor of its parties by verifying the
// given secret against the commitment. Only the participant can complete
// the swap, presenting the credential its legs demand. The revealed secret
// is recorded exactly once, on success.
func (s *Service) CompleteSwap(
	ctx context.Context, req CompleteSwapRequest,
) (*domain.Swap, error) {
	if err := s.checkNotPaused(ctx); err != nil {
		return nil, err
	}

	s.locker.Lock(req.Id)
	defer s.locker.Unlock(req.Id)

	swap, err := s.repoManager.SwapRepository().GetSwap(ctx, req.Id)
	if err != nil {
		return nil, err
	}

	// Guards run in a fixed order: status, caller, credentials and only
	// then the secret, so a probe cannot learn about the secret from a
	// swap it could never settle.
	if !swap.IsInitiated() {
		return nil, domain.ErrSwapAlreadyFinalized
	}
	if req.Caller != swap.Participant {
		return nil, domain.ErrUnauthorized
	}
	if err := s.checkAuthorized(ctx, req.Caller, ports.ActionComplete); err != nil {
		return nil, err
	}
	if err := s.custody.Validate(ctx, swap.InitiatorLeg(), swap.Participant); err != nil {
		return nil, err
	}
	participantLeg, hasParticipantLeg := swap.ParticipantLeg()
	if hasParticipantLeg {
		if err := s.custody.Validate(ctx, participantLeg, swap.Initiator); err != nil {
			return nil, err
		}
	}
	if !domain.VerifySecret(req.Secret, swap.Commitment) {
		return nil, domain.ErrInvalidSecret
	}

	now := s.clock.Now()
	journal := s.custody.NewJournal()
	var completedSwap *domain.Swap

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := s.repoManager.SwapRepository().UpdateSwap(
				ctx, req.Id, func(sw *domain.Swap) (*domain.Swap, error) {
					// Re-checked against the stored record, a lost race
					// surfaces here instead of releasing twice.
					if !sw.IsInitiated() {
						return nil, domain.ErrSwapAlreadyFinalized
					}
					if _, err := sw.Complete(req.Secret, now); err != nil {
						return nil, err
					}
					completedSwap = sw
					return sw, nil
				},
			); err != nil {
				return nil, err
			}

			if err := s.custody.Release(
				ctx, journal, req.Id, 0, swap.Participant, now,
			); err != nil {
				return nil, err
			}

			if hasParticipantLeg {
				if _, err := s.repoManager.CustodyRepository().GetEntry(
					ctx, req.Id, 1,
				); err != nil {
					if err != domain.ErrCustodyEntryNotFound {
						return nil, err
					}
					// The leg was never escrowed upfront, pull it now so
					// both releases settle through the same bookkeeping.
					if err := s.custody.Escrow(
						ctx, journal, req.Id, 1, participantLeg, now,
					); err != nil {
						return nil, err
					}
				}
				if err := s.custody.Release(
					ctx, journal, req.Id, 1, swap.Initiator, now,
				); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
	); err != nil {
		//nolint
		journal.Compensate(ctx)
		errorsCounter.WithLabelValues("complete").Inc()
		return nil, err
	}

	log.Debugf("completed swap with id %s", req.Id)
	swapsCompletedCounter.Inc()
	s.publishSwapCompleted(completedSwap)

	return completedSwap, nil
}

// RefundSwap settles an expired swap by returning every escrowed leg to its
// owner. Only the initiator can claim the refund. The operation deliberately
// skips the gate: a pause or a revoked authorization must never strand
// escrowed funds once the time lock expired.
func (s *Service) RefundSwap(
	ctx context.Context, req RefundSwapRequest,
) (*domain.Swap, error) {
	s.locker.Lock(req.Id)
	defer s.locker.Unlock(req.Id)

	swap, err := s.repoManager.SwapRepository().GetSwap(ctx, req.Id)
	if err != nil {
		return nil, err
	}

	if !swap.IsInitiated() {
		return nil, domain.ErrSwapAlreadyFinalized
	}
	if req.Caller != swap.Initiator {
		return nil, domain.ErrUnauthorized
	}

	now := s.clock.Now()
	if !swap.IsExpiredAt(now) {
		return nil, domain.ErrTimeLockNotExpired
	}

	journal := s.custody.NewJournal()
	var refundedSwap *domain.Swap

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := s.repoManager.SwapRepository().UpdateSwap(
				ctx, req.Id, func(sw *domain.Swap) (*domain.Swap, error) {
					if !sw.IsInitiated() {
						return nil, domain.ErrSwapAlreadyFinalized
					}
					if _, err := sw.Refund(now); err != nil {
						return nil, err
					}
					refundedSwap = sw
					return sw, nil
				},
			); err != nil {
				return nil, err
			}

			entries, err := s.repoManager.CustodyRepository().GetEntriesForSwap(
				ctx, req.Id,
			)
			if err != nil {
				return nil, err
			}
			for _, entry := range entries {
				if !entry.IsEscrowed() {
					continue
				}
				if err := s.custody.Release(
					ctx, journal, req.Id, entry.LegIndex, entry.Owner, now,
				); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
	); err != nil {
		//nolint
		journal.Compensate(ctx)
		errorsCounter.WithLabelValues("refund").Inc()
		return nil, err
	}

	log.Debugf("refunded swap with id %s", req.Id)
	swapsRefundedCounter.Inc()
	s.publishSwapRefunded(refundedSwap)

	return refundedSwap, nil
}

// GetSwap returns the swap with the given id.
func (s *Service) GetSwap(ctx context.Context, id string) (*domain.Swap, error) {
	return s.repoManager.SwapRepository().GetSwap(ctx, id)
}

// ListSwaps returns all the swaps in the registry.
func (s *Service) ListSwaps(ctx context.Context) ([]*domain.Swap, error) {
	swaps, err := s.repoManager.SwapRepository().GetAllSwaps(ctx)
	if err != nil {
		log.WithError(err).Debug("error while retrieving swaps")
		return nil, ErrServiceUnavailable
	}
	return swaps, nil
}

// ListSwapsForParty returns all the swaps where the given identity appears
// as either initiator or participant.
func (s *Service) ListSwapsForParty(
	ctx context.Context, party string,
) ([]*domain.Swap, error) {
	swaps, err := s.repoManager.SwapRepository().GetSwapsForParty(ctx, party)
	if err != nil {
		log.WithError(err).Debug("error while retrieving swaps")
		return nil, ErrServiceUnavailable
	}
	return swaps, nil
}

// GetCustodyEntries returns the ledger entries recorded for the given swap.
func (s *Service) GetCustodyEntries(
	ctx context.Context, id string,
) ([]*domain.CustodyEntry, error) {
	if _, err := s.repoManager.SwapRepository().GetSwap(ctx, id); err != nil {
		return nil, err
	}
	return s.repoManager.CustodyRepository().GetEntriesForSwap(ctx, id)
}

// GetLedger returns the whole custody ledger.
func (s *Service) GetLedger(ctx context.Context) ([]*domain.CustodyEntry, error) {
	entries, err := s.repoManager.CustodyRepository().GetAllEntries(ctx)
	if err != nil {
		log.WithError(err).Debug("error while retrieving custody ledger")
		return nil, ErrServiceUnavailable
	}
	return entries, nil
}

func (s *Service) checkNotPaused(ctx context.Context) error {
	paused, err := s.gate.IsPaused(ctx)
	if err != nil {
		log.WithError(err).Warn("an error occurred while checking pause state")
		return ErrServiceUnavailable
	}
	if paused {
		return ErrServicePaused
	}
	return nil
}

func (s *Service) checkAuthorized(
	ctx context.Context, identity string, action ports.Action,
) error {
	authorized, err := s.gate.IsAuthorized(ctx, identity, action)
	if err != nil {
		log.WithError(err).Warn("an error occurred while checking authorization")
		return ErrServiceUnavailable
	}
	if !authorized {
		return domain.ErrUnauthorized
	}
	return nil
}

func (s *Service) publishSwapInitiated(swap *domain.Swap) {
	if err := s.pubsub.PublishSwapInitiatedEvent(swap); err != nil {
		log.WithError(err).Warnf(
			"failed to publish event for initiated swap with id %s", swap.Id,
		)
	}
}

func (s *Service) publishSwapCompleted(swap *domain.Swap) {
	if err := s.pubsub.PublishSwapCompletedEvent(swap); err != nil {
		log.WithError(err).Warnf(
			"failed to publish event for completed swap with id %s", swap.Id,
		)
	}
}

func (s *Service) publishSwapRefunded(swap *domain.Swap) {
	if err := s.pubsub.PublishSwapRefundedEvent(swap); err != nil {
		log.WithError(err).Warnf(
			"failed to publish event for refunded swap with id %s", swap.Id,
		)
	}
}
