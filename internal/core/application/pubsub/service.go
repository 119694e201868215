package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/htlx-network/htlx-daemon/internal/core/domain"
	"github.com/htlx-network/htlx-daemon/internal/core/ports"
)

const (
	// EventSwapInitiated is published when a swap enters the registry.
	EventSwapInitiated = "SWAP_INITIATED"
	// EventSwapCompleted is published when a swap settles by secret reveal.
	EventSwapCompleted = "SWAP_COMPLETED"
	// EventSwapRefunded is published when a swap settles by refund.
	EventSwapRefunded = "SWAP_REFUNDED"
)

var validTopics = map[string]struct{}{
	EventSwapInitiated: {},
	EventSwapCompleted: {},
	EventSwapRefunded:  {},
	ports.AnyTopic:     {},
}

// ErrInvalidTopic is thrown when subscribing to an unknown event.
var ErrInvalidTopic = fmt.Errorf(
	"topic must be one of %s, %s, %s or %s",
	EventSwapInitiated, EventSwapCompleted, EventSwapRefunded, ports.AnyTopic,
)

// Service publishes the settlement lifecycle events and manages the webhook
// subscriptions listening for them.
type Service struct {
	pubsub ports.SecurePubSub
}

func NewService(pubsub ports.SecurePubSub) *Service {
	return &Service{pubsub}
}

func (s *Service) SecurePubSub() ports.SecurePubSub {
	return s.pubsub
}

func (s *Service) AddWebhook(
	_ context.Context, topic, endpoint, secret string,
) (string, error) {
	if _, ok := validTopics[topic]; !ok {
		return "", ErrInvalidTopic
	}
	return s.pubsub.Subscribe(topic, endpoint, secret)
}

func (s *Service) RemoveWebhook(_ context.Context, id string) error {
	return s.pubsub.Unsubscribe(ports.UnspecifiedTopic, id)
}

func (s *Service) ListWebhooks(
	_ context.Context, topic string,
) ([]ports.Subscription, error) {
	if topic != ports.UnspecifiedTopic {
		if _, ok := validTopics[topic]; !ok {
			return nil, ErrInvalidTopic
		}
	}
	return s.pubsub.ListSubscriptionsForTopic(topic), nil
}

func (s *Service) PublishSwapInitiatedEvent(swap *domain.Swap) error {
	event := EventSwapInitiated
	payload := map[string]interface{}{
		"event":            event,
		"id":               swap.Id,
		"initiator":        swap.Initiator,
		"participant":      swap.Participant,
		"legs":             legsPayload(swap.Legs),
		"commitment":       swap.Commitment,
		"time_lock_expiry": swap.ExpiresAt().Format(time.RFC3339),
	}
	message, _ := json.Marshal(payload)

	return s.pubsub.Publish(event, string(message))
}

func (s *Service) PublishSwapCompletedEvent(swap *domain.Swap) error {
	event := EventSwapCompleted
	payload := map[string]interface{}{
		"event":  event,
		"id":     swap.Id,
		"secret": swap.RevealedSecret,
	}
	message, _ := json.Marshal(payload)

	return s.pubsub.Publish(event, string(message))
}

func (s *Service) PublishSwapRefundedEvent(swap *domain.Swap) error {
	event := EventSwapRefunded
	payload := map[string]interface{}{
		"event": event,
		"id":    swap.Id,
	}
	message, _ := json.Marshal(payload)

	return s.pubsub.Publish(event, string(message))
}

func (s *Service) Close() {
	//nolint
	s.pubsub.Store().Close()
}

func legsPayload(legs []domain.SwapLeg) []map[string]interface{} {
	list := make([]map[string]interface{}, 0, len(legs))
	for _, leg := range legs {
		payload := map[string]interface{}{
			"owner":  leg.Owner,
			"asset":  leg.Asset,
			"amount": leg.Amount.String(),
			"kind":   leg.Kind().String(),
		}
		if leg.AccruedYield.IsPositive() {
			payload["accrued_yield"] = leg.AccruedYield.String()
		}
		if leg.RequiredCredential != "" {
			payload["required_credential"] = leg.RequiredCredential
		}
		list = append(list, payload)
	}
	return list
}
