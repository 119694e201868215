// Package accessgate provides a locally administered implementation of the
// access gate consulted by the settlement service.
package accessgate

import (
	"context"
	"sync"

	"github.com/htlx-network/htlx-daemon/internal/core/ports"
)

// Service is an access gate holding a pause flag and an optional allow-list
// per action. An action with no allow-list admits any identity. Safe for
// concurrent use.
type Service struct {
	locker  *sync.RWMutex
	paused  bool
	allowed map[ports.Action]map[string]struct{}
}

var _ ports.AccessGate = (*Service)(nil)

// NewService returns an unpaused gate with no restrictions.
func NewService() *Service {
	return &Service{
		locker:  &sync.RWMutex{},
		allowed: make(map[ports.Action]map[string]struct{}),
	}
}

// Pause blocks new swap activity. Refunds of expired swaps are unaffected,
// the settlement service never consults the gate for those.
func (s *Service) Pause() {
	s.locker.Lock()
	defer s.locker.Unlock()

	s.paused = true
}

// Resume lifts the pause.
func (s *Service) Resume() {
	s.locker.Lock()
	defer s.locker.Unlock()

	s.paused = false
}

// AllowOnly restricts the action to the given identities, replacing any
// previous restriction for it.
func (s *Service) AllowOnly(action ports.Action, identities ...string) {
	s.locker.Lock()
	defer s.locker.Unlock()

	allowed := make(map[string]struct{}, len(identities))
	for _, identity := range identities {
		allowed[identity] = struct{}{}
	}
	s.allowed[action] = allowed
}

// AllowAny removes any restriction for the action.
func (s *Service) AllowAny(action ports.Action) {
	s.locker.Lock()
	defer s.locker.Unlock()

	delete(s.allowed, action)
}

// IsAuthorized implements the AccessGate interface.
func (s *Service) IsAuthorized(
	_ context.Context, identity string, action ports.Action,
) (bool, error) {
	s.locker.RLock()
	defer s.locker.RUnlock()

	allowed, ok := s.allowed[action]
	if !ok {
		return true, nil
	}
	_, found := allowed[identity]
	return found, nil
}

// IsPaused implements the AccessGate interface.
func (s *Service) IsPaused(_ context.Context) (bool, error) {
	s.locker.RLock()
	defer s.locker.RUnlock()

	return s.paused, nil
}
