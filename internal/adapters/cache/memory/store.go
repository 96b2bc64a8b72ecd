// Package memory keeps pending polls and closure claims in process. It is
// meant for development and single instance deployments.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
	"github.com/vncsmyrnk/chatpoll/internal/core/ports"
)

type pendingEntry struct {
	poll      domain.Poll
	expiresAt time.Time
}

type PendingPollStore struct {
	mu    sync.Mutex
	polls map[domain.MessageRef]pendingEntry
	ttl   time.Duration
	now   func() time.Time
}

var _ ports.PendingPollStore = (*PendingPollStore)(nil)

func NewPendingPollStore(ttl time.Duration) *PendingPollStore {
	return &PendingPollStore{
		polls: make(map[domain.MessageRef]pendingEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *PendingPollStore) Save(_ context.Context, poll *domain.Poll) error {
	if poll == nil || poll.MessageRef.IsZero() {
		return fmt.Errorf("%w: pending poll needs a message reference", domain.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.ttl > 0 {
		for ref, entry := range s.polls {
			if now.After(entry.expiresAt) {
				delete(s.polls, ref)
			}
		}
	}
	s.polls[poll.MessageRef] = pendingEntry{poll: *poll, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *PendingPollStore) Get(_ context.Context, ref domain.MessageRef) (*domain.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.polls[ref]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	if s.ttl > 0 && s.now().After(entry.expiresAt) {
		delete(s.polls, ref)
		return nil, domain.ErrPollNotFound
	}

	poll := entry.poll
	return &poll, nil
}

func (s *PendingPollStore) Delete(_ context.Context, ref domain.MessageRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.polls, ref)
	return nil
}

// CloseGuard remembers claims for ttl, like the redis guard's key expiry.
// A ttl of zero keeps claims until they are released.
type CloseGuard struct {
	mu      sync.Mutex
	claimed map[domain.MessageRef]time.Time
	ttl     time.Duration
	now     func() time.Time
}

var _ ports.CloseGuard = (*CloseGuard)(nil)

func NewCloseGuard(ttl time.Duration) *CloseGuard {
	return &CloseGuard{
		claimed: make(map[domain.MessageRef]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (g *CloseGuard) Claim(_ context.Context, ref domain.MessageRef) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if g.ttl > 0 {
		for r, expiresAt := range g.claimed {
			if now.After(expiresAt) {
				delete(g.claimed, r)
			}
		}
	}

	if _, ok := g.claimed[ref]; ok {
		return false, nil
	}
	g.claimed[ref] = now.Add(g.ttl)
	return true, nil
}

func (g *CloseGuard) Release(_ context.Context, ref domain.MessageRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.claimed, ref)
	return nil
}
