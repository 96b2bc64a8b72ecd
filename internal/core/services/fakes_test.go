package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
)

type fakeMessenger struct {
	mu sync.Mutex

	nextID    int
	messages  map[domain.MessageRef]domain.MessageBody
	reactions map[domain.MessageRef][]domain.Reaction
	updates   int

	postErr     error
	updateErr   error
	listErr     error
	reactionErr map[string]error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		messages:    make(map[domain.MessageRef]domain.MessageBody),
		reactions:   make(map[domain.MessageRef][]domain.Reaction),
		reactionErr: make(map[string]error),
	}
}

func (m *fakeMessenger) PostMessage(_ context.Context, channelID string, body domain.MessageBody) (domain.MessageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postErr != nil {
		return domain.MessageRef{}, fmt.Errorf("%w: %w", domain.ErrDelivery, m.postErr)
	}
	m.nextID++
	ref := domain.MessageRef{ChannelID: channelID, MessageID: fmt.Sprintf("m%d", m.nextID)}
	m.messages[ref] = body
	return ref, nil
}

func (m *fakeMessenger) UpdateMessage(_ context.Context, ref domain.MessageRef, body domain.MessageBody) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return fmt.Errorf("%w: %w", domain.ErrDelivery, m.updateErr)
	}
	if _, ok := m.messages[ref]; !ok {
		return fmt.Errorf("%w: unknown message", domain.ErrDelivery)
	}
	m.messages[ref] = body
	m.updates++
	return nil
}

func (m *fakeMessenger) AddReaction(_ context.Context, ref domain.MessageRef, marker string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.reactionErr[marker]; err != nil {
		return fmt.Errorf("%w: %w", domain.ErrReaction, err)
	}
	m.react(ref, marker, 1)
	return nil
}

func (m *fakeMessenger) ListReactions(_ context.Context, ref domain.MessageRef) ([]domain.Reaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLookup, m.listErr)
	}
	return append([]domain.Reaction(nil), m.reactions[ref]...), nil
}

// vote simulates workspace members reacting to the poll message.
func (m *fakeMessenger) vote(ref domain.MessageRef, marker string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.react(ref, marker, n)
}

func (m *fakeMessenger) react(ref domain.MessageRef, marker string, n int) {
	for i, r := range m.reactions[ref] {
		if r.Marker == marker {
			m.reactions[ref][i].Count += n
			return
		}
	}
	m.reactions[ref] = append(m.reactions[ref], domain.Reaction{Marker: marker, Count: n})
}

func (m *fakeMessenger) body(ref domain.MessageRef) domain.MessageBody {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages[ref]
}

type fakeResultRepository struct {
	mu      sync.Mutex
	results map[uuid.UUID]*domain.PollResult
	saveErr error
	listErr error
}

func newFakeResultRepository() *fakeResultRepository {
	return &fakeResultRepository{results: make(map[uuid.UUID]*domain.PollResult)}
}

func (r *fakeResultRepository) Save(_ context.Context, result *domain.PollResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.results[result.ID] = result
	return nil
}

func (r *fakeResultRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.PollResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.results[id]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	return result, nil
}

func (r *fakeResultRepository) ListByCreator(_ context.Context, creator string, limit, offset int) ([]*domain.PollResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}

	var matched []*domain.PollResult
	for _, result := range r.results {
		if result.Creator == creator {
			matched = append(matched, result)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].ClosedAt.Equal(matched[j].ClosedAt) {
			return matched[i].ClosedAt.After(matched[j].ClosedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	if offset >= len(matched) {
		return nil, nil
	}
	end := min(offset+limit, len(matched))
	return matched[offset:end], nil
}

func (r *fakeResultRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

func (r *fakeResultRepository) all() []*domain.PollResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.PollResult
	for _, result := range r.results {
		out = append(out, result)
	}
	return out
}

type fakeGuard struct {
	mu       sync.Mutex
	claimed  map[domain.MessageRef]bool
	claimErr error
}

func newFakeGuard() *fakeGuard {
	return &fakeGuard{claimed: make(map[domain.MessageRef]bool)}
}

func (g *fakeGuard) Claim(_ context.Context, ref domain.MessageRef) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.claimErr != nil {
		return false, g.claimErr
	}
	if g.claimed[ref] {
		return false, nil
	}
	g.claimed[ref] = true
	return true, nil
}

func (g *fakeGuard) Release(_ context.Context, ref domain.MessageRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.claimed, ref)
	return nil
}

func (g *fakeGuard) isClaimed(ref domain.MessageRef) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.claimed[ref]
}

var errBoom = errors.New("boom")
