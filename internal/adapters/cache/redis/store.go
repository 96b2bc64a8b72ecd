package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis"
	"github.com/vmihailenco/msgpack"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
	"github.com/vncsmyrnk/chatpoll/internal/core/ports"
)

const keyPrefix = "chatpoll"

func pendingKey(ref domain.MessageRef) string {
	return fmt.Sprintf("%s:pending:%s:%s", keyPrefix, ref.ChannelID, ref.MessageID)
}

func closedKey(ref domain.MessageRef) string {
	return fmt.Sprintf("%s:closed:%s:%s", keyPrefix, ref.ChannelID, ref.MessageID)
}

type pendingPollStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewPendingPollStore keeps open polls msgpack-encoded for ttl after they
// were posted.
func NewPendingPollStore(client *goredis.Client, ttl time.Duration) ports.PendingPollStore {
	return &pendingPollStore{client: client, ttl: ttl}
}

func (s *pendingPollStore) Save(ctx context.Context, poll *domain.Poll) error {
	if poll == nil || poll.MessageRef.IsZero() {
		return fmt.Errorf("%w: pending poll needs a message reference", domain.ErrValidation)
	}

	data, err := msgpack.Marshal(poll)
	if err != nil {
		return fmt.Errorf("failed to encode pending poll: %w", err)
	}

	if err := s.client.WithContext(ctx).Set(pendingKey(poll.MessageRef), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save pending poll %s: %w", poll.MessageRef, err)
	}
	return nil
}

func (s *pendingPollStore) Get(ctx context.Context, ref domain.MessageRef) (*domain.Poll, error) {
	data, err := s.client.WithContext(ctx).Get(pendingKey(ref)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get pending poll %s: %w", ref, err)
	}

	var poll domain.Poll
	if err := msgpack.Unmarshal(data, &poll); err != nil {
		return nil, fmt.Errorf("failed to decode pending poll %s: %w", ref, err)
	}
	return &poll, nil
}

func (s *pendingPollStore) Delete(ctx context.Context, ref domain.MessageRef) error {
	if err := s.client.WithContext(ctx).Del(pendingKey(ref)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending poll %s: %w", ref, err)
	}
	return nil
}

type closeGuard struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewCloseGuard claims closures with SETNX so that only one close attempt
// per message gets through, across every server instance.
func NewCloseGuard(client *goredis.Client, ttl time.Duration) ports.CloseGuard {
	return &closeGuard{client: client, ttl: ttl}
}

func (g *closeGuard) Claim(ctx context.Context, ref domain.MessageRef) (bool, error) {
	ok, err := g.client.WithContext(ctx).SetNX(closedKey(ref), time.Now().Unix(), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim closure of %s: %w", ref, err)
	}
	return ok, nil
}

func (g *closeGuard) Release(ctx context.Context, ref domain.MessageRef) error {
	if err := g.client.WithContext(ctx).Del(closedKey(ref)).Err(); err != nil {
		return fmt.Errorf("failed to release closure of %s: %w", ref, err)
	}
	return nil
}
