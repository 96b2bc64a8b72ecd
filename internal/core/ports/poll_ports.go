package ports

import (
	"context"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
)

// PendingPollStore keeps open polls between the open and close phases.
type PendingPollStore interface {
	Save(ctx context.Context, poll *domain.Poll) error
	Get(ctx context.Context, ref domain.MessageRef) (*domain.Poll, error)
	Delete(ctx context.Context, ref domain.MessageRef) error
}

// CloseGuard lets exactly one close attempt per message proceed.
type CloseGuard interface {
	Claim(ctx context.Context, ref domain.MessageRef) (bool, error)
	Release(ctx context.Context, ref domain.MessageRef) error
}

type OpenPollInput struct {
	CreatorID string
	ChannelID string
	Question  string
	Options   []string
}

type ClosePollInput struct {
	Poll    *domain.Poll
	ActorID string
}

type PollService interface {
	Open(ctx context.Context, input OpenPollInput) (*domain.Poll, error)
	Close(ctx context.Context, input ClosePollInput) (*domain.Poll, error)
}
