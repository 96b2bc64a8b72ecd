package ports

import (
	"context"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
)

// Messenger is the chat platform the poll lives on.
//
// The tally relies on two guarantees from implementations: a reaction added
// with AddReaction belongs to the service's own identity and is included in
// the counts returned by ListReactions, and the platform keeps at most one
// reaction per identity and marker, so the seed reaction counts exactly once.
type Messenger interface {
	PostMessage(ctx context.Context, channelID string, body domain.MessageBody) (domain.MessageRef, error)
	UpdateMessage(ctx context.Context, ref domain.MessageRef, body domain.MessageBody) error
	AddReaction(ctx context.Context, ref domain.MessageRef, marker string) error
	ListReactions(ctx context.Context, ref domain.MessageRef) ([]domain.Reaction, error)
}
