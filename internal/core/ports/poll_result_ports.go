package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
)

type PollResultRepository interface {
	Save(ctx context.Context, result *domain.PollResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PollResult, error)
	ListByCreator(ctx context.Context, creator string, limit, offset int) ([]*domain.PollResult, error)
}

type ListResultsInput struct {
	Creator string
	Page    int
}

type ResultService interface {
	GetResult(ctx context.Context, id string) (*domain.PollResult, error)
	ListResults(ctx context.Context, input ListResultsInput) ([]*domain.PollResult, error)
	Summarize(ctx context.Context, creator string) (*domain.ResultSummary, error)
}
