package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
	"github.com/vncsmyrnk/chatpoll/internal/core/ports"
)

const (
	resultsPageSize  = 20
	summaryBatchSize = 100
)

type resultService struct {
	repo ports.PollResultRepository
}

func NewResultService(repo ports.PollResultRepository) ports.ResultService {
	return &resultService{
		repo: repo,
	}
}

func (s *resultService) GetResult(ctx context.Context, id string) (*domain.PollResult, error) {
	resultID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidResultID
	}

	return s.repo.GetByID(ctx, resultID)
}

func (s *resultService) ListResults(ctx context.Context, input ports.ListResultsInput) ([]*domain.PollResult, error) {
	if input.Creator == "" {
		return nil, fmt.Errorf("%w: creator is required", domain.ErrValidation)
	}

	page := input.Page
	if page < 1 {
		page = 1
	}

	return s.repo.ListByCreator(ctx, input.Creator, resultsPageSize, (page-1)*resultsPageSize)
}

func (s *resultService) Summarize(ctx context.Context, creator string) (*domain.ResultSummary, error) {
	if creator == "" {
		return nil, fmt.Errorf("%w: creator is required", domain.ErrValidation)
	}

	summary := &domain.ResultSummary{Creator: creator}
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for offset := 0; ; offset += summaryBatchSize {
		batch, err := s.repo.ListByCreator(ctx, creator, summaryBatchSize, offset)
		if err != nil {
			wg.Wait()
			return nil, fmt.Errorf("failed to fetch results for %s: %w", creator, err)
		}

		wg.Add(1)
		go func(results []*domain.PollResult) {
			defer wg.Done()
			polls, votes, unanswered := summarizeBatch(results)

			mu.Lock()
			summary.Polls += polls
			summary.TotalVotes += votes
			summary.Unanswered += unanswered
			mu.Unlock()
		}(batch)

		if len(batch) < summaryBatchSize {
			break
		}
	}

	wg.Wait()
	return summary, nil
}

func summarizeBatch(results []*domain.PollResult) (polls, votes, unanswered int) {
	for _, r := range results {
		polls++
		total := r.Responses.Total()
		votes += total
		if total == 0 {
			unanswered++
		}
	}
	return polls, votes, unanswered
}
