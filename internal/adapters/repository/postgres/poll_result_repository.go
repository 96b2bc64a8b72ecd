package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
	"github.com/vncsmyrnk/chatpoll/internal/core/ports"
)

type pollResultRepository struct {
	db *sql.DB
}

func NewPollResultRepository(db *sql.DB) ports.PollResultRepository {
	return &pollResultRepository{
		db: db,
	}
}

func (r *pollResultRepository) Save(ctx context.Context, result *domain.PollResult) error {
	responses, err := json.Marshal(result.Responses)
	if err != nil {
		return fmt.Errorf("%w: failed to encode responses: %w", domain.ErrStore, err)
	}

	query := `
		INSERT INTO poll_results (id, creator, question, responses, closed_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.ExecContext(ctx, query, result.ID, result.Creator, result.Question, string(responses), result.ClosedAt)
	if err != nil {
		return fmt.Errorf("%w: failed to insert poll result: %w", domain.ErrStore, err)
	}

	return nil
}

func (r *pollResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PollResult, error) {
	query := `
		SELECT id, creator, question, responses, closed_at
		FROM poll_results
		WHERE id = $1
	`

	result, err := scanResult(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResultNotFound
		}
		return nil, fmt.Errorf("%w: failed to get poll result: %w", domain.ErrStore, err)
	}

	return result, nil
}

func (r *pollResultRepository) ListByCreator(ctx context.Context, creator string, limit, offset int) ([]*domain.PollResult, error) {
	query := `
		SELECT id, creator, question, responses, closed_at
		FROM poll_results
		WHERE creator = $1
		ORDER BY closed_at DESC, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, creator, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list poll results: %w", domain.ErrStore, err)
	}
	defer rows.Close()

	var results []*domain.PollResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan poll result: %w", domain.ErrStore, err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating poll results: %w", domain.ErrStore, err)
	}

	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*domain.PollResult, error) {
	var (
		result    domain.PollResult
		responses string
	)
	if err := row.Scan(&result.ID, &result.Creator, &result.Question, &responses, &result.ClosedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(responses), &result.Responses); err != nil {
		return nil, fmt.Errorf("failed to decode responses: %w", err)
	}
	return &result, nil
}
