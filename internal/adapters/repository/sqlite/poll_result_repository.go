// Package sqlite stores poll results in a local SQLite database for single
// node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
	"github.com/vncsmyrnk/chatpoll/internal/core/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS poll_results (
    id         TEXT PRIMARY KEY,
    creator    TEXT NOT NULL,
    question   TEXT NOT NULL,
    responses  TEXT NOT NULL,
    closed_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_poll_results_creator_closed_at
    ON poll_results (creator, closed_at DESC);
`

// Open opens the database at path and makes sure the schema exists.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite allows a single writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

type pollResultRepository struct {
	db *sql.DB
}

func NewPollResultRepository(db *sql.DB) ports.PollResultRepository {
	return &pollResultRepository{db: db}
}

func (r *pollResultRepository) Save(ctx context.Context, result *domain.PollResult) error {
	responses, err := json.Marshal(result.Responses)
	if err != nil {
		return fmt.Errorf("%w: failed to encode responses: %w", domain.ErrStore, err)
	}

	query := `INSERT INTO poll_results (id, creator, question, responses, closed_at) VALUES (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, result.ID.String(), result.Creator, result.Question, string(responses), result.ClosedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("%w: failed to insert poll result: %w", domain.ErrStore, err)
	}
	return nil
}

func (r *pollResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PollResult, error) {
	query := `SELECT id, creator, question, responses, closed_at FROM poll_results WHERE id = ?`
	result, err := scanResult(r.db.QueryRowContext(ctx, query, id.String()))
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
		WHERE creator = ?
		ORDER BY closed_at DESC, id
		LIMIT ? OFFSET ?
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

func scanResult(row interface{ Scan(dest ...any) error }) (*domain.PollResult, error) {
	var (
		result    domain.PollResult
		id        string
		responses string
		closedAt  int64
	)
	if err := row.Scan(&id, &result.Creator, &result.Question, &responses, &closedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid stored id %q: %w", id, err)
	}
	result.ID = parsed
	result.ClosedAt = time.Unix(0, closedAt).UTC()

	if err := json.Unmarshal([]byte(responses), &result.Responses); err != nil {
		return nil, fmt.Errorf("failed to decode responses: %w", err)
	}
	return &result, nil
}
