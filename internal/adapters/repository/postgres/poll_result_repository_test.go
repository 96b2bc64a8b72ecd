package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
)

func TestPollResultRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPollResultRepository(db)
	ctx := context.Background()

	closedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	result := &domain.PollResult{
		ID:        uuid.New(),
		Creator:   "U1",
		Question:  "Lunch?",
		Responses: domain.Tally{1: 2, 2: 1, 3: 0},
		ClosedAt:  closedAt,
	}

	t.Run("save and get", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, result))

		got, err := repo.GetByID(ctx, result.ID)
		require.NoError(t, err)
		assert.Equal(t, result.ID, got.ID)
		assert.Equal(t, "U1", got.Creator)
		assert.Equal(t, "Lunch?", got.Question)
		assert.Equal(t, domain.Tally{1: 2, 2: 1, 3: 0}, got.Responses)
		assert.True(t, closedAt.Equal(got.ClosedAt))
	})

	t.Run("responses are stored as a json mapping", func(t *testing.T) {
		var raw string
		err := db.QueryRow("SELECT responses FROM poll_results WHERE id = $1", result.ID).Scan(&raw)
		require.NoError(t, err)
		assert.JSONEq(t, `{"1":2,"2":1,"3":0}`, raw)
	})

	t.Run("duplicate id is a store error", func(t *testing.T) {
		err := repo.Save(ctx, result)
		assert.ErrorIs(t, err, domain.ErrStore)
	})

	t.Run("missing result", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrResultNotFound)
	})

	t.Run("list by creator newest first", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.NoError(t, repo.Save(ctx, &domain.PollResult{
				ID:        uuid.New(),
				Creator:   "U2",
				Question:  fmt.Sprintf("Q%d", i),
				Responses: domain.Tally{1: i, 2: 0, 3: 0},
				ClosedAt:  closedAt.Add(time.Duration(i) * time.Hour),
			}))
		}

		page, err := repo.ListByCreator(ctx, "U2", 2, 0)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "Q2", page[0].Question)
		assert.Equal(t, "Q1", page[1].Question)

		rest, err := repo.ListByCreator(ctx, "U2", 2, 2)
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, "Q0", rest[0].Question)

		none, err := repo.ListByCreator(ctx, "nobody", 10, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
