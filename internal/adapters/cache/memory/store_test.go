package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
)

func TestPendingPollStore(t *testing.T) {
	ctx := context.Background()
	store := NewPendingPollStore(time.Hour)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ref := domain.MessageRef{ChannelID: "C1", MessageID: "M1"}
	poll := &domain.Poll{CreatorID: "U1", Question: "Lunch?", MessageRef: ref, Status: domain.StatusOpen}

	require.NoError(t, store.Save(ctx, poll))

	got, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, poll, got)
	assert.NotSame(t, poll, got)

	got.Question = "changed"
	again, err := store.Get(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "Lunch?", again.Question)

	now = now.Add(2 * time.Hour)
	_, err = store.Get(ctx, ref)
	assert.ErrorIs(t, err, domain.ErrPollNotFound)

	require.NoError(t, store.Save(ctx, poll))
	require.NoError(t, store.Delete(ctx, ref))
	_, err = store.Get(ctx, ref)
	assert.ErrorIs(t, err, domain.ErrPollNotFound)

	assert.ErrorIs(t, store.Save(ctx, nil), domain.ErrValidation)
}

func TestCloseGuard(t *testing.T) {
	ctx := context.Background()
	guard := NewCloseGuard(0)
	ref := domain.MessageRef{ChannelID: "C1", MessageID: "M1"}
	other := domain.MessageRef{ChannelID: "C1", MessageID: "M2"}

	ok, err := guard.Claim(ctx, ref)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.Claim(ctx, ref)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = guard.Claim(ctx, other)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, guard.Release(ctx, ref))
	ok, err = guard.Claim(ctx, ref)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPendingPollStoreDropsExpiredPollsOnSave(t *testing.T) {
	ctx := context.Background()
	store := NewPendingPollStore(time.Hour)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	old := domain.MessageRef{ChannelID: "C1", MessageID: "M1"}
	require.NoError(t, store.Save(ctx, &domain.Poll{CreatorID: "U1", MessageRef: old}))

	now = now.Add(2 * time.Hour)
	fresh := domain.MessageRef{ChannelID: "C1", MessageID: "M2"}
	require.NoError(t, store.Save(ctx, &domain.Poll{CreatorID: "U1", MessageRef: fresh}))

	assert.Len(t, store.polls, 1)
	assert.Contains(t, store.polls, fresh)
}

func TestCloseGuardClaimsExpire(t *testing.T) {
	ctx := context.Background()
	guard := NewCloseGuard(time.Hour)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	guard.now = func() time.Time { return now }

	ref := domain.MessageRef{ChannelID: "C1", MessageID: "M1"}
	ok, err := guard.Claim(ctx, ref)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(30 * time.Minute)
	ok, err = guard.Claim(ctx, ref)
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(time.Hour)
	other := domain.MessageRef{ChannelID: "C1", MessageID: "M2"}
	ok, err = guard.Claim(ctx, other)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, guard.claimed, 1, "expired claims are dropped")

	ok, err = guard.Claim(ctx, ref)
	require.NoError(t, err)
	assert.True(t, ok)
}
