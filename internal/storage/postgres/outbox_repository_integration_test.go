package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

func productEvent(aggregateID, eventType string) domain.OutboxMessage {
	return domain.OutboxMessage{
		AggregateType: domain.AggregateProduct,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       []byte(`{"id":"` + aggregateID + `"}`),
	}
}

func TestOutboxRepository_PostgresLifecycle(t *testing.T) {
	repo := NewOutboxRepository(migratedPostgres(t))
	ctx := context.Background()

	generated, err := repo.Enqueue(ctx, productEvent("p-1", domain.EventProductUpserted))
	require.NoError(t, err)
	require.NotEmpty(t, generated.ID)

	fixed := productEvent("p-2", domain.EventProductDeleted)
	fixed.ID = "outbox-fixed-id"
	stored, err := repo.Enqueue(ctx, fixed)
	require.NoError(t, err)
	require.Equal(t, fixed.ID, stored.ID)

	pending, err := repo.PullPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, generated.ID, pending[0].ID)
	require.JSONEq(t, `{"id":"p-2"}`, string(pending[1].Payload))

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.PendingCount)
	require.False(t, stats.OldestPendingAt.IsZero())

	require.NoError(t, repo.MarkSent(ctx, generated.ID))
	require.NoError(t, repo.MarkFailed(ctx, stored.ID))

	pending, err = repo.PullPending(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pending)

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.PendingCount)
	require.True(t, stats.OldestPendingAt.IsZero())
}

func TestOutboxRepository_PostgresUnknownID(t *testing.T) {
	repo := NewOutboxRepository(migratedPostgres(t))
	ctx := context.Background()

	require.ErrorIs(t, repo.MarkSent(ctx, "missing"), domain.ErrOutboxPublish)
	require.ErrorIs(t, repo.MarkFailed(ctx, "missing"), domain.ErrOutboxPublish)
}

func TestOutboxRepository_PostgresOldestPendingFollowsBacklog(t *testing.T) {
	repo := NewOutboxRepository(migratedPostgres(t))
	ctx := context.Background()

	old := productEvent("p-old", domain.EventProductUpserted)
	old.CreatedAt = time.Now().UTC().Add(-time.Minute)
	first, err := repo.Enqueue(ctx, old)
	require.NoError(t, err)
	_, err = repo.Enqueue(ctx, productEvent("p-new", domain.EventProductUpserted))
	require.NoError(t, err)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.WithinDuration(t, old.CreatedAt, stats.OldestPendingAt, time.Millisecond)

	require.NoError(t, repo.MarkSent(ctx, first.ID))

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.PendingCount)
	require.True(t, stats.OldestPendingAt.After(old.CreatedAt))
}
