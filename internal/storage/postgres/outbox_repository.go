package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

const defaultPullLimit = 100

// Статусы строк ord_outbox.
const (
	outboxPending = "pending"
	outboxSent    = "sent"
	outboxFailed  = "failed"
)

const outboxColumns = `id, aggregate_type, aggregate_id, event_type, payload, attempt_count, created_at`

type outboxRepository struct {
	db *sql.DB
}

// NewOutboxRepository хранит события каталога в таблице ord_outbox.
func NewOutboxRepository(store *Store) domain.OutboxRepository {
	return &outboxRepository{db: store.DB()}
}

func (r *outboxRepository) Enqueue(ctx context.Context, msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	msg.Attempts = 0

	const query = `INSERT INTO ord_outbox (` + outboxColumns + `, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $6)`
	if _, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.AggregateType, msg.AggregateID, msg.EventType, msg.Payload, msg.CreatedAt, outboxPending,
	); err != nil {
		return domain.OutboxMessage{}, translateError("enqueue outbox", err)
	}
	return msg, nil
}

func (r *outboxRepository) PullPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if limit <= 0 {
		limit = defaultPullLimit
	}

	const query = `SELECT ` + outboxColumns + ` FROM ord_outbox
		WHERE status = $1 ORDER BY created_at, id LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, outboxPending, limit)
	if err != nil {
		return nil, translateError("pull outbox", err)
	}
	defer rows.Close()

	var pending []domain.OutboxMessage
	for rows.Next() {
		msg, err := scanOutbox(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError("pull outbox", err)
	}
	return pending, nil
}

func scanOutbox(rows *sql.Rows) (domain.OutboxMessage, error) {
	var msg domain.OutboxMessage
	if err := rows.Scan(
		&msg.ID, &msg.AggregateType, &msg.AggregateID, &msg.EventType,
		&msg.Payload, &msg.Attempts, &msg.CreatedAt,
	); err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("scan outbox row: %w", err)
	}
	msg.CreatedAt = msg.CreatedAt.UTC()
	return msg, nil
}

func (r *outboxRepository) Stats(ctx context.Context) (domain.OutboxStats, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		stats  domain.OutboxStats
		oldest sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(created_at) FROM ord_outbox WHERE status = $1`, outboxPending,
	).Scan(&stats.PendingCount, &oldest)
	if err != nil {
		return domain.OutboxStats{}, translateError("outbox stats", err)
	}
	if oldest.Valid {
		stats.OldestPendingAt = oldest.Time.UTC()
	}
	return stats, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	return r.transition(ctx, id, outboxSent)
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string) error {
	return r.transition(ctx, id, outboxFailed)
}

// transition переводит строку в финальный статус; неизвестный id даёт ErrOutboxPublish.
func (r *outboxRepository) transition(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var updated string
	err := r.db.QueryRowContext(ctx, `
		UPDATE ord_outbox
		SET status = $2, attempt_count = attempt_count + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING id`, id, status,
	).Scan(&updated)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("outbox %s -> %s: %w", id, status, domain.ErrOutboxPublish)
	case err != nil:
		return translateError("outbox "+status, err)
	}
	return nil
}

var _ domain.OutboxRepository = (*outboxRepository)(nil)
