package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

const defaultPullLimit = 100

type outboxRow struct {
	ID            string    `db:"id"`
	AggregateType string    `db:"aggregate_type"`
	AggregateID   string    `db:"aggregate_id"`
	EventType     string    `db:"event_type"`
	Payload       []byte    `db:"payload"`
	Attempts      int       `db:"attempt_count"`
	CreatedAt     time.Time `db:"created_at"`
}

type outboxRepository struct {
	db *sqlx.DB
}

// NewOutboxRepository создаёт MySQL-реализацию OutboxRepository.
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

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO ord_outbox (
			id, aggregate_type, aggregate_id, event_type, payload,
			status, attempt_count, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, 'pending', 0, ?, ?)
	`, msg.ID, msg.AggregateType, msg.AggregateID, msg.EventType, msg.Payload, msg.CreatedAt, msg.CreatedAt); err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("enqueue outbox message: %w", err)
	}
	return msg, nil
}

func (r *outboxRepository) PullPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if limit <= 0 {
		limit = defaultPullLimit
	}

	var rows []outboxRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, attempt_count, created_at
		FROM ord_outbox
		WHERE status = 'pending'
		ORDER BY created_at, id
		LIMIT ?
	`, limit); err != nil {
		return nil, fmt.Errorf("pull pending outbox messages: %w", err)
	}

	result := make([]domain.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.OutboxMessage{
			ID:            row.ID,
			AggregateType: row.AggregateType,
			AggregateID:   row.AggregateID,
			EventType:     row.EventType,
			Payload:       row.Payload,
			Attempts:      row.Attempts,
			CreatedAt:     row.CreatedAt.UTC(),
		})
	}
	return result, nil
}

func (r *outboxRepository) Stats(ctx context.Context) (domain.OutboxStats, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var row struct {
		Count  int          `db:"pending"`
		Oldest sql.NullTime `db:"oldest"`
	}
	if err := r.db.GetContext(ctx, &row, `
		SELECT COUNT(*) AS pending, MIN(created_at) AS oldest
		FROM ord_outbox
		WHERE status = 'pending'
	`); err != nil {
		return domain.OutboxStats{}, fmt.Errorf("outbox stats query failed: %w", err)
	}

	stats := domain.OutboxStats{PendingCount: row.Count}
	if row.Oldest.Valid {
		stats.OldestPendingAt = row.Oldest.Time.UTC()
	}
	return stats, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	return r.markStatus(ctx, id, "sent")
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string) error {
	return r.markStatus(ctx, id, "failed")
}

func (r *outboxRepository) markStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE ord_outbox
		SET status = ?, attempt_count = attempt_count + 1, updated_at = ?
		WHERE id = ?
	`, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark outbox message as %s: %w", status, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for outbox %s: %w", status, err)
	}
	if affected == 0 {
		return fmt.Errorf("outbox message %s: %w", id, domain.ErrOutboxPublish)
	}
	return nil
}

var _ domain.OutboxRepository = (*outboxRepository)(nil)
