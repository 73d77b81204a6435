package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
	outboxStatusFailed  = "failed"
)

type outboxRecord struct {
	msg    domain.OutboxMessage
	status string
	seq    uint64
}

// OutboxRepository - in-memory хранилище событий каталога для outbox worker.
type OutboxRepository struct {
	mu      sync.RWMutex
	records map[string]*outboxRecord
	seq     uint64
}

// NewOutboxRepository создаёт in-memory реализацию outbox.
func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{records: make(map[string]*outboxRecord)}
}

// Enqueue сохраняет событие со статусом pending.
func (r *OutboxRepository) Enqueue(ctx context.Context, msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	if err := ctx.Err(); err != nil {
		return domain.OutboxMessage{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	r.seq++
	r.records[msg.ID] = &outboxRecord{msg: msg, status: outboxStatusPending, seq: r.seq}
	return msg, nil
}

// PullPending возвращает до limit самых старых pending-сообщений.
func (r *OutboxRepository) PullPending(ctx context.Context, limit int) ([]domain.OutboxMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	pending := r.byStatus(outboxStatusPending)
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// Stats возвращает размер backlog и время самого старого pending-сообщения.
func (r *OutboxRepository) Stats(ctx context.Context) (domain.OutboxStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.OutboxStats{}, err
	}

	pending := r.byStatus(outboxStatusPending)
	stats := domain.OutboxStats{PendingCount: len(pending)}
	if len(pending) > 0 {
		stats.OldestPendingAt = pending[0].CreatedAt
	}
	return stats, nil
}

// MarkSent помечает событие опубликованным.
func (r *OutboxRepository) MarkSent(ctx context.Context, id string) error {
	return r.mark(ctx, id, outboxStatusSent)
}

// MarkFailed помечает событие неопубликованным после исчерпания попыток.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id string) error {
	return r.mark(ctx, id, outboxStatusFailed)
}

// AllPending возвращает копию всех pending-сообщений (используется в тестах).
func (r *OutboxRepository) AllPending() []domain.OutboxMessage {
	return r.byStatus(outboxStatusPending)
}

func (r *OutboxRepository) mark(ctx context.Context, id, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return domain.ErrOutboxPublish
	}
	record.status = status
	record.msg.Attempts++
	return nil
}

func (r *OutboxRepository) byStatus(status string) []domain.OutboxMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*outboxRecord, 0, len(r.records))
	for _, rec := range r.records {
		if rec.status == status {
			records = append(records, rec)
		}
	}
	// При равном CreatedAt сохраняется порядок вставки.
	sort.Slice(records, func(i, j int) bool {
		if !records[i].msg.CreatedAt.Equal(records[j].msg.CreatedAt) {
			return records[i].msg.CreatedAt.Before(records[j].msg.CreatedAt)
		}
		return records[i].seq < records[j].seq
	})

	result := make([]domain.OutboxMessage, 0, len(records))
	for _, rec := range records {
		result = append(result, rec.msg)
	}
	return result
}

var _ domain.OutboxRepository = (*OutboxRepository)(nil)
