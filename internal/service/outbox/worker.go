// Package outbox публикует события каталога, накопленные в transactional outbox.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
	"github.com/vladislavdragonenkov/siproad-orders/internal/metrics"
)

// Результаты попыток публикации для метрик.
const (
	resultSent      = "sent"
	resultRetry     = "retry_error"
	resultFailed    = "failed"
	resultDLQFailed = "dlq_failed"
)

// Config задаёт ритм опроса outbox и политику повторов.
type Config struct {
	PollInterval time.Duration
	BatchSize    int
	// MaxAttempts - число попыток Publish на одно событие до перевода в failed.
	MaxAttempts int
	// RetryDelay удваивается после каждой неудачной попытки, но не выше MaxRetryDelay.
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// DefaultConfig возвращает параметры воркера по умолчанию.
func DefaultConfig() Config {
	return Config{
		PollInterval:  time.Second,
		BatchSize:     100,
		MaxAttempts:   3,
		RetryDelay:    50 * time.Millisecond,
		MaxRetryDelay: 2 * time.Second,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	if c.MaxRetryDelay <= 0 {
		c.MaxRetryDelay = def.MaxRetryDelay
	}
	return c
}

// Option подключает к воркеру необязательные зависимости.
type Option func(*Worker)

// WithLogger задаёт logger воркера.
func WithLogger(logger *log.Entry) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithMetrics включает метрики публикации и backlog.
func WithMetrics(m *metrics.CatalogMetrics) Option {
	return func(w *Worker) { w.metrics = m }
}

// WithDLQPublisher задаёт publisher для событий, исчерпавших попытки.
func WithDLQPublisher(publisher domain.OutboxPublisher) Option {
	return func(w *Worker) { w.dlq = publisher }
}

// Worker публикует pending-события каталога в брокер.
type Worker struct {
	repo      domain.OutboxRepository
	publisher domain.OutboxPublisher
	dlq       domain.OutboxPublisher
	metrics   *metrics.CatalogMetrics
	logger    *log.Entry
	cfg       Config
}

// NewWorker создаёт outbox worker.
func NewWorker(repo domain.OutboxRepository, publisher domain.OutboxPublisher, cfg Config, opts ...Option) *Worker {
	w := &Worker{
		repo:      repo,
		publisher: publisher,
		logger:    log.WithField("component", "outbox-worker"),
		cfg:       cfg.normalized(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run опрашивает outbox каждые PollInterval до отмены ctx.
func (w *Worker) Run(ctx context.Context) {
	if w.repo == nil || w.publisher == nil {
		w.logger.Warn("outbox worker disabled: no repository or publisher")
		return
	}

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		w.ProcessOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ProcessOnce разбирает один батч и возвращает число опубликованных событий.
func (w *Worker) ProcessOnce(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}
	defer w.observeBacklog(ctx)

	batch, err := w.repo.PullPending(ctx, w.cfg.BatchSize)
	if err != nil {
		w.logger.WithError(err).Warn("outbox pull failed")
		return 0
	}

	sent := 0
	for _, event := range batch {
		if ctx.Err() != nil {
			break
		}
		if w.deliver(ctx, event) {
			sent++
		}
	}
	return sent
}

// deliver публикует одно событие и фиксирует его итоговый статус.
func (w *Worker) deliver(ctx context.Context, event domain.OutboxMessage) bool {
	entry := w.logger.WithFields(log.Fields{
		"outbox_id":    event.ID,
		"event_type":   event.EventType,
		"aggregate_id": event.AggregateID,
	})

	publishErr := w.publish(ctx, event)
	if publishErr == nil {
		if err := w.repo.MarkSent(ctx, event.ID); err != nil {
			entry.WithError(err).Warn("outbox mark sent failed")
			return false
		}
		return true
	}

	entry.WithError(publishErr).Error("outbox event undeliverable")
	w.metrics.RecordOutboxPublish(resultFailed)
	if err := w.toDeadLetter(event, publishErr); err != nil {
		entry.WithError(err).Warn("outbox dead letter failed")
		w.metrics.RecordOutboxPublish(resultDLQFailed)
	}
	if err := w.repo.MarkFailed(ctx, event.ID); err != nil {
		entry.WithError(err).Warn("outbox mark failed failed")
	}
	return false
}

func (w *Worker) publish(ctx context.Context, event domain.OutboxMessage) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = w.publisher.Publish(event); err == nil {
			w.metrics.RecordOutboxPublish(resultSent)
			return nil
		}
		w.metrics.RecordOutboxPublish(resultRetry)
		if attempt == w.cfg.MaxAttempts {
			return fmt.Errorf("%d attempts: %w", attempt, err)
		}
		if delay := w.backoff(attempt); delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
}

// backoff: RetryDelay * 2^(attempt-1), ограниченный MaxRetryDelay.
func (w *Worker) backoff(attempt int) time.Duration {
	delay := w.cfg.RetryDelay
	if delay <= 0 {
		return 0
	}
	for i := 1; i < attempt && delay < w.cfg.MaxRetryDelay; i++ {
		delay *= 2
	}
	return min(delay, w.cfg.MaxRetryDelay)
}

func (w *Worker) observeBacklog(ctx context.Context) {
	if w.metrics == nil {
		return
	}
	stats, err := w.repo.Stats(ctx)
	if err != nil {
		w.logger.WithError(err).Debug("outbox stats unavailable")
		return
	}

	var age time.Duration
	if stats.PendingCount > 0 && !stats.OldestPendingAt.IsZero() {
		age = time.Since(stats.OldestPendingAt)
	}
	w.metrics.SetOutboxBacklog(stats.PendingCount, age)
}

// deadLetter - тело события, отправляемого в DLQ вместо исходного payload.
type deadLetter struct {
	OutboxID      string          `json:"outbox_id"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     string          `json:"event_type"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Error         string          `json:"publish_error"`
	FailedAt      time.Time       `json:"failed_at"`
}

func (w *Worker) toDeadLetter(event domain.OutboxMessage, cause error) error {
	if w.dlq == nil {
		return nil
	}

	body, err := json.Marshal(deadLetter{
		OutboxID:      event.ID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.EventType,
		Payload:       json.RawMessage(event.Payload),
		Error:         cause.Error(),
		FailedAt:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode dead letter: %w", err)
	}

	letter := event
	letter.Payload = body
	if err := w.dlq.Publish(letter); err != nil {
		return fmt.Errorf("publish dead letter: %w", err)
	}
	return nil
}
