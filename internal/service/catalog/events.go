package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

// publish записывает событие об изменении в outbox.
// Запись в хранилище уже выполнена, поэтому сбой outbox только логируется.
func (s settings) publish(ctx context.Context, aggregateType, aggregateID, eventType string, payload any) {
	if s.outbox == nil {
		return
	}

	logger := s.logger.WithFields(log.Fields{
		"aggregate_type": aggregateType,
		"aggregate_id":   aggregateID,
		"event_type":     eventType,
	})

	data, err := json.Marshal(payload)
	if err != nil {
		logger.WithError(err).Warn("failed to marshal change event")
		return
	}

	msg := domain.OutboxMessage{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       data,
	}
	if _, err := s.outbox.Enqueue(ctx, msg); err != nil {
		logger.WithError(fmt.Errorf("enqueue: %w", err)).Warn("failed to store change event")
	}
}

type deletedPayload struct {
	ID string `json:"id"`
}
