package outbox

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

// LoggingPublisher пишет события в лог. Используется, когда Kafka не настроена,
// чтобы outbox не копил pending-записи.
type LoggingPublisher struct {
	logger *log.Entry
}

// NewLoggingPublisher создаёт LoggingPublisher.
func NewLoggingPublisher(logger *log.Entry) *LoggingPublisher {
	if logger == nil {
		logger = log.WithField("component", "outbox-log-publisher")
	}
	return &LoggingPublisher{logger: logger}
}

// Publish всегда успешен.
func (p *LoggingPublisher) Publish(event domain.OutboxMessage) error {
	p.logger.WithFields(log.Fields{
		"outbox_id":      event.ID,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID,
		"event_type":     event.EventType,
		"payload":        string(event.Payload),
	}).Info("catalog event")
	return nil
}

var _ domain.OutboxPublisher = (*LoggingPublisher)(nil)
