package app

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
	"github.com/vladislavdragonenkov/siproad-orders/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/siproad-orders/internal/metrics"
	"github.com/vladislavdragonenkov/siproad-orders/internal/service/outbox"
)

// messaging - Kafka-компоненты либо их заменители без брокера.
type messaging struct {
	producer     *kafka.Producer
	consumer     *kafka.Consumer
	publisher    domain.OutboxPublisher
	dlqPublisher domain.OutboxPublisher
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, broker := range strings.Split(raw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

// initMessaging подключает Kafka, если заданы брокеры. Ошибки подключения
// не фатальны: события уходят в лог, репликация отключается.
func initMessaging(cfg Config, applier kafka.ReplicationApplier, m *metrics.CatalogMetrics, logger *log.Entry) *messaging {
	fallback := &messaging{publisher: outbox.NewLoggingPublisher(logger.WithField("layer", "outbox"))}

	brokers := splitBrokers(cfg.KafkaBrokers)
	if len(brokers) == 0 {
		logger.Info("kafka is not configured, catalog events go to log")
		return fallback
	}

	producer, err := kafka.NewProducer(brokers, kafka.WithClientID(cfg.KafkaGroupID))
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return fallback
	}
	logger.WithField("brokers", brokers).Info("kafka producer initialized")

	result := &messaging{
		producer:     producer,
		publisher:    kafka.NewOutboxPublisher(producer, cfg.EventsTopic),
		dlqPublisher: kafka.NewOutboxPublisher(producer, kafka.TopicDeadLetterQueue),
	}

	handler := kafka.NewReplicationHandler(applier, m)
	consumer, err := kafka.NewConsumer(brokers, cfg.KafkaGroupID, []string{cfg.ReplicationTopic}, handler.Handle, kafka.WithDLQ(producer))
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka consumer, replication is disabled")
		return result
	}
	result.consumer = consumer
	return result
}

func (m *messaging) close(logger *log.Entry) {
	if m == nil {
		return
	}
	if m.consumer != nil {
		if err := m.consumer.Stop(); err != nil {
			logger.WithError(err).Warn("failed to stop kafka consumer")
		}
	}
	if m.producer != nil {
		if err := m.producer.Close(); err != nil {
			logger.WithError(err).Warn("failed to close kafka producer")
		} else {
			logger.Info("kafka producer closed")
		}
	}
}
