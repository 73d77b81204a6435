package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
)

// Topics каталога.
const (
	TopicReplication     = "siproad.orders.replication"
	TopicCatalogEvents   = "siproad.orders.catalog.events"
	TopicDeadLetterQueue = "siproad.orders.dlq"
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// Сущности, которые приходят в сообщениях репликации.
const (
	EntityProduct = "product"
	EntityCompany = "company"
)

// ReplicationMessage - запись, пришедшая из другого сервиса siproad.
// Payload содержит ProductDTO или CompanyDTO в зависимости от Entity.
type ReplicationMessage struct {
	Entity  string          `json:"entity"`
	Payload json.RawMessage `json:"payload"`
}

// ParseReplicationMessage парсит ReplicationMessage из сообщения
func ParseReplicationMessage(message *sarama.ConsumerMessage) (ReplicationMessage, error) {
	var msg ReplicationMessage
	if err := json.Unmarshal(message.Value, &msg); err != nil {
		return ReplicationMessage{}, fmt.Errorf("failed to unmarshal replication message: %w", err)
	}
	if msg.Entity == "" {
		return ReplicationMessage{}, fmt.Errorf("replication message without entity")
	}
	if len(msg.Payload) == 0 {
		return ReplicationMessage{}, fmt.Errorf("replication message without payload")
	}
	return msg, nil
}

// DeadLetter - сообщение, отправляемое в DLQ после исчерпания попыток.
type DeadLetter struct {
	OriginalTopic     string `json:"original_topic"`
	OriginalPartition int32  `json:"original_partition"`
	OriginalOffset    int64  `json:"original_offset"`
	OriginalKey       string `json:"original_key"`
	OriginalValue     string `json:"original_value"`
	ErrorMessage      string `json:"error_message"`
	FailedAt          string `json:"failed_at"`
	RetryCount        int    `json:"retry_count"`
}
