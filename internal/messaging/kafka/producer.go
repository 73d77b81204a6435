package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

// DefaultClientID - client.id, с которым сервис подключается к брокерам.
const DefaultClientID = "siproad-orders"

// Producer публикует события каталога и DLQ-сообщения в Kafka.
type Producer struct {
	producer sarama.SyncProducer
	logger   *log.Entry
}

// ProducerOption настраивает sarama.Config продюсера.
type ProducerOption func(*sarama.Config)

// WithClientID переопределяет client.id.
func WithClientID(id string) ProducerOption {
	return func(cfg *sarama.Config) {
		if id != "" {
			cfg.ClientID = id
		}
	}
}

// WithSendRetries задаёт число повторов отправки внутри sarama.
func WithSendRetries(max int) ProducerOption {
	return func(cfg *sarama.Config) {
		if max >= 0 {
			cfg.Producer.Retry.Max = max
		}
	}
}

// NewProducer подключается к брокерам идемпотентным SyncProducer.
func NewProducer(brokers []string, opts ...ProducerOption) (*Producer, error) {
	producer, err := sarama.NewSyncProducer(brokers, producerConfig(opts...))
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return newProducer(producer), nil
}

// producerConfig: события одного агрегата попадают в одну партицию по ключу.
func producerConfig(opts ...ProducerOption) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = DefaultClientID
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func newProducer(producer sarama.SyncProducer) *Producer {
	return &Producer{
		producer: producer,
		logger:   log.WithField("component", "kafka-producer"),
	}
}

// PublishEvent кодирует event в JSON и синхронно отправляет его в topic.
func (p *Producer) PublishEvent(topic, key string, event any, headers ...sarama.RecordHeader) error {
	msg, err := encodeMessage(topic, key, event, headers)
	if err != nil {
		return err
	}

	fields := log.Fields{"topic": topic, "key": key}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithFields(fields).Error("kafka send failed")
		return fmt.Errorf("send to %s: %w", topic, err)
	}

	fields["partition"] = partition
	fields["offset"] = offset
	p.logger.WithFields(fields).Debug("kafka message sent")
	return nil
}

func encodeMessage(topic, key string, event any, headers []sarama.RecordHeader) (*sarama.ProducerMessage, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", event, err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Value:     sarama.ByteEncoder(body),
		Headers:   headers,
		Timestamp: time.Now().UTC(),
	}
	if key != "" {
		msg.Key = sarama.StringEncoder(key)
	}
	return msg, nil
}

// Close закрывает соединения с брокерами.
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}
