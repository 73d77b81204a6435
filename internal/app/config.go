package app

import (
	"time"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
	"github.com/vladislavdragonenkov/siproad-orders/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/siproad-orders/internal/service/outbox"
)

// Поддерживаемые драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
	StorageDriverMySQL    = "mysql"
)

// Config описывает настройки запуска сервиса.
type Config struct {
	HTTPAddr    string
	GRPCAddr    string
	MetricsAddr string

	StorageDriver  string
	PostgresDSN    string
	MySQLDSN       string
	AutoMigrate    bool
	DBDefaultLimit int

	// KafkaBrokers - список брокеров через запятую; пустая строка отключает Kafka.
	KafkaBrokers     string
	KafkaGroupID     string
	ReplicationTopic string
	EventsTopic      string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration

	OTelEndpoint string
	OTelInsecure bool
}

// DefaultConfig возвращает конфигурацию для локального запуска на memory-хранилище.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:           ":8080",
		GRPCAddr:           ":50051",
		MetricsAddr:        ":9090",
		StorageDriver:      StorageDriverMemory,
		AutoMigrate:        true,
		DBDefaultLimit:     domain.DefaultSearchLimit,
		KafkaGroupID:       "siproad-orders",
		ReplicationTopic:   kafka.TopicReplication,
		EventsTopic:        kafka.TopicCatalogEvents,
		OutboxPollInterval: time.Second,
		OutboxBatchSize:    100,
		OutboxMaxAttempts:  3,
		OutboxRetryDelay:   50 * time.Millisecond,
		OTelInsecure:       true,
	}
}

func (c Config) outboxConfig() outbox.Config {
	cfg := outbox.DefaultConfig()
	cfg.PollInterval = c.OutboxPollInterval
	cfg.BatchSize = c.OutboxBatchSize
	cfg.MaxAttempts = c.OutboxMaxAttempts
	cfg.RetryDelay = c.OutboxRetryDelay
	return cfg
}
