package app

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/siproad-orders/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/siproad-orders/internal/metrics"
	"github.com/vladislavdragonenkov/siproad-orders/internal/service/outbox"
)

func TestSplitBrokers(t *testing.T) {
	require.Nil(t, splitBrokers(""))
	require.Equal(t, []string{"a:9092", "b:9092"}, splitBrokers(" a:9092, ,b:9092 "))
}

func TestInitMessagingWithoutBrokers(t *testing.T) {
	m := initMessaging(DefaultConfig(), kafka.CatalogApplier{}, nil, log.WithField("test", "kafka"))

	require.Nil(t, m.producer)
	require.Nil(t, m.consumer)
	require.Nil(t, m.dlqPublisher)
	require.IsType(t, &outbox.LoggingPublisher{}, m.publisher)
	m.close(log.WithField("test", "kafka"))
}

func TestInitMessagingFallsBackOnUnreachableBroker(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KafkaBrokers = "invalid-broker:9092"

	m := initMessaging(cfg, kafka.CatalogApplier{}, metrics.NewCatalogMetricsWithRegisterer(prometheus.NewRegistry()), log.WithField("test", "kafka"))

	require.Nil(t, m.producer)
	require.IsType(t, &outbox.LoggingPublisher{}, m.publisher)
}
