package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/siproad-orders/internal/app"
)

const (
	envHTTPAddr           = "SIPROAD_HTTP_ADDR"
	envGRPCAddr           = "SIPROAD_GRPC_ADDR"
	envMetricsAddr        = "SIPROAD_METRICS_ADDR"
	envStorageDriver      = "SIPROAD_STORAGE_DRIVER"
	envPostgresDSN        = "SIPROAD_POSTGRES_DSN"
	envMySQLDSN           = "SIPROAD_MYSQL_DSN"
	envAutoMigrate        = "SIPROAD_AUTO_MIGRATE"
	envDBDefaultLimit     = "SIPROAD_DB_DEFAULT_LIMIT"
	envKafkaBrokers       = "SIPROAD_KAFKA_BROKERS"
	envKafkaGroupID       = "SIPROAD_KAFKA_GROUP_ID"
	envReplicationTopic   = "SIPROAD_REPLICATION_TOPIC"
	envEventsTopic        = "SIPROAD_EVENTS_TOPIC"
	envOutboxPollInterval = "SIPROAD_OUTBOX_POLL_INTERVAL"
	envOutboxBatchSize    = "SIPROAD_OUTBOX_BATCH_SIZE"
	envOutboxMaxAttempts  = "SIPROAD_OUTBOX_MAX_ATTEMPTS"
	envOTelEndpoint       = "SIPROAD_OTEL_ENDPOINT"
	envOTelInsecure       = "SIPROAD_OTEL_INSECURE"
)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

// readConfigFromEnv накладывает переменные окружения на конфигурацию по умолчанию.
// Некорректные значения игнорируются и возвращаются в виде предупреждений.
func readConfigFromEnv(lookup func(string) (string, bool)) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	positiveInt := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s: expected positive integer, got %q", key, v))
			return
		}
		*dst = n
	}
	positiveDuration := func(key string, dst *time.Duration) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil || d <= 0 {
			warnings = append(warnings, fmt.Sprintf("%s: expected positive duration, got %q", key, v))
			return
		}
		*dst = d
	}
	boolean := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		default:
			warnings = append(warnings, fmt.Sprintf("%s: expected boolean, got %q", key, v))
		}
	}

	str(envHTTPAddr, &cfg.HTTPAddr)
	str(envGRPCAddr, &cfg.GRPCAddr)
	str(envMetricsAddr, &cfg.MetricsAddr)
	str(envStorageDriver, &cfg.StorageDriver)
	cfg.StorageDriver = strings.ToLower(cfg.StorageDriver)
	str(envPostgresDSN, &cfg.PostgresDSN)
	str(envMySQLDSN, &cfg.MySQLDSN)
	boolean(envAutoMigrate, &cfg.AutoMigrate)
	positiveInt(envDBDefaultLimit, &cfg.DBDefaultLimit)
	str(envKafkaBrokers, &cfg.KafkaBrokers)
	str(envKafkaGroupID, &cfg.KafkaGroupID)
	str(envReplicationTopic, &cfg.ReplicationTopic)
	str(envEventsTopic, &cfg.EventsTopic)
	positiveDuration(envOutboxPollInterval, &cfg.OutboxPollInterval)
	positiveInt(envOutboxBatchSize, &cfg.OutboxBatchSize)
	positiveInt(envOutboxMaxAttempts, &cfg.OutboxMaxAttempts)
	str(envOTelEndpoint, &cfg.OTelEndpoint)
	boolean(envOTelInsecure, &cfg.OTelInsecure)

	return cfg, warnings
}

func main() {
	setupLogger()
	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	for _, warning := range warnings {
		log.WithField("component", "config").Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":      cfg.HTTPAddr,
		"grpc_addr":      cfg.GRPCAddr,
		"metrics_addr":   cfg.MetricsAddr,
		"storage_driver": cfg.StorageDriver,
	}).Info("запускаем siproad-orders")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("siproad-orders остановлен")
}
