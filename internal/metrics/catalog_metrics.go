package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты операций для метки result.
const (
	ResultOK            = "ok"
	ResultNotFound      = "not_found"
	ResultAlreadyExists = "already_exists"
	ResultIsBeingUsed   = "is_being_used"
	ResultInvalid       = "invalid_argument"
	ResultError         = "error"
)

// CatalogMetrics содержит метрики операций каталога.
type CatalogMetrics struct {
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	// Срабатывания replication fallback: update по неизвестному id превращается в create.
	replicationFallbacks *prometheus.CounterVec
	httpRequests         *prometheus.CounterVec
	httpDuration         *prometheus.HistogramVec
	replicationMessages  *prometheus.CounterVec
	outboxAttempts       *prometheus.CounterVec
	outboxPending        prometheus.Gauge
	outboxOldestAge      prometheus.Gauge
}

// NewCatalogMetrics создаёт метрики в DefaultRegisterer.
func NewCatalogMetrics() *CatalogMetrics {
	return NewCatalogMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewCatalogMetricsWithRegisterer создаёт метрики в заданном registerer (удобно для тестов).
func NewCatalogMetricsWithRegisterer(registerer prometheus.Registerer) *CatalogMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CatalogMetrics{
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "siproad_orders_operations_total",
			Help: "Total number of catalog operations grouped by operation and result",
		}, []string{"operation", "result"}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "siproad_orders_operation_duration_seconds",
			Help:    "Duration of catalog operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		replicationFallbacks: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "siproad_orders_replication_fallbacks_total",
			Help: "Total number of updates with unknown id applied as creates",
		}, []string{"entity"}),
		httpRequests: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "siproad_orders_http_requests_total",
			Help: "Total number of HTTP requests grouped by route and status code",
		}, []string{"route", "method", "code"}),
		httpDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "siproad_orders_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		replicationMessages: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "siproad_orders_replication_messages_total",
			Help: "Total number of consumed replication messages grouped by entity and result",
		}, []string{"entity", "result"}),
		outboxAttempts: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "siproad_orders_outbox_publish_attempts_total",
			Help: "Total number of outbox publish attempts grouped by result",
		}, []string{"result"}),
		outboxPending: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "siproad_orders_outbox_pending_records",
			Help: "Current number of pending records in the catalog outbox",
		}),
		outboxOldestAge: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "siproad_orders_outbox_oldest_pending_age_seconds",
			Help: "Age in seconds of the oldest pending outbox record",
		}),
	}
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOperation фиксирует результат и длительность операции каталога.
// Безопасен для nil-получателя: метрики в сервисе опциональны.
func (m *CatalogMetrics) RecordOperation(operation, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, result).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordReplicationFallback увеличивает счётчик срабатываний replication fallback.
func (m *CatalogMetrics) RecordReplicationFallback(entity string) {
	if m == nil {
		return
	}
	m.replicationFallbacks.WithLabelValues(entity).Inc()
}

// RecordHTTPRequest фиксирует HTTP-запрос.
func (m *CatalogMetrics) RecordHTTPRequest(route, method string, code int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, fmt.Sprintf("%d", code)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordReplicationMessage фиксирует обработку сообщения репликации.
func (m *CatalogMetrics) RecordReplicationMessage(entity, result string) {
	if m == nil {
		return
	}
	m.replicationMessages.WithLabelValues(entity, result).Inc()
}

// RecordOutboxPublish фиксирует попытку публикации события из outbox.
func (m *CatalogMetrics) RecordOutboxPublish(result string) {
	if m == nil {
		return
	}
	m.outboxAttempts.WithLabelValues(result).Inc()
}

// SetOutboxBacklog обновляет размер backlog и возраст самого старого события.
func (m *CatalogMetrics) SetOutboxBacklog(pending int, oldestAge time.Duration) {
	if m == nil {
		return
	}
	if oldestAge < 0 {
		oldestAge = 0
	}
	m.outboxPending.Set(float64(pending))
	m.outboxOldestAge.Set(oldestAge.Seconds())
}
