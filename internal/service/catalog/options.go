// Package catalog реализует операции над компаниями и продуктами:
// протокол upsert, поиск с пагинацией и удаление с проверкой ссылок.
package catalog

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
	"github.com/vladislavdragonenkov/siproad-orders/internal/metrics"
)

const tracerName = "github.com/vladislavdragonenkov/siproad-orders/internal/service/catalog"

// Option настраивает сервисы каталога.
type Option func(*settings)

// WithLogger задаёт логгер.
func WithLogger(logger *log.Entry) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics включает метрики операций.
func WithMetrics(m *metrics.CatalogMetrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// WithOutbox включает запись событий об изменениях в outbox.
func WithOutbox(outbox domain.OutboxRepository) Option {
	return func(s *settings) {
		s.outbox = outbox
	}
}

// WithTracer задаёт tracer (по умолчанию берётся из глобального провайдера otel).
func WithTracer(tracer trace.Tracer) Option {
	return func(s *settings) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithDefaultLimit задаёт размер страницы, если клиент его не указал.
func WithDefaultLimit(limit int) Option {
	return func(s *settings) {
		if limit > 0 {
			s.defaultLimit = limit
		}
	}
}

type settings struct {
	logger       *log.Entry
	metrics      *metrics.CatalogMetrics
	outbox       domain.OutboxRepository
	tracer       trace.Tracer
	defaultLimit int
}

func newSettings(component string, opts []Option) settings {
	s := settings{
		logger:       log.WithField("component", component),
		tracer:       otel.Tracer(tracerName),
		defaultLimit: domain.DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// operation - одна наблюдаемая операция: span, метрики и лог с runtime.
type operation struct {
	name   string
	start  time.Time
	span   trace.Span
	logger *log.Entry
	m      *metrics.CatalogMetrics
}

func (s settings) begin(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *operation) {
	ctx, span := s.tracer.Start(ctx, "catalog."+name, trace.WithAttributes(attrs...))
	return ctx, &operation{
		name:   name,
		start:  time.Now(),
		span:   span,
		logger: s.logger.WithField("operation", name),
		m:      s.metrics,
	}
}

// finish закрывает операцию. Ожидаемые ошибки возвращаются без изменений,
// остальные логируются и оборачиваются в Internal.
func (o *operation) finish(err error) error {
	defer o.span.End()
	runtime := time.Since(o.start)

	if err == nil {
		o.m.RecordOperation(o.name, metrics.ResultOK, runtime)
		o.span.SetStatus(codes.Ok, "")
		o.logger.WithField("runtime", runtime.Seconds()).Info("executed")
		return nil
	}

	kind := domain.KindOf(err)
	o.m.RecordOperation(o.name, kind.String(), runtime)
	o.span.SetAttributes(attribute.String("error.kind", kind.String()))

	if domain.IsExpected(err) {
		o.logger.Warnf("not executed (%s)", err.Error())
		return err
	}

	o.span.RecordError(err)
	o.span.SetStatus(codes.Error, err.Error())
	o.logger.WithError(err).Error("error")
	return domain.Internal(err)
}
