package observability

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// ServiceName - имя сервиса в ресурсах трассировки.
const ServiceName = "siproad-orders"

const exportTimeout = 5 * time.Second

// TracingConfig описывает экспорт трасс.
type TracingConfig struct {
	// Endpoint - host:port OTLP/HTTP коллектора. Пустое значение отключает экспорт.
	Endpoint string
	URLPath  string
	Insecure bool
	Version  string
}

// ShutdownFunc завершает работу провайдера трасс.
type ShutdownFunc func(context.Context) error

// SetupTracing настраивает глобальный TracerProvider.
// Без endpoint остаётся no-op провайдер otel, а shutdown ничего не делает.
func SetupTracing(ctx context.Context, cfg TracingConfig) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if cfg.Endpoint == "" {
		log.WithField("component", "tracing").Info("tracing disabled: endpoint is not configured")
		return noop, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(cfg.Version),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("create resource: %w", err)
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.URLPath != "" {
		opts = append(opts, otlptracehttp.WithURLPath(cfg.URLPath))
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return noop, fmt.Errorf("create otlp trace exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter,
			sdktrace.WithExportTimeout(exportTimeout),
		)),
	)
	otel.SetTracerProvider(provider)

	log.WithFields(log.Fields{
		"component": "tracing",
		"endpoint":  cfg.Endpoint,
	}).Info("tracing enabled")

	return provider.Shutdown, nil
}
