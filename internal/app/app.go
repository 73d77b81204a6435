// Package app собирает сервис каталога: хранилище, сервисы, транспорты и фоновые воркеры.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	healthcheck "github.com/vladislavdragonenkov/siproad-orders/internal/health"
	"github.com/vladislavdragonenkov/siproad-orders/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/siproad-orders/internal/metrics"
	"github.com/vladislavdragonenkov/siproad-orders/internal/observability"
	"github.com/vladislavdragonenkov/siproad-orders/internal/service/catalog"
	"github.com/vladislavdragonenkov/siproad-orders/internal/service/outbox"
	"github.com/vladislavdragonenkov/siproad-orders/internal/transport/grpcapi"
	"github.com/vladislavdragonenkov/siproad-orders/internal/transport/httpapi"
	"github.com/vladislavdragonenkov/siproad-orders/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Run запускает сервис и блокируется до отмены ctx или падения сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	shutdownTracing, err := observability.SetupTracing(ctx, observability.TracingConfig{
		Endpoint: cfg.OTelEndpoint,
		Insecure: cfg.OTelInsecure,
		Version:  version.GetVersion(),
	})
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.WithError(err).Warn("tracing shutdown with error")
		}
	}()

	deps, err := initRuntimeDependencies(ctx, cfg, logger.WithField("layer", "storage"))
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()
	logger.WithField("driver", deps.driver).Info("storage initialized")

	catalogMetrics := metrics.NewCatalogMetrics()
	serviceOpts := []catalog.Option{
		catalog.WithMetrics(catalogMetrics),
		catalog.WithOutbox(deps.outbox),
		catalog.WithDefaultLimit(cfg.DBDefaultLimit),
	}
	products := catalog.NewProductService(deps.products, deps.companies, serviceOpts...)
	companies := catalog.NewCompanyService(deps.companies, serviceOpts...)

	broker := initMessaging(cfg, kafka.CatalogApplier{Products: products, Companies: companies}, catalogMetrics, logger.WithField("layer", "kafka"))
	defer broker.close(logger)

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	worker := outbox.NewWorker(deps.outbox, broker.publisher, cfg.outboxConfig(),
		outbox.WithLogger(logger.WithField("layer", "outbox")),
		outbox.WithMetrics(catalogMetrics),
		outbox.WithDLQPublisher(broker.dlqPublisher),
	)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Run(workerCtx)
	}()

	if broker.consumer != nil {
		if err := broker.consumer.Start(workerCtx); err != nil {
			logger.WithError(err).Warn("failed to start replication consumer")
		}
	}

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", healthcheck.NewStorageChecker(deps.driver, deps.pinger))

	grpcServer, grpcHealth := newGRPCServer(products, companies, logger.WithField("layer", "grpc"))
	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen grpc %s: %w", cfg.GRPCAddr, err)
	}
	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		_ = grpcLis.Close()
		return fmt.Errorf("listen http %s: %w", cfg.HTTPAddr, err)
	}

	metricsSrv := startMetricsServer(cfg.MetricsAddr, logger, healthHandler)
	httpSrv := &http.Server{
		Handler:           httpapi.NewRouter(httpapi.NewHandler(products, companies), catalogMetrics),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Infof("gRPC сервер слушает %s", grpcLis.Addr())
		errCh <- grpcServer.Serve(grpcLis)
	}()
	go func() {
		logger.Infof("HTTP API слушает %s%s", httpLis.Addr(), httpapi.BasePath)
		if err := httpSrv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем серверы")
		runErr = ctx.Err()
	case err := <-errCh:
		if !errors.Is(err, grpc.ErrServerStopped) {
			runErr = err
		}
	}

	grpcHealth.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	stopGRPC(grpcServer, logger)
	shutdownHTTP(httpSrv, logger)
	shutdownHTTP(metricsSrv, logger)
	stopWorkers()
	<-workerDone
	return runErr
}

func newGRPCServer(products catalog.ProductAPI, companies catalog.CompanyAPI, logger *log.Entry) (*grpc.Server, *health.Server) {
	grpcMetrics := promgrpc.NewServerMetrics()
	if err := prometheus.Register(grpcMetrics); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*promgrpc.ServerMetrics); ok {
				grpcMetrics = existing
			}
		} else {
			logger.WithError(err).Warn("failed to register grpc metrics")
		}
	}

	server := grpc.NewServer(grpc.ChainUnaryInterceptor(
		grpcMetrics.UnaryServerInterceptor(),
		grpcapi.LoggingInterceptor(logger),
	))
	grpcapi.RegisterCatalogServer(server, grpcapi.NewServer(products, companies))

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(grpcapi.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)

	reflection.Register(server)
	grpcMetrics.InitializeMetrics(server)
	return server, healthServer
}

func stopGRPC(server *grpc.Server, logger *log.Entry) {
	stopped := make(chan struct{})
	go func() {
		server.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(shutdownTimeout):
		logger.Warn("graceful stop превысил таймаут, принудительно останавливаем")
		server.Stop()
	}
}
