package grpcapi

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// LoggingInterceptor пишет в лог метод, код ответа и длительность вызова.
func LoggingInterceptor(logger *log.Entry) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = log.WithField("component", "grpc")
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		entry := logger.WithFields(log.Fields{
			"method":  info.FullMethod,
			"code":    status.Code(err).String(),
			"runtime": time.Since(start).Seconds(),
		})
		if err != nil {
			entry.WithError(err).Warn("grpc call failed")
		} else {
			entry.Info("grpc call handled")
		}
		return resp, err
	}
}
