package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	healthcheck "github.com/vladislavdragonenkov/siproad-orders/internal/health"
)

func localConfig() Config {
	cfg := DefaultConfig()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.GRPCAddr = "127.0.0.1:0"
	cfg.MetricsAddr = "127.0.0.1:0"
	return cfg
}

func TestRunMemoryGracefulShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(150 * time.Millisecond)
		cancel()
	}()

	err := Run(ctx, localConfig())
	require.True(t, errors.Is(err, context.Canceled), "unexpected error: %v", err)
}

func TestRunInvalidStorageDriver(t *testing.T) {
	cfg := localConfig()
	cfg.StorageDriver = "invalid-driver"

	require.ErrorContains(t, Run(context.Background(), cfg), "unsupported storage driver")
}

func TestRunInvalidListenAddress(t *testing.T) {
	cfg := localConfig()
	cfg.GRPCAddr = "256.0.0.1:bad"

	require.ErrorContains(t, Run(context.Background(), cfg), "listen grpc")
}

func TestOpsMux(t *testing.T) {
	handler := healthcheck.NewHandler("test")
	handler.RegisterChecker("storage", healthcheck.NewStorageChecker("memory", memoryPinger{}))
	mux := newOpsMux(handler)

	for path, code := range map[string]int{
		"/livez":   http.StatusOK,
		"/readyz":  http.StatusOK,
		"/healthz": http.StatusOK,
		"/metrics": http.StatusOK,
		"/unknown": http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, code, rec.Code, path)
	}
}
