package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupTracing_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), TracingConfig{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
}

func TestSetupTracing_WithEndpoint(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), TracingConfig{
		Endpoint: "127.0.0.1:4318",
		Insecure: true,
		Version:  "test",
	})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	// Экспортёр ленивый: без коллектора shutdown просто сбрасывает пустую очередь.
	_ = shutdown(context.Background())
}
