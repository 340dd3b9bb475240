package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitOtel_Disabled(t *testing.T) {
	shutdown, err := InitOtel(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")

	assert.NoError(t, shutdown(context.Background()))
}

func TestInitOtel_Enabled(t *testing.T) {
	// grpc.NewClient connects lazily, so no collector is needed to build the
	// pipeline or to shut it down.
	shutdown, err := InitOtel(context.Background(), Config{Enabled: true, Endpoint: "127.0.0.1:4317"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
