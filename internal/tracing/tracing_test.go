package tracing_test

import (
	"testing"

	"github.com/revorbit/auto-frames/internal/config"
	"github.com/revorbit/auto-frames/internal/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetup(t *testing.T) {
	t.Run("Success - No Exporter", func(t *testing.T) {
		// Arrange
		cfg := &config.Otel{ServiceName: "auto-frames-test", SamplerRatio: 1.0}

		// Act
		shutdown, err := tracing.Setup(t.Context(), cfg, "test")

		// Assert
		require.NoError(t, err)
		require.NotNil(t, shutdown)

		_, span := otel.Tracer("test").Start(t.Context(), "span-check")
		assert.True(t, span.SpanContext().IsSampled())
		span.End()

		assert.NoError(t, shutdown(t.Context()))
	})

	t.Run("Success - Zero Ratio Drops Root Spans", func(t *testing.T) {
		// Arrange
		cfg := &config.Otel{ServiceName: "auto-frames-test", SamplerRatio: 0}

		// Act
		shutdown, err := tracing.Setup(t.Context(), cfg, "test")
		require.NoError(t, err)
		defer shutdown(t.Context())

		_, span := otel.Tracer("test").Start(t.Context(), "span-check")
		defer span.End()

		// Assert
		assert.False(t, span.SpanContext().IsSampled())
	})
}
