package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// newObservedLogger returns a logger writing into an in-memory sink.
func newObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, recorded := observer.New(zap.DebugLevel)
	return zap.New(core), recorded
}

func TestWithContextRoundTrip(t *testing.T) {
	logger, recorded := newObservedLogger()

	ctx := WithContext(context.Background(), logger)
	FromContext(ctx).Info("count session opened")

	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "count session opened", recorded.All()[0].Message)
}

func TestFromContextFallsBackToNop(t *testing.T) {
	t.Run("nothing attached", func(t *testing.T) {
		logger := FromContext(context.Background())
		require.NotNil(t, logger)
		assert.NotPanics(t, func() { logger.Info("dropped") })
	})

	t.Run("wrong value type under the key", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
		logger := FromContext(ctx)
		require.NotNil(t, logger)
		assert.NotPanics(t, func() { logger.Warn("dropped") })
	})
}

func TestWithRequestID(t *testing.T) {
	logger, recorded := newObservedLogger()

	ctx, tagged := WithRequestID(context.Background(), logger, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))

	tagged.Info("movement recorded")
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "req-123", recorded.All()[0].ContextMap()["request_id"])

	// The context carries the tagged logger, not the original one.
	assert.NotEqual(t, logger, FromContext(ctx))
}

func TestWithRequestIDOverride(t *testing.T) {
	logger, _ := newObservedLogger()

	ctx, _ := WithRequestID(context.Background(), logger, "first")
	ctx, _ = WithRequestID(ctx, logger, "second")

	assert.Equal(t, "second", GetRequestID(ctx))
}

func TestGetRequestIDMissing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestContextLoggerEnrichment(t *testing.T) {
	logger, recorded := newObservedLogger()

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-456")
	ctx = WithContext(ctx, logger)

	L(ctx).Info("shipment dispatched", zap.String("order_no", "SO-0042"))

	require.Equal(t, 1, recorded.Len())
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-456", fields["request_id"])
	assert.Equal(t, "SO-0042", fields["order_no"])
}

func TestContextLoggerSkipsEmptyRequestID(t *testing.T) {
	logger, recorded := newObservedLogger()

	WithLogger(context.Background(), logger).Info("no correlation")

	require.Equal(t, 1, recorded.Len())
	_, present := recorded.All()[0].ContextMap()["request_id"]
	assert.False(t, present)
}

func TestContextLoggerWith(t *testing.T) {
	logger, recorded := newObservedLogger()

	cl := WithLogger(context.Background(), logger).
		With(zap.String("warehouse", "main")).
		With(zap.String("sku", "PRD-100"))

	cl.Info("stock adjusted")

	require.Equal(t, 1, recorded.Len())
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "main", fields["warehouse"])
	assert.Equal(t, "PRD-100", fields["sku"])
}

func TestContextLoggerLevels(t *testing.T) {
	logger, recorded := newObservedLogger()
	cl := WithLogger(context.Background(), logger)

	cl.Debug("d")
	cl.Info("i")
	cl.Warn("w")
	cl.Error("e")

	require.Equal(t, 4, recorded.Len())
	assert.Equal(t, zap.DebugLevel, recorded.All()[0].Level)
	assert.Equal(t, zap.ErrorLevel, recorded.All()[3].Level)
}

func TestContextLoggerNilLogger(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}

	assert.NotPanics(t, func() { cl.Info("swallowed") })
}

func TestContextLoggerZapAndSugar(t *testing.T) {
	logger, recorded := newObservedLogger()
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-789")
	cl := WithLogger(ctx, logger)

	cl.Zap().Info("raw")
	cl.Sugar().Infof("invoice %s settled", "INV-001")

	require.Equal(t, 2, recorded.Len())
	assert.Equal(t, "req-789", recorded.All()[0].ContextMap()["request_id"])
	assert.Equal(t, "invoice INV-001 settled", recorded.All()[1].Message)
}

func TestContextKeysDistinct(t *testing.T) {
	assert.NotEqual(t, LoggerKey, RequestIDKey)
}
