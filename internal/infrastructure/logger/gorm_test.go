package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

// newObservedGormLogger builds a GormLogger over an observer core so
// tests can inspect what was emitted.
func newObservedGormLogger(zapLevel zapcore.Level, gormLevel gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapLevel)
	return NewGormLogger(zap.New(core), gormLevel, opts...), recorded
}

func selectProducts() (string, int64) {
	return "SELECT * FROM products", 5
}

func TestNewGormLogger(t *testing.T) {
	gormLog, _ := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info)

	require.NotNil(t, gormLog)
	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
}

func TestGormLoggerWithOptions(t *testing.T) {
	gormLog, _ := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)

	assert.Equal(t, 500*time.Millisecond, gormLog.slowThreshold)
	assert.False(t, gormLog.ignoreRecordNotFoundError)
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog, _ := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info)

	newLogger := gormLog.LogMode(gormlogger.Warn)

	// LogMode returns a copy; the receiver keeps its level.
	assert.Equal(t, gormlogger.Info, gormLog.logLevel)

	newGormLog, ok := newLogger.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, newGormLog.logLevel)
}

func TestGormLogger_Info(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info)

	gormLog.Info(context.Background(), "test message %s", "value")

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "test message value")
}

func TestGormLogger_Info_Suppressed(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Silent)

	gormLog.Info(context.Background(), "test message")

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Warn(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.WarnLevel, gormlogger.Warn)

	gormLog.Warn(context.Background(), "warning message %d", 42)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "warning message 42")
	assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
}

func TestGormLogger_Error(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.ErrorLevel, gormlogger.Error)

	gormLog.Error(context.Background(), "error message")

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
}

func TestGormLogger_Trace_Error(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.ErrorLevel, gormlogger.Error)

	gormLog.Trace(context.Background(), time.Now(), selectProducts, errors.New("boom"))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "SQL Error")
}

func TestGormLogger_Trace_RecordNotFoundIgnored(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.ErrorLevel, gormlogger.Error,
		WithIgnoreRecordNotFoundError(true))

	gormLog.Trace(context.Background(), time.Now(), selectProducts, gormlogger.ErrRecordNotFound)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_SlowQuery(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.WarnLevel, gormlogger.Warn,
		WithSlowThreshold(1*time.Nanosecond))

	// Back-dated begin makes any query count as slow.
	gormLog.Trace(context.Background(), time.Now().Add(-1*time.Second), selectProducts, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "SLOW SQL")
}

func TestGormLogger_Trace_NormalQuery(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.DebugLevel, gormlogger.Info)

	gormLog.Trace(context.Background(), time.Now(), selectProducts, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "SQL Query")
}

func TestGormLogger_Trace_Silent(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.DebugLevel, gormlogger.Silent)

	gormLog.Trace(context.Background(), time.Now(), selectProducts, nil)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_WithRequestID(t *testing.T) {
	gormLog, recorded := newObservedGormLogger(zapcore.DebugLevel, gormlogger.Info)

	ctx := context.WithValue(context.Background(), RequestIDKey, "test-req-id")
	gormLog.Trace(ctx, time.Now(), selectProducts, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)

	hasRequestID := false
	for _, field := range logs[0].Context {
		if field.Key == "request_id" {
			hasRequestID = true
			assert.Equal(t, "test-req-id", field.String)
		}
	}
	assert.True(t, hasRequestID, "request_id should be in log fields")
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}

func TestGormLoggerImplementsInterface(t *testing.T) {
	gormLog, _ := newObservedGormLogger(zapcore.InfoLevel, gormlogger.Info)

	var _ gormlogger.Interface = gormLog
}
