package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey scopes the values this package stores in a context.
type contextKey string

const (
	// LoggerKey holds the request-scoped logger.
	LoggerKey contextKey = "logger"
	// RequestIDKey holds the request correlation ID.
	RequestIDKey contextKey = "request_id"
)

// WithContext attaches the logger to the context.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext returns the logger stored in the context, or a no-op logger
// when none was attached.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID in the context and returns both the
// context and a logger that tags every entry with it.
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	tagged := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, tagged), tagged
}

// GetRequestID returns the request ID stored in the context, if any.
func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(RequestIDKey).(string)
	return requestID
}

// ContextLogger wraps a zap.Logger so that request-scoped fields carried in
// the context are injected into every entry.
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L builds a ContextLogger from the given context:
//
//	logger.L(ctx).Info("movement recorded", zap.String("sku", sku))
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: FromContext(ctx)}
}

// WithLogger builds a ContextLogger around an explicit logger instead of the
// one carried in the context.
func WithLogger(ctx context.Context, logger *zap.Logger) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: logger}
}

// With returns a child ContextLogger carrying additional fields.
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	return &ContextLogger{ctx: cl.ctx, logger: cl.logger.With(fields...)}
}

func (cl *ContextLogger) enrichedLogger() *zap.Logger {
	l := cl.logger
	if l == nil {
		l = zap.NewNop()
	}
	if requestID := GetRequestID(cl.ctx); requestID != "" {
		l = l.With(zap.String("request_id", requestID))
	}
	return l
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Debug(msg, fields...)
}

func (cl *ContextLogger) Info(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Info(msg, fields...)
}

func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Warn(msg, fields...)
}

func (cl *ContextLogger) Error(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Error(msg, fields...)
}

// Fatal logs and then exits the process, matching zap's Fatal semantics.
func (cl *ContextLogger) Fatal(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Fatal(msg, fields...)
}

// Zap exposes the underlying logger with the context fields applied.
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.enrichedLogger()
}

// Sugar returns the sugared form with the context fields applied.
func (cl *ContextLogger) Sugar() *zap.SugaredLogger {
	return cl.enrichedLogger().Sugar()
}
