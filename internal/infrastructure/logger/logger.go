package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Config controls how the application logger is built.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or a file path
	TimeFormat string // layout passed to the time encoder
}

// DefaultConfig returns the development setup: colored console output on stdout.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: defaultTimeLayout,
	}
}

// ProductionConfig returns the production setup: JSON lines on stdout.
func ProductionConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "json",
		Output:     "stdout",
		TimeFormat: defaultTimeLayout,
	}
}

// New creates a zap logger from the configuration. Unknown levels fall back
// to info and an unopenable output path falls back to stdout rather than
// failing startup.
func New(cfg *Config) (*zap.Logger, error) {
	core := zapcore.NewCore(buildEncoder(cfg), buildWriter(cfg.Output), parseLevel(cfg.Level))
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// NewForEnvironment creates a logger appropriate for the given environment.
// Anything other than "production" gets the development configuration.
func NewForEnvironment(env string) (*zap.Logger, error) {
	if env == "production" {
		return New(ProductionConfig())
	}
	return New(DefaultConfig())
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	case "info":
		return zapcore.InfoLevel
	default:
		return zapcore.InfoLevel
	}
}

func buildEncoder(cfg *Config) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.MessageKey = "msg"
	ec.FunctionKey = zapcore.OmitKey
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(cfg.TimeFormat)
	ec.EncodeDuration = zapcore.MillisDurationEncoder
	ec.EncodeLevel = zapcore.LowercaseLevelEncoder
	ec.EncodeCaller = zapcore.ShortCallerEncoder

	if cfg.Format == "console" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

func buildWriter(output string) zapcore.WriteSyncer {
	switch strings.ToLower(output) {
	case "stdout", "":
		return zapcore.AddSync(os.Stdout)
	case "stderr":
		return zapcore.AddSync(os.Stderr)
	default:
		file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zapcore.AddSync(os.Stdout)
		}
		return zapcore.AddSync(file)
	}
}

// With returns a child logger carrying the given fields.
func With(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	return logger.With(fields...)
}

// Named returns a logger scoped under the given name.
func Named(logger *zap.Logger, name string) *zap.Logger {
	return logger.Named(name)
}

// Sync flushes any buffered log entries.
func Sync(logger *zap.Logger) error {
	return logger.Sync()
}
