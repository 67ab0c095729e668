package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
	assert.NotEmpty(t, cfg.TimeFormat)
}

func TestProductionConfig(t *testing.T) {
	cfg := ProductionConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
	assert.NotEmpty(t, cfg.TimeFormat)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"default config", DefaultConfig()},
		{"production config", ProductionConfig()},
		{"debug console", &Config{Level: "debug", Format: "console", Output: "stdout", TimeFormat: "2006-01-02T15:04:05Z07:00"}},
		{"info json", &Config{Level: "info", Format: "json", Output: "stdout", TimeFormat: "2006-01-02T15:04:05Z07:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestNewForEnvironment(t *testing.T) {
	// Unknown environments fall back to the development profile.
	for _, env := range []string{"development", "production", "staging"} {
		t.Run(env, func(t *testing.T) {
			log, err := NewForEnvironment(env)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestWith(t *testing.T) {
	log, err := NewForEnvironment("development")
	require.NoError(t, err)

	child := With(log, zap.String("key", "value"))
	assert.NotNil(t, child)
	assert.NotEqual(t, log, child)
}

func TestNamed(t *testing.T) {
	log, err := NewForEnvironment("development")
	require.NoError(t, err)

	named := Named(log, "billing")
	assert.NotNil(t, named)
	assert.NotEqual(t, log, named)
}

func TestSync(t *testing.T) {
	log, err := NewForEnvironment("development")
	require.NoError(t, err)

	// Syncing stdout can fail on some platforms; the call just must
	// not panic.
	_ = Sync(log)
}

func TestBuildWriter(t *testing.T) {
	for _, output := range []string{"stdout", "stderr", "STDOUT"} {
		t.Run(output, func(t *testing.T) {
			assert.NotNil(t, buildWriter(output))
		})
	}
}

func TestBuildWriterFile(t *testing.T) {
	tmpFile, err := os.CreateTemp(t.TempDir(), "ledger-*.log")
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())

	assert.NotNil(t, buildWriter(tmpFile.Name()))
}

func TestBuildEncoder(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		t.Run(format, func(t *testing.T) {
			encoder := buildEncoder(&Config{
				Level:      "info",
				Format:     format,
				Output:     "stdout",
				TimeFormat: "2006-01-02T15:04:05Z07:00",
			})
			assert.NotNil(t, encoder)
		})
	}
}

func TestJSONFieldOutput(t *testing.T) {
	var buf bytes.Buffer

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			MessageKey:     "msg",
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.MillisDurationEncoder,
		}),
		zapcore.AddSync(&buf),
		zapcore.InfoLevel,
	)

	zap.New(core).Info("movement recorded", zap.String("reference", "PRD-100"))

	var output map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	assert.Equal(t, "movement recorded", output["msg"])
	assert.Equal(t, "info", output["level"])
	assert.Equal(t, "PRD-100", output["reference"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zapcore.EncoderConfig{
			LevelKey:    "level",
			MessageKey:  "msg",
			EncodeLevel: zapcore.LowercaseLevelEncoder,
		}),
		zapcore.AddSync(&buf),
		zapcore.InfoLevel,
	)
	log := zap.New(core)

	log.Debug("debug message")
	assert.NotContains(t, buf.String(), "debug message")

	log.Info("info message")
	assert.Contains(t, buf.String(), "info message")
}
