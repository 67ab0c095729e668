package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearLedgerEnv unsets every LEDGER_ variable for the duration of the test
// so Load sees a clean environment.
func clearLedgerEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, value, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(key, "LEDGER_") {
			continue
		}
		require.NoError(t, os.Unsetenv(key))
		t.Cleanup(func() { os.Setenv(key, value) })
	}
}

func TestLoadDefaults(t *testing.T) {
	clearLedgerEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ledger", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, "ledger", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	assert.True(t, cfg.Scheduler.OverdueSweepEnabled)
	assert.Positive(t, cfg.Scheduler.OverdueSweepInterval)

	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	assert.Contains(t, cfg.HTTP.CORSAllowMethods, "PATCH")
}

func TestLoadFromEnvironment(t *testing.T) {
	clearLedgerEnv(t)
	t.Setenv("LEDGER_APP_NAME", "ledger-staging")
	t.Setenv("LEDGER_APP_ENV", "staging")
	t.Setenv("LEDGER_APP_PORT", "9000")
	t.Setenv("LEDGER_DATABASE_HOST", "db.staging.local")
	t.Setenv("LEDGER_DATABASE_PORT", "5433")
	t.Setenv("LEDGER_DATABASE_USER", "ledger_rw")
	t.Setenv("LEDGER_DATABASE_PASSWORD", "s3cret")
	t.Setenv("LEDGER_DATABASE_DBNAME", "ledger_staging")
	t.Setenv("LEDGER_DATABASE_SSLMODE", "require")
	t.Setenv("LEDGER_DATABASE_MAX_OPEN_CONNS", "50")
	t.Setenv("LEDGER_DATABASE_MAX_IDLE_CONNS", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ledger-staging", cfg.App.Name)
	assert.Equal(t, "staging", cfg.App.Env)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "db.staging.local", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "ledger_rw", cfg.Database.User)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "ledger_staging", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
}

func TestLoadPoolValidation(t *testing.T) {
	t.Run("idle conns above open conns is rejected", func(t *testing.T) {
		clearLedgerEnv(t)
		t.Setenv("LEDGER_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("LEDGER_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("negative idle conns is rejected", func(t *testing.T) {
		clearLedgerEnv(t)
		t.Setenv("LEDGER_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("zero open conns falls back to the default", func(t *testing.T) {
		clearLedgerEnv(t)
		t.Setenv("LEDGER_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})
}

func TestLoadProductionValidation(t *testing.T) {
	t.Run("password is mandatory", func(t *testing.T) {
		clearLedgerEnv(t)
		t.Setenv("LEDGER_APP_ENV", "production")
		t.Setenv("LEDGER_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("sslmode disable is rejected", func(t *testing.T) {
		clearLedgerEnv(t)
		t.Setenv("LEDGER_APP_ENV", "production")
		t.Setenv("LEDGER_DATABASE_PASSWORD", "secure-password")
		t.Setenv("LEDGER_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("wildcard CORS origin is rejected", func(t *testing.T) {
		clearLedgerEnv(t)
		t.Setenv("LEDGER_APP_ENV", "production")
		t.Setenv("LEDGER_DATABASE_PASSWORD", "secure-password")
		t.Setenv("LEDGER_DATABASE_SSLMODE", "require")
		t.Setenv("LEDGER_HTTP_CORS_ALLOW_ORIGINS", "*")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cors_allow_origins cannot be '*'")
	})

	t.Run("complete production config passes", func(t *testing.T) {
		clearLedgerEnv(t)
		t.Setenv("LEDGER_APP_ENV", "production")
		t.Setenv("LEDGER_DATABASE_PASSWORD", "secure-password")
		t.Setenv("LEDGER_DATABASE_SSLMODE", "require")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "ledger_rw",
		Password: "pass@word#123",
		DBName:   "ledger",
		SSLMode:  "verify-full",
	}

	dsn := cfg.DSN()
	assert.True(t, strings.HasPrefix(dsn, "postgres://"))
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "ledger_rw")
	assert.Contains(t, dsn, "/ledger")
	assert.Contains(t, dsn, "sslmode=verify-full")
	// Credentials must survive URL escaping.
	assert.Contains(t, dsn, "pass%40word%23123")
	assert.NotContains(t, dsn, "pass@word")

	cfg.Password = ""
	assert.NotEmpty(t, cfg.DSN())
}
