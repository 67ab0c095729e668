package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root of all runtime configuration.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	HTTP      HTTPConfig
}

// AppConfig identifies the service and the environment it runs in.
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds PostgreSQL connection and pool settings.
// Lifetime values are minutes.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or a file path
}

// SchedulerConfig controls the background sweep that flags overdue documents.
type SchedulerConfig struct {
	OverdueSweepEnabled  bool
	OverdueSweepInterval time.Duration
}

// HTTPConfig holds server timeouts, size limits and CORS settings.
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	MaxBodySize      int64
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
	TrustedProxies   []string
}

// Load resolves configuration in priority order: environment variables with
// the LEDGER_ prefix (LEDGER_DATABASE_PASSWORD and so on), then config.toml,
// then built-in defaults. A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Scheduler: SchedulerConfig{
			OverdueSweepEnabled:  overdueSweepEnabled(v),
			OverdueSweepInterval: v.GetDuration("scheduler.overdue_sweep_interval"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			MaxBodySize:      v.GetInt64("http.max_body_size"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
	}

	cfg.App.applyDefaults()
	cfg.Database.applyDefaults()
	cfg.Log.applyDefaults()
	cfg.Scheduler.applyDefaults()
	cfg.HTTP.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overdueSweepEnabled defaults to true when the key is absent, so a fresh
// deployment sweeps overdue documents without any configuration.
func overdueSweepEnabled(v *viper.Viper) bool {
	if !v.IsSet("scheduler.overdue_sweep_enabled") {
		return true
	}
	return v.GetBool("scheduler.overdue_sweep_enabled")
}

func (a *AppConfig) applyDefaults() {
	if a.Name == "" {
		a.Name = "ledger"
	}
	if a.Env == "" {
		a.Env = "development"
	}
	if a.Port == "" {
		a.Port = "8080"
	}
}

func (d *DatabaseConfig) applyDefaults() {
	if d.Host == "" {
		d.Host = "localhost"
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.User == "" {
		d.User = "postgres"
	}
	if d.DBName == "" {
		d.DBName = "ledger"
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.MaxOpenConns == 0 {
		d.MaxOpenConns = 25
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = 5
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = 60
	}
	if d.ConnMaxIdleTime == 0 {
		d.ConnMaxIdleTime = 30
	}
}

func (l *LogConfig) applyDefaults() {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "console"
	}
	if l.Output == "" {
		l.Output = "stdout"
	}
}

func (s *SchedulerConfig) applyDefaults() {
	if s.OverdueSweepInterval == 0 {
		s.OverdueSweepInterval = 1 * time.Hour
	}
}

func (h *HTTPConfig) applyDefaults() {
	if h.ReadTimeout == 0 {
		h.ReadTimeout = 15 * time.Second
	}
	if h.WriteTimeout == 0 {
		h.WriteTimeout = 15 * time.Second
	}
	if h.IdleTimeout == 0 {
		h.IdleTimeout = 60 * time.Second
	}
	if h.MaxHeaderBytes == 0 {
		h.MaxHeaderBytes = 1 << 20
	}
	if h.MaxBodySize == 0 {
		h.MaxBodySize = 10 << 20
	}
	// CORS origins deliberately have no fallback: an empty list refuses
	// cross-origin requests until origins are configured explicitly.
	if len(h.CORSAllowMethods) == 0 {
		h.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(h.CORSAllowHeaders) == 0 {
		h.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
}

func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}
	return nil
}

// DSN renders the PostgreSQL connection URL with credentials escaped.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
