package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all engine configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Log       LogConfig
	Ledger    LedgerConfig
	Import    ImportConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver string // sqlite or postgres
	// Path is the SQLite database file
	Path        string
	BusyTimeout time.Duration
	// Postgres connection
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	LogLevel        string
	AutoMigrate     bool // apply embedded migrations on engine start
}

// LedgerConfig selects the cost strategies and reset-point policy
type LedgerConfig struct {
	ResetPolicy       string
	AverageStrategy   string
	LastPriceStrategy string
	Currency          string
	Locale            string // BCP 47 tag for formatted totals
}

// ImportConfig holds bulk import worker settings
type ImportConfig struct {
	Workers   int
	QueueSize int
}

// TelemetryConfig holds database tracing options
type TelemetryConfig struct {
	DBTraceEnabled    bool          // Enable database query tracing (otelgorm)
	DBLogFullSQL      bool          // Log full SQL statements (dev only)
	DBSlowQueryThresh time.Duration // Slow query threshold for warnings
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with INVLEDGER_ prefix (e.g., INVLEDGER_DATABASE_PATH)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.invledger")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already prepared viper instance.
// Environment overrides are enabled on v.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("INVLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("database.auto_migrate", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Path:            v.GetString("database.path"),
			BusyTimeout:     v.GetDuration("database.busy_timeout"),
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
			LogLevel:        v.GetString("database.log_level"),
			AutoMigrate:     v.GetBool("database.auto_migrate"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Ledger: LedgerConfig{
			ResetPolicy:       v.GetString("ledger.reset_policy"),
			AverageStrategy:   v.GetString("ledger.average_strategy"),
			LastPriceStrategy: v.GetString("ledger.last_price_strategy"),
			Currency:          v.GetString("ledger.currency"),
			Locale:            v.GetString("ledger.locale"),
		},
		Import: ImportConfig{
			Workers:   v.GetInt("import.workers"),
			QueueSize: v.GetInt("import.queue_size"),
		},
		Telemetry: TelemetryConfig{
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "invledger"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverSQLite
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "invledger.db"
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = 5 * time.Second
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "invledger"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Ledger.ResetPolicy == "" {
		cfg.Ledger.ResetPolicy = "never"
	}
	if cfg.Ledger.AverageStrategy == "" {
		cfg.Ledger.AverageStrategy = "moving_average"
	}
	if cfg.Ledger.LastPriceStrategy == "" {
		cfg.Ledger.LastPriceStrategy = "last_purchase"
	}
	if cfg.Ledger.Currency == "" {
		cfg.Ledger.Currency = "CZK"
	}
	if cfg.Ledger.Locale == "" {
		cfg.Ledger.Locale = "cs-CZ"
	}
	if cfg.Import.Workers == 0 {
		cfg.Import.Workers = 1
	}
	if cfg.Import.QueueSize == 0 {
		cfg.Import.QueueSize = 16
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Database.Driver)
	}

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
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout cannot be negative")
	}

	switch c.Ledger.ResetPolicy {
	case "never", "depleted", "predicate":
	default:
		return fmt.Errorf("ledger.reset_policy must be one of never, depleted, predicate, got %q", c.Ledger.ResetPolicy)
	}

	switch c.Ledger.Currency {
	case "CZK", "EUR", "USD":
	default:
		return fmt.Errorf("ledger.currency must be one of CZK, EUR, USD, got %q", c.Ledger.Currency)
	}

	if c.Import.Workers < 0 || c.Import.QueueSize < 0 {
		return fmt.Errorf("import.workers and import.queue_size cannot be negative")
	}

	if c.App.Env == "production" {
		if c.Database.Driver == DriverPostgres && c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
	}

	return nil
}

// DSN returns the connection string for the configured driver
func (d *DatabaseConfig) DSN() string {
	if d.Driver == DriverPostgres {
		return d.PostgresDSN()
	}
	return d.SQLiteDSN()
}

// SQLiteDSN returns the SQLite file DSN with foreign keys on, WAL journaling,
// a busy timeout and immediate write transactions
func (d *DatabaseConfig) SQLiteDSN() string {
	q := url.Values{}
	q.Set("_foreign_keys", "on")
	q.Set("_journal_mode", "WAL")
	q.Set("_busy_timeout", strconv.FormatInt(d.BusyTimeout.Milliseconds(), 10))
	q.Set("_txlock", "immediate")
	return "file:" + d.Path + "?" + q.Encode()
}

// PostgresDSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) PostgresDSN() string {
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
