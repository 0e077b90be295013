// Package config provides centralized configuration management for all
// PulseGraph services.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the master configuration struct containing all service configs and
// shared infrastructure.
type Config struct {
	// Service-specific configurations
	Workers WorkersConfig `mapstructure:"workers"`
	Ingest  IngestConfig  `mapstructure:"ingest"`

	// Shared infrastructure configurations
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Neo4j    Neo4jConfig    `mapstructure:"neo4j"`
	AI       AIConfig       `mapstructure:"ai"`
	Market   MarketConfig   `mapstructure:"market"`
	DLQ      DLQConfig      `mapstructure:"dlq"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// WorkersConfig holds worker service configuration.
type WorkersConfig struct {
	Server          ServerConfig  `mapstructure:"server"`
	Enabled         []string      `mapstructure:"enabled"`
	PollTimeout     time.Duration `mapstructure:"poll_timeout"`
	ErrorBackoff    time.Duration `mapstructure:"error_backoff"`
	ResultTTL       time.Duration `mapstructure:"result_ttl"`
	IdentityEnabled bool          `mapstructure:"identity_enabled"`
}

// IngestConfig holds ingest service configuration.
type IngestConfig struct {
	Server            ServerConfig  `mapstructure:"server"`
	JWTSecret         string        `mapstructure:"jwt_secret"`
	RateLimitEnabled  bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
	MaxEventSize      int           `mapstructure:"max_event_size"`
	MigrationsPath    string        `mapstructure:"migrations_path"`
}

// ServerConfig holds HTTP server settings shared by all services.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// RedisConfig holds Redis connection settings (queues + result cache).
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// PostgresConfig holds the relational user store settings.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnString builds a pgx-compatible connection string.
func (p PostgresConfig) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode,
	)
}

// Neo4jConfig holds the relationship graph store settings.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Enabled  bool   `mapstructure:"enabled"`
}

// AIConfig holds the external AI scoring service settings.
type AIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// MarketConfig holds the market-data provider settings.
type MarketConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DLQConfig holds the optional dead-letter mirror for malformed payloads.
// Disabled by default: the pipeline's contract is log-and-drop.
type DLQConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	NatsURL string `mapstructure:"nats_url"`
}

// LoggingConfig holds log level and format settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from $PULSEGRAPH_CONFIG_DIR/config.yaml and
// environment variables. Environment variables override file values using
// underscore-separated keys (e.g. REDIS_URL, INGEST_JWT_SECRET).
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	configDir := os.Getenv("PULSEGRAPH_CONFIG_DIR")
	if configDir == "" {
		configDir = "/etc/pulsegraph"
	}

	v.SetConfigFile(fmt.Sprintf("%s/config.yaml", configDir))
	v.SetConfigType("yaml")

	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Config file is optional; defaults plus env vars are a valid setup.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Workers service defaults
	v.SetDefault("workers.server.port", 8091)
	v.SetDefault("workers.enabled", []string{"lead_scoring", "blockchain_events", "chat_analysis"})
	v.SetDefault("workers.poll_timeout", "1s")
	v.SetDefault("workers.error_backoff", "5s")
	v.SetDefault("workers.result_ttl", "1h")
	v.SetDefault("workers.identity_enabled", false)

	// Ingest service defaults
	v.SetDefault("ingest.server.port", 8090)
	v.SetDefault("ingest.jwt_secret", "change-this-in-production")
	v.SetDefault("ingest.rate_limit_enabled", true)
	v.SetDefault("ingest.rate_limit_requests", 100)
	v.SetDefault("ingest.rate_limit_window", "1m")
	v.SetDefault("ingest.max_event_size", 1048576)
	v.SetDefault("ingest.migrations_path", "file://migrations")

	// Server defaults shared by both services
	v.SetDefault("workers.server.read_timeout", "15s")
	v.SetDefault("workers.server.write_timeout", "15s")
	v.SetDefault("workers.server.idle_timeout", "60s")
	v.SetDefault("ingest.server.read_timeout", "15s")
	v.SetDefault("ingest.server.write_timeout", "15s")
	v.SetDefault("ingest.server.idle_timeout", "60s")

	// Infrastructure defaults
	v.SetDefault("redis.url", "redis://localhost:6379")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.database", "pulsegraph")
	v.SetDefault("postgres.user", "pulsegraph")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("neo4j.uri", "bolt://localhost:7687")
	v.SetDefault("neo4j.user", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.enabled", true)
	v.SetDefault("ai.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "anthropic/claude-3-haiku")
	v.SetDefault("ai.timeout", "20s")
	v.SetDefault("ai.max_attempts", 2)
	v.SetDefault("market.base_url", "")
	v.SetDefault("market.api_key", "")
	v.SetDefault("market.timeout", "10s")
	v.SetDefault("dlq.enabled", false)
	v.SetDefault("dlq.nats_url", "nats://localhost:4222")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
