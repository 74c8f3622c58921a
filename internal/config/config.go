package config

import (
	"fmt"

	pkgconfig "github.com/acidvertigo/cart/pkg/config"
)

// Config holds all environment-level configuration for the cart manager
// service. Per-cart configuration lives in the carts file (see carts.go).
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"CART_HTTP_PORT" envDefault:"8003"`

	// Path to the TOML file declaring cart defaults and per-cart overrides.
	CartsFile string `env:"CART_CONFIG_FILE" envDefault:"configs/carts.toml"`

	// Redis (storage driver "redis")
	RedisEnabled bool   `env:"REDIS_ENABLED" envDefault:"true"`
	RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass    string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB      int    `env:"REDIS_DB" envDefault:"0"`

	// Snapshot TTL in hours for the Redis driver (default: 7 days)
	SnapshotTTL int `env:"SNAPSHOT_TTL_HOURS" envDefault:"168"`

	// Postgres (storage driver "postgres")
	PostgresEnabled bool   `env:"POSTGRES_ENABLED" envDefault:"false"`
	PostgresHost    string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort    int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser    string `env:"POSTGRES_USER" envDefault:"cart"`
	PostgresPass    string `env:"POSTGRES_PASSWORD" envDefault:"cart_secret"`
	PostgresDB      string `env:"POSTGRES_DB" envDefault:"cart"`
	PostgresSSLMode string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Kafka lifecycle events
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tracing
	TracingEnabled bool   `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load cart manager config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CartsFile == "" {
		return fmt.Errorf("carts config file path is required")
	}
	return nil
}
