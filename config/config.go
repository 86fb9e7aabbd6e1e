package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Redis      RedisConfig      `yaml:"redis"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Reports    ReportsConfig    `yaml:"reports"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" env:"MAINT_SERVER_PORT"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec" env:"MAINT_RATE_LIMIT_PER_SEC"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" env:"MAINT_RATE_LIMIT_BURST"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds" env:"MAINT_CACHE_TTL_SECONDS"`
	CacheTTL        time.Duration `yaml:"-"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"MAINT_LOG_LEVEL"`
	Format string `yaml:"format" env:"MAINT_LOG_FORMAT"` // "json" or "console"
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver" env:"MAINT_DATABASE_DRIVER"` // "postgres" or "sqlite"
	DSN                    string `yaml:"dsn" env:"MAINT_DATABASE_DSN"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level" env:"MAINT_DATABASE_LOG_LEVEL"`
	EnforceEnums           bool   `yaml:"enforce_enums"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key" env:"MAINT_VAPID_PUBLIC_KEY"`
	PrivateKey string `yaml:"vapid_private_key" env:"MAINT_VAPID_PRIVATE_KEY"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// RedisConfig points at the Redis instance alert events are streamed to.
// An empty Addr disables the stream.
type RedisConfig struct {
	Addr         string `yaml:"addr" env:"MAINT_REDIS_ADDR"`
	Password     string `yaml:"password" env:"MAINT_REDIS_PASSWORD"`
	DB           int    `yaml:"db"`
	AlertStream  string `yaml:"alert_stream"`
	StreamMaxLen int64  `yaml:"stream_max_len"`
}

// IngestConfig holds the MQTT subscription sensor readings arrive on.
type IngestConfig struct {
	Enabled     bool   `yaml:"enabled" env:"MAINT_INGEST_ENABLED"`
	Broker      string `yaml:"broker" env:"MAINT_MQTT_BROKER"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username" env:"MAINT_MQTT_USERNAME"`
	Password    string `yaml:"password" env:"MAINT_MQTT_PASSWORD"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
}

// ReadingsTopic is the wildcard topic every sensor publishes readings under.
func (c IngestConfig) ReadingsTopic() string {
	return c.TopicPrefix + "/+/readings"
}

// ReportsConfig controls the analytics window.
type ReportsConfig struct {
	Months int `yaml:"months"`
}

// Load reads the configuration from the given path and applies environment
// overrides on top of it.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}
	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 1
	}

	if cfg.Redis.AlertStream == "" {
		cfg.Redis.AlertStream = "maintenance:alerts"
	}
	if cfg.Redis.StreamMaxLen <= 0 {
		cfg.Redis.StreamMaxLen = 10000
	}

	if cfg.Ingest.ClientID == "" {
		cfg.Ingest.ClientID = "maintenanced"
	}
	if cfg.Ingest.TopicPrefix == "" {
		cfg.Ingest.TopicPrefix = "maintenance/sensors"
	}
	if cfg.Ingest.QoS > 2 {
		cfg.Ingest.QoS = 1
	}

	if cfg.Reports.Months <= 0 {
		cfg.Reports.Months = 6
	}
}
