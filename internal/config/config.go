package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ignite/users-server/internal/pkg/logger"
)

// DefaultPath is the config file read when CONFIG_PATH is unset.
const DefaultPath = "config/config.yaml"

// ErrMissingDatabaseURL is returned by Validate when no store target is set.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")

// Config holds all configuration for the users server.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Ops      OpsConfig      `yaml:"ops"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds the raw TCP listener configuration
type ServerConfig struct {
	Host                  string `yaml:"host" env:"SERVER_HOST"`
	Port                  int    `yaml:"port" env:"SERVER_PORT"`
	Workers               int    `yaml:"workers" env:"SERVER_WORKERS"`
	ReadTimeoutSeconds    int    `yaml:"read_timeout_seconds" env:"SERVER_READ_TIMEOUT_SECONDS"`
	WriteTimeoutSeconds   int    `yaml:"write_timeout_seconds" env:"SERVER_WRITE_TIMEOUT_SECONDS"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds" env:"SERVER_REQUEST_TIMEOUT_SECONDS"`
}

// Addr returns host:port for the listener.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ReadTimeout returns the per-connection read deadline; zero means none.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the per-connection write deadline; zero means none.
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// RequestTimeout bounds a single action's store calls; zero means none.
func (c ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DatabaseConfig holds the record store connection settings
type DatabaseConfig struct {
	URL                    string `yaml:"url" env:"DATABASE_URL"`
	MaxOpenConns           int    `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns           int    `yaml:"max_idle_conns" env:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes" env:"DATABASE_CONN_MAX_LIFETIME_MINUTES"`
}

// ConnMaxLifetime returns the pool connection lifetime as a duration
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// RedisConfig holds the optional read cache settings
type RedisConfig struct {
	URL        string `yaml:"url" env:"REDIS_URL"`
	TTLSeconds int    `yaml:"ttl_seconds" env:"REDIS_TTL_SECONDS"`
}

// Enabled reports whether a Redis target is configured.
func (c RedisConfig) Enabled() bool { return c.URL != "" }

// TTL returns the cache entry lifetime as a duration
func (c RedisConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// OpsConfig holds the health/metrics endpoint settings. An empty Addr
// disables the endpoint.
type OpsConfig struct {
	Addr string `yaml:"addr" env:"OPS_ADDR"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level               string `yaml:"level" env:"LOG_LEVEL"`
	DisablePIIRedaction bool   `yaml:"disable_pii_redaction" env:"LOG_DISABLE_PII_REDACTION"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.setDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied and no store
// target.
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8081
	}
	if c.Server.Workers == 0 {
		c.Server.Workers = 1
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetimeMinutes == 0 {
		c.Database.ConnMaxLifetimeMinutes = 5
	}
	if c.Redis.TTLSeconds == 0 {
		c.Redis.TTLSeconds = 60
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// and treats a missing config file as "defaults only".
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return ErrMissingDatabaseURL
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.Workers < 0 {
		return fmt.Errorf("server workers must not be negative, got %d", c.Server.Workers)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}
