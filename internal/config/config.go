// Package config provides application configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"fxreader/internal/lookup"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Sources  SourcesConfig
	Fetch    FetchConfig
	Cache    CacheConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Worker   WorkerConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          int  `mapstructure:"port"`
	ServeSwagger  bool `mapstructure:"serve_swagger"`
	ServeAsynqmon bool `mapstructure:"serve_asynqmon"`
	ServeMetrics  bool `mapstructure:"serve_metrics"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SourcesConfig describes where source locations are looked up and which
// database/provider/type triples may be queried.
type SourcesConfig struct {
	LookupPath string   `mapstructure:"lookup_path"` // empty uses the built-in table
	Supported  []string `mapstructure:"supported"`
}

// Keys parses the supported source triples.
func (c SourcesConfig) Keys() ([]lookup.SourceKey, error) {
	keys := make([]lookup.SourceKey, 0, len(c.Supported))
	for _, s := range c.Supported {
		k, err := lookup.ParseSourceKey(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// FetchConfig holds settings for downloading rate tables.
type FetchConfig struct {
	TimeoutSec int    `mapstructure:"timeout_sec"`
	UserAgent  string `mapstructure:"user_agent"`
}

// CacheConfig holds caching settings.
type CacheConfig struct {
	TableTTLSec int `mapstructure:"table_ttl_sec"`
}

// DatabaseConfig holds PostgreSQL connection settings for the query log.
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	Name               string `mapstructure:"name"`
	SSLMode            string `mapstructure:"sslmode"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSec int    `mapstructure:"conn_max_lifetime_sec"`
	ConnectAttempts    int    `mapstructure:"connect_attempts"`
	DSN                string
}

// RedisConfig holds connection settings for both Redis instances.
type RedisConfig struct {
	AsynqAddr string `mapstructure:"asynq_addr"` // Redis instance for Asynq task queue; empty disables warm-up jobs.
	CacheAddr string `mapstructure:"cache_addr"` // Redis instance for the table cache; empty disables caching.
}

// WorkerConfig holds background worker and task queue settings.
type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	MaxRetry    int `mapstructure:"max_retry"`
	TimeoutSec  int `mapstructure:"timeout_sec"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.serve_swagger", true)
	v.SetDefault("server.serve_asynqmon", true)
	v.SetDefault("server.serve_metrics", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("sources.lookup_path", "")
	v.SetDefault("sources.supported", []string{lookup.DefaultSource.String()})
	v.SetDefault("fetch.timeout_sec", 10)
	v.SetDefault("fetch.user_agent", "fxreader/1.0")
	v.SetDefault("cache.table_ttl_sec", 900)
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "fxreader")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_sec", 300)
	v.SetDefault("database.connect_attempts", 5)
	v.SetDefault("redis.asynq_addr", "")
	v.SetDefault("redis.cache_addr", "")
	v.SetDefault("worker.concurrency", 1)
	v.SetDefault("worker.max_retry", 3)
	v.SetDefault("worker.timeout_sec", 60)
}

// LoadConfig reads configuration from config files, environment variables, and defaults.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file found or error loading it: %v\n", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config search paths
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./internal/config")

	v.SetEnvPrefix("FXREADER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// It's okay if no config file, we have defaults and env
		fmt.Printf("Config file not found: %v\n", err)
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	// Env values arrive as one comma-separated string.
	cfg.Sources.Supported = splitList(strings.Join(cfg.Sources.Supported, ","))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetimeSec <= 0 {
		cfg.Database.ConnMaxLifetimeSec = 300
	}

	cfg.Database.DSN = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User, cfg.Database.Password,
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.Name, cfg.Database.SSLMode)

	return &cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks that all required configuration fields are set and valid.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be positive, got %d", c.Server.Port))
	}

	if len(c.Sources.Supported) == 0 {
		errs = append(errs, fmt.Errorf("sources.supported must list at least one database/provider/type"))
	}
	if _, err := c.Sources.Keys(); err != nil {
		errs = append(errs, fmt.Errorf("sources.supported: %w", err))
	}

	if c.Fetch.TimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("fetch.timeout_sec must be positive, got %d", c.Fetch.TimeoutSec))
	}
	if c.Redis.CacheAddr != "" && c.Cache.TableTTLSec <= 0 {
		errs = append(errs, fmt.Errorf("cache.table_ttl_sec must be positive, got %d", c.Cache.TableTTLSec))
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, fmt.Errorf("database.host is required"))
		}
		if c.Database.Port <= 0 {
			errs = append(errs, fmt.Errorf("database.port must be positive, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required"))
		}
		if c.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required"))
		}
		if c.Database.ConnectAttempts <= 0 {
			errs = append(errs, fmt.Errorf("database.connect_attempts must be positive, got %d", c.Database.ConnectAttempts))
		}
	}

	if c.Redis.AsynqAddr != "" {
		if c.Worker.Concurrency <= 0 {
			errs = append(errs, fmt.Errorf("worker.concurrency must be positive, got %d", c.Worker.Concurrency))
		}
		if c.Worker.MaxRetry < 0 {
			errs = append(errs, fmt.Errorf("worker.max_retry must be non-negative, got %d", c.Worker.MaxRetry))
		}
		if c.Worker.TimeoutSec <= 0 {
			errs = append(errs, fmt.Errorf("worker.timeout_sec must be positive, got %d", c.Worker.TimeoutSec))
		}
	}

	return errors.Join(errs...)
}
