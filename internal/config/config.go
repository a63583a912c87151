// Package config loads metron settings from defaults, a .env file, a YAML file
// and METRON_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/metron/internal/logging"
)

// Cache kinds.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Config is the full runtime configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	HTTP    HTTPConfig    `mapstructure:"http" yaml:"http"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Rates   RatesConfig   `mapstructure:"rates" yaml:"rates"`
	MCP     MCPConfig     `mapstructure:"mcp" yaml:"mcp"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// RatesConfig configures the exchange rate provider and the optional cache.
type RatesConfig struct {
	BaseURL   string        `mapstructure:"base_url" yaml:"base_url"`
	RatesPath string        `mapstructure:"rates_path" yaml:"rates_path"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Cache     CacheConfig   `mapstructure:"cache" yaml:"cache"`
}

// CacheConfig is off ("none") unless set. TTL must be positive for other kinds.
type CacheConfig struct {
	Kind  string        `mapstructure:"kind" yaml:"kind"`
	TTL   time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Redis RedisConfig   `mapstructure:"redis" yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
}

type MCPConfig struct {
	Transport string `mapstructure:"transport" yaml:"transport"`
	Port      int    `mapstructure:"port" yaml:"port"`
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}

	switch c.Rates.Cache.Kind {
	case CacheNone:
	case CacheMemory, CacheRedis:
		if c.Rates.Cache.TTL <= 0 {
			return fmt.Errorf("rates.cache.ttl must be positive when cache kind is %q", c.Rates.Cache.Kind)
		}
		if c.Rates.Cache.Kind == CacheRedis && c.Rates.Cache.Redis.Addr == "" {
			return fmt.Errorf("rates.cache.redis.addr is required")
		}
	default:
		return fmt.Errorf("rates.cache.kind: unknown kind %q", c.Rates.Cache.Kind)
	}

	if c.Rates.Timeout <= 0 {
		return fmt.Errorf("rates.timeout must be positive")
	}

	switch c.MCP.Transport {
	case TransportStdio, TransportSSE:
	default:
		return fmt.Errorf("mcp.transport: unknown transport %q", c.MCP.Transport)
	}
	return nil
}

// Logger builds the logger described by c.Log.
func (c *Config) Logger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(c.Log.Format, level)
}
