package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. It may be absent.
const DefaultPath = "metron.yaml"

// Source tells Load where to look.
type Source struct {
	// Path of the YAML file. Empty means DefaultPath.
	Path string
	// Required makes a missing Path an error (set when the user passed --config).
	Required bool
	// EnvFile is a dotenv file loaded into the process environment if it exists.
	EnvFile string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// envKeys maps environment variables to dotted config keys.
var envKeys = map[string]string{
	"METRON_LOG_LEVEL":             "log.level",
	"METRON_LOG_FORMAT":            "log.format",
	"METRON_HTTP_ADDR":             "http.addr",
	"METRON_HTTP_SHUTDOWN_TIMEOUT": "http.shutdown_timeout",
	"METRON_METRICS_ENABLED":       "metrics.enabled",
	"METRON_RATES_BASE_URL":        "rates.base_url",
	"METRON_RATES_PATH":            "rates.rates_path",
	"METRON_RATES_TIMEOUT":         "rates.timeout",
	"METRON_CACHE_KIND":            "rates.cache.kind",
	"METRON_CACHE_TTL":             "rates.cache.ttl",
	"METRON_REDIS_ADDR":            "rates.cache.redis.addr",
	"METRON_REDIS_PASSWORD":        "rates.cache.redis.password",
	"METRON_REDIS_DB":              "rates.cache.redis.db",
	"METRON_REDIS_PREFIX":          "rates.cache.redis.prefix",
	"METRON_MCP_TRANSPORT":         "mcp.transport",
	"METRON_MCP_PORT":              "mcp.port",
}

func defaults() map[string]any {
	return map[string]any{
		"log": map[string]any{
			"level":  "info",
			"format": "text",
		},
		"http": map[string]any{
			"addr":             ":8080",
			"shutdown_timeout": "5s",
		},
		"metrics": map[string]any{
			"enabled": true,
		},
		"rates": map[string]any{
			"base_url":   "https://api.exchangerate-api.com/v4/latest/",
			"rates_path": "$.rates",
			"timeout":    "5s",
			"cache": map[string]any{
				"kind": CacheNone,
				"ttl":  "0s",
				"redis": map[string]any{
					"addr":     "localhost:6379",
					"password": "",
					"db":       0,
					"prefix":   "metron:rates:",
				},
			},
		},
		"mcp": map[string]any{
			"transport": TransportStdio,
			"port":      8081,
		},
	}
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	cfg, err := decode(defaults())
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load merges defaults, src.EnvFile, the YAML file and environment variables.
func Load(src Source) (*Config, error) {
	lookup := src.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if src.EnvFile != "" {
		if err := godotenv.Load(src.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	tree := defaults()

	path := src.Path
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var file map[string]any
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		merge(tree, file)
	case os.IsNotExist(err) && !src.Required:
		// No file: defaults and environment only.
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	for env, key := range envKeys {
		if v, ok := lookup(env); ok {
			set(tree, key, v)
		}
	}

	cfg, err := decode(tree)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decode(tree map[string]any) (*Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(tree); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// merge copies src into dst, descending into nested maps.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				merge(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}

// set assigns value at a dotted key, creating intermediate maps.
func set(tree map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	node := tree
	for _, p := range parts[:len(parts)-1] {
		next, ok := node[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			node[p] = next
		}
		node = next
	}
	node[parts[len(parts)-1]] = value
}
