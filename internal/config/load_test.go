package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Source{Path: filepath.Join(t.TempDir(), "missing.yaml"), LookupEnv: noEnv})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.Rates.Timeout)
	assert.Equal(t, CacheNone, cfg.Rates.Cache.Kind)
	assert.Equal(t, "$.rates", cfg.Rates.RatesPath)
	assert.Equal(t, TransportStdio, cfg.MCP.Transport)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_RequiredFileMissing(t *testing.T) {
	_, err := Load(Source{Path: filepath.Join(t.TempDir(), "missing.yaml"), Required: true, LookupEnv: noEnv})
	assert.Error(t, err)
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeFile(t, "metron.yaml", `
log:
  level: debug
rates:
  base_url: https://v6.example.test/latest/
  rates_path: $.conversion_rates
  cache:
    kind: redis
    ttl: 10m
    redis:
      addr: cache:6379
`)

	cfg, err := Load(Source{Path: path, LookupEnv: envMap(map[string]string{
		"METRON_LOG_FORMAT":      "json",
		"METRON_REDIS_DB":        "3",
		"METRON_METRICS_ENABLED": "false",
		"METRON_RATES_TIMEOUT":   "2s",
	})})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "https://v6.example.test/latest/", cfg.Rates.BaseURL)
	assert.Equal(t, "$.conversion_rates", cfg.Rates.RatesPath)
	assert.Equal(t, 2*time.Second, cfg.Rates.Timeout)
	assert.Equal(t, CacheRedis, cfg.Rates.Cache.Kind)
	assert.Equal(t, 10*time.Minute, cfg.Rates.Cache.TTL)
	assert.Equal(t, "cache:6379", cfg.Rates.Cache.Redis.Addr)
	assert.Equal(t, 3, cfg.Rates.Cache.Redis.DB)
	assert.Equal(t, "metron:rates:", cfg.Rates.Cache.Redis.Prefix)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvFile(t *testing.T) {
	const key = "METRON_MCP_PORT"
	t.Setenv(key, "")
	os.Unsetenv(key)

	envFile := writeFile(t, ".env", key+"=9100\n")
	cfg, err := Load(Source{Path: filepath.Join(t.TempDir(), "none.yaml"), EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.MCP.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":     "colour: blue\n",
		"bad yaml":        "log: [\n",
		"bad level":       "log:\n  level: loud\n",
		"bad cache kind":  "rates:\n  cache:\n    kind: disk\n",
		"cache needs ttl": "rates:\n  cache:\n    kind: memory\n",
		"bad transport":   "mcp:\n  transport: carrier-pigeon\n",
		"bad duration":    "rates:\n  timeout: soon\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(Source{Path: writeFile(t, "metron.yaml", content), LookupEnv: noEnv})
			assert.Error(t, err)
		})
	}
}
