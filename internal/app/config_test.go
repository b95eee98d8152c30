package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/seolens/internal/engine"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefaultConfig_Validates(t *testing.T) {
	t.Parallel()
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoad_TOMLOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "seolens.toml", `
[http]
addr = ":9090"

[storage]
driver = "postgres"

[storage.postgres]
url = "postgres://seolens@localhost/seolens"
max_conns = 4

[engine]
kind = "native"
settle_time = "500ms"

[audit]
timeout = "90s"
blocklist = ["*.corp"]

[scheduler]
interval = "6h"
max_concurrency = 3
`)

	cfg, err := load(path, lookupFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, int32(4), cfg.Storage.Postgres.MaxConns)
	assert.Equal(t, engine.KindNative, cfg.Engine.Kind)
	assert.Equal(t, 500*time.Millisecond, cfg.Engine.SettleTime)
	assert.Equal(t, 90*time.Second, cfg.Audit.Timeout)
	assert.Equal(t, []string{"*.corp"}, cfg.Audit.Blocklist)
	assert.Equal(t, 6*time.Hour, cfg.Scheduler.Interval)

	// Untouched sections keep their defaults.
	assert.Equal(t, DefaultConfig().Render, cfg.Render)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "seolens.toml", "[http]\nadress = \":1\"\n")
	_, err := load(path, lookupFrom(nil))
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "http.adress")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "seolens.toml", "[http]\naddr = \":9090\"\n")
	cfg, err := load(path, lookupFrom(map[string]string{
		"SEOLENS_HTTP_ADDR":          ":7070",
		"SEOLENS_SCHEDULER_INTERVAL": "30m",
		"SEOLENS_AUDIT_LAUNCH_RATE":  "0.5",
		"SEOLENS_AUDIT_BLOCKLIST":    "localhost, *.lan ,",
		"SEOLENS_ENGINE_KIND":        "native",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.Interval)
	assert.Equal(t, 0.5, cfg.Audit.LaunchRate)
	assert.Equal(t, []string{"localhost", "*.lan"}, cfg.Audit.Blocklist)
	assert.Equal(t, engine.KindNative, cfg.Engine.Kind)
}

func TestLoad_BadEnvValues(t *testing.T) {
	t.Parallel()

	_, err := load("", lookupFrom(map[string]string{"SEOLENS_AUDIT_TIMEOUT": "soon"}))
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = load("", lookupFrom(map[string]string{"SEOLENS_AUDIT_LAUNCH_RATE": "fast"}))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEnvLookup_ReadsDotenv(t *testing.T) {
	t.Parallel()

	path := writeFile(t, ".env", "SEOLENS_TEST_ONLY_KEY=from-file\n")
	lookup, err := envLookup(path)
	require.NoError(t, err)

	v, ok := lookup("SEOLENS_TEST_ONLY_KEY")
	require.True(t, ok)
	assert.Equal(t, "from-file", v)

	_, ok = lookup("SEOLENS_TEST_MISSING_KEY")
	assert.False(t, ok)

	_, err = envLookup(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*Config){
		"no addr":          func(c *Config) { c.HTTP.Addr = "" },
		"unknown driver":   func(c *Config) { c.Storage.Driver = "mysql" },
		"no sqlite path":   func(c *Config) { c.Storage.SQLitePath = "" },
		"postgres no url":  func(c *Config) { c.Storage.Driver = DriverPostgres },
		"unknown engine":   func(c *Config) { c.Engine.Kind = "pagespeed" },
		"negative rate":    func(c *Config) { c.Audit.LaunchRate = -1 },
		"rate no burst":    func(c *Config) { c.Audit.LaunchBurst = 0 },
		"no artifact root": func(c *Config) { c.Artifacts.Root = "" },
		"negative sched":   func(c *Config) { c.Scheduler.Interval = -time.Second },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, name)
	}
}
