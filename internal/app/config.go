package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/raysh454/seolens/internal/artifact"
	"github.com/raysh454/seolens/internal/auditor"
	"github.com/raysh454/seolens/internal/browser"
	"github.com/raysh454/seolens/internal/engine"
	"github.com/raysh454/seolens/internal/observability"
	"github.com/raysh454/seolens/internal/render"
	"github.com/raysh454/seolens/internal/scheduler"
	"github.com/raysh454/seolens/internal/store/postgres"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// HTTPConfig is the API listener.
type HTTPConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	// AllowedOrigin is sent as Access-Control-Allow-Origin.
	AllowedOrigin string `toml:"allowed_origin"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver     string          `toml:"driver"`
	SQLitePath string          `toml:"sqlite_path"`
	Postgres   postgres.Config `toml:"postgres"`
}

// AuditConfig tunes audit runs and job bookkeeping.
type AuditConfig struct {
	Timeout time.Duration `toml:"timeout"`
	Flags   []string      `toml:"flags"`

	// LaunchRate is audits started per second across the process. Zero
	// disables limiting.
	LaunchRate  float64 `toml:"launch_rate"`
	LaunchBurst int     `toml:"launch_burst"`

	// Blocklist holds host globs targets may not point at.
	Blocklist []string `toml:"blocklist"`

	// JobRetention is how long finished jobs stay queryable.
	JobRetention time.Duration `toml:"job_retention"`
}

// Auditor returns the auditor package view of c.
func (c AuditConfig) Auditor() auditor.Config {
	return auditor.Config{Timeout: c.Timeout, Flags: c.Flags}
}

// Config aggregates every component's configuration.
type Config struct {
	HTTP      HTTPConfig                    `toml:"http"`
	Log       LogConfig                     `toml:"log"`
	Storage   StorageConfig                 `toml:"storage"`
	Browser   browser.Config                `toml:"browser"`
	Engine    engine.Config                 `toml:"engine"`
	Audit     AuditConfig                   `toml:"audit"`
	Render    render.Config                 `toml:"render"`
	Artifacts artifact.Config               `toml:"artifacts"`
	Scheduler scheduler.Config              `toml:"scheduler"`
	Telemetry observability.TelemetryConfig `toml:"telemetry"`
}

// DefaultBlocklist covers loopback, unspecified, private and link-local hosts.
func DefaultBlocklist() []string {
	return []string{
		"localhost", "**.localhost", "**.internal",
		"0.0.0.0", "127.*.*.*",
		"10.*.*.*", "172.1[6-9].*.*", "172.2[0-9].*.*", "172.3[0-1].*.*", "192.168.*.*",
		"169.254.*.*",
		"::", "::1", "0:0:0:0:0:0:0:1", "::ffff:127.*.*.*", "fe80:*", "f[c-d]*:*",
	}
}

// DefaultConfig returns a Config populated with development defaults.
func DefaultConfig() *Config {
	ad := auditor.DefaultConfig()
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			AllowedOrigin:   "*",
		},
		Log: LogConfig{Level: "info"},
		Storage: StorageConfig{
			Driver:     DriverSQLite,
			SQLitePath: "data/seolens.db",
			Postgres:   postgres.DefaultConfig(),
		},
		Browser: browser.DefaultConfig(),
		Engine:  engine.DefaultConfig(),
		Audit: AuditConfig{
			Timeout:      ad.Timeout,
			Flags:        ad.Flags,
			LaunchRate:   1,
			LaunchBurst:  4,
			Blocklist:    DefaultBlocklist(),
			JobRetention: time.Hour,
		},
		Render: render.DefaultConfig(),
		Artifacts: artifact.Config{
			Root:    "data/artifacts",
			BaseURL: "http://localhost:8080/artifacts",
		},
		Scheduler: scheduler.DefaultConfig(),
		Telemetry: observability.DefaultTelemetryConfig(),
	}
}

// LoadConfig layers defaults, the TOML file at path (optional), a .env file
// in the working directory (optional) and SEOLENS_* environment variables,
// then validates the result.
func LoadConfig(path string) (*Config, error) {
	lookup, err := envLookup(".env")
	if err != nil {
		return nil, err
	}
	return load(path, lookup)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
		}
	}
	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envLookup consults the process environment first and falls back to the
// dotenv file, which may be absent.
func envLookup(dotenv string) (func(string) (string, bool), error) {
	file := map[string]string{}
	if dotenv != "" {
		m, err := godotenv.Read(dotenv)
		switch {
		case err == nil:
			file = m
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", dotenv, err)
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"SEOLENS_HTTP_ADDR":          &cfg.HTTP.Addr,
		"SEOLENS_LOG_LEVEL":          &cfg.Log.Level,
		"SEOLENS_STORAGE_DRIVER":     &cfg.Storage.Driver,
		"SEOLENS_SQLITE_PATH":        &cfg.Storage.SQLitePath,
		"SEOLENS_POSTGRES_URL":       &cfg.Storage.Postgres.URL,
		"SEOLENS_BROWSER_STRATEGY":   &cfg.Browser.Strategy,
		"SEOLENS_CHROME_PATH":        &cfg.Browser.BinaryPath,
		"SEOLENS_LIGHTHOUSE_BIN":     &cfg.Engine.LighthouseBin,
		"SEOLENS_ARTIFACTS_ROOT":     &cfg.Artifacts.Root,
		"SEOLENS_ARTIFACTS_BASE_URL": &cfg.Artifacts.BaseURL,
		"SEOLENS_OTLP_ENDPOINT":      &cfg.Telemetry.OTLPEndpoint,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	if v, ok := lookup("SEOLENS_ENGINE_KIND"); ok {
		cfg.Engine.Kind = engine.Kind(v)
	}

	durations := map[string]*time.Duration{
		"SEOLENS_AUDIT_TIMEOUT":      &cfg.Audit.Timeout,
		"SEOLENS_SCHEDULER_INTERVAL": &cfg.Scheduler.Interval,
	}
	for key, dst := range durations {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
		}
		*dst = d
	}

	if v, ok := lookup("SEOLENS_AUDIT_LAUNCH_RATE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: SEOLENS_AUDIT_LAUNCH_RATE: %v", ErrInvalidConfig, err)
		}
		cfg.Audit.LaunchRate = f
	}
	if v, ok := lookup("SEOLENS_AUDIT_BLOCKLIST"); ok {
		cfg.Audit.Blocklist = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	if c.HTTP.Addr == "" {
		return bad("http.addr is required")
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return bad("storage.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.Postgres.URL == "" {
			return bad("storage.postgres.url is required for the postgres driver")
		}
	default:
		return bad("storage.driver %q is not one of sqlite, postgres", c.Storage.Driver)
	}
	switch engine.Kind(strings.ToLower(string(c.Engine.Kind))) {
	case engine.KindLighthouse, engine.KindNative:
	default:
		return bad("engine.kind %q is not one of lighthouse, native", c.Engine.Kind)
	}
	if c.Audit.Timeout < 0 {
		return bad("audit.timeout must not be negative")
	}
	if c.Audit.LaunchRate < 0 {
		return bad("audit.launch_rate must not be negative")
	}
	if c.Audit.LaunchRate > 0 && c.Audit.LaunchBurst < 1 {
		return bad("audit.launch_burst must be at least 1 when launch_rate is set")
	}
	if c.Artifacts.Root == "" {
		return bad("artifacts.root is required")
	}
	if c.Scheduler.Interval < 0 {
		return bad("scheduler.interval must not be negative")
	}
	return nil
}
