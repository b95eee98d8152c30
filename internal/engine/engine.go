// Package engine runs page audits against an already running browser and
// returns the raw, untrusted report the normalizer consumes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/raysh454/seolens/internal/logging"
)

// Engine audits url using the browser reachable at endpoint (host:port of its
// DevTools listener).
type Engine interface {
	Run(ctx context.Context, url, endpoint string) (*RawReport, error)
}

// Kind selects an Engine implementation.
type Kind string

const (
	KindLighthouse Kind = "lighthouse"
	KindNative     Kind = "native"
)

var ErrUnknownKind = errors.New("unknown engine kind")

// Config configures engine construction.
type Config struct {
	Kind Kind `toml:"kind"`

	// LighthouseBin is the lighthouse CLI executable.
	LighthouseBin string `toml:"lighthouse_bin"`

	// Categories limits which categories the lighthouse CLI computes.
	Categories []string `toml:"categories"`

	// SettleTime is how long the native engine waits for the network to go
	// quiet after load before sampling metrics.
	SettleTime time.Duration `toml:"settle_time"`

	// NavigationTimeout bounds page load in the native engine.
	NavigationTimeout time.Duration `toml:"navigation_timeout"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Kind:              KindLighthouse,
		LighthouseBin:     "lighthouse",
		Categories:        []string{"performance", "accessibility", "best-practices", "seo"},
		SettleTime:        2 * time.Second,
		NavigationTimeout: 45 * time.Second,
	}
}

// New builds the engine selected by cfg.Kind.
func New(cfg Config, logger logging.Logger) (Engine, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(string(cfg.Kind)))) {
	case KindLighthouse, "":
		return NewLighthouseEngine(cfg, logger), nil
	case KindNative:
		return NewNativeEngine(cfg, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

// Func adapts a plain function to Engine.
type Func func(ctx context.Context, url, endpoint string) (*RawReport, error)

func (f Func) Run(ctx context.Context, url, endpoint string) (*RawReport, error) {
	return f(ctx, url, endpoint)
}
