// Package browser launches disposable headless browsers, one per audit run.
package browser

import (
	"context"
	"time"
)

// Flags are extra command-line switches for a single launch, in "name" or
// "name=value" form without leading dashes.
type Flags []string

// Resource is a running browser owned by exactly one audit run.
type Resource interface {
	// ControlEndpoint is the host:port of the DevTools listener.
	ControlEndpoint() string
	// Kill stops the browser. It is safe to call more than once; only the
	// first call does any work.
	Kill() error
}

// Provider launches browsers.
type Provider interface {
	Launch(ctx context.Context, flags Flags) (Resource, error)
}

// Config selects and tunes the launch strategy.
type Config struct {
	// Strategy is the registered launch strategy name, "local" or "container".
	Strategy string `toml:"strategy"`

	// BinaryPath overrides browser discovery.
	BinaryPath string `toml:"binary_path"`

	// StartupTimeout bounds how long a launch may take.
	StartupTimeout time.Duration `toml:"startup_timeout"`

	// ExtraFlags are appended to every launch.
	ExtraFlags []string `toml:"extra_flags"`
}

// DefaultConfig returns workstation defaults.
func DefaultConfig() Config {
	return Config{
		Strategy:       StrategyLocal,
		StartupTimeout: 30 * time.Second,
	}
}
