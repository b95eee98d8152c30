package browser

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/raysh454/seolens/internal/logging"
)

const (
	StrategyLocal     = "local"
	StrategyContainer = "container"
)

// StrategyConstructor builds a Provider for one launch strategy.
type StrategyConstructor func(cfg Config, logger logging.Logger) (Provider, error)

// Registry maps strategy names to constructors. Registries are plain values
// owned by the caller; use DefaultRegistry for the built-in strategies.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]StrategyConstructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]StrategyConstructor{}}
}

// DefaultRegistry returns a registry with the local and container strategies.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(StrategyLocal, func(cfg Config, logger logging.Logger) (Provider, error) {
		return NewChromeProvider(cfg, LocalOptions(cfg), logger), nil
	})
	r.Register(StrategyContainer, func(cfg Config, logger logging.Logger) (Provider, error) {
		return NewChromeProvider(cfg, ContainerOptions(cfg), logger), nil
	})
	return r
}

// Register adds or replaces a named strategy. Names are case-insensitive.
func (r *Registry) Register(name string, ctor StrategyConstructor) {
	if name == "" || ctor == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[strings.ToLower(name)] = ctor
}

// New constructs the provider named by cfg.Strategy, defaulting to local.
func (r *Registry) New(cfg Config, logger logging.Logger) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Strategy))
	if name == "" {
		name = StrategyLocal
	}

	r.mu.RLock()
	ctor, ok := r.strategies[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("browser strategy %q not registered: available strategies=%v", name, r.Names())
	}

	p, err := ctor(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("construct browser strategy %q: %w", name, err)
	}
	if p == nil {
		return nil, errors.New("browser strategy constructor returned nil")
	}
	return p, nil
}

// Names lists registered strategies in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.strategies))
	for k := range r.strategies {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
