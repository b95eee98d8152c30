// Package auditor runs one isolated page audit: it launches a browser, runs
// the engine against it, normalizes the output and always releases the
// browser before returning.
package auditor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raysh454/seolens/internal/browser"
	"github.com/raysh454/seolens/internal/engine"
	"github.com/raysh454/seolens/internal/logging"
	"github.com/raysh454/seolens/internal/normalizer"
)

// Config tunes audit runs.
type Config struct {
	// Timeout bounds a whole run including browser launch. Zero disables it.
	Timeout time.Duration `toml:"timeout"`

	// Flags are passed to every browser launch.
	Flags []string `toml:"flags"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{Timeout: 3 * time.Minute}
}

// Result is a successful run.
type Result struct {
	normalizer.Fragment
	DurationMs int64  `json:"durationMs"`
	FinalURL   string `json:"finalUrl,omitempty"`
}

// Auditor is safe for concurrent use; every Run acquires its own browser.
type Auditor struct {
	provider  browser.Provider
	engine    engine.Engine
	cfg       Config
	logger    logging.Logger
	observers []Observer
	now       func() time.Time
}

// New returns an Auditor. observers receive every state transition of every run.
func New(provider browser.Provider, eng engine.Engine, cfg Config, logger logging.Logger, observers ...Observer) *Auditor {
	return &Auditor{
		provider:  provider,
		engine:    eng,
		cfg:       cfg,
		logger:    logger,
		observers: observers,
		now:       time.Now,
	}
}

// Run audits target. On failure the error is a *RunError; the browser has been
// killed by the time Run returns on every path.
func (a *Auditor) Run(ctx context.Context, target string, observers ...Observer) (res *Result, err error) {
	t := &tracker{
		target:    target,
		state:     StateIdle,
		observers: append(append([]Observer{}, a.observers...), observers...),
		now:       a.now,
		logger:    a.logger,
	}

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	resource, err := a.provider.Launch(ctx, browser.Flags(a.cfg.Flags))
	if err != nil {
		rerr := &RunError{Kind: KindResourceAcquisition, Target: target, Cause: err}
		t.to(StateTerminal, rerr)
		return nil, rerr
	}

	defer func() {
		rec := recover()
		if kerr := resource.Kill(); kerr != nil && a.logger != nil {
			a.logger.Warn("browser kill reported an error",
				logging.F("target", target), logging.Err(kerr))
		}
		if rec != nil {
			res = nil
			err = &RunError{Kind: KindEngine, Target: target, Cause: fmt.Errorf("panic: %v", rec)}
			t.to(StateEngineFailure, err)
		}
		t.to(StateResourceReleased, nil)
		t.to(StateTerminal, err)
	}()
	t.to(StateResourceAcquired, nil)

	t.to(StateEngineRunning, nil)
	start := a.now()
	raw, err := a.runEngine(ctx, target, resource.ControlEndpoint())
	elapsed := a.now().Sub(start)
	if err != nil {
		rerr := &RunError{Kind: KindEngine, Target: target, Cause: err}
		t.to(StateEngineFailure, rerr)
		return nil, rerr
	}

	frag, err := normalizer.Normalize(raw)
	if err != nil {
		rerr := &RunError{Kind: KindNormalization, Target: target, Cause: err}
		t.to(StateEngineFailure, rerr)
		return nil, rerr
	}
	t.to(StateSuccess, nil)

	if a.logger != nil {
		a.logger.Info("audit completed",
			logging.F("target", target),
			logging.F("score", frag.Score),
			logging.F("critical", frag.CriticalCount),
			logging.F("duration_ms", elapsed.Milliseconds()))
	}
	return &Result{Fragment: *frag, DurationMs: elapsed.Milliseconds(), FinalURL: raw.FinalURL}, nil
}

var errEmptyReport = errors.New("engine returned no report")

// runEngine returns as soon as ctx is done even if the engine ignores it; the
// deferred kill then tears the browser out from under it.
func (a *Auditor) runEngine(ctx context.Context, target, endpoint string) (*engine.RawReport, error) {
	type outcome struct {
		raw *engine.RawReport
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("engine panic: %v", r)}
			}
		}()
		raw, err := a.engine.Run(ctx, target, endpoint)
		done <- outcome{raw: raw, err: err}
	}()

	select {
	case o := <-done:
		if o.err == nil && o.raw == nil {
			return nil, errEmptyReport
		}
		return o.raw, o.err
	case <-ctx.Done():
		return nil, fmt.Errorf("engine did not finish: %w", ctx.Err())
	}
}
