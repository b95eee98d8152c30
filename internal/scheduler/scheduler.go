// Package scheduler re-audits every active target on a fixed interval.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/raysh454/seolens/internal/auditor"
	"github.com/raysh454/seolens/internal/logging"
	"github.com/raysh454/seolens/internal/model"
	"github.com/raysh454/seolens/internal/observability"
)

// Config controls the sweep cadence. A zero Interval disables scheduling.
type Config struct {
	Interval       time.Duration `toml:"interval"`
	MaxConcurrency int           `toml:"max_concurrency"`
	RunOnStart     bool          `toml:"run_on_start"`
}

// DefaultConfig leaves scheduling off.
func DefaultConfig() Config {
	return Config{MaxConcurrency: 2}
}

// TargetSource lists the targets a sweep should audit.
type TargetSource interface {
	ListActiveTargets(ctx context.Context) ([]model.Target, error)
}

// Runner audits one target.
type Runner interface {
	RunAudit(ctx context.Context, ownerID, targetID string, typ model.AuditType, observers ...auditor.Observer) (*model.AuditReport, error)
}

// Summary describes one sweep.
type Summary struct {
	Dispatched int
	Succeeded  int
	Failed     int
}

type Scheduler struct {
	cfg     Config
	targets TargetSource
	runner  Runner
	logger  logging.Logger
}

func New(cfg Config, targets TargetSource, runner Runner, logger logging.Logger) *Scheduler {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}
	return &Scheduler{cfg: cfg, targets: targets, runner: runner, logger: logger}
}

// Enabled reports whether Run will do anything.
func (s *Scheduler) Enabled() bool { return s.cfg.Interval > 0 }

// Run sweeps every Interval until ctx is done. Ticks that arrive while a sweep
// is still running are dropped.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	s.logger.Info("scheduler started",
		logging.F("interval", s.cfg.Interval.String()),
		logging.F("max_concurrency", s.cfg.MaxConcurrency))

	if s.cfg.RunOnStart {
		s.sweepAndLog(ctx)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.sweepAndLog(ctx)
		}
	}
}

func (s *Scheduler) sweepAndLog(ctx context.Context) {
	sum, err := s.Sweep(ctx)
	if err != nil {
		s.logger.Error("scheduled sweep failed", logging.Err(err))
		return
	}
	s.logger.Info("scheduled sweep finished",
		logging.F("dispatched", sum.Dispatched),
		logging.F("succeeded", sum.Succeeded),
		logging.F("failed", sum.Failed))
}

// Sweep audits every active target once with at most MaxConcurrency audits in
// flight, and waits for all of them.
func (s *Scheduler) Sweep(ctx context.Context) (Summary, error) {
	targets, err := s.targets.ListActiveTargets(ctx)
	if err != nil {
		return Summary{}, err
	}

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int64
		failed    atomic.Int64
		sum       Summary
	)
	sem := make(chan struct{}, s.cfg.MaxConcurrency)

	for _, t := range targets {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		sum.Dispatched++
		observability.ScheduledDispatched.Inc()

		go func(t model.Target) {
			defer wg.Done()
			defer func() { <-sem }()

			if _, err := s.runner.RunAudit(ctx, t.OwnerID, t.ID, model.AuditScheduled); err != nil {
				failed.Add(1)
				s.logger.Warn("scheduled audit failed",
					logging.F("target_id", t.ID),
					logging.F("url", t.URL),
					logging.Err(err))
				return
			}
			succeeded.Add(1)
		}(t)
	}

	wg.Wait()
	sum.Succeeded = int(succeeded.Load())
	sum.Failed = int(failed.Load())
	return sum, nil
}
