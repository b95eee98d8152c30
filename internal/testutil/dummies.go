// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/raysh454/seolens/internal/browser"
	"github.com/raysh454/seolens/internal/engine"
	"github.com/raysh454/seolens/internal/logging"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ErrorCount returns the number of recorded Error calls.
func (l *DummyLogger) ErrorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Errors)
}

// ─── Browser ───────────────────────────────────────────────────────────

// SpyResource implements browser.Resource and counts Kill calls.
type SpyResource struct {
	Endpoint string
	kills    atomic.Int32
}

func (r *SpyResource) ControlEndpoint() string { return r.Endpoint }

func (r *SpyResource) Kill() error {
	r.kills.Add(1)
	return nil
}

// Kills returns how many times Kill was called.
func (r *SpyResource) Kills() int { return int(r.kills.Load()) }

// SpyProvider implements browser.Provider. Every launch yields a fresh
// SpyResource on a distinct fake endpoint. Set LaunchErr to fail launches.
type SpyProvider struct {
	LaunchErr error

	mu        sync.Mutex
	Resources []*SpyResource
	Flags     []browser.Flags
}

func (p *SpyProvider) Launch(ctx context.Context, flags browser.Flags) (browser.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.LaunchErr != nil {
		return nil, p.LaunchErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	r := &SpyResource{Endpoint: fmt.Sprintf("127.0.0.1:%d", 9222+len(p.Resources))}
	p.Resources = append(p.Resources, r)
	p.Flags = append(p.Flags, flags)
	return r, nil
}

// Launches returns the number of successful launches.
func (p *SpyProvider) Launches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Resources)
}

// TotalKills sums Kill calls across all launched resources.
func (p *SpyProvider) TotalKills() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, r := range p.Resources {
		n += r.Kills()
	}
	return n
}

// ─── Engine ────────────────────────────────────────────────────────────

// StubEngine implements engine.Engine with canned output.
// Block makes Run wait for context cancellation; Panic makes it panic.
type StubEngine struct {
	Report *engine.RawReport
	Err    error
	Block  bool
	Panic  bool

	mu        sync.Mutex
	Targets   []string
	Endpoints []string
}

func (e *StubEngine) Run(ctx context.Context, url, endpoint string) (*engine.RawReport, error) {
	e.mu.Lock()
	e.Targets = append(e.Targets, url)
	e.Endpoints = append(e.Endpoints, endpoint)
	e.mu.Unlock()

	if e.Panic {
		panic("stub engine exploded")
	}
	if e.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if e.Err != nil {
		return nil, e.Err
	}
	return e.Report, nil
}

// Calls returns the number of Run invocations.
func (e *StubEngine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Targets)
}

// EngineAuditIDs lists the engine identifiers of the nine fixed checks.
var EngineAuditIDs = []string{
	"is-on-https", "redirects-http", "viewport", "first-contentful-paint",
	"first-meaningful-paint", "speed-index", "errors-in-console", "interactive", "bootup-time",
}

// RawReport builds an engine report where every audit scores auditScore and
// every category scores categoryScore.
func RawReport(auditScore, categoryScore float64) *engine.RawReport {
	r := &engine.RawReport{
		FinalURL:   "https://example.com/",
		Audits:     make(map[string]engine.RawAudit, len(EngineAuditIDs)),
		Categories: make(map[string]engine.RawCategory, 4),
	}
	for _, id := range EngineAuditIDs {
		dv := "1.2 s"
		r.Audits[id] = engine.RawAudit{
			ID:           id,
			Score:        engine.Float(auditScore),
			Description:  "Description of " + id + ". More detail follows.",
			DisplayValue: &dv,
		}
	}
	for _, id := range []string{"performance", "accessibility", "best-practices", "seo"} {
		r.Categories[id] = engine.RawCategory{ID: id, Score: engine.Float(categoryScore)}
	}
	return r
}
