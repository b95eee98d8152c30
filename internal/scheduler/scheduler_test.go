package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/seolens/internal/auditor"
	"github.com/raysh454/seolens/internal/model"
	"github.com/raysh454/seolens/internal/scheduler"
	"github.com/raysh454/seolens/internal/testutil"
)

type fakeTargets struct {
	targets []model.Target
	err     error
}

func (f *fakeTargets) ListActiveTargets(context.Context) ([]model.Target, error) {
	return f.targets, f.err
}

type fakeRunner struct {
	mu       sync.Mutex
	calls    []string
	types    []model.AuditType
	fail     map[string]bool
	delay    time.Duration
	inflight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeRunner) RunAudit(ctx context.Context, ownerID, targetID string, typ model.AuditType, _ ...auditor.Observer) (*model.AuditReport, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.calls = append(f.calls, targetID)
	f.types = append(f.types, typ)
	f.mu.Unlock()

	if f.fail[targetID] {
		return nil, errors.New("audit failed")
	}
	return &model.AuditReport{TargetID: targetID, OwnerID: ownerID, Type: typ}, nil
}

func targets(n int) []model.Target {
	out := make([]model.Target, n)
	for i := range out {
		out[i] = model.Target{ID: string(rune('a' + i)), OwnerID: "owner", URL: "https://example.com/", Active: true}
	}
	return out
}

// ─── Sweep ─────────────────────────────────────────────────────────────

func TestSweep_AuditsEveryTargetAsScheduled(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{fail: map[string]bool{"b": true}}
	s := scheduler.New(scheduler.Config{Interval: time.Hour, MaxConcurrency: 2}, &fakeTargets{targets: targets(3)}, r, &testutil.DummyLogger{})

	sum, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, scheduler.Summary{Dispatched: 3, Succeeded: 2, Failed: 1}, sum)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, r.calls)
	for _, typ := range r.types {
		assert.Equal(t, model.AuditScheduled, typ)
	}
}

func TestSweep_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{delay: 20 * time.Millisecond}
	s := scheduler.New(scheduler.Config{Interval: time.Hour, MaxConcurrency: 2}, &fakeTargets{targets: targets(6)}, r, &testutil.DummyLogger{})

	_, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, r.peak.Load(), int32(2))
	assert.Len(t, r.calls, 6)
}

func TestSweep_ListError(t *testing.T) {
	t.Parallel()

	s := scheduler.New(scheduler.Config{Interval: time.Hour}, &fakeTargets{err: errors.New("db down")}, &fakeRunner{}, &testutil.DummyLogger{})
	_, err := s.Sweep(context.Background())
	require.Error(t, err)
}

// ─── Run ───────────────────────────────────────────────────────────────

func TestRun_DisabledReturnsImmediately(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	s := scheduler.New(scheduler.DefaultConfig(), &fakeTargets{targets: targets(1)}, r, &testutil.DummyLogger{})
	require.False(t, s.Enabled())

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return for a disabled scheduler")
	}
	assert.Empty(t, r.calls)
}

func TestRun_SweepsUntilCanceled(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	s := scheduler.New(scheduler.Config{Interval: 10 * time.Millisecond, RunOnStart: true}, &fakeTargets{targets: targets(1)}, r, &testutil.DummyLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.calls) >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
