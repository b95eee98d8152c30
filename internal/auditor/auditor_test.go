package auditor_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/seolens/internal/auditor"
	"github.com/raysh454/seolens/internal/engine"
	"github.com/raysh454/seolens/internal/testutil"
)

type recorder struct {
	mu    sync.Mutex
	steps []auditor.State
}

func (r *recorder) OnTransition(t auditor.Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, t.To)
}

func (r *recorder) states() []auditor.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]auditor.State(nil), r.steps...)
}

func newAuditor(p *testutil.SpyProvider, e *testutil.StubEngine, cfg auditor.Config, obs ...auditor.Observer) *auditor.Auditor {
	return auditor.New(p, e, cfg, &testutil.DummyLogger{}, obs...)
}

// ─── Success ───────────────────────────────────────────────────────────

func TestRun_Success(t *testing.T) {
	t.Parallel()

	p := &testutil.SpyProvider{}
	e := &testutil.StubEngine{Report: testutil.RawReport(1, 0.9)}
	rec := &recorder{}
	a := newAuditor(p, e, auditor.Config{Flags: []string{"mute-audio"}}, rec)

	res, err := a.Run(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 100.0, res.Score)
	assert.Equal(t, 0, res.CriticalCount)
	assert.Equal(t, 0.9, res.Categories.SEO)
	assert.GreaterOrEqual(t, res.DurationMs, int64(0))
	assert.Equal(t, "https://example.com/", res.FinalURL)

	require.Len(t, p.Resources, 1)
	assert.Equal(t, 1, p.Resources[0].Kills())
	assert.Equal(t, []string{p.Resources[0].Endpoint}, e.Endpoints)
	assert.Equal(t, "mute-audio", p.Flags[0][0])

	assert.Equal(t, []auditor.State{
		auditor.StateResourceAcquired,
		auditor.StateEngineRunning,
		auditor.StateSuccess,
		auditor.StateResourceReleased,
		auditor.StateTerminal,
	}, rec.states())
}

// ─── Failures ──────────────────────────────────────────────────────────

func TestRun_EngineFailureReleasesOnce(t *testing.T) {
	t.Parallel()

	p := &testutil.SpyProvider{}
	e := &testutil.StubEngine{Err: errors.New("net::ERR_NAME_NOT_RESOLVED")}
	rec := &recorder{}
	a := newAuditor(p, e, auditor.Config{}, rec)

	res, err := a.Run(context.Background(), "https://nope.invalid")
	require.Nil(t, res)
	require.ErrorIs(t, err, auditor.ErrEngineFailure)
	assert.NotErrorIs(t, err, auditor.ErrResourceAcquisition)
	assert.EqualError(t, err, "audit failed for https://nope.invalid: net::ERR_NAME_NOT_RESOLVED")

	var rerr *auditor.RunError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, auditor.KindEngine, rerr.Kind)
	assert.Equal(t, "https://nope.invalid", rerr.Target)

	require.Len(t, p.Resources, 1)
	assert.Equal(t, 1, p.Resources[0].Kills())

	assert.Equal(t, []auditor.State{
		auditor.StateResourceAcquired,
		auditor.StateEngineRunning,
		auditor.StateEngineFailure,
		auditor.StateResourceReleased,
		auditor.StateTerminal,
	}, rec.states())
}

func TestRun_LaunchFailure(t *testing.T) {
	t.Parallel()

	p := &testutil.SpyProvider{LaunchErr: errors.New("chrome not found")}
	e := &testutil.StubEngine{Report: testutil.RawReport(1, 1)}
	a := newAuditor(p, e, auditor.Config{})

	_, err := a.Run(context.Background(), "https://example.com")
	require.ErrorIs(t, err, auditor.ErrResourceAcquisition)
	assert.Contains(t, err.Error(), "chrome not found")
	assert.Equal(t, 0, e.Calls(), "engine must not run without a browser")
	assert.Equal(t, 0, p.Launches())
}

func TestRun_NormalizationFailure(t *testing.T) {
	t.Parallel()

	p := &testutil.SpyProvider{}
	e := &testutil.StubEngine{Report: &engine.RawReport{}}
	a := newAuditor(p, e, auditor.Config{})

	_, err := a.Run(context.Background(), "https://example.com")
	require.ErrorIs(t, err, auditor.ErrNormalization)
	assert.NotErrorIs(t, err, auditor.ErrEngineFailure)
	assert.Equal(t, 1, p.TotalKills())
}

func TestRun_NilReportIsEngineFailure(t *testing.T) {
	t.Parallel()

	p := &testutil.SpyProvider{}
	a := newAuditor(p, &testutil.StubEngine{}, auditor.Config{})

	_, err := a.Run(context.Background(), "https://example.com")
	require.ErrorIs(t, err, auditor.ErrEngineFailure)
	assert.Equal(t, 1, p.TotalKills())
}

func TestRun_TimeoutReleases(t *testing.T) {
	t.Parallel()

	p := &testutil.SpyProvider{}
	e := &testutil.StubEngine{Block: true}
	a := newAuditor(p, e, auditor.Config{Timeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := a.Run(context.Background(), "https://slow.example")
	require.ErrorIs(t, err, auditor.ErrEngineFailure)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 1, p.TotalKills())
}

func TestRun_EnginePanicReleases(t *testing.T) {
	t.Parallel()

	p := &testutil.SpyProvider{}
	a := newAuditor(p, &testutil.StubEngine{Panic: true}, auditor.Config{})

	_, err := a.Run(context.Background(), "https://example.com")
	require.ErrorIs(t, err, auditor.ErrEngineFailure)
	assert.Contains(t, err.Error(), "engine panic")
	assert.Equal(t, 1, p.TotalKills())
}

func TestRun_ObserverPanicStillReleases(t *testing.T) {
	t.Parallel()

	states := []auditor.State{
		auditor.StateResourceAcquired,
		auditor.StateEngineRunning,
		auditor.StateSuccess,
		auditor.StateEngineFailure,
		auditor.StateResourceReleased,
		auditor.StateTerminal,
	}
	for _, failing := range []bool{false, true} {
		for _, at := range states {
			p := &testutil.SpyProvider{}
			e := &testutil.StubEngine{Report: testutil.RawReport(1, 1)}
			if failing {
				e.Err = errors.New("lighthouse crashed")
			}
			logger := &testutil.DummyLogger{}
			a := auditor.New(p, e, auditor.Config{}, logger)

			boom := auditor.ObserverFunc(func(tr auditor.Transition) {
				if tr.To == at {
					panic("observer bug")
				}
			})
			rec := &recorder{}

			var err error
			require.NotPanics(t, func() {
				_, err = a.Run(context.Background(), "https://example.com", boom, rec)
			}, "state %s failing=%v", at, failing)

			assert.Equal(t, 1, p.Launches(), "state %s failing=%v", at, failing)
			assert.Equal(t, 1, p.TotalKills(), "state %s failing=%v", at, failing)
			assert.Contains(t, rec.states(), auditor.StateResourceReleased)
			if failing {
				assert.ErrorIs(t, err, auditor.ErrEngineFailure)
			} else {
				assert.NoError(t, err)
			}
			reached := !(at == auditor.StateSuccess && failing) && !(at == auditor.StateEngineFailure && !failing)
			if reached {
				assert.Equal(t, 1, logger.ErrorCount(), "state %s failing=%v", at, failing)
			}
		}
	}
}

// ─── Isolation ─────────────────────────────────────────────────────────

func TestRun_ConcurrentRunsUseOwnResources(t *testing.T) {
	t.Parallel()

	p := &testutil.SpyProvider{}
	e := &testutil.StubEngine{Report: testutil.RawReport(0.8, 0.8)}
	a := newAuditor(p, e, auditor.Config{})

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.Run(context.Background(), "https://example.com")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Equal(t, n, p.Launches())
	for _, r := range p.Resources {
		assert.Equal(t, 1, r.Kills())
	}
}
