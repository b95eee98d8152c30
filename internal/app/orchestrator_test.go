package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/seolens/internal/artifact"
	"github.com/raysh454/seolens/internal/auditor"
	"github.com/raysh454/seolens/internal/engine"
	"github.com/raysh454/seolens/internal/model"
	"github.com/raysh454/seolens/internal/render"
	"github.com/raysh454/seolens/internal/store"
	"github.com/raysh454/seolens/internal/store/sqlite"
	"github.com/raysh454/seolens/internal/testutil"
)

const owner = "owner-1"

type fixture struct {
	orch      *Orchestrator
	store     store.Store
	provider  *testutil.SpyProvider
	engine    *testutil.StubEngine
	artifacts string
}

// newFixture builds an Orchestrator on a real SQLite file and a real auditor
// whose browser and engine are test doubles.
func newFixture(t *testing.T, mutate ...func(*Config)) *fixture {
	t.Helper()

	dir := t.TempDir()
	logger := &testutil.DummyLogger{}
	ctx := context.Background()

	st, err := sqlite.Open(ctx, filepath.Join(dir, "seolens.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := DefaultConfig()
	cfg.Audit.LaunchRate = 0
	cfg.Artifacts = artifact.Config{Root: filepath.Join(dir, "artifacts"), BaseURL: "http://test.local/artifacts"}
	for _, m := range mutate {
		m(cfg)
	}

	provider := &testutil.SpyProvider{}
	eng := &testutil.StubEngine{Report: testutil.RawReport(1, 1)}
	aud := auditor.New(provider, eng, auditor.Config{Timeout: 10 * time.Second}, logger)

	fs, err := artifact.NewFSStore(cfg.Artifacts)
	require.NoError(t, err)

	orch, err := NewOrchestrator(cfg, Deps{
		Store:    st,
		Auditor:  aud,
		Renderer: render.New(cfg.Render, logger),
		Uploader: fs,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = orch.Close(context.Background()) })

	return &fixture{orch: orch, store: st, provider: provider, engine: eng, artifacts: cfg.Artifacts.Root}
}

func (f *fixture) target(t *testing.T, url string) *model.Target {
	t.Helper()
	tg, err := f.orch.CreateTarget(context.Background(), owner, CreateTargetInput{URL: url, Title: "Site"})
	require.NoError(t, err)
	return tg
}

// ─── Construction ──────────────────────────────────────────────────────

func TestNewOrchestrator_RequiresStoreAndAuditor(t *testing.T) {
	t.Parallel()

	_, err := NewOrchestrator(nil, Deps{}, &testutil.DummyLogger{})
	require.Error(t, err)
}

func TestNewOrchestrator_BadBlocklist(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Audit.Blocklist = []string{"[broken"}
	_, err := NewOrchestrator(cfg, Deps{
		Store:   &sqlite.Store{},
		Auditor: auditor.New(&testutil.SpyProvider{}, &testutil.StubEngine{}, auditor.Config{}, &testutil.DummyLogger{}),
	}, &testutil.DummyLogger{})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

// ─── Targets ───────────────────────────────────────────────────────────

func TestCreateTarget_CanonicalizesAndRejectsDuplicates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	tg, err := f.orch.CreateTarget(ctx, owner, CreateTargetInput{
		URL:      "Example.com/?utm_source=ad",
		Keywords: []string{" seo ", "", "speed"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", tg.URL)
	assert.Equal(t, "example.com", tg.Title)
	assert.Equal(t, []string{"seo", "speed"}, tg.Keywords)
	assert.True(t, tg.Active)
	assert.NotEmpty(t, tg.ID)

	_, err = f.orch.CreateTarget(ctx, owner, CreateTargetInput{URL: "https://EXAMPLE.com"})
	require.ErrorIs(t, err, store.ErrConflict)
	var exists *TargetExistsError
	require.True(t, errors.As(err, &exists))
	assert.Equal(t, tg.ID, exists.Existing.ID)

	// Another owner may register the same URL.
	_, err = f.orch.CreateTarget(ctx, "owner-2", CreateTargetInput{URL: "https://example.com"})
	require.NoError(t, err)
}

func TestCreateTarget_InvalidInput(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]struct {
		owner string
		url   string
	}{
		"empty owner":  {"", "https://example.com"},
		"empty url":    {owner, "  "},
		"bad scheme":   {owner, "ftp://example.com"},
		"blocked host": {owner, "http://localhost:3000"},
		"private ip":   {owner, "http://192.168.1.20/"},
	}
	for name, tc := range cases {
		_, err := f.orch.CreateTarget(ctx, tc.owner, CreateTargetInput{URL: tc.url})
		require.ErrorIs(t, err, ErrInvalidInput, name)
	}
}

func TestCreateTarget_DefaultBlocklist(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	blocked := []string{
		"http://0.0.0.0/",
		"http://127.0.0.1:8080/",
		"http://172.16.0.1/",
		"http://172.24.10.3/",
		"http://172.31.255.255/",
		"http://[::1]/",
		"http://[::1]:3000/",
		"http://[::ffff:127.0.0.1]/",
		"http://[fe80::1]/",
		"http://[fd12:3456::1]/",
		"http://metadata.internal/",
		"http://app.localhost/",
	}
	for _, u := range blocked {
		_, err := f.orch.CreateTarget(ctx, owner, CreateTargetInput{URL: u})
		assert.ErrorIs(t, err, ErrInvalidInput, u)
	}

	allowed := []string{"http://172.15.0.1/", "http://172.32.0.1/", "https://fc.example.com/"}
	for _, u := range allowed {
		_, err := f.orch.CreateTarget(ctx, owner, CreateTargetInput{URL: u})
		assert.NoError(t, err, u)
	}
}

func TestListTargets_Scopes(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 12; i++ {
		ids = append(ids, f.target(t, fmt.Sprintf("https://site%02d.example.com", i)).ID)
	}
	// Newest first: ids[11] leads every listing.
	require.NoError(t, f.orch.SetTargetActive(ctx, owner, ids[11], false))

	dash, err := f.orch.ListTargets(ctx, owner, ScopeDashboard, 1)
	require.NoError(t, err)
	require.Len(t, dash.Items, 5)
	assert.Equal(t, ids[10], dash.Items[0].ID)
	require.NotNil(t, dash.Info.Next)
	assert.Equal(t, 2, *dash.Info.Next)
	assert.Nil(t, dash.Info.Prev)

	all, err := f.orch.ListTargets(ctx, owner, ScopeAll, 2)
	require.NoError(t, err)
	require.Len(t, all.Items, 2)
	assert.Nil(t, all.Info.Next)
	require.NotNil(t, all.Info.Prev)
	assert.Equal(t, 1, *all.Info.Prev)

	// Out-of-range pages clamp to the first page.
	first, err := f.orch.ListTargets(ctx, owner, ScopeAll, 0)
	require.NoError(t, err)
	assert.Equal(t, ids[11], first.Items[0].ID)

	_, err = f.orch.ListTargets(ctx, owner, Scope("weird"), 1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

// ─── Audits ────────────────────────────────────────────────────────────

func TestRunAudit_PersistsAndMirrorsSummary(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	tg := f.target(t, "https://example.com")

	rep, err := f.orch.RunAudit(ctx, owner, tg.ID, model.AuditManual)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rep.Score)
	assert.Equal(t, 0, rep.CriticalCount)
	assert.Equal(t, model.AuditCompleted, rep.Status)
	assert.Equal(t, model.AuditManual, rep.Type)
	assert.Equal(t, tg.ID, rep.TargetID)

	got, err := f.store.GetTarget(ctx, owner, tg.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Score)
	assert.Equal(t, 1, got.AuditsCount)

	assert.Equal(t, 1, f.provider.Launches())
	assert.Equal(t, 1, f.provider.TotalKills())
	assert.Equal(t, []string{"https://example.com/"}, f.engine.Targets)
}

func TestRunAudit_ViewportNullEndToEnd(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	tg := f.target(t, "https://example.com")

	raw := testutil.RawReport(1, 0.9)
	vp := raw.Audits["viewport"]
	vp.Score = nil
	raw.Audits["viewport"] = vp
	f.engine.Report = raw

	rep, err := f.orch.RunAudit(ctx, owner, tg.ID, model.AuditManual)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.CriticalCount)
	assert.Equal(t, 88.89, rep.Score)
	assert.Equal(t, 0.0, rep.Audits.Viewport.Score)

	got, err := f.store.GetTarget(ctx, owner, tg.ID)
	require.NoError(t, err)
	assert.Equal(t, 88.89, got.Score)
	assert.Equal(t, 1, got.CriticalCount)
}

func TestRunAudit_EngineFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	tg := f.target(t, "https://example.com")
	f.engine.Err = errors.New("lighthouse crashed")

	_, err := f.orch.RunAudit(ctx, owner, tg.ID, model.AuditManual)
	require.ErrorIs(t, err, auditor.ErrEngineFailure)
	assert.True(t, strings.HasPrefix(err.Error(), "audit failed for https://example.com/"), err.Error())
	assert.Equal(t, 1, f.provider.TotalKills())

	got, err := f.store.GetTarget(ctx, owner, tg.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AuditsCount, "nothing persisted on failure")
}

func TestRunAudit_UnknownTargetOrOwner(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	tg := f.target(t, "https://example.com")

	_, err := f.orch.RunAudit(ctx, owner, "missing", model.AuditManual)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = f.orch.RunAudit(ctx, "intruder", tg.ID, model.AuditManual)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = f.orch.RunAudit(ctx, owner, tg.ID, model.AuditType("nightly"))
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, f.engine.Calls())
}

func TestRunAudit_LaunchRateLimited(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(c *Config) {
		c.Audit.LaunchRate = 0.001
		c.Audit.LaunchBurst = 1
	})
	tg := f.target(t, "https://example.com")

	_, err := f.orch.RunAudit(context.Background(), owner, tg.ID, model.AuditManual)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = f.orch.RunAudit(ctx, owner, tg.ID, model.AuditManual)
	require.Error(t, err)
	assert.Equal(t, 1, f.engine.Calls())
}

func TestListReports_Paginates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	a := f.target(t, "https://a.example.com")
	b := f.target(t, "https://b.example.com")

	for i := 0; i < 7; i++ {
		_, err := f.orch.RunAudit(ctx, owner, a.ID, model.AuditManual)
		require.NoError(t, err)
		_, err = f.orch.RunAudit(ctx, owner, b.ID, model.AuditScheduled)
		require.NoError(t, err)
	}

	p1, err := f.orch.ListReports(ctx, owner, 1)
	require.NoError(t, err)
	require.Len(t, p1.Items, 10)
	require.NotNil(t, p1.Info.Next)
	assert.Equal(t, b.ID, p1.Items[0].TargetID, "newest first")

	p2, err := f.orch.ListReports(ctx, owner, 2)
	require.NoError(t, err)
	require.Len(t, p2.Items, 4)
	assert.Nil(t, p2.Info.Next)

	pa, err := f.orch.ListTargetReports(ctx, owner, a.ID, 1)
	require.NoError(t, err)
	require.Len(t, pa.Items, 7)
	for _, r := range pa.Items {
		assert.Equal(t, a.ID, r.TargetID)
	}

	_, err = f.orch.ListTargetReports(ctx, owner, "missing", 1)
	require.ErrorIs(t, err, store.ErrNotFound)

	ov, err := f.orch.AuditOverview(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 14, ov.TotalAudits)
	assert.Equal(t, 7, ov.ByType[model.AuditScheduled])

	tov, err := f.orch.TargetOverview(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, tov.TotalTargets)
	assert.Equal(t, 14, tov.TotalAudits)
}

// ─── Comparison ────────────────────────────────────────────────────────

func setCategory(r *engine.RawReport, id string, score float64) {
	c := r.Categories[id]
	c.Score = engine.Float(score)
	r.Categories[id] = c
}

func TestCompareLastTwo(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	tg := f.target(t, "https://example.com")

	none, err := f.orch.CompareLastTwo(ctx, owner, tg.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	first := testutil.RawReport(1, 0.8)
	f.engine.Report = first
	_, err = f.orch.RunAudit(ctx, owner, tg.ID, model.AuditManual)
	require.NoError(t, err)

	one, err := f.orch.CompareLastTwo(ctx, owner, tg.ID)
	require.NoError(t, err)
	require.Len(t, one, 4)
	for _, c := range one {
		assert.Equal(t, "+0%", c.Change)
		assert.Nil(t, c.Previous)
		assert.Nil(t, c.Direction)
	}

	second := testutil.RawReport(1, 0.8)
	setCategory(second, "seo", 0.92)
	f.engine.Report = second
	_, err = f.orch.RunAudit(ctx, owner, tg.ID, model.AuditManual)
	require.NoError(t, err)

	two, err := f.orch.CompareLastTwo(ctx, owner, tg.ID)
	require.NoError(t, err)
	require.Len(t, two, 4)
	seo := two[3]
	assert.Equal(t, model.Category("seo"), seo.Category)
	assert.Equal(t, "92/100", seo.Current)
	require.NotNil(t, seo.Previous)
	assert.Equal(t, "80/100", *seo.Previous)
	assert.Equal(t, "+12.0%", seo.Change)
	require.NotNil(t, seo.Direction)
	assert.Equal(t, model.DirectionHigher, *seo.Direction)

	_, err = f.orch.CompareLastTwo(ctx, "intruder", tg.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCompareAudits(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	tg := f.target(t, "https://example.com")

	empty, err := f.orch.CompareAudits(ctx, owner, tg.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Changes)

	prev, err := f.orch.RunAudit(ctx, owner, tg.ID, model.AuditManual)
	require.NoError(t, err)

	worse := testutil.RawReport(1, 1)
	fcp := worse.Audits["first-contentful-paint"]
	fcp.Score = engine.Float(0.3)
	dv := "4.8 s"
	fcp.DisplayValue = &dv
	worse.Audits["first-contentful-paint"] = fcp
	f.engine.Report = worse

	latest, err := f.orch.RunAudit(ctx, owner, tg.ID, model.AuditManual)
	require.NoError(t, err)

	d, err := f.orch.CompareAudits(ctx, owner, tg.ID)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, d.LatestID)
	assert.Equal(t, prev.ID, d.PreviousID)
	regs := d.Regressions()
	require.Len(t, regs, 1)
	assert.Equal(t, "first-contentful-paint", regs[0].AuditID)
	assert.Equal(t, -0.7, regs[0].Delta)
	assert.Equal(t, "4.8 s", regs[0].DisplayValue)
	assert.NotEmpty(t, regs[0].DisplayValueDiff)
}

// ─── Reports ───────────────────────────────────────────────────────────

func TestRenderLatestReport(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	tg := f.target(t, "https://example.com")

	_, _, err := f.orch.RenderLatestReport(ctx, owner, tg.ID)
	require.ErrorIs(t, err, ErrNoAudits)

	rep, err := f.orch.RunAudit(ctx, owner, tg.ID, model.AuditManual)
	require.NoError(t, err)

	doc, used, err := f.orch.RenderLatestReport(ctx, owner, tg.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, used.ID)
	assert.Equal(t, "report-"+rep.ID+".pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))
}

func TestRenderReport_RunsFreshAuditWithoutStoringIt(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	tg := f.target(t, "https://example.com")

	doc, err := f.orch.RenderReport(ctx, owner, tg.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))
	assert.Equal(t, 1, f.engine.Calls())

	got, err := f.store.GetTarget(ctx, owner, tg.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AuditsCount)

	f.engine.Err = errors.New("boom")
	_, err = f.orch.RenderReport(ctx, owner, tg.ID)
	require.ErrorIs(t, err, auditor.ErrEngineFailure)
}

func TestPublishReport(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	tg := f.target(t, "https://example.com")
	_, err := f.orch.RunAudit(ctx, owner, tg.ID, model.AuditManual)
	require.NoError(t, err)

	url, err := f.orch.PublishReport(ctx, owner, tg.ID)
	require.NoError(t, err)
	prefix := "http://test.local/artifacts/" + artifact.FolderFor(owner) + "/"
	require.True(t, strings.HasPrefix(url, prefix), url)

	data, err := os.ReadFile(filepath.Join(f.artifacts, artifact.FolderFor(owner), strings.TrimPrefix(url, prefix)))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
