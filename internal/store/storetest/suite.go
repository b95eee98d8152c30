// Package storetest holds behaviour tests shared by every store backend.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/seolens/internal/model"
	"github.com/raysh454/seolens/internal/pagination"
	"github.com/raysh454/seolens/internal/store"
)

// Factory returns a fresh, empty store. It should register its own cleanup.
type Factory func(t *testing.T) store.Store

// Run exercises s against the Store contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateAndGetTarget", func(t *testing.T) { testCreateAndGetTarget(t, newStore(t)) })
	t.Run("TargetConflict", func(t *testing.T) { testTargetConflict(t, newStore(t)) })
	t.Run("TargetOwnership", func(t *testing.T) { testTargetOwnership(t, newStore(t)) })
	t.Run("ListTargetsPaging", func(t *testing.T) { testListTargetsPaging(t, newStore(t)) })
	t.Run("RecordAuditUpdatesTarget", func(t *testing.T) { testRecordAudit(t, newStore(t)) })
	t.Run("RecordAuditUnknownTarget", func(t *testing.T) { testRecordAuditUnknownTarget(t, newStore(t)) })
	t.Run("LatestAuditsOrdering", func(t *testing.T) { testLatestAudits(t, newStore(t)) })
	t.Run("ListAuditsPaging", func(t *testing.T) { testListAudits(t, newStore(t)) })
	t.Run("Overviews", func(t *testing.T) { testOverviews(t, newStore(t)) })
	t.Run("ActiveTargets", func(t *testing.T) { testActiveTargets(t, newStore(t)) })
	t.Run("ConcurrentRecords", func(t *testing.T) { testConcurrentRecords(t, newStore(t)) })
}

func newTarget(owner, url string) *model.Target {
	return &model.Target{
		OwnerID:     owner,
		URL:         url,
		Title:       "Site " + url,
		Description: "desc",
		Keywords:    []string{"seo", "audit"},
		Active:      true,
	}
}

func newAudit(owner, target string, score float64, seo float64) *model.AuditReport {
	dv := "1.5 s"
	a := &model.AuditReport{
		OwnerID:       owner,
		TargetID:      target,
		Categories:    model.Categories{Performance: 0.5, Accessibility: 0.6, BestPractices: 0.7, SEO: seo},
		Score:         score,
		CriticalCount: 2,
		DurationMs:    1200,
		Status:        model.AuditCompleted,
		Type:          model.AuditManual,
	}
	a.Audits.Viewport = model.AuditDetail{Score: 1, Description: "Has viewport."}
	a.Audits.Interactive = model.AuditDetail{Score: 0.3, Description: "TTI.", DisplayValue: &dv}
	return a
}

func mustTarget(t *testing.T, s store.Store, owner, url string) *model.Target {
	t.Helper()
	tg := newTarget(owner, url)
	require.NoError(t, s.CreateTarget(context.Background(), tg))
	return tg
}

func testCreateAndGetTarget(t *testing.T, s store.Store) {
	ctx := context.Background()
	tg := mustTarget(t, s, "owner-1", "https://example.com/")
	require.NotEmpty(t, tg.ID)
	require.False(t, tg.CreatedAt.IsZero())

	got, err := s.GetTarget(ctx, "owner-1", tg.ID)
	require.NoError(t, err)
	assert.Equal(t, tg.URL, got.URL)
	assert.Equal(t, []string{"seo", "audit"}, got.Keywords)
	assert.True(t, got.Active)
	assert.True(t, tg.CreatedAt.Equal(got.CreatedAt))

	byURL, err := s.FindTargetByURL(ctx, "owner-1", "https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, tg.ID, byURL.ID)

	_, err = s.GetTarget(ctx, "owner-1", "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.FindTargetByURL(ctx, "owner-1", "https://other.example/")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testTargetConflict(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustTarget(t, s, "owner-1", "https://example.com/")

	err := s.CreateTarget(ctx, newTarget("owner-1", "https://example.com/"))
	require.ErrorIs(t, err, store.ErrConflict)

	// a different owner may register the same URL
	require.NoError(t, s.CreateTarget(ctx, newTarget("owner-2", "https://example.com/")))
}

func testTargetOwnership(t *testing.T, s store.Store) {
	ctx := context.Background()
	tg := mustTarget(t, s, "owner-1", "https://example.com/")

	_, err := s.GetTarget(ctx, "owner-2", tg.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, s.SetTargetActive(ctx, "owner-2", tg.ID, false), store.ErrNotFound)
	require.NoError(t, s.SetTargetActive(ctx, "owner-1", tg.ID, false))
	got, err := s.GetTarget(ctx, "owner-1", tg.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func testListTargetsPaging(t *testing.T, s store.Store) {
	ctx := context.Background()
	var ids []string
	for i := 0; i < 7; i++ {
		tg := mustTarget(t, s, "owner-1", fmt.Sprintf("https://site%d.example/", i))
		ids = append(ids, tg.ID)
	}
	mustTarget(t, s, "owner-2", "https://foreign.example/")
	require.NoError(t, s.SetTargetActive(ctx, "owner-1", ids[6], false))

	w := pagination.New(5, 1)
	page1, err := s.ListTargets(ctx, "owner-1", false, w)
	require.NoError(t, err)
	require.Len(t, page1, 6, "fetches one extra")
	assert.Equal(t, ids[6], page1[0].ID, "newest first")

	page2, err := s.ListTargets(ctx, "owner-1", false, pagination.New(5, 2))
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, ids[0], page2[1].ID)

	active, err := s.ListTargets(ctx, "owner-1", true, pagination.New(10, 1))
	require.NoError(t, err)
	assert.Len(t, active, 6)
}

func testRecordAudit(t *testing.T, s store.Store) {
	ctx := context.Background()
	tg := mustTarget(t, s, "owner-1", "https://example.com/")

	a := newAudit("owner-1", tg.ID, 77.78, 0.9)
	require.NoError(t, s.RecordAudit(ctx, a))
	require.NotEmpty(t, a.ID)

	got, err := s.GetAudit(ctx, "owner-1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 77.78, got.Score)
	assert.Equal(t, 0.9, got.Categories.SEO)
	assert.Equal(t, "Has viewport.", got.Audits.Viewport.Description)
	require.NotNil(t, got.Audits.Interactive.DisplayValue)
	assert.Equal(t, "1.5 s", *got.Audits.Interactive.DisplayValue)
	assert.Nil(t, got.Audits.Viewport.DisplayValue)
	assert.Equal(t, model.AuditCompleted, got.Status)
	assert.Equal(t, model.AuditManual, got.Type)
	assert.Equal(t, int64(1200), got.DurationMs)

	updated, err := s.GetTarget(ctx, "owner-1", tg.ID)
	require.NoError(t, err)
	assert.Equal(t, 77.78, updated.Score)
	assert.Equal(t, 2, updated.CriticalCount)
	assert.Equal(t, 1, updated.AuditsCount)

	_, err = s.GetAudit(ctx, "owner-2", a.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testRecordAuditUnknownTarget(t *testing.T, s store.Store) {
	ctx := context.Background()
	err := s.RecordAudit(ctx, newAudit("owner-1", "no-such-target", 50, 0.5))
	require.ErrorIs(t, err, store.ErrNotFound)

	audits, err := s.ListAudits(ctx, "owner-1", pagination.New(10, 1))
	require.NoError(t, err)
	assert.Empty(t, audits, "failed audit must not be persisted")
}

func testLatestAudits(t *testing.T, s store.Store) {
	ctx := context.Background()
	tg := mustTarget(t, s, "owner-1", "https://example.com/")

	latest, err := s.LatestAudits(ctx, "owner-1", tg.ID, 2)
	require.NoError(t, err)
	assert.Empty(t, latest)

	// identical timestamps: ordering falls back to id
	same := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	first := newAudit("owner-1", tg.ID, 10, 0.1)
	first.ID, first.CreatedAt = "aaaaaaaa-0000-0000-0000-000000000001", same
	second := newAudit("owner-1", tg.ID, 20, 0.2)
	second.ID, second.CreatedAt = "aaaaaaaa-0000-0000-0000-000000000002", same
	require.NoError(t, s.RecordAudit(ctx, first))
	require.NoError(t, s.RecordAudit(ctx, second))

	third := newAudit("owner-1", tg.ID, 30, 0.3)
	require.NoError(t, s.RecordAudit(ctx, third))

	latest, err = s.LatestAudits(ctx, "owner-1", tg.ID, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, third.ID, latest[0].ID)
	assert.Equal(t, second.ID, latest[1].ID)

	again, err := s.LatestAudits(ctx, "owner-1", tg.ID, 3)
	require.NoError(t, err)
	require.Len(t, again, 3)
	assert.Equal(t, first.ID, again[2].ID)
}

func testListAudits(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := mustTarget(t, s, "owner-1", "https://a.example/")
	b := mustTarget(t, s, "owner-1", "https://b.example/")
	for i := 0; i < 4; i++ {
		require.NoError(t, s.RecordAudit(ctx, newAudit("owner-1", a.ID, float64(i), 0.5)))
	}
	require.NoError(t, s.RecordAudit(ctx, newAudit("owner-1", b.ID, 99, 0.5)))

	all, err := s.ListAudits(ctx, "owner-1", pagination.New(3, 1))
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, 99.0, all[0].Score)

	onlyA, err := s.ListTargetAudits(ctx, "owner-1", a.ID, pagination.New(10, 1))
	require.NoError(t, err)
	assert.Len(t, onlyA, 4)

	_, err = s.ListTargetAudits(ctx, "owner-2", a.ID, pagination.New(10, 1))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testOverviews(t *testing.T, s store.Store) {
	ctx := context.Background()

	empty, err := s.TargetOverview(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalTargets)
	emptyAudits, err := s.AuditOverview(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 0, emptyAudits.TotalAudits)
	assert.Nil(t, emptyAudits.LastAuditAt)

	a := mustTarget(t, s, "owner-1", "https://a.example/")
	b := mustTarget(t, s, "owner-1", "https://b.example/")
	require.NoError(t, s.SetTargetActive(ctx, "owner-1", b.ID, false))

	require.NoError(t, s.RecordAudit(ctx, newAudit("owner-1", a.ID, 80, 0.5)))
	sched := newAudit("owner-1", b.ID, 60, 0.5)
	sched.Type = model.AuditScheduled
	sched.DurationMs = 2000
	require.NoError(t, s.RecordAudit(ctx, sched))

	to, err := s.TargetOverview(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 2, to.TotalTargets)
	assert.Equal(t, 1, to.ActiveTargets)
	assert.Equal(t, 70.0, to.AverageScore)
	assert.Equal(t, 4, to.TotalCritical)
	assert.Equal(t, 2, to.TotalAudits)

	ao, err := s.AuditOverview(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 2, ao.TotalAudits)
	assert.Equal(t, 70.0, ao.AverageScore)
	assert.Equal(t, 1600.0, ao.AverageDurationMs)
	assert.Equal(t, 4, ao.TotalCritical)
	require.NotNil(t, ao.LastAuditAt)
	assert.Equal(t, 1, ao.ByType[model.AuditManual])
	assert.Equal(t, 1, ao.ByType[model.AuditScheduled])
}

func testActiveTargets(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := mustTarget(t, s, "owner-1", "https://a.example/")
	mustTarget(t, s, "owner-2", "https://b.example/")
	require.NoError(t, s.SetTargetActive(ctx, "owner-1", a.ID, false))

	active, err := s.ListActiveTargets(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "owner-2", active[0].OwnerID)

	require.ErrorIs(t, s.SetTargetActive(ctx, "owner-1", "missing", true), store.ErrNotFound)
}

func testConcurrentRecords(t *testing.T, s store.Store) {
	ctx := context.Background()
	tg := mustTarget(t, s, "owner-1", "https://example.com/")

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.RecordAudit(ctx, newAudit("owner-1", tg.ID, float64(i), 0.5))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			require.NoError(t, err)
		}
	}

	got, err := s.GetTarget(ctx, "owner-1", tg.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got.AuditsCount)
}
