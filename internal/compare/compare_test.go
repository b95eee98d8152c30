package compare_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/seolens/internal/compare"
	"github.com/raysh454/seolens/internal/model"
)

func report(id string, c model.Categories) model.AuditReport {
	return model.AuditReport{ID: id, Categories: c}
}

func TestCategories_Empty(t *testing.T) {
	t.Parallel()

	out := compare.Categories(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)

	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestCategories_SingleReport(t *testing.T) {
	t.Parallel()

	out := compare.Categories([]model.AuditReport{
		report("a", model.Categories{Performance: 0.456, Accessibility: 1, BestPractices: 0.5, SEO: 0.9}),
	})
	require.Len(t, out, 4)

	for _, r := range out {
		assert.Equal(t, "+0%", r.Change)
		assert.Nil(t, r.Previous)
		assert.Nil(t, r.Direction)
	}
	assert.Equal(t, "46/100", out[0].Current)

	b, err := json.Marshal(out[0])
	require.NoError(t, err)
	assert.NotContains(t, string(b), "previous")
	assert.NotContains(t, string(b), "direction")
}

func TestCategories_TwoReports(t *testing.T) {
	t.Parallel()

	latest := report("new", model.Categories{Performance: 0.5, Accessibility: 0.8, BestPractices: 0.8, SEO: 0.9})
	previous := report("old", model.Categories{Performance: 0.62, Accessibility: 0.8, SEO: 0.7})

	out := compare.Categories([]model.AuditReport{latest, previous})
	require.Len(t, out, 4)

	order := []model.Category{model.CategoryPerformance, model.CategoryAccessibility, model.CategoryBestPractices, model.CategorySEO}
	for i, r := range out {
		assert.Equal(t, order[i], r.Category)
	}

	seo := out[3]
	assert.Equal(t, model.CategorySEO, seo.Category)
	assert.Equal(t, "90/100", seo.Current)
	require.NotNil(t, seo.Previous)
	assert.Equal(t, "70/100", *seo.Previous)
	assert.Equal(t, "+20.0%", seo.Change)
	require.NotNil(t, seo.Direction)
	assert.Equal(t, "Higher than last audit", *seo.Direction)

	perf := out[0]
	assert.Equal(t, "-12.0%", perf.Change)
	assert.Equal(t, "Lower than last audit", *perf.Direction)

	same := out[1]
	assert.Equal(t, "+0.0%", same.Change)
	assert.Equal(t, "Higher than last audit", *same.Direction)

	absentPrev := out[2]
	assert.Equal(t, "0/100", *absentPrev.Previous)
	assert.Equal(t, "+80.0%", absentPrev.Change)
}

func TestCategories_IgnoresOlderReports(t *testing.T) {
	t.Parallel()

	out := compare.Categories([]model.AuditReport{
		report("3", model.Categories{SEO: 0.5}),
		report("2", model.Categories{SEO: 0.4}),
		report("1", model.Categories{SEO: 0.1}),
	})
	assert.Equal(t, "+10.0%", out[3].Change)
}

func TestAudits_DeltasAndDisplayDiff(t *testing.T) {
	t.Parallel()

	prevFCP, curFCP := "3.1 s", "2.4 s"
	previous := &model.AuditReport{ID: "old", Score: 60}
	previous.Audits.Viewport.Score = 1
	previous.Audits.FirstContentfulPaint = model.AuditDetail{Score: 0.4, DisplayValue: &prevFCP}

	latest := &model.AuditReport{ID: "new", Score: 70.5}
	latest.Audits.Viewport.Score = 0
	latest.Audits.FirstContentfulPaint = model.AuditDetail{Score: 0.7, DisplayValue: &curFCP}

	d := compare.Audits(latest, previous)
	assert.Equal(t, "new", d.LatestID)
	assert.Equal(t, "old", d.PreviousID)
	assert.Equal(t, 10.5, d.Delta)
	require.Len(t, d.Changes, len(model.AuditDefs))

	for i, def := range model.AuditDefs {
		assert.Equal(t, def.Key, d.Changes[i].AuditID)
	}

	viewport := d.Changes[2]
	assert.Equal(t, -1.0, viewport.Delta)
	assert.Empty(t, viewport.DisplayValueDiff)

	fcp := d.Changes[3]
	assert.Equal(t, 0.3, fcp.Delta)
	assert.Equal(t, "2.4 s", fcp.DisplayValue)
	assert.Contains(t, fcp.DisplayValueDiff, "[-")
	assert.Contains(t, fcp.DisplayValueDiff, "{+")

	regs := d.Regressions()
	require.Len(t, regs, 1)
	assert.Equal(t, "viewport", regs[0].AuditID)
}

func TestAudits_NoPrevious(t *testing.T) {
	t.Parallel()

	latest := &model.AuditReport{ID: "only", Score: 50}
	d := compare.Audits(latest, nil)
	assert.Equal(t, 50.0, d.Delta)
	assert.Empty(t, d.PreviousID)
	assert.Len(t, d.Changes, 9)
}

func TestDiffText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", compare.DiffText("abc", "abc"))
	assert.Equal(t, "{+1.2 s+}", compare.DiffText("", "1.2 s"))
	assert.Equal(t, "[-1.2 s-]", compare.DiffText("1.2 s", ""))
}
