package render

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/seolens/internal/model"
)

func score(v float64) *float64 { return &v }

func sampleInput() Input {
	return Input{
		URL:         "https://example.com/",
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Categories: []CategoryScore{
			{Title: "Performance", Description: "Speed.", Score: score(0.87)},
			{Title: "SEO", Description: "Crawlability.", Score: nil},
		},
		Audits: []Entry{
			{ID: "viewport", Title: "Viewport", Score: score(0.4), Description: "Needs a viewport."},
			{ID: "interactive", Title: "Interactive", Score: score(0.6), DisplayValue: "3.0 s", Description: "TTI."},
			{ID: "redirects-http", Title: "Redirects", Score: nil, Description: "No data."},
			{ID: "is-on-https", Title: "HTTPS", Score: score(0), Description: "Plain HTTP."},
			{ID: "bootup-time", Title: "Bootup", Score: score(1), Description: "Fast."},
		},
	}
}

// ─── Classification ────────────────────────────────────────────────────

func TestClassify(t *testing.T) {
	t.Parallel()

	critical, good := Classify(sampleInput().Audits)

	ids := func(es []Entry) []string {
		var out []string
		for _, e := range es {
			out = append(out, e.ID)
		}
		return out
	}
	assert.Equal(t, []string{"viewport", "redirects-http", "is-on-https"}, ids(critical))
	assert.Equal(t, []string{"interactive", "bootup-time"}, ids(good))
}

func TestFromReport_FixedOrder(t *testing.T) {
	t.Parallel()

	dv := "1.1 s"
	r := &model.AuditReport{Categories: model.Categories{SEO: 0.9}}
	r.Audits.FirstContentfulPaint = model.AuditDetail{Score: 0.95, Description: "FCP.", DisplayValue: &dv}

	in := FromReport("https://example.com", time.Unix(0, 0), r)
	require.Len(t, in.Audits, len(model.AuditDefs))
	require.Len(t, in.Categories, len(model.CategoryDefs))
	for i, def := range model.AuditDefs {
		assert.Equal(t, def.Key, in.Audits[i].ID)
	}
	assert.Equal(t, "1.1 s", in.Audits[3].DisplayValue)
	assert.Equal(t, 0.9, *in.Categories[3].Score)

	critical, good := Classify(in.Audits)
	assert.Len(t, critical, 8)
	assert.Len(t, good, 1)
}

func TestPercent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "87%", percent(score(0.87)))
	assert.Equal(t, "0%", percent(score(0)))
	assert.Equal(t, "N/A", percent(nil))
}

// ─── Rendering ─────────────────────────────────────────────────────────

func TestRender_ProducesCompleteDocument(t *testing.T) {
	t.Parallel()

	r := New(Config{Compress: false}, nil)
	out, err := r.Render(context.Background(), sampleInput())
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(bytes.TrimSpace(out[len(out)-8:])), "%%EOF")

	cats := bytes.Index(out, []byte("(Categories)"))
	crit := bytes.Index(out, []byte("(Critical Issues)"))
	good := bytes.Index(out, []byte("(No Issues)"))
	require.Positive(t, cats)
	require.Positive(t, crit)
	require.Positive(t, good)
	assert.Less(t, cats, crit)
	assert.Less(t, crit, good)

	assert.Contains(t, string(out), "(SEO: N/A)")
	assert.Contains(t, string(out), "(Performance: 87%)")
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	r := New(DefaultConfig(), nil)
	a, err := r.Render(context.Background(), sampleInput())
	require.NoError(t, err)
	b, err := r.Render(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRender_ConstructionErrorDiscardsDocument(t *testing.T) {
	t.Parallel()

	r := New(Config{PageSize: "not-a-size"}, nil)
	out, err := r.Render(context.Background(), sampleInput())
	require.ErrorIs(t, err, ErrRender)
	assert.Nil(t, out)

	var sink bytes.Buffer
	n, err := r.RenderTo(context.Background(), &sink, sampleInput())
	require.ErrorIs(t, err, ErrRender)
	assert.Zero(t, n)
	assert.Zero(t, sink.Len(), "nothing may reach the sink on failure")
}

func TestRender_PanicBecomesRenderError(t *testing.T) {
	t.Parallel()

	r := New(DefaultConfig(), nil)
	r.hook = func(*fpdf.Fpdf) { panic("font table corrupted") }

	out, err := r.Render(context.Background(), sampleInput())
	require.ErrorIs(t, err, ErrRender)
	assert.Contains(t, err.Error(), "font table corrupted")
	assert.Nil(t, out)
}

func TestRender_HookError(t *testing.T) {
	t.Parallel()

	r := New(DefaultConfig(), nil)
	r.hook = func(p *fpdf.Fpdf) { p.SetError(errors.New("image decode failed")) }

	_, err := r.Render(context.Background(), sampleInput())
	require.ErrorIs(t, err, ErrRender)
	assert.Contains(t, err.Error(), "image decode failed")
}

func TestRender_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(DefaultConfig(), nil).Render(ctx, sampleInput())
	require.ErrorIs(t, err, ErrRender)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRenderTo_WritesDocument(t *testing.T) {
	t.Parallel()

	var sink bytes.Buffer
	n, err := New(DefaultConfig(), nil).RenderTo(context.Background(), &sink, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, int64(sink.Len()), n)
	assert.True(t, bytes.HasPrefix(sink.Bytes(), []byte("%PDF-")))
}
