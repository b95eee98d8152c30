// Package render turns a normalized audit report into a PDF document. The
// document is always built fully in memory; callers never see a partial file.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/raysh454/seolens/internal/logging"
)

var ErrRender = errors.New("render failed")

// RenderError wraps any failure while building a document.
type RenderError struct {
	Cause error
}

func (e *RenderError) Error() string { return fmt.Sprintf("render report: %v", e.Cause) }

func (e *RenderError) Unwrap() error { return e.Cause }

func (e *RenderError) Is(target error) bool { return target == ErrRender }

// Config controls document layout.
type Config struct {
	PageSize string `toml:"page_size"`
	Title    string `toml:"title"`
	Author   string `toml:"author"`
	Compress bool   `toml:"compress"`
}

// DefaultConfig returns A4 with compressed streams.
func DefaultConfig() Config {
	return Config{
		PageSize: "A4",
		Title:    "SEO Audit Report",
		Author:   "seolens",
		Compress: true,
	}
}

// Renderer builds PDF reports. It holds no per-document state and is safe for
// concurrent use.
type Renderer struct {
	cfg    Config
	logger logging.Logger

	// hook runs after layout and before serialization; tests use it to
	// inject failures.
	hook func(*fpdf.Fpdf)
}

// New returns a Renderer.
func New(cfg Config, logger logging.Logger) *Renderer {
	if cfg.PageSize == "" {
		cfg.PageSize = DefaultConfig().PageSize
	}
	if cfg.Title == "" {
		cfg.Title = DefaultConfig().Title
	}
	return &Renderer{cfg: cfg, logger: logger}
}

// Render returns the complete document bytes or a *RenderError.
func (r *Renderer) Render(ctx context.Context, in Input) (out []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, &RenderError{Cause: err}
	}

	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = &RenderError{Cause: fmt.Errorf("panic: %v", rec)}
		}
		if err != nil && r.logger != nil {
			r.logger.Warn("report render failed", logging.F("url", in.URL), logging.Err(err))
		}
	}()

	pdf := r.layout(in)
	if r.hook != nil {
		r.hook(pdf)
	}
	if pdf.Err() {
		return nil, &RenderError{Cause: pdf.Error()}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Cause: err}
	}
	return buf.Bytes(), nil
}

// RenderTo renders in and writes the finished document to w. Nothing is
// written when rendering fails.
func (r *Renderer) RenderTo(ctx context.Context, w io.Writer, in Input) (int64, error) {
	data, err := r.Render(ctx, in)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

const (
	lineHeight = 6.0
	blockGap   = 4.0
)

func (r *Renderer) layout(in Input) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", r.cfg.PageSize, "")
	pdf.SetCompression(r.cfg.Compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(in.GeneratedAt)
	pdf.SetModificationDate(in.GeneratedAt)
	pdf.SetTitle(r.cfg.Title, true)
	pdf.SetAuthor(r.cfg.Author, true)
	pdf.SetSubject(in.URL, true)
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	// title page
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(20, 20, 20)
	pdf.Ln(40)
	pdf.CellFormat(0, 14, tr(r.cfg.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Ln(6)
	pdf.MultiCell(0, lineHeight, tr(in.URL), "", "C", false)
	pdf.Ln(2)
	pdf.CellFormat(0, lineHeight, "Generated "+in.GeneratedAt.UTC().Format(time.RFC1123), "", 1, "C", false, 0, "")

	critical, good := Classify(in.Audits)
	pdf.Ln(10)
	pdf.CellFormat(0, lineHeight, fmt.Sprintf("%d critical issues, %d passed checks", len(critical), len(good)), "", 1, "C", false, 0, "")

	// categories
	pdf.AddPage()
	heading(pdf, "Categories")
	for _, c := range in.Categories {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetTextColor(20, 20, 20)
		pdf.CellFormat(0, 8, tr(c.Title)+": "+percent(c.Score), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(70, 70, 70)
		pdf.MultiCell(0, lineHeight-1, tr(c.Description), "", "L", false)
		pdf.Ln(blockGap)
	}

	section(pdf, tr, "Critical Issues", critical, [3]int{180, 30, 30})
	section(pdf, tr, "No Issues", good, [3]int{30, 130, 60})

	return pdf
}

func heading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 12, title, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func section(pdf *fpdf.Fpdf, tr func(string) string, title string, entries []Entry, color [3]int) {
	pdf.AddPage()
	heading(pdf, title)
	if len(entries) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, lineHeight, "None.", "", 1, "L", false, 0, "")
		return
	}
	for _, e := range entries {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(color[0], color[1], color[2])
		pdf.MultiCell(0, 7, tr(e.Title), "", "L", false)

		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(40, 40, 40)
		pdf.CellFormat(0, lineHeight, "Score: "+percent(e.Score), "", 1, "L", false, 0, "")
		if e.DisplayValue != "" {
			pdf.CellFormat(0, lineHeight, tr("Value: "+e.DisplayValue), "", 1, "L", false, 0, "")
		}
		if e.Description != "" {
			pdf.SetTextColor(70, 70, 70)
			pdf.MultiCell(0, lineHeight-1, tr(e.Description), "", "L", false)
		}
		pdf.Ln(blockGap)
	}
}

func percent(score *float64) string {
	if score == nil || math.IsNaN(*score) || math.IsInf(*score, 0) {
		return "N/A"
	}
	return fmt.Sprintf("%d%%", int(math.Round(*score*100)))
}
