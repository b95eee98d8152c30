// Package app wires the audit pipeline to persistence and exposes the
// operations the HTTP server, the scheduler and the CLI call.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/raysh454/seolens/internal/artifact"
	"github.com/raysh454/seolens/internal/auditor"
	"github.com/raysh454/seolens/internal/compare"
	"github.com/raysh454/seolens/internal/logging"
	"github.com/raysh454/seolens/internal/model"
	"github.com/raysh454/seolens/internal/observability"
	"github.com/raysh454/seolens/internal/pagination"
	"github.com/raysh454/seolens/internal/render"
	"github.com/raysh454/seolens/internal/store"
	"github.com/raysh454/seolens/internal/utils"
)

// Auditor runs one isolated audit. *auditor.Auditor implements it.
type Auditor interface {
	Run(ctx context.Context, target string, observers ...auditor.Observer) (*auditor.Result, error)
}

// Scope selects a target listing.
type Scope string

const (
	// ScopeDashboard lists active targets, DashboardPerPage at a time.
	ScopeDashboard Scope = "dash"
	// ScopeAll lists every target, DefaultPerPage at a time.
	ScopeAll Scope = "all"
)

// Deps are the collaborators an Orchestrator is built from.
type Deps struct {
	Store    store.Store
	Auditor  Auditor
	Renderer *render.Renderer
	// Uploader is optional; PublishReport fails without it.
	Uploader artifact.Uploader
}

// Orchestrator is safe for concurrent use. Audits of the same target may run
// concurrently; the target summary keeps whichever finished last.
type Orchestrator struct {
	cfg       *Config
	store     store.Store
	auditor   Auditor
	renderer  *render.Renderer
	uploader  artifact.Uploader
	blocklist *utils.Blocklist
	limiter   *rate.Limiter
	logger    logging.Logger
	now       func() time.Time

	jobsMu     sync.Mutex
	jobs       map[string]*Job
	jobCancels map[string]context.CancelFunc
	jobsWG     sync.WaitGroup
}

// NewOrchestrator ties together config, collaborators and logger.
func NewOrchestrator(cfg *Config, deps Deps, logger logging.Logger) (*Orchestrator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if deps.Store == nil || deps.Auditor == nil {
		return nil, errors.New("orchestrator needs a store and an auditor")
	}
	if deps.Renderer == nil {
		deps.Renderer = render.New(cfg.Render, logger)
	}
	bl, err := utils.NewBlocklist(cfg.Audit.Blocklist)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.Audit.LaunchRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Audit.LaunchRate), cfg.Audit.LaunchBurst)
	}

	return &Orchestrator{
		cfg:        cfg,
		store:      deps.Store,
		auditor:    deps.Auditor,
		renderer:   deps.Renderer,
		uploader:   deps.Uploader,
		blocklist:  bl,
		limiter:    limiter,
		logger:     logger,
		now:        time.Now,
		jobs:       make(map[string]*Job),
		jobCancels: make(map[string]context.CancelFunc),
	}, nil
}

// Store exposes the underlying store to the scheduler and health checks.
func (o *Orchestrator) Store() store.Store { return o.store }

// ─── Targets ───────────────────────────────────────────────────────────

// CreateTargetInput describes a new target.
type CreateTargetInput struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// CreateTarget canonicalizes the URL and stores a new active target. An owner
// can hold one target per canonical URL; a second attempt fails with a
// *TargetExistsError carrying the stored target.
func (o *Orchestrator) CreateTarget(ctx context.Context, ownerID string, in CreateTargetInput) (*model.Target, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	canonical, err := utils.CanonicalTarget(in.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := o.blocklist.Check(canonical); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = utils.Host(canonical)
	}
	keywords := make([]string, 0, len(in.Keywords))
	for _, k := range in.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}

	t := &model.Target{
		OwnerID:     ownerID,
		URL:         canonical,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Keywords:    keywords,
		Active:      true,
	}
	if err := o.store.CreateTarget(ctx, t); err != nil {
		if !errors.Is(err, store.ErrConflict) {
			return nil, err
		}
		existing, ferr := o.store.FindTargetByURL(ctx, ownerID, canonical)
		if ferr != nil {
			return nil, err
		}
		return nil, &TargetExistsError{Existing: existing}
	}
	o.logger.Info("created target",
		logging.F("owner_id", ownerID),
		logging.F("target_id", t.ID),
		logging.F("url", t.URL))
	return t, nil
}

func (o *Orchestrator) GetTarget(ctx context.Context, ownerID, targetID string) (*model.Target, error) {
	return o.store.GetTarget(ctx, ownerID, targetID)
}

// SetTargetActive includes or excludes a target from scheduled sweeps and the
// dashboard.
func (o *Orchestrator) SetTargetActive(ctx context.Context, ownerID, targetID string, active bool) error {
	return o.store.SetTargetActive(ctx, ownerID, targetID, active)
}

// ListTargets returns one page of the owner's targets.
func (o *Orchestrator) ListTargets(ctx context.Context, ownerID string, scope Scope, page int) (*model.Page[model.Target], error) {
	var (
		w          pagination.Window
		activeOnly bool
	)
	switch scope {
	case ScopeDashboard:
		w, activeOnly = pagination.New(pagination.DashboardPerPage, page), true
	case ScopeAll, "":
		w = pagination.New(pagination.DefaultPerPage, page)
	default:
		return nil, fmt.Errorf("%w: unknown scope %q", ErrInvalidInput, scope)
	}
	items, err := o.store.ListTargets(ctx, ownerID, activeOnly, w)
	if err != nil {
		return nil, err
	}
	return model.NewPage(w, items), nil
}

func (o *Orchestrator) TargetOverview(ctx context.Context, ownerID string) (*model.TargetOverview, error) {
	return o.store.TargetOverview(ctx, ownerID)
}

// ─── Audits ────────────────────────────────────────────────────────────

// RunAudit audits the target now, stores the report and mirrors its score and
// critical count onto the target. observers see every auditor transition.
func (o *Orchestrator) RunAudit(ctx context.Context, ownerID, targetID string, typ model.AuditType, observers ...auditor.Observer) (*model.AuditReport, error) {
	if typ == "" {
		typ = model.AuditManual
	}
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown audit type %q", ErrInvalidInput, typ)
	}
	t, err := o.store.GetTarget(ctx, ownerID, targetID)
	if err != nil {
		return nil, err
	}

	res, err := o.audit(ctx, t, typ, observers...)
	if err != nil {
		return nil, err
	}

	report := &model.AuditReport{
		OwnerID:       ownerID,
		TargetID:      t.ID,
		Categories:    res.Categories,
		Audits:        res.Audits,
		Score:         res.Score,
		CriticalCount: res.CriticalCount,
		DurationMs:    res.DurationMs,
		Status:        model.AuditCompleted,
		Type:          typ,
	}
	if err := o.store.RecordAudit(ctx, report); err != nil {
		return nil, fmt.Errorf("record audit: %w", err)
	}
	o.logger.Info("recorded audit",
		logging.F("target_id", t.ID),
		logging.F("audit_id", report.ID),
		logging.F("type", string(typ)),
		logging.F("score", report.Score))
	return report, nil
}

// audit waits for a launch slot, then runs the auditor inside a span.
func (o *Orchestrator) audit(ctx context.Context, t *model.Target, typ model.AuditType, observers ...auditor.Observer) (*auditor.Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "orchestrator.audit", trace.WithAttributes(
		attribute.String("target.id", t.ID),
		attribute.String("target.url", t.URL),
		attribute.String("audit.type", string(typ)),
	))
	defer span.End()

	if err := o.limiter.Wait(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("wait for audit slot: %w", err)
	}

	start := o.now()
	res, err := o.auditor.Run(ctx, t.URL, observers...)
	observability.AuditDuration.WithLabelValues(string(typ)).Observe(o.now().Sub(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "audit failed")
		return nil, err
	}
	span.SetAttributes(
		attribute.Float64("audit.score", res.Score),
		attribute.Int("audit.critical", res.CriticalCount),
	)
	return res, nil
}

// ListReports returns one page of the owner's audits across all targets.
func (o *Orchestrator) ListReports(ctx context.Context, ownerID string, page int) (*model.Page[model.AuditReport], error) {
	w := pagination.New(pagination.DefaultPerPage, page)
	items, err := o.store.ListAudits(ctx, ownerID, w)
	if err != nil {
		return nil, err
	}
	return model.NewPage(w, items), nil
}

// ListTargetReports returns one page of a single target's audits.
func (o *Orchestrator) ListTargetReports(ctx context.Context, ownerID, targetID string, page int) (*model.Page[model.AuditReport], error) {
	if _, err := o.store.GetTarget(ctx, ownerID, targetID); err != nil {
		return nil, err
	}
	w := pagination.New(pagination.DefaultPerPage, page)
	items, err := o.store.ListTargetAudits(ctx, ownerID, targetID, w)
	if err != nil {
		return nil, err
	}
	return model.NewPage(w, items), nil
}

func (o *Orchestrator) AuditOverview(ctx context.Context, ownerID string) (*model.AuditOverview, error) {
	return o.store.AuditOverview(ctx, ownerID)
}

// ─── Comparison ────────────────────────────────────────────────────────

// CompareLastTwo compares the categories of the target's two newest audits.
func (o *Orchestrator) CompareLastTwo(ctx context.Context, ownerID, targetID string) ([]model.ComparisonResult, error) {
	reports, err := o.latest(ctx, ownerID, targetID, 2)
	if err != nil {
		return nil, err
	}
	return compare.Categories(reports), nil
}

// CompareAudits diffs every check of the target's two newest audits.
func (o *Orchestrator) CompareAudits(ctx context.Context, ownerID, targetID string) (*compare.AuditDelta, error) {
	reports, err := o.latest(ctx, ownerID, targetID, 2)
	if err != nil {
		return nil, err
	}
	switch len(reports) {
	case 0:
		return compare.Audits(nil, nil), nil
	case 1:
		return compare.Audits(&reports[0], nil), nil
	default:
		return compare.Audits(&reports[0], &reports[1]), nil
	}
}

func (o *Orchestrator) latest(ctx context.Context, ownerID, targetID string, n int) ([]model.AuditReport, error) {
	if _, err := o.store.GetTarget(ctx, ownerID, targetID); err != nil {
		return nil, err
	}
	return o.store.LatestAudits(ctx, ownerID, targetID, n)
}

// ─── Reports ───────────────────────────────────────────────────────────

// Document is a rendered report.
type Document struct {
	Filename string
	Data     []byte
}

// RenderReport runs a fresh audit of the target and renders it without
// storing the audit.
func (o *Orchestrator) RenderReport(ctx context.Context, ownerID, targetID string) (*Document, error) {
	t, err := o.store.GetTarget(ctx, ownerID, targetID)
	if err != nil {
		return nil, err
	}
	res, err := o.audit(ctx, t, model.AuditManual)
	if err != nil {
		return nil, err
	}
	report := &model.AuditReport{Categories: res.Categories, Audits: res.Audits}
	return o.render(ctx, t, report, "report")
}

// RenderLatestReport renders the target's newest stored audit.
func (o *Orchestrator) RenderLatestReport(ctx context.Context, ownerID, targetID string) (*Document, *model.AuditReport, error) {
	reports, err := o.latest(ctx, ownerID, targetID, 1)
	if err != nil {
		return nil, nil, err
	}
	if len(reports) == 0 {
		return nil, nil, fmt.Errorf("target %s: %w", targetID, ErrNoAudits)
	}
	t, err := o.store.GetTarget(ctx, ownerID, targetID)
	if err != nil {
		return nil, nil, err
	}
	doc, err := o.render(ctx, t, &reports[0], "report-"+reports[0].ID)
	if err != nil {
		return nil, nil, err
	}
	return doc, &reports[0], nil
}

// PublishReport renders the newest stored audit and uploads it, returning the
// public URL.
func (o *Orchestrator) PublishReport(ctx context.Context, ownerID, targetID string) (string, error) {
	if o.uploader == nil {
		return "", errors.New("artifact storage is not configured")
	}
	doc, _, err := o.RenderLatestReport(ctx, ownerID, targetID)
	if err != nil {
		return "", err
	}
	url, err := o.uploader.Put(ctx, artifact.FolderFor(ownerID), doc.Filename, doc.Data)
	if err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}
	o.logger.Info("published report",
		logging.F("owner_id", ownerID),
		logging.F("target_id", targetID),
		logging.F("url", url))
	return url, nil
}

func (o *Orchestrator) render(ctx context.Context, t *model.Target, r *model.AuditReport, name string) (*Document, error) {
	ctx, span := observability.Tracer.Start(ctx, "orchestrator.render",
		trace.WithAttributes(attribute.String("target.id", t.ID)))
	defer span.End()

	start := o.now()
	data, err := o.renderer.Render(ctx, render.FromReport(t.URL, o.now().UTC(), r))
	observability.RenderDuration.Observe(o.now().Sub(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		return nil, err
	}
	return &Document{Filename: name + ".pdf", Data: data}, nil
}
