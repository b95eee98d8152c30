// Package store defines persistence for targets and audit reports. Concrete
// backends live in the sqlite and postgres subpackages.
package store

import (
	"context"
	"errors"

	"github.com/raysh454/seolens/internal/model"
	"github.com/raysh454/seolens/internal/pagination"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Store persists targets and audit reports. List methods fetch up to
// w.Limit() rows, newest first with ties broken by id, so callers can derive
// pagination info from the raw count.
type Store interface {
	// CreateTarget inserts t, assigning ID and timestamps when unset. A second
	// target with the same owner and URL fails with ErrConflict.
	CreateTarget(ctx context.Context, t *model.Target) error
	GetTarget(ctx context.Context, ownerID, id string) (*model.Target, error)
	FindTargetByURL(ctx context.Context, ownerID, url string) (*model.Target, error)
	ListTargets(ctx context.Context, ownerID string, activeOnly bool, w pagination.Window) ([]model.Target, error)
	// ListActiveTargets returns every active target of every owner.
	ListActiveTargets(ctx context.Context) ([]model.Target, error)
	SetTargetActive(ctx context.Context, ownerID, id string, active bool) error

	// RecordAudit inserts a completed report and updates its target's summary
	// and audit count in one transaction. Concurrent records for one target
	// are last-write-wins on the summary.
	RecordAudit(ctx context.Context, a *model.AuditReport) error
	GetAudit(ctx context.Context, ownerID, id string) (*model.AuditReport, error)
	ListAudits(ctx context.Context, ownerID string, w pagination.Window) ([]model.AuditReport, error)
	ListTargetAudits(ctx context.Context, ownerID, targetID string, w pagination.Window) ([]model.AuditReport, error)
	// LatestAudits returns at most n reports for the target, newest first.
	LatestAudits(ctx context.Context, ownerID, targetID string, n int) ([]model.AuditReport, error)

	TargetOverview(ctx context.Context, ownerID string) (*model.TargetOverview, error)
	AuditOverview(ctx context.Context, ownerID string) (*model.AuditOverview, error)

	Ping(ctx context.Context) error
	Close() error
}
