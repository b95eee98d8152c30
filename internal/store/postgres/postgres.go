// Package postgres is the store backend for shared deployments.
package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/raysh454/seolens/internal/logging"
	"github.com/raysh454/seolens/internal/model"
	"github.com/raysh454/seolens/internal/pagination"
	"github.com/raysh454/seolens/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the embedded migration files.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Config tunes the connection pool.
type Config struct {
	URL               string        `toml:"url"`
	MaxConns          int32         `toml:"max_conns"`
	HealthCheckPeriod time.Duration `toml:"health_check_period"`
}

// DefaultConfig returns pool defaults.
func DefaultConfig() Config {
	return Config{MaxConns: 10, HealthCheckPeriod: 30 * time.Second}
}

// Store implements store.Store on PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	clock  *store.Clock
	logger logging.Logger
}

var _ store.Store = (*Store)(nil)

// Connect opens a pool, verifies it and applies migrations.
func Connect(ctx context.Context, cfg Config, logger logging.Logger) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.HealthCheckPeriod > 0 {
		pcfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	err = store.Migrate(ctx, db, goose.DialectPostgres, Migrations(), logger)
	_ = db.Close()
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &Store{pool: pool, clock: store.NewClock(nil), logger: logger}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// ─── Targets ───────────────────────────────────────────────────────────

const targetColumns = `id, owner_id, url, title, description, keywords, score, critical_count,
	minor_count, audits_count, active, created_at, updated_at`

func (s *Store) CreateTarget(ctx context.Context, t *model.Target) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	s.clock.Stamp(&t.CreatedAt, &t.UpdatedAt)
	if t.Keywords == nil {
		t.Keywords = []string{}
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO targets (`+targetColumns+`)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		t.ID, t.OwnerID, t.URL, t.Title, t.Description, t.Keywords, t.Score, t.CriticalCount,
		t.MinorCount, t.AuditsCount, t.Active, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("target %s: %w", t.URL, store.ErrConflict)
		}
		return fmt.Errorf("insert target: %w", err)
	}
	return nil
}

func (s *Store) GetTarget(ctx context.Context, ownerID, id string) (*model.Target, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE owner_id = $1 AND id = $2`, ownerID, id)
	return scanTarget(row)
}

func (s *Store) FindTargetByURL(ctx context.Context, ownerID, url string) (*model.Target, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE owner_id = $1 AND url = $2`, ownerID, url)
	return scanTarget(row)
}

func (s *Store) ListTargets(ctx context.Context, ownerID string, activeOnly bool, w pagination.Window) ([]model.Target, error) {
	return s.queryTargets(ctx,
		`SELECT `+targetColumns+` FROM targets
         WHERE owner_id = $1 AND (NOT $2 OR active)
         ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		ownerID, activeOnly, w.Limit(), w.Skip())
}

func (s *Store) ListActiveTargets(ctx context.Context) ([]model.Target, error) {
	return s.queryTargets(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE active ORDER BY created_at ASC, id ASC`)
}

func (s *Store) queryTargets(ctx context.Context, q string, args ...any) ([]model.Target, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Target{}
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *Store) SetTargetActive(ctx context.Context, ownerID, id string, active bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE targets SET active = $3, updated_at = $4 WHERE owner_id = $1 AND id = $2`,
		ownerID, id, active, s.clock.Now())
	if err != nil {
		return fmt.Errorf("update target: %w", err)
	}
	return expectOne(tag)
}

// ─── Audits ────────────────────────────────────────────────────────────

const auditColumns = `id, owner_id, target_id, categories, audits, score, critical_count,
	duration_ms, status, type, created_at, updated_at`

func (s *Store) RecordAudit(ctx context.Context, a *model.AuditReport) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = model.AuditCompleted
	}
	if a.Type == "" {
		a.Type = model.AuditManual
	}
	s.clock.Stamp(&a.CreatedAt, &a.UpdatedAt)

	categories, err := json.Marshal(a.Categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	audits, err := json.Marshal(a.Audits)
	if err != nil {
		return fmt.Errorf("encode audits: %w", err)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	tag, err := tx.Exec(ctx,
		`UPDATE targets
         SET score = $3, critical_count = $4, audits_count = audits_count + 1, updated_at = $5
         WHERE id = $1 AND owner_id = $2`,
		a.TargetID, a.OwnerID, a.Score, a.CriticalCount, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("update target summary: %w", err)
	}
	if err = expectOne(tag); err != nil {
		return fmt.Errorf("target %s: %w", a.TargetID, err)
	}

	if _, err = tx.Exec(ctx,
		`INSERT INTO audits (`+auditColumns+`)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.OwnerID, a.TargetID, string(categories), string(audits), a.Score, a.CriticalCount,
		a.DurationMs, string(a.Status), string(a.Type), a.CreatedAt, a.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("audit %s: %w", a.ID, store.ErrConflict)
		}
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

func (s *Store) GetAudit(ctx context.Context, ownerID, id string) (*model.AuditReport, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+auditColumns+` FROM audits WHERE owner_id = $1 AND id = $2`, ownerID, id)
	return scanAudit(row)
}

func (s *Store) ListAudits(ctx context.Context, ownerID string, w pagination.Window) ([]model.AuditReport, error) {
	return s.queryAudits(ctx,
		`SELECT `+auditColumns+` FROM audits WHERE owner_id = $1
         ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		ownerID, w.Limit(), w.Skip())
}

func (s *Store) ListTargetAudits(ctx context.Context, ownerID, targetID string, w pagination.Window) ([]model.AuditReport, error) {
	if _, err := s.GetTarget(ctx, ownerID, targetID); err != nil {
		return nil, err
	}
	return s.queryAudits(ctx,
		`SELECT `+auditColumns+` FROM audits WHERE owner_id = $1 AND target_id = $2
         ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		ownerID, targetID, w.Limit(), w.Skip())
}

func (s *Store) LatestAudits(ctx context.Context, ownerID, targetID string, n int) ([]model.AuditReport, error) {
	if n <= 0 {
		return []model.AuditReport{}, nil
	}
	return s.queryAudits(ctx,
		`SELECT `+auditColumns+` FROM audits WHERE owner_id = $1 AND target_id = $2
         ORDER BY created_at DESC, id DESC LIMIT $3`,
		ownerID, targetID, n)
}

func (s *Store) queryAudits(ctx context.Context, q string, args ...any) ([]model.AuditReport, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.AuditReport{}
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// ─── Aggregates ────────────────────────────────────────────────────────

func (s *Store) TargetOverview(ctx context.Context, ownerID string) (*model.TargetOverview, error) {
	var o model.TargetOverview
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*),
                COALESCE(SUM(CASE WHEN active THEN 1 ELSE 0 END), 0),
                COALESCE(AVG(score), 0)::float8,
                COALESCE(SUM(critical_count), 0),
                COALESCE(SUM(audits_count), 0)
         FROM targets WHERE owner_id = $1`, ownerID,
	).Scan(&o.TotalTargets, &o.ActiveTargets, &o.AverageScore, &o.TotalCritical, &o.TotalAudits)
	if err != nil {
		return nil, fmt.Errorf("target overview: %w", err)
	}
	o.AverageScore = round2(o.AverageScore)
	return &o, nil
}

func (s *Store) AuditOverview(ctx context.Context, ownerID string) (*model.AuditOverview, error) {
	o := model.AuditOverview{ByType: map[model.AuditType]int{}}
	var last *time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*),
                COALESCE(AVG(score), 0)::float8,
                COALESCE(AVG(duration_ms), 0)::float8,
                COALESCE(SUM(critical_count), 0),
                MAX(created_at)
         FROM audits WHERE owner_id = $1`, ownerID,
	).Scan(&o.TotalAudits, &o.AverageScore, &o.AverageDurationMs, &o.TotalCritical, &last)
	if err != nil {
		return nil, fmt.Errorf("audit overview: %w", err)
	}
	o.AverageScore = round2(o.AverageScore)
	o.AverageDurationMs = round2(o.AverageDurationMs)
	if last != nil {
		ts := last.UTC()
		o.LastAuditAt = &ts
	}

	rows, err := s.pool.Query(ctx,
		`SELECT type, COUNT(*) FROM audits WHERE owner_id = $1 GROUP BY type`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("audit overview by type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		o.ByType[model.AuditType(typ)] = n
	}
	return &o, rows.Err()
}

// ─── Helpers ───────────────────────────────────────────────────────────

func scanTarget(row pgx.Row) (*model.Target, error) {
	var t model.Target
	if err := row.Scan(&t.ID, &t.OwnerID, &t.URL, &t.Title, &t.Description, &t.Keywords, &t.Score,
		&t.CriticalCount, &t.MinorCount, &t.AuditsCount, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func scanAudit(row pgx.Row) (*model.AuditReport, error) {
	var a model.AuditReport
	var categories, audits []byte
	var status, typ string
	if err := row.Scan(&a.ID, &a.OwnerID, &a.TargetID, &categories, &audits, &a.Score,
		&a.CriticalCount, &a.DurationMs, &status, &typ, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(categories, &a.Categories); err != nil {
		return nil, fmt.Errorf("decode categories of audit %s: %w", a.ID, err)
	}
	if err := json.Unmarshal(audits, &a.Audits); err != nil {
		return nil, fmt.Errorf("decode audits of audit %s: %w", a.ID, err)
	}
	a.Status = model.AuditStatus(status)
	a.Type = model.AuditType(typ)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}

func expectOne(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Truncate removes every row. Intended for test setup.
func Truncate(ctx context.Context, s *Store) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE audits, targets`)
	return err
}
