// Package sqlite is the default store backend, a single SQLite file accessed
// through modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

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

// Store implements store.Store on SQLite.
type Store struct {
	db     *sql.DB
	clock  *store.Clock
	logger logging.Logger
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path, applies pragmas and
// migrations.
func Open(ctx context.Context, path string, logger logging.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure db dir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// a single connection serializes writers and keeps pragmas in effect
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	s, err := New(ctx, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and runs migrations.
func New(ctx context.Context, db *sql.DB, logger logging.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if err := store.Migrate(ctx, db, goose.DialectSQLite3, Migrations(), logger); err != nil {
		return nil, err
	}
	return &Store{db: db, clock: store.NewClock(nil), logger: logger}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

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
	keywords, err := json.Marshal(t.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO targets (`+targetColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.URL, t.Title, t.Description, string(keywords), t.Score, t.CriticalCount,
		t.MinorCount, t.AuditsCount, t.Active, t.CreatedAt.UnixMicro(), t.UpdatedAt.UnixMicro(),
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
	row := s.db.QueryRowContext(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE owner_id = ? AND id = ? LIMIT 1`,
		ownerID, id)
	return scanTarget(row)
}

func (s *Store) FindTargetByURL(ctx context.Context, ownerID, url string) (*model.Target, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE owner_id = ? AND url = ? LIMIT 1`,
		ownerID, url)
	return scanTarget(row)
}

func (s *Store) ListTargets(ctx context.Context, ownerID string, activeOnly bool, w pagination.Window) ([]model.Target, error) {
	q := `SELECT ` + targetColumns + ` FROM targets WHERE owner_id = ?`
	if activeOnly {
		q += ` AND active = 1`
	}
	q += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	return s.queryTargets(ctx, q, ownerID, w.Limit(), w.Skip())
}

func (s *Store) ListActiveTargets(ctx context.Context) ([]model.Target, error) {
	return s.queryTargets(ctx,
		`SELECT `+targetColumns+` FROM targets WHERE active = 1 ORDER BY created_at ASC, id ASC`)
}

func (s *Store) queryTargets(ctx context.Context, q string, args ...any) ([]model.Target, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
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
	res, err := s.db.ExecContext(ctx,
		`UPDATE targets SET active = ?, updated_at = ? WHERE owner_id = ? AND id = ?`,
		active, s.clock.Now().UnixMicro(), ownerID, id)
	if err != nil {
		return fmt.Errorf("update target: %w", err)
	}
	return expectOne(res)
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

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE targets
         SET score = ?, critical_count = ?, audits_count = audits_count + 1, updated_at = ?
         WHERE id = ? AND owner_id = ?`,
		a.Score, a.CriticalCount, a.CreatedAt.UnixMicro(), a.TargetID, a.OwnerID)
	if err != nil {
		return fmt.Errorf("update target summary: %w", err)
	}
	if err = expectOne(res); err != nil {
		return fmt.Errorf("target %s: %w", a.TargetID, err)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO audits (`+auditColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.OwnerID, a.TargetID, string(categories), string(audits), a.Score, a.CriticalCount,
		a.DurationMs, string(a.Status), string(a.Type), a.CreatedAt.UnixMicro(), a.UpdatedAt.UnixMicro(),
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("audit %s: %w", a.ID, store.ErrConflict)
		}
		return fmt.Errorf("insert audit: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) GetAudit(ctx context.Context, ownerID, id string) (*model.AuditReport, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+auditColumns+` FROM audits WHERE owner_id = ? AND id = ? LIMIT 1`,
		ownerID, id)
	return scanAudit(row)
}

func (s *Store) ListAudits(ctx context.Context, ownerID string, w pagination.Window) ([]model.AuditReport, error) {
	return s.queryAudits(ctx,
		`SELECT `+auditColumns+` FROM audits WHERE owner_id = ?
         ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		ownerID, w.Limit(), w.Skip())
}

func (s *Store) ListTargetAudits(ctx context.Context, ownerID, targetID string, w pagination.Window) ([]model.AuditReport, error) {
	if _, err := s.GetTarget(ctx, ownerID, targetID); err != nil {
		return nil, err
	}
	return s.queryAudits(ctx,
		`SELECT `+auditColumns+` FROM audits WHERE owner_id = ? AND target_id = ?
         ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		ownerID, targetID, w.Limit(), w.Skip())
}

func (s *Store) LatestAudits(ctx context.Context, ownerID, targetID string, n int) ([]model.AuditReport, error) {
	if n <= 0 {
		return []model.AuditReport{}, nil
	}
	return s.queryAudits(ctx,
		`SELECT `+auditColumns+` FROM audits WHERE owner_id = ? AND target_id = ?
         ORDER BY created_at DESC, id DESC LIMIT ?`,
		ownerID, targetID, n)
}

func (s *Store) queryAudits(ctx context.Context, q string, args ...any) ([]model.AuditReport, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
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
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
                COALESCE(SUM(active), 0),
                COALESCE(AVG(score), 0),
                COALESCE(SUM(critical_count), 0),
                COALESCE(SUM(audits_count), 0)
         FROM targets WHERE owner_id = ?`, ownerID,
	).Scan(&o.TotalTargets, &o.ActiveTargets, &o.AverageScore, &o.TotalCritical, &o.TotalAudits)
	if err != nil {
		return nil, fmt.Errorf("target overview: %w", err)
	}
	o.AverageScore = round2(o.AverageScore)
	return &o, nil
}

func (s *Store) AuditOverview(ctx context.Context, ownerID string) (*model.AuditOverview, error) {
	o := model.AuditOverview{ByType: map[model.AuditType]int{}}
	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
                COALESCE(AVG(score), 0),
                COALESCE(AVG(duration_ms), 0),
                COALESCE(SUM(critical_count), 0),
                MAX(created_at)
         FROM audits WHERE owner_id = ?`, ownerID,
	).Scan(&o.TotalAudits, &o.AverageScore, &o.AverageDurationMs, &o.TotalCritical, &last)
	if err != nil {
		return nil, fmt.Errorf("audit overview: %w", err)
	}
	o.AverageScore = round2(o.AverageScore)
	o.AverageDurationMs = round2(o.AverageDurationMs)
	if last.Valid {
		ts := time.UnixMicro(last.Int64).UTC()
		o.LastAuditAt = &ts
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT type, COUNT(*) FROM audits WHERE owner_id = ? GROUP BY type`, ownerID)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanTarget(row scanner) (*model.Target, error) {
	var t model.Target
	var keywords string
	var created, updated int64
	if err := row.Scan(&t.ID, &t.OwnerID, &t.URL, &t.Title, &t.Description, &keywords, &t.Score,
		&t.CriticalCount, &t.MinorCount, &t.AuditsCount, &t.Active, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(keywords), &t.Keywords); err != nil {
		return nil, fmt.Errorf("decode keywords of target %s: %w", t.ID, err)
	}
	t.CreatedAt = time.UnixMicro(created).UTC()
	t.UpdatedAt = time.UnixMicro(updated).UTC()
	return &t, nil
}

func scanAudit(row scanner) (*model.AuditReport, error) {
	var a model.AuditReport
	var categories, audits, status, typ string
	var created, updated int64
	if err := row.Scan(&a.ID, &a.OwnerID, &a.TargetID, &categories, &audits, &a.Score,
		&a.CriticalCount, &a.DurationMs, &status, &typ, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(categories), &a.Categories); err != nil {
		return nil, fmt.Errorf("decode categories of audit %s: %w", a.ID, err)
	}
	if err := json.Unmarshal([]byte(audits), &a.Audits); err != nil {
		return nil, fmt.Errorf("decode audits of audit %s: %w", a.ID, err)
	}
	a.Status = model.AuditStatus(status)
	a.Type = model.AuditType(typ)
	a.CreatedAt = time.UnixMicro(created).UTC()
	a.UpdatedAt = time.UnixMicro(updated).UTC()
	return &a, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		return serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			serr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
