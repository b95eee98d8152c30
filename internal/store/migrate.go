package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/raysh454/seolens/internal/logging"
)

// Migrate applies every pending migration in fsys. fsys must hold the
// numbered goose SQL files at its root.
func Migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect, fsys fs.FS, logger logging.Logger) error {
	p, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if logger != nil {
		for _, r := range results {
			logger.Info("applied migration",
				logging.F("version", r.Source.Version),
				logging.F("duration", r.Duration.String()))
		}
	}
	return nil
}
