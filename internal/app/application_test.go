package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/seolens/internal/model"
	"github.com/raysh454/seolens/internal/testutil"
)

func TestNewApplication_WiresComponents(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Storage.SQLitePath = filepath.Join(dir, "seolens.db")
	cfg.Artifacts.Root = filepath.Join(dir, "artifacts")
	cfg.Scheduler.Interval = time.Hour

	ctx := context.Background()
	a, err := NewApplication(ctx, cfg, &testutil.DummyLogger{})
	require.NoError(t, err)
	require.NotNil(t, a.Orchestrator)
	require.NotNil(t, a.Artifacts)
	assert.True(t, a.Scheduler.Enabled())
	require.NoError(t, a.Store.Ping(ctx))

	require.NoError(t, a.Start(ctx))

	tg, err := a.Orchestrator.CreateTarget(ctx, owner, CreateTargetInput{URL: "https://example.com"})
	require.NoError(t, err)
	page, err := a.Orchestrator.ListTargets(ctx, owner, ScopeDashboard, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, tg.ID, page.Items[0].ID)

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, a.Shutdown(shutdownCtx))
}

func TestNewApplication_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Storage.Driver = "mysql"
	_, err := NewApplication(context.Background(), cfg, &testutil.DummyLogger{})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestOpenStore_SQLite(t *testing.T) {
	t.Parallel()

	st, err := OpenStore(context.Background(), StorageConfig{
		Driver:     DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "nested", "seolens.db"),
	}, &testutil.DummyLogger{})
	require.NoError(t, err)
	defer st.Close()

	ov, err := st.AuditOverview(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 0, ov.TotalAudits)
	assert.Empty(t, ov.ByType[model.AuditManual])
}
