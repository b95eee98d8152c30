package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raysh454/seolens/internal/store"
	"github.com/raysh454/seolens/internal/store/sqlite"
	"github.com/raysh454/seolens/internal/store/storetest"
	"github.com/raysh454/seolens/internal/testutil"
)

func openTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "seolens.db"), &testutil.DummyLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()
	storetest.Run(t, openTestStore)
}

func TestOpen_ReappliesMigrationsIdempotently(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "seolens.db")
	ctx := context.Background()

	s, err := sqlite.Open(ctx, path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())

	s, err = sqlite.Open(ctx, path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestOpen_RequiresPath(t *testing.T) {
	t.Parallel()

	_, err := sqlite.Open(context.Background(), "", nil)
	require.Error(t, err)
}
