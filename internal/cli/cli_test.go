package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/seolens/internal/app"
	"github.com/raysh454/seolens/internal/testutil"
)

func TestParseArgs_DefaultsToServe(t *testing.T) {
	t.Parallel()

	a, err := ParseArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, CmdServe, a.Command)

	a, err = ParseArgs([]string{"-config", "seolens.toml"})
	require.NoError(t, err)
	assert.Equal(t, CmdServe, a.Command)
	assert.Equal(t, "seolens.toml", a.ConfigPath)
}

func TestParseArgs_Audit(t *testing.T) {
	t.Parallel()

	a, err := ParseArgs([]string{"audit", "-owner", "o1", "-project", "p1", "-pdf", "out.pdf", "-log-level", "debug"})
	require.NoError(t, err)
	assert.Equal(t, CmdAudit, a.Command)
	assert.Equal(t, "o1", a.Owner)
	assert.Equal(t, "p1", a.Project)
	assert.Equal(t, "out.pdf", a.PDF)
	assert.Equal(t, "debug", a.LogLevel)
}

func TestParseArgs_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		"unknown command":     {"crawl"},
		"audit no project":    {"audit", "-owner", "o1"},
		"audit no owner":      {"audit", "-project", "p1"},
		"unknown flag":        {"serve", "-port", "80"},
		"audit flag on serve": {"serve", "-owner", "o1"},
		"stray argument":      {"migrate", "extra"},
	}
	for name, args := range cases {
		_, err := ParseArgs(args)
		assert.ErrorIs(t, err, ErrUsage, name)
	}
}

func TestRun_Migrate(t *testing.T) {
	t.Parallel()

	cfg := app.DefaultConfig()
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "db", "seolens.db")

	err := Run(context.Background(), &Args{Command: CmdMigrate}, cfg, &testutil.DummyLogger{}, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = os.Stat(cfg.Storage.SQLitePath)
	assert.NoError(t, err)
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), &Args{Command: "nope"}, app.DefaultConfig(), &testutil.DummyLogger{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUsage)
}
