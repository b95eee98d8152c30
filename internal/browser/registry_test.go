package browser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/seolens/internal/browser"
	"github.com/raysh454/seolens/internal/logging"
)

type fakeProvider struct{ name string }

func (f *fakeProvider) Launch(context.Context, browser.Flags) (browser.Resource, error) {
	return nil, errors.New(f.name)
}

func TestRegistry_DefaultStrategies(t *testing.T) {
	t.Parallel()

	r := browser.DefaultRegistry()
	assert.Equal(t, []string{"container", "local"}, r.Names())

	p, err := r.New(browser.Config{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &browser.ChromeProvider{}, p)

	p, err = r.New(browser.Config{Strategy: "  Container "}, nil)
	require.NoError(t, err)
	assert.IsType(t, &browser.ChromeProvider{}, p)
}

func TestRegistry_UnknownStrategy(t *testing.T) {
	t.Parallel()

	_, err := browser.NewRegistry().New(browser.Config{Strategy: "lambda"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"lambda" not registered`)
}

func TestRegistry_RegisterOverridesAndIsolated(t *testing.T) {
	t.Parallel()

	a := browser.DefaultRegistry()
	b := browser.DefaultRegistry()
	a.Register("LOCAL", func(browser.Config, logging.Logger) (browser.Provider, error) {
		return &fakeProvider{name: "fake"}, nil
	})

	p, err := a.New(browser.Config{Strategy: "local"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &fakeProvider{}, p)

	p, err = b.New(browser.Config{Strategy: "local"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &browser.ChromeProvider{}, p, "registries must not share state")
}

func TestRegistry_ConstructorErrors(t *testing.T) {
	t.Parallel()

	r := browser.NewRegistry()
	r.Register("bad", func(browser.Config, logging.Logger) (browser.Provider, error) {
		return nil, errors.New("no binary")
	})
	r.Register("nil", func(browser.Config, logging.Logger) (browser.Provider, error) {
		return nil, nil
	})

	_, err := r.New(browser.Config{Strategy: "bad"}, nil)
	require.ErrorContains(t, err, "no binary")
	_, err = r.New(browser.Config{Strategy: "nil"}, nil)
	require.Error(t, err)
}
