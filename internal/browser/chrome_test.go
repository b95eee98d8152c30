package browser_test

import (
	"context"
	"net"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/seolens/internal/browser"
)

func chromeAvailable() bool {
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

// TestChromeProvider_LaunchAndKill needs a local Chrome; it is skipped otherwise.
func TestChromeProvider_LaunchAndKill(t *testing.T) {
	if testing.Short() || !chromeAvailable() {
		t.Skip("chrome not available")
	}

	cfg := browser.DefaultConfig()
	cfg.Strategy = browser.StrategyContainer
	p, err := browser.DefaultRegistry().New(cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := p.Launch(ctx, browser.Flags{"mute-audio"})
	if err != nil {
		t.Skipf("chrome failed to start in this environment: %v", err)
	}

	conn, err := net.DialTimeout("tcp", res.ControlEndpoint(), 5*time.Second)
	require.NoError(t, err, "devtools endpoint should accept connections")
	_ = conn.Close()

	require.NoError(t, res.Kill())
	assert.NoError(t, res.Kill(), "second kill is a no-op")
}

func TestChromeProvider_LaunchMissingBinary(t *testing.T) {
	t.Parallel()

	cfg := browser.DefaultConfig()
	cfg.BinaryPath = "/nonexistent/chrome-binary"
	p, err := browser.DefaultRegistry().New(cfg, nil)
	require.NoError(t, err)

	_, err = p.Launch(context.Background(), nil)
	require.Error(t, err)
}
