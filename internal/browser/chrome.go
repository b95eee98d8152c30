package browser

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/chromedp/chromedp"

	"github.com/raysh454/seolens/internal/logging"
)

// LocalOptions are the launch options for a developer workstation.
func LocalOptions(cfg Config) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.Headless,
		chromedp.DisableGPU,
	}
	if cfg.BinaryPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.BinaryPath))
	}
	return opts
}

// ContainerOptions add the switches Chrome needs inside an unprivileged
// container with a small /dev/shm.
func ContainerOptions(cfg Config) []chromedp.ExecAllocatorOption {
	return append(LocalOptions(cfg),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)
}

// ChromeProvider launches Chrome through chromedp's exec allocator on an
// explicit DevTools port.
type ChromeProvider struct {
	cfg    Config
	opts   []chromedp.ExecAllocatorOption
	logger logging.Logger
}

// NewChromeProvider returns a provider that launches with base plus any
// configured and per-launch flags.
func NewChromeProvider(cfg Config, base []chromedp.ExecAllocatorOption, logger logging.Logger) *ChromeProvider {
	return &ChromeProvider{cfg: cfg, opts: base, logger: logger}
}

func (p *ChromeProvider) Launch(ctx context.Context, flags Flags) (Resource, error) {
	port, err := freePort()
	if err != nil {
		return nil, fmt.Errorf("reserve debugging port: %w", err)
	}

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, p.opts...)
	opts = append(opts, chromedp.Flag("remote-debugging-port", strconv.Itoa(port)))
	opts = append(opts, flagOptions(p.cfg.ExtraFlags)...)
	opts = append(opts, flagOptions(flags)...)

	// the browser outlives the launch request; Kill owns its lifetime
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	res := &chromeResource{
		endpoint:      net.JoinHostPort("127.0.0.1", strconv.Itoa(port)),
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}

	startCtx := ctx
	if p.cfg.StartupTimeout > 0 {
		var cancel context.CancelFunc
		startCtx, cancel = context.WithTimeout(ctx, p.cfg.StartupTimeout)
		defer cancel()
	}

	started := make(chan error, 1)
	go func() { started <- chromedp.Run(browserCtx) }()

	select {
	case err := <-started:
		if err != nil {
			_ = res.Kill()
			return nil, fmt.Errorf("start browser: %w", err)
		}
	case <-startCtx.Done():
		_ = res.Kill()
		return nil, fmt.Errorf("start browser: %w", startCtx.Err())
	}

	if p.logger != nil {
		p.logger.Debug("browser launched", logging.F("endpoint", res.endpoint))
	}
	return res, nil
}

type chromeResource struct {
	endpoint      string
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc

	once    sync.Once
	killErr error
}

func (r *chromeResource) ControlEndpoint() string { return r.endpoint }

func (r *chromeResource) Kill() error {
	r.once.Do(func() {
		// graceful close first; cancelling the allocator kills the process
		// and removes the temporary profile either way
		if err := chromedp.Cancel(r.browserCtx); err != nil && err != context.Canceled {
			r.killErr = err
		}
		r.cancelBrowser()
		r.cancelAlloc()
	})
	return r.killErr
}

func flagOptions(flags []string) []chromedp.ExecAllocatorOption {
	out := make([]chromedp.ExecAllocatorOption, 0, len(flags))
	for _, f := range flags {
		f = strings.TrimLeft(strings.TrimSpace(f), "-")
		if f == "" {
			continue
		}
		name, value, hasValue := strings.Cut(f, "=")
		if hasValue {
			out = append(out, chromedp.Flag(name, value))
		} else {
			out = append(out, chromedp.Flag(name, true))
		}
	}
	return out
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
