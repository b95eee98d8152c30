package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	cdplog "github.com/chromedp/cdproto/log"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/performance"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/seolens/internal/logging"
)

// NativeEngine audits a page by driving the browser directly over the DevTools
// protocol. It produces the same raw shape as the lighthouse CLI for the nine
// checks and four categories the pipeline reads.
type NativeEngine struct {
	cfg    Config
	logger logging.Logger
	probe  *http.Client
}

// NewNativeEngine returns a chromedp-backed engine.
func NewNativeEngine(cfg Config, logger logging.Logger) *NativeEngine {
	if cfg.SettleTime <= 0 {
		cfg.SettleTime = DefaultConfig().SettleTime
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = DefaultConfig().NavigationTimeout
	}
	return &NativeEngine{
		cfg:    cfg,
		logger: logger,
		probe: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

const timingScript = `(() => {
	const nav = performance.getEntriesByType('navigation')[0] || {};
	const fcp = performance.getEntriesByType('paint').find(e => e.name === 'first-contentful-paint');
	let lcp = 0;
	try {
		const entries = performance.getEntriesByType('largest-contentful-paint');
		if (entries.length) lcp = entries[entries.length - 1].startTime;
	} catch (e) {}
	return {
		fcp: fcp ? fcp.startTime : 0,
		lcp: lcp,
		domContentLoaded: nav.domContentLoadedEventEnd || 0,
		load: nav.loadEventEnd || 0,
	};
})()`

type pageTimings struct {
	FCP              float64 `json:"fcp"`
	LCP              float64 `json:"lcp"`
	DOMContentLoaded float64 `json:"domContentLoaded"`
	Load             float64 `json:"load"`
}

func (e *NativeEngine) Run(ctx context.Context, target, endpoint string) (*RawReport, error) {
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, "ws://"+endpoint)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	navCtx, cancelNav := context.WithTimeout(tabCtx, e.cfg.NavigationTimeout)
	defer cancelNav()

	var consoleErrors int32
	var status int64
	chromedp.ListenTarget(navCtx, func(ev any) {
		switch ev := ev.(type) {
		case *runtime.EventExceptionThrown:
			atomic.AddInt32(&consoleErrors, 1)
		case *runtime.EventConsoleAPICalled:
			if ev.Type == runtime.APITypeError {
				atomic.AddInt32(&consoleErrors, 1)
			}
		case *cdplog.EventEntryAdded:
			if ev.Entry != nil && ev.Entry.Level == cdplog.LevelError {
				atomic.AddInt32(&consoleErrors, 1)
			}
		case *network.EventResponseReceived:
			if ev.Type == network.ResourceTypeDocument && ev.Response != nil {
				atomic.CompareAndSwapInt64(&status, 0, ev.Response.Status)
			}
		}
	})
	idle := waitNetworkIdle(navCtx, e.cfg.SettleTime)

	if err := chromedp.Run(navCtx,
		network.Enable(),
		runtime.Enable(),
		cdplog.Enable(),
		performance.Enable(),
		chromedp.Navigate(target),
	); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", target, err)
	}

	select {
	case <-idle:
	case <-time.After(4 * e.cfg.SettleTime):
		if e.logger != nil {
			e.logger.Debug("network never settled, sampling anyway", logging.F("url", target))
		}
	case <-navCtx.Done():
		return nil, navCtx.Err()
	}

	var (
		timings  pageTimings
		html     string
		finalURL string
		metrics  []*performance.Metric
	)
	if err := chromedp.Run(navCtx,
		chromedp.Evaluate(timingScript, &timings),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			metrics, err = performance.GetMetrics().Do(ctx)
			return err
		}),
	); err != nil {
		return nil, fmt.Errorf("collect page signals: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse rendered document: %w", err)
	}

	sig := PageSignals{
		RequestedURL:         target,
		FinalURL:             finalURL,
		StatusCode:           int(atomic.LoadInt64(&status)),
		ConsoleErrors:        int(atomic.LoadInt32(&consoleErrors)),
		FirstContentfulPaint: timings.FCP,
		LargestPaint:         timings.LCP,
		DOMContentLoaded:     timings.DOMContentLoaded,
		LoadEvent:            timings.Load,
		ScriptDuration:       metricMillis(metrics, "ScriptDuration"),
		RedirectsToHTTPS:     e.redirectsToHTTPS(ctx, target, finalURL),
	}
	return BuildNativeReport(sig, doc), nil
}

// redirectsToHTTPS reports whether plain HTTP traffic for the page's host ends
// up on HTTPS. nil means it could not be determined.
func (e *NativeEngine) redirectsToHTTPS(ctx context.Context, requested, final string) *bool {
	req, err := url.Parse(requested)
	if err != nil {
		return nil
	}
	if strings.EqualFold(req.Scheme, "http") {
		ok := isHTTPS(final)
		return &ok
	}

	plain := *req
	plain.Scheme = "http"
	probeReq, err := http.NewRequestWithContext(ctx, http.MethodGet, plain.String(), nil)
	if err != nil {
		return nil
	}
	resp, err := e.probe.Do(probeReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		ok := false
		return &ok
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 300 && resp.StatusCode < 400 &&
		strings.HasPrefix(strings.ToLower(resp.Header.Get("Location")), "https://")
	return &ok
}

func metricMillis(metrics []*performance.Metric, name string) float64 {
	for _, m := range metrics {
		if m != nil && m.Name == name {
			return m.Value * 1000
		}
	}
	return 0
}

// waitNetworkIdle signals once no request has been in flight for idleAfter.
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) <-chan struct{} {
	idle := make(chan struct{})
	var active int32
	var timerMu sync.Mutex
	var timer *time.Timer
	var once sync.Once

	arm := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(idleAfter, func() {
			if atomic.LoadInt32(&active) <= 0 {
				once.Do(func() { close(idle) })
			}
		})
	}

	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev.(type) {
		case *network.EventRequestWillBeSent:
			atomic.AddInt32(&active, 1)
		case *network.EventLoadingFinished, *network.EventLoadingFailed:
			if atomic.AddInt32(&active, -1) <= 0 {
				arm()
			}
		}
	})
	return idle
}
