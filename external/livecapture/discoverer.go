package livecapture

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/riskibarqy/esoccer-watchdog/internal/platform/logging"
)

const (
	defaultCaptureDelay    = 10 * time.Second
	defaultPageLoadTimeout = 15 * time.Second
)

type Config struct {
	SourceURL       string
	URLMarker       string
	CaptureDelay    time.Duration
	PageLoadTimeout time.Duration
	Logger          *logging.Logger
}

// Discoverer opens the source page in headless Chrome and collects the URLs
// of the requests the page makes while it is live.
type Discoverer struct {
	sourceURL       string
	urlMarker       string
	captureDelay    time.Duration
	pageLoadTimeout time.Duration
	logger          *logging.Logger
}

func NewDiscoverer(cfg Config) *Discoverer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	captureDelay := cfg.CaptureDelay
	if captureDelay < 0 {
		captureDelay = defaultCaptureDelay
	}
	pageLoadTimeout := cfg.PageLoadTimeout
	if pageLoadTimeout <= 0 {
		pageLoadTimeout = defaultPageLoadTimeout
	}

	return &Discoverer{
		sourceURL:       strings.TrimSpace(cfg.SourceURL),
		urlMarker:       strings.TrimSpace(cfg.URLMarker),
		captureDelay:    captureDelay,
		pageLoadTimeout: pageLoadTimeout,
		logger:          logger,
	}
}

func (d *Discoverer) DiscoverURLs(ctx context.Context) ([]string, error) {
	if d.sourceURL == "" {
		return nil, fmt.Errorf("source url is required")
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Start the browser on the long-lived context so the page-load timeout
	// below does not tear it down.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("start browser: %w", err)
	}

	capture := newRequestCapture()
	chromedp.ListenTarget(browserCtx, func(ev any) {
		if e, ok := ev.(*network.EventRequestWillBeSent); ok && e.Request != nil {
			capture.add(e.Request.URL)
		}
	})

	loadCtx, cancelLoad := context.WithTimeout(browserCtx, d.pageLoadTimeout)
	err := chromedp.Run(loadCtx, network.Enable(), chromedp.Navigate(d.sourceURL))
	cancelLoad()
	if err != nil {
		return nil, fmt.Errorf("load source page: %w", err)
	}

	d.logger.InfoContext(ctx, "waiting for live requests", "delay", d.captureDelay.String())
	if err := chromedp.Run(browserCtx, chromedp.Sleep(d.captureDelay)); err != nil {
		return nil, fmt.Errorf("capture requests: %w", err)
	}

	captured := capture.snapshot()
	urls := filterURLs(captured, d.urlMarker)
	d.logger.InfoContext(ctx, "source urls discovered", "captured", len(captured), "matched", len(urls))
	return urls, nil
}

type requestCapture struct {
	mu   sync.Mutex
	urls []string
}

func newRequestCapture() *requestCapture {
	return &requestCapture{}
}

func (c *requestCapture) add(url string) {
	c.mu.Lock()
	c.urls = append(c.urls, url)
	c.mu.Unlock()
}

func (c *requestCapture) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.urls...)
}

// filterURLs keeps unique URLs containing marker, sorted so every cycle
// enumerates sources in the same order.
func filterURLs(urls []string, marker string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" || !strings.Contains(url, marker) {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		out = append(out, url)
	}
	sort.Strings(out)
	return out
}
