// Package scrape extracts interactive UI element descriptors from a page
// using headless Chrome.
package scrape

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"

	"github.com/caseforge/caseforge/log"
	"github.com/caseforge/caseforge/types"
)

// DefaultTimeout bounds a single page fetch end-to-end.
const DefaultTimeout = 30 * time.Second

// DefaultSettleDelay is how long to wait after the body is ready, giving
// dynamically injected content a chance to land.
const DefaultSettleDelay = 3 * time.Second

// DefaultUserAgent is sent with every fetch.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Config configures the extractor.
type Config struct {
	// Timeout bounds a single fetch (default 30s).
	Timeout time.Duration
	// SettleDelay is the post-load wait for dynamic content (default 3s).
	SettleDelay time.Duration
	// UserAgent overrides the default user agent.
	UserAgent string
	// Headful opens a browser window. Off by default; enable only for
	// local debugging.
	Headful bool
}

// Extractor fetches a page with headless Chrome and parses its interactive
// elements. A fresh browser context is allocated per fetch; nothing is
// shared across runs.
type Extractor struct {
	config Config
	logger *log.Logger
}

// NewExtractor creates an extractor. Zero-value config fields fall back to
// package defaults.
func NewExtractor(cfg Config, logger *log.Logger) *Extractor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &Extractor{config: cfg, logger: logger}
}

// Extract fetches url and returns its element descriptors. An empty slice
// signals failure; faults never propagate out, they are logged and
// converted to the empty result.
func (e *Extractor) Extract(ctx context.Context, url string) []types.Element {
	html, err := e.fetch(ctx, url)
	if err != nil {
		e.logger.Error("page fetch failed", map[string]any{
			"url":   url,
			"error": err.Error(),
		})
		return nil
	}

	elements, err := ParseElements(html)
	if err != nil {
		e.logger.Error("element parse failed", map[string]any{
			"url":   url,
			"error": err.Error(),
		})
		return nil
	}

	e.logger.Info("extracted elements", map[string]any{
		"url":   url,
		"count": len(elements),
	})
	return elements
}

// fetch navigates to url in a fresh headless browser and returns the
// document's outer HTML.
func (e *Extractor) fetch(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("headless", !e.config.Headful),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.UserAgent(e.config.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	fetchCtx, fetchCancel := context.WithTimeout(browserCtx, e.config.Timeout)
	defer fetchCancel()

	var html string
	err := chromedp.Run(fetchCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(e.config.SettleDelay),
		chromedp.ActionFunc(func(ctx context.Context) error {
			node, err := dom.GetDocument().Do(ctx)
			if err != nil {
				return err
			}
			html, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}
