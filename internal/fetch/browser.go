// Package fetch - browser.go provides headless browser rendering for
// JavaScript-rendered retail pages.
package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the minimum body length to consider a static fetch
// usable. Shorter bodies usually mean a client-rendered storefront.
const MinContentLength = 500

// ShouldUseBrowser reports whether a static fetch came back too thin to
// scrape, indicating the page is likely a JavaScript-rendered SPA.
func ShouldUseBrowser(html string) bool {
	return len(strings.TrimSpace(html)) < MinContentLength
}

// WithBrowser renders a page in a headless browser and returns the rendered
// HTML. The caller's context bounds the whole render; price scraping passes
// its hard deadline through, so a slow render simply yields no price.
// Requires Chrome/Chromium on the system.
func WithBrowser(ctx context.Context, url string) (string, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	return html, nil
}
