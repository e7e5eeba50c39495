// Package fetch - browser.go renders JavaScript-heavy career sites in a
// headless browser.
package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinListingLength is the minimum extracted text length for a listing
// page fetched over plain HTTP. Shorter pages are likely JavaScript
// shells that only render content client-side.
const MinListingLength = 500

// ShouldUseBrowser reports whether a fetched page is probably an
// unrendered JavaScript shell.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinListingLength
}

// WithBrowser renders a page in a headless browser and returns the
// rendered HTML. When waitSelector is non-empty the browser additionally
// waits for it to appear, which helps on listing pages that populate
// their cards well after load. Requires Chrome/Chromium on the system.
func WithBrowser(ctx context.Context, url, waitSelector string, timeout time.Duration, verbose bool) (string, error) {
	if verbose {
		log.Printf("[BROWSER] Rendering: %s", url)
	}

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

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}
	if waitSelector != "" {
		actions = append(actions, chromedp.WaitReady(waitSelector, chromedp.ByQuery))
	}
	actions = append(actions,
		// Give late JavaScript a moment to fill in listing cards.
		chromedp.Sleep(2*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// Dismiss cookie banners when present; ignore failures.
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible).Do(ctx)
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	if verbose {
		log.Printf("[BROWSER] Rendered HTML: %d bytes", len(html))
	}

	return html, nil
}
