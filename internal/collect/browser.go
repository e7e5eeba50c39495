package collect

import (
	"context"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/fetch"
)

// BrowserCollector renders JavaScript-heavy listings in a headless
// browser before extracting postings. Pagination follows next-page links
// only; sites that page through script-only buttons yield their first
// page.
type BrowserCollector struct {
	src  config.SourceConfig
	opts Options
}

func (c *BrowserCollector) Name() string {
	return c.src.Name
}

// Collect renders each listing page and extracts postings from the
// rendered HTML.
func (c *BrowserCollector) Collect(ctx context.Context) (*Batch, error) {
	fetchPage := func(ctx context.Context, pageURL string) (string, error) {
		return fetch.WithBrowser(ctx, pageURL, c.src.Selectors.List, c.opts.pageTimeout(), c.opts.Verbose)
	}

	batch, err := paginate(ctx, c.src, c.opts.pageDelay(), fetchPage, nil)
	if err != nil {
		return batch, err
	}

	if c.src.FetchDetails {
		enrichDescriptions(ctx, c.src.Name, batch.Records, c.opts.pageDelay(), c.opts.fetchOptions(c.src.Headers))
	}

	return batch, nil
}
