package collect

import (
	"context"
	"log"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/fetch"
)

// HTTPCollector gathers postings from server-rendered listing pages.
type HTTPCollector struct {
	src  config.SourceConfig
	opts Options
}

func (c *HTTPCollector) Name() string {
	return c.src.Name
}

// Collect pages through the source's listing over plain HTTP.
func (c *HTTPCollector) Collect(ctx context.Context) (*Batch, error) {
	fopts := c.opts.fetchOptions(c.src.Headers)

	fetchPage := func(ctx context.Context, pageURL string) (string, error) {
		result, err := fetch.URL(ctx, pageURL, fopts)
		if err != nil {
			return "", err
		}
		return result.HTML, nil
	}

	hint := func(html string) {
		text, err := fetch.ExtractText(html, nil)
		if err == nil && fetch.ShouldUseBrowser(text) {
			log.Printf("[COLLECT] %s: listing page has almost no text, the site may need \"kind\": \"browser\"", c.src.Name)
		}
	}

	batch, err := paginate(ctx, c.src, c.opts.pageDelay(), fetchPage, hint)
	if err != nil {
		return batch, err
	}

	if c.src.FetchDetails {
		enrichDescriptions(ctx, c.src.Name, batch.Records, c.opts.pageDelay(), fopts)
	}

	return batch, nil
}
