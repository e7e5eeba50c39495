// Package collect gathers raw posting records from configured
// career-site listings, paging through them with polite delays.
package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/fetch"
	"github.com/jonathan/job-tracker/internal/types"
)

// DefaultPageDelay is the pause between successive page fetches.
const DefaultPageDelay = 1 * time.Second

// Batch is everything one collection pass produced for a source.
// Complete reports whether the listing was observed in full; a batch cut
// short by a fetch failure or cancellation stays incomplete.
type Batch struct {
	Records      []types.RawRecord
	Complete     bool
	PagesScraped int
}

// Error represents a collection failure for a source.
type Error struct {
	Source  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("collect error for %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("collect error for %s: %s", e.Source, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Collector gathers raw records from one configured source.
type Collector interface {
	Name() string
	Collect(ctx context.Context) (*Batch, error)
}

// Options adjusts collector behavior shared across kinds.
type Options struct {
	UserAgent   string
	PageDelay   time.Duration
	PageTimeout time.Duration
	Verbose     bool
}

func (o Options) pageDelay() time.Duration {
	if o.PageDelay > 0 {
		return o.PageDelay
	}
	return DefaultPageDelay
}

func (o Options) pageTimeout() time.Duration {
	if o.PageTimeout > 0 {
		return o.PageTimeout
	}
	return fetch.DefaultTimeout
}

func (o Options) fetchOptions(headers map[string]string) *fetch.Options {
	fopts := fetch.DefaultOptions()
	fopts.Timeout = o.pageTimeout()
	if o.UserAgent != "" {
		fopts.UserAgent = o.UserAgent
	}
	fopts.Headers = headers
	return fopts
}

// New returns the collector for a source's configured kind.
func New(src config.SourceConfig, opts Options) (Collector, error) {
	switch src.Kind {
	case config.KindHTTP:
		return &HTTPCollector{src: src, opts: opts}, nil
	case config.KindBrowser:
		return &BrowserCollector{src: src, opts: opts}, nil
	default:
		return nil, &Error{Source: src.Name, Message: fmt.Sprintf("unknown source kind %q", src.Kind)}
	}
}

// pageFetch retrieves the HTML of one listing page.
type pageFetch func(ctx context.Context, pageURL string) (string, error)

// paginate walks a source's listing pages and accumulates records. The
// first page failing fails the whole collection; a later page failing
// returns what earlier pages produced, marked incomplete.
func paginate(ctx context.Context, src config.SourceConfig, delay time.Duration, fetchPage pageFetch, onEmptyFirstPage func(html string)) (*Batch, error) {
	startURL, err := buildSearchURL(src.URL, src.SearchParams)
	if err != nil {
		return nil, &Error{Source: src.Name, Message: "invalid source URL", Cause: err}
	}

	maxPages := src.MaxPages
	if maxPages < 1 {
		maxPages = config.DefaultMaxPages
	}

	batch := &Batch{Records: []types.RawRecord{}}
	pageURL := startURL

	for page := 1; page <= maxPages; page++ {
		if page > 1 {
			if err := sleepCtx(ctx, delay); err != nil {
				return batch, &Error{Source: src.Name, Message: "collection interrupted", Cause: err}
			}
		}

		html, err := fetchPage(ctx, pageURL)
		if err != nil {
			if page == 1 {
				return nil, &Error{Source: src.Name, Message: "failed to fetch listing page", Cause: err}
			}
			return batch, &Error{Source: src.Name, Message: fmt.Sprintf("failed to fetch page %d", page), Cause: err}
		}

		records, next, err := parseListing(html, src.Selectors, pageURL)
		if err != nil {
			if page == 1 {
				return nil, &Error{Source: src.Name, Message: "failed to parse listing page", Cause: err}
			}
			return batch, &Error{Source: src.Name, Message: fmt.Sprintf("failed to parse page %d", page), Cause: err}
		}

		batch.PagesScraped++
		if page == 1 && len(records) == 0 && onEmptyFirstPage != nil {
			onEmptyFirstPage(html)
		}
		batch.Records = append(batch.Records, records...)

		// Stop on a missing or self-linking pager.
		if next == "" || next == pageURL {
			break
		}
		pageURL = next
	}

	batch.Complete = true
	return batch, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
