package collect

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/job-tracker/internal/fetch"
	"github.com/jonathan/job-tracker/internal/types"
)

// enrichDescriptions visits each posting's own page and replaces the
// description with the text extracted there. Best effort: a failed
// detail fetch keeps whatever the listing card carried.
func enrichDescriptions(ctx context.Context, source string, records []types.RawRecord, delay time.Duration, fopts *fetch.Options) {
	for _, rec := range records {
		postingURL := rec.Field(types.FieldURL)
		if postingURL == "" {
			continue
		}

		if err := sleepCtx(ctx, delay); err != nil {
			return
		}

		text, err := fetchDescription(ctx, postingURL, fopts)
		if err != nil {
			log.Printf("[COLLECT] %s: description fetch failed for %s: %v", source, postingURL, err)
			continue
		}
		if text != "" {
			rec[types.FieldDescription] = text
		}
	}
}

// fetchDescription pulls a posting page and extracts its description
// with selectors tuned to the detected tracking system.
func fetchDescription(ctx context.Context, postingURL string, fopts *fetch.Options) (string, error) {
	result, err := fetch.URL(ctx, postingURL, fopts)
	if err != nil {
		return "", err
	}

	platform := fetch.DetectPlatform(postingURL)
	return fetch.ExtractText(result.HTML, fetch.PlatformDescriptionSelectors(platform), fetch.PlatformNoiseSelectors(platform)...)
}
