// Package pipeline orchestrates one full tracking run: collect each
// enabled source, normalize its records, reconcile them against the
// dataset, and commit after every source so one bad site never costs the
// others their results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/jonathan/job-tracker/internal/collect"
	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/identity"
	"github.com/jonathan/job-tracker/internal/normalize"
	"github.com/jonathan/job-tracker/internal/reconcile"
	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/telemetry"
	"github.com/jonathan/job-tracker/internal/timeutil"
	"github.com/jonathan/job-tracker/internal/types"
)

// maxRetryDelay caps exponential backoff growth.
const maxRetryDelay = 2 * time.Minute

// CollectorFactory builds the collector for one source. Tests swap it to
// avoid real HTTP.
type CollectorFactory func(src config.SourceConfig) (collect.Collector, error)

// Options adjusts a single run.
type Options struct {
	// Sources restricts the run to the named sources; empty means every
	// enabled source.
	Sources []string
	// DryRun reconciles without writing the dataset or the status file.
	DryRun bool
}

// Coordinator drives runs against one configuration.
type Coordinator struct {
	cfg    *config.Config
	loc    *time.Location
	store  *store.FileStore
	status *store.StatusFile

	newCollector CollectorFactory
}

// New builds a coordinator from a validated configuration.
func New(cfg *config.Config) (*Coordinator, error) {
	loc, err := timeutil.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	c := &Coordinator{
		cfg:    cfg,
		loc:    loc,
		store:  store.NewFileStore(cfg.DataFile, cfg.BackupDir, loc),
		status: store.NewStatusFile(cfg.StatusFile),
	}
	c.newCollector = func(src config.SourceConfig) (collect.Collector, error) {
		return collect.New(src, collect.Options{
			UserAgent:   cfg.UserAgent,
			PageTimeout: cfg.SourceTimeout(),
			Verbose:     cfg.Verbose,
		})
	}
	return c, nil
}

// Store exposes the dataset store the coordinator commits through.
func (c *Coordinator) Store() *store.FileStore {
	return c.store
}

// Status exposes the run status file.
func (c *Coordinator) Status() *store.StatusFile {
	return c.status
}

// Run executes one full tracking run and returns its record. Source
// failures are isolated: each failure is recorded and the run moves on.
// Cancellation is honored between sources; the source in flight sees it
// through its own context and fails on its own.
func (c *Coordinator) Run(ctx context.Context, opts Options) (*types.RunRecord, error) {
	started := time.Now()

	sources, err := c.selectSources(opts.Sources)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.Name
	}

	rec := types.NewRunRecord(timeutil.Stamp(started, c.loc), names)
	log.Printf("[RUN] %s: starting run for %d source(s)", rec.ID, len(sources))

	dataset, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading dataset failed: %w", err)
	}

	rec.Status = types.RunRunning
	if !opts.DryRun {
		if err := c.status.Write(rec); err != nil {
			log.Printf("[RUN] %s: failed to record run start: %v", rec.ID, err)
		}
	}

	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			log.Printf("[RUN] %s: canceled before source %s", rec.ID, src.Name)
			break
		}

		log.Printf("[RUN] source %d/%d: %s", i+1, len(sources), src.Name)
		outcome, next := c.runSource(ctx, src, dataset, rec.NewJobsFound, opts.DryRun)
		if next != nil {
			dataset = next
		}
		rec.Append(outcome)
		telemetry.ObserveSource(outcome)

		if !outcome.Succeeded() {
			log.Printf("[RUN] %s failed (%s): %s", src.Name, outcome.ErrorKind, outcome.Error)
		}

		if i < len(sources)-1 {
			if err := sleepCtx(ctx, c.cfg.SourceDelay()); err != nil {
				log.Printf("[RUN] %s: canceled during source delay", rec.ID)
				break
			}
		}
	}

	rec.Status = types.RunCompleted
	rec.FinishedAt = timeutil.Stamp(time.Now(), c.loc)

	// The record is written even when every source failed; a run that
	// happened must be visible to `status`.
	if !opts.DryRun {
		if err := c.status.Write(rec); err != nil {
			log.Printf("[RUN] %s: failed to write run status: %v", rec.ID, err)
		}
	}

	telemetry.ObserveRun(rec, dataset.CountByStatus(types.StatusActive), time.Since(started))
	log.Printf("[RUN] %s: completed in %s, %d new job(s)",
		rec.ID, time.Since(started).Round(time.Millisecond), rec.NewJobsFound)

	return rec, nil
}

// runSource takes one source through collect, normalize, reconcile, and
// commit. It returns the outcome and the dataset to carry forward; a nil
// dataset means nothing was committed and the caller keeps its current
// one.
func (c *Coordinator) runSource(ctx context.Context, src config.SourceConfig, current *types.Dataset, newSoFar int, dryRun bool) (types.SourceOutcome, *types.Dataset) {
	batch, attempts, err := c.collectWithRetry(ctx, src)
	if batch == nil {
		kind := types.ErrKindCollectorFailure
		if errors.Is(err, context.DeadlineExceeded) {
			kind = types.ErrKindCollectorTimeout
		}
		return types.SourceOutcome{
			Source:    src.Name,
			Result:    types.OutcomeFailure,
			Attempts:  attempts,
			ErrorKind: kind,
			Error:     err.Error(),
		}, nil
	}
	if err != nil {
		log.Printf("[RUN] %s: keeping partial batch of %d record(s): %v", src.Name, len(batch.Records), err)
	}

	scrapedAt := timeutil.Stamp(time.Now(), c.loc)
	postings := make([]types.Posting, 0, len(batch.Records))
	malformed := 0
	for _, raw := range batch.Records {
		posting, err := normalize.Record(raw, src.Name, scrapedAt)
		if err != nil {
			malformed++
			log.Printf("[RUN] %s: skipping malformed record: %v", src.Name, err)
			continue
		}
		identity.Resolve(&posting)
		postings = append(postings, posting)
	}

	next, outcome, err := reconcile.Apply(current, postings, src.Name, batch.Complete)
	if err != nil {
		return types.SourceOutcome{
			Source:    src.Name,
			Result:    types.OutcomeFailure,
			Attempts:  attempts,
			Pages:     batch.PagesScraped,
			Malformed: malformed,
			ErrorKind: types.ErrKindReconciliationAborted,
			Error:     err.Error(),
		}, nil
	}
	outcome.Attempts = attempts
	outcome.Pages = batch.PagesScraped
	outcome.Malformed = malformed

	if dryRun {
		return outcome, next
	}

	next.Metadata.NewJobsThisRun = newSoFar + outcome.Inserted
	if err := c.store.Save(next); err != nil {
		return types.SourceOutcome{
			Source:    src.Name,
			Result:    types.OutcomeFailure,
			Attempts:  attempts,
			Pages:     batch.PagesScraped,
			Malformed: malformed,
			ErrorKind: types.ErrKindStorage,
			Error:     err.Error(),
		}, nil
	}

	return outcome, next
}

// collectWithRetry runs the source's collector under its timeout,
// retrying total failures. A partial batch is kept rather than retried.
func (c *Coordinator) collectWithRetry(ctx context.Context, src config.SourceConfig) (*collect.Batch, int, error) {
	col, err := c.newCollector(src)
	if err != nil {
		return nil, 0, err
	}

	maxAttempts := c.cfg.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		srcCtx, cancel := context.WithTimeout(ctx, c.cfg.SourceTimeout())
		batch, err := col.Collect(srcCtx)
		cancel()

		if err == nil {
			return batch, attempt, nil
		}
		if batch != nil && len(batch.Records) > 0 {
			return batch, attempt, err
		}

		lastErr = err
		log.Printf("[RUN] %s: attempt %d/%d failed: %v", src.Name, attempt, maxAttempts, err)

		if attempt < maxAttempts {
			if serr := sleepCtx(ctx, c.retryDelay(attempt)); serr != nil {
				return nil, attempt, lastErr
			}
		}
	}

	return nil, maxAttempts, lastErr
}

// retryDelay computes the wait before the next attempt. Exponential mode
// doubles per attempt, capped, with jitter in the upper half so repeated
// runs don't hammer a recovering site in lockstep.
func (c *Coordinator) retryDelay(attempt int) time.Duration {
	base := c.cfg.RetryDelay()
	if c.cfg.RetryBackoff != config.BackoffExponential {
		return base
	}

	wait := base * (1 << (attempt - 1))
	if wait > maxRetryDelay {
		wait = maxRetryDelay
	}
	half := wait / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}

// selectSources resolves the run's source list. A filter names enabled
// sources explicitly; asking for an unknown or disabled one is an error
// rather than a silent skip.
func (c *Coordinator) selectSources(filter []string) ([]config.SourceConfig, error) {
	enabled := c.cfg.EnabledSources()
	if len(filter) == 0 {
		return enabled, nil
	}

	byName := make(map[string]config.SourceConfig, len(enabled))
	for _, src := range enabled {
		byName[src.Name] = src
	}

	selected := make([]config.SourceConfig, 0, len(filter))
	for _, name := range filter {
		src, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown or disabled source %q", name)
		}
		selected = append(selected, src)
	}
	return selected, nil
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
