// Package schedule fires tracking runs on a fixed interval for watch mode.
package schedule

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonathan/job-tracker/internal/pipeline"
	"github.com/jonathan/job-tracker/internal/types"
)

// Runner executes one tracking cycle. *pipeline.Coordinator satisfies it.
type Runner interface {
	Run(ctx context.Context, opts pipeline.Options) (*types.RunRecord, error)
}

// Scheduler wraps robfig/cron and manages the watch loop. A cycle that is
// still underway when the next tick arrives is skipped, never overlapped.
type Scheduler struct {
	cron     *cron.Cron
	runner   Runner
	opts     pipeline.Options
	interval time.Duration

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// New creates a Scheduler that fires every interval.
func New(runner Runner, interval time.Duration, opts pipeline.Options) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cron.DefaultLogger)),
		runner:   runner,
		opts:     opts,
		interval: interval,
	}
}

// Start registers the cycle and starts the scheduler. One cycle runs
// immediately so a fresh start does not wait a full interval for data.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		s.cycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[WATCH] scheduler started, interval %s", s.interval)

	go s.cycle(ctx)

	return nil
}

// Stop halts scheduling and waits for an in-flight cycle to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	log.Println("[WATCH] scheduler stopped")
}

func (s *Scheduler) cycle(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Println("[WATCH] previous cycle still underway, skipping this tick")
		return
	}
	s.running = true
	s.wg.Add(1)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		s.wg.Done()
	}()

	started := time.Now()
	rec, err := s.runner.Run(ctx, s.opts)
	if err != nil {
		log.Printf("[WATCH] cycle failed: %v", err)
		return
	}

	log.Printf("[WATCH] cycle finished in %s: %d new postings, %d of %d sources failed",
		time.Since(started).Round(time.Millisecond),
		rec.NewJobsFound, len(rec.Failures()), len(rec.Sources))
}
