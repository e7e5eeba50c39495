// Package telemetry exposes Prometheus metrics for tracker runs.
package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/job-tracker/internal/types"
)

var (
	once sync.Once

	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobtracker_runs_total",
		Help: "Finished tracker runs by outcome",
	}, []string{"outcome"})
	SourceRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobtracker_source_runs_total",
		Help: "Per-source collection outcomes",
	}, []string{"source", "result"})
	PostingsInserted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobtracker_postings_inserted_total",
		Help: "New postings added to the dataset",
	}, []string{"source"})
	PostingsUpdated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobtracker_postings_updated_total",
		Help: "Postings whose content changed in place",
	}, []string{"source"})
	PostingsRetired = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobtracker_postings_retired_total",
		Help: "Postings marked stale after dropping off their listing",
	}, []string{"source"})
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "jobtracker_run_duration_seconds",
		Help:    "Wall time of a full tracker run",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
	ActivePostings = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jobtracker_active_postings",
		Help: "Active postings in the dataset after the latest run",
	})
)

// Handler exposes the /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			RunsTotal,
			SourceRuns,
			PostingsInserted,
			PostingsUpdated,
			PostingsRetired,
			RunDuration,
			ActivePostings,
		)
	})
	return promhttp.Handler()
}

// ObserveSource records one source's reconciliation outcome.
func ObserveSource(o types.SourceOutcome) {
	SourceRuns.WithLabelValues(o.Source, o.Result).Inc()
	if o.Succeeded() {
		PostingsInserted.WithLabelValues(o.Source).Add(float64(o.Inserted))
		PostingsUpdated.WithLabelValues(o.Source).Add(float64(o.Updated))
		PostingsRetired.WithLabelValues(o.Source).Add(float64(o.Retired))
	}
}

// ObserveRun records a finished run and the active posting count it left
// behind.
func ObserveRun(rec *types.RunRecord, activePostings int, elapsed time.Duration) {
	outcome := "success"
	if len(rec.Failures()) > 0 {
		outcome = "partial"
	}
	RunsTotal.WithLabelValues(outcome).Inc()
	RunDuration.Observe(elapsed.Seconds())
	ActivePostings.Set(float64(activePostings))
}
