package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/pipeline"
	"github.com/jonathan/job-tracker/internal/schedule"
	"github.com/jonathan/job-tracker/internal/telemetry"
)

var watchCommand = &cobra.Command{
	Use:   "watch",
	Short: "Run continuously on the configured interval",
	Long: `Starts a daemon that repeats the tracking run every watch_interval_hours,
beginning with an immediate run. When metrics_addr is configured, Prometheus
metrics are served at /metrics. Stops cleanly on SIGINT or SIGTERM.`,
	RunE: runWatchCmd,
}

var watchConfigPath string

func init() {
	watchCommand.Flags().StringVar(&watchConfigPath, "config", "config.json", "Path to config.json")
	rootCmd.AddCommand(watchCommand)
}

func runWatchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configPathOr(cmd, watchConfigPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	coord, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", telemetry.Handler())
		metricsSrv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			log.Printf("[WATCH] metrics listening on %s", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("[WATCH] metrics server error: %v", err)
			}
		}()
	}

	sched := schedule.New(coord, cfg.WatchInterval(), pipeline.Options{})
	if err := sched.Start(ctx); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("[WATCH] shutting down")
	cancel()
	sched.Stop()

	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WATCH] metrics shutdown error: %v", err)
		}
	}

	return nil
}
