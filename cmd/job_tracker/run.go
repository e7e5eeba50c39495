package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/observability"
	"github.com/jonathan/job-tracker/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Collect and reconcile all enabled sources once",
	Long: `Runs one full tracking pass: each enabled source is collected in turn,
its records normalized and reconciled against the dataset, and the result
committed after every source. A failing source is reported and skipped;
it never costs the other sources their results.`,
	RunE: runTrackerCmd,
}

var (
	runConfigPath string
	runSource     string
	runDryRun     bool
	runVerbose    bool
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "config.json", "Path to config.json")
	runCommand.Flags().StringVarP(&runSource, "source", "s", "", "Run a single source by name")
	runCommand.Flags().BoolVar(&runDryRun, "dry-run", false, "Reconcile but write neither the dataset nor the status file")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed progress information")

	rootCmd.AddCommand(runCommand)
}

func runTrackerCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configPathOr(cmd, runConfigPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	coord, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	opts := pipeline.Options{DryRun: runDryRun}
	if runSource != "" {
		opts.Sources = []string{runSource}
	}

	// A first interrupt stops the run at the next source boundary; the
	// partial results committed so far stay committed.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		fmt.Fprintln(os.Stderr, "Interrupted, stopping after the current source...")
		cancel()
	}()

	rec, err := coord.Run(ctx, opts)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintRunRecord(rec)
	printer.PrintRunVerdict(rec)

	if runDryRun {
		fmt.Fprintln(os.Stdout, "Dry run: nothing was written")
	}
	return nil
}
