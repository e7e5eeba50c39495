package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/observability"
	"github.com/jonathan/job-tracker/internal/stats"
	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/timeutil"
)

var statsCommand = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the tracked dataset",
	RunE:  runStatsCmd,
}

var (
	statsConfigPath string
	statsDuplicates bool
)

func init() {
	statsCommand.Flags().StringVar(&statsConfigPath, "config", "config.json", "Path to config.json")
	statsCommand.Flags().BoolVar(&statsDuplicates, "duplicates", false, "Also list postings that share a content fingerprint")

	rootCmd.AddCommand(statsCommand)
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configPathOr(cmd, statsConfigPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loc, err := timeutil.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}

	ds, err := store.NewFileStore(cfg.DataFile, cfg.BackupDir, loc).Load()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintStatistics(stats.Compute(ds))

	if statsDuplicates {
		printer.PrintDuplicateGroups(stats.DuplicateGroups(ds))
	}
	return nil
}
