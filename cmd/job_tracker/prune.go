package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/stats"
	"github.com/jonathan/job-tracker/internal/store"
	"github.com/jonathan/job-tracker/internal/timeutil"
)

var pruneCommand = &cobra.Command{
	Use:   "prune",
	Short: "Delete stale postings that have not been seen for a while",
	Long: `Removes stale postings last observed more than --days ago. Reconciliation
only ever marks postings stale; this command is the one deliberate way to
delete them.`,
	RunE: runPruneCmd,
}

var (
	pruneConfigPath string
	pruneDays       int
	pruneDryRun     bool
)

func init() {
	pruneCommand.Flags().StringVar(&pruneConfigPath, "config", "config.json", "Path to config.json")
	pruneCommand.Flags().IntVar(&pruneDays, "days", 30, "Age threshold in days")
	pruneCommand.Flags().BoolVar(&pruneDryRun, "dry-run", false, "Report what would be removed without writing")

	rootCmd.AddCommand(pruneCommand)
}

func runPruneCmd(cmd *cobra.Command, _ []string) error {
	if pruneDays < 1 {
		return fmt.Errorf("--days must be at least 1")
	}

	cfg, err := config.LoadConfig(configPathOr(cmd, pruneConfigPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loc, err := timeutil.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}

	fs := store.NewFileStore(cfg.DataFile, cfg.BackupDir, loc)
	ds, err := fs.Load()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	pruned := stats.PruneStale(ds, pruneDays, time.Now())

	if pruneDryRun {
		fmt.Fprintf(os.Stdout, "Dry run: %d stale postings older than %d days would be removed\n", pruned, pruneDays)
		return nil
	}
	if pruned == 0 {
		fmt.Fprintf(os.Stdout, "Nothing to prune: no stale postings older than %d days\n", pruneDays)
		return nil
	}

	if err := fs.Save(ds); err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Pruned %d stale postings older than %d days\n", pruned, pruneDays)
	return nil
}
