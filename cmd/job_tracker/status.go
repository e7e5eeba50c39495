package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/observability"
	"github.com/jonathan/job-tracker/internal/store"
)

var statusCommand = &cobra.Command{
	Use:   "status",
	Short: "Show what the most recent run did",
	RunE:  runStatusCmd,
}

var statusConfigPath string

func init() {
	statusCommand.Flags().StringVar(&statusConfigPath, "config", "config.json", "Path to config.json")
	rootCmd.AddCommand(statusCommand)
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configPathOr(cmd, statusConfigPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	rec, err := store.NewStatusFile(cfg.StatusFile).Read()
	if errors.Is(err, store.ErrNoStatus) {
		fmt.Fprintln(os.Stdout, "No runs recorded yet")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read run status: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintRunRecord(rec)
	return nil
}
