package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/observability"
)

var sourcesCommand = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources and their enabled state",
	RunE:  runSourcesCmd,
}

var sourcesConfigPath string

func init() {
	sourcesCommand.Flags().StringVar(&sourcesConfigPath, "config", "config.json", "Path to config.json")
	rootCmd.AddCommand(sourcesCommand)
}

func runSourcesCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configPathOr(cmd, sourcesConfigPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if len(cfg.Sources) == 0 {
		fmt.Fprintln(os.Stdout, "No sources configured")
		return nil
	}

	observability.NewPrinter(os.Stdout).PrintSources(cfg.Sources)
	return nil
}
