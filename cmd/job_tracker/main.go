// Package main provides the entry point for the job tracker CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "job_tracker",
	Short: "Career-site job posting tracker",
	Long:  "Job Tracker collects postings from configured career sites, reconciles them against a local dataset, and keeps a record of what appeared, changed and disappeared between runs.",
}

// configPathOr resolves the config file path: an explicit --config wins,
// then the JOB_TRACKER_CONFIG environment variable, then the flag default.
func configPathOr(cmd *cobra.Command, flagValue string) string {
	if !cmd.Flags().Changed("config") {
		if env := os.Getenv("JOB_TRACKER_CONFIG"); env != "" {
			return env
		}
	}
	return flagValue
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
