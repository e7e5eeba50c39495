package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/job-tracker/internal/config"
)

// getBinaryPath returns the path to the job_tracker binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "job_tracker"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}

	return binaryPath
}

// writeConfig marshals cfg into dir/config.json and returns its path.
func writeConfig(t *testing.T, dir string, cfg config.Config) string {
	t.Helper()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}

	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// testSource builds a source whose selectors match the fixture listing
// markup served by the tests.
func testSource(name, listingURL string) config.SourceConfig {
	return config.SourceConfig{
		Name:    name,
		Kind:    config.KindHTTP,
		URL:     listingURL,
		Enabled: true,
		Selectors: config.SelectorSet{
			List:     "li.job",
			Title:    ".title",
			Company:  ".company",
			Location: ".location",
			URL:      "a.link",
			NextPage: "a.next",
		},
	}
}
