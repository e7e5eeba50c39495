// Package observability provides formatted CLI output for runs, statistics
// and source listings.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/stats"
	"github.com/jonathan/job-tracker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunRecord outputs a human-readable report of one tracking run.
func (p *Printer) PrintRunRecord(rec *types.RunRecord) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:      %s\n", rec.ID))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", rec.Status))
	sb.WriteString(fmt.Sprintf("Started:  %s\n", rec.StartedAt))
	if rec.FinishedAt != "" {
		sb.WriteString(fmt.Sprintf("Finished: %s\n", rec.FinishedAt))
	}

	if len(rec.Sources) > 0 {
		sb.WriteString("\n")
	}
	for _, o := range rec.Sources {
		if o.Succeeded() {
			sb.WriteString(fmt.Sprintf("✓ %s: %d new, %d updated, %d unchanged, %d retired\n",
				o.Source, o.Inserted, o.Updated, o.Unchanged, o.Retired))
			if o.Malformed > 0 {
				sb.WriteString(fmt.Sprintf("    %d malformed records skipped\n", o.Malformed))
			}
		} else {
			details := o.Error
			if len(details) > 45 {
				details = details[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("✗ %s: %s\n", o.Source, o.ErrorKind))
			if details != "" {
				sb.WriteString(fmt.Sprintf("    %s\n", details))
			}
		}
	}

	sb.WriteString(fmt.Sprintf("\nNew postings this run: %d", rec.NewJobsFound))
	p.printBox("RUN REPORT", sb.String())
}

// PrintRunVerdict writes the one-line outcome that follows a run report.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRunVerdict(rec *types.RunRecord) {
	if rec == nil {
		return
	}

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	failed := len(rec.Failures())
	switch {
	case failed == 0:
		fmt.Fprintf(p.out, "%s %d new postings\n", green("Run completed:"), rec.NewJobsFound)
	case failed < len(rec.Sources):
		fmt.Fprintf(p.out, "%s %d of %d sources failed, %d new postings\n",
			yellow("Run completed with failures:"), failed, len(rec.Sources), rec.NewJobsFound)
	default:
		fmt.Fprintf(p.out, "%s all %d sources failed\n", red("Run failed:"), len(rec.Sources))
	}
}

// PrintStatistics outputs a summary of the dataset.
func (p *Printer) PrintStatistics(s stats.Statistics) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total postings: %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("Active:         %d\n", s.Active))
	sb.WriteString(fmt.Sprintf("Stale:          %d\n", s.Stale))

	writeGroup(&sb, "By source", s.BySource)
	writeGroup(&sb, "By company", s.ByCompany)
	writeGroup(&sb, "By location", s.ByLocation)

	p.printBox("DATASET STATISTICS", strings.TrimSuffix(sb.String(), "\n"))
}

func writeGroup(sb *strings.Builder, label string, counts []stats.Count) {
	if len(counts) == 0 {
		return
	}

	sb.WriteString(fmt.Sprintf("\n%s:\n", label))
	count := min(len(counts), maxItemsToShow)
	for i := 0; i < count; i++ {
		key := counts[i].Key
		if len(key) > 40 {
			key = key[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("  %-42s %d\n", key, counts[i].N))
	}
	if len(counts) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(counts)-maxItemsToShow))
	}
}

// PrintDuplicateGroups outputs postings that share a content fingerprint.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintDuplicateGroups(groups [][]string) {
	if len(groups) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO DUPLICATES FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d groups of matching postings:\n\n", len(groups)))

	count := min(len(groups), maxItemsToShow)
	for i := 0; i < count; i++ {
		ids := make([]string, len(groups[i]))
		for j, id := range groups[i] {
			ids[j] = shortID(id)
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, strings.Join(ids, ", ")))
	}
	if len(groups) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more groups", len(groups)-maxItemsToShow))
	}

	p.printBox("DUPLICATE POSTINGS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSources lists the configured sources with their enabled state.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSources(sources []config.SourceConfig) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, src := range sources {
		state := green("enabled")
		if !src.Enabled {
			state = yellow("disabled")
		}
		fmt.Fprintf(p.out, "%-20s %-8s %-10s %s\n", src.Name, src.Kind, state, src.URL)
	}
}

// shortID abbreviates a posting id for display.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
