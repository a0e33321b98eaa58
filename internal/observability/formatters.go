// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for match reports and batch summaries
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
	fmt.Fprintf(p.out, "│ %s │\n", padLine(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %s │\n", padLine(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// padLine truncates and pads a line to the box's inner width. Both operate
// on runes, not bytes, so multibyte job titles neither break mid-rune nor
// misalign the box.
func padLine(line string) string {
	const width = boxWidth - 4
	runes := []rune(line)
	if len(runes) > width {
		return string(runes[:width-3]) + "..."
	}
	return string(runes) + strings.Repeat(" ", width-len(runes))
}

// PrintMatchingResult outputs a human-readable match report
func (p *Printer) PrintMatchingResult(job *types.Job, result *types.MatchingResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	if job != nil {
		sb.WriteString(fmt.Sprintf("Job:      %s @ %s\n", job.Title, job.Company))
	}
	sb.WriteString(fmt.Sprintf("Score:    %d/100 (%s)\n", result.MatchScore, result.MatchCategory))
	sb.WriteString("\n")

	if len(result.Strengths) > 0 {
		sb.WriteString("Strengths:\n")
		for i, s := range result.Strengths {
			if i >= maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Strengths)-maxItemsToShow))
				break
			}
			sb.WriteString(fmt.Sprintf("  + %s\n", s))
		}
	}

	if len(result.Gaps.MissingSkills) > 0 {
		sb.WriteString("Skill gaps:\n")
		for _, gap := range result.Gaps.MissingSkills {
			sb.WriteString(fmt.Sprintf("  - %s (need %d/10, have %d/10)\n",
				gap.Skill, gap.RequiredLevel, gap.CurrentLevel))
		}
	}
	if len(result.Gaps.ExperienceGaps) > 0 {
		sb.WriteString("Experience gaps:\n")
		for _, gap := range result.Gaps.ExperienceGaps {
			sb.WriteString(fmt.Sprintf("  - %s (need %.1f years, have %.1f)\n",
				gap.Area, gap.RequiredYears, gap.ActualYears))
		}
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString("Recommendations:\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("  * %s\n", rec))
		}
	}

	p.printBox("Match Report", strings.TrimRight(sb.String(), "\n"))

	if result.Reasoning != "" {
		fmt.Fprintf(p.out, "\nReasoning: %s\n", result.Reasoning)
	}
}

// PrintBatchSummary outputs the outcome of a bulk or selected run
func (p *Printer) PrintBatchSummary(summary *types.BatchSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Matched:  %d\n", summary.Matched))
	sb.WriteString(fmt.Sprintf("Failed:   %d\n", summary.Failed))
	sb.WriteString(fmt.Sprintf("Skipped:  %d", summary.Skipped))
	p.printBox("Batch Summary", sb.String())

	for _, batchErr := range summary.Errors {
		fmt.Fprintf(p.out, "  failed: %s: %s\n", batchErr.JobTitle, batchErr.Message)
	}
}

// PrintHistory outputs stored match attempts for a job, newest first
func (p *Printer) PrintHistory(entries []types.MatchingHistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(p.out, "No matching history for this job.")
		return
	}

	for _, entry := range entries {
		fmt.Fprintf(p.out, "%s  score=%d (%s)  model=%s\n",
			entry.CreatedAt.Format("2006-01-02 15:04"),
			entry.Result.MatchScore, entry.Result.MatchCategory, entry.APIModel)
	}
}

// PrintProgress writes one live progress line during a batch run
func (p *Printer) PrintProgress(current, total int, jobTitle string) {
	fmt.Fprintf(p.out, "Matching %d/%d: %s\n", current, total, jobTitle)
}
