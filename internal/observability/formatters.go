// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/resume-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
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

// PrintJob outputs a human-readable summary of the job being matched.
func (p *Printer) PrintJob(job *types.JobPosting) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", job.Title))
	if job.Company != "" {
		sb.WriteString(fmt.Sprintf("Company:  %s\n", job.Company))
	}
	if job.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", job.Location))
	}

	if len(job.RequiredSkills) > 0 {
		sb.WriteString("\nRequired Skills:\n")
		count := min(len(job.RequiredSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", job.RequiredSkills[i]))
		}
		if len(job.RequiredSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(job.RequiredSkills)-maxItemsToShow))
		}
	}
	if len(job.NiceToHaveSkills) > 0 {
		sb.WriteString(fmt.Sprintf("\nNice to Have: %s\n", strings.Join(job.NiceToHaveSkills, ", ")))
	}

	p.printBox("JOB POSTING", strings.TrimRight(sb.String(), "\n"))
}

// PrintMatchResults outputs a ranked listing of match results.
func (p *Printer) PrintMatchResults(results []*types.MatchResult) {
	var sb strings.Builder
	if len(results) == 0 {
		sb.WriteString("No candidates matched.")
	}
	for i, result := range results {
		sb.WriteString(fmt.Sprintf("%d. %s  %.1f%%  [%s]\n", i+1, result.CandidateID, result.OverallScore*100, result.Method))
		sb.WriteString(fmt.Sprintf("   Skills: %.1f%%", result.SkillsScore*100))
		if semantic, ok := result.Semantic(); ok {
			sb.WriteString(fmt.Sprintf("   Text: %.1f%%", semantic*100))
		}
		sb.WriteString("\n")
		if len(result.MatchedSkills) > 0 {
			sb.WriteString(fmt.Sprintf("   Matched: %s\n", joinCapped(result.MatchedSkills, maxItemsToShow)))
		}
		if len(result.MissingSkills) > 0 {
			sb.WriteString(fmt.Sprintf("   Missing: %s\n", joinCapped(result.MissingSkills, maxItemsToShow)))
		}
	}

	p.printBox("MATCH RESULTS", strings.TrimRight(sb.String(), "\n"))
}

// PrintComparison outputs the per-strategy breakdown of a comparison.
func (p *Printer) PrintComparison(comparison *types.ComparisonResult) {
	if comparison == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate: %s\n", comparison.CandidateID))
	sb.WriteString(fmt.Sprintf("Job:       %s\n\n", comparison.JobID))

	names := make([]string, 0, len(comparison.Results))
	for name := range comparison.Results {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("  %-14s %.1f%%\n", name, comparison.Results[name].OverallScore*100))
	}

	sb.WriteString(fmt.Sprintf("\nAverage:   %.1f%%\n", comparison.AverageScore*100))
	sb.WriteString(fmt.Sprintf("Median:    %.1f%%\n", comparison.MedianScore*100))
	sb.WriteString(fmt.Sprintf("Variance:  %.4f\n", comparison.ScoreVariance))
	sb.WriteString(fmt.Sprintf("Agreement: %s", comparison.AgreementLevel))

	p.printBox("STRATEGY COMPARISON", sb.String())
}

func joinCapped(items []string, n int) string {
	if len(items) <= n {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s ... and %d more", strings.Join(items[:n], ", "), len(items)-n)
}
