// Package observability provides logging setup and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-forge/internal/compile"
	"github.com/jonathan/resume-forge/internal/types"
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

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintMetrics outputs the aggregate figures of an intermediate document.
func (p *Printer) PrintMetrics(doc *types.IntermediateDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Person:     %s\n", doc.Person.Name))
	sb.WriteString(fmt.Sprintf("Language:   %s (%s)\n", doc.Lang, doc.Locale))
	sb.WriteString(fmt.Sprintf("Generated:  %s\n", doc.GeneratedAt))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Experience: %d years\n", doc.Metrics.ExperienceYears))
	sb.WriteString(fmt.Sprintf("Companies:  %d\n", doc.Metrics.Companies))
	sb.WriteString(fmt.Sprintf("Projects:   %d", doc.Metrics.Projects))

	p.printBox("INTERMEDIATE DOCUMENT", sb.String())
}

// PrintExperience outputs the assembled employer entries with their projects.
func (p *Printer) PrintExperience(entries []types.ExperienceEntry) {
	if len(entries) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Employers: %d\n\n", len(entries)))

	count := min(len(entries), maxItemsToShow)
	for i := 0; i < count; i++ {
		entry := entries[i]
		sb.WriteString(fmt.Sprintf("%s  %s\n", entry.Employer, span(entry.Start, entry.End)))
		if entry.Role != "" {
			sb.WriteString(fmt.Sprintf("    Role: %s\n", entry.Role))
		}
		if entry.DurationMonths != nil {
			sb.WriteString(fmt.Sprintf("    Months: %d\n", *entry.DurationMonths))
		}
		for _, project := range entry.Projects {
			sb.WriteString(fmt.Sprintf("    • %s\n", project.Name))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(entries) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more employers", len(entries)-maxItemsToShow))
	}

	p.printBox("EXPERIENCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkills outputs skill groups with usage durations for the top items.
func (p *Printer) PrintSkills(groups []types.SkillGroupOut) {
	if len(groups) == 0 {
		return
	}

	var sb strings.Builder
	for i, group := range groups {
		sb.WriteString(fmt.Sprintf("%s:\n", group.Group))
		count := min(len(group.Items), maxItemsToShow)
		for j := 0; j < count; j++ {
			item := group.Items[j]
			sb.WriteString(fmt.Sprintf("  • %s", item.Name))
			if item.Months > 0 {
				sb.WriteString(fmt.Sprintf(" (%.1fy)", item.Years))
			}
			sb.WriteString("\n")
		}
		if len(group.Items) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(group.Items)-maxItemsToShow))
		}
		if i < len(groups)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SKILLS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutcome outputs the result of a sandboxed compile.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintOutcome(outcome *compile.Outcome) {
	if outcome == nil {
		return
	}
	if outcome.Succeeded() {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ BUILD SUCCEEDED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Exit code: %d (%s)\n", outcome.ExitCode, outcome.ExitSource))
	sb.WriteString(fmt.Sprintf("Log:       %s\n\n", outcome.LogSource))
	sb.WriteString(compile.Tail(outcome.Log, maxItemsToShow*2))

	p.printBox("⚠ BUILD FAILED", strings.TrimSuffix(sb.String(), "\n"))
}

func span(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start + " - now"
	default:
		return start + " - " + end
	}
}
