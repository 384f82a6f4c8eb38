// Package observability provides formatted output for the command line.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/career-coach/internal/db"
	"github.com/jonathan/career-coach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
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

// truncate shortens s to at most width runes
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// PrintMatches outputs the scored matches of a search, best first as returned.
func (p *Printer) PrintMatches(query string, matches []types.JobMatch) {
	var sb strings.Builder
	if query != "" {
		sb.WriteString(fmt.Sprintf("Query: %s\n", query))
	}
	sb.WriteString(fmt.Sprintf("Matches: %d\n", len(matches)))

	for i, m := range matches {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, m.Title))
		sb.WriteString(fmt.Sprintf("    %s · %s\n", m.Company, matchLocation(m)))
		sb.WriteString(fmt.Sprintf("    Score: %.0f%%", m.MatchScore*100))
		if len(m.MatchReasons) > 0 {
			sb.WriteString(fmt.Sprintf(" (%s)", strings.Join(m.MatchReasons, ", ")))
		}
		sb.WriteString("\n")
		if m.URL != nil && *m.URL != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", *m.URL))
		}
	}

	p.printBox("JOB MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

func matchLocation(m types.JobMatch) string {
	loc := "Location not specified"
	if m.Location != nil && *m.Location != "" {
		loc = *m.Location
	}
	if m.Remote {
		loc += " (remote)"
	}
	return loc
}

// PrintStats outputs job counts, with the largest role categories first.
func (p *Printer) PrintStats(stats db.JobStats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total jobs:   %d\n", stats.TotalJobs))
	sb.WriteString(fmt.Sprintf("Remote jobs:  %d\n", stats.RemoteJobs))

	if len(stats.ByRole) > 0 {
		roles := make([]string, 0, len(stats.ByRole))
		for role := range stats.ByRole {
			roles = append(roles, role)
		}
		sort.Slice(roles, func(i, j int) bool {
			if stats.ByRole[roles[i]] != stats.ByRole[roles[j]] {
				return stats.ByRole[roles[i]] > stats.ByRole[roles[j]]
			}
			return roles[i] < roles[j]
		})

		sb.WriteString("\nBy role:\n")
		count := min(len(roles), maxItemsToShow)
		for _, role := range roles[:count] {
			sb.WriteString(fmt.Sprintf("  • %-12s %d\n", role, stats.ByRole[role]))
		}
		if len(roles) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(roles)-maxItemsToShow))
		}
	}

	p.printBox("JOB MARKET", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJob outputs a single job record.
func (p *Printer) PrintJob(job *db.JobRecord) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", job.Title))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", orDash(job.Company)))
	sb.WriteString(fmt.Sprintf("Location: %s\n", orDash(job.Location)))
	sb.WriteString(fmt.Sprintf("Remote:   %t\n", job.Remote))
	if job.Salary != nil {
		sb.WriteString(fmt.Sprintf("Rate:     %s\n", *job.Salary))
	}
	if job.URL != nil {
		sb.WriteString(fmt.Sprintf("URL:      %s\n", *job.URL))
	}

	p.printBox("JOB "+job.ID, strings.TrimSuffix(sb.String(), "\n"))
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
