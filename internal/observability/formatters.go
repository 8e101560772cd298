// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resumer/internal/types"
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

// truncate shortens s to at most width runes
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// PrintResumeRecord outputs a human-readable summary of a parsed resume.
func (p *Printer) PrintResumeRecord(record *types.ResumeRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder
	info := record.PersonalInfo

	writeField(&sb, "Name", info.FullName)
	writeField(&sb, "Email", info.Email)
	writeField(&sb, "Phone", info.Phone)
	writeField(&sb, "Location", info.Location)
	writeField(&sb, "LinkedIn", info.LinkedIn)
	sb.WriteString("\n")

	if len(record.Experience) > 0 {
		sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(record.Experience)))
		count := min(len(record.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			exp := record.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s", exp.Title))
			if exp.Company != "" {
				sb.WriteString(fmt.Sprintf(" @ %s", exp.Company))
			}
			end := exp.EndDate
			if exp.Current {
				end = "present"
			}
			if exp.StartDate != "" || end != "" {
				sb.WriteString(fmt.Sprintf(" (%s - %s)", exp.StartDate, end))
			}
			sb.WriteString("\n")
		}
		writeMore(&sb, len(record.Experience))
		sb.WriteString("\n")
	}

	if len(record.Education) > 0 {
		sb.WriteString(fmt.Sprintf("Education (%d):\n", len(record.Education)))
		count := min(len(record.Education), maxItemsToShow)
		for i := 0; i < count; i++ {
			edu := record.Education[i]
			sb.WriteString(fmt.Sprintf("  • %s", edu.Degree))
			if edu.School != "" {
				sb.WriteString(fmt.Sprintf(", %s", edu.School))
			}
			if edu.GPA != "" {
				sb.WriteString(fmt.Sprintf(" (GPA %s)", edu.GPA))
			}
			sb.WriteString("\n")
		}
		writeMore(&sb, len(record.Education))
		sb.WriteString("\n")
	}

	writeList(&sb, "Technical", record.Skills.Technical)
	writeList(&sb, "Languages", record.Skills.Languages)
	writeList(&sb, "Certifications", record.Skills.Certifications)
	writeList(&sb, "Hobbies", record.Hobbies)

	profiles := record.CodingProfiles
	for _, profile := range []struct{ name, url string }{
		{"GitHub", profiles.GitHub},
		{"LeetCode", profiles.LeetCode},
		{"HackerRank", profiles.HackerRank},
		{"Codeforces", profiles.Codeforces},
		{"Kaggle", profiles.Kaggle},
		{"CodeChef", profiles.CodeChef},
	} {
		writeField(&sb, profile.name, profile.url)
	}

	p.printBox("PARSED RESUME", strings.TrimRight(sb.String(), "\n"))
}

// PrintErrorEnvelope outputs a failed parse.
func (p *Printer) PrintErrorEnvelope(envelope types.ErrorEnvelope) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Type:    %s\n", envelope.Type))
	sb.WriteString(fmt.Sprintf("Error:   %s\n", envelope.Error))
	if envelope.Details != "" {
		sb.WriteString(fmt.Sprintf("Details: %s\n", envelope.Details))
	}
	if envelope.RawContent != "" {
		sb.WriteString("\nRaw content:\n")
		lines := strings.Split(envelope.RawContent, "\n")
		count := min(len(lines), maxItemsToShow)
		for _, line := range lines[:count] {
			sb.WriteString("  " + line + "\n")
		}
		if len(lines) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more lines\n", len(lines)-maxItemsToShow))
		}
	}

	p.printBox("PARSE FAILED", strings.TrimSuffix(sb.String(), "\n"))
}

func writeField(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	sb.WriteString(fmt.Sprintf("%-10s %s\n", label+":", value))
}

func writeList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	shown := items[:min(len(items), maxItemsToShow)]
	sb.WriteString(fmt.Sprintf("%s: %s", label, strings.Join(shown, ", ")))
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf(" (+%d more)", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

func writeMore(sb *strings.Builder, total int) {
	if total > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", total-maxItemsToShow))
	}
}
