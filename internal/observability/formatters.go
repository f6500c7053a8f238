// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/careers-portal/internal/ats"
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
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes up to limit items under a heading.
func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintATSConfig outputs the weights and skill lists an evaluation uses.
func (p *Printer) PrintATSConfig(cfg ats.Config) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Threshold:      %d%%\n", cfg.MinAccuracyThreshold))
	if cfg.AutoRejectThreshold != nil {
		sb.WriteString(fmt.Sprintf("Auto-reject:    below %d%%\n", *cfg.AutoRejectThreshold))
	}
	if cfg.MinExperienceYears != nil {
		sb.WriteString(fmt.Sprintf("Min years:      %d\n", *cfg.MinExperienceYears))
	}
	if cfg.RequiredEducation != nil {
		sb.WriteString(fmt.Sprintf("Education:      %s\n", *cfg.RequiredEducation))
	}
	sb.WriteString(fmt.Sprintf("Weights:        skill %.2f, exp %.2f, edu %.2f, qual %.2f, fit %.2f\n",
		cfg.SkillWeight, cfg.ExperienceWeight, cfg.EducationWeight, cfg.QualificationWeight, cfg.OverallFitWeight))
	sb.WriteString("\n")

	writeList(&sb, "Required skills", cfg.RequiredSkills, maxItemsToShow)
	writeList(&sb, "Preferred skills", cfg.PreferredSkills, 3)

	p.printBox("ATS CONFIG", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBreakdown outputs the sub-scores and skill matches of an evaluation.
func (p *Printer) PrintBreakdown(b *ats.Breakdown) {
	if b == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Skill:          %5.1f\n", b.Skill))
	sb.WriteString(fmt.Sprintf("Experience:     %5.1f", b.Experience))
	if b.YearsExperience != nil {
		sb.WriteString(fmt.Sprintf(" (%.1f years)", *b.YearsExperience))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Education:      %5.1f\n", b.Education))
	sb.WriteString(fmt.Sprintf("Qualification:  %5.1f\n", b.Qualification))
	sb.WriteString(fmt.Sprintf("Overall fit:    %5.1f\n", b.OverallFit))
	sb.WriteString("\n")

	writeList(&sb, "Matched required", b.MatchedRequiredSkills, maxItemsToShow)
	writeList(&sb, "Missing required", b.MissingRequiredSkills, maxItemsToShow)
	writeList(&sb, "Matched preferred", b.MatchedPreferred, 3)

	p.printBox("SCORE BREAKDOWN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDecision outputs the accuracy and the automatic status it leads to.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintDecision(accuracy int, decision ats.Status) {
	mark := "✅"
	switch decision {
	case ats.StatusRejected:
		mark = "❌"
	case ats.StatusPending:
		mark = "⏳"
	}
	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fmt.Sprintf("%s ACCURACY %d%% → %s", mark, accuracy, strings.ToUpper(string(decision))))
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}
