package tui

import (
	"fmt"
	"strings"

	"github.com/cybrain/reportbuilder/internal/models"
	"github.com/cybrain/reportbuilder/internal/severity"
)

// headerHeight is the number of terminal lines the header occupies.
const headerHeight = 6

// renderHeader produces the header string from the report and its summary.
func renderHeader(report models.Report, summary models.Summary, width int) string {
	var b strings.Builder

	// Line 1: risk and title
	riskText := severityStyle(severity.Parse(summary.OverallRisk)).Render(strings.ToUpper(summary.OverallRisk))
	b.WriteString(fmt.Sprintf("CyBrain  Risk: %s", riskText))
	if title := strings.TrimSpace(report.Meta.Title); title != "" {
		b.WriteString("  " + title)
	}
	b.WriteString("\n")

	// Line 2: totals
	b.WriteString(fmt.Sprintf("Targets: %d  Findings: %d", summary.TargetsCount, summary.FindingsCount))
	if target, ok := report.PrimaryTarget(); ok {
		b.WriteString(fmt.Sprintf("  Primary: %s", target.Value))
	}
	b.WriteString("\n")

	// Line 3: severity breakdown
	sevParts := make([]string, 0, len(severity.Order))
	for _, level := range severity.Order {
		if count := summary.CountsBySeverity.Get(level); count > 0 {
			label := fmt.Sprintf("%s:%d", level.String()[:1], count)
			sevParts = append(sevParts, severityStyle(level).Render(label))
		}
	}
	if len(sevParts) > 0 {
		b.WriteString(strings.Join(sevParts, "  "))
	}
	b.WriteString("\n")

	// Line 4: warnings
	if n := len(summary.Warnings); n > 0 {
		line := "⚠ " + summary.Warnings[0]
		if n > 1 {
			line += fmt.Sprintf(" (+%d more)", n-1)
		}
		b.WriteString(styleWarning.Render(line))
	}

	return styleHeader.Width(width).Render(b.String())
}
