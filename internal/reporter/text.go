package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/cybrain/reportbuilder/internal/models"
	"github.com/cybrain/reportbuilder/internal/severity"
)

// TextReporter generates human-readable summaries
type TextReporter struct {
	writer io.Writer
}

// NewTextReporter creates a new text reporter
func NewTextReporter(writer io.Writer) *TextReporter {
	return &TextReporter{
		writer: writer,
	}
}

// Generate writes the summary of report
func (r *TextReporter) Generate(report models.Report, summary models.Summary) error {
	r.printHeader()
	r.printMeta(report)
	r.printOverallSummary(summary)
	r.printTopFindings(summary.TopFindings)

	if len(summary.Warnings) > 0 {
		r.printWarnings(summary.Warnings)
	}

	return nil
}

// printHeader prints the report header
func (r *TextReporter) printHeader() {
	r.printf("╔════════════════════════════════════════════╗\n")
	r.printf("║         CyBrain Report Summary             ║\n")
	r.printf("╚════════════════════════════════════════════╝\n\n")
}

func (r *TextReporter) printMeta(report models.Report) {
	meta := report.Meta
	if meta.Title != "" {
		r.printf("Title: %s\n", meta.Title)
	}
	if client := meta.ClientLabel(); client != "" {
		r.printf("Client/Org: %s\n", client)
	}
	if meta.ReportType != "" {
		r.printf("Report Type: %s\n", meta.ReportType)
	}
	if target, ok := report.PrimaryTarget(); ok {
		r.printf("Primary Target: %s (%s)\n", target.Value, target.Type)
	}
	r.printf("\n")
}

// printOverallSummary prints totals, risk and severity counts
func (r *TextReporter) printOverallSummary(summary models.Summary) {
	r.printf("Overall Summary:\n")
	r.printf("--------------------------------------------------\n")
	r.printf("  Targets: %d\n", summary.TargetsCount)
	r.printf("  Findings: %d", summary.FindingsCount)

	if unranked := summary.FindingsCount - summary.CountsBySeverity.Total(); unranked > 0 {
		r.printf(" (%d with unrecognized severity)", unranked)
	}

	r.printf("\n")
	r.printf("  Overall Risk: %s\n\n", strings.ToUpper(summary.OverallRisk))

	r.printf("Findings by Severity:\n")
	for _, level := range severity.Order {
		r.printf("  %-9s %d\n", level.String()+":", summary.CountsBySeverity.Get(level))
	}
	r.printf("\n")
}

// printTopFindings prints the highest-ranked findings
func (r *TextReporter) printTopFindings(top []models.TopFinding) {
	r.printf("Top Findings:\n")
	r.printf("--------------------------------------------------\n")

	if len(top) == 0 {
		r.printf("  No findings.\n")
		return
	}

	for i, f := range top {
		r.printf("  %d. [%s] %s\n", i+1, strings.ToUpper(f.Severity), f.Title)
		if f.Asset != "" {
			r.printf("     Asset: %s\n", f.Asset)
		}
	}
}

// printWarnings prints data-quality warnings
func (r *TextReporter) printWarnings(warnings []string) {
	r.printf("\nWarnings:\n")
	r.printf("--------------------------------------------------\n")
	for _, w := range warnings {
		r.printf("  ⚠ %s\n", w)
	}
}

// printf is a helper to write formatted output
func (r *TextReporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.writer, format, args...)
}
