package aggregator

import "github.com/cybrain/reportbuilder/internal/models"

// Warning messages emitted by the data-quality checks.
const (
	WarnMissingRepro       = "Some findings are missing Steps to Reproduce (recommended for Bug Bounty)."
	WarnMissingImpact      = "Some findings are missing Impact (recommended for Bug Bounty)."
	WarnMissingEvidenceRef = "Some OSINT findings are missing Evidence Reference (recommended)."
)

// fieldRule fires its message when any finding leaves field blank.
type fieldRule struct {
	field   string
	message string
}

// WarningGenerator runs soft data-quality checks keyed by report type
type WarningGenerator struct {
	rules map[string][]fieldRule
}

// NewWarningGenerator creates a generator with the built-in report type rules
func NewWarningGenerator() *WarningGenerator {
	return &WarningGenerator{
		rules: map[string][]fieldRule{
			models.ReportTypeBugBounty: {
				{field: models.FieldRepro, message: WarnMissingRepro},
				{field: models.FieldImpact, message: WarnMissingImpact},
			},
			models.ReportTypeOSINT: {
				{field: models.FieldEvidenceRef, message: WarnMissingEvidenceRef},
			},
		},
	}
}

// Generate returns the warnings for report in rule order. Report types
// without rules produce none.
func (w *WarningGenerator) Generate(report models.Report) []string {
	var warnings []string
	for _, rule := range w.rules[report.Meta.NormalizedReportType()] {
		if anyMissing(report.Findings, rule.field) {
			warnings = append(warnings, rule.message)
		}
	}
	return dedupe(warnings)
}

// anyMissing stops at the first finding with a blank field.
func anyMissing(findings []models.Finding, field string) bool {
	for _, f := range findings {
		if f.Fields.Text(field) == "" {
			return true
		}
	}
	return false
}

// dedupe drops repeated strings, keeping first occurrences in order.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
