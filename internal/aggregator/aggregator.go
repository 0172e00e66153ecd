package aggregator

import (
	"github.com/cybrain/reportbuilder/internal/models"
	"github.com/cybrain/reportbuilder/internal/severity"
)

// TopFindingsLimit caps the number of condensed findings in a Summary.
const TopFindingsLimit = 3

// Overall risk labels. Info is never an overall risk.
const (
	RiskCritical = "Critical"
	RiskHigh     = "High"
	RiskMedium   = "Medium"
	RiskLow      = "Low"
)

// Aggregator condenses a report into a Summary
type Aggregator struct {
	warnings *WarningGenerator
}

// New creates a new aggregator
func New() *Aggregator {
	return &Aggregator{
		warnings: NewWarningGenerator(),
	}
}

// Summarize computes severity counts, overall risk, top findings and
// data-quality warnings. It never fails; absent data counts as empty.
func (a *Aggregator) Summarize(report models.Report) models.Summary {
	summary := models.Summary{
		TopFindings:     []models.TopFinding{},
		Warnings:        []string{},
		TargetsCount:    len(report.Targets),
		FindingsCount:   len(report.Findings),
		PrimaryTargetID: primaryTargetID(report.Meta),
	}

	for _, f := range report.Findings {
		summary.CountsBySeverity = summary.CountsBySeverity.Add(f.Level())
	}

	summary.OverallRisk = OverallRisk(summary.CountsBySeverity)
	summary.TopFindings = topFindings(report.Findings)
	summary.Warnings = a.warnings.Generate(report)

	return summary
}

// Summarize is a convenience wrapper around New().Summarize.
func Summarize(report models.Report) models.Summary {
	return New().Summarize(report)
}

// OverallRisk applies the threshold policy to severity counts.
// Rules are checked in order and the first match wins.
func OverallRisk(counts models.SeverityCounts) string {
	switch {
	case counts.Critical >= 1:
		return RiskCritical
	case counts.High >= 2:
		return RiskHigh
	case counts.High == 1 || counts.Medium >= 3:
		return RiskMedium
	default:
		return RiskLow
	}
}

// topFindings returns up to TopFindingsLimit condensed findings, most
// severe first.
func topFindings(findings []models.Finding) []models.TopFinding {
	sorted := models.SortBySeverity(findings)
	if len(sorted) > TopFindingsLimit {
		sorted = sorted[:TopFindingsLimit]
	}

	top := make([]models.TopFinding, 0, len(sorted))
	for _, f := range sorted {
		top = append(top, condense(f))
	}
	return top
}

func primaryTargetID(meta models.Meta) *string {
	if meta.PrimaryTargetID == "" {
		return nil
	}
	id := meta.PrimaryTargetID
	return &id
}

func condense(f models.Finding) models.TopFinding {
	return models.TopFinding{
		ID:       f.ID,
		Title:    f.DisplayTitle(),
		Severity: f.DisplaySeverity(),
		TargetID: f.TargetID,
		Asset:    f.DisplayAsset(),
	}
}

// RiskRank orders overall risk labels like severities; unknown labels
// rank after Low.
func RiskRank(risk string) int {
	return severity.Parse(risk).Rank()
}
