package tui

import (
	"sort"
	"strings"

	"github.com/cybrain/reportbuilder/internal/models"
	"github.com/cybrain/reportbuilder/internal/severity"
)

// filterState holds current active filters.
type filterState struct {
	Severity   string
	SearchText string
}

// sortField enumerates columns that can be sorted.
type sortField int

const (
	sortBySeverity sortField = iota
	sortByTitle
	sortByAsset
	sortByTarget
)

// sortFieldCount is the total number of sortable columns.
const sortFieldCount = 4

// applyFilters returns findings matching all active filters.
func applyFilters(findings []models.Finding, f filterState) []models.Finding {
	result := make([]models.Finding, 0, len(findings))
	searchLower := strings.ToLower(strings.TrimSpace(f.SearchText))

	for _, finding := range findings {
		if f.Severity != "" && finding.DisplaySeverity() != f.Severity {
			continue
		}
		if searchLower != "" && !matchesSearch(finding, searchLower) {
			continue
		}
		result = append(result, finding)
	}
	return result
}

func matchesSearch(finding models.Finding, searchLower string) bool {
	candidates := []string{
		finding.ID,
		finding.DisplayTitle(),
		finding.DisplaySeverity(),
		finding.Asset,
		finding.TargetID,
	}
	for _, value := range finding.Fields {
		candidates = append(candidates, value)
	}
	for _, c := range candidates {
		if strings.Contains(strings.ToLower(c), searchLower) {
			return true
		}
	}
	return false
}

// sortFindings sorts a slice of findings in place by the given field.
// Severity order is canonical rank with unrecognized values last.
func sortFindings(findings []models.Finding, field sortField) {
	sort.SliceStable(findings, func(i, j int) bool {
		switch field {
		case sortBySeverity:
			return findings[i].Level().Rank() < findings[j].Level().Rank()
		case sortByTitle:
			return strings.ToLower(findings[i].DisplayTitle()) < strings.ToLower(findings[j].DisplayTitle())
		case sortByAsset:
			return strings.TrimSpace(findings[i].Asset) < strings.TrimSpace(findings[j].Asset)
		case sortByTarget:
			return findings[i].TargetID < findings[j].TargetID
		default:
			return false
		}
	})
}

// uniqueSeverities returns the severities present in findings: canonical
// levels first in rank order, then unrecognized values sorted.
func uniqueSeverities(findings []models.Finding) []string {
	seen := make(map[string]bool)
	for _, f := range findings {
		seen[f.DisplaySeverity()] = true
	}

	result := make([]string, 0, len(seen))
	for _, level := range severity.Order {
		if seen[level.String()] {
			result = append(result, level.String())
			delete(seen, level.String())
		}
	}

	var other []string
	for s := range seen {
		other = append(other, s)
	}
	sort.Strings(other)
	return append(result, other...)
}

// sortFieldName returns a human-readable name for the sort field.
func sortFieldName(f sortField) string {
	switch f {
	case sortBySeverity:
		return "severity"
	case sortByTitle:
		return "title"
	case sortByAsset:
		return "asset"
	case sortByTarget:
		return "target"
	default:
		return "unknown"
	}
}
