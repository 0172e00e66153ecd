package models

import "github.com/cybrain/reportbuilder/internal/severity"

// Summary is the machine-readable risk digest of a report.
type Summary struct {
	CountsBySeverity SeverityCounts `json:"countsBySeverity"`
	OverallRisk      string         `json:"overallRisk"` // Critical, High, Medium, Low
	TopFindings      []TopFinding   `json:"topFindings"`
	Warnings         []string       `json:"warnings"`
	TargetsCount     int            `json:"targetsCount"`
	FindingsCount    int            `json:"findingsCount"`
	PrimaryTargetID  *string        `json:"primaryTargetId"` // nil when the report names none
}

// SeverityCounts holds one bucket per canonical severity.
// Field order matches severity.Order so encoded output is canonical.
type SeverityCounts struct {
	Critical int `json:"Critical"`
	High     int `json:"High"`
	Medium   int `json:"Medium"`
	Low      int `json:"Low"`
	Info     int `json:"Info"`
}

// Get returns the count for level; unranked levels have none.
func (c SeverityCounts) Get(level severity.Level) int {
	switch level {
	case severity.Critical:
		return c.Critical
	case severity.High:
		return c.High
	case severity.Medium:
		return c.Medium
	case severity.Low:
		return c.Low
	case severity.Info:
		return c.Info
	default:
		return 0
	}
}

// Add returns a copy of c with level incremented. Unranked levels are ignored.
func (c SeverityCounts) Add(level severity.Level) SeverityCounts {
	switch level {
	case severity.Critical:
		c.Critical++
	case severity.High:
		c.High++
	case severity.Medium:
		c.Medium++
	case severity.Low:
		c.Low++
	case severity.Info:
		c.Info++
	}
	return c
}

// Total returns the number of ranked findings counted.
func (c SeverityCounts) Total() int {
	return c.Critical + c.High + c.Medium + c.Low + c.Info
}

// TopFinding is the condensed form of a finding listed in a Summary.
type TopFinding struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Severity string `json:"severity"`
	TargetID string `json:"targetId"`
	Asset    string `json:"asset"`
}
