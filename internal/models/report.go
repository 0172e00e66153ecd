package models

import (
	"sort"
	"strings"

	"github.com/cybrain/reportbuilder/internal/severity"
)

// Report types named by the built-in data-quality checks.
const (
	ReportTypeBugBounty = "bugbounty"
	ReportTypeOSINT     = "osint"
	ReportTypePentest   = "pentest"
)

// Field keys recognized in Finding.Fields.
const (
	FieldDescription    = "description"
	FieldImpact         = "impact"
	FieldRecommendation = "recommendation"
	FieldProof          = "proof"
	FieldRepro          = "repro"
	FieldEvidenceRef    = "evidenceRef"
)

// Defaults applied when a finding leaves title or severity blank.
const (
	DefaultFindingTitle    = "Untitled Finding"
	DefaultFindingSeverity = "Info"
)

// Report is a security-assessment report as submitted by a caller.
// Every field is optional; absent containers behave as empty.
type Report struct {
	Meta     Meta      `json:"meta" yaml:"meta"`
	Targets  []Target  `json:"targets" yaml:"targets"`
	Findings []Finding `json:"findings" yaml:"findings"`
}

// Meta describes who the report is for and what kind of engagement produced it.
type Meta struct {
	ReportType      string `json:"reportType" yaml:"reportType"`
	Provider        string `json:"provider,omitempty" yaml:"provider,omitempty"` // offsec, htb, thm
	ExamName        string `json:"examName,omitempty" yaml:"examName,omitempty"`
	Title           string `json:"title" yaml:"title"`
	ClientName      string `json:"clientName" yaml:"clientName"`
	IsPersonalLab   bool   `json:"isPersonalLab" yaml:"isPersonalLab"`
	AuthorName      string `json:"authorName" yaml:"authorName"`
	Date            string `json:"date" yaml:"date"`
	PrimaryTargetID string `json:"primaryTargetId" yaml:"primaryTargetId"`
}

// Target is an assessed asset: a domain, host, repository, account and so on.
type Target struct {
	ID    string   `json:"id" yaml:"id"`
	Type  string   `json:"type" yaml:"type"`
	Value string   `json:"value" yaml:"value"`
	Tags  []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Scope string   `json:"scope,omitempty" yaml:"scope,omitempty"` // in, out
	Notes string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Finding is a single reported issue.
type Finding struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Severity string `json:"severity" yaml:"severity"` // free-form; see severity.Parse
	TargetID string `json:"targetId" yaml:"targetId"`
	Asset    string `json:"asset" yaml:"asset"`
	Fields   Fields `json:"fields" yaml:"fields"`
}

// Fields holds the free-form detail blocks of a finding, keyed by name.
type Fields map[string]string

// Text returns the trimmed value stored under key, or "" when absent.
func (f Fields) Text(key string) string {
	return strings.TrimSpace(f[key])
}

// Level returns the canonical severity of the finding.
func (f Finding) Level() severity.Level {
	return severity.Parse(f.Severity)
}

// DisplayTitle returns the trimmed title, or the default when blank.
func (f Finding) DisplayTitle() string {
	if title := strings.TrimSpace(f.Title); title != "" {
		return title
	}
	return DefaultFindingTitle
}

// DisplayAsset returns the trimmed asset.
func (f Finding) DisplayAsset() string {
	return strings.TrimSpace(f.Asset)
}

// DisplaySeverity returns the trimmed severity string, or "Info" when blank.
// Unranked values are returned as written.
func (f Finding) DisplaySeverity() string {
	if sev := strings.TrimSpace(f.Severity); sev != "" {
		return sev
	}
	return DefaultFindingSeverity
}

// PrimaryTarget resolves Meta.PrimaryTargetID against the report's targets.
// The first target with a matching ID wins.
func (r Report) PrimaryTarget() (Target, bool) {
	if r.Meta.PrimaryTargetID == "" {
		return Target{}, false
	}
	for _, t := range r.Targets {
		if t.ID == r.Meta.PrimaryTargetID {
			return t, true
		}
	}
	return Target{}, false
}

// NormalizedReportType returns the trimmed, lower-cased report type.
func (m Meta) NormalizedReportType() string {
	return strings.ToLower(strings.TrimSpace(m.ReportType))
}

// ClientLabel returns the client name, falling back to "Personal/Lab" for
// personal lab reports.
func (m Meta) ClientLabel() string {
	if m.ClientName != "" {
		return m.ClientName
	}
	if m.IsPersonalLab {
		return "Personal/Lab"
	}
	return ""
}

// SortBySeverity returns a copy of findings ordered by canonical severity
// rank. Findings of equal rank keep their original relative order, and
// unranked findings come last.
func SortBySeverity(findings []Finding) []Finding {
	sorted := make([]Finding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Level().Rank() < sorted[j].Level().Rank()
	})
	return sorted
}
