package policy

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cybrain/reportbuilder/internal/aggregator"
	"github.com/cybrain/reportbuilder/internal/models"
)

// FileNames are the policy files FindPolicyFile looks for.
var FileNames = []string{".cybrain-policy.yaml", ".cybrain-policy.yml"}

// Policy defines acceptance rules for a report before it is delivered.
type Policy struct {
	Version string `yaml:"version"`
	Rules   Rules  `yaml:"rules"`
}

// Rules contains all configurable policy rules.
type Rules struct {
	MaxFindings          *int    `yaml:"max_findings,omitempty"`
	MaxCritical          *int    `yaml:"max_critical,omitempty"`
	MaxHigh              *int    `yaml:"max_high,omitempty"`
	MaxRisk              *string `yaml:"max_risk,omitempty"`
	ForbidWarnings       bool    `yaml:"forbid_warnings,omitempty"`
	RequirePrimaryTarget bool    `yaml:"require_primary_target,omitempty"`
}

// Violation is a single policy failure.
type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Result holds the outcome of a policy check.
type Result struct {
	Pass       bool        `json:"pass"`
	Violations []Violation `json:"violations"`
}

// LoadFromFile reads a policy file. A missing file yields a nil policy.
func LoadFromFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read policy: %w", err)
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Validate rejects rules that can never be evaluated.
func (p *Policy) Validate() error {
	if p.Rules.MaxRisk != nil {
		switch *p.Rules.MaxRisk {
		case aggregator.RiskCritical, aggregator.RiskHigh, aggregator.RiskMedium, aggregator.RiskLow:
		default:
			return fmt.Errorf("invalid max_risk %q (must be Critical, High, Medium or Low)", *p.Rules.MaxRisk)
		}
	}
	for name, v := range map[string]*int{"max_findings": p.Rules.MaxFindings, "max_critical": p.Rules.MaxCritical, "max_high": p.Rules.MaxHigh} {
		if v != nil && *v < 0 {
			return fmt.Errorf("invalid %s %d (must be >= 0)", name, *v)
		}
	}
	return nil
}

// FindPolicyFile searches for a policy file in the current directory
// and parent directories up to the filesystem root.
func FindPolicyFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findFrom(dir)
}

func findFrom(dir string) string {
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// Evaluate checks a report and its summary against the policy rules.
func (p *Policy) Evaluate(summary models.Summary, report models.Report) *Result {
	if p == nil {
		return &Result{Pass: true}
	}

	violations := []Violation{}

	// max_findings
	if p.Rules.MaxFindings != nil {
		if summary.FindingsCount > *p.Rules.MaxFindings {
			violations = append(violations, Violation{
				Rule:    "max_findings",
				Message: fmt.Sprintf("total findings %d exceeds limit %d", summary.FindingsCount, *p.Rules.MaxFindings),
			})
		}
	}

	// max_critical
	if p.Rules.MaxCritical != nil {
		count := summary.CountsBySeverity.Critical
		if count > *p.Rules.MaxCritical {
			violations = append(violations, Violation{
				Rule:    "max_critical",
				Message: fmt.Sprintf("critical findings %d exceeds limit %d", count, *p.Rules.MaxCritical),
			})
		}
	}

	// max_high
	if p.Rules.MaxHigh != nil {
		count := summary.CountsBySeverity.High
		if count > *p.Rules.MaxHigh {
			violations = append(violations, Violation{
				Rule:    "max_high",
				Message: fmt.Sprintf("high findings %d exceeds limit %d", count, *p.Rules.MaxHigh),
			})
		}
	}

	// max_risk
	if p.Rules.MaxRisk != nil {
		if aggregator.RiskRank(summary.OverallRisk) < aggregator.RiskRank(*p.Rules.MaxRisk) {
			violations = append(violations, Violation{
				Rule:    "max_risk",
				Message: fmt.Sprintf("overall risk %s exceeds maximum %s", summary.OverallRisk, *p.Rules.MaxRisk),
			})
		}
	}

	// forbid_warnings
	if p.Rules.ForbidWarnings {
		for _, w := range summary.Warnings {
			violations = append(violations, Violation{
				Rule:    "forbid_warnings",
				Message: w,
			})
		}
	}

	// require_primary_target
	if p.Rules.RequirePrimaryTarget {
		if _, ok := report.PrimaryTarget(); !ok {
			violations = append(violations, Violation{
				Rule:    "require_primary_target",
				Message: fmt.Sprintf("primary target %q does not match any target", report.Meta.PrimaryTargetID),
			})
		}
	}

	return &Result{
		Pass:       len(violations) == 0,
		Violations: violations,
	}
}
