package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cybrain/reportbuilder/internal/aggregator"
	"github.com/cybrain/reportbuilder/internal/models"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func baseReport() models.Report {
	return models.Report{
		Meta:    models.Meta{ReportType: "bugbounty", PrimaryTargetID: "t1"},
		Targets: []models.Target{{ID: "t1", Type: "domain", Value: "example.com"}},
		Findings: []models.Finding{
			{Title: "RCE", Severity: "Critical", Fields: models.Fields{"impact": "full compromise"}},
			{Title: "Banner", Severity: "Low", Fields: models.Fields{"impact": "none", "repro": "curl -I"}},
		},
	}
}

func evaluate(p *Policy, report models.Report) *Result {
	return p.Evaluate(aggregator.Summarize(report), report)
}

func TestEvaluateNilPolicy(t *testing.T) {
	var p *Policy
	result := evaluate(p, baseReport())
	if !result.Pass {
		t.Error("nil policy should pass")
	}
}

func TestEvaluateRules(t *testing.T) {
	tests := []struct {
		name     string
		rules    Rules
		wantPass bool
		wantRule string
	}{
		{"max findings pass", Rules{MaxFindings: intPtr(5)}, true, ""},
		{"max findings fail", Rules{MaxFindings: intPtr(1)}, false, "max_findings"},
		{"max critical pass", Rules{MaxCritical: intPtr(1)}, true, ""},
		{"max critical fail", Rules{MaxCritical: intPtr(0)}, false, "max_critical"},
		{"max high pass", Rules{MaxHigh: intPtr(0)}, true, ""},
		{"max risk critical allows all", Rules{MaxRisk: strPtr("Critical")}, true, ""},
		{"max risk high fails", Rules{MaxRisk: strPtr("High")}, false, "max_risk"},
		{"forbid warnings fail", Rules{ForbidWarnings: true}, false, "forbid_warnings"},
		{"require primary target pass", Rules{RequirePrimaryTarget: true}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Policy{Rules: tt.rules}
			result := evaluate(p, baseReport())
			if result.Pass != tt.wantPass {
				t.Fatalf("Pass = %v, want %v (violations: %v)", result.Pass, tt.wantPass, result.Violations)
			}
			if tt.wantRule != "" && (len(result.Violations) != 1 || result.Violations[0].Rule != tt.wantRule) {
				t.Errorf("expected one %s violation, got %v", tt.wantRule, result.Violations)
			}
		})
	}
}

func TestMaxRiskLowRejectsMedium(t *testing.T) {
	report := models.Report{Findings: []models.Finding{{Severity: "High"}}}
	result := evaluate(&Policy{Rules: Rules{MaxRisk: strPtr("Low")}}, report)
	if result.Pass {
		t.Error("Medium risk should exceed a Low maximum")
	}

	result = evaluate(&Policy{Rules: Rules{MaxRisk: strPtr("Medium")}}, report)
	if !result.Pass {
		t.Errorf("Medium risk should satisfy a Medium maximum: %v", result.Violations)
	}
}

func TestRequirePrimaryTargetFail(t *testing.T) {
	report := baseReport()
	report.Meta.PrimaryTargetID = "t9"

	result := evaluate(&Policy{Rules: Rules{RequirePrimaryTarget: true}}, report)
	if result.Pass {
		t.Fatal("expected fail for unresolved primary target")
	}
	if result.Violations[0].Rule != "require_primary_target" {
		t.Errorf("unexpected violation %v", result.Violations[0])
	}
}

func TestMultipleViolations(t *testing.T) {
	p := &Policy{Rules: Rules{
		MaxFindings:    intPtr(0),
		MaxCritical:    intPtr(0),
		MaxRisk:        strPtr("Low"),
		ForbidWarnings: true,
	}}
	result := evaluate(p, baseReport())
	if result.Pass {
		t.Fatal("expected fail")
	}
	if len(result.Violations) != 4 {
		t.Errorf("expected 4 violations, got %d: %v", len(result.Violations), result.Violations)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".cybrain-policy.yaml")
	content := `version: "1"
rules:
  max_critical: 0
  max_risk: Medium
  forbid_warnings: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if p.Version != "1" {
		t.Errorf("version = %q", p.Version)
	}
	if p.Rules.MaxCritical == nil || *p.Rules.MaxCritical != 0 {
		t.Errorf("max_critical = %v", p.Rules.MaxCritical)
	}
	if p.Rules.MaxRisk == nil || *p.Rules.MaxRisk != "Medium" {
		t.Errorf("max_risk = %v", p.Rules.MaxRisk)
	}
	if !p.Rules.ForbidWarnings || p.Rules.RequirePrimaryTarget {
		t.Errorf("unexpected flags: %+v", p.Rules)
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	p, err := LoadFromFile("/nonexistent/path")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if p != nil {
		t.Error("expected nil policy")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":     "rules: [",
		"bad risk":     "rules:\n  max_risk: Severe\n",
		"negative max": "rules:\n  max_high: -1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "policy.yaml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFromFile(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFindFrom(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	if got := findFrom(nested); got != "" {
		t.Errorf("expected no policy, got %s", got)
	}

	want := filepath.Join(root, "a", ".cybrain-policy.yml")
	if err := os.WriteFile(want, []byte("rules: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := findFrom(nested); got != want {
		t.Errorf("findFrom = %s, want %s", got, want)
	}
}
