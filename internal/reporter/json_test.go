package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cybrain/reportbuilder/internal/aggregator"
	"github.com/cybrain/reportbuilder/internal/models"
)

func sampleReport() models.Report {
	return models.Report{
		Meta: models.Meta{
			ReportType:      "bugbounty",
			Title:           "Program Submission",
			ClientName:      "Example Inc",
			PrimaryTargetID: "t1",
		},
		Targets: []models.Target{{ID: "t1", Type: "domain", Value: "app.example.com"}},
		Findings: []models.Finding{
			{ID: "f1", Title: "Stored XSS", Severity: "High", Asset: "app.example.com/profile"},
			{ID: "f2", Title: "Open redirect", Severity: "Medium", Fields: models.Fields{"repro": "r", "impact": "i"}},
			{ID: "f3", Title: "Odd one", Severity: "P2"},
		},
	}
}

func sampleSummary() models.Summary {
	return aggregator.Summarize(sampleReport())
}

func TestJSONReporterGenerate(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporter(&buf, false)

	if err := r.Generate(sampleSummary()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.HasSuffix(output, "\n") {
		t.Error("expected trailing newline")
	}
	if strings.Count(output, "\n") != 1 {
		t.Error("compact output should be a single line")
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	for _, key := range []string{"countsBySeverity", "overallRisk", "topFindings", "warnings", "targetsCount", "findingsCount", "primaryTargetId"} {
		if _, ok := result[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}

	counts, ok := result["countsBySeverity"].(map[string]interface{})
	if !ok || len(counts) != 5 {
		t.Errorf("expected exactly five severity buckets, got %v", result["countsBySeverity"])
	}
	if result["overallRisk"] != "Medium" {
		t.Errorf("overallRisk = %v, want Medium", result["overallRisk"])
	}
}

func TestJSONReporterGeneratePretty(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporter(&buf, true)

	if err := r.Generate(sampleSummary()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"overallRisk\"") {
		t.Errorf("expected indented output, got:\n%s", buf.String())
	}
}

func TestJSONReporterEmptyListsEncodeAsArrays(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONReporter(&buf, false).Generate(aggregator.Summarize(models.Report{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"topFindings":[]`) || !strings.Contains(out, `"warnings":[]`) {
		t.Errorf("empty lists should encode as [], got %s", out)
	}
}

func TestJSONReporterGenerateBatch(t *testing.T) {
	var buf bytes.Buffer
	summaries := map[string]models.Summary{
		"b.json": sampleSummary(),
		"a.json": aggregator.Summarize(models.Report{}),
	}

	if err := NewJSONReporter(&buf, false).GenerateBatch(summaries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result map[string]models.Summary
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if result["a.json"].OverallRisk != "Low" || result["b.json"].FindingsCount != 3 {
		t.Errorf("unexpected batch output: %+v", result)
	}
	if strings.Index(buf.String(), "a.json") > strings.Index(buf.String(), "b.json") {
		t.Error("batch keys should be sorted")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, bytes.ErrTooLarge
}

func TestJSONReporterWriteError(t *testing.T) {
	if err := NewJSONReporter(failingWriter{}, false).Generate(sampleSummary()); err == nil {
		t.Fatal("expected write error")
	}
}

func TestJSONReporterPrimaryTargetNull(t *testing.T) {
	tests := []struct {
		name string
		meta models.Meta
		want string
	}{
		{name: "absent", meta: models.Meta{}, want: `"primaryTargetId":null`},
		{name: "present", meta: models.Meta{PrimaryTargetID: "t1"}, want: `"primaryTargetId":"t1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			summary := aggregator.Summarize(models.Report{Meta: tt.meta})
			if err := NewJSONReporter(&buf, false).Generate(summary); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %s, want it to contain %s", buf.String(), tt.want)
			}
		})
	}
}
