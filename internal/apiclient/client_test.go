package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cybrain/reportbuilder/internal/api"
	"github.com/cybrain/reportbuilder/internal/config"
	"github.com/cybrain/reportbuilder/internal/models"
)

func sampleReport() models.Report {
	return models.Report{
		Meta: models.Meta{ReportType: models.ReportTypePentest, Title: "Q3 Pentest", PrimaryTargetID: "t1"},
		Targets: []models.Target{
			{ID: "t1", Type: "ip", Value: "10.0.0.1"},
		},
		Findings: []models.Finding{
			{ID: "f1", Title: "Weak TLS", Severity: "Medium", TargetID: "t1"},
			{ID: "f2", Title: "RCE", Severity: "Critical", TargetID: "t1"},
		},
	}
}

func newAPI(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Server.RateLimitRequests = 0
	ts := httptest.NewServer(api.NewServer(cfg, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestNewNilWhenEmpty(t *testing.T) {
	if c := New("  "); c != nil {
		t.Error("expected nil client when base URL is empty")
	}
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:5000/")
	if c.baseURL != "http://localhost:5000" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}

func TestNilClientErrors(t *testing.T) {
	var c *Client
	if _, err := c.Summarize(context.Background(), models.Report{}); err == nil {
		t.Error("expected error for nil client")
	}
}

func TestHealth(t *testing.T) {
	ts := newAPI(t)

	health, err := New(ts.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !health.OK || health.Service != api.ServiceName {
		t.Errorf("health = %+v", health)
	}
}

func TestSummarize(t *testing.T) {
	ts := newAPI(t)

	summary, err := New(ts.URL).Summarize(context.Background(), sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.OverallRisk != "Critical" {
		t.Errorf("OverallRisk = %q, want Critical", summary.OverallRisk)
	}
	if summary.FindingsCount != 2 || summary.TargetsCount != 1 {
		t.Errorf("counts = %d findings, %d targets", summary.FindingsCount, summary.TargetsCount)
	}
	if len(summary.TopFindings) != 2 || summary.TopFindings[0].ID != "f2" {
		t.Errorf("TopFindings = %+v", summary.TopFindings)
	}
}

func TestRenderPDF(t *testing.T) {
	ts := newAPI(t)

	data, err := New(ts.URL).RenderPDF(context.Background(), sampleReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Errorf("expected PDF bytes, got %q", string(data[:min(len(data), 16)]))
	}
}

func TestAPIErrorMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "request body must be a JSON object"})
	}))
	defer ts.Close()

	_, err := New(ts.URL).Summarize(context.Background(), models.Report{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "request body must be a JSON object" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestAPIErrorFallsBackToStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := New(ts.URL).Health(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Message != "502 Bad Gateway" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestRenderPDFRejectsWrongContentType(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer ts.Close()

	if _, err := New(ts.URL).RenderPDF(context.Background(), models.Report{}); err == nil {
		t.Error("expected error for non-PDF response")
	}
}

func TestCancelledContext(t *testing.T) {
	ts := newAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(ts.URL).Summarize(ctx, sampleReport()); err == nil {
		t.Error("expected error for cancelled context")
	}
}
