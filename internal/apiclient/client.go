package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cybrain/reportbuilder/internal/api"
	"github.com/cybrain/reportbuilder/internal/models"
)

// DefaultTimeout bounds a single API call.
const DefaultTimeout = 30 * time.Second

// Client talks to a running report builder API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an API client. Returns nil if baseURL is empty.
func New(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// APIError is a non-success response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// Health checks that the API is up.
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, api.RouteHealth, nil)
	if err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var health api.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &health, nil
}

// Summarize computes a report summary remotely.
func (c *Client) Summarize(ctx context.Context, report models.Report) (*models.Summary, error) {
	resp, err := c.postReport(ctx, api.RouteComputeSummary, report)
	if err != nil {
		return nil, fmt.Errorf("compute summary: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var summary models.Summary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &summary, nil
}

// RenderPDF exports a report remotely and returns the PDF bytes.
func (c *Client) RenderPDF(ctx context.Context, report models.Report) ([]byte, error) {
	resp, err := c.postReport(ctx, api.RouteExportPDF, report)
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		return nil, fmt.Errorf("export pdf: unexpected content type %q", ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return data, nil
}

func (c *Client) postReport(ctx context.Context, route string, report models.Report) (*http.Response, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return c.do(ctx, http.MethodPost, route, body)
}

// do sends the request and turns any non-200 response into an *APIError.
func (c *Client) do(ctx context.Context, method, route string, body []byte) (*http.Response, error) {
	if c == nil {
		return nil, fmt.Errorf("no API server configured")
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+route, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		var errResp map[string]string
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp["error"]
		if msg == "" {
			msg = resp.Status
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return resp, nil
}
