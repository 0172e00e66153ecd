// Package metrics records API activity for Prometheus scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cybrain/reportbuilder/internal/models"
)

// Recorder owns a private registry and the report builder's collectors.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	summariesTotal   *prometheus.CounterVec
	documentsTotal   prometheus.Counter
	documentPages    prometheus.Histogram
	renderDuration   prometheus.Histogram
	requestsTotal    *prometheus.CounterVec
	rejectedPayloads *prometheus.CounterVec
}

// New creates a recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
	}

	r.summariesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cybrain_summaries_total",
			Help: "Total number of report summaries computed",
		},
		[]string{"overall_risk"},
	)

	r.documentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cybrain_documents_rendered_total",
			Help: "Total number of PDF documents rendered",
		},
	)

	r.documentPages = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cybrain_document_pages",
			Help:    "Page count distribution of rendered documents",
			Buckets: []float64{5, 6, 8, 10, 15, 20, 30, 50, 100},
		},
	)

	r.renderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cybrain_render_duration_seconds",
			Help:    "Time spent laying out and rendering a document",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
	)

	r.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cybrain_http_requests_total",
			Help: "Total number of API requests handled",
		},
		[]string{"route", "code"},
	)

	r.rejectedPayloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cybrain_rejected_payloads_total",
			Help: "Total number of report payloads rejected before processing",
		},
		[]string{"reason"},
	)

	r.registry.MustRegister(
		r.summariesTotal,
		r.documentsTotal,
		r.documentPages,
		r.renderDuration,
		r.requestsTotal,
		r.rejectedPayloads,
	)

	return r
}

// ObserveSummary counts a computed summary by its overall risk.
func (r *Recorder) ObserveSummary(summary models.Summary) {
	if r == nil {
		return
	}
	r.summariesTotal.WithLabelValues(summary.OverallRisk).Inc()
}

// ObserveRender records a rendered document.
func (r *Recorder) ObserveRender(pages int, d time.Duration) {
	if r == nil {
		return
	}
	r.documentsTotal.Inc()
	r.documentPages.Observe(float64(pages))
	r.renderDuration.Observe(d.Seconds())
}

// ObserveRequest counts a handled request by route pattern and status code.
func (r *Recorder) ObserveRequest(route string, code int) {
	if r == nil {
		return
	}
	r.requestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// ObserveRejected counts a payload rejected for reason.
func (r *Recorder) ObserveRejected(reason string) {
	if r == nil {
		return
	}
	r.rejectedPayloads.WithLabelValues(reason).Inc()
}

// Registry exposes the private registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
