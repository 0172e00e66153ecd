package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cybrain/reportbuilder/internal/aggregator"
	"github.com/cybrain/reportbuilder/internal/layout"
	"github.com/cybrain/reportbuilder/internal/models"
	"github.com/cybrain/reportbuilder/internal/render"
	"github.com/cybrain/reportbuilder/internal/reportio"
)

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true, Service: ServiceName})
}

func (s *Server) handleComputeSummary(c echo.Context) error {
	report, err := s.readReport(c)
	if err != nil {
		return err
	}

	summary := aggregator.Summarize(report)
	s.metrics.ObserveSummary(summary)

	return c.JSON(http.StatusOK, summary)
}

func (s *Server) handleExportPDF(c echo.Context) error {
	report, err := s.readReport(c)
	if err != nil {
		return err
	}

	start := time.Now()
	doc := layout.Build(report)
	data, err := render.PDF(doc, render.Options{Compress: s.render.Compress})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render document").SetInternal(err)
	}
	s.metrics.ObserveRender(len(doc.Pages), time.Since(start))

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", s.render.Filename))
	return c.Blob(http.StatusOK, "application/pdf", data)
}

// readReport reads, validates and decodes the request body. Failures are
// returned as client errors and counted by reason.
func (s *Server) readReport(c echo.Context) (models.Report, error) {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.metrics.ObserveRejected(ReasonTooLarge)
			return models.Report{}, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "request body too large")
		}
		return models.Report{}, echo.NewHTTPError(http.StatusBadRequest, "failed to read request body").SetInternal(err)
	}

	if err := ValidateReportPayload(raw, s.cfg.BodyLimitBytes); err != nil {
		var payloadErr *PayloadError
		if errors.As(err, &payloadErr) {
			s.metrics.ObserveRejected(payloadErr.Reason)
			code := http.StatusBadRequest
			if payloadErr.Reason == ReasonTooLarge {
				code = http.StatusRequestEntityTooLarge
			}
			return models.Report{}, echo.NewHTTPError(code, payloadErr.Message)
		}
		return models.Report{}, err
	}

	report, err := reportio.Decode(raw, reportio.FormatJSON)
	if err != nil {
		s.metrics.ObserveRejected(ReasonInvalidReport)
		return models.Report{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return report, nil
}
