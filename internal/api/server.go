// Package api serves report summaries and PDF exports over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/cybrain/reportbuilder/internal/config"
	"github.com/cybrain/reportbuilder/internal/metrics"
)

// Route paths.
const (
	RouteHealth         = "/api/health"
	RouteComputeSummary = "/api/compute-summary"
	RouteExportPDF      = "/api/export/pdf"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "cybrain-report-builder-api"

// Server is the report builder HTTP API.
type Server struct {
	echo    *echo.Echo
	cfg     config.ServerConfig
	render  config.RenderConfig
	metrics *metrics.Recorder
}

// NewServer wires routes and middlewares. rec may be nil to disable metrics.
func NewServer(cfg *config.Config, rec *metrics.Recorder) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		cfg:     cfg.Server,
		render:  cfg.Render,
		metrics: rec,
	}

	s.registerMiddlewares()
	s.registerRoutes()
	return s
}

func (s *Server) registerMiddlewares() {
	e := s.echo

	e.Use(recoverer())
	e.Use(requestLogger(s.metrics))
	e.Use(echo.WrapMiddleware(SecurityHeaders))
	if s.cfg.RateLimitRequests > 0 {
		e.Use(echo.WrapMiddleware(RateLimitPerIP(s.cfg.RateLimitRequests, s.cfg.RateLimitWindow)))
	}
	e.Use(echo.WrapMiddleware(BodySizeLimit(s.cfg.BodyLimitBytes)))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper: func(c echo.Context) bool {
			return !strings.HasPrefix(c.Request().URL.Path, "/api/")
		},
		AllowOrigins:  s.cfg.AllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, echo.HeaderAccept},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))

	e.HTTPErrorHandler = errorHandler
}

func (s *Server) registerRoutes() {
	e := s.echo

	e.GET(RouteHealth, s.handleHealth)
	e.POST(RouteComputeSummary, s.handleComputeSummary)
	e.POST(RouteExportPDF, s.handleExportPDF)

	if s.cfg.MetricsPath != "" && s.metrics != nil {
		e.GET(s.cfg.MetricsPath, echo.WrapHandler(s.metrics.Handler()))
	}
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on the configured address until ctx is cancelled, then
// drains in-flight requests within the shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("api listening", "addr", s.cfg.ListenAddr)
		errCh <- s.echo.Start(s.cfg.ListenAddr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	slog.Info("shutting down api", "timeout", s.cfg.ShutdownTimeout)
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// requestLogger logs each handled request and counts it by route.
func requestLogger(rec *metrics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			rec.ObserveRequest(route, status)

			if c.Request().URL.Path != RouteHealth {
				slog.Info("handled request",
					"method", c.Request().Method,
					"url", c.Request().URL,
					"status", status,
					"duration", time.Since(start))
			}
			return err
		}
	}
}

// recoverer turns a handler panic into a 500 response.
func recoverer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (returnErr error) {
			defer func() {
				if r := recover(); r != nil {
					if r == http.ErrAbortHandler {
						panic(r)
					}
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					slog.Error("recovered from panic", "err", err, "path", c.Request().URL.Path)
					returnErr = echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).SetInternal(err)
				}
			}()
			return next(c)
		}
	}
}

// errorHandler logs err and writes it as {"error": "..."}.
func errorHandler(err error, c echo.Context) {
	he := &echo.HTTPError{
		Code:    http.StatusInternalServerError,
		Message: http.StatusText(http.StatusInternalServerError),
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		he = httpErr
	}

	level := slog.LevelWarn
	if he.Code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(c.Request().Context(), level, err.Error(), "method", c.Request().Method, "path", c.Request().URL.Path)

	if c.Response().Committed {
		return
	}

	msg := fmt.Sprint(he.Message)
	if m, ok := he.Message.(error); ok {
		msg = m.Error()
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = c.JSON(he.Code, errorBody{Error: msg})
	}
	if err != nil {
		slog.Error("could not send error response", "err", err)
	}
}
