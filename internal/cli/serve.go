package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cybrain/reportbuilder/internal/api"
	"github.com/cybrain/reportbuilder/internal/metrics"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the report builder HTTP API",
	Long: `Serve starts the HTTP API used by the web front end:

  GET  /api/health
  POST /api/compute-summary
  POST /api/export/pdf

Prometheus metrics are served on server.metrics_path (default /metrics).
The server shuts down gracefully on SIGINT or SIGTERM.

Example:
  cybrain serve
  cybrain serve --listen 0.0.0.0:8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "",
		"listen address (default from config, 127.0.0.1:5000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveListen != "" {
		cfg.Server.ListenAddr = serveListen
	}
	if err := cfg.Server.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(cfg, metrics.New())
	if err := server.Start(ctx); err != nil {
		logError("API server failed: %v", err)
		return err
	}

	logVerbose("API server stopped")
	return nil
}
