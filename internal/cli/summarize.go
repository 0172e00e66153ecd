package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cybrain/reportbuilder/internal/aggregator"
	"github.com/cybrain/reportbuilder/internal/apiclient"
	"github.com/cybrain/reportbuilder/internal/models"
	"github.com/cybrain/reportbuilder/internal/reporter"
	"github.com/cybrain/reportbuilder/internal/reportio"
	"github.com/cybrain/reportbuilder/internal/tui"
)

var (
	// Summarize command flags
	summarizeFormat string
	summarizeTUI    bool
	summarizeServer string
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize <report|directory>",
	Short: "Show severity counts, overall risk and top findings",
	Long: `Summarize reads a JSON or YAML report and prints its risk digest.

This command displays:
- Findings per canonical severity
- Overall risk
- Up to three top findings
- Data-quality warnings for the report type

Use "-" to read the report from stdin. Given a directory, every report below
it is summarized; JSON output is an object keyed by file path.

Example:
  cybrain summarize report.json
  cybrain summarize report.yaml --format json
  cybrain summarize report.json --tui
  cybrain summarize ./reports --format json
  cybrain summarize report.json --server http://127.0.0.1:5000`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeFormat, "format", "f", "",
		"output format: text or json (default from config)")
	summarizeCmd.Flags().BoolVar(&summarizeTUI, "tui", false,
		"browse findings interactively (requires a terminal)")
	summarizeCmd.Flags().StringVar(&summarizeServer, "server", "",
		"compute the summary on a running API instead of locally")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	format := summarizeFormat
	if format == "" {
		format = cfg.Format
	}
	if format != "text" && format != "json" {
		return &ValidationError{Message: fmt.Sprintf("unsupported format: %s", format)}
	}

	if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
		return summarizeDirectory(cmd, args[0], format)
	}

	report, err := loadReport(args[0])
	if err != nil {
		return err
	}

	summary, err := computeSummary(cmd, report)
	if err != nil {
		logError("Failed to compute summary: %v", err)
		return err
	}

	if summarizeTUI {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return tui.Run(report, summary)
		}
		logVerbose("Stdout is not a terminal, falling back to %s output", format)
	}

	return writeSummary(cmd.OutOrStdout(), format, report, summary)
}

func summarizeDirectory(cmd *cobra.Command, dir, format string) error {
	ctx := commandContext(cmd)
	collector := reportio.New(reportio.Config{MaxConcurrency: cfg.Render.Concurrency})
	docs, err := collector.CollectFromDirectory(ctx, dir)
	if err != nil {
		logError("Failed to collect reports: %v", err)
		return err
	}

	w := cmd.OutOrStdout()
	summaries := make(map[string]models.Summary, len(docs))
	for _, doc := range docs {
		if doc.Err != nil {
			logError("Skipping %s: %v", doc.Path, doc.Err)
			continue
		}
		summary, err := computeSummary(cmd, doc.Report)
		if err != nil {
			logError("Failed to compute summary for %s: %v", doc.Path, err)
			return err
		}
		summaries[doc.Path] = summary

		if format == "text" {
			fmt.Fprintf(w, "==> %s <==\n", doc.Path)
			if err := writeSummary(w, format, doc.Report, summary); err != nil {
				return err
			}
			fmt.Fprintln(w)
		}
	}

	if format == "json" {
		if err := reporter.NewJSONReporter(w, true).GenerateBatch(summaries); err != nil {
			return err
		}
	}

	if failed := reportio.Failed(docs); failed > 0 {
		return &ValidationError{
			Message: fmt.Sprintf("%d of %d reports could not be decoded", failed, len(docs)),
		}
	}
	return nil
}

func computeSummary(cmd *cobra.Command, report models.Report) (models.Summary, error) {
	if summarizeServer == "" {
		return aggregator.Summarize(report), nil
	}

	logVerbose("Computing summary on %s", summarizeServer)
	summary, err := apiclient.New(summarizeServer).Summarize(commandContext(cmd), report)
	if err != nil {
		return models.Summary{}, err
	}
	return *summary, nil
}

func writeSummary(w io.Writer, format string, report models.Report, summary models.Summary) error {
	switch format {
	case "json":
		return reporter.NewJSONReporter(w, true).Generate(summary)
	default:
		return reporter.NewTextReporter(w).Generate(report, summary)
	}
}

// loadReport decodes the report at path. Undecodable content is an input
// error; a missing or unreadable file is a runtime error.
func loadReport(path string) (models.Report, error) {
	start := time.Now()
	report, err := reportio.LoadFile(path)
	if err != nil {
		var decodeErr *reportio.DecodeError
		if errors.As(err, &decodeErr) {
			return models.Report{}, &ValidationError{Message: decodeErr.Error()}
		}
		logError("Failed to read report: %v", err)
		return models.Report{}, err
	}

	logVerbose("Loaded %s: %d targets, %d findings", path, len(report.Targets), len(report.Findings))
	logDebug("Decoded %s in %v", path, time.Since(start))
	return report, nil
}
