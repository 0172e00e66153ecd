package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cybrain/reportbuilder/internal/apiclient"
	"github.com/cybrain/reportbuilder/internal/models"
	"github.com/cybrain/reportbuilder/internal/render"
	"github.com/cybrain/reportbuilder/internal/reportio"
)

var (
	// Render command flags
	renderOutput     string
	renderServer     string
	renderNoCompress bool
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <report|directory>",
	Short: "Export a report as a paginated A4 PDF",
	Long: `Render lays out a report (cover, executive summary, findings, appendix)
and writes it as a PDF.

Given a directory, every .json, .yaml and .yml report below it is rendered
concurrently into the output directory, keeping the relative layout.

Example:
  cybrain render report.json
  cybrain render report.yaml -o acme.pdf
  cybrain render ./reports -o ./pdf
  cybrain render report.json --server http://127.0.0.1:5000`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "",
		"output file, or output directory for a report directory (default from config)")
	renderCmd.Flags().StringVar(&renderServer, "server", "",
		"render on a running API instead of locally")
	renderCmd.Flags().BoolVar(&renderNoCompress, "no-compress", false,
		"disable PDF stream compression")
}

func runRender(cmd *cobra.Command, args []string) error {
	input := args[0]

	if input != "-" {
		info, err := os.Stat(input)
		if err != nil {
			logError("Failed to access input: %v", err)
			return err
		}
		if info.IsDir() {
			return renderDirectory(cmd, input)
		}
	}

	report, err := loadReport(input)
	if err != nil {
		return err
	}

	output := singleOutputPath(renderOutput, cfg.Render.Filename)
	if err := renderToFile(commandContext(cmd), report, output); err != nil {
		logError("Failed to render %s: %v", input, err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
	return nil
}

func renderDirectory(cmd *cobra.Command, dir string) error {
	ctx := commandContext(cmd)
	collector := reportio.New(reportio.Config{MaxConcurrency: cfg.Render.Concurrency})
	docs, err := collector.CollectFromDirectory(ctx, dir)
	if err != nil {
		logError("Failed to collect reports: %v", err)
		return err
	}

	outDir := renderOutput
	if outDir == "" {
		outDir = "."
	}

	logVerbose("Rendering %d reports from %s into %s", len(docs), dir, outDir)

	outputs, err := planOutputs(dir, outDir, docs)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Render.Concurrency)

	for i, doc := range docs {
		if doc.Err != nil {
			continue
		}
		doc := doc
		out := outputs[i]
		g.Go(func() error {
			if err := renderToFile(gctx, doc.Report, out); err != nil {
				return fmt.Errorf("render %s: %w", doc.Path, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logError("%v", err)
		return err
	}

	w := cmd.OutOrStdout()
	for i, doc := range docs {
		if doc.Err != nil {
			fmt.Fprintf(w, "SKIPPED %s: %v\n", doc.Path, doc.Err)
			continue
		}
		fmt.Fprintf(w, "Wrote %s\n", outputs[i])
	}

	if failed := reportio.Failed(docs); failed > 0 {
		return &ValidationError{
			Message: fmt.Sprintf("%d of %d reports could not be decoded", failed, len(docs)),
		}
	}
	return nil
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// renderToFile renders report and writes it to path via a temp file and
// rename.
func renderToFile(ctx context.Context, report models.Report, path string) error {
	start := time.Now()
	data, err := renderBytes(ctx, report)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write pdf: %w", err)
	}

	logDebug("Rendered %s (%d bytes) in %v", path, len(data), time.Since(start))
	return nil
}

func renderBytes(ctx context.Context, report models.Report) ([]byte, error) {
	if renderServer != "" {
		return apiclient.New(renderServer).RenderPDF(ctx, report)
	}

	opts := render.DefaultOptions()
	opts.Compress = cfg.Render.Compress && !renderNoCompress
	return render.Report(report, opts)
}

// singleOutputPath resolves -o for a single report. An existing directory
// receives the configured filename.
func singleOutputPath(output, filename string) string {
	if filename == "" {
		filename = render.DefaultFilename
	}
	if output == "" {
		return filename
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, filename)
	}
	return output
}

// planOutputs resolves the PDF path of every decodable document. Two
// reports that map to the same PDF (acme.json and acme.yaml) are an input
// error and nothing is rendered.
func planOutputs(inDir, outDir string, docs []reportio.Document) ([]string, error) {
	outputs := make([]string, len(docs))
	claimed := make(map[string]string, len(docs))
	for i, doc := range docs {
		if doc.Err != nil {
			continue
		}
		out, err := directoryOutputPath(inDir, outDir, doc.Path)
		if err != nil {
			return nil, err
		}
		if prev, ok := claimed[out]; ok {
			return nil, &ValidationError{
				Message: fmt.Sprintf("%s and %s both render to %s", prev, doc.Path, out),
			}
		}
		claimed[out] = doc.Path
		outputs[i] = out
	}
	return outputs, nil
}

// directoryOutputPath maps a report under inDir to a PDF under outDir with
// the same relative path.
func directoryOutputPath(inDir, outDir, path string) (string, error) {
	rel, err := filepath.Rel(inDir, path)
	if err != nil {
		return "", fmt.Errorf("resolve output for %s: %w", path, err)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".pdf"
	return filepath.Join(outDir, rel), nil
}
