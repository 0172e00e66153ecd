package reportio

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cybrain/reportbuilder/internal/models"
)

// Config holds configuration for the collector
type Config struct {
	MaxConcurrency int
	Timeout        time.Duration
}

// Collector loads every report file under a directory
type Collector struct {
	config Config
}

// Document is one collected report file. Err is set when the file could not
// be loaded; the other documents are still returned.
type Document struct {
	Path   string
	Report models.Report
	Err    error
}

// New creates a new collector with the given configuration
func New(config Config) *Collector {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Minute
	}

	return &Collector{
		config: config,
	}
}

// CollectFromDirectory loads all .json, .yaml and .yml files under dir,
// sorted by path.
func (c *Collector) CollectFromDirectory(ctx context.Context, dir string) ([]Document, error) {
	files, err := findReportFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to find report files: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no report files found in directory: %s", dir)
	}

	slog.Debug("collecting reports", "dir", dir, "files", len(files))
	return c.CollectFromPaths(ctx, files)
}

// CollectFromPaths loads the given files concurrently.
func (c *Collector) CollectFromPaths(ctx context.Context, paths []string) ([]Document, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no report files given")
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	docs := make([]Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.MaxConcurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := LoadFile(path)
			docs[i] = Document{Path: path, Report: report, Err: err}
			if err != nil {
				slog.Warn("failed to load report", "path", path, "err", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("collection interrupted: %w", err)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Path < docs[j].Path
	})
	return docs, nil
}

// findReportFiles recursively finds report files in a directory
func findReportFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsReportFile(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})

	return files, err
}

// Failed counts documents that could not be loaded.
func Failed(docs []Document) int {
	n := 0
	for _, d := range docs {
		if d.Err != nil {
			n++
		}
	}
	return n
}
