package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/trends/internal/formatter"
	"github.com/desertthunder/trends/internal/models"
	"github.com/desertthunder/trends/internal/shared"
	"golang.org/x/sync/errgroup"
)

// SnapshotOpts contains configuration for exporting analytics across time ranges.
type SnapshotOpts struct {
	Format     string   // Export format: json, csv, markdown, txt
	OutputDir  string   // Base output directory (default: trends_snapshot_{epoch})
	TimeRanges []string // Time ranges to export (default: short, medium and long term)
	NumWorkers int      // Concurrent exports (default: one per time range)
}

// SnapshotFile is the outcome of exporting one time range.
type SnapshotFile struct {
	TimeRange string `json:"timeRange"`
	Path      string `json:"path,omitempty"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// SnapshotResult summarizes a snapshot run and is written as its manifest.
type SnapshotResult struct {
	OutputDirectory string         `json:"outputDirectory"`
	Format          string         `json:"format"`
	CreatedAt       time.Time      `json:"createdAt"`
	Files           []SnapshotFile `json:"files"`
	Successful      int            `json:"successful"`
	Failed          int            `json:"failed"`
	ManifestPath    string         `json:"-"`
}

// Snapshot generates and exports analytics for several time ranges concurrently.
//
// Each time range is written to {OutputDir}/{timeRange}{ext}. Repeated ranges are exported once,
// and a range containing a path separator is an [shared.ErrInvalidArgument]. A failed export is recorded in
// the result and does not stop the others. A manifest.json describing the run is written last.
func (e *AnalyticsEngine) Snapshot(
	ctx context.Context,
	credential string,
	opts SnapshotOpts,
	progress chan<- ProgressUpdate,
) (*SnapshotResult, error) {
	format, err := formatter.NormalizeFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("trends_snapshot_%d", time.Now().Unix())
	}
	if len(opts.TimeRanges) == 0 {
		opts.TimeRanges = []string{models.ShortTerm, models.MediumTerm, models.LongTerm}
	}
	opts.TimeRanges, err = snapshotRanges(opts.TimeRanges)
	if err != nil {
		return nil, err
	}
	if opts.NumWorkers <= 0 || opts.NumWorkers > len(opts.TimeRanges) {
		opts.NumWorkers = len(opts.TimeRanges)
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(opts.TimeRanges)
	result := &SnapshotResult{
		OutputDirectory: opts.OutputDir,
		Format:          format,
		CreatedAt:       time.Now().UTC(),
		Files:           make([]SnapshotFile, total),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.NumWorkers)

	for i, timeRange := range opts.TimeRanges {
		g.Go(func() error {
			file := e.exportTimeRange(gctx, credential, timeRange, format, opts.OutputDir)
			result.Files[i] = file
			if file.Success {
				e.sendProgress(progress, snapshotCompletedUpdate(i+1, total, timeRange, file.Path))
			} else {
				e.sendProgress(progress, snapshotFailedUpdate(i+1, total, timeRange, errors.New(file.Error)))
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	for _, file := range result.Files {
		if file.Success {
			result.Successful++
		} else {
			result.Failed++
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("snapshot completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// snapshotRanges drops repeated time ranges and rejects any that cannot be used as a file name
// inside the output directory.
func snapshotRanges(ranges []string) ([]string, error) {
	seen := make(map[string]bool, len(ranges))
	unique := make([]string, 0, len(ranges))
	for _, tr := range ranges {
		if tr == "" || tr == "." || tr == ".." || strings.ContainsAny(tr, `/\`) {
			return nil, fmt.Errorf("%w: time range %q cannot name a snapshot file", shared.ErrInvalidArgument, tr)
		}
		if seen[tr] {
			continue
		}
		seen[tr] = true
		unique = append(unique, tr)
	}
	return unique, nil
}

func (e *AnalyticsEngine) exportTimeRange(ctx context.Context, credential, timeRange, format, dir string) SnapshotFile {
	file := SnapshotFile{TimeRange: timeRange}

	analytics, err := e.Generate(ctx, timeRange, credential)
	if err != nil {
		file.Error = err.Error()
		return file
	}

	path := filepath.Join(dir, timeRange+formatter.Extension(format))
	if err := formatter.WriteExport(analytics, format, path); err != nil {
		e.logger.Error("snapshot export failed", "time_range", timeRange, "error", err)
		file.Error = err.Error()
		return file
	}

	file.Path = path
	file.Success = true
	return file
}
