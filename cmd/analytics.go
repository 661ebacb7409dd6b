package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/trends/internal/formatter"
	"github.com/desertthunder/trends/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Analytics generates the five analytics views once and prints or saves them.
func (r *Runner) Analytics(ctx context.Context, cmd *cli.Command) error {
	timeRange := cmd.String("time-range")
	outputFile := cmd.String("output")
	pretty := cmd.Bool("pretty")

	format, err := formatter.NormalizeFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	credential, err := r.credential(ctx, cmd)
	if err != nil {
		return err
	}

	progressCh, wait := r.logProgress()
	result, err := r.engine(cmd.String("upstream")).GenerateWithProgress(ctx, timeRange, credential, progressCh)
	close(progressCh)
	wait()

	if err != nil {
		return fmt.Errorf("failed to generate analytics: %w", err)
	}

	if outputFile != "" {
		if err := formatter.WriteExport(result, format, outputFile); err != nil {
			return err
		}
		r.logger.Info("analytics exported", "file", outputFile, "format", format)
		return r.writePlain("✓ Analytics (%s) exported to %s\n", timeRange, outputFile)
	}

	if format == formatter.FormatJSON {
		return r.writeJSON(result, pretty)
	}

	if format == formatter.FormatText {
		return formatter.WriteText(r.output, result)
	}

	data, err := formatter.Export(result, format, pretty)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// DNA prints the listener summary for a time range.
func (r *Runner) DNA(ctx context.Context, cmd *cli.Command) error {
	timeRange := cmd.String("time-range")

	credential, err := r.credential(ctx, cmd)
	if err != nil {
		return err
	}

	dna, err := r.engine(cmd.String("upstream")).DNA(ctx, timeRange, credential)
	if err != nil {
		return fmt.Errorf("failed to generate music dna: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(dna, true)
	}

	r.writePlainHeader(fmt.Sprintf("Music DNA (%s)", timeRange))
	return formatter.WriteDNAText(r.output, dna)
}

// Snapshot exports analytics for several time ranges into a directory.
func (r *Runner) Snapshot(ctx context.Context, cmd *cli.Command) error {
	credential, err := r.credential(ctx, cmd)
	if err != nil {
		return err
	}

	opts := tasks.SnapshotOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output-dir"),
		TimeRanges: cmd.StringSlice("time-range"),
		NumWorkers: int(cmd.Int("workers")),
	}

	progressCh := make(chan tasks.ProgressUpdate, 10)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progressCh {
			if update.Phase == tasks.ExportSnapshot {
				r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	result, err := r.engine(cmd.String("upstream")).Snapshot(ctx, credential, opts, progressCh)
	close(progressCh)
	wg.Wait()

	if err != nil && result == nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}

	r.writePlain("\n")
	r.writePlainHeader("Snapshot Complete")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Format: %s\n", result.Format)
	r.writePlain("Exported: %d/%d\n", result.Successful, len(result.Files))
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}

	for _, file := range result.Files {
		if !file.Success {
			r.writePlain("  ✗ %s: %s\n", file.TimeRange, file.Error)
		}
	}

	if err != nil {
		return fmt.Errorf("snapshot interrupted: %w", err)
	}
	if result.Failed > 0 {
		r.logger.Warn("snapshot finished with failures", "failed", result.Failed)
	}
	return nil
}

// logProgress starts a logger for engine progress. Close the channel, then call wait.
func (r *Runner) logProgress() (chan tasks.ProgressUpdate, func()) {
	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchTracks, tasks.FetchArtists:
				r.logger.Info(update.Message, "phase", update.Phase)
			default:
				r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
			}
		}
	}()

	return progressCh, func() { <-done }
}
