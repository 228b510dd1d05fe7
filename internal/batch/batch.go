// Package batch runs the per-file pipeline (load, analyze, plot) over many inputs.
// A failure in one file never stops the others.
package batch

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/farcloser/wavewizard"
	"github.com/farcloser/wavewizard/internal/decode"
	"github.com/farcloser/wavewizard/internal/render"
	"github.com/farcloser/wavewizard/internal/types"
)

// Options configures a batch run.
type Options struct {
	Workers  int // concurrent files, default 1
	Backend  decode.Backend
	Analysis wavewizard.Options
	// Source overrides the severity bands of every file. Empty detects vinyl rips from their path.
	Source string
	Plots  bool
	Render render.Options
	// Progress, when set, is called after each file. Calls may come from several goroutines.
	Progress func(done, total int, path string)
}

// LoadInfo is what the load stage keeps once PCM has been consumed.
type LoadInfo struct {
	Format        types.PCMFormat
	BitDepthLabel string
	Backend       decode.Backend
}

// FileReport holds the outcome of every stage for one input. Stages after a failure do not run.
type FileReport struct {
	Path     string
	Source   wavewizard.Source
	Load     Outcome[LoadInfo]
	Analysis Outcome[*wavewizard.Result]
	Plots    Outcome[*render.Images]
	Total    time.Duration
}

// Failure returns the first failing stage and its error, or ("", nil).
func (r *FileReport) Failure() (Stage, error) {
	switch {
	case r.Load.Err != nil:
		return StageLoad, r.Load.Err
	case r.Analysis.Err != nil:
		return StageAnalysis, r.Analysis.Err
	case r.Plots.Err != nil:
		return StagePlot, r.Plots.Err
	}

	return "", nil
}

// Run processes every path and returns one report per path, in input order.
// Cancelling ctx stops scheduling new files; the reports of unscheduled files carry the context error.
func Run(ctx context.Context, paths []string, opts Options) ([]FileReport, error) {
	reports := make([]FileReport, len(paths))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(opts.Workers, 1))

	var progress atomic.Int64

	for idx, path := range paths {
		if ctx.Err() != nil {
			reports[idx] = FileReport{Path: path, Load: Outcome[LoadInfo]{Err: ctx.Err(), Ran: true}}

			continue
		}

		group.Go(func() error {
			reports[idx] = Process(ctx, path, opts)

			if opts.Progress != nil {
				opts.Progress(int(progress.Add(1)), len(paths), path)
			}

			return nil
		})
	}

	err := group.Wait()

	return reports, err
}

// Process runs the pipeline on a single file.
func Process(ctx context.Context, path string, opts Options) (report FileReport) {
	start := time.Now()
	report.Path = path

	defer func() {
		report.Total = time.Since(start)
	}()

	source, err := detectSource(path, opts.Source)
	if err != nil {
		report.Load = Outcome[LoadInfo]{Err: err, Ran: true}

		return report
	}

	report.Source = source

	var audio *decode.Audio

	report.Load = measure(func() (LoadInfo, error) {
		var loadErr error

		audio, loadErr = decode.Load(ctx, path, opts.Backend)
		if loadErr != nil {
			return LoadInfo{}, loadErr
		}

		return LoadInfo{Format: audio.Format, BitDepthLabel: audio.BitDepthLabel, Backend: opts.Backend}, nil
	})
	if report.Load.Err != nil {
		slog.Debug("batch.Process", "file path", path, "stage", StageLoad, "error", report.Load.Err)

		return report
	}

	wave := audio.Waveform()

	report.Analysis = measure(func() (*wavewizard.Result, error) {
		return wavewizard.Analyze(wavewizard.Input{
			Waveform:      wave,
			Format:        audio.Format,
			BitDepthLabel: audio.BitDepthLabel,
			Reader:        audio.Reader,
		}, withSource(opts.Analysis, source))
	})
	if report.Analysis.Err != nil {
		slog.Debug("batch.Process", "file path", path, "stage", StageAnalysis, "error", report.Analysis.Err)

		return report
	}

	result := report.Analysis.Value

	if opts.Plots {
		report.Plots = measure(func() (*render.Images, error) {
			return render.All(wave, result.Spectral, result.Features, opts.Render)
		})
		if report.Plots.Err != nil {
			slog.Debug("batch.Process", "file path", path, "stage", StagePlot, "error", report.Plots.Err)
		}
	}

	result.ReleaseSpectrogram()

	return report
}

// detectSource honours an explicit override, otherwise treats files under a "vinyl" directory as vinyl rips.
func detectSource(path, override string) (wavewizard.Source, error) {
	if override != "" {
		return wavewizard.ParseSource(override)
	}

	if strings.Contains(strings.ToLower(filepath.Dir(path)), "vinyl") {
		return wavewizard.SourceVinyl, nil
	}

	return wavewizard.SourceDigital, nil
}

// withSource swaps the severity bands for those of the source, keeping analyzer parameters.
func withSource(opts wavewizard.Options, source wavewizard.Source) wavewizard.Options {
	preset := wavewizard.OptionsForSource(source)
	opts.SampleRate = preset.SampleRate
	opts.DynamicRange = preset.DynamicRange

	return opts
}
