//nolint:wrapcheck
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/urfave/cli/v3"
	"gonum.org/v1/plot/vg"

	"github.com/farcloser/wavewizard/internal/batch"
	"github.com/farcloser/wavewizard/internal/config"
	"github.com/farcloser/wavewizard/internal/render"
	"github.com/farcloser/wavewizard/internal/report"
)

const (
	defaultHTMLFile  = "wavewizard-report.html"
	defaultJSONLFile = "wavewizard-report.jsonl"
)

func reportCommand() *cli.Command {
	flags := append(inputFlags(), analysisFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "HTML report path (empty to skip)",
			Value:   defaultHTMLFile,
		},
		&cli.StringFlag{
			Name:  "jsonl",
			Usage: "JSONL report path (empty to skip)",
			Value: defaultJSONLFile,
		},
		&cli.StringFlag{
			Name:  "compression",
			Usage: "JSONL compression: none, gzip, zstd",
		},
		&cli.StringFlag{
			Name:  "parquet",
			Usage: "Also export the per-file records as parquet to this path",
		},
		&cli.BoolFlag{
			Name:  "no-plots",
			Usage: "Skip chart rendering",
		},
		&cli.BoolFlag{
			Name:  "redact-path",
			Usage: "Strip file paths from the JSONL and parquet reports",
		},
	)

	return &cli.Command{
		Name:      "report",
		Usage:     "Analyze audio files and write HTML, JSONL and parquet reports",
		ArgsUsage: "[file...]",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			cfg := settings.cfg

			if cmd.IsSet("compression") {
				cfg.Report.Compression = config.Compression(cmd.String("compression"))
			}

			if cmd.IsSet("parquet") {
				cfg.Report.Parquet = cmd.String("parquet")
			}

			if cmd.IsSet("redact-path") {
				cfg.Report.RedactPath = cmd.Bool("redact-path")
			}

			if cmd.IsSet("no-plots") {
				cfg.Plots.Disabled = cmd.Bool("no-plots")
			}

			if err = config.Validate(cfg); err != nil {
				return err
			}

			htmlPath := cmd.String("output")
			settings.batch.Plots = htmlPath != "" && !cfg.Plots.Disabled
			settings.batch.Render = render.Options{
				Width:  vg.Length(cfg.Plots.WidthCm) * vg.Centimeter,
				Height: vg.Length(cfg.Plots.HeightCm) * vg.Centimeter,
			}

			if !cmd.IsSet("workers") && cfg.Workers == 0 {
				settings.batch.Workers = runtime.NumCPU()
			}

			return runReport(ctx, settings, htmlPath, cmd.String("jsonl"))
		},
	}
}

func runReport(ctx context.Context, settings *settings, htmlPath, jsonlPath string) error {
	inputs, err := settings.inputs()
	if err != nil {
		return err
	}

	opts := settings.batch
	opts.Progress = func(done, total int, path string) {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", done, total, path)
	}

	fmt.Fprintf(os.Stderr, "Found %d files to analyze (%d workers)\n", len(inputs), max(opts.Workers, 1))

	startTime := time.Now()

	reports, err := batch.Run(ctx, inputs, opts)
	if err != nil {
		return err
	}

	elapsed := time.Since(startTime)
	cfg := settings.cfg

	if htmlPath != "" {
		if err = report.CreateHTML(htmlPath, reports); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "HTML report written to %s\n", htmlPath)
	}

	if cfg.Report.Parquet != "" {
		if err = report.CreateParquet(cfg.Report.Parquet, reports, cfg.Report.RedactPath); err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Parquet export written to %s\n", cfg.Report.Parquet)
	}

	printTiming(reports, elapsed)

	if jsonlPath == "" {
		return nil
	}

	written, err := report.CreateJSONL(jsonlPath, cfg.Report.Compression, report.NewRecords(reports, cfg.Report.RedactPath))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "JSONL report written to %s\n\n", written)

	return runDigest(written, "")
}

func printTiming(reports []batch.FileReport, elapsed time.Duration) {
	var (
		failed                             int
		totalLoad, totalAnalyze, totalPlot time.Duration
	)

	for i := range reports {
		if _, err := reports[i].Failure(); err != nil {
			failed++
		}

		totalLoad += reports[i].Load.Elapsed
		totalAnalyze += reports[i].Analysis.Elapsed
		totalPlot += reports[i].Plots.Elapsed
	}

	minutes := int(elapsed.Minutes())
	seconds := int(elapsed.Seconds()) % 60

	fmt.Fprintf(os.Stderr, "\nDone: %d files in %dm %ds (%d failed)\n", len(reports), minutes, seconds, failed)
	fmt.Fprintf(os.Stderr, "\n--- Timing ---\n")
	fmt.Fprintf(os.Stderr, "  Wall clock:  %s\n", elapsed.Truncate(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  decoding:    %s (cumulative)\n", totalLoad.Truncate(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  analysis:    %s (cumulative)\n", totalAnalyze.Truncate(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  plotting:    %s (cumulative)\n", totalPlot.Truncate(time.Millisecond))

	if analyzed := len(reports) - failed; analyzed > 0 {
		fmt.Fprintf(os.Stderr, "  avg/file:    %s\n", (totalLoad+totalAnalyze+totalPlot)/time.Duration(analyzed))
	}

	fmt.Fprintln(os.Stderr)
}
