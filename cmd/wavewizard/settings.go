//nolint:wrapcheck
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/wavewizard"
	"github.com/farcloser/wavewizard/internal/batch"
	"github.com/farcloser/wavewizard/internal/config"
	"github.com/farcloser/wavewizard/internal/decode"
)

var errUnknownCheck = errors.New("unknown check")

// inputFlags select the files to process.
func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "folder",
			Aliases: []string{"d"},
			Usage:   "Folder containing audio files",
		},
		&cli.BoolFlag{
			Name:    "recursive",
			Aliases: []string{"r"},
			Usage:   "Descend into subfolders of --folder",
		},
	}
}

// analysisFlags override the analysis section of the configuration file.
func analysisFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "checks",
			Aliases: []string{"C"},
			Usage:   "Comma-separated checks or presets: all, authenticity, fake-sample-rate, fake-bit-depth, dynamic-range",
			Value:   "all",
		},
		&cli.StringFlag{
			Name:    "source",
			Aliases: []string{"S"},
			Usage:   "Audio source type adjusting severity bands: digital, vinyl, live (default: vinyl when the path says so)",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Decoder: auto, native (PCM WAV only), ffmpeg",
		},
		&cli.FloatFlag{
			Name:  "resolution",
			Usage: "Target frequency resolution of the transform in Hz",
		},
		&cli.FloatFlag{
			Name:  "threshold-db",
			Usage: "Significance threshold below the spectral peak in dB (negative)",
		},
		&cli.FloatFlag{
			Name:  "noise-percentile",
			Usage: "Percentile of absolute sample values taken as the noise floor",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"j"},
			Usage:   "Number of files analyzed concurrently",
		},
	}
}

// settings is the configuration file with command line overrides applied.
type settings struct {
	cfg       *config.Config
	batch     batch.Options
	files     []string
	folder    string
	recursive bool
}

func loadSettings(cmd *cli.Command) (*settings, error) {
	cfg := &config.Config{}

	if path := cmd.String("config"); path != "" {
		var err error

		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	if cmd.IsSet("source") {
		cfg.Source = cmd.String("source")
	}

	if cmd.IsSet("backend") {
		cfg.Decoder.Backend = cmd.String("backend")
	}

	if cmd.IsSet("resolution") {
		cfg.Analysis.ResolutionHz = cmd.Float("resolution")
	}

	if cmd.IsSet("threshold-db") {
		cfg.Analysis.CutoffThresholdDb = cmd.Float("threshold-db")
	}

	if cmd.IsSet("noise-percentile") {
		cfg.Analysis.NoisePercentile = cmd.Float("noise-percentile")
	}

	if cmd.IsSet("workers") {
		cfg.Workers = cmd.Int("workers")
	}

	if cmd.IsSet("recursive") {
		cfg.Recursive = cmd.Bool("recursive")
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	checks, err := parseChecks(cmd.String("checks"))
	if err != nil {
		return nil, err
	}

	backend, err := decode.ParseBackend(cfg.Decoder.Backend)
	if err != nil {
		return nil, err
	}

	opts := cfg.Options()
	opts.Checks = checks

	return &settings{
		cfg: cfg,
		batch: batch.Options{
			Workers:  cfg.Workers,
			Backend:  backend,
			Analysis: opts,
			Source:   cfg.Source,
		},
		files:     cmd.Args().Slice(),
		folder:    cmd.String("folder"),
		recursive: cfg.Recursive,
	}, nil
}

func (s *settings) inputs() ([]string, error) {
	return batch.Inputs(s.files, s.folder, s.recursive)
}

//nolint:gochecknoglobals
var checkNames = map[string]wavewizard.Check{
	"fake-sample-rate": wavewizard.CheckFakeSampleRate,
	"fake-bit-depth":   wavewizard.CheckFakeBitDepth,
	"dynamic-range":    wavewizard.CheckDynamicRange,
	// Presets.
	"all":          wavewizard.ChecksAll,
	"authenticity": wavewizard.ChecksAuthenticity,
}

func parseChecks(raw string) (wavewizard.Check, error) {
	var result wavewizard.Check

	for name := range strings.SplitSeq(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		check, ok := checkNames[name]
		if !ok {
			return 0, fmt.Errorf("%w %q", errUnknownCheck, name)
		}

		result |= check
	}

	if result == 0 {
		return wavewizard.ChecksAll, nil
	}

	return result, nil
}
