// Package config loads the optional YAML configuration file.
//
//nolint:tagliatelle
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/farcloser/wavewizard"
	"github.com/farcloser/wavewizard/internal/decode"
)

var ErrInvalid = errors.New("invalid configuration")

// Compression of the JSONL report.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// IsValid reports whether c is a known compression. Empty means default.
func (c Compression) IsValid() bool {
	switch c {
	case "", CompressionNone, CompressionGzip, CompressionZstd:
		return true
	}

	return false
}

// Config is the file layout. Zero values keep the built-in defaults.
type Config struct {
	Source    string   `yaml:"source"`
	Workers   int      `yaml:"workers"`
	Recursive bool     `yaml:"recursive"`
	Analysis  Analysis `yaml:"analysis"`
	Decoder   Decoder  `yaml:"decoder"`
	Plots     Plots    `yaml:"plots"`
	Report    Report   `yaml:"report"`
}

type Analysis struct {
	ResolutionHz      float64 `yaml:"resolution_hz"`
	CutoffThresholdDb float64 `yaml:"cutoff_threshold_db"`
	NoisePercentile   float64 `yaml:"noise_percentile"`
	TopDb             float64 `yaml:"top_db"`
	RolloffPercent    float64 `yaml:"rolloff_percent"`
}

type Decoder struct {
	Backend string `yaml:"backend"`
}

type Plots struct {
	Disabled bool    `yaml:"disabled"`
	WidthCm  float64 `yaml:"width_cm"`
	HeightCm float64 `yaml:"height_cm"`
}

type Report struct {
	Compression Compression `yaml:"compression"`
	Parquet     string      `yaml:"parquet"`
	RedactPath  bool        `yaml:"redact_path"`
}

// Load reads the YAML configuration file at path and returns a validated Config.
func Load(path string) (*Config, error) {
	//nolint:gosec // path is intentionally user-provided
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer file.Close()

	cfg, err := LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}

	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// An empty document yields the zero Config.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate returns a joined error listing every invalid value.
func Validate(cfg *Config) error {
	var errs []error

	if _, err := wavewizard.ParseSource(cfg.Source); err != nil {
		errs = append(errs, fmt.Errorf("%w: source: %w", ErrInvalid, err))
	}

	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers %d must not be negative", ErrInvalid, cfg.Workers))
	}

	if cfg.Analysis.ResolutionHz < 0 {
		errs = append(errs, fmt.Errorf("%w: analysis.resolution_hz %.2f must be positive", ErrInvalid,
			cfg.Analysis.ResolutionHz))
	}

	if cfg.Analysis.CutoffThresholdDb > 0 {
		errs = append(errs, fmt.Errorf("%w: analysis.cutoff_threshold_db %.2f must be below 0", ErrInvalid,
			cfg.Analysis.CutoffThresholdDb))
	}

	if p := cfg.Analysis.NoisePercentile; p < 0 || p >= 100 {
		errs = append(errs, fmt.Errorf("%w: analysis.noise_percentile %.3f is out of range [0, 100)", ErrInvalid, p))
	}

	if p := cfg.Analysis.RolloffPercent; p < 0 || p >= 1 {
		errs = append(errs, fmt.Errorf("%w: analysis.rolloff_percent %.3f is out of range [0, 1)", ErrInvalid, p))
	}

	if _, err := decode.ParseBackend(cfg.Decoder.Backend); err != nil {
		errs = append(errs, fmt.Errorf("%w: decoder.backend: %w", ErrInvalid, err))
	}

	if cfg.Plots.WidthCm < 0 || cfg.Plots.HeightCm < 0 {
		errs = append(errs, fmt.Errorf("%w: plots dimensions must not be negative", ErrInvalid))
	}

	if !cfg.Report.Compression.IsValid() {
		errs = append(errs, fmt.Errorf("%w: report.compression %q (valid: none, gzip, zstd)", ErrInvalid,
			cfg.Report.Compression))
	}

	return errors.Join(errs...)
}

// Options returns the analysis options for the configured source, with file overrides applied.
func (cfg *Config) Options() wavewizard.Options {
	source, _ := wavewizard.ParseSource(cfg.Source)
	opts := wavewizard.OptionsForSource(source)

	if v := cfg.Analysis.ResolutionHz; v != 0 {
		opts.ResolutionHz = v
	}

	if v := cfg.Analysis.CutoffThresholdDb; v != 0 {
		opts.CutoffThresholdDb = v
	}

	if v := cfg.Analysis.NoisePercentile; v != 0 {
		opts.NoisePercentile = v
	}

	if v := cfg.Analysis.TopDb; v != 0 {
		opts.TopDb = v
	}

	if v := cfg.Analysis.RolloffPercent; v != 0 {
		opts.RolloffPercent = v
	}

	return opts
}
