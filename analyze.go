//nolint:wrapcheck
package wavewizard

import (
	"fmt"
	"io"

	"github.com/farcloser/wavewizard/internal/audit/bandwidth"
	"github.com/farcloser/wavewizard/internal/audit/bitdepth"
	"github.com/farcloser/wavewizard/internal/audit/dynamics"
	"github.com/farcloser/wavewizard/internal/audit/fftparams"
	"github.com/farcloser/wavewizard/internal/audit/spectral"
	"github.com/farcloser/wavewizard/internal/types"
)

/*
Usage:

audio, err := decode.Load(ctx, path, decode.BackendAuto)
input := wavewizard.Input{
    Waveform:      audio.Waveform(),
    Format:        audio.Format,
    BitDepthLabel: audio.BitDepthLabel,
    Reader:        audio.Reader,
}
result, err := wavewizard.Analyze(input, wavewizard.DefaultOptions())
if result.Summary.SignificantCutoffHz != nil {
    fmt.Printf("Content up to %.2f Hz\n", *result.Summary.SignificantCutoffHz)
}

// Sample rate check only
opts := wavewizard.DefaultOptions()
opts.Checks = wavewizard.CheckFakeSampleRate
result, err := wavewizard.Analyze(wavewizard.Input{Waveform: wave, Format: format}, opts)

// Finer threshold and custom bands
opts := wavewizard.DefaultOptions()
opts.CutoffThresholdDb = -60
opts.SampleRate = wavewizard.Bands{Mild: 15, Moderate: 30, Severe: 45}

// Source-aware (adjusts bands for vinyl/live characteristics)
opts := wavewizard.OptionsForSource(wavewizard.SourceVinyl)

// Iterate issues
for _, issue := range result.Issues {
    if issue.Detected {
        fmt.Printf("[%s] %s\n", issue.Severity, issue.Summary)
    }
}
*/

// Check represents a high-level audio quality check.
type Check int

const (
	CheckFakeSampleRate Check = 1 << iota
	CheckFakeBitDepth
	CheckDynamicRange

	// Presets.
	ChecksAuthenticity = CheckFakeSampleRate | CheckFakeBitDepth

	ChecksAll = ChecksAuthenticity | CheckDynamicRange
)

func (c Check) String() string {
	switch c {
	case CheckFakeSampleRate:
		return "fake-sample-rate"
	case CheckFakeBitDepth:
		return "fake-bit-depth"
	case CheckDynamicRange:
		return "dynamic-range"
	}

	return "unknown"
}

// Severity indicates how bad a detected issue is.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMild
	SeverityModerate
	SeveritySevere
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "no issue"
	case SeverityMild:
		return "mild"
	case SeverityModerate:
		return "moderate"
	case SeveritySevere:
		return "severe"
	}

	return "unknown"
}

// Issue represents a detected problem.
type Issue struct {
	Check      Check
	Detected   bool
	Severity   Severity
	Summary    string  // human-readable summary
	Confidence float64 // 0.0-1.0
}

// Bands defines severity thresholds for a check. Direction is implicit:
// if Mild < Severe, higher values are worse (ascending, e.g. missing bandwidth).
// If Mild > Severe, lower values are worse (descending).
type Bands struct {
	Mild     float64
	Moderate float64
	Severe   float64
}

// Match returns the severity for a value.
// Returns (SeverityNone, false) when the value is below detection (the Mild threshold).
func (b Bands) Match(value float64) (Severity, bool) {
	if b.Mild <= b.Severe {
		switch {
		case value >= b.Severe:
			return SeveritySevere, true
		case value >= b.Moderate:
			return SeverityModerate, true
		case value >= b.Mild:
			return SeverityMild, true
		}
	} else {
		switch {
		case value <= b.Severe:
			return SeveritySevere, true
		case value <= b.Moderate:
			return SeverityModerate, true
		case value <= b.Mild:
			return SeverityMild, true
		}
	}

	return SeverityNone, false
}

// Options configures the analysis.
type Options struct {
	Checks Check // which checks to run (default: ChecksAll)

	// Analyzer parameters (zero value = use defaults).
	ResolutionHz      float64 // target frequency resolution of the transform, default 10
	CutoffThresholdDb float64 // significance threshold below the spectral peak, default -80
	NoisePercentile   float64 // percentile of |x| taken as the noise floor, default 0.1
	TopDb             float64 // range kept in the dB spectrogram, default 80
	RolloffPercent    float64 // spectral roll-off share, default 0.85

	// Severity bands per check (zero value = use defaults).
	SampleRate   Bands // percentage of the claimed bandwidth with no content
	DynamicRange Bands // bits of nominal depth not backed by dynamic range
}

// DefaultOptions returns DefaultDigitalOptions.
func DefaultOptions() Options {
	return DefaultDigitalOptions()
}

// DefaultDigitalOptions returns options for clean digital recordings.
func DefaultDigitalOptions() Options {
	return Options{
		Checks:            ChecksAll,
		ResolutionHz:      fftparams.DefaultResolutionHz,
		CutoffThresholdDb: bandwidth.DefaultThresholdDb,
		NoisePercentile:   dynamics.DefaultNoisePercentile,
		TopDb:             spectral.DefaultTopDb,
		RolloffPercent:    spectral.DefaultRolloffPercent,
		SampleRate:        Bands{Mild: 10, Moderate: 25, Severe: 40},
		DynamicRange:      Bands{Mild: 6, Moderate: 9, Severe: 12},
	}
}

// DefaultVinylOptions returns options for vinyl rips.
// The medium itself rarely carries content past 25 kHz and its surface noise caps the dynamic range.
func DefaultVinylOptions() Options {
	opts := DefaultDigitalOptions()
	opts.SampleRate = Bands{Mild: 60, Moderate: 70, Severe: 80}
	opts.DynamicRange = Bands{Mild: 8, Moderate: 11, Severe: 14}

	return opts
}

// DefaultLiveOptions returns options for live recordings.
// Higher tolerance for ambient noise eating into the dynamic range.
func DefaultLiveOptions() Options {
	opts := DefaultDigitalOptions()
	opts.DynamicRange = Bands{Mild: 7, Moderate: 10, Severe: 13}

	return opts
}

// Source represents the audio source type, which adjusts detection thresholds
// to account for characteristics inherent to the medium.
type Source int

const (
	SourceDigital Source = iota // Clean digital recording (default).
	SourceVinyl                 // Vinyl rip. Limited bandwidth and dynamic range.
	SourceLive                  // Live recording. Ambient noise tolerance.
)

func (s Source) String() string {
	switch s {
	case SourceDigital:
		return "digital"
	case SourceVinyl:
		return "vinyl"
	case SourceLive:
		return "live"
	}

	return "unknown"
}

// ParseSource converts a string to a Source value.
func ParseSource(s string) (Source, error) {
	switch s {
	case "digital", "":
		return SourceDigital, nil
	case "vinyl":
		return SourceVinyl, nil
	case "live":
		return SourceLive, nil
	default:
		return 0, fmt.Errorf("%w %q (valid: digital, vinyl, live)", ErrUnknownSource, s)
	}
}

// OptionsForSource returns the default Options for the given source type.
func OptionsForSource(source Source) Options {
	switch source {
	case SourceVinyl:
		return DefaultVinylOptions()
	case SourceLive:
		return DefaultLiveOptions()
	default:
		return DefaultDigitalOptions()
	}
}

// ReaderFactory provides fresh readers over the interleaved PCM the waveform was mixed from.
type ReaderFactory func() io.Reader

// Input is a decoded file as handed to Analyze.
type Input struct {
	Waveform      *types.Waveform // mono, normalized; never modified
	Format        types.PCMFormat // layout of the PCM served by Reader
	BitDepthLabel string          // opaque, display only
	Reader        ReaderFactory   // nil skips the bit depth authenticity check
}

// Analyze runs the analysis pipeline on a decoded file.
func Analyze(input Input, opts Options) (*Result, error) {
	wave, format, factory := input.Waveform, input.Format, input.Reader

	if opts.Checks == 0 {
		opts.Checks = ChecksAll
	}

	applyDefaults(&opts)

	if wave == nil || len(wave.Samples) == 0 {
		return nil, spectral.ErrEmptyWaveform
	}

	if wave.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", spectral.ErrInvalidSampleRate, wave.SampleRate)
	}

	params := fftparams.Derive(wave.SampleRate, opts.ResolutionHz)

	analysis, err := spectral.Analyze(wave, params, spectral.Options{TopDb: opts.TopDb})
	if err != nil {
		return nil, err
	}

	band := bandwidth.Estimate(analysis.Spectrum, opts.CutoffThresholdDb)
	dyn := dynamics.Estimate(wave.Samples, dynamics.Options{NoisePercentile: opts.NoisePercentile})

	result := &Result{
		Summary: Summary{
			BitDepthLabel:     input.BitDepthLabel,
			SampleRate:        wave.SampleRate,
			DurationSec:       wave.Duration(),
			NFFT:              params.WindowSize,
			HopLength:         params.HopLength,
			DynamicRangeDb:    dyn.DynamicRangeDb,
			EffectiveBitDepth: dyn.EffectiveBitDepth,
		},
		NominalBitDepth: format.ExpectedBitDepth,
		Spectral:        analysis,
		Features:        spectral.Features(analysis, opts.RolloffPercent),
		Bandwidth:       &band,
		Dynamics:        &dyn,
	}

	if band.Found {
		cutoff, implied := band.CutoffHz, band.ImpliedSampleRate
		result.Summary.SignificantCutoffHz = &cutoff
		result.Summary.ImpliedSampleRate = &implied
	}

	if factory != nil && opts.Checks&CheckFakeBitDepth != 0 && format.ExpectedBitDepth > types.Depth8 {
		result.BitDepth, err = bitdepth.Authenticity(factory(), format)
		if err != nil {
			return nil, err
		}
	}

	interpretResults(result, opts)

	return result, nil
}

func applyDefaults(opts *Options) {
	defaults := DefaultOptions()
	zeroBands := Bands{}

	if opts.ResolutionHz <= 0 {
		opts.ResolutionHz = defaults.ResolutionHz
	}

	if opts.CutoffThresholdDb == 0 {
		opts.CutoffThresholdDb = defaults.CutoffThresholdDb
	}

	if opts.NoisePercentile <= 0 {
		opts.NoisePercentile = defaults.NoisePercentile
	}

	if opts.TopDb == 0 {
		opts.TopDb = defaults.TopDb
	}

	if opts.RolloffPercent <= 0 {
		opts.RolloffPercent = defaults.RolloffPercent
	}

	if opts.SampleRate == zeroBands {
		opts.SampleRate = defaults.SampleRate
	}

	if opts.DynamicRange == zeroBands {
		opts.DynamicRange = defaults.DynamicRange
	}
}

// referenceBitDepth stands in for the nominal depth of sources that have none (lossy codecs).
const referenceBitDepth = types.Depth16

func interpretResults(result *Result, opts Options) {
	// Fake Sample Rate (missing share of the claimed bandwidth)
	if band := result.Bandwidth; band != nil && opts.Checks&CheckFakeSampleRate != 0 {
		claimed := result.Summary.SampleRate

		issue := Issue{
			Check:      CheckFakeSampleRate,
			Summary:    "No significant frequency content detected",
			Confidence: 0,
		}

		if band.Found {
			missing := max(0, (1-band.ImpliedSampleRate/float64(claimed))*100)
			severity, detected := opts.SampleRate.Match(missing)

			issue.Detected = detected
			issue.Severity = severity
			issue.Confidence = 0.8

			switch severity {
			case SeverityNone:
				issue.Summary = fmt.Sprintf("Genuine %d Hz (content up to %.0f Hz)", claimed, band.CutoffHz)
			case SeverityMild:
				issue.Summary = fmt.Sprintf(
					"Band-limited at %.0f Hz (%.0f%% of the %d Hz bandwidth unused)",
					band.CutoffHz, missing, claimed,
				)
			case SeverityModerate:
				issue.Summary = fmt.Sprintf(
					"Likely lossy source or resampled: content stops at %.0f Hz (%.0f%% unused)",
					band.CutoffHz, missing,
				)
			case SeveritySevere:
				issue.Summary = fmt.Sprintf(
					"Fake %d Hz: upsampled from ~%.0f Hz",
					claimed, band.ImpliedSampleRate,
				)
				issue.Confidence = 0.95
			}
		}

		result.HasFakeSampleRate = issue.Detected
		result.Issues = append(result.Issues, issue)
	}

	// Fake Bit Depth (binary detection, no bands)
	if result.BitDepth != nil && opts.Checks&CheckFakeBitDepth != 0 {
		detected := result.BitDepth.IsPadded

		var (
			severity Severity
			summary  string
		)

		if detected {
			severity = SeveritySevere
			summary = fmt.Sprintf(
				"Fake %d-bit: actually %d-bit (zero-padded)",
				result.BitDepth.Claimed,
				result.BitDepth.Effective,
			)
		} else {
			severity = SeverityNone
			summary = fmt.Sprintf("Genuine %d-bit", result.BitDepth.Claimed)
		}

		result.HasFakeBitDepth = detected
		result.Issues = append(result.Issues, Issue{
			Check:      CheckFakeBitDepth,
			Detected:   detected,
			Severity:   severity,
			Summary:    summary,
			Confidence: 1.0,
		})
	}

	// Dynamic Range (ascending bands: bits of nominal depth left unused)
	if result.Dynamics != nil && opts.Checks&CheckDynamicRange != 0 {
		nominal := result.NominalBitDepth
		confidence := 0.7

		if nominal == types.DepthUnknown {
			nominal = referenceBitDepth
			confidence = 0.5
		}

		effective := result.Dynamics.EffectiveBitDepth
		deficit := int(nominal) - effective //nolint:gosec // bit depths are small constants
		severity, detected := opts.DynamicRange.Match(float64(deficit))

		var summary string

		switch severity {
		case SeverityNone:
			summary = fmt.Sprintf("%d of %d bits in use (%.1f dB)", effective, nominal, result.Dynamics.DynamicRangeDb)
		case SeverityMild:
			summary = fmt.Sprintf("Reduced dynamics: %d of %d bits in use", effective, nominal)
		case SeverityModerate:
			summary = fmt.Sprintf("Narrow dynamics: %d of %d bits in use", effective, nominal)
		case SeveritySevere:
			summary = fmt.Sprintf(
				"Very narrow dynamics: %d of %d bits in use (%.1f dB)",
				effective, nominal, result.Dynamics.DynamicRangeDb,
			)
		}

		result.HasLimitedDynamicRange = detected
		result.Issues = append(result.Issues, Issue{
			Check:      CheckDynamicRange,
			Detected:   detected,
			Severity:   severity,
			Summary:    summary,
			Confidence: confidence,
		})
	}

	// Calculate summary stats
	for _, issue := range result.Issues {
		if issue.Detected {
			result.IssueCount++
		}

		if issue.Severity > result.WorstSeverity {
			result.WorstSeverity = issue.Severity
		}
	}
}
