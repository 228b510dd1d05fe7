//nolint:staticcheck // too dumb on Db vs. DB
package types

import "gonum.org/v1/gonum/mat"

type BitDepth uint

const (
	DepthUnknown BitDepth = 0
	Depth8       BitDepth = 8
	Depth16      BitDepth = 16
	Depth24      BitDepth = 24
	Depth32      BitDepth = 32
)

// PCMFormat of the decoded stream. BitDepth describes the PCM handed to analyzers (always 32-bit, left-justified),
// ExpectedBitDepth is the nominal depth of the original media (DepthUnknown for lossy codecs).
type PCMFormat struct {
	SampleRate       int
	BitDepth         BitDepth
	Channels         uint
	ExpectedBitDepth BitDepth
}

// Waveform is a mono, normalized signal. Analyzers never modify Samples.
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the waveform length in seconds.
func (w *Waveform) Duration() float64 {
	if w == nil || w.SampleRate <= 0 {
		return 0
	}

	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// FFTParams holds the short-time transform geometry derived from a sample rate.
type FFTParams struct {
	WindowSize int
	HopLength  int
}

// Spectrum is a one-sided, time-averaged magnitude spectrum (linear scale).
// Magnitude[i] is the level at Frequencies[i]; frequencies ascend from 0 to Nyquist.
type Spectrum struct {
	Magnitude   []float64
	Frequencies []float64
}

// BinWidth returns the spacing between adjacent bins in Hz.
func (s Spectrum) BinWidth() float64 {
	if len(s.Frequencies) < 2 {
		return 0
	}

	return s.Frequencies[1] - s.Frequencies[0]
}

// SpectralAnalysis contains results returned by the spectral analyzer.
// Magnitude and Decibels are (bins x frames) matrices; they exist for visualization only.
type SpectralAnalysis struct {
	Params     FFTParams
	SampleRate int
	Frames     int
	Magnitude  *mat.Dense
	Decibels   *mat.Dense
	Spectrum   Spectrum
}

// SpectralFeatures are per-frame spectral shape descriptors, in Hz.
type SpectralFeatures struct {
	Times     []float64
	Centroid  []float64
	Bandwidth []float64
	Rolloff   []float64
}

/*
Bandwidth Interpretation

The cutoff is the highest bin whose averaged magnitude is within ThresholdDb of the spectral peak.
Twice the cutoff is the lowest sample rate the content could have been produced at.

| ImpliedSampleRate vs claimed | Interpretation                                  |
|------------------------------|-------------------------------------------------|
| >= claimed                   | Content reaches Nyquist. No evidence of upsampling. |
| 90-100% of claimed           | Normal anti-aliasing roll-off.                  |
| 60-90% of claimed            | Lossy encoder low-pass (MP3/AAC at 44.1 kHz).   |
| < 60% of claimed             | Upsampled from a lower rate (e.g. 44.1k in 96k). |

## Common cutoffs

| Cutoff     | Likely origin                  |
|------------|--------------------------------|
| ~16 kHz    | MP3 128 kbps                   |
| ~19-20 kHz | MP3 256-320 kbps, AAC 256      |
| ~22 kHz    | 44.1 kHz master                |
| ~24 kHz    | 48 kHz master                  |

Not found means no bin cleared the threshold: silence or a degenerate signal.
*/

// BandwidthResult contains results returned by the bandwidth estimator.
type BandwidthResult struct {
	Found             bool    // false when no bin cleared the threshold
	CutoffHz          float64 // highest significant frequency
	ImpliedSampleRate float64 // 2 * CutoffHz
	PeakDb            float64 // level of the strongest bin
	ThresholdDb       float64 // relative threshold used
}

/*
Dynamic Range Interpretation

| EffectiveBitDepth | Interpretation                                   |
|-------------------|--------------------------------------------------|
| <= 8              | Tonal, heavily compressed, or very noisy content |
| 9-14              | Typical mastered music                           |
| 15-16             | Uses the full 16-bit range                       |
| > 16              | Near-silent passages, digital silence or dither  |

The noise floor is a low percentile of absolute sample values, not a measured silence:
digital silence drives it to zero and the dynamic range to an extreme value.
*/

// DynamicRangeResult contains results returned by the dynamic range estimator.
type DynamicRangeResult struct {
	SignalRMS         float64
	NoiseFloor        float64
	DynamicRangeDb    float64
	EffectiveBitDepth int
	Samples           uint64
}

// BitDepthAuthenticity contains results returned by the bitdepth analyzer.
type BitDepthAuthenticity struct {
	Claimed   BitDepth // what the file says it is
	Effective BitDepth // what it actually is
	IsPadded  bool     // Effective < Claimed
	Samples   uint64   // total samples analyzed
}
