package wavewizard

import (
	"errors"

	"github.com/farcloser/wavewizard/internal/types"
)

var ErrUnknownSource = errors.New("unknown source")

// Summary is the per-file analysis record consumed by the report layer.
// Cutoff and implied rate are nil when no frequency bin cleared the significance threshold.
type Summary struct {
	BitDepthLabel       string   `json:"bit_depth_label"`
	SampleRate          int      `json:"sample_rate"`
	DurationSec         float64  `json:"duration_sec"`
	NFFT                int      `json:"n_fft"`
	HopLength           int      `json:"hop_length"`
	SignificantCutoffHz *float64 `json:"significant_cutoff_freq,omitempty"`
	ImpliedSampleRate   *float64 `json:"implied_sample_rate,omitempty"`
	DynamicRangeDb      float64  `json:"dynamic_range_db"`
	EffectiveBitDepth   int      `json:"effective_bit_depth"`
}

// Result contains all analysis results.
type Result struct {
	Summary Summary

	// High-level issues
	Issues []Issue

	// Quick access booleans
	HasFakeSampleRate      bool
	HasFakeBitDepth        bool
	HasLimitedDynamicRange bool

	IssueCount    int
	WorstSeverity Severity

	// NominalBitDepth is the integer depth of the source media, DepthUnknown for lossy or float sources.
	NominalBitDepth types.BitDepth

	// Raw analysis results (for inspection and plotting)
	Spectral  *types.SpectralAnalysis
	Features  *types.SpectralFeatures
	Bandwidth *types.BandwidthResult
	Dynamics  *types.DynamicRangeResult
	BitDepth  *types.BitDepthAuthenticity // nil when not requested or not applicable
}

// ReleaseSpectrogram drops the per-frame matrices once they are no longer needed.
// The averaged spectrum and every scalar result are kept.
func (r *Result) ReleaseSpectrogram() {
	if r.Spectral == nil {
		return
	}

	r.Spectral.Magnitude = nil
	r.Spectral.Decibels = nil
}
