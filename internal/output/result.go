// Package output provides shared result serialization for wavewizard JSON output.
package output

import (
	"github.com/farcloser/wavewizard"
	"github.com/farcloser/wavewizard/internal/types"
)

// ResultToMap converts an analysis result into the canonical map structure
// used for JSON and JSONL serialization.
func ResultToMap(result *wavewizard.Result) map[string]any {
	meta := map[string]any{
		"summary": map[string]any{
			"issue_count":    result.IssueCount,
			"worst_severity": result.WorstSeverity.String(),
		},
		"record": SummaryToMap(result.Summary),
	}

	issues := make([]any, 0, len(result.Issues))
	for _, issue := range result.Issues {
		issues = append(issues, map[string]any{
			"check":      issue.Check.String(),
			"detected":   issue.Detected,
			"severity":   issue.Severity.String(),
			"summary":    issue.Summary,
			"confidence": issue.Confidence,
		})
	}

	meta["issues"] = issues

	if r := result.Bandwidth; r != nil {
		meta["bandwidth"] = BandwidthToMap(r)
	}

	if r := result.Dynamics; r != nil {
		meta["dynamics"] = map[string]any{
			"signal_rms":          r.SignalRMS,
			"noise_floor":         r.NoiseFloor,
			"dynamic_range_db":    r.DynamicRangeDb,
			"effective_bit_depth": r.EffectiveBitDepth,
			"samples":             r.Samples,
		}
	}

	if r := result.BitDepth; r != nil {
		meta["bit_depth"] = map[string]any{
			"claimed":   int(r.Claimed),   //nolint:gosec // audio format values are small constants
			"effective": int(r.Effective), //nolint:gosec // audio format values are small constants
			"is_padded": r.IsPadded,
			"samples":   r.Samples,
		}
	}

	if r := result.Spectral; r != nil {
		meta["spectral"] = map[string]any{
			"window_size": r.Params.WindowSize,
			"hop_length":  r.Params.HopLength,
			"frames":      r.Frames,
			"bins":        len(r.Spectrum.Magnitude),
			"bin_hz":      r.Spectrum.BinWidth(),
		}
	}

	return meta
}

// SummaryToMap converts the per-file record to a map. Absent cutoff and implied rate are omitted.
func SummaryToMap(summary wavewizard.Summary) map[string]any {
	meta := map[string]any{
		"bit_depth_label":     summary.BitDepthLabel,
		"sample_rate":         summary.SampleRate,
		"duration_sec":        summary.DurationSec,
		"n_fft":               summary.NFFT,
		"hop_length":          summary.HopLength,
		"dynamic_range_db":    summary.DynamicRangeDb,
		"effective_bit_depth": summary.EffectiveBitDepth,
	}

	if summary.SignificantCutoffHz != nil {
		meta["significant_cutoff_freq"] = *summary.SignificantCutoffHz
	}

	if summary.ImpliedSampleRate != nil {
		meta["implied_sample_rate"] = *summary.ImpliedSampleRate
	}

	return meta
}

// BandwidthToMap converts bandwidth estimation results to a map.
func BandwidthToMap(result *types.BandwidthResult) map[string]any {
	meta := map[string]any{
		"found":        result.Found,
		"peak_db":      result.PeakDb,
		"threshold_db": result.ThresholdDb,
	}

	if result.Found {
		meta["cutoff_hz"] = result.CutoffHz
		meta["implied_sample_rate"] = result.ImpliedSampleRate
	}

	return meta
}
