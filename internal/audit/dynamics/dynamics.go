// Package dynamics estimates dynamic range and the effective bit depth it implies.
package dynamics

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/farcloser/wavewizard/internal/types"
)

const (
	// DefaultNoisePercentile is the percentile of absolute sample values used as noise floor.
	DefaultNoisePercentile = 0.1

	// DbPerBit is the theoretical signal-to-quantization-noise gain of one bit of linear PCM.
	DbPerBit = 6.02

	epsilon = 1e-10
)

type Options struct {
	NoisePercentile float64 // percentile (0-100] of |x| taken as noise floor (default 0.1)
}

func DefaultOptions() Options {
	return Options{
		NoisePercentile: DefaultNoisePercentile,
	}
}

// Estimate measures RMS level against a low-percentile noise floor.
// An empty input yields a zero result. All-zero input yields 0 dB; mostly silent input yields an extreme range.
func Estimate(samples []float64, opts Options) types.DynamicRangeResult {
	if opts.NoisePercentile <= 0 || opts.NoisePercentile > 100 {
		opts.NoisePercentile = DefaultNoisePercentile
	}

	if len(samples) == 0 {
		return types.DynamicRangeResult{}
	}

	rms := math.Sqrt(floats.Dot(samples, samples) / float64(len(samples)))

	magnitudes := make([]float64, len(samples))
	for i, s := range samples {
		magnitudes[i] = math.Abs(s)
	}

	slices.Sort(magnitudes)

	noise := percentile(magnitudes, opts.NoisePercentile)
	// Floored numerator keeps all-zero input finite (0 dB).
	rangeDb := 20 * math.Log10(math.Max(rms, epsilon)/(noise+epsilon))

	return types.DynamicRangeResult{
		SignalRMS:         rms,
		NoiseFloor:        noise,
		DynamicRangeDb:    rangeDb,
		EffectiveBitDepth: EffectiveBitDepth(rangeDb),
		Samples:           uint64(len(samples)),
	}
}

// EffectiveBitDepth converts a dynamic range in dB into the number of PCM bits it spans.
func EffectiveBitDepth(rangeDb float64) int {
	return int(math.Ceil(rangeDb / DbPerBit))
}

// percentile interpolates linearly between the order statistics surrounding rank p/100*(n-1).
// sorted must be in ascending order.
func percentile(sorted []float64, p float64) float64 {
	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := min(lower+1, len(sorted)-1)
	frac := rank - float64(lower)

	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}
