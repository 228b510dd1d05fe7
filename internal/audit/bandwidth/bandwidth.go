// Package bandwidth finds the highest frequency carrying significant energy and the sample rate it implies.
package bandwidth

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/farcloser/wavewizard/internal/types"
)

const (
	// DefaultThresholdDb is how far below the spectral peak a bin still counts as significant.
	DefaultThresholdDb = -80.0

	epsilon = 1e-10
)

// Estimate scans the averaged spectrum for the highest bin within thresholdDb of the peak.
// Twice that frequency is the lowest sample rate the content could originate from (Nyquist).
// A zero threshold selects DefaultThresholdDb. When no bin clears the threshold, Found is false.
func Estimate(spectrum types.Spectrum, thresholdDb float64) types.BandwidthResult {
	if thresholdDb == 0 {
		thresholdDb = DefaultThresholdDb
	}

	result := types.BandwidthResult{
		ThresholdDb: thresholdDb,
	}

	mags := spectrum.Magnitude
	if len(mags) == 0 || len(mags) != len(spectrum.Frequencies) {
		return result
	}

	result.PeakDb = 20 * math.Log10(floats.Max(mags)+epsilon)
	threshold := math.Pow(10, (result.PeakDb+thresholdDb)/20)

	for i := len(mags) - 1; i >= 0; i-- {
		if mags[i] >= threshold {
			result.Found = true
			result.CutoffHz = spectrum.Frequencies[i]
			result.ImpliedSampleRate = 2 * result.CutoffHz

			break
		}
	}

	return result
}
