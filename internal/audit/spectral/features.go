package spectral

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/farcloser/wavewizard/internal/types"
)

// DefaultRolloffPercent is the share of the frame magnitude kept below the roll-off frequency.
const DefaultRolloffPercent = 0.85

// Features computes per-frame spectral centroid, bandwidth and roll-off from an analysis.
// Silent frames report zero for every descriptor.
func Features(analysis *types.SpectralAnalysis, rolloffPercent float64) *types.SpectralFeatures {
	if analysis == nil || analysis.Magnitude == nil {
		return &types.SpectralFeatures{}
	}

	if rolloffPercent <= 0 || rolloffPercent >= 1 {
		rolloffPercent = DefaultRolloffPercent
	}

	freqs := analysis.Spectrum.Frequencies
	bins, frames := analysis.Magnitude.Dims()

	result := &types.SpectralFeatures{
		Times:     make([]float64, frames),
		Centroid:  make([]float64, frames),
		Bandwidth: make([]float64, frames),
		Rolloff:   make([]float64, frames),
	}

	column := make([]float64, bins)

	for frame := range frames {
		result.Times[frame] = float64(frame*analysis.Params.HopLength) / float64(analysis.SampleRate)

		column = mat.Col(column, frame, analysis.Magnitude)

		total := floats.Sum(column)
		if total <= 0 {
			continue
		}

		centroid := floats.Dot(column, freqs) / total

		var spread, cumulative float64

		rolloffBin := -1
		target := rolloffPercent * total

		for bin, mag := range column {
			diff := freqs[bin] - centroid
			spread += mag / total * diff * diff

			cumulative += mag
			if rolloffBin < 0 && cumulative >= target {
				rolloffBin = bin
			}
		}

		if rolloffBin < 0 {
			rolloffBin = bins - 1
		}

		result.Centroid[frame] = centroid
		result.Bandwidth[frame] = math.Sqrt(spread)
		result.Rolloff[frame] = freqs[rolloffBin]
	}

	return result
}
